package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is.
var (
	// ErrSchemaApplication means a DDL or cleanup statement failed.
	ErrSchemaApplication = errors.New("schema application failed")

	// ErrDataSeeding means a row insert failed.
	ErrDataSeeding = errors.New("data seeding failed")

	// ErrUnknownPlatform means no Platform exists for a driver name.
	ErrUnknownPlatform = errors.New("unknown database platform")
)

// Operations reported by SchemaError.
const (
	OpCreate = "create"
	OpDelete = "delete"
	OpReset  = "reset"
)

// SchemaError reports the statement that failed while creating tables,
// deleting rows or resetting sequences. Statements after it were not run.
type SchemaError struct {
	Op        string
	Table     string
	Statement string
	Err       error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s table %s: %v\nstatement: %s", ErrSchemaApplication, e.Op, e.Table, e.Err, e.Statement)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSchemaApplication.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaApplication
}

// DataError reports the row that failed to insert. Rows after it were not
// inserted.
type DataError struct {
	Table string
	// Row is the index of the row within its table.
	Row int
	Err error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s: table %s row %d: %v", ErrDataSeeding, e.Table, e.Row, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDataSeeding.
func (e *DataError) Is(target error) bool {
	return target == ErrDataSeeding
}
