package schema

import "fmt"

// ColumnType is a portable column type, mapped to SQL by each Platform.
type ColumnType string

// Column types.
const (
	TypeInteger  ColumnType = "integer"
	TypeBigInt   ColumnType = "bigint"
	TypeString   ColumnType = "string"
	TypeText     ColumnType = "text"
	TypeBoolean  ColumnType = "boolean"
	TypeFloat    ColumnType = "float"
	TypeDateTime ColumnType = "datetime"
	TypeDate     ColumnType = "date"
	TypeJSON     ColumnType = "json"
	TypeBlob     ColumnType = "blob"
)

// DefaultStringLength is the length of string columns declared without one.
const DefaultStringLength = 255

// Column is one column of a table.
type Column struct {
	Name string
	Type ColumnType

	// Length applies to string columns.
	Length int

	Nullable bool

	// Default is rendered as a SQL literal. nil means no default.
	Default any

	// AutoIncrement makes the column an identity column.
	AutoIncrement bool
}

// Table is a table definition. Its builder methods add a column and return
// the table; modifiers such as Nullable apply to the last added column.
type Table struct {
	Name           string
	Columns        []*Column
	PrimaryColumns []string
	Unique         [][]string
}

// Schema is an ordered set of tables.
type Schema struct {
	tables []*Table
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{}
}

// Table returns the table called name, declaring it if needed.
func (s *Schema) Table(name string) *Table {
	if t := s.Lookup(name); t != nil {
		return t
	}
	t := &Table{Name: name}
	s.tables = append(s.tables, t)
	return t
}

// Lookup returns the table called name, or nil.
func (s *Schema) Lookup(name string) *Table {
	for _, t := range s.tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// Validate checks that keys refer to declared columns.
func (s *Schema) Validate() error {
	for _, t := range s.tables {
		if len(t.Columns) == 0 {
			return fmt.Errorf("table %s has no columns", t.Name)
		}
		for _, name := range t.PrimaryColumns {
			if t.Column(name) == nil {
				return fmt.Errorf("table %s: primary key column %s is not declared", t.Name, name)
			}
		}
		for _, cols := range t.Unique {
			for _, name := range cols {
				if t.Column(name) == nil {
					return fmt.Errorf("table %s: unique column %s is not declared", t.Name, name)
				}
			}
		}
	}
	return nil
}

// Column returns the column called name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddColumn appends c.
func (t *Table) AddColumn(c *Column) *Table {
	t.Columns = append(t.Columns, c)
	return t
}

func (t *Table) add(name string, typ ColumnType) *Table {
	return t.AddColumn(&Column{Name: name, Type: typ})
}

// Integer adds an integer column.
func (t *Table) Integer(name string) *Table { return t.add(name, TypeInteger) }

// BigInt adds a 64-bit integer column.
func (t *Table) BigInt(name string) *Table { return t.add(name, TypeBigInt) }

// String adds a variable length string column. length <= 0 means DefaultStringLength.
func (t *Table) String(name string, length int) *Table {
	if length <= 0 {
		length = DefaultStringLength
	}
	return t.AddColumn(&Column{Name: name, Type: TypeString, Length: length})
}

// Text adds an unbounded text column.
func (t *Table) Text(name string) *Table { return t.add(name, TypeText) }

// Boolean adds a boolean column.
func (t *Table) Boolean(name string) *Table { return t.add(name, TypeBoolean) }

// Float adds a double precision column.
func (t *Table) Float(name string) *Table { return t.add(name, TypeFloat) }

// DateTime adds a timestamp column without time zone.
func (t *Table) DateTime(name string) *Table { return t.add(name, TypeDateTime) }

// Date adds a date column.
func (t *Table) Date(name string) *Table { return t.add(name, TypeDate) }

// JSON adds a JSON column.
func (t *Table) JSON(name string) *Table { return t.add(name, TypeJSON) }

// Blob adds a binary column.
func (t *Table) Blob(name string) *Table { return t.add(name, TypeBlob) }

func (t *Table) last() *Column {
	if len(t.Columns) == 0 {
		return &Column{}
	}
	return t.Columns[len(t.Columns)-1]
}

// Nullable allows NULL in the last added column.
func (t *Table) Nullable() *Table {
	t.last().Nullable = true
	return t
}

// Default sets the default value of the last added column.
func (t *Table) Default(v any) *Table {
	t.last().Default = v
	return t
}

// AutoIncrement makes the last added column an identity column.
func (t *Table) AutoIncrement() *Table {
	t.last().AutoIncrement = true
	return t
}

// PrimaryKey sets the primary key columns.
func (t *Table) PrimaryKey(columns ...string) *Table {
	t.PrimaryColumns = columns
	return t
}

// UniqueIndex adds a unique constraint over columns.
func (t *Table) UniqueIndex(columns ...string) *Table {
	t.Unique = append(t.Unique, columns)
	return t
}

// autoIncrementColumn returns the identity column, or nil.
func (t *Table) autoIncrementColumn() *Column {
	for _, c := range t.Columns {
		if c.AutoIncrement {
			return c
		}
	}
	return nil
}
