package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Platform renders SQL for one database family.
type Platform interface {
	// Name returns the platform name, e.g. "sqlite".
	Name() string

	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string

	// CreateTableSQL returns the statements creating t if it does not exist.
	CreateTableSQL(t *Table) []string

	// DropTableSQL returns the statement dropping table if it exists.
	DropTableSQL(table string) string

	// DeleteSQL returns the statement deleting every row of table.
	DeleteSQL(table string) string

	// ResetSequenceSQL returns the statements restarting t's identity
	// sequence, none if t has no identity column.
	ResetSequenceSQL(t *Table) []string

	// Placeholder returns the bind parameter for the n-th argument, from 1.
	Placeholder(n int) string
}

// PlatformFor returns the platform for a database/sql driver name.
func PlatformFor(driver string) (Platform, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "pgx", "postgres", "postgresql":
		return PostgreSQL{}, nil
	case "mysql":
		return MySQL{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, driver)
	}
}

// SQLite renders SQL for SQLite 3.
type SQLite struct{}

// Name implements Platform.
func (SQLite) Name() string { return "sqlite" }

// QuoteIdentifier implements Platform.
func (SQLite) QuoteIdentifier(name string) string { return quoteWith(name, `"`) }

// CreateTableSQL implements Platform. An identity column has to be the
// single-column primary key and is declared inline.
func (p SQLite) CreateTableSQL(t *Table) []string {
	inlinePK := ""
	if c := sqliteIdentity(t); c != nil {
		inlinePK = c.Name
	}
	return []string{createTable(p, t, inlinePK, func(c *Column) string {
		if c.Name == inlinePK {
			return "INTEGER PRIMARY KEY AUTOINCREMENT"
		}
		return p.columnType(c)
	})}
}

// sqliteIdentity returns the column SQLite can declare AUTOINCREMENT, or nil.
func sqliteIdentity(t *Table) *Column {
	c := t.autoIncrementColumn()
	if c == nil {
		return nil
	}
	switch len(t.PrimaryColumns) {
	case 0:
		return c
	case 1:
		if t.PrimaryColumns[0] == c.Name {
			return c
		}
	}
	return nil
}

func (SQLite) columnType(c *Column) string {
	switch c.Type {
	case TypeInteger:
		return "INTEGER"
	case TypeBigInt:
		return "BIGINT"
	case TypeString:
		return "VARCHAR(" + strconv.Itoa(columnLength(c)) + ")"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeFloat:
		return "DOUBLE PRECISION"
	case TypeDateTime:
		return "DATETIME"
	case TypeDate:
		return "DATE"
	case TypeBlob:
		return "BLOB"
	default:
		return "CLOB"
	}
}

// DropTableSQL implements Platform.
func (p SQLite) DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + p.QuoteIdentifier(table)
}

// DeleteSQL implements Platform.
func (p SQLite) DeleteSQL(table string) string {
	return "DELETE FROM " + p.QuoteIdentifier(table)
}

// ResetSequenceSQL implements Platform.
func (SQLite) ResetSequenceSQL(t *Table) []string {
	if sqliteIdentity(t) == nil {
		return nil
	}
	return []string{"DELETE FROM sqlite_sequence WHERE name = " + quoteString(t.Name)}
}

// Placeholder implements Platform.
func (SQLite) Placeholder(int) string { return "?" }

// PostgreSQL renders SQL for PostgreSQL 10 and later.
type PostgreSQL struct{}

// Name implements Platform.
func (PostgreSQL) Name() string { return "postgresql" }

// QuoteIdentifier implements Platform.
func (PostgreSQL) QuoteIdentifier(name string) string { return quoteWith(name, `"`) }

// CreateTableSQL implements Platform.
func (p PostgreSQL) CreateTableSQL(t *Table) []string {
	return []string{createTable(p, t, "", p.columnType)}
}

func (PostgreSQL) columnType(c *Column) string {
	var typ string
	switch c.Type {
	case TypeInteger:
		typ = "INTEGER"
	case TypeBigInt:
		typ = "BIGINT"
	case TypeString:
		typ = "VARCHAR(" + strconv.Itoa(columnLength(c)) + ")"
	case TypeBoolean:
		typ = "BOOLEAN"
	case TypeFloat:
		typ = "DOUBLE PRECISION"
	case TypeDateTime:
		typ = "TIMESTAMP(0) WITHOUT TIME ZONE"
	case TypeDate:
		typ = "DATE"
	case TypeJSON:
		typ = "JSON"
	case TypeBlob:
		typ = "BYTEA"
	default:
		typ = "TEXT"
	}
	if c.AutoIncrement {
		typ += " GENERATED BY DEFAULT AS IDENTITY"
	}
	return typ
}

// DropTableSQL implements Platform.
func (p PostgreSQL) DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + p.QuoteIdentifier(table) + " CASCADE"
}

// DeleteSQL implements Platform.
func (p PostgreSQL) DeleteSQL(table string) string {
	return "DELETE FROM " + p.QuoteIdentifier(table)
}

// ResetSequenceSQL implements Platform.
func (p PostgreSQL) ResetSequenceSQL(t *Table) []string {
	c := t.autoIncrementColumn()
	if c == nil {
		return nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s RESTART WITH 1",
		p.QuoteIdentifier(t.Name), p.QuoteIdentifier(c.Name))}
}

// Placeholder implements Platform.
func (PostgreSQL) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// MySQL renders SQL for MySQL 8 and MariaDB.
type MySQL struct{}

// Name implements Platform.
func (MySQL) Name() string { return "mysql" }

// QuoteIdentifier implements Platform.
func (MySQL) QuoteIdentifier(name string) string { return quoteWith(name, "`") }

// CreateTableSQL implements Platform.
func (p MySQL) CreateTableSQL(t *Table) []string {
	return []string{createTable(p, t, "", p.columnType) + " ENGINE = InnoDB DEFAULT CHARACTER SET utf8mb4"}
}

func (MySQL) columnType(c *Column) string {
	var typ string
	switch c.Type {
	case TypeInteger:
		typ = "INT"
	case TypeBigInt:
		typ = "BIGINT"
	case TypeString:
		typ = "VARCHAR(" + strconv.Itoa(columnLength(c)) + ")"
	case TypeBoolean:
		typ = "TINYINT(1)"
	case TypeFloat:
		typ = "DOUBLE PRECISION"
	case TypeDateTime:
		typ = "DATETIME"
	case TypeDate:
		typ = "DATE"
	case TypeJSON:
		typ = "JSON"
	case TypeBlob:
		typ = "LONGBLOB"
	default:
		typ = "LONGTEXT"
	}
	if c.AutoIncrement {
		typ += " AUTO_INCREMENT"
	}
	return typ
}

// DropTableSQL implements Platform.
func (p MySQL) DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + p.QuoteIdentifier(table)
}

// DeleteSQL implements Platform.
func (p MySQL) DeleteSQL(table string) string {
	return "DELETE FROM " + p.QuoteIdentifier(table)
}

// ResetSequenceSQL implements Platform.
func (p MySQL) ResetSequenceSQL(t *Table) []string {
	if t.autoIncrementColumn() == nil {
		return nil
	}
	return []string{"ALTER TABLE " + p.QuoteIdentifier(t.Name) + " AUTO_INCREMENT = 1"}
}

// Placeholder implements Platform.
func (MySQL) Placeholder(int) string { return "?" }

// createTable renders CREATE TABLE IF NOT EXISTS. inlinePK names a column
// whose type already carries PRIMARY KEY.
func createTable(p Platform, t *Table, inlinePK string, columnType func(*Column) string) string {
	defs := make([]string, 0, len(t.Columns)+1+len(t.Unique))
	for _, c := range t.Columns {
		def := p.QuoteIdentifier(c.Name) + " " + columnType(c)
		if !c.Nullable && c.Name != inlinePK {
			def += " NOT NULL"
		}
		if c.Default != nil {
			def += " DEFAULT " + literal(p, c.Default)
		}
		defs = append(defs, def)
	}
	if len(t.PrimaryColumns) > 0 && inlinePK == "" {
		defs = append(defs, "PRIMARY KEY ("+quoteList(p, t.PrimaryColumns)+")")
	}
	for _, cols := range t.Unique {
		defs = append(defs, "UNIQUE ("+quoteList(p, cols)+")")
	}
	return "CREATE TABLE IF NOT EXISTS " + p.QuoteIdentifier(t.Name) + " (" + strings.Join(defs, ", ") + ")"
}

func quoteList(p Platform, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = p.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

// quoteWith wraps name in q, doubling any q inside it.
func quoteWith(name, q string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// literal renders a default value as SQL.
func literal(p Platform, v any) string {
	switch v := v.(type) {
	case string:
		return quoteString(v)
	case bool:
		if _, ok := p.(PostgreSQL); ok {
			return strings.ToUpper(strconv.FormatBool(v))
		}
		if v {
			return "1"
		}
		return "0"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	default:
		return quoteString(fmt.Sprint(v))
	}
}

func columnLength(c *Column) int {
	if c.Length <= 0 {
		return DefaultStringLength
	}
	return c.Length
}
