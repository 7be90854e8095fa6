package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersTable(s *Schema) *Table {
	return s.Table("users").
		Integer("id").AutoIncrement().
		String("email", 180).
		Boolean("active").Default(true).
		PrimaryKey("id").
		UniqueIndex("email")
}

func TestSchema_TableDeclaresOnce(t *testing.T) {
	s := New()
	first := s.Table("users")
	second := s.Table("users")
	s.Table("posts")

	assert.Same(t, first, second)
	require.Len(t, s.Tables(), 2)
	assert.Equal(t, "users", s.Tables()[0].Name)
	assert.Equal(t, "posts", s.Tables()[1].Name)
	assert.Nil(t, s.Lookup("comments"))
}

func TestTable_Builders(t *testing.T) {
	s := New()
	tbl := usersTable(s).Text("bio").Nullable()

	require.Len(t, tbl.Columns, 4)
	assert.Equal(t, &Column{Name: "id", Type: TypeInteger, AutoIncrement: true}, tbl.Columns[0])
	assert.Equal(t, &Column{Name: "email", Type: TypeString, Length: 180}, tbl.Columns[1])
	assert.Equal(t, &Column{Name: "active", Type: TypeBoolean, Default: true}, tbl.Columns[2])
	assert.Equal(t, &Column{Name: "bio", Type: TypeText, Nullable: true}, tbl.Columns[3])
	assert.Equal(t, []string{"id"}, tbl.PrimaryColumns)
	assert.Equal(t, [][]string{{"email"}}, tbl.Unique)
	assert.Same(t, tbl.Columns[0], tbl.autoIncrementColumn())
}

func TestTable_StringDefaultLength(t *testing.T) {
	tbl := New().Table("t").String("name", 0)
	assert.Equal(t, DefaultStringLength, tbl.Columns[0].Length)
}

func TestTable_ModifierWithoutColumn(t *testing.T) {
	tbl := New().Table("t").Nullable().Default(1)
	assert.Empty(t, tbl.Columns)
}

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		build   func(*Schema)
		wantErr string
	}{
		{
			name:  "valid",
			build: func(s *Schema) { usersTable(s) },
		},
		{
			name:    "no columns",
			build:   func(s *Schema) { s.Table("empty") },
			wantErr: "table empty has no columns",
		},
		{
			name:    "unknown primary key column",
			build:   func(s *Schema) { s.Table("t").Integer("id").PrimaryKey("uuid") },
			wantErr: "table t: primary key column uuid is not declared",
		},
		{
			name:    "unknown unique column",
			build:   func(s *Schema) { s.Table("t").Integer("id").UniqueIndex("id", "slug") },
			wantErr: "table t: unique column slug is not declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.build(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValues(t *testing.T) {
	row := Values("id", 1, "name", "alice")
	assert.Equal(t, Row{{Column: "id", Value: 1}, {Column: "name", Value: "alice"}}, row)
	assert.Equal(t, []string{"id", "name"}, row.Columns())

	assert.Panics(t, func() { Values("id") })
	assert.Panics(t, func() { Values(1, "id") })
}

func TestDataSet(t *testing.T) {
	d := NewDataSet().
		Insert("users", Values("id", 1)).
		Insert("posts", Values("id", 10)).
		Insert("users", Values("id", 2))

	tables := d.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "users", tables[0].Table)
	assert.Len(t, tables[0].Rows, 2)
	assert.Equal(t, "posts", tables[1].Table)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []Row{Values("id", 10)}, d.Rows("posts"))
	assert.Nil(t, d.Rows("comments"))
}
