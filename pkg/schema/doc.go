// Package schema prepares a test database: it creates declared tables and
// seeds declared rows before each test.
//
// A Schema lists tables and their columns; a DataSet lists rows per table.
// Both are built in code or loaded from YAML with LoadSchema and LoadData:
//
//	s := schema.New()
//	s.Table("users").
//		Integer("id").AutoIncrement().
//		String("name", 100).
//		Boolean("active").Default(true).
//		PrimaryKey("id")
//
//	data := schema.NewDataSet().
//		Insert("users", schema.Values("id", 1, "name", "alice"))
//
// A Platform renders SQL for one database family (SQLite, PostgreSQL,
// MySQL). A Strategy applies schema and data through any Executor such as
// *sql.DB or *sql.Tx:
//
//   - MemoryStrategy is for databases created fresh per test, e.g. SQLite
//     ":memory:". Deleting data and resetting sequences are no-ops.
//   - PersistentStrategy is for a database shared between tests. It deletes
//     rows and resets identity sequences of the tables it applied.
//
// Fixture runs the per-test lifecycle: delete data, reset sequences, apply
// schema, apply data. Failures stop at the first statement and are returned
// as *SchemaError or *DataError.
package schema
