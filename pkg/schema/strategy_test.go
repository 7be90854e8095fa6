package schema

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daFish/functional-test-helpers/pkg/logging"
)

func openSQLite(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	// An in-memory database lives on one connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "`+table+`"`).Scan(&n))
	return n
}

// recordingExecutor records statements and fails the ones listed in fail.
type recordingExecutor struct {
	statements []string
	fail       map[string]error
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	e.statements = append(e.statements, query)
	if err, ok := e.fail[query]; ok {
		return nil, err
	}
	return nil, nil
}

func TestMemoryStrategy_SchemaAndData(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t, ":memory:")

	s := New()
	s.Table("order").Integer("id").String("group", 0).PrimaryKey("id")
	d := NewDataSet().Insert("order", Values("id", 1, "group", "alice"))

	strategy := NewMemoryStrategy(SQLite{}, WithLogger(logging.ForTest(t, logging.LevelDebug)))
	require.NoError(t, strategy.ApplySchema(ctx, s, db))
	require.NoError(t, strategy.ApplyData(ctx, d, db))

	assert.Equal(t, 1, countRows(t, db, "order"))

	var (
		id    int
		group string
	)
	require.NoError(t, db.QueryRow(`SELECT "id", "group" FROM "order"`).Scan(&id, &group))
	assert.Equal(t, 1, id)
	assert.Equal(t, "alice", group)
}

func TestMemoryStrategy_CleanupIsNoop(t *testing.T) {
	ctx := context.Background()
	exec := &recordingExecutor{}

	strategy := NewMemoryStrategy(SQLite{})
	require.NoError(t, strategy.DeleteData(ctx, exec))
	require.NoError(t, strategy.ResetSequences(ctx, exec))
	assert.Empty(t, exec.statements)

	db := openSQLite(t, ":memory:")
	require.NoError(t, strategy.DeleteData(ctx, db))
	require.NoError(t, strategy.ResetSequences(ctx, db))
}

func TestMemoryStrategy_ApplySchemaTwice(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t, ":memory:")
	s := New()
	usersTable(s)

	strategy := NewMemoryStrategy(SQLite{})
	require.NoError(t, strategy.ApplySchema(ctx, s, db))
	require.NoError(t, strategy.ApplySchema(ctx, s, db))
}

func TestStrategy_SchemaError(t *testing.T) {
	s := New()
	s.Table("a").Integer("id")
	s.Table("b").Integer("id")
	failing := SQLite{}.CreateTableSQL(s.Lookup("a"))[0]
	exec := &recordingExecutor{fail: map[string]error{failing: errors.New("disk full")}}

	err := NewMemoryStrategy(SQLite{}).ApplySchema(context.Background(), s, exec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaApplication)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpCreate, se.Op)
	assert.Equal(t, "a", se.Table)
	assert.Equal(t, failing, se.Statement)
	assert.EqualError(t, se.Err, "disk full")
	assert.Len(t, exec.statements, 1, "tables after the failure are not created")
}

func TestStrategy_DataError(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t, ":memory:")
	s := New()
	s.Table("users").Integer("id").PrimaryKey("id")

	strategy := NewMemoryStrategy(SQLite{})
	require.NoError(t, strategy.ApplySchema(ctx, s, db))

	d := NewDataSet().Insert("users", Values("id", 1), Values("id", 1), Values("id", 2))
	err := strategy.ApplyData(ctx, d, db)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSeeding)

	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "users", de.Table)
	assert.Equal(t, 1, de.Row)
	assert.Equal(t, 1, countRows(t, db, "users"))

	err = strategy.ApplyData(ctx, NewDataSet().Insert("missing", Values("id", 1)), db)
	assert.ErrorIs(t, err, ErrDataSeeding)
}

func TestPersistentStrategy_StatementOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	usersTable(s)
	s.Table("posts").Integer("id").AutoIncrement().Integer("user_id")
	exec := &recordingExecutor{}

	strategy := NewPersistentStrategy(PostgreSQL{})
	require.NoError(t, strategy.ApplySchema(ctx, s, exec))
	assert.Equal(t, []string{"users", "posts"}, strategy.Applied())

	exec.statements = nil
	require.NoError(t, strategy.ApplySchema(ctx, s, exec))
	assert.Empty(t, exec.statements, "applied tables are not created again")

	require.NoError(t, strategy.DeleteData(ctx, exec))
	require.NoError(t, strategy.ResetSequences(ctx, exec))
	assert.Equal(t, []string{
		`DELETE FROM "posts"`,
		`DELETE FROM "users"`,
		`ALTER TABLE "users" ALTER COLUMN "id" RESTART WITH 1`,
		`ALTER TABLE "posts" ALTER COLUMN "id" RESTART WITH 1`,
	}, exec.statements)
}

func TestPersistentStrategy_SQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fixtures.db")

	s := New()
	s.Table("users").Integer("id").AutoIncrement().String("email", 0).PrimaryKey("id")
	data := NewDataSet().Insert("users",
		Values("email", "a@example.com"),
		Values("email", "b@example.com"),
	)

	db := openSQLite(t, path)
	fixture := &Fixture{Strategy: NewPersistentStrategy(SQLite{}), Schema: s, Data: data}
	fixture.SetupT(t, db)
	fixture.SetupT(t, db)

	assert.Equal(t, 2, countRows(t, db, "users"))
	var maxID int
	require.NoError(t, db.QueryRow(`SELECT MAX(id) FROM users`).Scan(&maxID))
	assert.Equal(t, 2, maxID, "sequence restarts on every setup")

	// A new process finds the rows of the previous one.
	require.NoError(t, db.Close())
	db = openSQLite(t, path)
	next := &Fixture{Strategy: NewPersistentStrategy(SQLite{}), Schema: s, Data: NewDataSet().Insert("users", Values("email", "c@example.com"))}
	require.NoError(t, next.Setup(ctx, db))

	var (
		id    int
		email string
	)
	require.NoError(t, db.QueryRow(`SELECT id, email FROM users`).Scan(&id, &email))
	assert.Equal(t, 1, id)
	assert.Equal(t, "c@example.com", email)
	assert.Equal(t, 1, countRows(t, db, "users"))
}

func TestFixture_SetupWithoutData(t *testing.T) {
	db := openSQLite(t, ":memory:")
	s := New()
	s.Table("t").Integer("id")

	f := &Fixture{Strategy: NewMemoryStrategy(SQLite{}), Schema: s}
	require.NoError(t, f.Setup(context.Background(), db))
	assert.Equal(t, 0, countRows(t, db, "t"))
}

func TestFixture_SetupStopsAtFirstError(t *testing.T) {
	s := New()
	usersTable(s)
	strategy := NewPersistentStrategy(SQLite{})
	exec := &recordingExecutor{}
	require.NoError(t, strategy.ApplySchema(context.Background(), s, exec))

	exec = &recordingExecutor{fail: map[string]error{`DELETE FROM "users"`: errors.New("locked")}}
	f := &Fixture{Strategy: strategy, Schema: s, Data: NewDataSet().Insert("users", Values("id", 1))}
	err := f.Setup(context.Background(), exec)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpDelete, se.Op)
	assert.Equal(t, []string{`DELETE FROM "users"`}, exec.statements)
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("memory", SQLite{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStrategy{}, s)

	s, err = NewStrategy("Persistent", PostgreSQL{})
	require.NoError(t, err)
	assert.IsType(t, &PersistentStrategy{}, s)

	_, err = NewStrategy("transactional", SQLite{})
	assert.EqualError(t, err, `unknown schema strategy "transactional"`)
}
