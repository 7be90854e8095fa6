package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{driver: "sqlite3", want: "sqlite"},
		{driver: "SQLite", want: "sqlite"},
		{driver: "pgx", want: "postgresql"},
		{driver: "postgres", want: "postgresql"},
		{driver: "mysql", want: "mysql"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			p, err := PlatformFor(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}

	_, err := PlatformFor("oracle")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPlatform_CreateTableSQL(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		want     string
	}{
		{
			name:     "sqlite",
			platform: SQLite{},
			want: `CREATE TABLE IF NOT EXISTS "users" (` +
				`"id" INTEGER PRIMARY KEY AUTOINCREMENT, ` +
				`"email" VARCHAR(180) NOT NULL, ` +
				`"active" BOOLEAN NOT NULL DEFAULT 1, ` +
				`UNIQUE ("email"))`,
		},
		{
			name:     "postgresql",
			platform: PostgreSQL{},
			want: `CREATE TABLE IF NOT EXISTS "users" (` +
				`"id" INTEGER GENERATED BY DEFAULT AS IDENTITY NOT NULL, ` +
				`"email" VARCHAR(180) NOT NULL, ` +
				`"active" BOOLEAN NOT NULL DEFAULT TRUE, ` +
				`PRIMARY KEY ("id"), ` +
				`UNIQUE ("email"))`,
		},
		{
			name:     "mysql",
			platform: MySQL{},
			want: "CREATE TABLE IF NOT EXISTS `users` (" +
				"`id` INT AUTO_INCREMENT NOT NULL, " +
				"`email` VARCHAR(180) NOT NULL, " +
				"`active` TINYINT(1) NOT NULL DEFAULT 1, " +
				"PRIMARY KEY (`id`), " +
				"UNIQUE (`email`)) ENGINE = InnoDB DEFAULT CHARACTER SET utf8mb4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := usersTable(New())
			assert.Equal(t, []string{tt.want}, tt.platform.CreateTableSQL(tbl))
		})
	}
}

func TestSQLite_CompositeKeyKeepsAutoIncrementOut(t *testing.T) {
	tbl := New().Table("tags").
		Integer("post_id").AutoIncrement().
		String("tag", 50).
		PrimaryKey("post_id", "tag")

	assert.Equal(t, []string{
		`CREATE TABLE IF NOT EXISTS "tags" ("post_id" INTEGER NOT NULL, "tag" VARCHAR(50) NOT NULL, PRIMARY KEY ("post_id", "tag"))`,
	}, SQLite{}.CreateTableSQL(tbl))
	assert.Empty(t, SQLite{}.ResetSequenceSQL(tbl))
}

func TestPlatform_ColumnTypes(t *testing.T) {
	tbl := New().Table("t").
		BigInt("a").
		Text("b").Nullable().
		Float("c").
		DateTime("d").
		Date("e").
		JSON("f").
		Blob("g").
		String("h", 0).Default("it's")

	assert.Equal(t, []string{`CREATE TABLE IF NOT EXISTS "t" (` +
		`"a" BIGINT NOT NULL, "b" TEXT, "c" DOUBLE PRECISION NOT NULL, ` +
		`"d" TIMESTAMP(0) WITHOUT TIME ZONE NOT NULL, "e" DATE NOT NULL, "f" JSON NOT NULL, ` +
		`"g" BYTEA NOT NULL, "h" VARCHAR(255) NOT NULL DEFAULT 'it''s')`,
	}, PostgreSQL{}.CreateTableSQL(tbl))

	assert.Equal(t, []string{"CREATE TABLE IF NOT EXISTS `t` (" +
		"`a` BIGINT NOT NULL, `b` LONGTEXT, `c` DOUBLE PRECISION NOT NULL, " +
		"`d` DATETIME NOT NULL, `e` DATE NOT NULL, `f` JSON NOT NULL, " +
		"`g` LONGBLOB NOT NULL, `h` VARCHAR(255) NOT NULL DEFAULT 'it''s') ENGINE = InnoDB DEFAULT CHARACTER SET utf8mb4",
	}, MySQL{}.CreateTableSQL(tbl))
}

func TestPlatform_Cleanup(t *testing.T) {
	tbl := usersTable(New())

	assert.Equal(t, `DELETE FROM "users"`, SQLite{}.DeleteSQL("users"))
	assert.Equal(t, []string{`DELETE FROM sqlite_sequence WHERE name = 'users'`}, SQLite{}.ResetSequenceSQL(tbl))
	assert.Equal(t, `DROP TABLE IF EXISTS "users"`, SQLite{}.DropTableSQL("users"))

	assert.Equal(t, []string{`ALTER TABLE "users" ALTER COLUMN "id" RESTART WITH 1`}, PostgreSQL{}.ResetSequenceSQL(tbl))
	assert.Equal(t, `DROP TABLE IF EXISTS "users" CASCADE`, PostgreSQL{}.DropTableSQL("users"))

	assert.Equal(t, []string{"ALTER TABLE `users` AUTO_INCREMENT = 1"}, MySQL{}.ResetSequenceSQL(tbl))
	assert.Equal(t, "DELETE FROM `users`", MySQL{}.DeleteSQL("users"))

	plain := New().Table("plain").Integer("id")
	for _, p := range []Platform{SQLite{}, PostgreSQL{}, MySQL{}} {
		assert.Empty(t, p.ResetSequenceSQL(plain), p.Name())
	}
}

func TestPlatform_QuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"we""ird"`, SQLite{}.QuoteIdentifier(`we"ird`))
	assert.Equal(t, "`we``ird`", MySQL{}.QuoteIdentifier("we`ird"))
}

func TestPlatform_Placeholder(t *testing.T) {
	assert.Equal(t, "?", SQLite{}.Placeholder(3))
	assert.Equal(t, "?", MySQL{}.Placeholder(3))
	assert.Equal(t, "$3", PostgreSQL{}.Placeholder(3))
}

func TestInsertSQL(t *testing.T) {
	stmt, args, err := InsertSQL(PostgreSQL{}, "users", Values(
		"email", "a@example.com",
		"meta", map[string]any{"role": "admin"},
		"tags", []any{"x", "y"},
		"avatar", []byte{0x1},
	))
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO "users" ("email", "meta", "tags", "avatar") VALUES ($1, $2, $3, $4)`, stmt)
	assert.Equal(t, []any{"a@example.com", `{"role":"admin"}`, `["x","y"]`, []byte{0x1}}, args)

	_, _, err = InsertSQL(SQLite{}, "users", Row{})
	assert.Error(t, err)
}
