package cli

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/daFish/functional-test-helpers/pkg/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Apply or reset database fixtures",
		Long: `Create the tables of a schema fixture, seed them from a data fixture, or
empty them again.

The database is chosen with --driver (sqlite3, pgx, mysql) and --dsn, or the
driver and dsn keys of .fth.yaml.`,
	}

	pf := cmd.PersistentFlags()
	pf.StringP("schema", "s", "", "Schema fixture file")
	pf.String("driver", "", "database/sql driver: sqlite3, pgx, mysql")
	pf.String("dsn", "", "Data source name")
	_ = cmd.MarkPersistentFlagRequired("schema")

	cmd.AddCommand(newSchemaApplyCmd(a), newSchemaResetCmd(a))
	return cmd
}

func newSchemaApplyCmd(a *app) *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create tables and insert seed data",
		Example: `  fth schema apply --schema schema.yaml --data data.yaml --driver sqlite3 --dsn test.db
  FTH_DSN=postgres://app@localhost/app_test fth schema apply -s schema.yaml --driver pgx --strategy persistent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(cmd)
			if err != nil {
				return err
			}
			data := schema.NewDataSet()
			if dataFile != "" {
				if data, err = schema.LoadData(dataFile); err != nil {
					return err
				}
			}
			strategy, err := a.strategy()
			if err != nil {
				return err
			}

			return a.withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				f := &schema.Fixture{Strategy: strategy, Schema: s, Data: data}
				if err := f.Setup(ctx, db); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "applied %d tables, inserted %d rows\n", len(s.Tables()), data.Len())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dataFile, "data", "", "Data fixture file")
	cmd.Flags().String("strategy", "", "Schema strategy: memory, persistent")
	return cmd
}

func newSchemaResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all rows and restart identity sequences",
		Long: `Delete all rows of the schema's tables and restart their identity
sequences. Missing tables are created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(cmd)
			if err != nil {
				return err
			}
			platform, err := schema.PlatformFor(a.cfg.Driver)
			if err != nil {
				return err
			}

			return a.withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				// A fresh persistent strategy empties every table it applies.
				strategy := schema.NewPersistentStrategy(platform, schema.WithLogger(a.log))
				if err := strategy.ApplySchema(ctx, s, db); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "reset %d tables\n", len(strategy.Applied()))
				return nil
			})
		},
	}
}

func (a *app) loadSchema(cmd *cobra.Command) (*schema.Schema, error) {
	path, err := cmd.Flags().GetString("schema")
	if err != nil {
		return nil, err
	}
	return schema.LoadSchema(path)
}

func (a *app) strategy() (schema.Strategy, error) {
	platform, err := schema.PlatformFor(a.cfg.Driver)
	if err != nil {
		return nil, err
	}
	return schema.NewStrategy(a.cfg.Strategy, platform, schema.WithLogger(a.log))
}

func (a *app) withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := sql.Open(a.cfg.Driver, a.cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	// An in-memory SQLite database lives on one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.log.Debug("database connected", "driver", a.cfg.Driver)
	return fn(ctx, db)
}
