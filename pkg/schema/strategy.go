package schema

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/daFish/functional-test-helpers/pkg/logging"
)

// Executor runs statements. *sql.DB, *sql.Tx and *sql.Conn satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Strategy applies schema and data to a test database and cleans it.
type Strategy interface {
	ApplySchema(ctx context.Context, s *Schema, db Executor) error
	ApplyData(ctx context.Context, d *DataSet, db Executor) error
	DeleteData(ctx context.Context, db Executor) error
	ResetSequences(ctx context.Context, db Executor) error
}

// Option configures a strategy.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger. Statements log at debug.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Strategy names accepted by NewStrategy.
const (
	StrategyMemory     = "memory"
	StrategyPersistent = "persistent"
)

// NewStrategy returns the strategy called name for platform p.
func NewStrategy(name string, p Platform, opts ...Option) (Strategy, error) {
	switch strings.ToLower(name) {
	case StrategyMemory, "":
		return NewMemoryStrategy(p, opts...), nil
	case StrategyPersistent:
		return NewPersistentStrategy(p, opts...), nil
	default:
		return nil, fmt.Errorf("unknown schema strategy %q", name)
	}
}

// MemoryStrategy is for databases created empty for every test.
// DeleteData and ResetSequences do nothing.
type MemoryStrategy struct {
	platform Platform
	opts     options
}

// NewMemoryStrategy returns a MemoryStrategy for platform p.
func NewMemoryStrategy(p Platform, opts ...Option) *MemoryStrategy {
	return &MemoryStrategy{platform: p, opts: buildOptions(opts)}
}

// ApplySchema creates every table of s in declaration order.
func (m *MemoryStrategy) ApplySchema(ctx context.Context, s *Schema, db Executor) error {
	return createTables(ctx, m.platform, s.Tables(), db, m.opts.log)
}

// ApplyData inserts every row of d in declaration order.
func (m *MemoryStrategy) ApplyData(ctx context.Context, d *DataSet, db Executor) error {
	return insertRows(ctx, m.platform, d, db, m.opts.log)
}

// DeleteData does nothing.
func (m *MemoryStrategy) DeleteData(context.Context, Executor) error { return nil }

// ResetSequences does nothing.
func (m *MemoryStrategy) ResetSequences(context.Context, Executor) error { return nil }

// PersistentStrategy is for a database that outlives a single test.
//
// It remembers the tables it created. DeleteData empties them in reverse
// declaration order and ResetSequences restarts their identity columns. The
// first ApplySchema of a table in a process also empties it, since rows may
// be left over from an earlier run.
//
// A PersistentStrategy is bound to one database.
type PersistentStrategy struct {
	platform Platform
	opts     options
	applied  []*Table
}

// NewPersistentStrategy returns a PersistentStrategy for platform p.
func NewPersistentStrategy(p Platform, opts ...Option) *PersistentStrategy {
	return &PersistentStrategy{platform: p, opts: buildOptions(opts)}
}

// ApplySchema creates the tables of s that do not exist yet.
func (ps *PersistentStrategy) ApplySchema(ctx context.Context, s *Schema, db Executor) error {
	var fresh []*Table
	for _, t := range s.Tables() {
		if !ps.isApplied(t.Name) {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	if err := createTables(ctx, ps.platform, fresh, db, ps.opts.log); err != nil {
		return err
	}
	if err := deleteRows(ctx, ps.platform, fresh, db, ps.opts.log); err != nil {
		return err
	}
	if err := resetSequences(ctx, ps.platform, fresh, db, ps.opts.log); err != nil {
		return err
	}
	ps.applied = append(ps.applied, fresh...)
	return nil
}

// ApplyData inserts every row of d in declaration order.
func (ps *PersistentStrategy) ApplyData(ctx context.Context, d *DataSet, db Executor) error {
	return insertRows(ctx, ps.platform, d, db, ps.opts.log)
}

// DeleteData deletes all rows of the applied tables, last declared first.
func (ps *PersistentStrategy) DeleteData(ctx context.Context, db Executor) error {
	return deleteRows(ctx, ps.platform, ps.applied, db, ps.opts.log)
}

// ResetSequences restarts the identity columns of the applied tables.
func (ps *PersistentStrategy) ResetSequences(ctx context.Context, db Executor) error {
	return resetSequences(ctx, ps.platform, ps.applied, db, ps.opts.log)
}

// Applied returns the names of the tables created so far.
func (ps *PersistentStrategy) Applied() []string {
	names := make([]string, len(ps.applied))
	for i, t := range ps.applied {
		names[i] = t.Name
	}
	return names
}

func (ps *PersistentStrategy) isApplied(name string) bool {
	return slices.ContainsFunc(ps.applied, func(t *Table) bool { return t.Name == name })
}

func createTables(ctx context.Context, p Platform, tables []*Table, db Executor, log *slog.Logger) error {
	for _, t := range tables {
		for _, stmt := range p.CreateTableSQL(t) {
			log.Debug("create table", "table", t.Name, "sql", stmt)
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return &SchemaError{Op: OpCreate, Table: t.Name, Statement: stmt, Err: err}
			}
		}
	}
	return nil
}

func deleteRows(ctx context.Context, p Platform, tables []*Table, db Executor, log *slog.Logger) error {
	for _, t := range slices.Backward(tables) {
		stmt := p.DeleteSQL(t.Name)
		log.Debug("delete rows", "table", t.Name)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return &SchemaError{Op: OpDelete, Table: t.Name, Statement: stmt, Err: err}
		}
	}
	return nil
}

func resetSequences(ctx context.Context, p Platform, tables []*Table, db Executor, log *slog.Logger) error {
	for _, t := range tables {
		for _, stmt := range p.ResetSequenceSQL(t) {
			log.Debug("reset sequence", "table", t.Name)
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return &SchemaError{Op: OpReset, Table: t.Name, Statement: stmt, Err: err}
			}
		}
	}
	return nil
}

func insertRows(ctx context.Context, p Platform, d *DataSet, db Executor, log *slog.Logger) error {
	for _, td := range d.Tables() {
		for i, row := range td.Rows {
			stmt, args, err := InsertSQL(p, td.Table, row)
			if err != nil {
				return &DataError{Table: td.Table, Row: i, Err: err}
			}
			if _, err := db.ExecContext(ctx, stmt, args...); err != nil {
				return &DataError{Table: td.Table, Row: i, Err: err}
			}
		}
		log.Debug("rows inserted", "table", td.Table, "rows", len(td.Rows))
	}
	return nil
}

// InsertSQL renders an INSERT of row into table with quoted identifiers.
// Map and slice values are encoded as JSON text.
func InsertSQL(p Platform, table string, row Row) (string, []any, error) {
	if len(row) == 0 {
		return "", nil, fmt.Errorf("empty row")
	}
	cols := make([]string, len(row))
	marks := make([]string, len(row))
	args := make([]any, len(row))
	for i, v := range row {
		cols[i] = p.QuoteIdentifier(v.Column)
		marks[i] = p.Placeholder(i + 1)
		arg, err := bindValue(v.Value)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", v.Column, err)
		}
		args[i] = arg
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		p.QuoteIdentifier(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	return stmt, args, nil
}

func bindValue(v any) (any, error) {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	default:
		return v, nil
	}
}
