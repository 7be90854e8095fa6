package schema

import (
	"context"
	"testing"
)

// Fixture is the database state a test starts from.
type Fixture struct {
	Strategy Strategy
	Schema   *Schema
	Data     *DataSet
}

// Setup brings db to the fixture state: it deletes data, resets sequences,
// applies the schema and then the data. It stops at the first failure.
func (f *Fixture) Setup(ctx context.Context, db Executor) error {
	if err := f.Strategy.DeleteData(ctx, db); err != nil {
		return err
	}
	if err := f.Strategy.ResetSequences(ctx, db); err != nil {
		return err
	}
	if f.Schema != nil {
		if err := f.Strategy.ApplySchema(ctx, f.Schema, db); err != nil {
			return err
		}
	}
	if f.Data != nil {
		if err := f.Strategy.ApplyData(ctx, f.Data, db); err != nil {
			return err
		}
	}
	return nil
}

// SetupT is Setup for tests: it fails t on error.
func (f *Fixture) SetupT(t testing.TB, db Executor) {
	t.Helper()
	if err := f.Setup(context.Background(), db); err != nil {
		t.Fatalf("database fixture setup: %v", err)
	}
}
