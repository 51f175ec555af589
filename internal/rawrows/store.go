// Package rawrows keeps imported dataset rows in Postgres as prognosis plus a
// JSON object of every other cell.
package rawrows

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Record is one imported row.
type Record struct {
	Prognosis string
	Raw       map[string]string
}

// Store replaces and inspects the imported rows.
type Store interface {
	ReplaceAll(ctx context.Context, records []Record) (int, error)
	Columns(ctx context.Context) ([]string, error)
}

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const schema = `CREATE TABLE IF NOT EXISTS symptom_rows (
	id BIGSERIAL PRIMARY KEY,
	prognosis TEXT NOT NULL,
	raw JSONB NOT NULL DEFAULT '{}'::jsonb
)`

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create symptom_rows: %w", err)
	}
	return nil
}

// ReplaceAll deletes every stored row and copies records in, in one transaction.
func (s *PostgresStore) ReplaceAll(ctx context.Context, records []Record) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM symptom_rows`); err != nil {
		return 0, fmt.Errorf("clear symptom_rows: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"symptom_rows"},
		[]string{"prognosis", "raw"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return []any{records[i].Prognosis, records[i].Raw}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy symptom_rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(n), nil
}

// Columns returns the union of keys across all stored rows, sorted.
func (s *PostgresStore) Columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT k FROM symptom_rows, jsonb_object_keys(raw) AS k ORDER BY k`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	cols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan columns: %w", err)
	}
	return cols, nil
}
