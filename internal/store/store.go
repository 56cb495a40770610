// Package store loads generated SQL scripts into a real SQLite database and
// reads retrograde records back out of it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/retrograde/internal/retrograde"
)

// Store wraps a SQLite database holding a retrograde table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath. Use ":memory:" for
// a private in-memory database.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// One connection: an in-memory database is per connection, and SQLite
	// has a single writer anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load executes script in a single transaction. Either every statement
// applies or none does.
func (s *Store) Load(ctx context.Context, script string) error {
	return s.execTx(ctx, script)
}

// Replace drops table, if present, and executes script in the same
// transaction, so loading a regenerated script never collides with rows from
// an earlier run.
func (s *Store) Replace(ctx context.Context, table, script string) error {
	return s.execTx(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)+";\n", script)
}

func (s *Store) execTx(ctx context.Context, stmts ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: exec script: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Records reads every row of table in timestamp order and rebuilds each
// bitmap from the per-body 0/1 columns named in bodies.
func (s *Store) Records(ctx context.Context, table, timestampColumn string, bodies *retrograde.Positions) ([]retrograde.Record, error) {
	names := bodies.Names()
	cols := make([]string, 0, len(names)+1)
	cols = append(cols, quoteIdent(timestampColumn))
	for _, name := range names {
		cols = append(cols, quoteIdent(name))
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(cols, ", "), quoteIdent(table), quoteIdent(timestampColumn))

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", table, err)
	}
	defer rows.Close()

	var records []retrograde.Record
	dest := make([]any, len(cols))
	flags := make([]int64, len(names))
	for rows.Next() {
		var rec retrograde.Record
		dest[0] = &rec.Timestamp
		for i := range flags {
			dest[i+1] = &flags[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", table, err)
		}
		for pos, v := range flags {
			if v != 0 {
				rec.Bitmap |= 1 << uint(pos)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s: %w", table, err)
	}
	return records, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
