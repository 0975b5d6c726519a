package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/sarchlab/spmdbench/results"
)

const reportSchema = `
CREATE TABLE report (
	bench TEXT NOT NULL,
	property TEXT NOT NULL,
	value REAL NOT NULL,
	ord INTEGER NOT NULL,
	PRIMARY KEY (bench, property)
);
`

// WriteSQLite writes the report in long form, one row per present cell, to
// a freshly created SQLite database. ord is the property's column index.
func WriteSQLite(ctx context.Context, path string, t *results.Table) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove old report database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, reportSchema); err != nil {
		return fmt.Errorf("failed to create report table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO report (bench, property, value, ord) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	cols := Columns(t)
	for _, bench := range t.Benchmarks() {
		for i, c := range cols {
			v, ok := t.Get(bench, c)
			if !ok {
				continue
			}
			if _, err := stmt.ExecContext(ctx, bench, c, v, i); err != nil {
				return fmt.Errorf("failed to insert %s %s: %w", bench, c, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}
