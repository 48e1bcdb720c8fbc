// Package ledger appends run summaries to a SQLite database. It is
// reporting only: weft keeps no per-file journal and performs no rollback.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/weft/internal/materialize"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	root        TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	synced      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	warnings    INTEGER NOT NULL
);`

// Ledger records one row per engine run.
type Ledger struct {
	db *sql.DB
}

// Open opens the ledger database at path, creating it and its schema when
// missing.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

// Record appends the summary of one run against root.
func (l *Ledger) Record(ctx context.Context, root string, started, finished time.Time, rep *materialize.Report) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (root, started_at, finished_at, synced, skipped, failed, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		root, started.Unix(), finished.Unix(), rep.Synced, rep.Skipped, rep.Failed(), rep.Warnings)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
