// Package sqlite keeps the append-only audit log of sync runs. The JSON
// snapshot caps its embedded history at 10 entries; this table keeps
// everything for operator follow-up.
package sqlite

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SyncRun is one recorded sync invocation.
type SyncRun struct {
	ID              int64
	StartedAt       time.Time
	DurationMS      int64
	Faculties       string // comma-separated faculty acronyms
	Added           int
	Updated         int
	Deleted         int
	Unchanged       int
	TotalStaff      int
	Status          string // "success", "partial", or "failed"
	UnknownPrefixes string // comma-separated, empty when none
	Error           string
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at       DATETIME NOT NULL,
		duration_ms      INTEGER NOT NULL,
		faculties        TEXT NOT NULL,
		added            INTEGER NOT NULL DEFAULT 0,
		updated          INTEGER NOT NULL DEFAULT 0,
		deleted          INTEGER NOT NULL DEFAULT 0,
		unchanged        INTEGER NOT NULL DEFAULT 0,
		total_staff      INTEGER NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'success',
		unknown_prefixes TEXT DEFAULT '',
		error            TEXT DEFAULT '',
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs(started_at);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	return db, nil
}

func InsertSyncRun(db *sql.DB, run SyncRun) error {
	_, err := db.Exec(
		`INSERT INTO sync_runs (started_at, duration_ms, faculties, added, updated, deleted, unchanged, total_staff, status, unknown_prefixes, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt, run.DurationMS, run.Faculties, run.Added, run.Updated, run.Deleted,
		run.Unchanged, run.TotalStaff, run.Status, run.UnknownPrefixes, run.Error,
	)
	return err
}

// RecentSyncRuns returns the most recent runs, newest first.
func RecentSyncRuns(db *sql.DB, limit int) ([]SyncRun, error) {
	rows, err := db.Query(
		`SELECT id, started_at, duration_ms, faculties, added, updated, deleted, unchanged, total_staff, status, unknown_prefixes, error
		 FROM sync_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var run SyncRun
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.DurationMS, &run.Faculties,
			&run.Added, &run.Updated, &run.Deleted, &run.Unchanged, &run.TotalStaff,
			&run.Status, &run.UnknownPrefixes, &run.Error); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
