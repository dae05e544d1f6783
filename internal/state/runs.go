package state

import (
	"database/sql"
	"time"

	dbutil "github.com/itsdinok/rekordscratch/internal/db"
)

// maxRuns is the number of runs kept in history.
const maxRuns = 50

// Run is one finished copy run.
type Run struct {
	StartedAt  time.Time
	FinishedAt time.Time
	SourceRoot string
	CratesRoot string
	Total      int
	Matched    int
	Unmatched  int
	Bytes      int64
	// Error is set when the run stopped on a fatal error.
	Error string
}

// RecordRun appends r to the history, dropping the oldest runs beyond the
// retention limit.
func (m *Manager) RecordRun(r Run) error {
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (started_at, finished_at, source_root, crates_root, total, matched, unmatched, bytes, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(), r.SourceRoot, r.CratesRoot,
			r.Total, r.Matched, r.Unmatched, r.Bytes, dbutil.NullString(r.Error))
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM runs WHERE id NOT IN (
				SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
			)
		`, maxRuns)
		return err
	})
}

// RecentRuns returns up to limit runs, newest first.
func (m *Manager) RecentRuns(limit int) ([]Run, error) {
	rows, err := m.db.Query(`
		SELECT started_at, finished_at, source_root, crates_root, total, matched, unmatched, bytes, error
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		var runErr sql.NullString
		if err := rows.Scan(&started, &finished, &r.SourceRoot, &r.CratesRoot,
			&r.Total, &r.Matched, &r.Unmatched, &r.Bytes, &runErr); err != nil {
			return nil, err
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		r.Error = dbutil.NullStringValue(runErr)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
