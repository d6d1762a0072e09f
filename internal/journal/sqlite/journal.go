package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/journal"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_events (
  id            TEXT PRIMARY KEY,
  code          TEXT NOT NULL,
  kind          TEXT NOT NULL,
  action        TEXT NOT NULL DEFAULT '',
  employee_id   INTEGER,
  message       TEXT NOT NULL DEFAULT '',
  event_time    TEXT NOT NULL DEFAULT '',
  created_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_events_created ON scan_events(created_at_ms);
`

// Store is a sqlite-backed scan journal.  All writes funnel through a single
// writer goroutine so the one-connection SQLite setup never sees concurrent
// transactions.
type Store struct {
	db   *sql.DB
	jobs chan job
	done chan struct{}
}

type job struct {
	rec journal.Record
	ch  chan error
}

// Open opens (creating if needed) the journal database at path and applies
// the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir journal dir: %w", err)
	}

	// Per-connection PRAGMAs: WAL and NORMAL sync are good defaults for a
	// single-process terminal; busy_timeout guards the odd external reader.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// Single connection for SQLite safety.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	s := &Store{
		db:   db,
		jobs: make(chan job, 256),
		done: make(chan struct{}),
	}
	go s.loop()
	return s, nil
}

// Close drains pending writes and closes the database.
func (s *Store) Close() error {
	close(s.jobs)
	<-s.done
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, rec journal.Record) error {
	ch := make(chan error, 1)

	select {
	case s.jobs <- job{rec: rec, ch: ch}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		// The writer still completes the insert; the result lands in the
		// buffered ch and is discarded.
		return ctx.Err()
	}
}

func (s *Store) loop() {
	defer close(s.done)

	for j := range s.jobs {
		rec := j.rec
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}

		var employeeID any
		if rec.EmployeeID != 0 {
			employeeID = rec.EmployeeID
		}

		_, err := s.db.Exec(`
INSERT INTO scan_events(id, code, kind, action, employee_id, message, event_time, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.Code, string(rec.Kind), string(rec.Action),
			employeeID, rec.Message, rec.EventTime, rec.CreatedAt.UnixMilli(),
		)
		if err != nil {
			j.ch <- fmt.Errorf("journal insert: %w", err)
			continue
		}
		j.ch <- nil
	}
}

// Recent returns up to limit journaled outcomes, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]journal.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, code, kind, action, employee_id, message, event_time, created_at_ms
FROM scan_events
ORDER BY created_at_ms DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal recent: %w", err)
	}
	defer rows.Close()

	var out []journal.Record
	for rows.Next() {
		var (
			rec        journal.Record
			kind       string
			action     string
			employeeID sql.NullInt64
			createdMs  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Code, &kind, &action, &employeeID, &rec.Message, &rec.EventTime, &createdMs); err != nil {
			return nil, fmt.Errorf("journal scan row: %w", err)
		}
		rec.Kind = types.OutcomeKind(kind)
		rec.Action = types.Action(action)
		if employeeID.Valid {
			rec.EmployeeID = int(employeeID.Int64)
		}
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneOlderThan deletes journal rows created before cutoff and reports how
// many were removed.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scan_events WHERE created_at_ms < ?;`,
		cutoff.UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("journal prune: %w", err)
	}
	return res.RowsAffected()
}
