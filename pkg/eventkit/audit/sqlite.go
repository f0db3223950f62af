package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound indicates the record id does not exist.
var ErrNotFound = errors.New("audit: record not found")

// ErrRecorderClosed indicates the recorder has been closed.
var ErrRecorderClosed = errors.New("audit: recorder closed")

// SQLiteRecorder persists the execution trail to SQLite.
// It is suitable for single-process production use.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteRecorder creates a new SQLite audit recorder.
// The path should be a file path (e.g., "./audit.db") or ":memory:" for testing.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS subscriber_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subscriber TEXT NOT NULL,
			event_kind TEXT NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			error TEXT
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_subscriber_runs_subscriber
		ON subscriber_runs(subscriber)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

// Begin implements Recorder.
func (r *SQLiteRecorder) Begin(ctx context.Context, subscriber, eventKind string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, ErrRecorderClosed
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriber_runs (subscriber, event_kind, started_at)
		VALUES (?, ?, ?)
	`, subscriber, eventKind, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("begin record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record id: %w", err)
	}
	return id, nil
}

// Complete implements Recorder.
func (r *SQLiteRecorder) Complete(ctx context.Context, id int64, runErr error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrRecorderClosed
	}

	errText := sql.NullString{}
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriber_runs
		SET completed_at = ?, error = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339Nano), errText, id)
	if err != nil {
		return fmt.Errorf("complete record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete record: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns the n most recent entries, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, n int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrRecorderClosed
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subscriber, event_kind, started_at, completed_at, error
		FROM subscriber_runs
		ORDER BY id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			startedAt   string
			completedAt sql.NullString
			errText     sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Subscriber, &entry.EventKind, &startedAt, &completedAt, &errText); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		entry.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		if completedAt.Valid {
			entry.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt.String)
			entry.Completed = true
		}
		if errText.Valid {
			entry.Error = errText.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

// Compile-time interface check.
var _ Recorder = (*SQLiteRecorder)(nil)
