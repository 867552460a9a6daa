// Package history keeps a persistent record of terminally finished
// downloads. The live queue is memory-only; history only answers "what
// happened", it never resurrects queue state.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS downloads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  url TEXT NOT NULL,
  video_id TEXT,
  title TEXT,
  dir TEXT,
  status TEXT NOT NULL,
  failures INTEGER DEFAULT 0,
  queued_at TEXT,
  finished_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_downloads_status ON downloads(status);
CREATE INDEX IF NOT EXISTS idx_downloads_finished ON downloads(finished_at);
`

type Entry struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	VideoID    string `json:"video_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Dir        string `json:"dir,omitempty"`
	Status     string `json:"status"`
	Failures   int    `json:"failures"`
	QueuedAt   string `json:"queued_at,omitempty"`
	FinishedAt string `json:"finished_at"`
}

// Store wraps DB access for finished downloads.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path and ensures the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO downloads (url, video_id, title, dir, status, failures, queued_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, e.URL, e.VideoID, e.Title, e.Dir, e.Status, e.Failures, e.QueuedAt, e.FinishedAt)
	return err
}

// List returns entries newest first, optionally limited.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
SELECT id, url, video_id, title, dir, status, failures, queued_at, finished_at
FROM downloads ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var videoID, title, dir, queuedAt sql.NullString
		if err := rows.Scan(&e.ID, &e.URL, &videoID, &title, &dir, &e.Status, &e.Failures, &queuedAt, &e.FinishedAt); err != nil {
			return nil, err
		}
		e.VideoID = videoID.String
		e.Title = title.String
		e.Dir = dir.String
		e.QueuedAt = queuedAt.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM downloads`); err != nil {
		return err
	}
	var seqName string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='sqlite_sequence'`).Scan(&seqName); err == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'downloads'`); err != nil {
			return err
		}
	}
	return tx.Commit()
}
