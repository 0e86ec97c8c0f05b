package fmnlib

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forgetmenot/fmn/pkg/logger"
	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	message      TEXT NOT NULL,
	kind         TEXT NOT NULL,
	duration     INTEGER NOT NULL DEFAULT 0,
	time_of_day  INTEGER NOT NULL DEFAULT 0,
	repeat_daily INTEGER NOT NULL DEFAULT 0,
	expr         TEXT NOT NULL DEFAULT '',
	sound_path   TEXT NOT NULL DEFAULT '',
	image_path   TEXT NOT NULL DEFAULT '',
	next_fire_at INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	last_fire_at INTEGER NOT NULL DEFAULT 0
);
`

const taskColumns = `id, message, kind, duration, time_of_day, repeat_daily, expr,
	sound_path, image_path, next_fire_at, created_at, last_fire_at`

// SQLiteStore persists tasks in a SQLite database, one row per task.
// Timestamps are stored as Unix nanoseconds, 0 meaning unset.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// tasks table exists. The caller is responsible for calling Close.
func NewSQLiteStore(path string, l logger.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrPersistence, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %w", ErrPersistence, path, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %w", ErrPersistence, err)
	}
	return &SQLiteStore{db: db, log: l}, nil
}

func (s *SQLiteStore) Load() []*Task {
	ts, err := s.query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		s.log.Warning("fmnlib: failed to load tasks, starting empty: %v", err)
		return []*Task{}
	}
	return ts
}

func (s *SQLiteStore) Add(t *Task) error {
	r := recordOf(t)
	res, err := s.db.Exec(`INSERT OR IGNORE INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Message, string(r.Kind), int64(r.Duration), r.TimeOfDay, boolInt(r.RepeatDaily), r.Expr,
		r.SoundPath, r.ImagePath, unixNano(r.NextFireAt), unixNano(r.CreatedAt), unixNano(r.LastFireAt),
	)
	if err != nil {
		return fmt.Errorf("%w: insert task: %w", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: insert task: %w", ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	return nil
}

func (s *SQLiteStore) Remove(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete task: %w", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete task: %w", ErrPersistence, err)
	}
	return n > 0, nil
}

// Update only rewrites the scheduling timestamps; the rest of a task is
// immutable.
func (s *SQLiteStore) Update(t *Task) error {
	res, err := s.db.Exec(`UPDATE tasks SET next_fire_at = ?, last_fire_at = ? WHERE id = ?`,
		unixNano(t.NextFireAt), unixNano(t.LastFireAt), t.ID)
	if err != nil {
		return fmt.Errorf("%w: update task: %w", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update task: %w", ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	return nil
}

func (s *SQLiteStore) Get(id string) (*Task, bool) {
	ts, err := s.query(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		s.log.Error("fmnlib: get task %s: %v", id, err)
		return nil, false
	}
	if len(ts) == 0 {
		return nil, false
	}
	return ts[0], true
}

func (s *SQLiteStore) List() []*Task {
	return s.Load()
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) query(q string, args ...any) ([]*Task, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query tasks: %w", ErrPersistence, err)
	}
	defer rows.Close()

	ts := make([]*Task, 0)
	for rows.Next() {
		var (
			r                        taskRecord
			kind                     string
			dur, next, created, last int64
			repeat                   int
		)
		if err := rows.Scan(&r.ID, &r.Message, &kind, &dur, &r.TimeOfDay, &repeat, &r.Expr,
			&r.SoundPath, &r.ImagePath, &next, &created, &last); err != nil {
			return nil, fmt.Errorf("%w: scan task: %w", ErrPersistence, err)
		}
		r.Kind = Kind(kind)
		r.Duration = time.Duration(dur)
		r.RepeatDaily = repeat != 0
		r.NextFireAt = fromUnixNano(next)
		r.CreatedAt = fromUnixNano(created)
		r.LastFireAt = fromUnixNano(last)
		t, err := r.task()
		if err != nil {
			s.log.Warning("fmnlib: dropping unreadable task %s: %v", r.ID, err)
			continue
		}
		ts = append(ts, t)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: iterate tasks: %w", ErrPersistence, err)
	}
	return ts, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

var _ Store = (*SQLiteStore)(nil)
