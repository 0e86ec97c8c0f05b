package fmnlib

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/forgetmenot/fmn/pkg/logger"
	"github.com/spf13/afero"
)

// Store is the durable registry of pending tasks. Every mutation is
// persisted before it returns; when persisting fails the in-memory state is
// left as it was before the call.
type Store interface {
	// Load (re)reads the persisted tasks. A missing or unreadable store
	// yields an empty set and a logged warning.
	Load() []*Task
	// Add stores a copy of t. It fails with ErrDuplicateID if the id is taken.
	Add(t *Task) error
	// Remove deletes the task with the given id and reports whether it existed.
	Remove(id string) (bool, error)
	// Update replaces the task with t.ID. It fails with ErrNotFound if absent.
	Update(t *Task) error
	Get(id string) (*Task, bool)
	// List returns copies of all tasks ordered by creation time.
	List() []*Task
	Close() error
}

// IsSQLitePath reports whether path selects the SQLite backend.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// OpenStore opens the store at path, SQLite for IsSQLitePath paths and a
// gob file otherwise, and loads it. If the path cannot be opened at all it
// returns an in-memory store together with the ErrPersistence error, so the
// daemon can keep running.
func OpenStore(path string, l logger.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	if IsSQLitePath(path) {
		s, err = NewSQLiteStore(path, l)
	} else {
		s, err = NewFileStore(afero.NewOsFs(), path, l)
	}
	if err != nil {
		return NewMemoryStore(l), fmt.Errorf("open %s: %w", path, err)
	}
	s.Load()
	return s, nil
}
