package fmnlib

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/forgetmenot/fmn/pkg/logger"
	"github.com/spf13/afero"
)

const corruptSuffix = ".corrupt"

// FileStore keeps the task set in memory and rewrites a gob file on every
// mutation. The file is replaced through a temporary sibling and a rename.
type FileStore struct {
	fs    afero.Fs
	path  string
	log   logger.Logger
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewFileStore creates the parent directory of path on fs. Call Load to
// read existing tasks.
func NewFileStore(fs afero.Fs, path string, l logger.Logger) (*FileStore, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrPersistence, err)
	}
	return &FileStore{
		fs:    fs,
		path:  path,
		log:   l,
		tasks: make(map[string]*Task),
	}, nil
}

// NewMemoryStore returns a FileStore backed by an in-memory filesystem.
func NewMemoryStore(l logger.Logger) *FileStore {
	return &FileStore{
		fs:    afero.NewMemMapFs(),
		path:  "/tasks.fmn",
		log:   l,
		tasks: make(map[string]*Task),
	}
}

func (s *FileStore) Load() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*Task)
	b, err := afero.ReadFile(s.fs, s.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		s.log.Warning("fmnlib: failed to read %s, starting empty: %v", s.path, err)
	case len(b) == 0:
	default:
		var recs []taskRecord
		if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&recs); err != nil {
			s.quarantine(err)
			break
		}
		for _, r := range recs {
			t, err := r.task()
			if err != nil {
				s.log.Warning("fmnlib: dropping unreadable task %s: %v", r.ID, err)
				continue
			}
			s.tasks[t.ID] = t
		}
	}
	return s.list()
}

// quarantine moves an undecodable store file to path.corrupt so the next
// persist does not overwrite it. Must be called with mu held.
func (s *FileStore) quarantine(cause error) {
	bad := s.path + corruptSuffix
	if err := s.fs.Rename(s.path, bad); err != nil {
		s.log.Warning("fmnlib: failed to decode %s, starting empty (could not move it aside: %v): %v", s.path, err, cause)
		return
	}
	s.log.Warning("fmnlib: failed to decode %s, moved to %s, starting empty: %v", s.path, bad, cause)
}

func (s *FileStore) Add(t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	s.tasks[t.ID] = t.Clone()
	if err := s.persist(); err != nil {
		delete(s.tasks, t.ID)
		return err
	}
	return nil
}

func (s *FileStore) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.tasks[id]
	if !ok {
		return false, nil
	}
	delete(s.tasks, id)
	if err := s.persist(); err != nil {
		s.tasks[id] = old
		return false, err
	}
	return true, nil
}

func (s *FileStore) Update(t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.tasks[t.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	s.tasks[t.ID] = t.Clone()
	if err := s.persist(); err != nil {
		s.tasks[t.ID] = old
		return err
	}
	return nil
}

func (s *FileStore) Get(id string) (*Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (s *FileStore) List() []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list()
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) list() []*Task {
	ts := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		ts = append(ts, t.Clone())
	}
	SortTasks(ts)
	return ts
}

// persist must be called with mu held.
func (s *FileStore) persist() error {
	ts := s.list()
	recs := make([]taskRecord, 0, len(ts))
	for _, t := range ts {
		recs = append(recs, recordOf(t))
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(recs); err != nil {
		return fmt.Errorf("%w: encode tasks: %w", ErrPersistence, err)
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("%w: write: %w", ErrPersistence, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%w: rename: %w", ErrPersistence, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
