package lyrics

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"
)

type storeEntry struct {
	size    int64
	modTime time.Time
	lines   []Line
}

// Store memoizes loaded lyrics by sidecar path. An entry is reused only
// while the sidecar's size and modification time are unchanged. Only
// successful loads are kept; errors are always re-evaluated.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
	stat    func(string) (os.FileInfo, error)
	load    func(string) ([]Line, error)
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*storeEntry),
		stat:    os.Stat,
		load:    LoadFile,
	}
}

// Get returns the lines for audioPath, loading the sidecar when it is not
// cached or has changed on disk. The returned slice is shared and must not
// be modified.
func (s *Store) Get(audioPath string) ([]Line, error) {
	path := SidecarPath(audioPath)

	info, err := s.stat(path)
	if err != nil {
		s.forget(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &ReadError{Path: path, Err: err}
	}

	// check memory first
	s.mu.RLock()
	entry, exists := s.entries[path]
	s.mu.RUnlock()

	if exists && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.lines, nil
	}

	lines, err := s.load(path)
	if err != nil {
		s.forget(path)
		return nil, err
	}

	s.mu.Lock()
	s.entries[path] = &storeEntry{
		size:    info.Size(),
		modTime: info.ModTime(),
		lines:   lines,
	}
	s.mu.Unlock()

	return lines, nil
}

// Forget drops the cached entry for audioPath, if any.
func (s *Store) Forget(audioPath string) {
	s.forget(SidecarPath(audioPath))
}

func (s *Store) forget(path string) {
	s.mu.Lock()
	delete(s.entries, path)
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*storeEntry)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
