package track

import (
	"fmt"
	"sort"
	"sync"

	"github.com/grailbio/base/errors"
)

// Store looks up tracks by sample name.  Implementations must be safe for
// concurrent readers.
type Store interface {
	// Get returns the track of the named sample.  It returns an error of kind
	// errors.NotExist if there is no such sample.
	Get(name string) (*Track, error)
	// Contains reports whether the named sample is available.
	Contains(name string) bool
	// Names lists the available samples in sorted order.
	Names() []string
}

// NotFound returns the error Store implementations report for an unknown
// sample.
func NotFound(name string) error {
	return errors.E(errors.NotExist, fmt.Sprintf("sample not found: %q", name))
}

// MemStore is an in-memory Store.  Put may be called concurrently with
// readers; a query that needs a consistent view across several lookups
// should use Snapshot.
type MemStore struct {
	mu     sync.RWMutex
	tracks map[string]*Track
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{tracks: map[string]*Track{}}
}

// Put adds or replaces the track of the named sample.
func (s *MemStore) Put(name string, t *Track) {
	s.mu.Lock()
	s.tracks[name] = t
	s.mu.Unlock()
}

// Delete removes the named sample, if present.
func (s *MemStore) Delete(name string) {
	s.mu.Lock()
	delete(s.tracks, name)
	s.mu.Unlock()
}

// Get implements Store.
func (s *MemStore) Get(name string) (*Track, error) {
	s.mu.RLock()
	t, ok := s.tracks[name]
	s.mu.RUnlock()
	if !ok {
		return nil, NotFound(name)
	}
	return t, nil
}

// Contains implements Store.
func (s *MemStore) Contains(name string) bool {
	s.mu.RLock()
	_, ok := s.tracks[name]
	s.mu.RUnlock()
	return ok
}

// Names implements Store.
func (s *MemStore) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.tracks))
	for name := range s.tracks {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of samples.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// Snapshot returns an immutable copy of the current contents.  Tracks are
// shared, not copied, since they are never modified.
func (s *MemStore) Snapshot() Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(snapshot, len(s.tracks))
	for name, t := range s.tracks {
		snap[name] = t
	}
	return snap
}

type snapshot map[string]*Track

func (s snapshot) Get(name string) (*Track, error) {
	if t, ok := s[name]; ok {
		return t, nil
	}
	return nil, NotFound(name)
}

func (s snapshot) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

func (s snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
