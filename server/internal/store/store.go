package store

import (
	"sync"
	"time"

	"github.com/obsidianstack/graphcast/pkg/graph"
)

// Entry is the held payload together with the time it was stored.
type Entry struct {
	Payload   *graph.Payload
	UpdatedAt time.Time
}

// Store is a thread-safe holder for at most one payload.
type Store struct {
	mu    sync.RWMutex
	entry *Entry
	now   func() time.Time // injectable for deterministic tests
}

// New creates an empty Store.
func New() *Store {
	return &Store{now: time.Now}
}

// Put replaces the held payload.
func (s *Store) Put(p *graph.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &Entry{
		Payload:   p,
		UpdatedAt: s.now(),
	}
}

// Get returns the held entry and whether one exists. Payloads are immutable,
// so the entry may be shared freely.
func (s *Store) Get() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return Entry{}, false
	}
	return *s.entry, true
}

// Encode returns the wire bytes of the held payload. ok is false when nothing
// has been stored yet. The slice must not be modified.
func (s *Store) Encode() (data []byte, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return nil, false
	}
	return s.entry.Payload.Bytes(), true
}
