package memory

import (
	"context"
	"sync"

	"expensetracker/internal/kv"
)

// Store keeps values in process memory. An optional quota bounds the
// total size of keys plus values, like a browser storage area.
type Store struct {
	mu     sync.Mutex
	items  map[string]string
	quota  int
	closed bool
}

type Option func(*Store)

// WithQuota limits the combined byte length of all keys and values.
// Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

func New(opts ...Option) *Store {
	s := &Store{items: make(map[string]string)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewFrom seeds the store with existing entries.
func NewFrom(entries map[string]string, opts ...Option) *Store {
	s := New(opts...)
	for k, v := range entries {
		s.items[k] = v
	}
	return s
}

var _ kv.Store = (*Store)(nil)

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, kv.ErrClosed
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	if s.quota > 0 {
		used := s.usedLocked() - s.entrySize(key) + len(key) + len(value)
		if used > s.quota {
			return kv.ErrQuotaExceeded
		}
	}
	s.items[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}
	delete(s.items, key)
	return nil
}

// Entries returns a copy of everything stored.
func (s *Store) Entries() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) usedLocked() int {
	n := 0
	for k, v := range s.items {
		n += len(k) + len(v)
	}
	return n
}

func (s *Store) entrySize(key string) int {
	v, ok := s.items[key]
	if !ok {
		return 0
	}
	return len(key) + len(v)
}
