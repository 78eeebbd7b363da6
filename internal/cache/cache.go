// Package cache memoizes derived views. Entries are keyed by the store
// revision they were computed from, so a mutation never serves stale
// data; TTL and size bounds only limit memory.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"expensetracker/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Key builds the cache key of a view computed at a store revision.
func Key(view string, revision uint64) string {
	return view + "@" + strconv.FormatUint(revision, 10)
}

// Manager periodically drops expired entries from registered caches.
type Manager struct {
	mu     sync.Mutex
	caches []Cleaner
	log    *log.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewManager creates a new cache manager
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{
		log:  logger.WithComponent(log.ComponentCache),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, c)
}

// Sweep cleans every registered cache once and returns the total removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps every interval until ctx is done or Stop is called.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Debug("Expired cache entries removed", log.FieldCount, n)
			}
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		}
	}
}

// StartCleanup runs the sweeper in its own goroutine.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.Run(context.Background(), interval)
}

// Stop ends the sweeper started by Run or StartCleanup and waits for it.
// It must not be called if the sweeper was never started.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}
