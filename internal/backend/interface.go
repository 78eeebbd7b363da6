package backend

import (
	"context"

	"expensetracker/internal/amqp"
	"expensetracker/internal/kv"
	"expensetracker/internal/tracker"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result holds the persistence adapter and the optional change publisher.
type Result struct {
	Store   kv.Store
	AMQP    *amqp.Client // nil when AMQP is disabled or unreachable
	Cleanup CleanupFunc
}

// TrackerOptions returns the tracker options implied by the result.
func (r *Result) TrackerOptions() []tracker.Option {
	if r.AMQP == nil {
		return nil
	}
	return []tracker.Option{tracker.WithNotifier(r.AMQP)}
}

// Close runs Cleanup if set.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional change notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory specific, zero means unlimited
	MemoryQuota int
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
