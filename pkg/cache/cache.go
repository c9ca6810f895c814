// Package cache stores fetched backend payloads between runs.
//
// Floor diagrams change rarely and employee records change slowly, so the
// backend client caches both. Room and seat geometry is never cached: it
// is the data being edited.
//
// Three implementations share the [Cache] interface:
//   - [FileCache]: entries as files under a directory, for the CLI
//   - [RedisCache]: entries in Redis, for editor services running on
//     several hosts
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer]. Wrap it with [NewScopedKeyer] to keep
// entries from different backends apart when they share a store.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A miss is reported as
// (nil, false, nil); errors are reserved for a broken store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for backend payloads.
type Keyer interface {
	// DiagramKey is the key of a floor's background diagram.
	DiagramKey(floor int) string
	// EmployeeKey is the key of one employee record.
	EmployeeKey(id int64) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DiagramKey(floor int) string { return hashKey("diagram", floor) }
func (DefaultKeyer) EmployeeKey(id int64) string { return hashKey("employee", id) }
