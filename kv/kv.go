/*
Package kv defines the persistence contract for settings and the logbook.

PURPOSE:
  The engine treats storage as an injected key-value collaborator. Values
  are opaque JSON-encoded bytes under a namespace and key. The interface is
  context-aware so that synchronous local backends and slow remote
  ("synced") backends both fit behind it.

NAMESPACES:
  Local - device-local storage, effectively unbounded
  Sync  - cloud-synchronised storage with a hard quota

QUOTA SEMANTICS:
  Writes into the Sync namespace may fail with ErrQuotaExceeded. The store
  never falls back on its own: whether to retry against Local is a policy
  decision that belongs to the caller.

IMPLEMENTATIONS:
  - store/memory: in-memory, for tests
  - store/sqlite: production single-file database

SEE ALSO:
  - settings: typed configuration on top of this interface
  - logbook: the day-record log on top of this interface
*/
package kv

import (
	"context"
	"errors"
)

// Namespace selects a storage area.
type Namespace string

const (
	Local Namespace = "local"
	Sync  Namespace = "sync"
)

var (
	// ErrNotFound is returned by Get for an absent key.
	ErrNotFound = errors.New("key not found")

	// ErrQuotaExceeded is returned when a write would take the Sync
	// namespace over its quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrSyncFailure wraps backend failures of the synced area. Treated as
	// terminal for the operation; the engine never retries automatically.
	ErrSyncFailure = errors.New("sync storage failure")
)

// Store is the injected key-value persistence collaborator.
type Store interface {
	// Get returns the raw value for ns/key, or ErrNotFound.
	Get(ctx context.Context, ns Namespace, key string) ([]byte, error)

	// Set writes the raw value for ns/key. May return ErrQuotaExceeded
	// for the Sync namespace.
	Set(ctx context.Context, ns Namespace, key string, value []byte) error

	// Delete removes ns/key. Deleting an absent key is not an error.
	Delete(ctx context.Context, ns Namespace, key string) error
}
