// Package memory provides an in-memory kv.Store implementation.
package memory

import (
	"context"
	"sync"

	"github.com/Jojo252511/arbeitszeit/kv"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu     sync.RWMutex
	values map[mapKey][]byte

	// SyncQuotaBytes caps the total size of the Sync namespace, mirroring
	// the quota of a cloud-synchronised backend. Zero means unlimited.
	SyncQuotaBytes int
}

type mapKey struct {
	NS  kv.Namespace
	Key string
}

func New() *Store {
	return &Store{values: make(map[mapKey][]byte)}
}

func (s *Store) Get(_ context.Context, ns kv.Namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[mapKey{NS: ns, Key: key}]
	if !ok {
		return nil, kv.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) Set(_ context.Context, ns kv.Namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns == kv.Sync && s.SyncQuotaBytes > 0 {
		total := len(value)
		for k, v := range s.values {
			if k.NS == kv.Sync && k.Key != key {
				total += len(v)
			}
		}
		if total > s.SyncQuotaBytes {
			return kv.ErrQuotaExceeded
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[mapKey{NS: ns, Key: key}] = stored
	return nil
}

func (s *Store) Delete(_ context.Context, ns kv.Namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, mapKey{NS: ns, Key: key})
	return nil
}
