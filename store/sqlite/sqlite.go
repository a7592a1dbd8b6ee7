/*
Package sqlite provides the SQLite-backed kv.Store implementation.

PURPOSE:
  Implements the key-value persistence collaborator on a single-file
  database. One table holds every namespaced key; values are opaque JSON
  bytes written by the settings and logbook packages.

KEY TABLE:
  kv(namespace, key, value, updated_at) with a composite primary key.

QUOTA ENFORCEMENT:
  The Sync namespace mirrors the quota a cloud-synchronised backend would
  impose (the logbook can outgrow it). Writes that would take the namespace
  over SyncQuotaBytes fail with kv.ErrQuotaExceeded; callers decide whether
  to suggest falling back to local storage.

WAL MODE:
  The database is opened with WAL so readers never block the single writer
  and crash recovery is cheap.

USAGE:
  store, err := sqlite.New("~/.arbeitszeit/arbeitszeit.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - kv: interface definition
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Jojo252511/arbeitszeit/kv"
)

// DefaultSyncQuotaBytes matches the quota of the synced storage area the
// tool historically used (100 KiB).
const DefaultSyncQuotaBytes = 100 * 1024

// Store implements kv.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex

	// SyncQuotaBytes caps the Sync namespace. Zero disables the check.
	SyncQuotaBytes int
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, SyncQuotaBytes: DefaultSyncQuotaBytes}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Get(ctx context.Context, ns kv.Namespace, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, string(ns), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, s.wrap(ns, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, ns kv.Namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns == kv.Sync && s.SyncQuotaBytes > 0 {
		var existing int
		err := s.db.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(LENGTH(value)), 0) FROM kv WHERE namespace = ? AND key != ?`,
			string(kv.Sync), key,
		).Scan(&existing)
		if err != nil {
			return s.wrap(ns, err)
		}
		if existing+len(value) > s.SyncQuotaBytes {
			return fmt.Errorf("%w: %w", kv.ErrSyncFailure, kv.ErrQuotaExceeded)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(ns), key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return s.wrap(ns, err)
}

func (s *Store) Delete(ctx context.Context, ns kv.Namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key = ?`, string(ns), key)
	return s.wrap(ns, err)
}

// wrap tags failures of the synced area so callers can surface the
// "try local storage instead" suggestion.
func (s *Store) wrap(ns kv.Namespace, err error) error {
	if err == nil {
		return nil
	}
	if ns == kv.Sync {
		return fmt.Errorf("%w: %v", kv.ErrSyncFailure, err)
	}
	return err
}
