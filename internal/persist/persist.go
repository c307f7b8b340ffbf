// Package persist is the process-wide key-value store used to save and
// restore marquee's stores across restarts.
//
// Keys are store names ("general", "server"); values are JSON snapshots.
package persist

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Store names used as keys.
const (
	KeyGeneral = "general"
	KeyServer  = "server"
)

// KV is a badger-backed snapshot store.
type KV struct {
	db *badger.DB
}

// Open opens (creating if needed) the store in dir.
func Open(dir string) (*KV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &KV{db: db}, nil
}

// OpenInMemory opens a store that is discarded on Close.
func OpenInMemory() (*KV, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	return &KV{db: db}, nil
}

// Save serializes v and stores it under key.
func (s *KV) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// Load decodes the value stored under key into v. It reports false when the
// key has never been saved.
func (s *KV) Load(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		found = true
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, v); err != nil {
				return fmt.Errorf("unmarshal %s: %w", key, err)
			}
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Purge removes a single store snapshot.
func (s *KV) Purge(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// PurgeAll removes every known store snapshot.
func (s *KV) PurgeAll() error {
	for _, key := range []string{KeyGeneral, KeyServer} {
		if err := s.Purge(key); err != nil {
			return fmt.Errorf("purge %s: %w", key, err)
		}
	}
	return nil
}

// Close releases the underlying database.
func (s *KV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
