// ABOUTME: Durable key/value storage for client state that must survive restarts
// ABOUTME: Selects a sqlite, badger, or charm backend from configuration
package localstore

import (
	"errors"
	"fmt"

	"github.com/harperreed/leadgen/config"
)

// ErrNotFound is returned by Get when the key has never been set or was deleted.
var ErrNotFound = errors.New("key not found")

// Storage is a flat string-keyed store. Implementations are safe for
// concurrent use.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Delete is a no-op for missing keys.
	Delete(key string) error
	Close() error
}

// Open returns the backend named by cfg.StorageBackend.
func Open(cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "", "sqlite":
		return OpenSQLite(cfg.DatabasePath())
	case "badger":
		return OpenBadger(cfg.BadgerDir())
	case "charm":
		return OpenCharm(LoadCharmOptions())
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
