// ABOUTME: Charm KV storage backend, synced to a charm server across machines
// ABOUTME: Wraps charm/kv with optional sync-after-write
package localstore

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// CharmAppName names the charm KV database.
	CharmAppName = "leadgen"
)

type CharmOptions struct {
	Host     string
	AutoSync bool
}

// LoadCharmOptions reads CHARM_HOST and LEADGEN_CHARM_AUTOSYNC.
func LoadCharmOptions() CharmOptions {
	opts := CharmOptions{Host: DefaultCharmHost, AutoSync: true}
	if host := os.Getenv("CHARM_HOST"); host != "" {
		opts.Host = host
	}
	if v := os.Getenv("LEADGEN_CHARM_AUTOSYNC"); v != "" {
		opts.AutoSync = v == "true" || v == "1"
	}
	return opts
}

// kvStore is the slice of *kv.KV the backend relies on.
type kvStore interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Sync() error
}

type CharmStorage struct {
	mu       sync.Mutex
	kv       kvStore
	autoSync bool
}

// OpenCharm opens the charm KV database and pulls remote changes when
// auto-sync is on.
func OpenCharm(opts CharmOptions) (*CharmStorage, error) {
	// charm reads its host from the environment
	_ = os.Setenv("CHARM_HOST", opts.Host)

	db, err := kv.OpenWithDefaults(CharmAppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	s := newCharmStorage(db, opts.AutoSync)
	if opts.AutoSync {
		_ = db.Sync()
	}
	return s, nil
}

func newCharmStorage(store kvStore, autoSync bool) *CharmStorage {
	return &CharmStorage{kv: store, autoSync: autoSync}
}

func (c *CharmStorage) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

func (c *CharmStorage) Set(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Set([]byte(key), value); err != nil {
		return err
	}
	// Sync while still holding the lock so writes reach the server in order.
	if c.autoSync {
		_ = c.kv.Sync()
	}
	return nil
}

func (c *CharmStorage) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Delete([]byte(key)); err != nil {
		return err
	}
	if c.autoSync {
		_ = c.kv.Sync()
	}
	return nil
}

// Close is a no-op: charm/kv releases its badger handle on process exit.
func (c *CharmStorage) Close() error {
	return nil
}
