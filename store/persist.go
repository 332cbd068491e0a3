// ABOUTME: Versioned snapshot of the persisted slice of the store
// ABOUTME: Anything that fails to decode or carries another version resets to defaults
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harperreed/leadgen/localstore"
)

// StorageKey is where the snapshot lives in local storage.
const StorageKey = "leadgen-store"

// SnapshotVersion tags the current persisted layout. Older or newer
// snapshots are discarded, never migrated.
const SnapshotVersion = 2

// PersistedState is the subset of State that survives a restart. It is empty
// at version 2: sessions are revalidated with the backend on every start, and
// nothing else is worth keeping.
type PersistedState struct{}

type Snapshot struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// EncodeSnapshot serializes the persisted slice of st.
func EncodeSnapshot(st State) ([]byte, error) {
	inner, err := json.Marshal(project(st))
	if err != nil {
		return nil, err
	}
	return json.Marshal(Snapshot{Version: SnapshotVersion, State: inner})
}

// DecodeSnapshot validates a stored snapshot. ok is false when the caller
// must start from DefaultState: the data is missing, malformed, or carries a
// different version.
func DecodeSnapshot(data []byte) (persisted PersistedState, ok bool) {
	if len(data) == 0 {
		return PersistedState{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return PersistedState{}, false
	}
	if snap.Version != SnapshotVersion || len(snap.State) == 0 {
		return PersistedState{}, false
	}
	if err := json.Unmarshal(snap.State, &persisted); err != nil {
		return PersistedState{}, false
	}
	return persisted, true
}

func project(State) PersistedState {
	return PersistedState{}
}

func (p PersistedState) apply(st *State) {}

// Load builds a store backed by storage. The state starts from defaults with
// any valid snapshot applied; an invalid or stale snapshot is overwritten.
func Load(storage localstore.Storage, opts ...Option) (*Store, error) {
	s := New(opts...)

	data, err := storage.Get(StorageKey)
	if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to read stored state: %w", err)
	}

	if persisted, ok := DecodeSnapshot(data); ok {
		persisted.apply(&s.state)
		s.lastSaved = data
	} else if len(data) > 0 {
		s.logger.Info("discarding stored state", zap.Int("bytes", len(data)))
	}

	s.storage = storage
	s.persist(s.state.clone())
	return s, nil
}

// persist writes the snapshot when its encoding changed since the last write.
func (s *Store) persist(st State) {
	if s.storage == nil {
		return
	}
	data, err := EncodeSnapshot(st)
	if err != nil {
		s.logger.Warn("failed to encode state snapshot", zap.Error(err))
		return
	}

	s.mu.Lock()
	unchanged := string(data) == string(s.lastSaved)
	if !unchanged {
		s.lastSaved = data
	}
	s.mu.Unlock()
	if unchanged {
		return
	}

	if err := s.storage.Set(StorageKey, data); err != nil {
		s.logger.Warn("failed to persist state", zap.Error(err))
	}
}
