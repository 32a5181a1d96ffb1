package boltdb

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/jmrbcu/fstool/pkg/utils/json"
)

// PluginState is the persisted enablement override for one plugin. A
// record exists only while the user deviates from the plugin's shipped
// default.
type PluginState struct {
	ID        string    `json:"id"`
	Disabled  bool      `json:"disabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StateStore persists per-plugin enablement overrides using BoltDB.
type StateStore struct {
	db *bolt.DB
}

// NewStateStore creates a new BoltDB-backed StateStore.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db.Bolt()}
}

// Put stores the enablement override for a plugin.
func (s *StateStore) Put(state PluginState) error {
	state.UpdatedAt = time.Now().UTC()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPluginState)
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to marshal plugin state: %w", err)
		}
		return b.Put([]byte(state.ID), data)
	})
}

// Get retrieves the override for a plugin id. The second return value is
// false when no override is stored.
func (s *StateStore) Get(id string) (PluginState, bool, error) {
	var state PluginState
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPluginState)
		data := b.Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &state)
	})
	if err != nil {
		return PluginState{}, false, fmt.Errorf("failed to unmarshal plugin state: %w", err)
	}
	return state, found, nil
}

// Delete removes the override for a plugin id, reverting the plugin to
// its shipped default. Absence is not an error.
func (s *StateStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPluginState)
		return b.Delete([]byte(id))
	})
}

// List returns all stored overrides.
func (s *StateStore) List() ([]PluginState, error) {
	var states []PluginState
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPluginState)
		return b.ForEach(func(k, v []byte) error {
			var state PluginState
			if err := json.Unmarshal(v, &state); err != nil {
				return fmt.Errorf("failed to unmarshal plugin state: %w", err)
			}
			states = append(states, state)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list plugin state: %w", err)
	}
	return states, nil
}

// DisabledIDs returns the ids of all plugins marked disabled in the store.
func (s *StateStore) DisabledIDs() ([]string, error) {
	states, err := s.List()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, state := range states {
		if state.Disabled {
			ids = append(ids, state.ID)
		}
	}
	return ids, nil
}
