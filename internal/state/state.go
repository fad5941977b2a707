// Package state persists UI preferences between sessions.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent user preferences.
type State struct {
	SortOrder  string `json:"sortOrder"` // "newest" or "oldest"
	PinnedOnly bool   `json:"pinnedOnly,omitempty"`
	LastHabit  string `json:"lastHabit,omitempty"`
}

// Store reads and writes state.json in one directory.
type Store struct {
	mu      sync.RWMutex
	path    string
	current State
}

// Open loads state from dir/state.json. A missing file yields defaults.
func Open(dir, defaultSort string) (*Store, error) {
	if defaultSort == "" {
		defaultSort = "newest"
	}
	s := &Store{
		path:    filepath.Join(dir, "state.json"),
		current: State{SortOrder: defaultSort},
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		return nil, err
	}
	if s.current.SortOrder == "" {
		s.current.SortOrder = defaultSort
	}
	return s, nil
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save writes state to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.current, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// SetSortOrder sets and saves the sort order.
func (s *Store) SetSortOrder(order string) error {
	s.mu.Lock()
	s.current.SortOrder = order
	s.mu.Unlock()
	return s.Save()
}

// SetPinnedOnly sets and saves the pinned-only filter.
func (s *Store) SetPinnedOnly(on bool) error {
	s.mu.Lock()
	s.current.PinnedOnly = on
	s.mu.Unlock()
	return s.Save()
}

// SetLastHabit records the most recently opened habit diary.
func (s *Store) SetLastHabit(title string) error {
	s.mu.Lock()
	s.current.LastHabit = title
	s.mu.Unlock()
	return s.Save()
}
