package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Persistent UI state for gwkit, stored next to the config:
//
//   ~/.config/gwkit/state.json
//
// It remembers the last login user and the hosts connected to most recently.

const (
	defaultStateFilename = "state.json"
	defaultRecentsLimit  = 50
)

// State represents the on-disk JSON structure.
type State struct {
	Version int `json:"version,omitempty"`

	// User is the login user selected when the UI last exited.
	User string `json:"user,omitempty"`

	// Recents stores a most-recently-used list of host keys, newest first.
	Recents []string `json:"recents,omitempty"`

	// Updated tracks the last update time in RFC3339.
	Updated string `json:"updated,omitempty"`
}

// DefaultStatePath returns the full path to the state.json file.
func DefaultStatePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultStateFilename), nil
}

// LoadState reads the state JSON from path. If path is empty, the default path is used.
// If the file does not exist, it returns an empty state and nil error.
func LoadState(path string) (*State, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultStatePath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{Version: 1}, nil
		}
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	if st.Version == 0 {
		st.Version = 1
	}
	st.PruneRecents(defaultRecentsLimit)
	return &st, nil
}

// SaveState writes the state JSON to path atomically.
// If path is empty, the default path is used.
func SaveState(path string, st *State) error {
	if st == nil {
		return errors.New("nil state")
	}
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultStatePath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}

	st2 := *st
	st2.Updated = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.MarshalIndent(st2, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	payload = append(payload, '\n')

	tmp := path + fmt.Sprintf(".tmp-%d-%d", os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write temp state %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename to %s: %w", path, err)
	}
	return nil
}

// AddRecent moves key to the front of Recents, inserting it if absent.
func (s *State) AddRecent(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	out := make([]string, 0, len(s.Recents)+1)
	out = append(out, key)
	for _, k := range s.Recents {
		if k != key {
			out = append(out, k)
		}
	}
	s.Recents = out
	s.PruneRecents(defaultRecentsLimit)
}

// RenameRecent replaces oldKey with newKey, keeping its position.
func (s *State) RenameRecent(oldKey, newKey string) {
	for i, k := range s.Recents {
		if k == oldKey {
			s.Recents[i] = newKey
		}
	}
	s.dedupeRecents()
}

// RemoveRecent removes key from Recents. Returns true if modified.
func (s *State) RemoveRecent(key string) bool {
	out := s.Recents[:0]
	removed := false
	for _, k := range s.Recents {
		if k == key {
			removed = true
			continue
		}
		out = append(out, k)
	}
	s.Recents = out
	return removed
}

// PruneRecents caps the Recents list to limit (or the default if <= 0).
func (s *State) PruneRecents(limit int) bool {
	if limit <= 0 {
		limit = defaultRecentsLimit
	}
	if len(s.Recents) <= limit {
		return false
	}
	s.Recents = s.Recents[:limit]
	return true
}

func (s *State) dedupeRecents() {
	seen := make(map[string]struct{}, len(s.Recents))
	out := s.Recents[:0]
	for _, k := range s.Recents {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	s.Recents = out
}
