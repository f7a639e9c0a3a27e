// Package session persists the logged-in user and the debug overrides
// between runs, mirroring what the web UI keeps in browser local storage.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"shoppinglist/internal/domain"
)

const fileName = "session.json"

// record is the on-disk shape. Overrides live next to the session because
// both are cleared together on logout.
type record struct {
	Session     *domain.UserSession `json:"session,omitempty"`
	OverrideURL string              `json:"override_url,omitempty"`
	OverrideKey string              `json:"override_key,omitempty"`
}

// Store is a file-backed session store.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

// Save persists the user session, keeping any stored overrides.
func (s *Store) Save(session domain.UserSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return err
	}
	rec.Session = &session
	return s.write(rec)
}

// Load returns the stored session, or nil when nobody is logged in.
func (s *Store) Load() (*domain.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return nil, err
	}
	return rec.Session, nil
}

// SetOverrides stores the debug backend URL and key overrides. Empty values
// clear them.
func (s *Store) SetOverrides(overrideURL, overrideKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return err
	}
	rec.OverrideURL = overrideURL
	rec.OverrideKey = overrideKey
	return s.write(rec)
}

// Overrides returns the stored debug overrides.
func (s *Store) Overrides() (overrideURL, overrideKey string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return "", "", err
	}
	return rec.OverrideURL, rec.OverrideKey, nil
}

// Clear destroys the stored session and overrides. Called on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) read() (record, error) {
	var rec record

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("session file is corrupt: %w", err)
	}
	return rec, nil
}

// write replaces the session file atomically. The file may hold an override
// key, hence the restrictive mode.
func (s *Store) write(rec record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
