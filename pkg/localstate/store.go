package localstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys persisted by the submission client. These are the only two pieces
// of durable client-side state in the system.
const (
	// KeyWaitlistEmail holds the last successfully submitted email.
	// Written by the form on a successful submission; read at client
	// startup to recall the user. Never consulted for any admission or
	// validation decision.
	KeyWaitlistEmail = "waitlistEmail"

	// KeyVisited is the first-visit flag. Read once at client startup and
	// set to "true" afterwards.
	KeyVisited = "kiva_visited"
)

// Store is a file-backed string key-value store. Writes rewrite the whole
// file through a rename so a crash never leaves a half-written state file.
type Store struct {
	path string

	mu sync.Mutex
}

func Open(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the state file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("localstate: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "kiva", "waitlist.json"), nil
}

// Get returns the value for key and whether it was present. A missing
// state file reads as an empty store.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}

	value, ok := values[key]
	return value, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	values[key] = value
	return s.save(values)
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	delete(values, key)
	return s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstate: read %s: %w", s.path, err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("localstate: parse %s: %w", s.path, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("localstate: create dir: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("localstate: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("localstate: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("localstate: replace %s: %w", s.path, err)
	}
	return nil
}
