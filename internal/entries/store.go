package entries

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName     = "lgnetcast"
	entriesFile = "entries.yaml"
)

// Entry is one configured NetCast TV.
type Entry struct {
	// Title is the human-facing entry title (usually the model name)
	Title string `yaml:"title"`

	// Host is the TV's hostname or IP address
	Host string `yaml:"host"`

	// AccessToken is the pairing PIN, if one was required
	AccessToken string `yaml:"access_token,omitempty"`

	// Name is the resolved display name
	Name string `yaml:"name"`

	// ID is the USN-derived unique id; empty for manually entered hosts
	// that were never seen via discovery
	ID string `yaml:"id,omitempty"`
}

// storeDoc is the on-disk document shape.
type storeDoc struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

// Store is the on-disk registry of configured entries.
// All operations are safe for concurrent use within one process.
type Store struct {
	path string

	mu  sync.Mutex
	doc storeDoc
}

// DefaultPath returns the OS-appropriate location of the entries file,
// e.g. ~/.config/lgnetcast/entries.yaml on Linux.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(configDir, appName, entriesFile), nil
}

// Open loads the store at path, or returns an empty store if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	store := &Store{path: path, doc: storeDoc{Version: 1}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entries file: %w", err)
	}

	var doc storeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse entries file: %w", err)
	}
	if doc.Version != 1 {
		return nil, fmt.Errorf("unsupported entries file version: %d (expected 1)", doc.Version)
	}

	store.doc = doc
	return store, nil
}

// Add appends a new entry and saves. Entries with a unique id that is
// already configured are rejected.
func (s *Store) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID != "" {
		for _, existing := range s.doc.Entries {
			if existing.ID == entry.ID {
				return fmt.Errorf("device %s is already configured", entry.ID)
			}
		}
	}

	s.doc.Entries = append(s.doc.Entries, entry)
	return s.save()
}

// ConfiguredIDs returns the unique ids of all configured entries.
func (s *Store) ConfiguredIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, entry := range s.doc.Entries {
		if entry.ID != "" {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// Entries returns a copy of all configured entries.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.doc.Entries))
	copy(out, s.doc.Entries)
	return out
}

// save writes the store to disk atomically: marshal to a temporary file in
// the same directory, then rename over the target.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create entries directory: %w", err)
	}

	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	header := []byte(`# lgnetcast configured devices
# Access tokens in this file are device pairing PINs; keep it private.

`)
	data = append(header, data...)

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary entries file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save entries file: %w", err)
	}

	return nil
}
