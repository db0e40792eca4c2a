// Package storage persists the event catalog as a JSON file on disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lfrguimaraes/outy-back/internal/event"
)

// Storage reads and writes one catalog file.
type Storage struct {
	path string
}

// New creates a Storage for the given catalog path, expanding a leading ~
// and creating the parent directory if needed.
func New(path string) (*Storage, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	return &Storage{path: path}, nil
}

// Path returns the resolved catalog path.
func (s *Storage) Path() string {
	return s.path
}

// Load reads the catalog from disk. A missing file is a fresh start, not an
// error.
func (s *Storage) Load() ([]*event.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return events, nil
}

// Save writes the catalog atomically: the JSON is written next to the
// target and renamed into place, so a crash mid-write never corrupts the
// existing file.
func (s *Storage) Save(events []*event.Event) error {
	if events == nil {
		events = []*event.Event{}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}
