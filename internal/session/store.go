// Package session keeps the selected range between runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/teranos/rangeseek"
)

// Store saves and loads a rangeseek.State as YAML at a fixed path.
//
//	lesserStep: 4
//	largerStep: 12
type Store struct {
	path string
}

// NewStore returns a store for path. Nothing is touched until Save or Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved state. ok is false when no state has been saved.
func (s *Store) Load() (state rangeseek.State, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return rangeseek.State{}, false, nil
	}
	if err != nil {
		return rangeseek.State{}, false, err
	}

	if err := yaml.Unmarshal(data, &state); err != nil {
		return rangeseek.State{}, false, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return state, true, nil
}

// Save writes state through a temporary file in the same directory and
// renames it into place, so a crash never leaves a partial file.
func (s *Store) Save(state rangeseek.State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Restore loads the saved state into ctrl. It reports whether a state was
// found; a saved state the controller rejects is returned as an error.
func (s *Store) Restore(ctrl *rangeseek.Controller) (bool, error) {
	state, ok, err := s.Load()
	if err != nil || !ok {
		return false, err
	}
	if err := ctrl.RestoreState(state); err != nil {
		return false, err
	}
	return true, nil
}
