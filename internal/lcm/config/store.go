// Package config persists the game install location and reads environment
// settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
)

type file struct {
	Path *string `json:"path"`
}

// Store is the config.json of the data directory.
type Store struct {
	mu      sync.RWMutex
	storage *storage.Storage
	path    string
	data    file
	logger  *slog.Logger
}

// Load reads config.json at path. A missing or corrupt file is replaced by
// the default configuration.
func Load(st *storage.Storage, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{storage: st, path: path, logger: logger}

	raw, err := st.ReadFile(path)
	switch {
	case err == nil:
		jerr := json.Unmarshal(raw, &s.data)
		if jerr == nil {
			return s, nil
		}
		logger.Warn("config corrupt, resetting", "path", path, "error", jerr)
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("config missing, writing defaults", "path", path)
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	s.data = file{}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the configured install directory, or "" when unset.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.Path == nil {
		return ""
	}
	return *s.data.Path
}

// SetPath records the install directory and saves the file.
func (s *Store) SetPath(p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Path = &p
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("install path saved", "path", p)
	return nil
}

func (s *Store) save() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	if err := s.storage.WriteFileAtomic(s.path, raw); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
