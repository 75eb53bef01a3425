// Package file persists presenter configuration as a TOML file in the
// config directory. Values the file does not set fall back to the
// engine defaults.
package file

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

const configFileName = "config.toml"

// Config is the on-disk TOML shape. Zero values mean "not set".
type Config struct {
	CacheBudgetMB  int64   `toml:"cache_budget_mb,omitempty"`
	PinRadius      int     `toml:"pin_radius,omitempty"`
	SavesPerSecond float64 `toml:"saves_per_second,omitempty"`
	SaveBurst      int     `toml:"save_burst,omitempty"`
	Screens        string  `toml:"screens,omitempty"`
}

// Store reads and writes the configuration file. Writes are atomic so
// a crash mid-save never leaves a torn file behind.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// NewStore creates a store over configDir/config.toml and loads it if
// present. An empty configDir resolves to ~/.duoslide.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".duoslide")
	}

	s := &Store{path: filepath.Join(configDir, configFileName)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the file into memory. A missing file is an empty config.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// EngineConfig returns the engine defaults overlaid with whatever the
// file sets.
func (s *Store) EngineConfig() domain.EngineConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := domain.DefaultEngineConfig()
	if s.cfg.CacheBudgetMB > 0 {
		cfg.CacheBudgetBytes = s.cfg.CacheBudgetMB << 20
	}
	if s.cfg.PinRadius > 0 {
		cfg.PinRadius = s.cfg.PinRadius
	}
	if s.cfg.SavesPerSecond > 0 {
		cfg.SavesPerSecond = s.cfg.SavesPerSecond
	}
	if s.cfg.SaveBurst > 0 {
		cfg.SaveBurst = s.cfg.SaveBurst
	}
	return cfg
}

// Screens returns the configured screen layout spec, if any.
func (s *Store) Screens() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Screens
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := []string{
		"cache_budget_mb",
		"pin_radius",
		"saves_per_second",
		"save_burst",
		"screens",
	}
	sort.Strings(keys)
	return keys
}

// Set updates a single key and persists the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "cache_budget_mb":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		s.cfg.CacheBudgetMB = n
	case "pin_radius":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		s.cfg.PinRadius = n
	case "saves_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		s.cfg.SavesPerSecond = f
	case "save_burst":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		s.cfg.SaveBurst = n
	case "screens":
		s.cfg.Screens = value
	default:
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	return s.save()
}

// save writes the in-memory config back to disk. Callers hold the lock.
func (s *Store) save() error {
	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
