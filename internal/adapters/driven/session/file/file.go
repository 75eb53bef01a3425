// Package file persists the session as a TOML file in the config
// directory.
package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// sessionFile is the on-disk TOML shape.
type sessionFile struct {
	LastPath      string `toml:"last_path"`
	LastSlide     int    `toml:"last_slide"`
	LastDirectory string `toml:"last_directory"`
}

// Store reads and writes the session file. Writes are atomic so a
// crash mid-save never leaves a torn file behind.
type Store struct {
	path string
}

// New creates a store over configDir/session.toml.
func New(configDir string) *Store {
	return &Store{path: filepath.Join(configDir, "session.toml")}
}

// Load implements driven.SessionStore. A missing file is a zero
// session, not an error; a corrupt file is.
func (s *Store) Load(_ context.Context) (domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("reading session file: %v: %w", err, domain.ErrPersistence)
	}

	var f sessionFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return domain.Session{}, fmt.Errorf("parsing session file %s: %v: %w", s.path, err, domain.ErrPersistence)
	}

	return domain.Session{
		LastPath:      f.LastPath,
		LastSlide:     f.LastSlide,
		LastDirectory: f.LastDirectory,
	}, nil
}

// Save implements driven.SessionStore.
func (s *Store) Save(_ context.Context, session domain.Session) error {
	data, err := toml.Marshal(sessionFile{
		LastPath:      session.LastPath,
		LastSlide:     session.LastSlide,
		LastDirectory: session.LastDirectory,
	})
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing session file: %v: %w", err, domain.ErrPersistence)
	}
	return nil
}
