// Package sqlite persists per-deck resume positions and the
// presentation run log in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/duoslide/duoslide-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.HistoryStore = (*Store)(nil)

// Store is the SQLite-backed history store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the history database at dataDir.
// If dataDir is empty, defaults to ~/.duoslide/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".duoslide", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode so a background save never blocks a read.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveResume implements driven.HistoryStore.
func (s *Store) SaveResume(ctx context.Context, path string, slide int) error {
	if path == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (path, last_slide, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			last_slide = excluded.last_slide,
			updated_at = excluded.updated_at
	`, path, slide, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving resume position: %w", err)
	}
	return nil
}

// Resume implements driven.HistoryStore.
func (s *Store) Resume(ctx context.Context, path string) (int, bool, error) {
	var slide int
	err := s.db.QueryRowContext(ctx,
		"SELECT last_slide FROM decks WHERE path = ?", path).Scan(&slide)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying resume position: %w", err)
	}
	return slide, true, nil
}

// RecordRun implements driven.HistoryStore.
func (s *Store) RecordRun(ctx context.Context, run domain.Run) error {
	if run.ID == "" || run.Path == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, path, started_at, ended_at, slides_visited)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Path, run.StartedAt.UTC(), run.EndedAt.UTC(), run.SlidesVisited)

	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// RecentDecks implements driven.HistoryStore.
func (s *Store) RecentDecks(ctx context.Context, limit int) ([]domain.DeckHistory, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, last_slide, updated_at
		FROM decks ORDER BY updated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying decks: %w", err)
	}
	defer rows.Close()

	var decks []domain.DeckHistory //nolint:prealloc // size unknown from query
	for rows.Next() {
		var d domain.DeckHistory
		if err := rows.Scan(&d.Path, &d.LastSlide, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning deck: %w", err)
		}
		decks = append(decks, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decks: %w", err)
	}
	return decks, nil
}

// RecentRuns implements driven.HistoryStore.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, started_at, ended_at, slides_visited
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.Run
		if err := rows.Scan(&r.ID, &r.Path, &r.StartedAt, &r.EndedAt, &r.SlidesVisited); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
