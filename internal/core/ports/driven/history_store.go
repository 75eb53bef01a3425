package driven

import (
	"context"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// HistoryStore persists per-deck resume positions and a log of
// presentation runs. Backed by SQLite.
type HistoryStore interface {
	// SaveResume records the slide a deck was left at.
	SaveResume(ctx context.Context, path string, slide int) error

	// Resume returns the recorded slide for a deck, ok=false when the
	// deck was never seen.
	Resume(ctx context.Context, path string) (int, bool, error)

	// RecordRun appends one completed presentation run.
	RecordRun(ctx context.Context, run domain.Run) error

	// RecentDecks lists decks by most recent use.
	RecentDecks(ctx context.Context, limit int) ([]domain.DeckHistory, error)

	// RecentRuns lists completed runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]domain.Run, error)
}
