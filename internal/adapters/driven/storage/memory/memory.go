// Package memory provides in-memory session and history stores.
// Used by tests and as the fallback when persistence is disabled.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
)

// Ensure the stores implement the interfaces.
var (
	_ driven.SessionStore = (*SessionStore)(nil)
	_ driven.HistoryStore = (*HistoryStore)(nil)
)

// SessionStore holds the session in memory.
type SessionStore struct {
	mu      sync.Mutex
	session domain.Session
	saves   int
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Load implements driven.SessionStore.
func (s *SessionStore) Load(_ context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

// Save implements driven.SessionStore.
func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.saves++
	return nil
}

// Saves returns how often Save was called. Test hook.
func (s *SessionStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Seed replaces the stored session. Test hook.
func (s *SessionStore) Seed(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// HistoryStore holds deck history and runs in memory.
type HistoryStore struct {
	// ResumeErr makes Resume fail. Test hook.
	ResumeErr error

	mu    sync.Mutex
	decks map[string]domain.DeckHistory
	runs  []domain.Run
}

// NewHistoryStore creates an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{decks: make(map[string]domain.DeckHistory)}
}

// SaveResume implements driven.HistoryStore.
func (h *HistoryStore) SaveResume(_ context.Context, path string, slide int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec := h.decks[path]
	rec.Path = path
	rec.LastSlide = slide
	rec.UpdatedAt = time.Now()
	h.decks[path] = rec
	return nil
}

// Resume implements driven.HistoryStore.
func (h *HistoryStore) Resume(_ context.Context, path string) (int, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ResumeErr != nil {
		return 0, false, h.ResumeErr
	}
	rec, ok := h.decks[path]
	if !ok {
		return 0, false, nil
	}
	return rec.LastSlide, true, nil
}

// RecordRun implements driven.HistoryStore.
func (h *HistoryStore) RecordRun(_ context.Context, run domain.Run) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, run)
	return nil
}

// RecentDecks implements driven.HistoryStore.
func (h *HistoryStore) RecentDecks(_ context.Context, limit int) ([]domain.DeckHistory, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.DeckHistory, 0, len(h.decks))
	for _, rec := range h.decks {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].Path < out[j].Path
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RecentRuns implements driven.HistoryStore.
func (h *HistoryStore) RecentRuns(_ context.Context, limit int) ([]domain.Run, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.Run, len(h.runs))
	copy(out, h.runs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Runs returns every recorded run in insertion order. Test hook.
func (h *HistoryStore) Runs() []domain.Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.Run, len(h.runs))
	copy(out, h.runs)
	return out
}
