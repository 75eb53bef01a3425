package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResume_UnknownDeck(t *testing.T) {
	store := testStore(t)

	_, ok, err := store.Resume(context.Background(), "/decks/never-seen.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveResume_RoundTripsAndUpserts(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResume(ctx, "/decks/talk.pdf", 4))
	slide, ok, err := store.Resume(ctx, "/decks/talk.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, slide)

	require.NoError(t, store.SaveResume(ctx, "/decks/talk.pdf", 9))
	slide, ok, err = store.Resume(ctx, "/decks/talk.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 9, slide)
}

func TestSaveResume_RejectsEmptyPath(t *testing.T) {
	store := testStore(t)
	err := store.SaveResume(context.Background(), "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecentDecks_NewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResume(ctx, "/decks/old.pdf", 1))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.SaveResume(ctx, "/decks/new.pdf", 2))

	decks, err := store.RecentDecks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "/decks/new.pdf", decks[0].Path)
	assert.Equal(t, "/decks/old.pdf", decks[1].Path)
}

func TestRecordRunAndRecentRuns(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	start := time.Now().Add(-10 * time.Minute)
	older := domain.Run{
		ID:            uuid.NewString(),
		Path:          "/decks/a.pdf",
		StartedAt:     start,
		EndedAt:       start.Add(5 * time.Minute),
		SlidesVisited: 12,
	}
	newer := domain.Run{
		ID:        uuid.NewString(),
		Path:      "/decks/b.pdf",
		StartedAt: start.Add(6 * time.Minute),
		EndedAt:   start.Add(9 * time.Minute),
	}
	require.NoError(t, store.RecordRun(ctx, older))
	require.NoError(t, store.RecordRun(ctx, newer))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
	assert.Equal(t, 12, runs[1].SlidesVisited)

	limited, err := store.RecentRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordRun_RejectsMissingIdentity(t *testing.T) {
	store := testStore(t)

	err := store.RecordRun(context.Background(), domain.Run{Path: "/decks/a.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = store.RecordRun(context.Background(), domain.Run{ID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveResume(ctx, "/decks/talk.pdf", 3))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	slide, ok, err := reopened.Resume(ctx, "/decks/talk.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, slide)
}
