package services

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duoslide/duoslide-cli/internal/adapters/driven/source/memory"
)

const (
	testW = 100
	testH = 100

	// One 100x100 RGBA bitmap is 40000 bytes.
	bitmapSize = int64(testW * testH * 4)
)

func testCache(t *testing.T, pages int, budget int64) (*SlideCache, *memory.Source) {
	t.Helper()
	src := memory.NewSource(pages)
	return NewSlideCache(src, budget), src
}

func TestCache_HitNeverReRasterizes(t *testing.T) {
	cache, src := testCache(t, 10, 10*bitmapSize)
	ctx := context.Background()

	first, err := cache.Get(ctx, 3, testW, testH)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := cache.Get(ctx, 3, testW, testH)
		require.NoError(t, err)
		assert.Same(t, first, again)
	}

	assert.Equal(t, 1, src.RasterizeCalls(3, testW, testH))
}

func TestCache_SizeIsPartOfTheKey(t *testing.T) {
	cache, src := testCache(t, 10, 10*bitmapSize)
	ctx := context.Background()

	_, err := cache.Get(ctx, 0, testW, testH)
	require.NoError(t, err)
	_, err = cache.Get(ctx, 0, 50, 50)
	require.NoError(t, err)

	assert.Equal(t, 1, src.RasterizeCalls(0, testW, testH))
	assert.Equal(t, 1, src.RasterizeCalls(0, 50, 50))
	assert.True(t, cache.Contains(0, testW, testH))
	assert.True(t, cache.Contains(0, 50, 50))
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	// Budget holds exactly two bitmaps.
	cache, _ := testCache(t, 10, 2*bitmapSize)
	ctx := context.Background()

	_, err := cache.Get(ctx, 0, testW, testH)
	require.NoError(t, err)
	_, err = cache.Get(ctx, 1, testW, testH)
	require.NoError(t, err)

	// Touch page 0 so page 1 becomes the LRU victim.
	_, err = cache.Get(ctx, 0, testW, testH)
	require.NoError(t, err)

	_, err = cache.Get(ctx, 2, testW, testH)
	require.NoError(t, err)

	assert.True(t, cache.Contains(0, testW, testH))
	assert.False(t, cache.Contains(1, testW, testH))
	assert.True(t, cache.Contains(2, testW, testH))
	assert.LessOrEqual(t, cache.UsedBytes(), 2*bitmapSize)
}

func TestCache_PinnedEntriesSurviveEvictionPressure(t *testing.T) {
	cache, src := testCache(t, 20, 3*bitmapSize)
	ctx := context.Background()

	// Pin the window around a live slide at page 5.
	cache.Pin([]int{4, 5, 6}, testW, testH)
	for _, p := range []int{4, 5, 6} {
		_, err := cache.Get(ctx, p, testW, testH)
		require.NoError(t, err)
	}

	// Churn through enough other pages to evict everything unpinned.
	for p := 10; p < 18; p++ {
		_, err := cache.Get(ctx, p, testW, testH)
		require.NoError(t, err)
	}

	for _, p := range []int{4, 5, 6} {
		assert.True(t, cache.Contains(p, testW, testH), "pinned page %d was evicted", p)
		_, err := cache.Get(ctx, p, testW, testH)
		require.NoError(t, err)
		assert.Equal(t, 1, src.RasterizeCalls(p, testW, testH))
	}
}

func TestCache_UnpinMakesEntriesEvictableAgain(t *testing.T) {
	cache, _ := testCache(t, 10, 1*bitmapSize)
	ctx := context.Background()

	cache.Pin([]int{0}, testW, testH)
	_, err := cache.Get(ctx, 0, testW, testH)
	require.NoError(t, err)

	// Pinned entry holds even though page 1 pushes the cache over budget.
	_, err = cache.Get(ctx, 1, testW, testH)
	require.NoError(t, err)
	assert.True(t, cache.Contains(0, testW, testH))

	cache.Unpin()
	_, err = cache.Get(ctx, 2, testW, testH)
	require.NoError(t, err)
	assert.False(t, cache.Contains(0, testW, testH))
}

func TestCache_TransientFailureIsRetried(t *testing.T) {
	cache, src := testCache(t, 10, 10*bitmapSize)
	src.FailPage(2, 1)

	bmp, err := cache.Get(context.Background(), 2, testW, testH)
	require.NoError(t, err)
	require.NotNil(t, bmp)

	assert.Equal(t, 2, src.RasterizeCalls(2, testW, testH))
	assert.True(t, cache.Contains(2, testW, testH))
	assertRealPage(t, bmp, 2)
}

func TestCache_PersistentFailureYieldsUncachedPlaceholder(t *testing.T) {
	cache, src := testCache(t, 10, 10*bitmapSize)
	ctx := context.Background()
	src.FailPage(2, 2)

	bmp, err := cache.Get(ctx, 2, testW, testH)
	require.NoError(t, err)
	require.NotNil(t, bmp)

	// Both attempts failed; the placeholder must not be cached so the
	// next visit tries again.
	assert.Equal(t, 2, src.RasterizeCalls(2, testW, testH))
	assert.False(t, cache.Contains(2, testW, testH))
	assertPlaceholder(t, bmp)

	// The source recovered; the next Get renders the real page.
	bmp, err = cache.Get(ctx, 2, testW, testH)
	require.NoError(t, err)
	assert.Equal(t, 3, src.RasterizeCalls(2, testW, testH))
	assert.True(t, cache.Contains(2, testW, testH))
	assertRealPage(t, bmp, 2)
}

func TestCache_ClearDropsEverything(t *testing.T) {
	cache, src := testCache(t, 10, 10*bitmapSize)
	ctx := context.Background()

	cache.Pin([]int{0}, testW, testH)
	for p := 0; p < 3; p++ {
		_, err := cache.Get(ctx, p, testW, testH)
		require.NoError(t, err)
	}
	require.Equal(t, 3*bitmapSize, cache.UsedBytes())

	cache.Clear()

	assert.Zero(t, cache.UsedBytes())
	for p := 0; p < 3; p++ {
		assert.False(t, cache.Contains(p, testW, testH))
	}

	// A previously pinned page is re-rendered and evictable after Clear.
	_, err := cache.Get(ctx, 0, testW, testH)
	require.NoError(t, err)
	assert.Equal(t, 2, src.RasterizeCalls(0, testW, testH))
}

func TestCache_RejectsInvalidRenderSize(t *testing.T) {
	cache, _ := testCache(t, 10, 10*bitmapSize)

	_, err := cache.Get(context.Background(), 0, 0, testH)
	assert.Error(t, err)
	_, err = cache.Get(context.Background(), 0, testW, -1)
	assert.Error(t, err)
}

// assertRealPage checks the bitmap carries the synthetic source's
// per-page shade rather than the placeholder fill.
func assertRealPage(t *testing.T, bmp image.Image, page int) {
	t.Helper()
	shade := uint32(40+(page*13)%200) * 0x101
	r, g, _, _ := bmp.At(testW/2, testH/2).RGBA()
	assert.Equal(t, shade, r)
	assert.Equal(t, shade, g)
}

func assertPlaceholder(t *testing.T, bmp image.Image) {
	t.Helper()
	// The placeholder border is a lighter grey than any page shade line.
	r, g, b, _ := bmp.At(0, 0).RGBA()
	assert.Equal(t, uint32(120*0x101), r)
	assert.Equal(t, uint32(120*0x101), g)
	assert.Equal(t, uint32(128*0x101), b)
}
