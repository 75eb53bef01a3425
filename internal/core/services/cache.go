package services

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
	"github.com/duoslide/duoslide-cli/internal/logger"
)

// cacheKey identifies one rendered bitmap. Sizes are quantized to the
// requesting window's dimensions, so a resize produces new entries
// instead of rescaling stale bitmaps.
type cacheKey struct {
	page   int
	width  int
	height int
}

// cacheEntry is one resident bitmap with its LRU bookkeeping.
type cacheEntry struct {
	bitmap     image.Image
	bytes      int64
	lastAccess int64
}

// SlideCache memoizes rasterized pages with a bounded byte budget.
//
// Eviction is least-recently-used, except that pinned entries (the
// slides around the live one while presenting) are never evicted, so
// forward/backward navigation during a live presentation never incurs
// a visible rasterization stall.
//
// The cache is the only structure shared between the synchronous
// command path and background render goroutines; every access goes
// through the mutex. Concurrent misses for the same key may rasterize
// twice; the loser is dropped on insert.
type SlideCache struct {
	mu      sync.Mutex
	source  driven.DocumentSource
	budget  int64
	entries map[cacheKey]*cacheEntry
	used    int64
	clock   int64
	pins    map[cacheKey]struct{}
}

// NewSlideCache creates a cache over the given source with a byte budget.
func NewSlideCache(source driven.DocumentSource, budgetBytes int64) *SlideCache {
	return &SlideCache{
		source:  source,
		budget:  budgetBytes,
		entries: make(map[cacheKey]*cacheEntry),
		pins:    make(map[cacheKey]struct{}),
	}
}

// Get returns the bitmap for a page at the given render size, from
// cache when possible. On a miss the source rasterizes; a failure is
// retried once, and a persistent failure yields a placeholder bitmap
// rather than an error, so a broken page never takes down a live
// presentation. Placeholders are not cached, so a later visit retries
// the render.
func (c *SlideCache) Get(ctx context.Context, page, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render size %dx%d: invalid", width, height)
	}
	key := cacheKey{page: page, width: width, height: height}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.clock++
		e.lastAccess = c.clock
		c.mu.Unlock()
		return e.bitmap, nil
	}
	c.mu.Unlock()

	// Rasterize outside the lock; renders can take a while and must
	// not block cache hits on other pages.
	bmp, err := c.source.Rasterize(ctx, page, width, height)
	if err != nil {
		logger.Debug("render failed for page %d (%dx%d), retrying: %v", page, width, height, err)
		bmp, err = c.source.Rasterize(ctx, page, width, height)
	}
	if err != nil {
		logger.Warn("page %d unavailable after retry: %v", page, err)
		return placeholderBitmap(width, height), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		// Lost a race against a concurrent render of the same key.
		c.clock++
		e.lastAccess = c.clock
		return e.bitmap, nil
	}

	c.clock++
	e := &cacheEntry{bitmap: bmp, bytes: bitmapBytes(bmp), lastAccess: c.clock}
	c.entries[key] = e
	c.used += e.bytes
	c.evict()

	return bmp, nil
}

// Contains reports whether a bitmap is resident, without touching LRU order.
func (c *SlideCache) Contains(page, width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[cacheKey{page: page, width: width, height: height}]
	return ok
}

// Prefetch renders a page in the background so a later Get hits.
// Already-resident pages are skipped.
func (c *SlideCache) Prefetch(ctx context.Context, page, width, height int) {
	if width <= 0 || height <= 0 || c.Contains(page, width, height) {
		return
	}
	go func() {
		if _, err := c.Get(ctx, page, width, height); err != nil {
			logger.Debug("prefetch of page %d failed: %v", page, err)
		}
	}()
}

// Pin replaces the pin set with the given pages at one render size.
// Pinned entries are exempt from eviction while presenting.
func (c *SlideCache) Pin(pages []int, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pins = make(map[cacheKey]struct{}, len(pages))
	for _, p := range pages {
		c.pins[cacheKey{page: p, width: width, height: height}] = struct{}{}
	}
}

// Unpin clears the pin set (presentation stopped).
func (c *SlideCache) Unpin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pins = make(map[cacheKey]struct{})
}

// Clear drops every entry. Called when the document is replaced.
func (c *SlideCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*cacheEntry)
	c.pins = make(map[cacheKey]struct{})
	c.used = 0
}

// UsedBytes returns the resident bitmap byte total.
func (c *SlideCache) UsedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// evict drops least-recently-used unpinned entries until the budget
// holds. Pinned entries may keep the cache over budget; they are never
// evicted. Caller must hold the lock.
func (c *SlideCache) evict() {
	for c.used > c.budget {
		var victim cacheKey
		var oldest int64 = -1
		for k, e := range c.entries {
			if _, pinned := c.pins[k]; pinned {
				continue
			}
			if oldest == -1 || e.lastAccess < oldest {
				oldest = e.lastAccess
				victim = k
			}
		}
		if oldest == -1 {
			return // everything left is pinned
		}
		c.used -= c.entries[victim].bytes
		delete(c.entries, victim)
		logger.Debug("evicted page %d at %dx%d", victim.page, victim.width, victim.height)
	}
}

// bitmapBytes estimates the resident size of a bitmap.
func bitmapBytes(img image.Image) int64 {
	if rgba, ok := img.(*image.RGBA); ok {
		return int64(len(rgba.Pix))
	}
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// placeholderBitmap renders the "page unavailable" bitmap: a dark grey
// field with a lighter border.
func placeholderBitmap(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 40, G: 40, B: 44, A: 255}
	border := color.RGBA{R: 120, G: 120, B: 128, A: 255}

	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	for x := 0; x < width; x++ {
		img.SetRGBA(x, 0, border)
		img.SetRGBA(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.SetRGBA(0, y, border)
		img.SetRGBA(width-1, y, border)
	}
	return img
}
