// Package memory provides a synthetic DocumentSource for tests.
package memory

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source is an in-memory implementation of driven.DocumentSource.
// Pages render as solid-colour bitmaps; tests can count rasterize
// calls and inject per-page failures.
type Source struct {
	mu sync.Mutex

	// PageCount is the page count reported for any opened path.
	PageCount int

	// PageWidth and PageHeight are the native page dimensions reported
	// by Open.
	PageWidth  int
	PageHeight int

	// FailOpen makes Open fail regardless of path.
	FailOpen bool

	// failures maps page index to the number of rasterize calls that
	// should still fail for it.
	failures map[int]int

	calls map[string]int
	path  string
}

// NewSource creates a synthetic source with the given page count.
// Pages default to 640x480.
func NewSource(pageCount int) *Source {
	return &Source{
		PageCount:  pageCount,
		PageWidth:  640,
		PageHeight: 480,
		failures:   make(map[int]int),
		calls:      make(map[string]int),
	}
}

// FailPage makes the next n Rasterize calls for a page fail.
func (s *Source) FailPage(page, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[page] = n
}

// RasterizeCalls returns how often a (page, w, h) combination was rendered.
func (s *Source) RasterizeCalls(page, width, height int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[callKey(page, width, height)]
}

// TotalCalls returns the total number of Rasterize invocations.
func (s *Source) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Open implements driven.DocumentSource.
func (s *Source) Open(_ context.Context, path string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailOpen {
		return nil, fmt.Errorf("opening %s: %w", path, domain.ErrDocumentUnreadable)
	}

	s.path = path
	return &domain.Document{
		Path:       path,
		PageCount:  s.PageCount,
		PageWidth:  s.PageWidth,
		PageHeight: s.PageHeight,
	}, nil
}

// Rasterize implements driven.DocumentSource.
func (s *Source) Rasterize(_ context.Context, pageIndex, width, height int) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[callKey(pageIndex, width, height)]++

	if left := s.failures[pageIndex]; left > 0 {
		s.failures[pageIndex] = left - 1
		return nil, fmt.Errorf("page %d: %w", pageIndex, domain.ErrRenderFailed)
	}

	if pageIndex < 0 || pageIndex >= s.PageCount {
		return nil, fmt.Errorf("page %d out of range: %w", pageIndex, domain.ErrRenderFailed)
	}

	// Each page gets a distinct shade so tests can tell bitmaps apart.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	shade := uint8(40 + (pageIndex*13)%200)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: shade, G: shade, B: 255 - shade, A: 255}}, image.Point{}, draw.Src)
	return img, nil
}

// Close implements driven.DocumentSource.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
	return nil
}

func callKey(page, width, height int) string {
	return fmt.Sprintf("%d@%dx%d", page, width, height)
}
