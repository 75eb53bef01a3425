// Package imagedir implements a document source over a directory of
// page images. Pages are the image files in the directory, ordered by
// name, which is the interchange format produced by pre-rendering a
// deck one image per page.
package imagedir

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/draw"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"

	// Register decoders for the page image formats.
	_ "golang.org/x/image/bmp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

var pageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// Source rasterizes pages from a directory of image files.
type Source struct {
	mu    sync.Mutex
	dir   string
	pages []string
}

// New creates an unopened image-directory source.
func New() *Source {
	return &Source{}
}

// Open implements driven.DocumentSource. The path must be a directory
// containing at least one page image.
func (s *Source) Open(_ context.Context, path string) (*domain.Document, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck directory %s: %w", path, domain.ErrDocumentUnreadable)
	}

	var pages []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			pages = append(pages, filepath.Join(path, entry.Name()))
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page images in %s: %w", path, domain.ErrDocumentUnreadable)
	}
	sort.Strings(pages)

	s.mu.Lock()
	s.dir = path
	s.pages = pages
	s.mu.Unlock()

	doc := &domain.Document{Path: path, PageCount: len(pages)}
	// The first page defines the logical page space for letterbox
	// fitting and pointer mapping. A page that fails to decode here
	// still goes through the Rasterize retry path; the aspect then
	// falls back to the document default.
	if w, h, err := pageDimensions(pages[0]); err == nil {
		doc.PageWidth, doc.PageHeight = w, h
	}
	return doc, nil
}

// pageDimensions reads a page image's native size without decoding
// the pixel data.
func pageDimensions(file string) (int, int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// Rasterize implements driven.DocumentSource. The page is decoded and
// scaled into a canvas of exactly the requested size, letterboxed on a
// white background when the aspect ratios differ.
func (s *Source) Rasterize(_ context.Context, pageIndex, width, height int) (image.Image, error) {
	s.mu.Lock()
	var file string
	if pageIndex >= 0 && pageIndex < len(s.pages) {
		file = s.pages[pageIndex]
	}
	s.mu.Unlock()

	if file == "" {
		return nil, fmt.Errorf("page %d out of range: %w", pageIndex, domain.ErrRenderFailed)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render size %dx%d: %w", width, height, domain.ErrInvalidInput)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening page %d: %w", pageIndex, domain.ErrRenderFailed)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding page %d (%s): %w", pageIndex, filepath.Base(file), domain.ErrRenderFailed)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := src.Bounds()
	fit := domain.FitRect(
		domain.Rect{Width: float64(width), Height: float64(height)},
		float64(b.Dx()), float64(b.Dy()),
	)
	target := image.Rect(
		int(fit.X), int(fit.Y),
		int(fit.X+fit.Width), int(fit.Y+fit.Height),
	)
	draw.ApproxBiLinear.Scale(canvas, target, src, b, draw.Over, nil)

	return canvas, nil
}

// Close implements driven.DocumentSource.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = ""
	s.pages = nil
	return nil
}
