package domain

import (
	"path/filepath"
	"strings"
)

// Document is an immutable handle to an open presentation.
// It is owned by the engine for the lifetime of one open deck and
// replaced wholesale when a new file is opened.
type Document struct {
	// Path is the absolute or user-supplied path to the deck.
	Path string

	// PageCount is the number of pages reported by the document source.
	PageCount int

	// PageWidth and PageHeight are the native pixel dimensions of the
	// first page as reported by the source, zero when unknown. They
	// define the logical page space for letterbox fitting and pointer
	// mapping; render-target canvases carry their own letterbox and
	// must never be used to infer the page aspect.
	PageWidth  int
	PageHeight int
}

// Name returns the file name of the deck, for display.
func (d Document) Name() string {
	return filepath.Base(d.Path)
}

// NotesPath derives the sidecar notes path for the deck: the document's
// extension-bearing suffix is replaced with "_notes.txt" in the same
// directory, so "talks/deck.pdf" maps to "talks/deck_notes.txt".
func (d Document) NotesPath() string {
	ext := filepath.Ext(d.Path)
	stem := strings.TrimSuffix(d.Path, ext)
	return stem + "_notes.txt"
}

// AspectRatio returns the page aspect ratio as a width/height pair,
// falling back to 4:3 when the source did not report page dimensions.
func (d Document) AspectRatio() (w, h float64) {
	if d.PageWidth > 0 && d.PageHeight > 0 {
		return float64(d.PageWidth), float64(d.PageHeight)
	}
	return 4, 3
}

// ValidPage returns true if the page index is within the deck.
func (d Document) ValidPage(page int) bool {
	return page >= 0 && page < d.PageCount
}

// ClampPage clamps a page index into [0, PageCount).
func (d Document) ClampPage(page int) int {
	if page < 0 {
		return 0
	}
	if page >= d.PageCount {
		return d.PageCount - 1
	}
	return page
}
