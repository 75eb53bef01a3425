package driven

import (
	"context"
	"image"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// DocumentSource wraps an external page-rendering capability.
// PDF parsing and decoding live entirely behind this port.
//
// Rasterize must be safe to invoke from background goroutines for
// different pages while the engine keeps handling input; the engine
// never serialises render calls.
type DocumentSource interface {
	// Open loads a deck and returns its handle. Fails with
	// domain.ErrDocumentUnreadable (wrapped) when the file is missing,
	// unreadable or not a valid document. A successful Open replaces
	// any previously open deck.
	Open(ctx context.Context, path string) (*domain.Document, error)

	// Rasterize renders one page to a bitmap that fits within the
	// target size. Fails with domain.ErrRenderFailed (wrapped) on a
	// page-level failure.
	Rasterize(ctx context.Context, pageIndex, width, height int) (image.Image, error)

	// Close releases the open deck, if any.
	Close() error
}
