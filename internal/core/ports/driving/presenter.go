package driving

import (
	"context"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// Presenter is the command surface of the presentation engine.
//
// All commands are synchronous and never block the input-handling path:
// rasterization triggered by a command happens on background goroutines
// and is delivered through Listener.SlideBitmapReady.
type Presenter interface {
	// OpenDocument opens a deck, auto-loads its notes sidecar and
	// replaces the previous document wholesale. The previous document
	// stays active when opening fails.
	OpenDocument(ctx context.Context, path string) error

	// StartFromBeginning starts presenting at slide 0.
	StartFromBeginning(ctx context.Context) error

	// StartFromCurrent starts presenting at the current slide.
	StartFromCurrent(ctx context.Context) error

	// Stop ends the presentation and closes the audience window.
	Stop(ctx context.Context) error

	// Next advances the live slide. While presenting it advances to the
	// preview cursor; a no-op at the last slide. Accepted while Blanked:
	// the audience stays black but the position advances.
	Next(ctx context.Context) error

	// Previous steps the live slide back, a no-op at the first slide.
	Previous(ctx context.Context) error

	// ToggleBlank switches between Presenting and Blanked. Only valid
	// while a presentation is running.
	ToggleBlank(ctx context.Context) error

	// PreviewNext and PreviewPrevious move the preview cursor without
	// touching the live slide.
	PreviewNext(ctx context.Context) error
	PreviewPrevious(ctx context.Context) error

	// PreviewSetNext and PreviewSetPrevious snap the preview cursor to
	// current+1 / current-1.
	PreviewSetNext(ctx context.Context) error
	PreviewSetPrevious(ctx context.Context) error

	// PreviewRemember marks the preview cursor; PreviewRecall jumps
	// back to the mark.
	PreviewRemember(ctx context.Context) error
	PreviewRecall(ctx context.Context) error

	// PointerMoved maps a pointer position over the presenter preview
	// into audience coordinates and notifies listeners. A position in
	// the letterbox margin clears the audience pointer.
	PointerMoved(ctx context.Context, pos domain.Point, previewBox domain.Rect) error

	// SetViewSizes informs the engine of the current render target
	// sizes. Called on every resize/layout event of either window.
	SetViewSizes(audience, preview domain.Size)

	// State returns a snapshot of the presentation state.
	State() domain.PresentationState

	// Document returns the open document, nil when none.
	Document() *domain.Document

	// NotesFor returns the speaker notes for a 1-based slide index.
	// Missing notes are an empty string, never an error.
	NotesFor(slide int) string

	// Subscribe registers a listener for engine notifications.
	Subscribe(l Listener)
}
