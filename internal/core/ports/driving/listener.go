package driving

import (
	"image"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// Listener receives one-way notifications from the engine. Callbacks
// run outside the engine lock but on engine goroutines: implementations
// must hand off to their own event loop and return quickly, and must
// not call back into the Presenter synchronously.
type Listener interface {
	// StateChanged delivers every presentation state transition,
	// including slide navigation and preview cursor moves.
	StateChanged(state domain.PresentationState)

	// SlideBitmapReady delivers an asynchronously rendered bitmap.
	// Stale renders for superseded requests are never delivered.
	SlideBitmapReady(pageIndex int, bitmap image.Image)

	// PointerMapped delivers the audience-space pointer position.
	// ok=false means the pointer left the slide and should be hidden.
	PointerMapped(pos domain.Point, ok bool)
}
