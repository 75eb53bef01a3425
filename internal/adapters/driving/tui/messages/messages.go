// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"image"
	"time"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// StateUpdated carries a fresh presentation state snapshot from the
// engine into the model.
type StateUpdated struct {
	State domain.PresentationState
}

// SlideReady carries an asynchronously rendered slide bitmap.
type SlideReady struct {
	Page   int
	Bitmap image.Image
}

// PointerUpdated carries the mapped audience-space pointer position.
// OK is false when the pointer left the slide area.
type PointerUpdated struct {
	Pos domain.Point
	OK  bool
}

// Tick drives the presentation timer display.
type Tick struct {
	Now time.Time
}

// CommandFailed signals that an engine command returned an error.
type CommandFailed struct {
	Err error
}
