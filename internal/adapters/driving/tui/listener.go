package tui

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/duoslide/duoslide-cli/internal/adapters/driving/tui/messages"
	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driving"
)

// Ensure Listener implements the engine's listener port.
var _ driving.Listener = (*Listener)(nil)

// Listener bridges engine notifications into the Bubbletea event loop.
// Engine callbacks run on engine goroutines; Program.Send is the
// documented thread-safe entry point, so each notification is wrapped
// in a message and handed over without touching model state.
type Listener struct {
	send func(tea.Msg)
}

// NewListener creates a listener that posts messages via send.
func NewListener(send func(tea.Msg)) *Listener {
	return &Listener{send: send}
}

// StateChanged implements driving.Listener.
func (l *Listener) StateChanged(state domain.PresentationState) {
	l.send(messages.StateUpdated{State: state})
}

// SlideBitmapReady implements driving.Listener.
func (l *Listener) SlideBitmapReady(pageIndex int, bitmap image.Image) {
	l.send(messages.SlideReady{Page: pageIndex, Bitmap: bitmap})
}

// PointerMapped implements driving.Listener.
func (l *Listener) PointerMapped(pos domain.Point, ok bool) {
	l.send(messages.PointerUpdated{Pos: pos, OK: ok})
}
