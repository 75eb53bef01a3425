// Package tui provides the presenter cockpit: an interactive terminal
// user interface driving the presentation engine. It implements a
// driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/duoslide/duoslide-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Presenter is the presentation engine command surface.
	Presenter driving.Presenter
}

// NewPorts creates a new Ports aggregate.
func NewPorts(presenter driving.Presenter) *Ports {
	return &Ports{Presenter: presenter}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Presenter == nil {
		return ErrMissingPresenter
	}
	return nil
}
