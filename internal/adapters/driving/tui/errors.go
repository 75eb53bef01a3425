package tui

import "errors"

// ErrMissingPresenter is returned when the TUI is built without the
// presentation engine port.
var ErrMissingPresenter = errors.New("tui: presenter port is required")
