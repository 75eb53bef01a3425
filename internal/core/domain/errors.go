package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrDocumentUnreadable indicates the presentation file is missing,
	// unreadable or not a valid document. This is the only error in the
	// core that is surfaced to the user, because it blocks opening.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrRenderFailed indicates a single page could not be rasterized.
	// Recovered locally: one retry, then a placeholder bitmap.
	ErrRenderFailed = errors.New("render failed")

	// ErrNotesParse indicates a malformed explicit slide marker in a
	// notes file. The offending block falls back to sequential
	// assignment; the parse as a whole never aborts.
	ErrNotesParse = errors.New("notes parse error")

	// ErrPersistence indicates a session load or save failure.
	// Recovered by falling back to defaults, never surfaced as a dialog.
	ErrPersistence = errors.New("persistence failure")

	// ErrNoDocument indicates a command requires an open presentation.
	ErrNoDocument = errors.New("no document open")

	// ErrNotPresenting indicates a command is only valid while presenting.
	ErrNotPresenting = errors.New("not presenting")

	// ErrNoScreens indicates display enumeration returned no screens.
	ErrNoScreens = errors.New("no screens available")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
