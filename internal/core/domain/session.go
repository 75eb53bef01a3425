package domain

import "time"

// Session holds the values restored at startup and saved on open,
// close and (throttled) slide change.
type Session struct {
	// LastPath is the most recently opened deck.
	LastPath string

	// LastSlide is the slide index to resume at.
	LastSlide int

	// LastDirectory is the directory of the last open dialog.
	LastDirectory string
}

// IsZero returns true if no previous session was recorded.
func (s Session) IsZero() bool {
	return s.LastPath == "" && s.LastSlide == 0 && s.LastDirectory == ""
}

// Run records one live presentation for the history store.
type Run struct {
	// ID is a unique identifier for the run.
	ID string

	// Path is the deck that was presented.
	Path string

	// StartedAt and EndedAt bound the Presenting segment.
	StartedAt time.Time
	EndedAt   time.Time

	// SlidesVisited counts navigation events during the run.
	SlidesVisited int
}

// DeckHistory is a per-deck resume record.
type DeckHistory struct {
	// Path identifies the deck.
	Path string

	// LastSlide is the slide the deck was last left at.
	LastSlide int

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time
}
