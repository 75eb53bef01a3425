package domain

import (
	"fmt"
	"time"
)

// Mode is the run mode of the presentation state machine.
type Mode string

// Available modes. Blanked is a sub-state of Presenting: it changes what
// the audience window shows, never the slide position.
const (
	// ModeStopped means no audience window is open.
	ModeStopped Mode = "stopped"

	// ModePresenting means the audience window shows the current slide.
	ModePresenting Mode = "presenting"

	// ModeBlanked means the audience window shows black while the
	// presentation (including the timer) keeps running.
	ModeBlanked Mode = "blanked"
)

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	switch m {
	case ModeStopped, ModePresenting, ModeBlanked:
		return true
	default:
		return false
	}
}

// Running returns true while a presentation is live (Presenting or Blanked).
func (m Mode) Running() bool {
	return m == ModePresenting || m == ModeBlanked
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m Mode) Description() string {
	switch m {
	case ModeStopped:
		return "Stopped"
	case ModePresenting:
		return "Presenting"
	case ModeBlanked:
		return "Blanked"
	default:
		return "Unknown"
	}
}

// PresentationState is the authoritative model of the current slide,
// run mode and timing. It is the single source of truth consumed by
// both the presenter and audience views; views submit commands and
// never mutate it directly.
type PresentationState struct {
	// CurrentSlide is the live slide index in [0, PageCount).
	CurrentSlide int

	// PreviewSlide is the presenter's independent preview cursor.
	// It defaults to CurrentSlide+1 and can be moved without touching
	// the live slide.
	PreviewSlide int

	// PageCount is the page count of the open document, 0 when none.
	PageCount int

	// Mode is the run mode.
	Mode Mode

	// StartedAt is the wall-clock start of the running segment.
	// Zero while Stopped.
	StartedAt time.Time

	// Accumulated is presentation time gathered across earlier
	// Presenting segments (Stop freezes elapsed into it).
	Accumulated time.Duration
}

// Elapsed returns the presentation duration at the given instant:
// accumulated time plus the running segment while live, the frozen
// accumulated value while Stopped.
func (s PresentationState) Elapsed(now time.Time) time.Duration {
	if s.Mode.Running() && !s.StartedAt.IsZero() {
		return s.Accumulated + now.Sub(s.StartedAt)
	}
	return s.Accumulated
}

// Counter formats the slide position for display, 1-based.
func (s PresentationState) Counter() string {
	return fmt.Sprintf("%d / %d", s.CurrentSlide+1, s.PageCount)
}

// AtLastSlide returns true when Next would be a no-op.
func (s PresentationState) AtLastSlide() bool {
	return s.CurrentSlide >= s.PageCount-1
}

// AtFirstSlide returns true when Previous would be a no-op.
func (s PresentationState) AtFirstSlide() bool {
	return s.CurrentSlide <= 0
}
