package driven

import (
	"context"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// SessionStore persists the last session across program runs.
// A load failure is recovered with a zero session, never surfaced.
type SessionStore interface {
	// Load reads the persisted session. A missing store yields a zero
	// session and no error.
	Load(ctx context.Context) (domain.Session, error)

	// Save writes the session durably.
	Save(ctx context.Context, session domain.Session) error
}
