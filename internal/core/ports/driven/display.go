package driven

import (
	"context"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// DisplayEnumerator lists the physical screens available for the
// audience window. The core only queries; multi-monitor arbitration
// beyond "prefer the non-primary screen" is out of scope.
type DisplayEnumerator interface {
	// Screens returns the available displays in a stable order.
	Screens(ctx context.Context) ([]domain.Screen, error)
}
