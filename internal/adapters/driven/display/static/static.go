// Package static provides a display enumerator configured from
// geometry strings rather than a live windowing system query.
package static

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
)

// Ensure Enumerator implements the interface.
var _ driven.DisplayEnumerator = (*Enumerator)(nil)

// Enumerator returns a fixed screen list.
type Enumerator struct {
	screens []domain.Screen
}

// geometryRe matches WIDTHxHEIGHT+X+Y with optional negative offsets,
// e.g. "1920x1080+0+0" or "1280x800+-1280+0".
var geometryRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// New creates an enumerator over an explicit screen list.
func New(screens ...domain.Screen) *Enumerator {
	return &Enumerator{screens: screens}
}

// Parse builds an enumerator from a comma-separated list of geometry
// specs, each "WIDTHxHEIGHT+X+Y" with an optional ":primary" suffix.
// When no spec is marked primary, the first one is.
func Parse(spec string) (*Enumerator, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("empty screen spec: %w", domain.ErrInvalidInput)
	}

	var screens []domain.Screen
	sawPrimary := false
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)

		geometry, primary := part, false
		if rest, ok := strings.CutSuffix(part, ":primary"); ok {
			geometry, primary = rest, true
		}

		m := geometryRe.FindStringSubmatch(geometry)
		if m == nil {
			return nil, fmt.Errorf("screen spec %q (want WIDTHxHEIGHT+X+Y): %w", part, domain.ErrInvalidInput)
		}

		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		x, _ := strconv.Atoi(m[3])
		y, _ := strconv.Atoi(m[4])
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("screen spec %q has a zero dimension: %w", part, domain.ErrInvalidInput)
		}

		screens = append(screens, domain.Screen{
			Bounds: domain.Rect{
				X:      float64(x),
				Y:      float64(y),
				Width:  float64(w),
				Height: float64(h),
			},
			Primary: primary,
		})
		sawPrimary = sawPrimary || primary
	}

	if !sawPrimary {
		screens[0].Primary = true
	}
	return &Enumerator{screens: screens}, nil
}

// Screens implements driven.DisplayEnumerator.
func (e *Enumerator) Screens(_ context.Context) ([]domain.Screen, error) {
	if len(e.screens) == 0 {
		return nil, domain.ErrNoScreens
	}
	out := make([]domain.Screen, len(e.screens))
	copy(out, e.screens)
	return out, nil
}
