package domain

// Screen describes one physical display reported by the enumerator.
type Screen struct {
	// Bounds is the screen geometry in the virtual desktop.
	Bounds Rect

	// Primary marks the display the presenter window lives on.
	Primary bool
}

// Size returns the pixel dimensions of the screen.
func (s Screen) Size() Size {
	return Size{Width: int(s.Bounds.Width), Height: int(s.Bounds.Height)}
}

// PickAudienceScreen selects the screen for the audience window: the
// first non-primary screen if one exists, otherwise the primary.
func PickAudienceScreen(screens []Screen) (Screen, error) {
	if len(screens) == 0 {
		return Screen{}, ErrNoScreens
	}
	for _, s := range screens {
		if !s.Primary {
			return s, nil
		}
	}
	return screens[0], nil
}
