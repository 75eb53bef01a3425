package domain

// Point is a position in window-local coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is a render target size in pixels.
type Size struct {
	Width  int
	Height int
}

// IsZero returns true if either dimension is unset.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle (offset + size).
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the rectangle.
// Edges count as inside so a pointer at the border still maps.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// FitRect returns the largest rectangle of the given aspect ratio that
// fits inside the container, centered. The margin bands left over are
// the letterbox. A degenerate container or aspect yields a zero Rect.
func FitRect(container Rect, aspectW, aspectH float64) Rect {
	if container.Width <= 0 || container.Height <= 0 || aspectW <= 0 || aspectH <= 0 {
		return Rect{}
	}

	aspect := aspectW / aspectH
	w := container.Width
	h := w / aspect
	if h > container.Height {
		h = container.Height
		w = h * aspect
	}

	return Rect{
		X:      container.X + (container.Width-w)/2,
		Y:      container.Y + (container.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// MapPoint converts a pointer position in the presenter's preview
// coordinate space into the audience window's coordinate space.
//
// Both boxes describe a letterboxed rendering of the same fixed-aspect
// page inside possibly different-aspect containers. The point is first
// tested against the presenter's inner rectangle (letterbox margins
// return ok=false), then normalized to fractional page coordinates and
// re-projected onto the audience inner rectangle. Because both windows
// normalize against the same logical page space, the mapping is exact
// regardless of the two windows' absolute sizes.
func MapPoint(p Point, presenterBox, audienceBox Rect, aspectW, aspectH float64) (Point, bool) {
	inner := FitRect(presenterBox, aspectW, aspectH)
	if inner.Width <= 0 || inner.Height <= 0 || !inner.Contains(p) {
		return Point{}, false
	}

	u := (p.X - inner.X) / inner.Width
	v := (p.Y - inner.Y) / inner.Height

	target := FitRect(audienceBox, aspectW, aspectH)
	if target.Width <= 0 || target.Height <= 0 {
		return Point{}, false
	}

	return Point{
		X: target.X + u*target.Width,
		Y: target.Y + v*target.Height,
	}, true
}
