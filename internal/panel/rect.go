package panel

// Rect is a panel rectangle in desktop pixel coordinates.
type Rect struct {
	Top    int `json:"top" yaml:"top"`
	Left   int `json:"left" yaml:"left"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains reports whether (x, y) lies inside the rectangle. The right and
// bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inset shrinks the rectangle by the given amounts on each side.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return Rect{
		Top:    r.Top + top,
		Left:   r.Left + left,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
}
