package geometry

import "math"

// Rect is a DOMRect. Width and height may be negative; the edge accessors
// normalize them.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect creates a Rect with the given dimensions.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Top returns min(y, y + height). NaN in either propagates.
func (r Rect) Top() float64 {
	return math.Min(r.Y, r.Y+r.Height)
}

// Right returns max(x, x + width).
func (r Rect) Right() float64 {
	return math.Max(r.X, r.X+r.Width)
}

// Bottom returns max(y, y + height).
func (r Rect) Bottom() float64 {
	return math.Max(r.Y, r.Y+r.Height)
}

// Left returns min(x, x + width).
func (r Rect) Left() float64 {
	return math.Min(r.X, r.X+r.Width)
}
