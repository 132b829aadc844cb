package geometry

import "math"

// Quad is a DOMQuad: four points that need not form a rectangle.
type Quad struct {
	P1, P2, P3, P4 Point
}

// QuadFromRect returns the quad with the corners of r, clockwise from
// (x, y).
func QuadFromRect(r Rect) Quad {
	return Quad{
		P1: Point{X: r.X, Y: r.Y, W: 1},
		P2: Point{X: r.X + r.Width, Y: r.Y, W: 1},
		P3: Point{X: r.X + r.Width, Y: r.Y + r.Height, W: 1},
		P4: Point{X: r.X, Y: r.Y + r.Height, W: 1},
	}
}

// Bounds returns the smallest rectangle containing the four points.
func (q Quad) Bounds() Rect {
	left := math.Min(math.Min(q.P1.X, q.P2.X), math.Min(q.P3.X, q.P4.X))
	top := math.Min(math.Min(q.P1.Y, q.P2.Y), math.Min(q.P3.Y, q.P4.Y))
	right := math.Max(math.Max(q.P1.X, q.P2.X), math.Max(q.P3.X, q.P4.X))
	bottom := math.Max(math.Max(q.P1.Y, q.P2.Y), math.Max(q.P3.Y, q.P4.Y))
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}
