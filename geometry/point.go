// Package geometry implements the Geometry Interfaces value types: points,
// rectangles, quads and 4x4 matrices.
// https://drafts.fxtf.org/geometry/
package geometry

// Point is a DOMPoint: a homogeneous 3D coordinate.
type Point struct {
	X, Y, Z, W float64
}

// NewPoint returns the point (x, y, z, w).
func NewPoint(x, y, z, w float64) Point {
	return Point{X: x, Y: y, Z: z, W: w}
}

// Origin returns (0, 0, 0, 1), the default DOMPoint.
func Origin() Point {
	return Point{W: 1}
}

// MatrixTransform returns the point transformed by m.
func (p Point) MatrixTransform(m *Matrix) Point {
	return m.TransformPoint(p)
}
