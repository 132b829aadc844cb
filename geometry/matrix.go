package geometry

import (
	"math"
	"strings"

	"github.com/chrisuehlinger/webconform/dom"
)

// Matrix is a DOMMatrix: a 4x4 column-major matrix with a flag telling
// whether it is known to be a 2D transform.
//
// m[c][r] holds component m{c+1}{r+1}, so the 2D aliases are
// a=m[0][0], b=m[0][1], c=m[1][0], d=m[1][1], e=m[3][0], f=m[3][1].
type Matrix struct {
	m    [4][4]float64
	is2D bool
}

// ComponentNames lists the matrix attributes in the order used by
// toFloat64Array and matrix3d().
var ComponentNames = []string{
	"m11", "m12", "m13", "m14",
	"m21", "m22", "m23", "m24",
	"m31", "m32", "m33", "m34",
	"m41", "m42", "m43", "m44",
}

var aliasIndex = map[string][2]int{
	"a": {0, 0}, "b": {0, 1}, "c": {1, 0}, "d": {1, 1}, "e": {3, 0}, "f": {3, 1},
}

func componentIndex(name string) ([2]int, bool) {
	if idx, ok := aliasIndex[name]; ok {
		return idx, true
	}
	if len(name) == 3 && name[0] == 'm' && name[1] >= '1' && name[1] <= '4' && name[2] >= '1' && name[2] <= '4' {
		return [2]int{int(name[1] - '1'), int(name[2] - '1')}, true
	}
	return [2]int{}, false
}

// Identity returns the 2D identity matrix.
func Identity() *Matrix {
	mat := &Matrix{is2D: true}
	for i := 0; i < 4; i++ {
		mat.m[i][i] = 1
	}
	return mat
}

// New2D returns the 2D matrix [a b c d e f].
func New2D(a, b, c, d, e, f float64) *Matrix {
	mat := Identity()
	mat.m[0][0], mat.m[0][1] = a, b
	mat.m[1][0], mat.m[1][1] = c, d
	mat.m[3][0], mat.m[3][1] = e, f
	return mat
}

// New3D returns a 3D matrix from 16 values in column-major order.
func New3D(values [16]float64) *Matrix {
	mat := &Matrix{}
	for i, v := range values {
		mat.m[i/4][i%4] = v
	}
	return mat
}

// FromSequence builds a matrix from 6 (2D) or 16 (3D) numbers.
func FromSequence(values []float64) (*Matrix, error) {
	switch len(values) {
	case 6:
		return New2D(values[0], values[1], values[2], values[3], values[4], values[5]), nil
	case 16:
		var arr [16]float64
		copy(arr[:], values)
		return New3D(arr), nil
	}
	return nil, dom.ErrType("The sequence must contain 6 elements for a 2D matrix or 16 elements for a 3D matrix.")
}

// FromFloat32Array is FromSequence with each value rounded to float32.
func FromFloat32Array(values []float32) (*Matrix, error) {
	f64 := make([]float64, len(values))
	for i, v := range values {
		f64[i] = float64(v)
	}
	return FromSequence(f64)
}

// FromFloat64Array is FromSequence for a Float64Array.
func FromFloat64Array(values []float64) (*Matrix, error) {
	return FromSequence(values)
}

// Clone returns a copy of mat.
func (mat *Matrix) Clone() *Matrix {
	c := *mat
	return &c
}

// Is2D reports whether the matrix is flagged as 2D.
func (mat *Matrix) Is2D() bool {
	return mat.is2D
}

// IsIdentity reports whether every component equals the identity's.
func (mat *Matrix) IsIdentity() bool {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			want := 0.0
			if c == r {
				want = 1
			}
			if mat.m[c][r] != want {
				return false
			}
		}
	}
	return true
}

// Get returns a component by attribute name ("a".."f", "m11".."m44").
func (mat *Matrix) Get(name string) (float64, bool) {
	idx, ok := componentIndex(name)
	if !ok {
		return 0, false
	}
	return mat.m[idx[0]][idx[1]], true
}

// Set writes a component by attribute name. Writing a non-default value to
// a 3D-only component clears the 2D flag.
func (mat *Matrix) Set(name string, v float64) bool {
	idx, ok := componentIndex(name)
	if !ok {
		return false
	}
	mat.m[idx[0]][idx[1]] = v
	c, r := idx[0], idx[1]
	if c == 2 || r == 2 || r == 3 {
		want := 0.0
		if c == r {
			want = 1
		}
		if v != want {
			mat.is2D = false
		}
	}
	return true
}

// Values returns the 16 components in column-major order.
func (mat *Matrix) Values() [16]float64 {
	var out [16]float64
	for i := range out {
		out[i] = mat.m[i/4][i%4]
	}
	return out
}

// Float32Values returns the components rounded to float32.
func (mat *Matrix) Float32Values() [16]float32 {
	var out [16]float32
	for i, v := range mat.Values() {
		out[i] = float32(v)
	}
	return out
}

// product returns a × b.
func product(a, b *Matrix) *Matrix {
	out := &Matrix{is2D: a.is2D && b.is2D}
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.m[k][r] * b.m[c][k]
			}
			out.m[c][r] = sum
		}
	}
	return out
}

// MultiplySelf post-multiplies mat by other.
func (mat *Matrix) MultiplySelf(other *Matrix) *Matrix {
	*mat = *product(mat, other)
	return mat
}

// PreMultiplySelf pre-multiplies mat by other.
func (mat *Matrix) PreMultiplySelf(other *Matrix) *Matrix {
	*mat = *product(other, mat)
	return mat
}

// Multiply returns mat × other.
func (mat *Matrix) Multiply(other *Matrix) *Matrix {
	return product(mat, other)
}

// TranslateSelf post-multiplies a translation.
func (mat *Matrix) TranslateSelf(tx, ty, tz float64) *Matrix {
	t := Identity()
	t.m[3][0], t.m[3][1], t.m[3][2] = tx, ty, tz
	if tz != 0 {
		t.is2D = false
	}
	return mat.MultiplySelf(t)
}

func scaling(sx, sy, sz float64) *Matrix {
	s := Identity()
	s.m[0][0], s.m[1][1], s.m[2][2] = sx, sy, sz
	if sz != 1 {
		s.is2D = false
	}
	return s
}

// ScaleSelf scales around (originX, originY, originZ).
func (mat *Matrix) ScaleSelf(sx, sy, sz, originX, originY, originZ float64) *Matrix {
	mat.TranslateSelf(originX, originY, originZ)
	mat.MultiplySelf(scaling(sx, sy, sz))
	mat.TranslateSelf(-originX, -originY, -originZ)
	if sz != 1 || originZ != 0 {
		mat.is2D = false
	}
	return mat
}

// Scale3dSelf scales uniformly in three dimensions around the origin point.
func (mat *Matrix) Scale3dSelf(scale, originX, originY, originZ float64) *Matrix {
	mat.TranslateSelf(originX, originY, originZ)
	mat.MultiplySelf(scaling(scale, scale, scale))
	mat.TranslateSelf(-originX, -originY, -originZ)
	if scale != 1 {
		mat.is2D = false
	}
	return mat
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// axisRotation returns the rotation by deg degrees around a coordinate
// axis (0 = x, 1 = y, 2 = z).
func axisRotation(axis int, deg float64) *Matrix {
	rot := Identity()
	rad := deg2rad(deg)
	sin, cos := sincos(rad)
	switch axis {
	case 0:
		rot.m[1][1], rot.m[1][2] = cos, sin
		rot.m[2][1], rot.m[2][2] = -sin, cos
		rot.is2D = false
	case 1:
		rot.m[0][0], rot.m[0][2] = cos, -sin
		rot.m[2][0], rot.m[2][2] = sin, cos
		rot.is2D = false
	case 2:
		rot.m[0][0], rot.m[0][1] = cos, sin
		rot.m[1][0], rot.m[1][1] = -sin, cos
	}
	return rot
}

// axisAngleRotation returns the rotate3d() matrix.
// https://drafts.csswg.org/css-transforms-2/#Rotate3dDefined
func axisAngleRotation(x, y, z, deg float64) *Matrix {
	switch {
	case x == 0 && y == 0 && z == 0:
		return Identity()
	case x == 0 && y == 0:
		if z < 0 {
			deg = -deg
		}
		r := axisRotation(2, deg)
		r.is2D = false
		return r
	case y == 0 && z == 0:
		if x < 0 {
			deg = -deg
		}
		return axisRotation(0, deg)
	case x == 0 && z == 0:
		if y < 0 {
			deg = -deg
		}
		return axisRotation(1, deg)
	}
	length := math.Sqrt(x*x + y*y + z*z)
	x, y, z = x/length, y/length, z/length
	half := deg2rad(deg) / 2
	sin, cos := sincos(half)
	sc := sin * cos
	sq := sin * sin

	rot := Identity()
	rot.is2D = false
	rot.m[0][0] = 1 - 2*(y*y+z*z)*sq
	rot.m[0][1] = 2 * (x*y*sq + z*sc)
	rot.m[0][2] = 2 * (x*z*sq - y*sc)
	rot.m[1][0] = 2 * (x*y*sq - z*sc)
	rot.m[1][1] = 1 - 2*(x*x+z*z)*sq
	rot.m[1][2] = 2 * (y*z*sq + x*sc)
	rot.m[2][0] = 2 * (x*z*sq + y*sc)
	rot.m[2][1] = 2 * (y*z*sq - x*sc)
	rot.m[2][2] = 1 - 2*(x*x+y*y)*sq
	return rot
}

// RotateSelf rotates by rotZ, then rotY, then rotX degrees.
func (mat *Matrix) RotateSelf(rotX, rotY, rotZ float64) *Matrix {
	mat.MultiplySelf(axisRotation(2, rotZ))
	if rotY != 0 {
		mat.MultiplySelf(axisRotation(1, rotY))
	}
	if rotX != 0 {
		mat.MultiplySelf(axisRotation(0, rotX))
	}
	return mat
}

// RotateFromVectorSelf rotates by the angle between (x, y) and the
// positive x axis.
func (mat *Matrix) RotateFromVectorSelf(x, y float64) *Matrix {
	if x == 0 && y == 0 {
		return mat
	}
	return mat.MultiplySelf(axisRotation(2, math.Atan2(y, x)*180/math.Pi))
}

// RotateAxisAngleSelf rotates by angle degrees around (x, y, z).
func (mat *Matrix) RotateAxisAngleSelf(x, y, z, angle float64) *Matrix {
	mat.MultiplySelf(axisAngleRotation(x, y, z, angle))
	if x != 0 || y != 0 {
		mat.is2D = false
	}
	return mat
}

// SkewXSelf skews along the x axis by sx degrees.
func (mat *Matrix) SkewXSelf(sx float64) *Matrix {
	s := Identity()
	s.m[1][0] = math.Tan(deg2rad(sx))
	return mat.MultiplySelf(s)
}

// SkewYSelf skews along the y axis by sy degrees.
func (mat *Matrix) SkewYSelf(sy float64) *Matrix {
	s := Identity()
	s.m[0][1] = math.Tan(deg2rad(sy))
	return mat.MultiplySelf(s)
}

// FlipX returns mat × (-1, 0, 0, 1, 0, 0).
func (mat *Matrix) FlipX() *Matrix {
	return product(mat, New2D(-1, 0, 0, 1, 0, 0))
}

// FlipY returns mat × (1, 0, 0, -1, 0, 0).
func (mat *Matrix) FlipY() *Matrix {
	return product(mat, New2D(1, 0, 0, -1, 0, 0))
}

// InvertSelf inverts mat in place. A singular matrix becomes all NaN and
// loses its 2D flag.
func (mat *Matrix) InvertSelf() *Matrix {
	v := mat.Values()
	var inv [16]float64

	inv[0] = v[5]*v[10]*v[15] - v[5]*v[11]*v[14] - v[9]*v[6]*v[15] + v[9]*v[7]*v[14] + v[13]*v[6]*v[11] - v[13]*v[7]*v[10]
	inv[4] = -v[4]*v[10]*v[15] + v[4]*v[11]*v[14] + v[8]*v[6]*v[15] - v[8]*v[7]*v[14] - v[12]*v[6]*v[11] + v[12]*v[7]*v[10]
	inv[8] = v[4]*v[9]*v[15] - v[4]*v[11]*v[13] - v[8]*v[5]*v[15] + v[8]*v[7]*v[13] + v[12]*v[5]*v[11] - v[12]*v[7]*v[9]
	inv[12] = -v[4]*v[9]*v[14] + v[4]*v[10]*v[13] + v[8]*v[5]*v[14] - v[8]*v[6]*v[13] - v[12]*v[5]*v[10] + v[12]*v[6]*v[9]
	inv[1] = -v[1]*v[10]*v[15] + v[1]*v[11]*v[14] + v[9]*v[2]*v[15] - v[9]*v[3]*v[14] - v[13]*v[2]*v[11] + v[13]*v[3]*v[10]
	inv[5] = v[0]*v[10]*v[15] - v[0]*v[11]*v[14] - v[8]*v[2]*v[15] + v[8]*v[3]*v[14] + v[12]*v[2]*v[11] - v[12]*v[3]*v[10]
	inv[9] = -v[0]*v[9]*v[15] + v[0]*v[11]*v[13] + v[8]*v[1]*v[15] - v[8]*v[3]*v[13] - v[12]*v[1]*v[11] + v[12]*v[3]*v[9]
	inv[13] = v[0]*v[9]*v[14] - v[0]*v[10]*v[13] - v[8]*v[1]*v[14] + v[8]*v[2]*v[13] + v[12]*v[1]*v[10] - v[12]*v[2]*v[9]
	inv[2] = v[1]*v[6]*v[15] - v[1]*v[7]*v[14] - v[5]*v[2]*v[15] + v[5]*v[3]*v[14] + v[13]*v[2]*v[7] - v[13]*v[3]*v[6]
	inv[6] = -v[0]*v[6]*v[15] + v[0]*v[7]*v[14] + v[4]*v[2]*v[15] - v[4]*v[3]*v[14] - v[12]*v[2]*v[7] + v[12]*v[3]*v[6]
	inv[10] = v[0]*v[5]*v[15] - v[0]*v[7]*v[13] - v[4]*v[1]*v[15] + v[4]*v[3]*v[13] + v[12]*v[1]*v[7] - v[12]*v[3]*v[5]
	inv[14] = -v[0]*v[5]*v[14] + v[0]*v[6]*v[13] + v[4]*v[1]*v[14] - v[4]*v[2]*v[13] - v[12]*v[1]*v[6] + v[12]*v[2]*v[5]
	inv[3] = -v[1]*v[6]*v[11] + v[1]*v[7]*v[10] + v[5]*v[2]*v[11] - v[5]*v[3]*v[10] - v[9]*v[2]*v[7] + v[9]*v[3]*v[6]
	inv[7] = v[0]*v[6]*v[11] - v[0]*v[7]*v[10] - v[4]*v[2]*v[11] + v[4]*v[3]*v[10] + v[8]*v[2]*v[7] - v[8]*v[3]*v[6]
	inv[11] = -v[0]*v[5]*v[11] + v[0]*v[7]*v[9] + v[4]*v[1]*v[11] - v[4]*v[3]*v[9] - v[8]*v[1]*v[7] + v[8]*v[3]*v[5]
	inv[15] = v[0]*v[5]*v[10] - v[0]*v[6]*v[9] - v[4]*v[1]*v[10] + v[4]*v[2]*v[9] + v[8]*v[1]*v[6] - v[8]*v[2]*v[5]

	det := v[0]*inv[0] + v[1]*inv[4] + v[2]*inv[8] + v[3]*inv[12]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				mat.m[c][r] = math.NaN()
			}
		}
		mat.is2D = false
		return mat
	}
	for i := range inv {
		mat.m[i/4][i%4] = inv[i] / det
	}
	if mat.is2D {
		// Keep exact zeros and ones in the 3D-only components.
		mat.m[0][2], mat.m[0][3], mat.m[1][2], mat.m[1][3] = 0, 0, 0, 0
		mat.m[2][0], mat.m[2][1], mat.m[2][3], mat.m[3][2] = 0, 0, 0, 0
		mat.m[2][2], mat.m[3][3] = 1, 1
	}
	return mat
}

// Inverse returns the inverse of mat.
func (mat *Matrix) Inverse() *Matrix {
	return mat.Clone().InvertSelf()
}

// Translate returns mat translated by (tx, ty, tz).
func (mat *Matrix) Translate(tx, ty, tz float64) *Matrix {
	return mat.Clone().TranslateSelf(tx, ty, tz)
}

// Scale returns mat scaled around an origin.
func (mat *Matrix) Scale(sx, sy, sz, originX, originY, originZ float64) *Matrix {
	return mat.Clone().ScaleSelf(sx, sy, sz, originX, originY, originZ)
}

// Scale3d returns mat scaled uniformly around an origin.
func (mat *Matrix) Scale3d(scale, originX, originY, originZ float64) *Matrix {
	return mat.Clone().Scale3dSelf(scale, originX, originY, originZ)
}

// ScaleNonUniform returns mat scaled by (sx, sy).
func (mat *Matrix) ScaleNonUniform(sx, sy float64) *Matrix {
	return mat.Clone().ScaleSelf(sx, sy, 1, 0, 0, 0)
}

// Rotate returns mat rotated by rotZ, rotY and rotX degrees.
func (mat *Matrix) Rotate(rotX, rotY, rotZ float64) *Matrix {
	out := mat.Clone().RotateSelf(rotX, rotY, rotZ)
	if rotX != 0 || rotY != 0 {
		out.is2D = false
	}
	return out
}

// RotateFromVector returns mat rotated towards (x, y).
func (mat *Matrix) RotateFromVector(x, y float64) *Matrix {
	return mat.Clone().RotateFromVectorSelf(x, y)
}

// RotateAxisAngle returns mat rotated around (x, y, z).
func (mat *Matrix) RotateAxisAngle(x, y, z, angle float64) *Matrix {
	return mat.Clone().RotateAxisAngleSelf(x, y, z, angle)
}

// SkewX returns mat skewed along x.
func (mat *Matrix) SkewX(sx float64) *Matrix {
	return mat.Clone().SkewXSelf(sx)
}

// SkewY returns mat skewed along y.
func (mat *Matrix) SkewY(sy float64) *Matrix {
	return mat.Clone().SkewYSelf(sy)
}

// TransformPoint applies mat to p.
func (mat *Matrix) TransformPoint(p Point) Point {
	m := mat.m
	return Point{
		X: m[0][0]*p.X + m[1][0]*p.Y + m[2][0]*p.Z + m[3][0]*p.W,
		Y: m[0][1]*p.X + m[1][1]*p.Y + m[2][1]*p.Z + m[3][1]*p.W,
		Z: m[0][2]*p.X + m[1][2]*p.Y + m[2][2]*p.Z + m[3][2]*p.W,
		W: m[0][3]*p.X + m[1][3]*p.Y + m[2][3]*p.Z + m[3][3]*p.W,
	}
}

// Serialize writes mat as matrix() or matrix3d(). Non-finite components
// are an InvalidStateError.
func (mat *Matrix) Serialize() (string, error) {
	values := mat.Values()
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", dom.ErrInvalidState("Cannot stringify a matrix with non-finite values.")
		}
	}
	var parts []string
	if mat.is2D {
		for _, v := range []float64{values[0], values[1], values[4], values[5], values[12], values[13]} {
			parts = append(parts, FormatNumber(v))
		}
		return "matrix(" + strings.Join(parts, ", ") + ")", nil
	}
	for _, v := range values {
		parts = append(parts, FormatNumber(v))
	}
	return "matrix3d(" + strings.Join(parts, ", ") + ")", nil
}
