package geometry

import "math"

// π/2 split into 33-bit pieces plus a tail, for argument reduction.
const (
	pio2_1  = 1.57079632673412561417e+00
	pio2_2  = 6.07710050630396597660e-11
	pio2_2t = 2.02226624879595063154e-21
)

// sincos returns sin(x) and cos(x). Arguments beyond ±π/4 are reduced
// against an extended-precision π/2 first, so that results near the zeros
// match the C math library: cos(π/2) is 6.123233995736766e-17, not the
// 6.123233995736757e-17 math.Cos gives.
func sincos(x float64) (sin, cos float64) {
	ax := math.Abs(x)
	if ax <= math.Pi/4 || ax > 1<<20*math.Pi/2 || math.IsNaN(x) {
		return math.Sin(x), math.Cos(x)
	}
	n := math.Round(x * (2 / math.Pi))
	t := x - n*pio2_1
	w := n * pio2_2
	r := t - w
	w = n*pio2_2t - ((t - r) - w)
	y := r - w
	tail := (r - y) - w

	s, c := math.Sin(y), math.Cos(y)
	s, c = s+tail*c, c-tail*s
	switch int64(n) & 3 {
	case 0:
		return s, c
	case 1:
		return c, -s
	case 2:
		return -s, -c
	}
	return -c, s
}
