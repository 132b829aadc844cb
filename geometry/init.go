package geometry

import (
	"math"

	"github.com/chrisuehlinger/webconform/dom"
)

// MatrixInit is a DOMMatrixInit dictionary. Nil members are absent.
type MatrixInit struct {
	A, B, C, D, E, F *float64

	M11, M12, M13, M14 *float64
	M21, M22, M23, M24 *float64
	M31, M32, M33, M34 *float64
	M41, M42, M43, M44 *float64

	Is2D *bool
}

// sameValueZero compares like ECMAScript SameValueZero: NaN equals NaN and
// +0 equals -0.
func sameValueZero(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func fixupAlias(alias, field **float64, def float64, names string) error {
	switch {
	case *alias != nil && *field != nil:
		if !sameValueZero(**alias, **field) {
			return dom.ErrType("The " + names + " members of the matrix init are not equal.")
		}
	case *field == nil:
		v := def
		if *alias != nil {
			v = **alias
		}
		*field = &v
	}
	return nil
}

// fixup2D runs "validate and fixup (2D)" on init.
// https://drafts.fxtf.org/geometry/#matrix-validate-and-fixup-2d
func (init *MatrixInit) fixup2D() error {
	pairs := []struct {
		alias, field **float64
		def          float64
		names        string
	}{
		{&init.A, &init.M11, 1, "'a' and 'm11'"},
		{&init.B, &init.M12, 0, "'b' and 'm12'"},
		{&init.C, &init.M21, 0, "'c' and 'm21'"},
		{&init.D, &init.M22, 1, "'d' and 'm22'"},
		{&init.E, &init.M41, 0, "'e' and 'm41'"},
		{&init.F, &init.M42, 0, "'f' and 'm42'"},
	}
	for _, p := range pairs {
		if err := fixupAlias(p.alias, p.field, p.def, p.names); err != nil {
			return err
		}
	}
	return nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// fixup runs "validate and fixup" on init, deciding is2D when absent.
func (init *MatrixInit) fixup() error {
	if err := init.fixup2D(); err != nil {
		return err
	}
	zeros := []*float64{init.M13, init.M14, init.M23, init.M24, init.M31, init.M32, init.M34, init.M43}
	ones := []*float64{init.M33, init.M44}
	threeD := false
	for _, p := range zeros {
		if p != nil && *p != 0 {
			threeD = true
		}
	}
	for _, p := range ones {
		if p != nil && *p != 1 {
			threeD = true
		}
	}
	if init.Is2D != nil && *init.Is2D && threeD {
		return dom.ErrType("The is2D member is set to true but the input matrix is a 3D matrix.")
	}
	if init.Is2D == nil {
		is2D := !threeD
		init.Is2D = &is2D
	}
	return nil
}

// FromMatrix creates a matrix from a DOMMatrixInit after validating it.
func FromMatrix(init MatrixInit) (*Matrix, error) {
	if err := init.fixup(); err != nil {
		return nil, err
	}
	if *init.Is2D {
		return New2D(*init.M11, *init.M12, *init.M21, *init.M22, *init.M41, *init.M42), nil
	}
	return New3D([16]float64{
		*init.M11, *init.M12, valueOr(init.M13, 0), valueOr(init.M14, 0),
		*init.M21, *init.M22, valueOr(init.M23, 0), valueOr(init.M24, 0),
		valueOr(init.M31, 0), valueOr(init.M32, 0), valueOr(init.M33, 1), valueOr(init.M34, 0),
		*init.M41, *init.M42, valueOr(init.M43, 0), valueOr(init.M44, 1),
	}), nil
}

// FromMatrix2D creates a 2D matrix from a DOMMatrix2DInit.
func FromMatrix2D(init MatrixInit) (*Matrix, error) {
	if err := init.fixup2D(); err != nil {
		return nil, err
	}
	return New2D(*init.M11, *init.M12, *init.M21, *init.M22, *init.M41, *init.M42), nil
}

// QuadFromPoints returns the quad with the given corners.
func QuadFromPoints(p1, p2, p3, p4 Point) Quad {
	return Quad{P1: p1, P2: p2, P3: p3, P4: p4}
}
