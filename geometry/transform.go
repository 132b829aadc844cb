package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/webconform/dom"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// argKind tells how a transform function argument is interpreted.
type argKind int

const (
	argNumber argKind = iota
	argLength
	argAngle
	argScale // number or percentage
)

type transformFunc struct {
	min, max int
	kind     argKind
	is2D     bool
	build    func(args []float64) *Matrix
}

func perspectiveMatrix(d float64) *Matrix {
	m := Identity()
	m.is2D = false
	if d != 0 {
		m.m[2][3] = -1 / d
	}
	return m
}

func translation(tx, ty, tz float64, is2D bool) *Matrix {
	m := Identity()
	m.m[3][0], m.m[3][1], m.m[3][2] = tx, ty, tz
	m.is2D = is2D
	return m
}

func scaleMatrix(sx, sy, sz float64, is2D bool) *Matrix {
	m := Identity()
	m.m[0][0], m.m[1][1], m.m[2][2] = sx, sy, sz
	m.is2D = is2D
	return m
}

func skewMatrix(ax, ay float64) *Matrix {
	m := Identity()
	m.m[1][0] = math.Tan(deg2rad(ax))
	m.m[0][1] = math.Tan(deg2rad(ay))
	return m
}

// https://drafts.csswg.org/css-transforms-2/#transform-functions
var transformFuncs = map[string]transformFunc{
	"matrix": {6, 6, argNumber, true, func(a []float64) *Matrix {
		return New2D(a[0], a[1], a[2], a[3], a[4], a[5])
	}},
	"matrix3d": {16, 16, argNumber, false, func(a []float64) *Matrix {
		var v [16]float64
		copy(v[:], a)
		return New3D(v)
	}},
	"translate": {1, 2, argLength, true, func(a []float64) *Matrix {
		ty := 0.0
		if len(a) > 1 {
			ty = a[1]
		}
		return translation(a[0], ty, 0, true)
	}},
	"translatex": {1, 1, argLength, true, func(a []float64) *Matrix { return translation(a[0], 0, 0, true) }},
	"translatey": {1, 1, argLength, true, func(a []float64) *Matrix { return translation(0, a[0], 0, true) }},
	"translatez": {1, 1, argLength, false, func(a []float64) *Matrix { return translation(0, 0, a[0], false) }},
	"translate3d": {3, 3, argLength, false, func(a []float64) *Matrix {
		return translation(a[0], a[1], a[2], false)
	}},
	"scale": {1, 2, argScale, true, func(a []float64) *Matrix {
		sy := a[0]
		if len(a) > 1 {
			sy = a[1]
		}
		return scaleMatrix(a[0], sy, 1, true)
	}},
	"scalex":  {1, 1, argScale, true, func(a []float64) *Matrix { return scaleMatrix(a[0], 1, 1, true) }},
	"scaley":  {1, 1, argScale, true, func(a []float64) *Matrix { return scaleMatrix(1, a[0], 1, true) }},
	"scalez":  {1, 1, argScale, false, func(a []float64) *Matrix { return scaleMatrix(1, 1, a[0], false) }},
	"scale3d": {3, 3, argScale, false, func(a []float64) *Matrix { return scaleMatrix(a[0], a[1], a[2], false) }},
	"rotate":  {1, 1, argAngle, true, func(a []float64) *Matrix { return axisRotation(2, a[0]) }},
	"rotatez": {1, 1, argAngle, false, func(a []float64) *Matrix { return axisRotation(2, a[0]) }},
	"rotatex": {1, 1, argAngle, false, func(a []float64) *Matrix { return axisRotation(0, a[0]) }},
	"rotatey": {1, 1, argAngle, false, func(a []float64) *Matrix { return axisRotation(1, a[0]) }},
	"skew": {1, 2, argAngle, true, func(a []float64) *Matrix {
		ay := 0.0
		if len(a) > 1 {
			ay = a[1]
		}
		return skewMatrix(a[0], ay)
	}},
	"skewx":       {1, 1, argAngle, true, func(a []float64) *Matrix { return skewMatrix(a[0], 0) }},
	"skewy":       {1, 1, argAngle, true, func(a []float64) *Matrix { return skewMatrix(0, a[0]) }},
	"perspective": {1, 1, argLength, false, func(a []float64) *Matrix { return perspectiveMatrix(a[0]) }},
}

// lengthUnits maps absolute length units to pixels. Relative units need a
// layout context and are rejected.
var lengthUnits = map[string]float64{
	"px": 1,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
	"q":  96 / 101.6,
	"pt": 96.0 / 72,
	"pc": 16,
}

var angleUnits = map[string]float64{
	"deg":  1,
	"rad":  180 / math.Pi,
	"grad": 0.9,
	"turn": 360,
}

// ParseTransformList parses a CSS <transform-list> into the matrix it
// denotes. The result is 2D only when every function in the list is a 2D
// function.
func ParseTransformList(s string) (*Matrix, error) {
	if strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), "none") {
		return Identity(), nil
	}

	lexer := css.NewLexer(parse.NewInputString(s))
	result := Identity()
	sawFunction := false
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			if !sawFunction {
				return nil, transformSyntaxError(s)
			}
			return result, nil
		case css.WhitespaceToken:
			continue
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			fn, ok := transformFuncs[name]
			if !ok {
				return nil, transformSyntaxError(s)
			}
			args, err := readArguments(lexer, fn.kind)
			if err != nil || len(args) < fn.min || len(args) > fn.max {
				return nil, transformSyntaxError(s)
			}
			m := fn.build(args)
			if !fn.is2D {
				m.is2D = false
			}
			result = product(result, m)
			sawFunction = true
		default:
			return nil, transformSyntaxError(s)
		}
	}
}

func transformSyntaxError(s string) error {
	return dom.ErrSyntax("Failed to parse '" + s + "' as a transform list.")
}

// readArguments consumes comma separated arguments up to the closing
// parenthesis.
func readArguments(lexer *css.Lexer, kind argKind) ([]float64, error) {
	var args []float64
	expectValue := true
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.WhitespaceToken:
			continue
		case css.RightParenthesisToken:
			if expectValue && len(args) > 0 {
				return nil, errBadArgument
			}
			return args, nil
		case css.CommaToken:
			if expectValue {
				return nil, errBadArgument
			}
			expectValue = true
		case css.NumberToken, css.DimensionToken, css.PercentageToken:
			if !expectValue {
				return nil, errBadArgument
			}
			v, err := convertArgument(tt, data, kind)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			expectValue = false
		default:
			return nil, errBadArgument
		}
	}
}

var errBadArgument = dom.ErrSyntax("invalid transform function argument")

func convertArgument(tt css.TokenType, data []byte, kind argKind) (float64, error) {
	num, unit := splitDimension(string(data))
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, errBadArgument
	}
	unit = strings.ToLower(unit)
	switch tt {
	case css.NumberToken:
		switch kind {
		case argNumber, argScale:
			return v, nil
		}
		// A unitless zero is allowed for lengths and angles.
		if v == 0 {
			return 0, nil
		}
	case css.PercentageToken:
		if kind == argScale {
			return v / 100, nil
		}
	case css.DimensionToken:
		switch kind {
		case argLength:
			if f, ok := lengthUnits[unit]; ok {
				return v * f, nil
			}
		case argAngle:
			if f, ok := angleUnits[unit]; ok {
				return v * f, nil
			}
		}
	}
	return 0, errBadArgument
}

// splitDimension splits "12.5e2px" into "12.5e2" and "px".
func splitDimension(s string) (string, string) {
	s = strings.TrimSuffix(s, "%")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// SetMatrixValue replaces mat with the matrix parsed from a transform list.
func (mat *Matrix) SetMatrixValue(s string) error {
	parsed, err := ParseTransformList(s)
	if err != nil {
		return err
	}
	*mat = *parsed
	return nil
}
