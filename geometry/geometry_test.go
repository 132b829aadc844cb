package geometry

import (
	"math"
	"testing"

	"github.com/chrisuehlinger/webconform/dom"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func errName(err error) string {
	if de, ok := err.(*dom.DOMException); ok {
		return de.Name
	}
	if _, ok := err.(*dom.TypeError); ok {
		return "TypeError"
	}
	return ""
}

func TestNewRect(t *testing.T) {
	rect := NewRect(10, 20, 100, 50)
	if rect.X != 10 {
		t.Errorf("Expected X=10, got %v", rect.X)
	}
	if rect.Y != 20 {
		t.Errorf("Expected Y=20, got %v", rect.Y)
	}
	if rect.Width != 100 {
		t.Errorf("Expected Width=100, got %v", rect.Width)
	}
	if rect.Height != 50 {
		t.Errorf("Expected Height=50, got %v", rect.Height)
	}
}

func TestRect_Edges(t *testing.T) {
	rect := NewRect(10, 20, 100, 50)
	if rect.Top() != 20 {
		t.Errorf("Expected Top=20, got %v", rect.Top())
	}
	if rect.Left() != 10 {
		t.Errorf("Expected Left=10, got %v", rect.Left())
	}
	if rect.Right() != 110 {
		t.Errorf("Expected Right=110, got %v", rect.Right())
	}
	if rect.Bottom() != 70 {
		t.Errorf("Expected Bottom=70, got %v", rect.Bottom())
	}
}

func TestRect_NegativeSize(t *testing.T) {
	rect := NewRect(100, 100, -50, -30)
	if rect.Left() != 50 {
		t.Errorf("Expected Left=50, got %v", rect.Left())
	}
	if rect.Right() != 100 {
		t.Errorf("Expected Right=100, got %v", rect.Right())
	}
	if rect.Top() != 70 {
		t.Errorf("Expected Top=70, got %v", rect.Top())
	}
	if rect.Bottom() != 100 {
		t.Errorf("Expected Bottom=100, got %v", rect.Bottom())
	}
}

func TestRect_NaNPropagates(t *testing.T) {
	rect := NewRect(math.NaN(), 0, 10, 10)
	if !math.IsNaN(rect.Left()) || !math.IsNaN(rect.Right()) {
		t.Errorf("Expected NaN edges, got left=%v right=%v", rect.Left(), rect.Right())
	}
}

func TestQuad_Bounds(t *testing.T) {
	q := QuadFromPoints(
		NewPoint(10, 0, 0, 1),
		NewPoint(20, 10, 0, 1),
		NewPoint(10, 20, 0, 1),
		NewPoint(0, 10, 0, 1),
	)
	b := q.Bounds()
	if b.X != 0 || b.Y != 0 || b.Width != 20 || b.Height != 20 {
		t.Errorf("Expected bounds (0, 0, 20, 20), got %+v", b)
	}

	fromRect := QuadFromRect(NewRect(1, 2, 3, 4))
	if fromRect.P3.X != 4 || fromRect.P3.Y != 6 || fromRect.P3.W != 1 {
		t.Errorf("Expected p3 (4, 6, 0, 1), got %+v", fromRect.P3)
	}
}

func TestMatrix_Identity(t *testing.T) {
	m := Identity()
	if !m.Is2D() {
		t.Error("Expected identity to be 2D")
	}
	if !m.IsIdentity() {
		t.Error("Expected IsIdentity")
	}
	s, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if s != "matrix(1, 0, 0, 1, 0, 0)" {
		t.Errorf("Expected matrix(1, 0, 0, 1, 0, 0), got %s", s)
	}
}

func TestMatrix_FromSequence(t *testing.T) {
	m, err := FromSequence([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get("e"); v != 5 {
		t.Errorf("Expected e=5, got %v", v)
	}
	if v, _ := m.Get("m42"); v != 6 {
		t.Errorf("Expected m42=6, got %v", v)
	}

	m3, err := FromSequence([]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if m3.Is2D() {
		t.Error("Expected a 16 element sequence to produce a 3D matrix")
	}
	if !m3.IsIdentity() {
		t.Error("Expected identity values")
	}

	if _, err := FromSequence([]float64{1, 2, 3}); errName(err) != "TypeError" {
		t.Errorf("Expected TypeError, got %v", err)
	}
}

func TestMatrix_SetComponentClears2D(t *testing.T) {
	m := Identity()
	m.Set("m13", 0)
	if !m.Is2D() {
		t.Error("Expected writing 0 to m13 to keep is2D")
	}
	m.Set("m33", 2)
	if m.Is2D() {
		t.Error("Expected writing 2 to m33 to clear is2D")
	}
	m.Set("m33", 1)
	if m.Is2D() {
		t.Error("Expected is2D to stay false")
	}
}

func TestMatrix_TranslateScale(t *testing.T) {
	m := Identity().Translate(10, 20, 0)
	p := m.TransformPoint(NewPoint(1, 1, 0, 1))
	if p.X != 11 || p.Y != 21 {
		t.Errorf("Expected (11, 21), got (%v, %v)", p.X, p.Y)
	}
	if !m.Is2D() {
		t.Error("Expected 2D translation")
	}
	if Identity().Translate(0, 0, 1).Is2D() {
		t.Error("Expected tz to clear is2D")
	}

	s := Identity().Scale(2, 3, 1, 10, 10, 0)
	p = s.TransformPoint(NewPoint(10, 10, 0, 1))
	if p.X != 10 || p.Y != 10 {
		t.Errorf("Expected origin to stay fixed, got (%v, %v)", p.X, p.Y)
	}
	p = s.TransformPoint(NewPoint(11, 11, 0, 1))
	if p.X != 12 || p.Y != 13 {
		t.Errorf("Expected (12, 13), got (%v, %v)", p.X, p.Y)
	}
}

func TestMatrix_Rotate(t *testing.T) {
	m := Identity().Rotate(0, 0, 90)
	str, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	want := "matrix(6.123233995736766e-17, 1, -1, 6.123233995736766e-17, 0, 0)"
	if str != want {
		t.Errorf("Expected %s, got %s", want, str)
	}

	m = Identity().RotateFromVector(1, 1)
	p := m.TransformPoint(NewPoint(1, 0, 0, 1))
	if !approx(p.X, math.Sqrt2/2) || !approx(p.Y, math.Sqrt2/2) {
		t.Errorf("Expected 45 degree rotation, got (%v, %v)", p.X, p.Y)
	}

	m = Identity().RotateAxisAngle(0, 0, 1, 90)
	if m.Is2D() {
		t.Error("Expected rotateAxisAngle to produce a 3D matrix")
	}
	p = m.TransformPoint(NewPoint(1, 0, 0, 1))
	if !approx(p.X, 0) || !approx(p.Y, 1) {
		t.Errorf("Expected (0, 1), got (%v, %v)", p.X, p.Y)
	}
}

func TestMatrix_Inverse(t *testing.T) {
	m := New2D(2, 0, 0, 4, 10, 20)
	inv := m.Inverse()
	p := inv.TransformPoint(m.TransformPoint(NewPoint(3, 5, 0, 1)))
	if !approx(p.X, 3) || !approx(p.Y, 5) {
		t.Errorf("Expected round trip to (3, 5), got (%v, %v)", p.X, p.Y)
	}
	if !inv.Is2D() {
		t.Error("Expected inverse of 2D matrix to stay 2D")
	}

	singular := New2D(0, 0, 0, 0, 0, 0).Inverse()
	if singular.Is2D() {
		t.Error("Expected singular inverse to be 3D")
	}
	for _, v := range singular.Values() {
		if !math.IsNaN(v) {
			t.Fatalf("Expected all NaN, got %v", singular.Values())
		}
	}
	if _, err := singular.Serialize(); errName(err) != "InvalidStateError" {
		t.Errorf("Expected InvalidStateError, got %v", err)
	}
}

func TestMatrix_Multiply(t *testing.T) {
	a := Identity().Translate(10, 0, 0)
	b := Identity().Scale(2, 2, 1, 0, 0, 0)
	p := a.Multiply(b).TransformPoint(NewPoint(1, 0, 0, 1))
	if p.X != 12 {
		t.Errorf("Expected scale then translate = 12, got %v", p.X)
	}
	pre := a.Clone().PreMultiplySelf(b)
	p = pre.TransformPoint(NewPoint(1, 0, 0, 1))
	if p.X != 22 {
		t.Errorf("Expected translate then scale = 22, got %v", p.X)
	}
}

func TestMatrix_FlipSkew(t *testing.T) {
	p := Identity().FlipX().TransformPoint(NewPoint(3, 4, 0, 1))
	if p.X != -3 || p.Y != 4 {
		t.Errorf("Expected (-3, 4), got (%v, %v)", p.X, p.Y)
	}
	p = Identity().FlipY().TransformPoint(NewPoint(3, 4, 0, 1))
	if p.X != 3 || p.Y != -4 {
		t.Errorf("Expected (3, -4), got (%v, %v)", p.X, p.Y)
	}
	m := Identity().SkewX(45)
	if v, _ := m.Get("c"); !approx(v, 1) {
		t.Errorf("Expected c=1, got %v", v)
	}
}

func TestParseTransformList(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "matrix(1, 0, 0, 1, 0, 0)"},
		{"none", "matrix(1, 0, 0, 1, 0, 0)"},
		{"translate(10px, 20px)", "matrix(1, 0, 0, 1, 10, 20)"},
		{"translateX(1in)", "matrix(1, 0, 0, 1, 96, 0)"},
		{"scale(2) translate(5px)", "matrix(2, 0, 0, 2, 10, 0)"},
		{"scale(50%)", "matrix(0.5, 0, 0, 0.5, 0, 0)"},
		{"matrix(1, 2, 3, 4, 5, 6)", "matrix(1, 2, 3, 4, 5, 6)"},
		{"rotate(0)", "matrix(1, 0, 0, 1, 0, 0)"},
		{"translate3d(0, 0, 0)", "matrix3d(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1)"},
		{"perspective(100px)", "matrix3d(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, -0.01, 0, 0, 0, 1)"},
	}
	for _, tt := range tests {
		m, err := ParseTransformList(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		got, err := m.Serialize()
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func TestParseTransformList_Errors(t *testing.T) {
	for _, input := range []string{
		"banana",
		"translate(10em)",
		"translate(10%)",
		"rotate(10px)",
		"translate(1px,)",
		"matrix(1, 2, 3)",
		"translate(1px) , scale(2)",
		"inherit",
	} {
		if _, err := ParseTransformList(input); errName(err) != "SyntaxError" {
			t.Errorf("%q: expected SyntaxError, got %v", input, err)
		}
	}
}

func TestFromMatrix(t *testing.T) {
	two, three := 2.0, 3.0
	m, err := FromMatrix(MatrixInit{A: &two, M11: &two})
	if err != nil {
		t.Fatal(err)
	}
	if !m.Is2D() {
		t.Error("Expected 2D matrix")
	}
	if v, _ := m.Get("m11"); v != 2 {
		t.Errorf("Expected m11=2, got %v", v)
	}

	if _, err := FromMatrix(MatrixInit{A: &two, M11: &three}); errName(err) != "TypeError" {
		t.Errorf("Expected TypeError for mismatched aliases, got %v", err)
	}

	yes := true
	if _, err := FromMatrix(MatrixInit{M33: &two, Is2D: &yes}); errName(err) != "TypeError" {
		t.Errorf("Expected TypeError for 3D values with is2D, got %v", err)
	}

	m, err = FromMatrix(MatrixInit{M43: &three})
	if err != nil {
		t.Fatal(err)
	}
	if m.Is2D() {
		t.Error("Expected m43 to make the matrix 3D")
	}

	nan := math.NaN()
	if _, err := FromMatrix(MatrixInit{B: &nan, M12: &nan}); err != nil {
		t.Errorf("Expected NaN aliases to compare equal, got %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	// Kept in variables so the sum is rounded at run time.
	tenth, fifth := 0.1, 0.2
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1e21, "1e+21"},
		{123456789012, "123456789012"},
		{1.5e300, "1.5e+300"},
		{tenth + fifth, "0.30000000000000004"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestPoint_MatrixTransform(t *testing.T) {
	p := Origin()
	if p.W != 1 {
		t.Errorf("Expected w=1, got %v", p.W)
	}
	moved := p.MatrixTransform(Identity().Translate(5, 6, 7))
	if moved.X != 5 || moved.Y != 6 || moved.Z != 7 || moved.W != 1 {
		t.Errorf("Expected (5, 6, 7, 1), got %+v", moved)
	}
}

func TestSincos(t *testing.T) {
	tests := []struct {
		x        float64
		sin, cos float64
	}{
		{math.Pi / 2, 1, 6.123233995736766e-17},
		{math.Pi, 1.2246467991473532e-16, -1},
		{-math.Pi / 2, -1, 6.123233995736766e-17},
		{0.5, math.Sin(0.5), math.Cos(0.5)},
	}
	for _, tt := range tests {
		sin, cos := sincos(tt.x)
		if sin != tt.sin || cos != tt.cos {
			t.Errorf("sincos(%v): expected (%v, %v), got (%v, %v)", tt.x, tt.sin, tt.cos, sin, cos)
		}
	}

	m := Identity().Rotate(0, 0, 180)
	str, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	want := "matrix(-1, 1.2246467991473532e-16, -1.2246467991473532e-16, -1, 0, 0)"
	if str != want {
		t.Errorf("Expected %s, got %s", want, str)
	}
}
