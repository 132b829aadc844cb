package js

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/geometry"
)

// quadValue backs a DOMQuad. Its corners are live DOMPoint objects, so
// writes through quad.p1.x show up in getBounds().
type quadValue struct {
	objects [4]*goja.Object
	points  [4]*geometry.Point
}

func (q *quadValue) quad() geometry.Quad {
	return geometry.QuadFromPoints(*q.points[0], *q.points[1], *q.points[2], *q.points[3])
}

var matrixAliases = []string{"a", "b", "c", "d", "e", "f"}

// construct binds v to the object created by new, keeping the prototype
// chosen by new.target.
func (b *Binder) construct(call goja.ConstructorCall, v interface{}) *goja.Object {
	b.values[call.This] = v
	return call.This
}

func floatArgC(call goja.ConstructorCall, i int, def float64) float64 {
	if i < len(call.Arguments) && !isMissing(call.Arguments[i]) {
		return call.Arguments[i].ToFloat()
	}
	return def
}

// dict returns v as an object for dictionary conversion, or nil for
// undefined and null.
func (b *Binder) dict(v goja.Value, name string) *goja.Object {
	if isNullish(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		panic(b.vm.NewTypeError("The provided value is not of type '%s'.", name))
	}
	return obj
}

func dictFloat(obj *goja.Object, key string, def float64) float64 {
	if obj == nil {
		return def
	}
	v := obj.Get(key)
	if isMissing(v) {
		return def
	}
	return v.ToFloat()
}

func dictOptional(obj *goja.Object, key string) *float64 {
	if obj == nil {
		return nil
	}
	v := obj.Get(key)
	if isMissing(v) {
		return nil
	}
	f := v.ToFloat()
	return &f
}

func (b *Binder) pointInit(v goja.Value) geometry.Point {
	obj := b.dict(v, "DOMPointInit")
	return geometry.NewPoint(dictFloat(obj, "x", 0), dictFloat(obj, "y", 0), dictFloat(obj, "z", 0), dictFloat(obj, "w", 1))
}

func (b *Binder) rectInit(v goja.Value) geometry.Rect {
	obj := b.dict(v, "DOMRectInit")
	return geometry.NewRect(dictFloat(obj, "x", 0), dictFloat(obj, "y", 0), dictFloat(obj, "width", 0), dictFloat(obj, "height", 0))
}

// matrixInit converts a DOMMatrixInit dictionary.
func (b *Binder) matrixInit(v goja.Value) geometry.MatrixInit {
	obj := b.dict(v, "DOMMatrixInit")
	var init geometry.MatrixInit
	fields := map[string]**float64{
		"a": &init.A, "b": &init.B, "c": &init.C, "d": &init.D, "e": &init.E, "f": &init.F,
		"m11": &init.M11, "m12": &init.M12, "m13": &init.M13, "m14": &init.M14,
		"m21": &init.M21, "m22": &init.M22, "m23": &init.M23, "m24": &init.M24,
		"m31": &init.M31, "m32": &init.M32, "m33": &init.M33, "m34": &init.M34,
		"m41": &init.M41, "m42": &init.M42, "m43": &init.M43, "m44": &init.M44,
	}
	for key, field := range fields {
		*field = dictOptional(obj, key)
	}
	if obj != nil {
		if is2D := obj.Get("is2D"); !isMissing(is2D) {
			flag := is2D.ToBoolean()
			init.Is2D = &flag
		}
	}
	return init
}

func (b *Binder) matrixFromInit(v goja.Value) *geometry.Matrix {
	m, err := geometry.FromMatrix(b.matrixInit(v))
	b.check(err)
	return m
}

func (b *Binder) newPoint(p geometry.Point, iface string) *goja.Object {
	return b.fresh(&p, b.protos[iface])
}

func (b *Binder) newRect(r geometry.Rect, iface string) *goja.Object {
	return b.fresh(&r, b.protos[iface])
}

func (b *Binder) newMatrix(m *geometry.Matrix, iface string) *goja.Object {
	return b.fresh(m, b.protos[iface])
}

func (b *Binder) newQuad(q geometry.Quad) *goja.Object {
	qv := &quadValue{}
	for i, p := range []geometry.Point{q.P1, q.P2, q.P3, q.P4} {
		p := p
		qv.points[i] = &p
		qv.objects[i] = b.fresh(&p, b.protos["DOMPoint"])
	}
	return b.fresh(qv, b.protos["DOMQuad"])
}

func (b *Binder) setupGeometry() {
	b.setupPoints()
	b.setupRects()
	b.setupQuads()
	b.setupMatrices()
}

func (b *Binder) setupPoints() {
	vm := b.vm
	newPoint := func(call goja.ConstructorCall) *goja.Object {
		p := geometry.NewPoint(floatArgC(call, 0, 0), floatArgC(call, 1, 0), floatArgC(call, 2, 0), floatArgC(call, 3, 1))
		return b.construct(call, &p)
	}
	readOnly := b.defineInterface("DOMPointReadOnly", "", newPoint)
	point := b.defineInterface("DOMPoint", "DOMPointReadOnly", newPoint)
	thisPoint := func(call goja.FunctionCall) *geometry.Point {
		if p, ok := b.this(call).(*geometry.Point); ok {
			return p
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}

	fields := map[string]func(*geometry.Point) *float64{
		"x": func(p *geometry.Point) *float64 { return &p.X },
		"y": func(p *geometry.Point) *float64 { return &p.Y },
		"z": func(p *geometry.Point) *float64 { return &p.Z },
		"w": func(p *geometry.Point) *float64 { return &p.W },
	}
	for name, field := range fields {
		field := field
		get := func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(*field(thisPoint(call)))
		}
		b.getter(readOnly, name, get)
		b.accessor(point, name, get, func(call goja.FunctionCall) goja.Value {
			*field(thisPoint(call)) = floatArg(call, 0, 0)
			return goja.Undefined()
		})
	}

	b.method(readOnly, "matrixTransform", func(call goja.FunctionCall) goja.Value {
		p := thisPoint(call)
		return b.newPoint(p.MatrixTransform(b.matrixFromInit(arg(call, 0))), "DOMPoint")
	})
	b.method(readOnly, "toJSON", func(call goja.FunctionCall) goja.Value {
		p := thisPoint(call)
		obj := vm.NewObject()
		obj.Set("x", p.X)
		obj.Set("y", p.Y)
		obj.Set("z", p.Z)
		obj.Set("w", p.W)
		return obj
	})
	for _, iface := range []string{"DOMPointReadOnly", "DOMPoint"} {
		iface := iface
		b.ctors[iface].Set("fromPoint", func(call goja.FunctionCall) goja.Value {
			return b.newPoint(b.pointInit(arg(call, 0)), iface)
		})
	}
}

func (b *Binder) setupRects() {
	vm := b.vm
	newRect := func(call goja.ConstructorCall) *goja.Object {
		r := geometry.NewRect(floatArgC(call, 0, 0), floatArgC(call, 1, 0), floatArgC(call, 2, 0), floatArgC(call, 3, 0))
		return b.construct(call, &r)
	}
	readOnly := b.defineInterface("DOMRectReadOnly", "", newRect)
	rect := b.defineInterface("DOMRect", "DOMRectReadOnly", newRect)
	thisRect := func(call goja.FunctionCall) *geometry.Rect {
		if r, ok := b.this(call).(*geometry.Rect); ok {
			return r
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}

	fields := map[string]func(*geometry.Rect) *float64{
		"x":      func(r *geometry.Rect) *float64 { return &r.X },
		"y":      func(r *geometry.Rect) *float64 { return &r.Y },
		"width":  func(r *geometry.Rect) *float64 { return &r.Width },
		"height": func(r *geometry.Rect) *float64 { return &r.Height },
	}
	for name, field := range fields {
		field := field
		get := func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(*field(thisRect(call)))
		}
		b.getter(readOnly, name, get)
		b.accessor(rect, name, get, func(call goja.FunctionCall) goja.Value {
			*field(thisRect(call)) = floatArg(call, 0, 0)
			return goja.Undefined()
		})
	}
	edges := map[string]func(geometry.Rect) float64{
		"top":    geometry.Rect.Top,
		"right":  geometry.Rect.Right,
		"bottom": geometry.Rect.Bottom,
		"left":   geometry.Rect.Left,
	}
	for name, edge := range edges {
		edge := edge
		b.getter(readOnly, name, func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(edge(*thisRect(call)))
		})
	}

	b.method(readOnly, "toJSON", func(call goja.FunctionCall) goja.Value {
		r := thisRect(call)
		obj := vm.NewObject()
		obj.Set("x", r.X)
		obj.Set("y", r.Y)
		obj.Set("width", r.Width)
		obj.Set("height", r.Height)
		obj.Set("top", r.Top())
		obj.Set("right", r.Right())
		obj.Set("bottom", r.Bottom())
		obj.Set("left", r.Left())
		return obj
	})
	for _, iface := range []string{"DOMRectReadOnly", "DOMRect"} {
		iface := iface
		b.ctors[iface].Set("fromRect", func(call goja.FunctionCall) goja.Value {
			return b.newRect(b.rectInit(arg(call, 0)), iface)
		})
	}
}

func (b *Binder) setupQuads() {
	vm := b.vm
	quad := b.defineInterface("DOMQuad", "", func(call goja.ConstructorCall) *goja.Object {
		args := goja.FunctionCall{Arguments: call.Arguments}
		q := geometry.QuadFromPoints(
			b.pointInit(arg(args, 0)), b.pointInit(arg(args, 1)),
			b.pointInit(arg(args, 2)), b.pointInit(arg(args, 3)),
		)
		return b.newQuad(q)
	})
	thisQuad := func(call goja.FunctionCall) *quadValue {
		if q, ok := b.this(call).(*quadValue); ok {
			return q
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	for i := 0; i < 4; i++ {
		i := i
		b.getter(quad, "p"+strconv.Itoa(i+1), func(call goja.FunctionCall) goja.Value {
			return thisQuad(call).objects[i]
		})
	}
	b.method(quad, "getBounds", func(call goja.FunctionCall) goja.Value {
		return b.newRect(thisQuad(call).quad().Bounds(), "DOMRect")
	})
	b.method(quad, "toJSON", func(call goja.FunctionCall) goja.Value {
		q := thisQuad(call)
		obj := vm.NewObject()
		for i, p := range q.objects {
			obj.Set("p"+strconv.Itoa(i+1), p)
		}
		return obj
	})

	ctor := b.ctors["DOMQuad"]
	ctor.Set("fromRect", func(call goja.FunctionCall) goja.Value {
		return b.newQuad(geometry.QuadFromRect(b.rectInit(arg(call, 0))))
	})
	ctor.Set("fromQuad", func(call goja.FunctionCall) goja.Value {
		obj := b.dict(arg(call, 0), "DOMQuadInit")
		var points [4]geometry.Point
		for i := range points {
			var v goja.Value = goja.Undefined()
			if obj != nil {
				v = obj.Get("p" + strconv.Itoa(i+1))
			}
			points[i] = b.pointInit(v)
		}
		return b.newQuad(geometry.QuadFromPoints(points[0], points[1], points[2], points[3]))
	})
}

// sequence reads an array-like of numbers.
func sequence(obj *goja.Object) []float64 {
	length := obj.Get("length")
	if isMissing(length) {
		return nil
	}
	n := int(length.ToInteger())
	values := make([]float64, n)
	for i := range values {
		values[i] = obj.Get(strconv.Itoa(i)).ToFloat()
	}
	return values
}

func (b *Binder) setupMatrices() {
	vm := b.vm
	newMatrix := func(call goja.ConstructorCall) *goja.Object {
		init := goja.Undefined()
		if len(call.Arguments) > 0 {
			init = call.Arguments[0]
		}
		var m *geometry.Matrix
		var err error
		switch v := init.(type) {
		case *goja.Object:
			m, err = geometry.FromSequence(sequence(v))
		default:
			if isMissing(init) {
				m = geometry.Identity()
			} else {
				m, err = geometry.ParseTransformList(init.String())
			}
		}
		b.check(err)
		return b.construct(call, m)
	}
	readOnly := b.defineInterface("DOMMatrixReadOnly", "", newMatrix)
	matrix := b.defineInterface("DOMMatrix", "DOMMatrixReadOnly", newMatrix)
	thisMatrix := func(call goja.FunctionCall) *geometry.Matrix {
		if m, ok := b.this(call).(*geometry.Matrix); ok {
			return m
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}

	for _, name := range append(append([]string{}, matrixAliases...), geometry.ComponentNames...) {
		name := name
		get := func(call goja.FunctionCall) goja.Value {
			v, _ := thisMatrix(call).Get(name)
			return vm.ToValue(v)
		}
		b.getter(readOnly, name, get)
		b.accessor(matrix, name, get, func(call goja.FunctionCall) goja.Value {
			thisMatrix(call).Set(name, floatArg(call, 0, 0))
			return goja.Undefined()
		})
	}
	b.getter(readOnly, "is2D", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisMatrix(call).Is2D())
	})
	b.getter(readOnly, "isIdentity", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisMatrix(call).IsIdentity())
	})

	// Operations shared by the immutable methods and their Self variants.
	type op func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix
	ops := map[string]op{
		"translate": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			return m.TranslateSelf(floatArg(call, 0, 0), floatArg(call, 1, 0), floatArg(call, 2, 0))
		},
		"scale": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			sx := floatArg(call, 0, 1)
			return m.ScaleSelf(sx, floatArg(call, 1, sx), floatArg(call, 2, 1),
				floatArg(call, 3, 0), floatArg(call, 4, 0), floatArg(call, 5, 0))
		},
		"scale3d": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			return m.Scale3dSelf(floatArg(call, 0, 1), floatArg(call, 1, 0), floatArg(call, 2, 0), floatArg(call, 3, 0))
		},
		"rotate": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			rx, ry, rz := floatArg(call, 0, 0), floatArg(call, 1, 0), floatArg(call, 2, 0)
			if isMissing(arg(call, 1)) && isMissing(arg(call, 2)) {
				rx, rz = 0, rx
			}
			return m.RotateSelf(rx, ry, rz)
		},
		"rotateFromVector": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			return m.RotateFromVectorSelf(floatArg(call, 0, 0), floatArg(call, 1, 0))
		},
		"rotateAxisAngle": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			return m.RotateAxisAngleSelf(floatArg(call, 0, 0), floatArg(call, 1, 0), floatArg(call, 2, 0), floatArg(call, 3, 0))
		},
		"skewX": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			return m.SkewXSelf(floatArg(call, 0, 0))
		},
		"skewY": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			return m.SkewYSelf(floatArg(call, 0, 0))
		},
		"multiply": func(call goja.FunctionCall, m *geometry.Matrix) *geometry.Matrix {
			return m.MultiplySelf(b.matrixFromInit(arg(call, 0)))
		},
	}
	for name, fn := range ops {
		fn := fn
		b.method(readOnly, name, func(call goja.FunctionCall) goja.Value {
			return b.newMatrix(fn(call, thisMatrix(call).Clone()), "DOMMatrix")
		})
		b.method(matrix, name+"Self", func(call goja.FunctionCall) goja.Value {
			fn(call, thisMatrix(call))
			return call.This
		})
	}
	b.method(readOnly, "scaleNonUniform", func(call goja.FunctionCall) goja.Value {
		m := thisMatrix(call)
		return b.newMatrix(m.ScaleNonUniform(floatArg(call, 0, 1), floatArg(call, 1, 1)), "DOMMatrix")
	})
	b.method(readOnly, "flipX", func(call goja.FunctionCall) goja.Value {
		return b.newMatrix(thisMatrix(call).FlipX(), "DOMMatrix")
	})
	b.method(readOnly, "flipY", func(call goja.FunctionCall) goja.Value {
		return b.newMatrix(thisMatrix(call).FlipY(), "DOMMatrix")
	})
	b.method(readOnly, "inverse", func(call goja.FunctionCall) goja.Value {
		return b.newMatrix(thisMatrix(call).Inverse(), "DOMMatrix")
	})
	b.method(readOnly, "transformPoint", func(call goja.FunctionCall) goja.Value {
		m := thisMatrix(call)
		return b.newPoint(m.TransformPoint(b.pointInit(arg(call, 0))), "DOMPoint")
	})
	b.method(readOnly, "toFloat32Array", func(call goja.FunctionCall) goja.Value {
		values := thisMatrix(call).Float32Values()
		items := make([]interface{}, len(values))
		for i, v := range values {
			items[i] = float64(v)
		}
		return b.typedArray("Float32Array", items)
	})
	b.method(readOnly, "toFloat64Array", func(call goja.FunctionCall) goja.Value {
		values := thisMatrix(call).Values()
		items := make([]interface{}, len(values))
		for i, v := range values {
			items[i] = v
		}
		return b.typedArray("Float64Array", items)
	})
	b.method(readOnly, "toJSON", func(call goja.FunctionCall) goja.Value {
		m := thisMatrix(call)
		obj := vm.NewObject()
		for _, name := range append(append([]string{}, matrixAliases...), geometry.ComponentNames...) {
			v, _ := m.Get(name)
			obj.Set(name, v)
		}
		obj.Set("is2D", m.Is2D())
		obj.Set("isIdentity", m.IsIdentity())
		return obj
	})
	b.method(readOnly, "toString", func(call goja.FunctionCall) goja.Value {
		s, err := thisMatrix(call).Serialize()
		b.check(err)
		return vm.ToValue(s)
	})

	b.method(matrix, "preMultiplySelf", func(call goja.FunctionCall) goja.Value {
		m := thisMatrix(call)
		m.PreMultiplySelf(b.matrixFromInit(arg(call, 0)))
		return call.This
	})
	b.method(matrix, "invertSelf", func(call goja.FunctionCall) goja.Value {
		thisMatrix(call).InvertSelf()
		return call.This
	})
	b.method(matrix, "setMatrixValue", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "setMatrixValue", "DOMMatrix")
		b.check(thisMatrix(call).SetMatrixValue(call.Arguments[0].String()))
		return call.This
	})

	for _, iface := range []string{"DOMMatrixReadOnly", "DOMMatrix"} {
		iface := iface
		ctor := b.ctors[iface]
		ctor.Set("fromMatrix", func(call goja.FunctionCall) goja.Value {
			return b.newMatrix(b.matrixFromInit(arg(call, 0)), iface)
		})
		ctor.Set("fromFloat32Array", func(call goja.FunctionCall) goja.Value {
			arr := b.typedArrayArg(call, "Float32Array", "fromFloat32Array", iface)
			values := sequence(arr)
			f32 := make([]float32, len(values))
			for i, v := range values {
				f32[i] = float32(v)
			}
			m, err := geometry.FromFloat32Array(f32)
			b.check(err)
			return b.newMatrix(m, iface)
		})
		ctor.Set("fromFloat64Array", func(call goja.FunctionCall) goja.Value {
			arr := b.typedArrayArg(call, "Float64Array", "fromFloat64Array", iface)
			m, err := geometry.FromFloat64Array(sequence(arr))
			b.check(err)
			return b.newMatrix(m, iface)
		})
	}
}

func (b *Binder) typedArray(name string, items []interface{}) goja.Value {
	arr, err := b.vm.New(b.vm.Get(name), b.vm.NewArray(items...))
	b.check(err)
	return arr
}

func (b *Binder) typedArrayArg(call goja.FunctionCall, name, method, iface string) *goja.Object {
	v := arg(call, 0)
	ctor := b.vm.Get(name).ToObject(b.vm)
	if obj, ok := v.(*goja.Object); ok && b.vm.InstanceOf(obj, ctor) {
		return obj
	}
	panic(b.vm.NewTypeError("Failed to execute '%s' on '%s': parameter 1 is not of type '%s'.", method, iface, name))
}
