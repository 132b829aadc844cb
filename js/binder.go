package js

import (
	"math"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

// Binder exposes Go values to scripts. Every Go value gets exactly one
// wrapper object, so identity comparisons in scripts behave like they do in
// a browser. Wrappers carry no per-instance functions: interface members
// live on prototypes and look the Go value up from `this`.
type Binder struct {
	runtime  *Runtime
	vm       *goja.Runtime
	document *dom.Document

	wrappers map[interface{}]*goja.Object
	values   map[*goja.Object]interface{}

	protos map[string]*goja.Object
	ctors  map[string]*goja.Object

	targets    map[*goja.Object]*EventTarget
	readyState string
	current    *dom.Node
}

// NewBinder creates a binder and installs the interface objects on the
// runtime's global object.
func NewBinder(runtime *Runtime) *Binder {
	b := &Binder{
		runtime:    runtime,
		vm:         runtime.vm,
		wrappers:   make(map[interface{}]*goja.Object),
		values:     make(map[*goja.Object]interface{}),
		protos:     make(map[string]*goja.Object),
		ctors:      make(map[string]*goja.Object),
		targets:    make(map[*goja.Object]*EventTarget),
		readyState: "complete",
	}
	b.setupExceptions()
	b.setupEvents()
	b.setupNodes()
	b.setupElements()
	b.setupDocuments()
	b.setupCollections()
	b.setupTraversal()
	b.setupRanges()
	b.setupGeometry()
	b.setupXPath()
	return b
}

// Runtime returns the runtime the binder installs into.
func (b *Binder) Runtime() *Runtime {
	return b.runtime
}

// Document returns the document bound as the global `document`.
func (b *Binder) Document() *dom.Document {
	return b.document
}

// BindDocument makes doc the global `document` of the window.
func (b *Binder) BindDocument(doc *dom.Document) *goja.Object {
	b.document = doc
	obj := b.Node(doc.AsNode())
	b.runtime.window.Set("document", obj)
	return obj
}

// Value returns the Go value behind a wrapper, or nil.
func (b *Binder) Value(v goja.Value) interface{} {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return b.values[obj]
}

// defineInterface creates an interface object and its prototype. A nil
// construct makes the constructor throw "Illegal constructor".
func (b *Binder) defineInterface(name, parent string, construct func(call goja.ConstructorCall) *goja.Object) *goja.Object {
	vm := b.vm
	proto := vm.NewObject()
	if parent != "" {
		proto.SetPrototype(b.protos[parent])
	}
	if construct == nil {
		construct = func(goja.ConstructorCall) *goja.Object {
			panic(vm.NewTypeError("Illegal constructor"))
		}
	}
	build := construct
	construct = func(call goja.ConstructorCall) *goja.Object {
		if call.NewTarget == nil {
			panic(vm.NewTypeError("Failed to construct '" + name + "': Please use the 'new' operator, this DOM object constructor cannot be called as a function."))
		}
		return build(call)
	}
	ctor := vm.ToValue(construct).ToObject(vm)
	ctor.Set("prototype", proto)
	proto.DefineDataPropertySymbol(goja.SymToStringTag, vm.ToValue(name), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	if parent != "" {
		ctor.SetPrototype(b.ctors[parent])
	}
	proto.DefineDataProperty("constructor", ctor, goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE)

	b.protos[name] = proto
	b.ctors[name] = ctor
	vm.Set(name, ctor)
	return proto
}

// constants sets read-only numeric constants on an interface object and
// its prototype.
func (b *Binder) constants(name string, values map[string]int) {
	for k, v := range values {
		val := b.vm.ToValue(v)
		b.ctors[name].DefineDataProperty(k, val, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
		b.protos[name].DefineDataProperty(k, val, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
}

func (b *Binder) method(proto *goja.Object, name string, fn func(call goja.FunctionCall) goja.Value) {
	proto.DefineDataProperty(name, b.vm.ToValue(fn), goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_TRUE)
}

func (b *Binder) getter(proto *goja.Object, name string, get func(call goja.FunctionCall) goja.Value) {
	proto.DefineAccessorProperty(name, b.vm.ToValue(get), nil, goja.FLAG_TRUE, goja.FLAG_TRUE)
}

func (b *Binder) accessor(proto *goja.Object, name string, get, set func(call goja.FunctionCall) goja.Value) {
	proto.DefineAccessorProperty(name, b.vm.ToValue(get), b.vm.ToValue(set), goja.FLAG_TRUE, goja.FLAG_TRUE)
}

// wrap returns the wrapper for v, creating it with proto on first use.
func (b *Binder) wrap(v interface{}, proto *goja.Object) *goja.Object {
	if obj, ok := b.wrappers[v]; ok {
		return obj
	}
	obj := b.vm.NewObject()
	obj.SetPrototype(proto)
	b.register(v, obj)
	return obj
}

// wrapDynamic is wrap for values with indexed or named properties. The
// wrapper is cached under key, which differs from v when the Go side hands
// out a fresh value for what scripts see as the same object.
func (b *Binder) wrapDynamic(key, v interface{}, proto *goja.Object, d goja.DynamicObject) *goja.Object {
	if obj, ok := b.wrappers[key]; ok {
		return obj
	}
	obj := b.vm.NewDynamicObject(d)
	obj.SetPrototype(proto)
	b.wrappers[key] = obj
	b.values[obj] = v
	return obj
}

func (b *Binder) register(v interface{}, obj *goja.Object) {
	b.wrappers[v] = obj
	b.values[obj] = v
}

// sameObject keys the wrappers of per-node attributes such as classList.
type sameObject struct {
	attribute string
	node      *dom.Node
}

// fresh creates an unshared wrapper, used for value types such as points
// that are copied rather than identified.
func (b *Binder) fresh(v interface{}, proto *goja.Object) *goja.Object {
	obj := b.vm.NewObject()
	obj.SetPrototype(proto)
	b.values[obj] = v
	return obj
}

// this returns the Go value behind call.This or throws "Illegal
// invocation".
func (b *Binder) this(call goja.FunctionCall) interface{} {
	if v := b.Value(call.This); v != nil {
		return v
	}
	panic(b.vm.NewTypeError("Illegal invocation"))
}

// throw raises err in the script. DOM exceptions become DOMException
// objects, type errors become TypeError and script exceptions are
// rethrown unchanged.
func (b *Binder) throw(err error) {
	panic(b.errorValue(err))
}

func (b *Binder) check(err error) {
	if err != nil {
		b.throw(err)
	}
}

func (b *Binder) errorValue(err error) goja.Value {
	switch e := err.(type) {
	case *goja.Exception:
		return e.Value()
	case *scriptThrow:
		return e.value
	case *dom.DOMException:
		return b.newDOMException(e)
	case *dom.TypeError:
		return b.vm.NewTypeError("%s", e.Message)
	}
	return b.vm.NewGoError(err)
}

// Argument helpers.

func arg(call goja.FunctionCall, i int) goja.Value {
	if i < len(call.Arguments) {
		return call.Arguments[i]
	}
	return goja.Undefined()
}

func isMissing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v)
}

func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func (b *Binder) requireArgs(call goja.FunctionCall, n int, method, iface string) {
	if len(call.Arguments) < n {
		panic(b.vm.NewTypeError("Failed to execute '%s' on '%s': %d argument(s) required, but only %d present.",
			method, iface, n, len(call.Arguments)))
	}
}

// stringArg converts a DOMString argument; undefined becomes def.
func stringArg(call goja.FunctionCall, i int, def string) string {
	v := arg(call, i)
	if isMissing(v) {
		return def
	}
	return v.String()
}

// nullableString converts a DOMString? argument; null and undefined become
// the empty string, which the dom package treats as the null namespace.
func nullableString(v goja.Value) string {
	if isNullish(v) {
		return ""
	}
	return v.String()
}

func boolArg(call goja.FunctionCall, i int, def bool) bool {
	v := arg(call, i)
	if isMissing(v) {
		return def
	}
	return v.ToBoolean()
}

// floatArg converts an unrestricted double argument.
func floatArg(call goja.FunctionCall, i int, def float64) float64 {
	v := arg(call, i)
	if isMissing(v) {
		return def
	}
	return v.ToFloat()
}

// toUint32 converts a value to an unsigned long per Web IDL.
func toUint32(v goja.Value) uint32 {
	if isNullish(v) {
		return 0
	}
	num := v.ToFloat()
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(num)) & 0xFFFFFFFF)
}

// offsetArg converts an unsigned long offset argument.
func offsetArg(call goja.FunctionCall, i int) int {
	return int(toUint32(arg(call, i)))
}

func (b *Binder) toValue(v interface{}) goja.Value {
	return b.vm.ToValue(v)
}

// nodeOrNull wraps n, or returns null for nil.
func (b *Binder) nodeOrNull(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	return b.Node(n)
}

func (b *Binder) elementOrNull(e *dom.Element) goja.Value {
	if e == nil {
		return goja.Null()
	}
	return b.Node(e.AsNode())
}

// toNode returns the node behind v, or nil when v is not a Node wrapper.
func (b *Binder) toNode(v goja.Value) *dom.Node {
	n, _ := b.Value(v).(*dom.Node)
	return n
}

// nodeArg converts a Node argument, throwing a TypeError for anything
// else. Null is accepted when nullable is set.
func (b *Binder) nodeArg(call goja.FunctionCall, i int, method, iface string, nullable bool) *dom.Node {
	v := arg(call, i)
	if nullable && isNullish(v) {
		return nil
	}
	if n := b.toNode(v); n != nil {
		return n
	}
	panic(b.vm.NewTypeError("Failed to execute '%s' on '%s': parameter %d is not of type 'Node'.", method, iface, i+1))
}

// nodesOrStrings converts the arguments of append(), before() and friends.
func (b *Binder) nodesOrStrings(call goja.FunctionCall) []interface{} {
	items := make([]interface{}, len(call.Arguments))
	for i, v := range call.Arguments {
		if n := b.toNode(v); n != nil {
			items[i] = n
		} else {
			items[i] = v.String()
		}
	}
	return items
}

func (b *Binder) stringList(items []string) goja.Value {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = s
	}
	return b.vm.NewArray(out...)
}
