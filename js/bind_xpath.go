package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
	"github.com/chrisuehlinger/webconform/xpath"
)

// scriptResolver adapts an XPathNSResolver given as a function or as an
// object with a lookupNamespaceURI method.
type scriptResolver struct {
	b     *Binder
	value goja.Value
}

func (r *scriptResolver) LookupNamespaceURI(prefix string) (uri string, err error) {
	vm := r.b.vm
	defer func() {
		if rec := recover(); rec != nil {
			switch v := rec.(type) {
			case *goja.Exception:
				err = v
			case goja.Value:
				err = &scriptThrow{value: v}
			default:
				panic(rec)
			}
		}
	}()

	fn, ok := goja.AssertFunction(r.value)
	this := goja.Undefined()
	if !ok {
		fn, ok = goja.AssertFunction(r.value.ToObject(vm).Get("lookupNamespaceURI"))
		if !ok {
			panic(vm.NewTypeError("XPathNSResolver.lookupNamespaceURI is not a function"))
		}
		this = r.value
	}
	ret, err := fn(this, vm.ToValue(prefix))
	if err != nil {
		return "", err
	}
	if isNullish(ret) {
		return "", nil
	}
	return ret.String(), nil
}

func (b *Binder) resolverArg(v goja.Value) xpath.NSResolver {
	if isNullish(v) {
		return nil
	}
	if n := b.toNode(v); n != nil {
		return xpath.NewEvaluator().CreateNSResolver(n)
	}
	if _, ok := v.(*goja.Object); !ok {
		panic(b.vm.NewTypeError("The provided value is not of type 'XPathNSResolver'."))
	}
	return &scriptResolver{b: b, value: v}
}

// contextArg converts an XPath context node, which may be an Attr.
func (b *Binder) contextArg(v goja.Value, method, iface string) xpath.Item {
	switch val := b.Value(v).(type) {
	case *dom.Node:
		return xpath.Item{Node: val}
	case *dom.Attr:
		return xpath.Item{Attr: val}
	}
	if isNullish(v) {
		return xpath.Item{}
	}
	panic(b.vm.NewTypeError("Failed to execute '%s' on '%s': parameter 2 is not of type 'Node'.", method, iface))
}

func (b *Binder) itemValue(it xpath.Item) goja.Value {
	if it.Attr != nil {
		return b.Attr(it.Attr)
	}
	return b.nodeOrNull(it.Node)
}

func resultTypeArg(v goja.Value) xpath.ResultType {
	return xpath.ResultType(toUint32(v) & 0xFFFF)
}

func (b *Binder) setupXPath() {
	vm := b.vm
	evaluator := b.defineInterface("XPathEvaluator", "", func(call goja.ConstructorCall) *goja.Object {
		return b.construct(call, xpath.NewEvaluator())
	})
	expression := b.defineInterface("XPathExpression", "", nil)
	result := b.defineInterface("XPathResult", "", nil)
	constants := map[string]int{}
	for _, t := range xpath.ResultTypes() {
		constants[t.String()] = int(t)
	}
	b.constants("XPathResult", constants)

	evaluate := func(call goja.FunctionCall, iface string) goja.Value {
		b.requireArgs(call, 2, "evaluate", iface)
		context := b.contextArg(call.Arguments[1], "evaluate", iface)
		res, err := xpath.NewEvaluator().Evaluate(call.Arguments[0].String(), context,
			b.resolverArg(arg(call, 2)), resultTypeArg(arg(call, 3)))
		b.check(err)
		return b.wrap(res, result)
	}
	createExpression := func(call goja.FunctionCall, iface string) goja.Value {
		b.requireArgs(call, 1, "createExpression", iface)
		expr, err := xpath.NewEvaluator().CreateExpression(call.Arguments[0].String(), b.resolverArg(arg(call, 1)))
		b.check(err)
		return b.wrap(expr, expression)
	}
	createNSResolver := func(call goja.FunctionCall, iface string) goja.Value {
		return b.Node(b.nodeArg(call, 0, "createNSResolver", iface, false))
	}

	for _, target := range []struct {
		proto *goja.Object
		iface string
	}{{evaluator, "XPathEvaluator"}, {b.protos["Document"], "Document"}} {
		iface := target.iface
		b.method(target.proto, "evaluate", func(call goja.FunctionCall) goja.Value {
			b.this(call)
			return evaluate(call, iface)
		})
		b.method(target.proto, "createExpression", func(call goja.FunctionCall) goja.Value {
			b.this(call)
			return createExpression(call, iface)
		})
		b.method(target.proto, "createNSResolver", func(call goja.FunctionCall) goja.Value {
			b.this(call)
			return createNSResolver(call, iface)
		})
	}

	b.method(expression, "evaluate", func(call goja.FunctionCall) goja.Value {
		expr, ok := b.this(call).(*xpath.Expression)
		if !ok {
			panic(vm.NewTypeError("Illegal invocation"))
		}
		b.requireArgs(call, 1, "evaluate", "XPathExpression")
		context := b.contextArg(call.Arguments[0], "evaluate", "XPathExpression")
		res, err := expr.Evaluate(context, resultTypeArg(arg(call, 1)))
		b.check(err)
		return b.wrap(res, result)
	})

	thisResult := func(call goja.FunctionCall) *xpath.Result {
		if r, ok := b.this(call).(*xpath.Result); ok {
			return r
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	b.getter(result, "resultType", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(int(thisResult(call).ResultType()))
	})
	b.getter(result, "numberValue", func(call goja.FunctionCall) goja.Value {
		v, err := thisResult(call).NumberValue()
		b.check(err)
		return vm.ToValue(v)
	})
	b.getter(result, "stringValue", func(call goja.FunctionCall) goja.Value {
		v, err := thisResult(call).StringValue()
		b.check(err)
		return vm.ToValue(v)
	})
	b.getter(result, "booleanValue", func(call goja.FunctionCall) goja.Value {
		v, err := thisResult(call).BooleanValue()
		b.check(err)
		return vm.ToValue(v)
	})
	b.getter(result, "singleNodeValue", func(call goja.FunctionCall) goja.Value {
		it, err := thisResult(call).SingleNodeValue()
		b.check(err)
		return b.itemValue(it)
	})
	b.getter(result, "invalidIteratorState", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisResult(call).InvalidIteratorState())
	})
	b.getter(result, "snapshotLength", func(call goja.FunctionCall) goja.Value {
		n, err := thisResult(call).SnapshotLength()
		b.check(err)
		return vm.ToValue(n)
	})
	b.method(result, "iterateNext", func(call goja.FunctionCall) goja.Value {
		it, err := thisResult(call).IterateNext()
		b.check(err)
		return b.itemValue(it)
	})
	b.method(result, "snapshotItem", func(call goja.FunctionCall) goja.Value {
		r := thisResult(call)
		it, err := r.SnapshotItem(int(toUint32(arg(call, 0))))
		b.check(err)
		return b.itemValue(it)
	})
}
