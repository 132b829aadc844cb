package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

// setupExceptions installs DOMException. Its prototype chains to
// Error.prototype so that `e instanceof Error` holds and Error's toString
// renders "name: message".
func (b *Binder) setupExceptions() {
	vm := b.vm
	proto := b.defineInterface("DOMException", "", func(call goja.ConstructorCall) *goja.Object {
		ex := dom.NewDOMException(stringArgC(call, 1, "Error"), stringArgC(call, 0, ""))
		b.values[call.This] = ex
		return call.This
	})
	errorProto := vm.Get("Error").ToObject(vm).Get("prototype").ToObject(vm)
	proto.SetPrototype(errorProto)

	codes := make(map[string]int, len(dom.ExceptionCodeNames))
	for _, e := range dom.ExceptionCodeNames {
		codes[e.Constant] = e.Code
	}
	b.constants("DOMException", codes)

	exception := func(call goja.FunctionCall) *dom.DOMException {
		if ex, ok := b.this(call).(*dom.DOMException); ok {
			return ex
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	b.getter(proto, "name", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(exception(call).Name)
	})
	b.getter(proto, "message", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(exception(call).Message)
	})
	b.getter(proto, "code", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(exception(call).Code())
	})
}

// newDOMException creates a DOMException object for ex.
func (b *Binder) newDOMException(ex *dom.DOMException) *goja.Object {
	return b.fresh(ex, b.protos["DOMException"])
}

func stringArgC(call goja.ConstructorCall, i int, def string) string {
	if i < len(call.Arguments) && !goja.IsUndefined(call.Arguments[i]) {
		return call.Arguments[i].String()
	}
	return def
}
