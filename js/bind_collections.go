package js

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

// arrayIndex parses a canonical array index property name.
func arrayIndex(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	i, err := strconv.ParseUint(key, 10, 32)
	if err != nil || i == 1<<32-1 {
		return 0, false
	}
	return int(i), true
}

// builtinNames are never shadowed by named properties.
var builtinNames = map[string]bool{
	"length": true, "item": true, "namedItem": true, "constructor": true,
	"toString": true, "valueOf": true, "hasOwnProperty": true, "__proto__": true,
	"getNamedItem": true, "getNamedItemNS": true, "setNamedItem": true,
	"setNamedItemNS": true, "removeNamedItem": true, "removeNamedItemNS": true,
	"forEach": true, "entries": true, "keys": true, "values": true,
}

// listObject implements indexed and named properties for the collection
// interfaces. Other properties are ordinary expandos.
type listObject struct {
	length  func() int
	item    func(i int) goja.Value
	named   func(name string) goja.Value
	names   func() []string
	expando map[string]goja.Value
}

func (l *listObject) Get(key string) goja.Value {
	if i, ok := arrayIndex(key); ok {
		if i < l.length() {
			return l.item(i)
		}
		return nil
	}
	if v, ok := l.expando[key]; ok {
		return v
	}
	if l.named != nil && !builtinNames[key] {
		return l.named(key)
	}
	return nil
}

func (l *listObject) Set(key string, val goja.Value) bool {
	if _, ok := arrayIndex(key); ok {
		return false
	}
	if l.expando == nil {
		l.expando = make(map[string]goja.Value)
	}
	l.expando[key] = val
	return true
}

func (l *listObject) Has(key string) bool {
	return l.Get(key) != nil
}

func (l *listObject) Delete(key string) bool {
	if i, ok := arrayIndex(key); ok {
		return i >= l.length()
	}
	delete(l.expando, key)
	return true
}

func (l *listObject) Keys() []string {
	n := l.length()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, strconv.Itoa(i))
	}
	if l.names != nil {
		keys = append(keys, l.names()...)
	}
	for k := range l.expando {
		keys = append(keys, k)
	}
	return keys
}

// datasetObject maps camel-cased property names onto data-* attributes.
type datasetObject struct {
	b *Binder
	m *dom.DOMStringMap
}

func (d *datasetObject) Get(key string) goja.Value {
	if v, ok := d.m.Get(key); ok {
		return d.b.vm.ToValue(v)
	}
	return nil
}

func (d *datasetObject) Set(key string, val goja.Value) bool {
	d.b.check(d.m.Set(key, val.String()))
	return true
}

func (d *datasetObject) Has(key string) bool {
	return d.m.Has(key)
}

func (d *datasetObject) Delete(key string) bool {
	d.m.Delete(key)
	return true
}

func (d *datasetObject) Keys() []string {
	return d.m.Names()
}

// NodeList returns the wrapper for a node list.
func (b *Binder) NodeList(list *dom.NodeList) *goja.Object {
	return b.wrapDynamic(list, list, b.protos["NodeList"], &listObject{
		length: list.Length,
		item:   func(i int) goja.Value { return b.Node(list.Item(i)) },
	})
}

// HTMLCollection returns the wrapper for an element collection.
func (b *Binder) HTMLCollection(hc *dom.HTMLCollection) *goja.Object {
	return b.wrapDynamic(hc, hc, b.protos["HTMLCollection"], &listObject{
		length: hc.Length,
		item:   func(i int) goja.Value { return b.Node(hc.Item(i).AsNode()) },
		named: func(name string) goja.Value {
			if el := hc.NamedItem(name); el != nil {
				return b.Node(el.AsNode())
			}
			return nil
		},
	})
}

func (b *Binder) namedNodeMap(el *dom.Element) *goja.Object {
	m := el.Attributes()
	return b.wrapDynamic(m, m, b.protos["NamedNodeMap"], &listObject{
		length: m.Length,
		item:   func(i int) goja.Value { return b.Attr(m.Item(i)) },
		named: func(name string) goja.Value {
			if a := m.GetNamedItem(name); a != nil {
				return b.Attr(a)
			}
			return nil
		},
	})
}

func (b *Binder) tokenList(el *dom.Element) *goja.Object {
	tl := el.ClassTokens()
	return b.wrapDynamic(sameObject{"classList", el.AsNode()}, tl, b.protos["DOMTokenList"], &listObject{
		length: tl.Length,
		item: func(i int) goja.Value {
			s, _ := tl.Item(i)
			return b.vm.ToValue(s)
		},
	})
}

func (b *Binder) dataset(el *dom.Element) *goja.Object {
	m := el.Dataset()
	return b.wrapDynamic(m, m, b.protos["DOMStringMap"], &datasetObject{b: b, m: m})
}

func (b *Binder) setupCollections() {
	vm := b.vm

	nodeList := b.defineInterface("NodeList", "", nil)
	thisNodeList := func(call goja.FunctionCall) *dom.NodeList {
		if l, ok := b.this(call).(*dom.NodeList); ok {
			return l
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	b.getter(nodeList, "length", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisNodeList(call).Length())
	})
	b.method(nodeList, "item", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "item", "NodeList")
		return b.nodeOrNull(thisNodeList(call).Item(int(toUint32(call.Arguments[0]))))
	})

	collection := b.defineInterface("HTMLCollection", "", nil)
	thisCollection := func(call goja.FunctionCall) *dom.HTMLCollection {
		if hc, ok := b.this(call).(*dom.HTMLCollection); ok {
			return hc
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	b.getter(collection, "length", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisCollection(call).Length())
	})
	b.method(collection, "item", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "item", "HTMLCollection")
		return b.elementOrNull(thisCollection(call).Item(int(toUint32(call.Arguments[0]))))
	})
	b.method(collection, "namedItem", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "namedItem", "HTMLCollection")
		return b.elementOrNull(thisCollection(call).NamedItem(call.Arguments[0].String()))
	})

	attrs := b.defineInterface("NamedNodeMap", "", nil)
	thisMap := func(call goja.FunctionCall) *dom.NamedNodeMap {
		if m, ok := b.this(call).(*dom.NamedNodeMap); ok {
			return m
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	b.getter(attrs, "length", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisMap(call).Length())
	})
	b.method(attrs, "item", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "item", "NamedNodeMap")
		return b.Attr(thisMap(call).Item(int(toUint32(call.Arguments[0]))))
	})
	b.method(attrs, "getNamedItem", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getNamedItem", "NamedNodeMap")
		return b.Attr(thisMap(call).GetNamedItem(call.Arguments[0].String()))
	})
	b.method(attrs, "getNamedItemNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "getNamedItemNS", "NamedNodeMap")
		return b.Attr(thisMap(call).GetNamedItemNS(nullableString(call.Arguments[0]), call.Arguments[1].String()))
	})
	setNamedItem := func(call goja.FunctionCall) goja.Value {
		m := thisMap(call)
		old, err := m.SetNamedItem(b.attrArg(call, 0, "setNamedItem"))
		b.check(err)
		return b.Attr(old)
	}
	b.method(attrs, "setNamedItem", setNamedItem)
	b.method(attrs, "setNamedItemNS", setNamedItem)
	b.method(attrs, "removeNamedItem", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "removeNamedItem", "NamedNodeMap")
		old, err := thisMap(call).RemoveNamedItem(call.Arguments[0].String())
		b.check(err)
		return b.Attr(old)
	})
	b.method(attrs, "removeNamedItemNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "removeNamedItemNS", "NamedNodeMap")
		old, err := thisMap(call).RemoveNamedItemNS(nullableString(call.Arguments[0]), call.Arguments[1].String())
		b.check(err)
		return b.Attr(old)
	})

	tokens := b.defineInterface("DOMTokenList", "", nil)
	thisTokens := func(call goja.FunctionCall) *dom.DOMTokenList {
		if tl, ok := b.this(call).(*dom.DOMTokenList); ok {
			return tl
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	stringArgs := func(call goja.FunctionCall) []string {
		out := make([]string, len(call.Arguments))
		for i, v := range call.Arguments {
			out[i] = v.String()
		}
		return out
	}
	b.getter(tokens, "length", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisTokens(call).Length())
	})
	b.accessor(tokens, "value", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisTokens(call).Value())
	}, func(call goja.FunctionCall) goja.Value {
		thisTokens(call).SetValue(arg(call, 0).String())
		return goja.Undefined()
	})
	b.method(tokens, "toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisTokens(call).Value())
	})
	b.method(tokens, "item", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "item", "DOMTokenList")
		if s, ok := thisTokens(call).Item(int(toUint32(call.Arguments[0]))); ok {
			return vm.ToValue(s)
		}
		return goja.Null()
	})
	b.method(tokens, "contains", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "contains", "DOMTokenList")
		return vm.ToValue(thisTokens(call).Contains(call.Arguments[0].String()))
	})
	b.method(tokens, "add", func(call goja.FunctionCall) goja.Value {
		b.check(thisTokens(call).Add(stringArgs(call)...))
		return goja.Undefined()
	})
	b.method(tokens, "remove", func(call goja.FunctionCall) goja.Value {
		b.check(thisTokens(call).Remove(stringArgs(call)...))
		return goja.Undefined()
	})
	b.method(tokens, "toggle", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "toggle", "DOMTokenList")
		var force *bool
		if v := arg(call, 1); !isMissing(v) {
			f := v.ToBoolean()
			force = &f
		}
		on, err := thisTokens(call).Toggle(call.Arguments[0].String(), force)
		b.check(err)
		return vm.ToValue(on)
	})
	b.method(tokens, "replace", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "replace", "DOMTokenList")
		ok, err := thisTokens(call).Replace(call.Arguments[0].String(), call.Arguments[1].String())
		b.check(err)
		return vm.ToValue(ok)
	})
	b.method(tokens, "supports", func(goja.FunctionCall) goja.Value {
		panic(vm.NewTypeError("DOMTokenList has no supported tokens."))
	})

	b.defineInterface("DOMStringMap", "", nil)

	// Array iteration for the list interfaces.
	_, err := vm.RunString(`(function () {
		var ap = Array.prototype;
		[NodeList, HTMLCollection, NamedNodeMap, DOMTokenList].forEach(function (c) {
			Object.defineProperty(c.prototype, Symbol.iterator, {value: ap[Symbol.iterator], writable: true, configurable: true});
		});
		[NodeList, DOMTokenList].forEach(function (c) {
			["forEach", "entries", "keys", "values"].forEach(function (m) {
				Object.defineProperty(c.prototype, m, {value: ap[m], writable: true, configurable: true});
			});
		});
	})()`)
	if err != nil {
		b.runtime.logger.WithError(err).Error("installing collection iterators")
	}
}
