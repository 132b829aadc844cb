package js

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

func (b *Binder) thisElement(call goja.FunctionCall) *dom.Element {
	if el := b.thisNode(call).AsElement(); el != nil {
		return el
	}
	panic(b.vm.NewTypeError("Illegal invocation"))
}

func (b *Binder) setupElements() {
	vm := b.vm
	element := b.defineInterface("Element", "Node", nil)

	nullable := func(s string) goja.Value {
		if s == "" {
			return goja.Null()
		}
		return vm.ToValue(s)
	}
	optionalAttr := func(v string, ok bool) goja.Value {
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(v)
	}

	b.getter(element, "namespaceURI", func(call goja.FunctionCall) goja.Value {
		return nullable(b.thisElement(call).NamespaceURI())
	})
	b.getter(element, "prefix", func(call goja.FunctionCall) goja.Value {
		return nullable(b.thisElement(call).Prefix())
	})
	b.getter(element, "localName", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisElement(call).LocalName())
	})
	b.getter(element, "tagName", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisElement(call).TagName())
	})
	b.getter(element, "attributes", func(call goja.FunctionCall) goja.Value {
		return b.namedNodeMap(b.thisElement(call))
	})
	b.accessor(element, "classList", func(call goja.FunctionCall) goja.Value {
		return b.tokenList(b.thisElement(call))
	}, func(call goja.FunctionCall) goja.Value {
		b.thisElement(call).SetClassName(arg(call, 0).String())
		return goja.Undefined()
	})
	b.accessor(element, "id", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisElement(call).Id())
	}, func(call goja.FunctionCall) goja.Value {
		b.thisElement(call).SetId(arg(call, 0).String())
		return goja.Undefined()
	})
	b.accessor(element, "className", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisElement(call).ClassName())
	}, func(call goja.FunctionCall) goja.Value {
		b.thisElement(call).SetClassName(arg(call, 0).String())
		return goja.Undefined()
	})
	b.accessor(element, "innerHTML", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).InnerHTML())
	}, func(call goja.FunctionCall) goja.Value {
		b.check(b.thisElement(call).SetInnerHTML(nullableString(arg(call, 0))))
		return goja.Undefined()
	})
	b.accessor(element, "outerHTML", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisElement(call).OuterHTML())
	}, func(call goja.FunctionCall) goja.Value {
		b.check(b.thisElement(call).SetOuterHTML(nullableString(arg(call, 0))))
		return goja.Undefined()
	})

	b.method(element, "hasAttributes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisElement(call).HasAttributes())
	})
	b.method(element, "getAttributeNames", func(call goja.FunctionCall) goja.Value {
		return b.stringList(b.thisElement(call).GetAttributeNames())
	})
	b.method(element, "getAttribute", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getAttribute", "Element")
		return optionalAttr(b.thisElement(call).GetAttribute(call.Arguments[0].String()))
	})
	b.method(element, "getAttributeNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "getAttributeNS", "Element")
		return optionalAttr(b.thisElement(call).GetAttributeNS(nullableString(call.Arguments[0]), call.Arguments[1].String()))
	})
	b.method(element, "setAttribute", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "setAttribute", "Element")
		b.check(b.thisElement(call).SetAttribute(call.Arguments[0].String(), call.Arguments[1].String()))
		return goja.Undefined()
	})
	b.method(element, "setAttributeNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 3, "setAttributeNS", "Element")
		el := b.thisElement(call)
		b.check(el.SetAttributeNS(nullableString(call.Arguments[0]), call.Arguments[1].String(), call.Arguments[2].String()))
		return goja.Undefined()
	})
	b.method(element, "removeAttribute", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "removeAttribute", "Element")
		b.thisElement(call).RemoveAttribute(call.Arguments[0].String())
		return goja.Undefined()
	})
	b.method(element, "removeAttributeNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "removeAttributeNS", "Element")
		b.thisElement(call).RemoveAttributeNS(nullableString(call.Arguments[0]), call.Arguments[1].String())
		return goja.Undefined()
	})
	b.method(element, "hasAttribute", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "hasAttribute", "Element")
		return vm.ToValue(b.thisElement(call).HasAttribute(call.Arguments[0].String()))
	})
	b.method(element, "hasAttributeNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "hasAttributeNS", "Element")
		return vm.ToValue(b.thisElement(call).HasAttributeNS(nullableString(call.Arguments[0]), call.Arguments[1].String()))
	})
	b.method(element, "toggleAttribute", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "toggleAttribute", "Element")
		var force *bool
		if v := arg(call, 1); !isMissing(v) {
			f := v.ToBoolean()
			force = &f
		}
		on, err := b.thisElement(call).ToggleAttribute(call.Arguments[0].String(), force)
		b.check(err)
		return vm.ToValue(on)
	})
	b.method(element, "getAttributeNode", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getAttributeNode", "Element")
		return b.Attr(b.thisElement(call).GetAttributeNode(call.Arguments[0].String()))
	})
	b.method(element, "getAttributeNodeNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "getAttributeNodeNS", "Element")
		return b.Attr(b.thisElement(call).GetAttributeNodeNS(nullableString(call.Arguments[0]), call.Arguments[1].String()))
	})
	setAttributeNode := func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		old, err := el.SetAttributeNode(b.attrArg(call, 0, "setAttributeNode"))
		b.check(err)
		return b.Attr(old)
	}
	b.method(element, "setAttributeNode", setAttributeNode)
	b.method(element, "setAttributeNodeNS", setAttributeNode)
	b.method(element, "removeAttributeNode", func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		old, err := el.RemoveAttributeNode(b.attrArg(call, 0, "removeAttributeNode"))
		b.check(err)
		return b.Attr(old)
	})

	matches := func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "matches", "Element")
		ok, err := b.thisElement(call).Matches(call.Arguments[0].String())
		b.check(err)
		return vm.ToValue(ok)
	}
	b.method(element, "matches", matches)
	b.method(element, "webkitMatchesSelector", matches)
	b.method(element, "closest", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "closest", "Element")
		el, err := b.thisElement(call).Closest(call.Arguments[0].String())
		b.check(err)
		return b.elementOrNull(el)
	})
	b.method(element, "insertAdjacentHTML", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "insertAdjacentHTML", "Element")
		b.check(b.thisElement(call).InsertAdjacentHTML(call.Arguments[0].String(), call.Arguments[1].String()))
		return goja.Undefined()
	})
	b.method(element, "insertAdjacentElement", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "insertAdjacentElement", "Element")
		el := b.thisElement(call)
		other := b.nodeArg(call, 1, "insertAdjacentElement", "Element", false)
		if other.AsElement() == nil {
			panic(vm.NewTypeError("Failed to execute 'insertAdjacentElement' on 'Element': parameter 2 is not of type 'Element'."))
		}
		if !b.insertAdjacent(el, call.Arguments[0].String(), other) {
			return goja.Null()
		}
		return b.Node(other)
	})
	b.method(element, "insertAdjacentText", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "insertAdjacentText", "Element")
		el := b.thisElement(call)
		text := el.AsNode().OwnerDocument().CreateTextNode(call.Arguments[1].String())
		b.insertAdjacent(el, call.Arguments[0].String(), text)
		return goja.Undefined()
	})

	b.parentNodeMixin(element)
	b.childNodeMixin(element)
	b.elementSiblingMixin(element)

	html := b.defineInterface("HTMLElement", "Element", nil)
	b.getter(html, "dataset", func(call goja.FunctionCall) goja.Value {
		return b.dataset(b.thisElement(call))
	})
	for _, name := range []string{"title", "lang", "dir", "accessKey"} {
		attrName := strings.ToLower(name)
		b.accessor(html, name, func(call goja.FunctionCall) goja.Value {
			v, _ := b.thisElement(call).GetAttribute(attrName)
			return vm.ToValue(v)
		}, func(call goja.FunctionCall) goja.Value {
			b.check(b.thisElement(call).SetAttribute(attrName, arg(call, 0).String()))
			return goja.Undefined()
		})
	}
	b.accessor(html, "hidden", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisElement(call).HasAttribute("hidden"))
	}, func(call goja.FunctionCall) goja.Value {
		on := arg(call, 0).ToBoolean()
		_, err := b.thisElement(call).ToggleAttribute("hidden", &on)
		b.check(err)
		return goja.Undefined()
	})
	b.method(html, "click", func(call goja.FunctionCall) goja.Value {
		b.thisElement(call)
		ev := NewEvent("click", true, true)
		ev.TimeStamp = b.runtime.Now()
		b.Dispatch(call.This.(*goja.Object), ev)
		return goja.Undefined()
	})
}

// insertAdjacent inserts node relative to el. It reports false when
// position needs a parent el does not have.
func (b *Binder) insertAdjacent(el *dom.Element, position string, node *dom.Node) bool {
	n := el.AsNode()
	var err error
	switch strings.ToLower(position) {
	case "beforebegin":
		parent := n.ParentNode()
		if parent == nil {
			return false
		}
		_, err = parent.InsertBefore(node, n)
	case "afterbegin":
		_, err = n.InsertBefore(node, n.FirstChild())
	case "beforeend":
		_, err = n.AppendChild(node)
	case "afterend":
		parent := n.ParentNode()
		if parent == nil {
			return false
		}
		_, err = parent.InsertBefore(node, n.NextSibling())
	default:
		err = dom.ErrSyntax("The value provided ('" + position + "') is not one of 'beforeBegin', 'afterBegin', 'beforeEnd', or 'afterEnd'.")
	}
	b.check(err)
	return true
}
