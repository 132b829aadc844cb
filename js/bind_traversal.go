package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

// scriptFilter adapts a script NodeFilter, either a function or an object
// with an acceptNode method, to dom.NodeFilter.
type scriptFilter struct {
	b     *Binder
	value goja.Value
}

func (f *scriptFilter) AcceptNode(node *dom.Node) (result dom.FilterResult, err error) {
	vm := f.b.vm
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *goja.Exception:
				err = v
			case goja.Value:
				err = &scriptThrow{value: v}
			default:
				panic(r)
			}
		}
	}()

	var fn goja.Callable
	this := f.value
	if callable, ok := goja.AssertFunction(f.value); ok {
		fn = callable
		this = goja.Undefined()
	} else {
		method := f.value.ToObject(vm).Get("acceptNode")
		callable, ok := goja.AssertFunction(method)
		if !ok {
			panic(vm.NewTypeError("NodeFilter.acceptNode is not a function"))
		}
		fn = callable
	}
	ret, err := fn(this, f.b.Node(node))
	if err != nil {
		return 0, err
	}
	return dom.FilterResult(uint16(ret.ToInteger())), nil
}

// scriptThrow carries a value thrown by a Go callback back through the
// dom package.
type scriptThrow struct {
	value goja.Value
}

func (e *scriptThrow) Error() string {
	return e.value.String()
}

// filterArg converts an optional NodeFilter argument.
func (b *Binder) filterArg(v goja.Value) dom.NodeFilter {
	if isNullish(v) {
		return nil
	}
	if _, ok := v.(*goja.Object); !ok {
		panic(b.vm.NewTypeError("parameter 3 is not of type 'NodeFilter'."))
	}
	return &scriptFilter{b: b, value: v}
}

func (b *Binder) filterValue(f dom.NodeFilter) goja.Value {
	if sf, ok := f.(*scriptFilter); ok {
		return sf.value
	}
	return goja.Null()
}

func (b *Binder) setupTraversal() {
	vm := b.vm

	nodeFilter := vm.NewObject()
	for name, v := range map[string]uint32{
		"FILTER_ACCEPT":               uint32(dom.FilterAccept),
		"FILTER_REJECT":               uint32(dom.FilterReject),
		"FILTER_SKIP":                 uint32(dom.FilterSkip),
		"SHOW_ALL":                    dom.ShowAll,
		"SHOW_ELEMENT":                dom.ShowElement,
		"SHOW_ATTRIBUTE":              dom.ShowAttribute,
		"SHOW_TEXT":                   dom.ShowText,
		"SHOW_CDATA_SECTION":          dom.ShowCDATASection,
		"SHOW_ENTITY_REFERENCE":       dom.ShowEntityReference,
		"SHOW_ENTITY":                 dom.ShowEntity,
		"SHOW_PROCESSING_INSTRUCTION": dom.ShowProcessingInstruction,
		"SHOW_COMMENT":                dom.ShowComment,
		"SHOW_DOCUMENT":               dom.ShowDocument,
		"SHOW_DOCUMENT_TYPE":          dom.ShowDocumentType,
		"SHOW_DOCUMENT_FRAGMENT":      dom.ShowDocumentFragment,
		"SHOW_NOTATION":               dom.ShowNotation,
	} {
		nodeFilter.DefineDataProperty(name, vm.ToValue(v), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	vm.Set("NodeFilter", nodeFilter)

	document := b.protos["Document"]
	create := func(call goja.FunctionCall, method string) (*dom.Document, *dom.Node, uint32, dom.NodeFilter) {
		doc := b.thisDocument(call)
		root := b.nodeArg(call, 0, method, "Document", false)
		show := dom.ShowAll
		if v := arg(call, 1); !isMissing(v) {
			show = toUint32(v)
		}
		return doc, root, show, b.filterArg(arg(call, 2))
	}
	b.method(document, "createTreeWalker", func(call goja.FunctionCall) goja.Value {
		doc, root, show, filter := create(call, "createTreeWalker")
		tw, err := doc.CreateTreeWalker(root, show, filter)
		b.check(err)
		return b.wrap(tw, b.protos["TreeWalker"])
	})
	b.method(document, "createNodeIterator", func(call goja.FunctionCall) goja.Value {
		doc, root, show, filter := create(call, "createNodeIterator")
		it, err := doc.CreateNodeIterator(root, show, filter)
		b.check(err)
		return b.wrap(it, b.protos["NodeIterator"])
	})

	walker := b.defineInterface("TreeWalker", "", nil)
	thisWalker := func(call goja.FunctionCall) *dom.TreeWalker {
		if tw, ok := b.this(call).(*dom.TreeWalker); ok {
			return tw
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	b.getter(walker, "root", func(call goja.FunctionCall) goja.Value {
		return b.Node(thisWalker(call).Root())
	})
	b.getter(walker, "whatToShow", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisWalker(call).WhatToShow())
	})
	b.getter(walker, "filter", func(call goja.FunctionCall) goja.Value {
		return b.filterValue(thisWalker(call).Filter())
	})
	b.accessor(walker, "currentNode", func(call goja.FunctionCall) goja.Value {
		return b.Node(thisWalker(call).CurrentNode())
	}, func(call goja.FunctionCall) goja.Value {
		tw := thisWalker(call)
		b.check(tw.SetCurrentNode(b.nodeArg(call, 0, "currentNode", "TreeWalker", false)))
		return goja.Undefined()
	})
	for name, step := range map[string]func(*dom.TreeWalker) (*dom.Node, error){
		"parentNode":      (*dom.TreeWalker).ParentNode,
		"firstChild":      (*dom.TreeWalker).FirstChild,
		"lastChild":       (*dom.TreeWalker).LastChild,
		"previousSibling": (*dom.TreeWalker).PreviousSibling,
		"nextSibling":     (*dom.TreeWalker).NextSibling,
		"previousNode":    (*dom.TreeWalker).PreviousNode,
		"nextNode":        (*dom.TreeWalker).NextNode,
	} {
		step := step
		b.method(walker, name, func(call goja.FunctionCall) goja.Value {
			n, err := step(thisWalker(call))
			b.check(err)
			return b.nodeOrNull(n)
		})
	}

	iterator := b.defineInterface("NodeIterator", "", nil)
	thisIterator := func(call goja.FunctionCall) *dom.NodeIterator {
		if it, ok := b.this(call).(*dom.NodeIterator); ok {
			return it
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	b.getter(iterator, "root", func(call goja.FunctionCall) goja.Value {
		return b.Node(thisIterator(call).Root())
	})
	b.getter(iterator, "whatToShow", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisIterator(call).WhatToShow())
	})
	b.getter(iterator, "filter", func(call goja.FunctionCall) goja.Value {
		return b.filterValue(thisIterator(call).Filter())
	})
	b.getter(iterator, "referenceNode", func(call goja.FunctionCall) goja.Value {
		return b.Node(thisIterator(call).ReferenceNode())
	})
	b.getter(iterator, "pointerBeforeReferenceNode", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisIterator(call).PointerBeforeReferenceNode())
	})
	b.method(iterator, "nextNode", func(call goja.FunctionCall) goja.Value {
		n, err := thisIterator(call).NextNode()
		b.check(err)
		return b.nodeOrNull(n)
	})
	b.method(iterator, "previousNode", func(call goja.FunctionCall) goja.Value {
		n, err := thisIterator(call).PreviousNode()
		b.check(err)
		return b.nodeOrNull(n)
	})
	b.method(iterator, "detach", func(call goja.FunctionCall) goja.Value {
		thisIterator(call).Detach()
		return goja.Undefined()
	})
}
