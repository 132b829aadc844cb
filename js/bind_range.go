package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

// Range returns the wrapper for r.
func (b *Binder) Range(r *dom.Range) *goja.Object {
	return b.wrap(r, b.protos["Range"])
}

// Selection returns the wrapper for s.
func (b *Binder) Selection(s *dom.Selection) *goja.Object {
	return b.wrap(s, b.protos["Selection"])
}

func (b *Binder) rangeArg(call goja.FunctionCall, i int, method, iface string) *dom.Range {
	if r, ok := b.Value(arg(call, i)).(*dom.Range); ok {
		return r
	}
	panic(b.vm.NewTypeError("Failed to execute '%s' on '%s': parameter %d is not of type 'Range'.", method, iface, i+1))
}

func (b *Binder) setupRanges() {
	vm := b.vm
	rng := b.defineInterface("Range", "", func(call goja.ConstructorCall) *goja.Object {
		return b.Range(b.ownerDocument().CreateRange())
	})
	b.constants("Range", map[string]int{
		"START_TO_START": dom.StartToStart,
		"START_TO_END":   dom.StartToEnd,
		"END_TO_END":     dom.EndToEnd,
		"END_TO_START":   dom.EndToStart,
	})
	thisRange := func(call goja.FunctionCall) *dom.Range {
		if r, ok := b.this(call).(*dom.Range); ok {
			return r
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}

	b.getter(rng, "startContainer", func(call goja.FunctionCall) goja.Value {
		return b.Node(thisRange(call).StartContainer())
	})
	b.getter(rng, "startOffset", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisRange(call).StartOffset())
	})
	b.getter(rng, "endContainer", func(call goja.FunctionCall) goja.Value {
		return b.Node(thisRange(call).EndContainer())
	})
	b.getter(rng, "endOffset", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisRange(call).EndOffset())
	})
	b.getter(rng, "collapsed", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisRange(call).Collapsed())
	})
	b.getter(rng, "commonAncestorContainer", func(call goja.FunctionCall) goja.Value {
		return b.Node(thisRange(call).CommonAncestorContainer())
	})

	for name, set := range map[string]func(*dom.Range, *dom.Node, int) error{
		"setStart": (*dom.Range).SetStart,
		"setEnd":   (*dom.Range).SetEnd,
	} {
		name, set := name, set
		b.method(rng, name, func(call goja.FunctionCall) goja.Value {
			b.requireArgs(call, 2, name, "Range")
			r := thisRange(call)
			b.check(set(r, b.nodeArg(call, 0, name, "Range", false), offsetArg(call, 1)))
			return goja.Undefined()
		})
	}
	for name, set := range map[string]func(*dom.Range, *dom.Node) error{
		"setStartBefore":     (*dom.Range).SetStartBefore,
		"setStartAfter":      (*dom.Range).SetStartAfter,
		"setEndBefore":       (*dom.Range).SetEndBefore,
		"setEndAfter":        (*dom.Range).SetEndAfter,
		"selectNode":         (*dom.Range).SelectNode,
		"selectNodeContents": (*dom.Range).SelectNodeContents,
		"insertNode":         (*dom.Range).InsertNode,
		"surroundContents":   (*dom.Range).SurroundContents,
	} {
		name, set := name, set
		b.method(rng, name, func(call goja.FunctionCall) goja.Value {
			r := thisRange(call)
			b.check(set(r, b.nodeArg(call, 0, name, "Range", false)))
			return goja.Undefined()
		})
	}
	b.method(rng, "collapse", func(call goja.FunctionCall) goja.Value {
		thisRange(call).Collapse(boolArg(call, 0, false))
		return goja.Undefined()
	})
	b.method(rng, "compareBoundaryPoints", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "compareBoundaryPoints", "Range")
		r := thisRange(call)
		how := int(toUint32(call.Arguments[0]) & 0xFFFF)
		res, err := r.CompareBoundaryPoints(how, b.rangeArg(call, 1, "compareBoundaryPoints", "Range"))
		b.check(err)
		return vm.ToValue(res)
	})
	b.method(rng, "comparePoint", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "comparePoint", "Range")
		r := thisRange(call)
		res, err := r.ComparePoint(b.nodeArg(call, 0, "comparePoint", "Range", false), offsetArg(call, 1))
		b.check(err)
		return vm.ToValue(res)
	})
	b.method(rng, "isPointInRange", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "isPointInRange", "Range")
		r := thisRange(call)
		in, err := r.IsPointInRange(b.nodeArg(call, 0, "isPointInRange", "Range", false), offsetArg(call, 1))
		b.check(err)
		return vm.ToValue(in)
	})
	b.method(rng, "intersectsNode", func(call goja.FunctionCall) goja.Value {
		r := thisRange(call)
		return vm.ToValue(r.IntersectsNode(b.nodeArg(call, 0, "intersectsNode", "Range", false)))
	})
	b.method(rng, "cloneRange", func(call goja.FunctionCall) goja.Value {
		return b.Range(thisRange(call).CloneRange())
	})
	b.method(rng, "detach", func(call goja.FunctionCall) goja.Value {
		thisRange(call).Detach()
		return goja.Undefined()
	})
	b.method(rng, "deleteContents", func(call goja.FunctionCall) goja.Value {
		b.check(thisRange(call).DeleteContents())
		return goja.Undefined()
	})
	b.method(rng, "extractContents", func(call goja.FunctionCall) goja.Value {
		frag, err := thisRange(call).ExtractContents()
		b.check(err)
		return b.Node(frag.AsNode())
	})
	b.method(rng, "cloneContents", func(call goja.FunctionCall) goja.Value {
		frag, err := thisRange(call).CloneContents()
		b.check(err)
		return b.Node(frag.AsNode())
	})
	b.method(rng, "createContextualFragment", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "createContextualFragment", "Range")
		frag, err := thisRange(call).CreateContextualFragment(call.Arguments[0].String())
		b.check(err)
		return b.Node(frag.AsNode())
	})
	b.method(rng, "toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisRange(call).String())
	})

	b.setupSelection()
}

func (b *Binder) setupSelection() {
	vm := b.vm
	sel := b.defineInterface("Selection", "", nil)
	thisSelection := func(call goja.FunctionCall) *dom.Selection {
		if s, ok := b.this(call).(*dom.Selection); ok {
			return s
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}

	b.getter(sel, "anchorNode", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(thisSelection(call).AnchorNode())
	})
	b.getter(sel, "anchorOffset", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisSelection(call).AnchorOffset())
	})
	b.getter(sel, "focusNode", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(thisSelection(call).FocusNode())
	})
	b.getter(sel, "focusOffset", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisSelection(call).FocusOffset())
	})
	b.getter(sel, "isCollapsed", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisSelection(call).IsCollapsed())
	})
	b.getter(sel, "rangeCount", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisSelection(call).RangeCount())
	})
	b.getter(sel, "type", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisSelection(call).Type())
	})
	b.getter(sel, "direction", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisSelection(call).Direction())
	})

	b.method(sel, "getRangeAt", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getRangeAt", "Selection")
		r, err := thisSelection(call).GetRangeAt(offsetArg(call, 0))
		b.check(err)
		return b.Range(r)
	})
	b.method(sel, "addRange", func(call goja.FunctionCall) goja.Value {
		s := thisSelection(call)
		s.AddRange(b.rangeArg(call, 0, "addRange", "Selection"))
		return goja.Undefined()
	})
	b.method(sel, "removeRange", func(call goja.FunctionCall) goja.Value {
		s := thisSelection(call)
		b.check(s.RemoveRange(b.rangeArg(call, 0, "removeRange", "Selection")))
		return goja.Undefined()
	})
	b.method(sel, "removeAllRanges", func(call goja.FunctionCall) goja.Value {
		thisSelection(call).RemoveAllRanges()
		return goja.Undefined()
	})
	b.method(sel, "empty", func(call goja.FunctionCall) goja.Value {
		thisSelection(call).Empty()
		return goja.Undefined()
	})
	for name, move := range map[string]func(*dom.Selection, *dom.Node, int) error{
		"collapse":    (*dom.Selection).Collapse,
		"setPosition": (*dom.Selection).SetPosition,
	} {
		name, move := name, move
		b.method(sel, name, func(call goja.FunctionCall) goja.Value {
			b.requireArgs(call, 1, name, "Selection")
			s := thisSelection(call)
			b.check(move(s, b.nodeArg(call, 0, name, "Selection", true), offsetArg(call, 1)))
			return goja.Undefined()
		})
	}
	b.method(sel, "collapseToStart", func(call goja.FunctionCall) goja.Value {
		b.check(thisSelection(call).CollapseToStart())
		return goja.Undefined()
	})
	b.method(sel, "collapseToEnd", func(call goja.FunctionCall) goja.Value {
		b.check(thisSelection(call).CollapseToEnd())
		return goja.Undefined()
	})
	b.method(sel, "extend", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "extend", "Selection")
		s := thisSelection(call)
		b.check(s.Extend(b.nodeArg(call, 0, "extend", "Selection", false), offsetArg(call, 1)))
		return goja.Undefined()
	})
	b.method(sel, "setBaseAndExtent", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 4, "setBaseAndExtent", "Selection")
		s := thisSelection(call)
		anchor := b.nodeArg(call, 0, "setBaseAndExtent", "Selection", false)
		focus := b.nodeArg(call, 2, "setBaseAndExtent", "Selection", false)
		b.check(s.SetBaseAndExtent(anchor, offsetArg(call, 1), focus, offsetArg(call, 3)))
		return goja.Undefined()
	})
	b.method(sel, "selectAllChildren", func(call goja.FunctionCall) goja.Value {
		s := thisSelection(call)
		b.check(s.SelectAllChildren(b.nodeArg(call, 0, "selectAllChildren", "Selection", false)))
		return goja.Undefined()
	})
	b.method(sel, "deleteFromDocument", func(call goja.FunctionCall) goja.Value {
		b.check(thisSelection(call).DeleteFromDocument())
		return goja.Undefined()
	})
	b.method(sel, "containsNode", func(call goja.FunctionCall) goja.Value {
		s := thisSelection(call)
		n := b.nodeArg(call, 0, "containsNode", "Selection", false)
		return vm.ToValue(s.ContainsNode(n, boolArg(call, 1, false)))
	})
	b.method(sel, "toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisSelection(call).String())
	})
}
