package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

// Node returns the wrapper for n, creating it on first use.
func (b *Binder) Node(n *dom.Node) *goja.Object {
	if obj, ok := b.wrappers[n]; ok {
		return obj
	}
	return b.wrap(n, b.protoFor(n))
}

func (b *Binder) protoFor(n *dom.Node) *goja.Object {
	name := "Node"
	switch n.NodeType() {
	case dom.ElementNode:
		name = "Element"
		if n.AsElement().NamespaceURI() == dom.HTMLNamespace {
			name = "HTMLElement"
		}
	case dom.TextNode:
		name = "Text"
	case dom.CDATASectionNode:
		name = "CDATASection"
	case dom.CommentNode:
		name = "Comment"
	case dom.ProcessingInstructionNode:
		name = "ProcessingInstruction"
	case dom.DocumentNode:
		name = "XMLDocument"
		if n.AsDocument().IsHTML() {
			name = "HTMLDocument"
		}
	case dom.DocumentTypeNode:
		name = "DocumentType"
	case dom.DocumentFragmentNode:
		name = "DocumentFragment"
	}
	return b.protos[name]
}

// thisNode returns the node behind call.This.
func (b *Binder) thisNode(call goja.FunctionCall) *dom.Node {
	if n, ok := b.this(call).(*dom.Node); ok {
		return n
	}
	panic(b.vm.NewTypeError("Illegal invocation"))
}

func (b *Binder) thisCharacterData(call goja.FunctionCall) *dom.CharacterData {
	if cd := b.thisNode(call).AsCharacterData(); cd != nil {
		return cd
	}
	panic(b.vm.NewTypeError("Illegal invocation"))
}

// ownerDocument returns the document new nodes created by constructors
// belong to.
func (b *Binder) ownerDocument() *dom.Document {
	if b.document == nil {
		b.document = dom.NewDocument()
	}
	return b.document
}

func (b *Binder) setupNodes() {
	vm := b.vm
	node := b.defineInterface("Node", "EventTarget", nil)

	nodeConstants := map[string]int{}
	for _, t := range dom.NodeTypeConstants() {
		nodeConstants[t.String()] = int(t)
	}
	nodeConstants["DOCUMENT_POSITION_DISCONNECTED"] = int(dom.DocumentPositionDisconnected)
	nodeConstants["DOCUMENT_POSITION_PRECEDING"] = int(dom.DocumentPositionPreceding)
	nodeConstants["DOCUMENT_POSITION_FOLLOWING"] = int(dom.DocumentPositionFollowing)
	nodeConstants["DOCUMENT_POSITION_CONTAINS"] = int(dom.DocumentPositionContains)
	nodeConstants["DOCUMENT_POSITION_CONTAINED_BY"] = int(dom.DocumentPositionContainedBy)
	nodeConstants["DOCUMENT_POSITION_IMPLEMENTATION_SPECIFIC"] = int(dom.DocumentPositionImplementationSpecific)
	b.constants("Node", nodeConstants)

	b.getter(node, "nodeType", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(int(b.thisNode(call).NodeType()))
	})
	b.getter(node, "nodeName", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).NodeName())
	})
	b.getter(node, "baseURI", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		doc := n.AsDocument()
		if doc == nil {
			doc = n.OwnerDocument()
		}
		return vm.ToValue(doc.URL())
	})
	b.getter(node, "isConnected", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).IsConnected())
	})
	b.getter(node, "ownerDocument", func(call goja.FunctionCall) goja.Value {
		doc := b.thisNode(call).OwnerDocument()
		if doc == nil {
			return goja.Null()
		}
		return b.Node(doc.AsNode())
	})
	b.getter(node, "parentNode", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.thisNode(call).ParentNode())
	})
	b.getter(node, "parentElement", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisNode(call).ParentElement())
	})
	b.getter(node, "childNodes", func(call goja.FunctionCall) goja.Value {
		return b.NodeList(b.thisNode(call).ChildNodes())
	})
	b.getter(node, "firstChild", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.thisNode(call).FirstChild())
	})
	b.getter(node, "lastChild", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.thisNode(call).LastChild())
	})
	b.getter(node, "previousSibling", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.thisNode(call).PreviousSibling())
	})
	b.getter(node, "nextSibling", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.thisNode(call).NextSibling())
	})
	b.accessor(node, "nodeValue", func(call goja.FunctionCall) goja.Value {
		if v, ok := b.thisNode(call).NodeValue(); ok {
			return vm.ToValue(v)
		}
		return goja.Null()
	}, func(call goja.FunctionCall) goja.Value {
		b.thisNode(call).SetNodeValue(nullableString(arg(call, 0)))
		return goja.Undefined()
	})
	b.accessor(node, "textContent", func(call goja.FunctionCall) goja.Value {
		if v, ok := b.thisNode(call).TextContent(); ok {
			return vm.ToValue(v)
		}
		return goja.Null()
	}, func(call goja.FunctionCall) goja.Value {
		b.thisNode(call).SetTextContent(nullableString(arg(call, 0)))
		return goja.Undefined()
	})

	b.method(node, "getRootNode", func(call goja.FunctionCall) goja.Value {
		return b.Node(b.thisNode(call).GetRootNode())
	})
	b.method(node, "hasChildNodes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).HasChildNodes())
	})
	b.method(node, "normalize", func(call goja.FunctionCall) goja.Value {
		b.thisNode(call).Normalize()
		return goja.Undefined()
	})
	b.method(node, "cloneNode", func(call goja.FunctionCall) goja.Value {
		return b.Node(b.thisNode(call).CloneNode(boolArg(call, 0, false)))
	})
	b.method(node, "isEqualNode", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		other := b.nodeArg(call, 0, "isEqualNode", "Node", true)
		return vm.ToValue(other != nil && n.IsEqualNode(other))
	})
	b.method(node, "isSameNode", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		other := b.nodeArg(call, 0, "isSameNode", "Node", true)
		return vm.ToValue(n.IsSameNode(other))
	})
	b.method(node, "compareDocumentPosition", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		other := b.nodeArg(call, 0, "compareDocumentPosition", "Node", false)
		return vm.ToValue(int(n.CompareDocumentPosition(other)))
	})
	b.method(node, "contains", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		other := b.nodeArg(call, 0, "contains", "Node", true)
		return vm.ToValue(other != nil && n.Contains(other))
	})
	b.method(node, "lookupPrefix", func(call goja.FunctionCall) goja.Value {
		prefix := b.thisNode(call).LookupPrefix(nullableString(arg(call, 0)))
		if prefix == "" {
			return goja.Null()
		}
		return vm.ToValue(prefix)
	})
	b.method(node, "lookupNamespaceURI", func(call goja.FunctionCall) goja.Value {
		uri := b.thisNode(call).LookupNamespaceURI(nullableString(arg(call, 0)))
		if uri == "" {
			return goja.Null()
		}
		return vm.ToValue(uri)
	})
	b.method(node, "isDefaultNamespace", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).IsDefaultNamespace(nullableString(arg(call, 0))))
	})
	b.method(node, "appendChild", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		child := b.nodeArg(call, 0, "appendChild", "Node", false)
		_, err := n.AppendChild(child)
		b.check(err)
		return b.Node(child)
	})
	b.method(node, "insertBefore", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "insertBefore", "Node")
		n := b.thisNode(call)
		child := b.nodeArg(call, 0, "insertBefore", "Node", false)
		ref := b.nodeArg(call, 1, "insertBefore", "Node", true)
		_, err := n.InsertBefore(child, ref)
		b.check(err)
		return b.Node(child)
	})
	b.method(node, "replaceChild", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "replaceChild", "Node")
		n := b.thisNode(call)
		newChild := b.nodeArg(call, 0, "replaceChild", "Node", false)
		oldChild := b.nodeArg(call, 1, "replaceChild", "Node", false)
		_, err := n.ReplaceChild(newChild, oldChild)
		b.check(err)
		return b.Node(oldChild)
	})
	b.method(node, "removeChild", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		child := b.nodeArg(call, 0, "removeChild", "Node", false)
		_, err := n.RemoveChild(child)
		b.check(err)
		return b.Node(child)
	})

	b.setupCharacterData()
	b.setupAttr()

	doctype := b.defineInterface("DocumentType", "Node", nil)
	b.getter(doctype, "name", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).DoctypeName())
	})
	b.getter(doctype, "publicId", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).DoctypePublicID())
	})
	b.getter(doctype, "systemId", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).DoctypeSystemID())
	})
	b.childNodeMixin(doctype)
}

func (b *Binder) setupCharacterData() {
	vm := b.vm
	cdata := b.defineInterface("CharacterData", "Node", nil)

	b.accessor(cdata, "data", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisCharacterData(call).Data())
	}, func(call goja.FunctionCall) goja.Value {
		b.thisCharacterData(call).SetData(nullableString(arg(call, 0)))
		return goja.Undefined()
	})
	b.getter(cdata, "length", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisCharacterData(call).Length())
	})
	b.method(cdata, "substringData", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "substringData", "CharacterData")
		s, err := b.thisCharacterData(call).SubstringData(offsetArg(call, 0), offsetArg(call, 1))
		b.check(err)
		return vm.ToValue(s)
	})
	b.method(cdata, "appendData", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "appendData", "CharacterData")
		b.thisCharacterData(call).AppendData(call.Arguments[0].String())
		return goja.Undefined()
	})
	b.method(cdata, "insertData", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "insertData", "CharacterData")
		b.check(b.thisCharacterData(call).InsertData(offsetArg(call, 0), call.Arguments[1].String()))
		return goja.Undefined()
	})
	b.method(cdata, "deleteData", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "deleteData", "CharacterData")
		b.check(b.thisCharacterData(call).DeleteData(offsetArg(call, 0), offsetArg(call, 1)))
		return goja.Undefined()
	})
	b.method(cdata, "replaceData", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 3, "replaceData", "CharacterData")
		b.check(b.thisCharacterData(call).ReplaceData(offsetArg(call, 0), offsetArg(call, 1), call.Arguments[2].String()))
		return goja.Undefined()
	})
	b.childNodeMixin(cdata)
	b.elementSiblingMixin(cdata)

	text := b.defineInterface("Text", "CharacterData", func(call goja.ConstructorCall) *goja.Object {
		n := b.ownerDocument().CreateTextNode(stringArgC(call, 0, ""))
		return b.Node(n)
	})
	b.method(text, "splitText", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "splitText", "Text")
		n, err := b.thisCharacterData(call).SplitText(offsetArg(call, 0))
		b.check(err)
		return b.Node(n)
	})
	b.getter(text, "wholeText", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisCharacterData(call).WholeText())
	})

	b.defineInterface("CDATASection", "Text", nil)

	b.defineInterface("Comment", "CharacterData", func(call goja.ConstructorCall) *goja.Object {
		return b.Node(b.ownerDocument().CreateComment(stringArgC(call, 0, "")))
	})

	pi := b.defineInterface("ProcessingInstruction", "CharacterData", nil)
	b.getter(pi, "target", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).Target())
	})
}

// childNodeMixin installs the ChildNode members.
func (b *Binder) childNodeMixin(proto *goja.Object) {
	b.method(proto, "before", func(call goja.FunctionCall) goja.Value {
		b.check(b.thisNode(call).Before(b.nodesOrStrings(call)...))
		return goja.Undefined()
	})
	b.method(proto, "after", func(call goja.FunctionCall) goja.Value {
		b.check(b.thisNode(call).After(b.nodesOrStrings(call)...))
		return goja.Undefined()
	})
	b.method(proto, "replaceWith", func(call goja.FunctionCall) goja.Value {
		b.check(b.thisNode(call).ReplaceWith(b.nodesOrStrings(call)...))
		return goja.Undefined()
	})
	b.method(proto, "remove", func(call goja.FunctionCall) goja.Value {
		b.thisNode(call).Remove()
		return goja.Undefined()
	})
}

// elementSiblingMixin installs NonDocumentTypeChildNode.
func (b *Binder) elementSiblingMixin(proto *goja.Object) {
	b.getter(proto, "previousElementSibling", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisNode(call).PreviousElementSibling())
	})
	b.getter(proto, "nextElementSibling", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisNode(call).NextElementSibling())
	})
}

// parentNodeMixin installs the ParentNode members.
func (b *Binder) parentNodeMixin(proto *goja.Object) {
	vm := b.vm
	b.getter(proto, "children", func(call goja.FunctionCall) goja.Value {
		return b.HTMLCollection(b.thisNode(call).Children())
	})
	b.getter(proto, "firstElementChild", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisNode(call).FirstElementChild())
	})
	b.getter(proto, "lastElementChild", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisNode(call).LastElementChild())
	})
	b.getter(proto, "childElementCount", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisNode(call).ChildElementCount())
	})
	b.method(proto, "prepend", func(call goja.FunctionCall) goja.Value {
		b.check(b.thisNode(call).Prepend(b.nodesOrStrings(call)...))
		return goja.Undefined()
	})
	b.method(proto, "append", func(call goja.FunctionCall) goja.Value {
		b.check(b.thisNode(call).Append(b.nodesOrStrings(call)...))
		return goja.Undefined()
	})
	b.method(proto, "replaceChildren", func(call goja.FunctionCall) goja.Value {
		b.check(b.thisNode(call).ReplaceChildren(b.nodesOrStrings(call)...))
		return goja.Undefined()
	})
	b.method(proto, "querySelector", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "querySelector", "Element")
		el, err := b.thisNode(call).QuerySelector(call.Arguments[0].String())
		b.check(err)
		return b.elementOrNull(el)
	})
	b.method(proto, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "querySelectorAll", "Element")
		list, err := b.thisNode(call).QuerySelectorAll(call.Arguments[0].String())
		b.check(err)
		return b.NodeList(list)
	})
	b.method(proto, "getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getElementsByTagName", "Element")
		return b.HTMLCollection(b.thisNode(call).GetElementsByTagName(call.Arguments[0].String()))
	})
	b.method(proto, "getElementsByTagNameNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "getElementsByTagNameNS", "Element")
		ns := nullableString(call.Arguments[0])
		return b.HTMLCollection(b.thisNode(call).GetElementsByTagNameNS(ns, call.Arguments[1].String()))
	})
	b.method(proto, "getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getElementsByClassName", "Element")
		return b.HTMLCollection(b.thisNode(call).GetElementsByClassName(call.Arguments[0].String()))
	})
}

func (b *Binder) setupAttr() {
	vm := b.vm
	attr := b.defineInterface("Attr", "Node", nil)

	thisAttr := func(call goja.FunctionCall) *dom.Attr {
		if a, ok := b.this(call).(*dom.Attr); ok {
			return a
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	nullable := func(s string) goja.Value {
		if s == "" {
			return goja.Null()
		}
		return vm.ToValue(s)
	}
	null := func(goja.FunctionCall) goja.Value { return goja.Null() }

	b.getter(attr, "namespaceURI", func(call goja.FunctionCall) goja.Value {
		return nullable(thisAttr(call).NamespaceURI())
	})
	b.getter(attr, "prefix", func(call goja.FunctionCall) goja.Value {
		return nullable(thisAttr(call).Prefix())
	})
	b.getter(attr, "localName", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisAttr(call).LocalName())
	})
	b.getter(attr, "name", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisAttr(call).Name())
	})
	b.getter(attr, "nodeName", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisAttr(call).Name())
	})
	b.getter(attr, "nodeType", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(int(dom.AttributeNode))
	})
	value := func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisAttr(call).Value())
	}
	setValue := func(call goja.FunctionCall) goja.Value {
		thisAttr(call).SetValue(nullableString(arg(call, 0)))
		return goja.Undefined()
	}
	b.accessor(attr, "value", value, setValue)
	b.accessor(attr, "nodeValue", value, setValue)
	b.accessor(attr, "textContent", value, setValue)
	b.getter(attr, "ownerElement", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(thisAttr(call).OwnerElement())
	})
	b.getter(attr, "ownerDocument", func(call goja.FunctionCall) goja.Value {
		doc := thisAttr(call).OwnerDocument()
		if doc == nil {
			return goja.Null()
		}
		return b.Node(doc.AsNode())
	})
	b.getter(attr, "specified", func(goja.FunctionCall) goja.Value { return vm.ToValue(true) })
	for _, name := range []string{"parentNode", "parentElement", "firstChild", "lastChild", "previousSibling", "nextSibling"} {
		b.getter(attr, name, null)
	}
	b.method(attr, "hasChildNodes", func(goja.FunctionCall) goja.Value { return vm.ToValue(false) })
}

// Attr returns the wrapper for a.
func (b *Binder) Attr(a *dom.Attr) goja.Value {
	if a == nil {
		return goja.Null()
	}
	return b.wrap(a, b.protos["Attr"])
}

func (b *Binder) attrArg(call goja.FunctionCall, i int, method string) *dom.Attr {
	if a, ok := b.Value(arg(call, i)).(*dom.Attr); ok {
		return a
	}
	panic(b.vm.NewTypeError("Failed to execute '%s' on 'Element': parameter %d is not of type 'Attr'.", method, i+1))
}
