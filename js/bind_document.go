package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

func (b *Binder) thisDocument(call goja.FunctionCall) *dom.Document {
	if doc := b.thisNode(call).AsDocument(); doc != nil {
		return doc
	}
	panic(b.vm.NewTypeError("Illegal invocation"))
}

func (b *Binder) setupDocuments() {
	vm := b.vm
	document := b.defineInterface("Document", "Node", func(call goja.ConstructorCall) *goja.Object {
		return b.Node(dom.NewXMLDocument("application/xml").AsNode())
	})
	b.defineInterface("HTMLDocument", "Document", nil)
	b.defineInterface("XMLDocument", "Document", nil)

	str := func(get func(*dom.Document) string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(get(b.thisDocument(call)))
		}
	}
	b.getter(document, "URL", str((*dom.Document).URL))
	b.getter(document, "documentURI", str((*dom.Document).URL))
	b.getter(document, "compatMode", str((*dom.Document).CompatMode))
	b.getter(document, "characterSet", str((*dom.Document).CharacterSet))
	b.getter(document, "charset", str((*dom.Document).CharacterSet))
	b.getter(document, "inputEncoding", str((*dom.Document).CharacterSet))
	b.getter(document, "contentType", str((*dom.Document).ContentType))
	b.accessor(document, "title", str((*dom.Document).Title), func(call goja.FunctionCall) goja.Value {
		b.thisDocument(call).SetTitle(arg(call, 0).String())
		return goja.Undefined()
	})
	b.getter(document, "implementation", func(call goja.FunctionCall) goja.Value {
		return b.wrap(b.thisDocument(call).Implementation(), b.protos["DOMImplementation"])
	})
	b.getter(document, "doctype", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.thisDocument(call).Doctype())
	})
	b.getter(document, "documentElement", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisDocument(call).DocumentElement())
	})
	b.getter(document, "head", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisDocument(call).Head())
	})
	b.getter(document, "body", func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(b.thisDocument(call).Body())
	})
	b.getter(document, "readyState", func(call goja.FunctionCall) goja.Value {
		if b.thisDocument(call) == b.document {
			return vm.ToValue(b.readyState)
		}
		return vm.ToValue("complete")
	})
	b.getter(document, "currentScript", func(call goja.FunctionCall) goja.Value {
		if b.thisDocument(call) != b.document {
			return goja.Null()
		}
		return b.nodeOrNull(b.current)
	})
	b.getter(document, "defaultView", func(call goja.FunctionCall) goja.Value {
		if b.thisDocument(call) == b.document {
			return b.runtime.window
		}
		return goja.Null()
	})

	b.method(document, "getElementById", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getElementById", "Document")
		return b.elementOrNull(b.thisDocument(call).GetElementById(call.Arguments[0].String()))
	})
	b.method(document, "createElement", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "createElement", "Document")
		el, err := b.thisDocument(call).CreateElementChecked(call.Arguments[0].String())
		b.check(err)
		return b.Node(el.AsNode())
	})
	b.method(document, "createElementNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "createElementNS", "Document")
		el, err := b.thisDocument(call).CreateElementNS(nullableString(call.Arguments[0]), call.Arguments[1].String())
		b.check(err)
		return b.Node(el.AsNode())
	})
	b.method(document, "createDocumentFragment", func(call goja.FunctionCall) goja.Value {
		return b.Node(b.thisDocument(call).CreateDocumentFragment().AsNode())
	})
	b.method(document, "createTextNode", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "createTextNode", "Document")
		return b.Node(b.thisDocument(call).CreateTextNode(call.Arguments[0].String()))
	})
	b.method(document, "createComment", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "createComment", "Document")
		return b.Node(b.thisDocument(call).CreateComment(call.Arguments[0].String()))
	})
	b.method(document, "createCDATASection", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "createCDATASection", "Document")
		n, err := b.thisDocument(call).CreateCDATASection(call.Arguments[0].String())
		b.check(err)
		return b.Node(n)
	})
	b.method(document, "createProcessingInstruction", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "createProcessingInstruction", "Document")
		n, err := b.thisDocument(call).CreateProcessingInstruction(call.Arguments[0].String(), call.Arguments[1].String())
		b.check(err)
		return b.Node(n)
	})
	b.method(document, "createAttribute", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "createAttribute", "Document")
		a, err := b.thisDocument(call).CreateAttribute(call.Arguments[0].String())
		b.check(err)
		return b.Attr(a)
	})
	b.method(document, "createAttributeNS", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "createAttributeNS", "Document")
		a, err := b.thisDocument(call).CreateAttributeNS(nullableString(call.Arguments[0]), call.Arguments[1].String())
		b.check(err)
		return b.Attr(a)
	})
	b.method(document, "importNode", func(call goja.FunctionCall) goja.Value {
		doc := b.thisDocument(call)
		n := b.nodeArg(call, 0, "importNode", "Document", false)
		imported, err := doc.ImportNode(n, boolArg(call, 1, false))
		b.check(err)
		return b.Node(imported)
	})
	b.method(document, "adoptNode", func(call goja.FunctionCall) goja.Value {
		doc := b.thisDocument(call)
		n := b.nodeArg(call, 0, "adoptNode", "Document", false)
		adopted, err := doc.AdoptNode(n)
		b.check(err)
		return b.Node(adopted)
	})
	b.method(document, "createEvent", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "createEvent", "Document")
		b.thisDocument(call)
		return b.createEvent(call.Arguments[0].String())
	})
	b.method(document, "createRange", func(call goja.FunctionCall) goja.Value {
		return b.Range(b.thisDocument(call).CreateRange())
	})
	b.method(document, "getSelection", func(call goja.FunctionCall) goja.Value {
		return b.Selection(b.thisDocument(call).GetSelection())
	})
	b.method(document, "hasFocus", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.thisDocument(call) == b.document)
	})
	b.parentNodeMixin(document)

	fragment := b.defineInterface("DocumentFragment", "Node", func(call goja.ConstructorCall) *goja.Object {
		return b.Node(b.ownerDocument().CreateDocumentFragment().AsNode())
	})
	b.method(fragment, "getElementById", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getElementById", "DocumentFragment")
		n := b.thisNode(call)
		if n.NodeType() != dom.DocumentFragmentNode {
			panic(vm.NewTypeError("Illegal invocation"))
		}
		return b.elementOrNull((*dom.DocumentFragment)(n).GetElementById(call.Arguments[0].String()))
	})
	b.parentNodeMixin(fragment)

	b.setupImplementation()

	b.runtime.window.Set("getSelection", func(goja.FunctionCall) goja.Value {
		if b.document == nil {
			return goja.Null()
		}
		return b.Selection(b.document.GetSelection())
	})
}

func (b *Binder) setupImplementation() {
	vm := b.vm
	impl := b.defineInterface("DOMImplementation", "", nil)
	thisImpl := func(call goja.FunctionCall) *dom.DOMImplementation {
		if i, ok := b.this(call).(*dom.DOMImplementation); ok {
			return i
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}

	b.method(impl, "hasFeature", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(thisImpl(call).HasFeature())
	})
	b.method(impl, "createDocumentType", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 3, "createDocumentType", "DOMImplementation")
		n, err := thisImpl(call).CreateDocumentType(call.Arguments[0].String(), call.Arguments[1].String(), call.Arguments[2].String())
		b.check(err)
		return b.Node(n)
	})
	b.method(impl, "createDocument", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "createDocument", "DOMImplementation")
		impl := thisImpl(call)
		doctype := b.nodeArg(call, 2, "createDocument", "DOMImplementation", true)
		if doctype != nil && doctype.NodeType() != dom.DocumentTypeNode {
			panic(vm.NewTypeError("Failed to execute 'createDocument' on 'DOMImplementation': parameter 3 is not of type 'DocumentType'."))
		}
		doc, err := impl.CreateDocument(nullableString(call.Arguments[0]), nullableString(call.Arguments[1]), doctype)
		b.check(err)
		return b.Node(doc.AsNode())
	})
	b.method(impl, "createHTMLDocument", func(call goja.FunctionCall) goja.Value {
		var title *string
		if v := arg(call, 0); !isMissing(v) {
			s := v.String()
			title = &s
		}
		return b.Node(thisImpl(call).CreateHTMLDocument(title).AsNode())
	})
}
