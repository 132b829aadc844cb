package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var namespaceAbbrev = map[string]string{
	SVGNamespace:    "svg",
	MathMLNamespace: "math",
}

var attrNamespaceAbbrev = map[string]string{
	"http://www.w3.org/1999/xlink": "xlink",
	XMLNamespace:                   "xml",
	XMLNSNamespace:                 "xmlns",
}

// mirror is a read-only x/net/html copy of a subtree, used to run
// cascadia selectors and the x/net/html renderer over the DOM.
type mirror struct {
	toHTML map[*Node]*html.Node
	toDOM  map[*html.Node]*Node
}

func newMirror(root *Node) *mirror {
	m := &mirror{
		toHTML: make(map[*Node]*html.Node),
		toDOM:  make(map[*html.Node]*Node),
	}
	m.build(root)
	return m
}

func (m *mirror) build(n *Node) *html.Node {
	h := &html.Node{}
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode:
		h.Type = html.DocumentNode
	case DocumentTypeNode:
		h.Type = html.DoctypeNode
		h.Data = n.doctype.name
		if n.doctype.publicID != "" {
			h.Attr = append(h.Attr, html.Attribute{Key: "public", Val: n.doctype.publicID})
		}
		if n.doctype.systemID != "" {
			h.Attr = append(h.Attr, html.Attribute{Key: "system", Val: n.doctype.systemID})
		}
	case TextNode:
		h.Type = html.TextNode
		h.Data = n.data
	case CDATASectionNode:
		h.Type = html.RawNode
		h.Data = "<![CDATA[" + n.data + "]]>"
	case CommentNode:
		h.Type = html.CommentNode
		h.Data = n.data
	case ProcessingInstructionNode:
		h.Type = html.RawNode
		h.Data = "<?" + n.nodeName + " " + n.data + ">"
	case ElementNode:
		el := n.AsElement()
		h.Type = html.ElementNode
		if el.IsHTML() {
			h.Data = el.element.localName
			h.DataAtom = atom.Lookup([]byte(h.Data))
		} else {
			h.Data = n.nodeName
			h.Namespace = namespaceAbbrev[el.element.namespaceURI]
			if h.Namespace == "" {
				h.Namespace = el.element.namespaceURI
			}
		}
		for _, a := range el.element.attributes.attrs {
			attr := html.Attribute{Key: a.Name(), Val: a.value}
			if a.namespaceURI != "" && el.IsHTML() {
				attr.Namespace = attrNamespaceAbbrev[a.namespaceURI]
				attr.Key = a.localName
			}
			h.Attr = append(h.Attr, attr)
		}
	}
	m.toHTML[n] = h
	m.toDOM[h] = n
	for c := n.firstChild; c != nil; c = c.nextSibling {
		h.AppendChild(m.build(c))
	}
	return h
}
