package dom

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses an HTML string into a new HTML document.
func ParseHTML(htmlContent string) (*Document, error) {
	return ParseHTMLReader(strings.NewReader(htmlContent))
}

// ParseHTMLReader parses HTML from r into a new HTML document.
func ParseHTMLReader(r io.Reader) (*Document, error) {
	netDoc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	doc := NewDocument()
	doc.document.compatMode = "BackCompat"
	convertHTMLTree(netDoc, doc.AsNode(), doc)
	if dt := doc.Doctype(); dt != nil && strings.EqualFold(dt.doctype.name, "html") && dt.doctype.publicID == "" {
		doc.document.compatMode = "CSS1Compat"
	}
	return doc, nil
}

var foreignNamespaces = map[string]string{
	"svg":  SVGNamespace,
	"math": MathMLNamespace,
}

var attrNamespaces = map[string]string{
	"xlink": "http://www.w3.org/1999/xlink",
	"xml":   XMLNamespace,
	"xmlns": XMLNSNamespace,
}

// convertHTMLTree appends converted copies of src's children to parent.
func convertHTMLTree(src *html.Node, parent *Node, doc *Document) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if node := convertHTMLNode(c, doc); node != nil {
			parent.link(node, nil)
		}
	}
}

func convertHTMLNode(c *html.Node, doc *Document) *Node {
	switch c.Type {
	case html.TextNode:
		return doc.CreateTextNode(c.Data)
	case html.CommentNode:
		return doc.CreateComment(c.Data)
	case html.DoctypeNode:
		dt := newDoctype(doc, c.Data, "", "")
		for _, attr := range c.Attr {
			switch attr.Key {
			case "public":
				dt.doctype.publicID = attr.Val
			case "system":
				dt.doctype.systemID = attr.Val
			}
		}
		return dt
	case html.ElementNode:
		namespace := HTMLNamespace
		if ns, ok := foreignNamespaces[c.Namespace]; ok {
			namespace = ns
		}
		el := newElement(doc, namespace, "", c.Data)
		for _, attr := range c.Attr {
			a := &Attr{localName: attr.Key, value: attr.Val}
			if ns, ok := attrNamespaces[attr.Namespace]; ok {
				a.namespaceURI = ns
				if attr.Namespace != "xmlns" || attr.Key != "xmlns" {
					a.prefix = attr.Namespace
				}
			}
			el.element.attributes.append(a)
		}
		// Template contents are kept as ordinary children.
		node := el.AsNode()
		convertHTMLTree(c, node, doc)
		return node
	}
	return nil
}

// parseFragment parses markup with context as the context element and
// returns the result as a DocumentFragment owned by context's document.
// https://html.spec.whatwg.org/multipage/parsing.html#parsing-html-fragments
func parseFragment(context *Element, markup string) (*DocumentFragment, error) {
	doc := context.AsNode().nodeDocument()
	frag := doc.CreateDocumentFragment()
	if !doc.IsHTML() {
		if err := parseXMLInto(frag.AsNode(), doc, context, markup); err != nil {
			return nil, err
		}
		return frag, nil
	}

	tag := context.element.localName
	contextNode := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
	switch context.element.namespaceURI {
	case SVGNamespace:
		contextNode.Namespace = "svg"
		contextNode.DataAtom = 0
	case MathMLNamespace:
		contextNode.Namespace = "math"
		contextNode.DataAtom = 0
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), contextNode)
	if err != nil {
		return nil, errors.Wrap(err, "parse html fragment")
	}
	for _, n := range nodes {
		if node := convertHTMLNode(n, doc); node != nil {
			frag.AsNode().link(node, nil)
		}
	}
	return frag, nil
}

// ParseXML parses an XML document. contentType is recorded on the document.
func ParseXML(r io.Reader, contentType string) (*Document, error) {
	doc := NewXMLDocument(contentType)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read xml")
	}
	if err := parseXMLInto(doc.AsNode(), doc, nil, string(data)); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseXMLInto parses markup and appends the result to parent. Namespace
// prefixes in scope at context are inherited.
func parseXMLInto(parent *Node, doc *Document, context *Element, markup string) error {
	decoder := xml.NewDecoder(strings.NewReader(markup))
	decoder.Strict = true
	decoder.AutoClose = nil

	current := parent
	for {
		tok, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ErrSyntax("The provided markup is not well-formed: " + err.Error())
		}
		switch t := tok.(type) {
		case xml.StartElement:
			scope := current.AsElement()
			if scope == nil && context != nil && current == parent {
				scope = context
			}
			el, err := newXMLElement(doc, t, scope)
			if err != nil {
				return err
			}
			current.link(el.AsNode(), nil)
			current = el.AsNode()
		case xml.EndElement:
			if current == parent {
				return ErrSyntax("Unexpected end tag </" + t.Name.Local + ">.")
			}
			current = current.parentNode
		case xml.CharData:
			if current.nodeType == DocumentNode {
				if strings.TrimSpace(string(t)) != "" {
					return ErrSyntax("Text is not allowed outside the document element.")
				}
				continue
			}
			current.link(doc.CreateTextNode(string(t)), nil)
		case xml.Comment:
			current.link(doc.CreateComment(string(t)), nil)
		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			pi := newNode(ProcessingInstructionNode, t.Target, doc)
			pi.data = string(t.Inst)
			current.link(pi, nil)
		case xml.Directive:
			if d := string(t); strings.HasPrefix(d, "DOCTYPE") {
				fields := strings.Fields(strings.TrimPrefix(d, "DOCTYPE"))
				if len(fields) > 0 {
					current.link(newDoctype(doc, fields[0], "", ""), nil)
				}
			}
		}
	}
	if current != parent {
		return ErrSyntax("The provided markup has unclosed elements.")
	}
	return nil
}

// newXMLElement builds an element from a raw start tag, resolving prefixes
// against the tag's own xmlns attributes and then against scope.
func newXMLElement(doc *Document, t xml.StartElement, scope *Element) (*Element, error) {
	bindings := map[string]string{}
	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			bindings[""] = a.Value
		case a.Name.Space == "xmlns":
			bindings[a.Name.Local] = a.Value
		}
	}
	resolve := func(prefix string) (string, bool) {
		if prefix == "xml" {
			return XMLNamespace, true
		}
		if ns, ok := bindings[prefix]; ok {
			return ns, true
		}
		if scope != nil {
			ns := scope.AsNode().LookupNamespaceURI(prefix)
			return ns, ns != "" || prefix == ""
		}
		return "", prefix == ""
	}

	ns, ok := resolve(t.Name.Space)
	if !ok {
		return nil, ErrNamespace("The prefix '" + t.Name.Space + "' is not bound to a namespace.")
	}
	el := newElement(doc, ns, t.Name.Space, t.Name.Local)
	for _, a := range t.Attr {
		attr := &Attr{prefix: a.Name.Space, localName: a.Name.Local, value: a.Value}
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			attr.namespaceURI = XMLNSNamespace
		case a.Name.Space == "xmlns":
			attr.namespaceURI = XMLNSNamespace
		case a.Name.Space != "":
			if attr.namespaceURI, ok = resolve(a.Name.Space); !ok {
				return nil, ErrNamespace("The prefix '" + a.Name.Space + "' is not bound to a namespace.")
			}
		}
		el.element.attributes.append(attr)
	}
	return el, nil
}
