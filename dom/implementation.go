package dom

// DOMImplementation creates documents and doctypes associated with a
// document.
// https://dom.spec.whatwg.org/#interface-domimplementation
type DOMImplementation struct {
	doc *Document
}

// Implementation returns the document's DOMImplementation.
func (d *Document) Implementation() *DOMImplementation {
	if d.document.implementation == nil {
		d.document.implementation = &DOMImplementation{doc: d}
	}
	return d.document.implementation
}

// HasFeature always returns true.
func (impl *DOMImplementation) HasFeature() bool {
	return true
}

// CreateDocumentType returns a doctype owned by the implementation's
// document.
func (impl *DOMImplementation) CreateDocumentType(qualifiedName, publicID, systemID string) (*Node, error) {
	if _, _, err := ValidateAndExtract("", qualifiedName); err != nil {
		if dom, ok := err.(*DOMException); ok && dom.Name == "NamespaceError" {
			// A prefix without namespace is fine for doctypes.
			err = nil
		}
		if err != nil {
			return nil, err
		}
	}
	return newDoctype(impl.doc, qualifiedName, publicID, systemID), nil
}

func newDoctype(doc *Document, name, publicID, systemID string) *Node {
	n := newNode(DocumentTypeNode, name, doc)
	n.doctype = &doctypeData{name: name, publicID: publicID, systemID: systemID}
	return n
}

// CreateDocument creates an XML document. The content type follows the
// namespace; a non-empty qualifiedName creates the document element.
// https://dom.spec.whatwg.org/#dom-domimplementation-createdocument
func (impl *DOMImplementation) CreateDocument(namespaceURI, qualifiedName string, doctype *Node) (*Document, error) {
	contentType := "application/xml"
	switch namespaceURI {
	case HTMLNamespace:
		contentType = "application/xhtml+xml"
	case SVGNamespace:
		contentType = "image/svg+xml"
	}
	doc := newDocument(contentType, false)
	doc.document.url = impl.doc.document.url

	var element *Element
	if qualifiedName != "" {
		var err error
		if element, err = doc.CreateElementNS(namespaceURI, qualifiedName); err != nil {
			return nil, err
		}
	}
	if doctype != nil {
		if _, err := doc.AsNode().AppendChild(doctype); err != nil {
			return nil, err
		}
	}
	if element != nil {
		if _, err := doc.AsNode().AppendChild(element.AsNode()); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// CreateHTMLDocument creates an HTML document with a doctype, html, head
// and body, and a title element when title is non-nil.
func (impl *DOMImplementation) CreateHTMLDocument(title *string) *Document {
	doc := newDocument("text/html", true)
	doc.document.url = impl.doc.document.url
	root := doc.AsNode()
	root.insert(newDoctype(doc, "html", "", ""), nil)
	html := doc.CreateElement("html")
	root.insert(html.AsNode(), nil)
	head := doc.CreateElement("head")
	html.AsNode().insert(head.AsNode(), nil)
	if title != nil {
		t := doc.CreateElement("title")
		head.AsNode().insert(t.AsNode(), nil)
		t.AsNode().insert(doc.CreateTextNode(*title), nil)
	}
	html.AsNode().insert(doc.CreateElement("body").AsNode(), nil)
	return doc
}
