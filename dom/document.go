package dom

import "strings"

// Document is the document view of a Node.
// https://dom.spec.whatwg.org/#interface-document
type Document Node

type documentData struct {
	contentType    string
	isHTML         bool
	url            string
	characterSet   string
	compatMode     string
	implementation *DOMImplementation
	selection      *Selection
	ranges         *rangeRegistry
	iterators      []*NodeIterator

	// version increases on every tree, attribute or data mutation.
	version uint64
}

func newDocument(contentType string, isHTML bool) *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.document = &documentData{
		contentType:  contentType,
		isHTML:       isHTML,
		characterSet: "UTF-8",
		compatMode:   "CSS1Compat",
		ranges:       newRangeRegistry(),
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// NewDocument creates an empty HTML document.
func NewDocument() *Document {
	return newDocument("text/html", true)
}

// NewXMLDocument creates an empty XML document with the given content type.
func NewXMLDocument(contentType string) *Document {
	if contentType == "" {
		contentType = "application/xml"
	}
	return newDocument(contentType, false)
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// IsHTML reports whether this is an HTML document.
func (d *Document) IsHTML() bool {
	return d.document.isHTML
}

// ContentType returns the MIME type the document was created with.
func (d *Document) ContentType() string { return d.document.contentType }

// CharacterSet returns the document's encoding name.
func (d *Document) CharacterSet() string { return d.document.characterSet }

// CompatMode returns "BackCompat" for quirks-mode documents and
// "CSS1Compat" otherwise.
func (d *Document) CompatMode() string {
	return d.document.compatMode
}

// URL returns the document URL, "about:blank" by default.
func (d *Document) URL() string {
	if d.document.url == "" {
		return "about:blank"
	}
	return d.document.url
}

// SetURL sets the document URL.
func (d *Document) SetURL(url string) {
	d.document.url = url
}

// Version returns a counter that changes whenever the document is mutated.
func (d *Document) Version() uint64 {
	return d.document.version
}

func (d *Document) touch() {
	if d != nil && d.document != nil {
		d.document.version++
	}
}

func (d *Document) liveRanges() *rangeRegistry {
	if d == nil || d.document == nil {
		return nil
	}
	return d.document.ranges
}

// Doctype returns the DocumentType child, or nil.
func (d *Document) Doctype() *Node {
	for c := d.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == DocumentTypeNode {
			return c
		}
	}
	return nil
}

// DocumentElement returns the root element, or nil.
func (d *Document) DocumentElement() *Element {
	return d.AsNode().FirstElementChild()
}

func (d *Document) htmlChild(parent *Element, localName string) *Element {
	if parent == nil {
		return nil
	}
	for c := parent.firstChild; c != nil; c = c.nextSibling {
		if el := c.AsElement(); el != nil && el.IsHTML() && el.element.localName == localName {
			return el
		}
	}
	return nil
}

// Head returns the head element child of the html element.
func (d *Document) Head() *Element {
	de := d.DocumentElement()
	if de == nil || !de.IsHTML() || de.element.localName != "html" {
		return nil
	}
	return d.htmlChild(de, "head")
}

// Body returns the body element child of the html element.
func (d *Document) Body() *Element {
	de := d.DocumentElement()
	if de == nil || !de.IsHTML() || de.element.localName != "html" {
		return nil
	}
	for c := de.firstChild; c != nil; c = c.nextSibling {
		if el := c.AsElement(); el != nil && el.IsHTML() &&
			(el.element.localName == "body" || el.element.localName == "frameset") {
			return el
		}
	}
	return nil
}

func (d *Document) titleElement() *Element {
	var found *Element
	d.AsNode().Descendants(func(n *Node) bool {
		if el := n.AsElement(); el != nil && el.element.localName == "title" &&
			(el.IsHTML() || el.element.namespaceURI == SVGNamespace) {
			found = el
			return false
		}
		return true
	})
	return found
}

// Title returns the text of the title element with whitespace collapsed.
func (d *Document) Title() string {
	el := d.titleElement()
	if el == nil {
		return ""
	}
	text, _ := el.AsNode().TextContent()
	return strings.Join(strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
	}), " ")
}

// SetTitle replaces the title text, creating a title element in the head
// when there is none.
func (d *Document) SetTitle(title string) {
	el := d.titleElement()
	if el == nil {
		head := d.Head()
		if head == nil {
			return
		}
		el = d.CreateElement("title")
		head.AsNode().insert(el.AsNode(), nil)
	}
	el.AsNode().SetTextContent(title)
}

// CreateElement creates an element. In HTML documents the name is
// lowercased and the element is in the HTML namespace.
// https://dom.spec.whatwg.org/#dom-document-createelement
func (d *Document) CreateElement(localName string) *Element {
	el, _ := d.CreateElementChecked(localName)
	return el
}

// CreateElementChecked is CreateElement returning InvalidCharacterError for
// names that do not match the XML Name production.
func (d *Document) CreateElementChecked(localName string) (*Element, error) {
	if !IsValidName(localName) {
		return nil, ErrInvalidCharacter("The tag name provided ('" + localName + "') is not a valid name.")
	}
	namespace := ""
	if d.IsHTML() {
		localName = asciiLower(localName)
		namespace = HTMLNamespace
	} else if d.document.contentType == "application/xhtml+xml" {
		namespace = HTMLNamespace
	}
	return newElement(d, namespace, "", localName), nil
}

// CreateElementNS creates an element with a namespace.
func (d *Document) CreateElementNS(namespaceURI, qualifiedName string) (*Element, error) {
	prefix, localName, err := ValidateAndExtract(namespaceURI, qualifiedName)
	if err != nil {
		return nil, err
	}
	return newElement(d, namespaceURI, prefix, localName), nil
}

// CreateTextNode creates a Text node.
func (d *Document) CreateTextNode(data string) *Node {
	n := newNode(TextNode, "#text", d)
	n.data = data
	return n
}

// CreateComment creates a Comment node.
func (d *Document) CreateComment(data string) *Node {
	n := newNode(CommentNode, "#comment", d)
	n.data = data
	return n
}

// CreateCDATASection creates a CDATASection node; not supported in HTML
// documents.
func (d *Document) CreateCDATASection(data string) (*Node, error) {
	if d.IsHTML() {
		return nil, ErrNotSupported("This operation is not supported for HTML documents.")
	}
	if strings.Contains(data, "]]>") {
		return nil, ErrInvalidCharacter("String cannot contain ']]>' since that is the end delimiter of a CData section.")
	}
	n := newNode(CDATASectionNode, "#cdata-section", d)
	n.data = data
	return n, nil
}

// CreateProcessingInstruction creates a ProcessingInstruction node.
func (d *Document) CreateProcessingInstruction(target, data string) (*Node, error) {
	if !IsValidName(target) {
		return nil, ErrInvalidCharacter("The target provided ('" + target + "') is not a valid name.")
	}
	if strings.Contains(data, "?>") {
		return nil, ErrInvalidCharacter("The data provided ('" + data + "') contains '?>'.")
	}
	n := newNode(ProcessingInstructionNode, target, d)
	n.data = data
	return n, nil
}

// CreateDocumentFragment creates an empty DocumentFragment.
func (d *Document) CreateDocumentFragment() *DocumentFragment {
	return (*DocumentFragment)(newNode(DocumentFragmentNode, "#document-fragment", d))
}

// CreateAttribute creates a detached attribute.
func (d *Document) CreateAttribute(localName string) (*Attr, error) {
	if !IsValidName(localName) {
		return nil, ErrInvalidCharacter("The localName provided ('" + localName + "') is not a valid name.")
	}
	if d.IsHTML() {
		localName = asciiLower(localName)
	}
	return &Attr{localName: localName, ownerDoc: d}, nil
}

// CreateAttributeNS creates a detached namespaced attribute.
func (d *Document) CreateAttributeNS(namespaceURI, qualifiedName string) (*Attr, error) {
	prefix, localName, err := ValidateAndExtract(namespaceURI, qualifiedName)
	if err != nil {
		return nil, err
	}
	return &Attr{namespaceURI: namespaceURI, prefix: prefix, localName: localName, ownerDoc: d}, nil
}

// GetElementById returns the first element in tree order with the id.
func (d *Document) GetElementById(id string) *Element {
	return d.AsNode().getElementByID(id)
}

func (n *Node) getElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	n.Descendants(func(c *Node) bool {
		if el := c.AsElement(); el != nil && el.Id() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// ImportNode returns a copy of node owned by this document.
func (d *Document) ImportNode(node *Node, deep bool) (*Node, error) {
	if node.nodeType == DocumentNode {
		return nil, ErrNotSupported("The node provided is a document, which may not be imported.")
	}
	return node.cloneInto(d, deep), nil
}

// AdoptNode moves node, and its subtree, into this document.
func (d *Document) AdoptNode(node *Node) (*Node, error) {
	if node.nodeType == DocumentNode {
		return nil, ErrNotSupported("The node provided is a document, which may not be adopted.")
	}
	if node.parentNode != nil {
		node.parentNode.remove(node)
	}
	adopt(node, d)
	return node, nil
}

// CreateRange returns a new live range collapsed at the start of the
// document.
func (d *Document) CreateRange() *Range {
	return newRange(d)
}

// GetSelection returns the document's selection.
func (d *Document) GetSelection() *Selection {
	if d.document.selection == nil {
		d.document.selection = newSelection(d)
	}
	return d.document.selection
}

// DocumentFragment is the fragment view of a Node.
type DocumentFragment Node

// AsNode returns the underlying Node.
func (f *DocumentFragment) AsNode() *Node {
	return (*Node)(f)
}

// GetElementById returns the first descendant element with the id.
func (f *DocumentFragment) GetElementById(id string) *Element {
	return f.AsNode().getElementByID(id)
}
