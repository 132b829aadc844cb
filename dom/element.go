package dom

// Element is the element view of a Node.
// https://dom.spec.whatwg.org/#interface-element
type Element Node

type elementData struct {
	namespaceURI string
	prefix       string
	localName    string
	attributes   *NamedNodeMap
	dataset      *DOMStringMap
}

func newElement(doc *Document, namespaceURI, prefix, localName string) *Element {
	qualified := localName
	if prefix != "" {
		qualified = prefix + ":" + localName
	}
	node := newNode(ElementNode, qualified, doc)
	node.element = &elementData{
		namespaceURI: namespaceURI,
		prefix:       prefix,
		localName:    localName,
	}
	el := (*Element)(node)
	node.element.attributes = newNamedNodeMap(el)
	return el
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// TagName returns the qualified name, ASCII-uppercased for HTML elements in
// HTML documents.
func (e *Element) TagName() string {
	if e.isHTMLInHTMLDocument() {
		return asciiUpper(e.nodeName)
	}
	return e.nodeName
}

func (e *Element) LocalName() string    { return e.element.localName }
func (e *Element) NamespaceURI() string { return e.element.namespaceURI }
func (e *Element) Prefix() string       { return e.element.prefix }

// IsHTML reports whether the element is in the HTML namespace.
func (e *Element) IsHTML() bool {
	return e.element.namespaceURI == HTMLNamespace
}

func (e *Element) isHTMLInHTMLDocument() bool {
	return e.element.namespaceURI == HTMLNamespace && e.ownerDoc != nil && e.ownerDoc.IsHTML()
}

// Attributes returns the attribute map.
func (e *Element) Attributes() *NamedNodeMap {
	return e.element.attributes
}

// Id returns the id attribute.
func (e *Element) Id() string {
	v, _ := e.GetAttribute("id")
	return v
}

// SetId sets the id attribute.
func (e *Element) SetId(id string) {
	_ = e.SetAttribute("id", id)
}

// ClassName returns the class attribute.
func (e *Element) ClassName() string {
	v, _ := e.GetAttribute("class")
	return v
}

// SetClassName sets the class attribute.
func (e *Element) SetClassName(className string) {
	_ = e.SetAttribute("class", className)
}

// ClassList returns the class tokens of the element.
func (e *Element) ClassList() []string {
	return splitTokens(e.ClassName())
}

// HasClass reports whether the class attribute contains class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.ClassList() {
		if c == class {
			return true
		}
	}
	return false
}

// GetAttribute returns the value of the first attribute named name.
func (e *Element) GetAttribute(name string) (string, bool) {
	if a := e.element.attributes.GetNamedItem(name); a != nil {
		return a.value, true
	}
	return "", false
}

// GetAttributeNS returns the value of the attribute with the namespace and
// local name.
func (e *Element) GetAttributeNS(namespaceURI, localName string) (string, bool) {
	if a := e.element.attributes.GetNamedItemNS(namespaceURI, localName); a != nil {
		return a.value, true
	}
	return "", false
}

// SetAttribute sets the attribute named name, creating it when missing.
// https://dom.spec.whatwg.org/#dom-element-setattribute
func (e *Element) SetAttribute(name, value string) error {
	if !IsValidName(name) {
		return ErrInvalidCharacter("'" + name + "' is not a valid attribute name.")
	}
	if e.isHTMLInHTMLDocument() {
		name = asciiLower(name)
	}
	if a := e.element.attributes.GetNamedItem(name); a != nil {
		e.changeAttribute(a, value)
		return nil
	}
	e.appendAttribute(&Attr{localName: name, value: value})
	return nil
}

// SetAttributeNS sets an attribute with a namespace.
func (e *Element) SetAttributeNS(namespaceURI, qualifiedName, value string) error {
	prefix, localName, err := ValidateAndExtract(namespaceURI, qualifiedName)
	if err != nil {
		return err
	}
	if a := e.element.attributes.GetNamedItemNS(namespaceURI, localName); a != nil {
		e.changeAttribute(a, value)
		return nil
	}
	e.appendAttribute(&Attr{namespaceURI: namespaceURI, prefix: prefix, localName: localName, value: value})
	return nil
}

// RemoveAttribute removes the first attribute named name.
func (e *Element) RemoveAttribute(name string) {
	if a := e.element.attributes.GetNamedItem(name); a != nil {
		e.removeAttr(a)
	}
}

// RemoveAttributeNS removes the attribute with the namespace and local name.
func (e *Element) RemoveAttributeNS(namespaceURI, localName string) {
	if a := e.element.attributes.GetNamedItemNS(namespaceURI, localName); a != nil {
		e.removeAttr(a)
	}
}

// HasAttribute reports whether an attribute named name exists.
func (e *Element) HasAttribute(name string) bool {
	return e.element.attributes.GetNamedItem(name) != nil
}

// HasAttributeNS reports whether the namespaced attribute exists.
func (e *Element) HasAttributeNS(namespaceURI, localName string) bool {
	return e.element.attributes.GetNamedItemNS(namespaceURI, localName) != nil
}

// HasAttributes reports whether the element has any attributes.
func (e *Element) HasAttributes() bool {
	return len(e.element.attributes.attrs) > 0
}

// GetAttributeNames returns the qualified names of all attributes in order.
func (e *Element) GetAttributeNames() []string {
	names := make([]string, 0, len(e.element.attributes.attrs))
	for _, a := range e.element.attributes.attrs {
		names = append(names, a.Name())
	}
	return names
}

// ToggleAttribute toggles the attribute named name. When force is non-nil
// the attribute is only added (true) or only removed (false).
func (e *Element) ToggleAttribute(name string, force *bool) (bool, error) {
	if !IsValidName(name) {
		return false, ErrInvalidCharacter("'" + name + "' is not a valid attribute name.")
	}
	if e.isHTMLInHTMLDocument() {
		name = asciiLower(name)
	}
	a := e.element.attributes.GetNamedItem(name)
	if a == nil {
		if force == nil || *force {
			e.appendAttribute(&Attr{localName: name})
			return true, nil
		}
		return false, nil
	}
	if force == nil || !*force {
		e.removeAttr(a)
		return false, nil
	}
	return true, nil
}

// GetAttributeNode returns the attribute node named name.
func (e *Element) GetAttributeNode(name string) *Attr {
	return e.element.attributes.GetNamedItem(name)
}

// GetAttributeNodeNS returns the namespaced attribute node.
func (e *Element) GetAttributeNodeNS(namespaceURI, localName string) *Attr {
	return e.element.attributes.GetNamedItemNS(namespaceURI, localName)
}

// SetAttributeNode attaches attr, replacing an attribute with the same
// namespace and local name.
func (e *Element) SetAttributeNode(attr *Attr) (*Attr, error) {
	if attr.ownerElement != nil && attr.ownerElement != e {
		return nil, ErrInUseAttribute("The attribute is already in use by another element.")
	}
	old := e.element.attributes.GetNamedItemNS(attr.namespaceURI, attr.localName)
	if old == attr {
		return attr, nil
	}
	if old != nil {
		m := e.element.attributes
		m.attrs[m.indexOf(old)] = attr
		attr.ownerElement = e
		old.ownerElement = nil
		e.AsNode().nodeDocument().touch()
		return old, nil
	}
	e.appendAttribute(attr)
	return nil, nil
}

// RemoveAttributeNode detaches attr.
func (e *Element) RemoveAttributeNode(attr *Attr) (*Attr, error) {
	if e.element.attributes.indexOf(attr) < 0 {
		return nil, ErrNotFound("The attribute is not owned by this element.")
	}
	e.removeAttr(attr)
	return attr, nil
}

func (e *Element) appendAttribute(a *Attr) {
	e.element.attributes.append(a)
	e.AsNode().nodeDocument().touch()
}

func (e *Element) changeAttribute(a *Attr, value string) {
	a.value = value
	e.AsNode().nodeDocument().touch()
}

func (e *Element) removeAttr(a *Attr) {
	m := e.element.attributes
	if i := m.indexOf(a); i >= 0 {
		m.attrs = append(m.attrs[:i], m.attrs[i+1:]...)
	}
	a.ownerElement = nil
	a.ownerDoc = e.ownerDoc
	e.AsNode().nodeDocument().touch()
}

// FirstElementChild returns the first child element of n.
func (n *Node) FirstElementChild() *Element {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// LastElementChild returns the last child element of n.
func (n *Node) LastElementChild() *Element {
	for c := n.lastChild; c != nil; c = c.prevSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// PreviousElementSibling returns the closest preceding sibling element.
func (n *Node) PreviousElementSibling() *Element {
	for s := n.prevSibling; s != nil; s = s.prevSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// NextElementSibling returns the closest following sibling element.
func (n *Node) NextElementSibling() *Element {
	for s := n.nextSibling; s != nil; s = s.nextSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// ChildElementCount returns the number of child elements.
func (n *Node) ChildElementCount() int {
	count := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			count++
		}
	}
	return count
}

// Children returns a live collection of child elements.
func (n *Node) Children() *HTMLCollection {
	return newHTMLCollection(n, false, func(*Element) bool { return true })
}

// GetElementsByTagName returns a live collection of descendant elements with
// the qualified name, or all elements for "*".
func (n *Node) GetElementsByTagName(qualifiedName string) *HTMLCollection {
	lower := asciiLower(qualifiedName)
	return newHTMLCollection(n, true, func(el *Element) bool {
		if qualifiedName == "*" {
			return true
		}
		if el.isHTMLInHTMLDocument() {
			return el.nodeName == lower
		}
		return el.nodeName == qualifiedName
	})
}

// GetElementsByTagNameNS returns descendants matching namespace and local
// name, where "*" matches anything.
func (n *Node) GetElementsByTagNameNS(namespaceURI, localName string) *HTMLCollection {
	return newHTMLCollection(n, true, func(el *Element) bool {
		return (namespaceURI == "*" || el.element.namespaceURI == namespaceURI) &&
			(localName == "*" || el.element.localName == localName)
	})
}

// GetElementsByClassName returns descendants that have all the classes.
func (n *Node) GetElementsByClassName(classNames string) *HTMLCollection {
	classes := splitTokens(classNames)
	return newHTMLCollection(n, true, func(el *Element) bool {
		if len(classes) == 0 {
			return false
		}
		for _, c := range classes {
			if !el.HasClass(c) {
				return false
			}
		}
		return true
	})
}
