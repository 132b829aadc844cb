package dom

// Attr is an attribute of an element. Attributes are not part of the node
// tree; they are reachable through their owner element.
// https://dom.spec.whatwg.org/#interface-attr
type Attr struct {
	namespaceURI string
	prefix       string
	localName    string
	value        string
	ownerElement *Element
	ownerDoc     *Document
}

func (a *Attr) NamespaceURI() string { return a.namespaceURI }
func (a *Attr) Prefix() string       { return a.prefix }
func (a *Attr) LocalName() string    { return a.localName }
func (a *Attr) Value() string        { return a.value }

// Name returns the qualified name.
func (a *Attr) Name() string {
	if a.prefix != "" {
		return a.prefix + ":" + a.localName
	}
	return a.localName
}

// SetValue changes the value, going through the owner element so that
// attribute side effects run.
func (a *Attr) SetValue(value string) {
	if a.ownerElement == nil {
		a.value = value
		return
	}
	a.ownerElement.changeAttribute(a, value)
}

// OwnerElement returns the element the attribute belongs to, or nil.
func (a *Attr) OwnerElement() *Element {
	return a.ownerElement
}

// OwnerDocument returns the document of the attribute.
func (a *Attr) OwnerDocument() *Document {
	if a.ownerElement != nil {
		return a.ownerElement.AsNode().ownerDoc
	}
	return a.ownerDoc
}

// NamedNodeMap is the ordered attribute list of an element.
// https://dom.spec.whatwg.org/#interface-namednodemap
type NamedNodeMap struct {
	owner *Element
	attrs []*Attr
}

func newNamedNodeMap(owner *Element) *NamedNodeMap {
	return &NamedNodeMap{owner: owner}
}

// Length returns the number of attributes.
func (m *NamedNodeMap) Length() int {
	return len(m.attrs)
}

// Item returns the attribute at index, or nil.
func (m *NamedNodeMap) Item(index int) *Attr {
	if index < 0 || index >= len(m.attrs) {
		return nil
	}
	return m.attrs[index]
}

// Attrs returns the attributes in order. The slice must not be modified.
func (m *NamedNodeMap) Attrs() []*Attr {
	return m.attrs
}

// GetNamedItem returns the first attribute whose qualified name matches.
func (m *NamedNodeMap) GetNamedItem(name string) *Attr {
	if m.owner.isHTMLInHTMLDocument() {
		name = asciiLower(name)
	}
	for _, a := range m.attrs {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// GetNamedItemNS returns the attribute with the namespace and local name.
func (m *NamedNodeMap) GetNamedItemNS(namespaceURI, localName string) *Attr {
	for _, a := range m.attrs {
		if a.namespaceURI == namespaceURI && a.localName == localName {
			return a
		}
	}
	return nil
}

// SetNamedItem sets attr, returning the attribute it replaced.
func (m *NamedNodeMap) SetNamedItem(attr *Attr) (*Attr, error) {
	return m.owner.SetAttributeNode(attr)
}

// RemoveNamedItem removes the attribute by qualified name.
func (m *NamedNodeMap) RemoveNamedItem(name string) (*Attr, error) {
	a := m.GetNamedItem(name)
	if a == nil {
		return nil, ErrNotFound("No item with name '" + name + "' was found.")
	}
	m.owner.removeAttr(a)
	return a, nil
}

// RemoveNamedItemNS removes the attribute by namespace and local name.
func (m *NamedNodeMap) RemoveNamedItemNS(namespaceURI, localName string) (*Attr, error) {
	a := m.GetNamedItemNS(namespaceURI, localName)
	if a == nil {
		return nil, ErrNotFound("No item with name '" + localName + "' was found.")
	}
	m.owner.removeAttr(a)
	return a, nil
}

func (m *NamedNodeMap) append(a *Attr) {
	a.ownerElement = m.owner
	m.attrs = append(m.attrs, a)
}

func (m *NamedNodeMap) indexOf(a *Attr) int {
	for i, x := range m.attrs {
		if x == a {
			return i
		}
	}
	return -1
}
