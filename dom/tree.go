package dom

// NextInTree returns the node following n in tree order, staying within the
// subtree rooted at root. A nil root means the whole tree.
func (n *Node) NextInTree(root *Node) *Node {
	if n.firstChild != nil {
		return n.firstChild
	}
	return n.nextSkippingChildren(root)
}

// nextSkippingChildren returns the following node in tree order that is not
// a descendant of n.
func (n *Node) nextSkippingChildren(root *Node) *Node {
	for node := n; node != nil && node != root; node = node.parentNode {
		if node.nextSibling != nil {
			return node.nextSibling
		}
	}
	return nil
}

// PreviousInTree returns the node preceding n in tree order, staying within
// the subtree rooted at root.
func (n *Node) PreviousInTree(root *Node) *Node {
	if n == root {
		return nil
	}
	if p := n.prevSibling; p != nil {
		for p.lastChild != nil {
			p = p.lastChild
		}
		return p
	}
	return n.parentNode
}

// Descendants calls fn for each descendant of n in tree order until fn
// returns false.
func (n *Node) Descendants(fn func(*Node) bool) {
	for node := n.firstChild; node != nil; node = node.NextInTree(n) {
		if !fn(node) {
			return
		}
	}
}

func (n *Node) ancestors() []*Node {
	var chain []*Node
	for node := n; node != nil; node = node.parentNode {
		chain = append(chain, node)
	}
	return chain
}

// treeOrder returns -1 when a precedes b, 1 when a follows b and 0 when they
// are the same node. Nodes in different trees compare by pointer-stable
// fallback on their roots and should not be relied on.
func treeOrder(a, b *Node) int {
	if a == b {
		return 0
	}
	ca := a.ancestors()
	cb := b.ancestors()
	i, j := len(ca)-1, len(cb)-1
	if ca[i] != cb[j] {
		return 1
	}
	for i >= 0 && j >= 0 && ca[i] == cb[j] {
		i--
		j--
	}
	if i < 0 {
		// a is an ancestor of b
		return -1
	}
	if j < 0 {
		return 1
	}
	// ca[i] and cb[j] are siblings
	for s := ca[i].nextSibling; s != nil; s = s.nextSibling {
		if s == cb[j] {
			return -1
		}
	}
	return 1
}

// TreeOrder compares two nodes of the same tree: -1 when a precedes b, 1
// when a follows b, 0 when equal.
func TreeOrder(a, b *Node) int {
	return treeOrder(a, b)
}

// CompareDocumentPosition returns the position bitmask of other relative to n.
// https://dom.spec.whatwg.org/#dom-node-comparedocumentposition
func (n *Node) CompareDocumentPosition(other *Node) uint16 {
	if n == other {
		return 0
	}
	if other == nil || n.GetRootNode() != other.GetRootNode() {
		// Consistent ordering for disconnected nodes.
		order := DocumentPositionPreceding
		if other != nil && nodeSerial(other) > nodeSerial(n) {
			order = DocumentPositionFollowing
		}
		return DocumentPositionDisconnected | DocumentPositionImplementationSpecific | order
	}
	if other.Contains(n) {
		return DocumentPositionContains | DocumentPositionPreceding
	}
	if n.Contains(other) {
		return DocumentPositionContainedBy | DocumentPositionFollowing
	}
	if treeOrder(other, n) < 0 {
		return DocumentPositionPreceding
	}
	return DocumentPositionFollowing
}

// IsEqualNode reports whether two nodes are equal per the DOM standard.
func (n *Node) IsEqualNode(other *Node) bool {
	if other == nil || n.nodeType != other.nodeType {
		return false
	}
	switch n.nodeType {
	case DocumentTypeNode:
		if n.doctype.name != other.doctype.name || n.doctype.publicID != other.doctype.publicID ||
			n.doctype.systemID != other.doctype.systemID {
			return false
		}
	case ElementNode:
		a, b := n.element, other.element
		if a.namespaceURI != b.namespaceURI || a.prefix != b.prefix || a.localName != b.localName ||
			len(a.attributes.attrs) != len(b.attributes.attrs) {
			return false
		}
		for _, attr := range a.attributes.attrs {
			o := b.attributes.GetNamedItemNS(attr.namespaceURI, attr.localName)
			if o == nil || o.value != attr.value {
				return false
			}
		}
	case ProcessingInstructionNode:
		if n.nodeName != other.nodeName || n.data != other.data {
			return false
		}
	case TextNode, CDATASectionNode, CommentNode:
		if n.data != other.data {
			return false
		}
	}
	c1, c2 := n.firstChild, other.firstChild
	for c1 != nil && c2 != nil {
		if !c1.IsEqualNode(c2) {
			return false
		}
		c1, c2 = c1.nextSibling, c2.nextSibling
	}
	return c1 == nil && c2 == nil
}

// CloneNode returns a copy of n; children are copied when deep is true.
// https://dom.spec.whatwg.org/#concept-node-clone
func (n *Node) CloneNode(deep bool) *Node {
	return n.cloneInto(n.nodeDocument(), deep)
}

func (n *Node) cloneInto(doc *Document, deep bool) *Node {
	var clone *Node
	switch n.nodeType {
	case DocumentNode:
		src := n.AsDocument()
		d := newDocument(src.document.contentType, src.document.isHTML)
		d.document.url = src.document.url
		d.document.characterSet = src.document.characterSet
		clone = d.AsNode()
		doc = d
	case ElementNode:
		src := n.AsElement()
		el := newElement(doc, src.element.namespaceURI, src.element.prefix, src.element.localName)
		for _, attr := range src.element.attributes.attrs {
			el.element.attributes.append(&Attr{
				namespaceURI: attr.namespaceURI,
				prefix:       attr.prefix,
				localName:    attr.localName,
				value:        attr.value,
			})
		}
		clone = el.AsNode()
	case DocumentTypeNode:
		clone = newNode(DocumentTypeNode, n.nodeName, doc)
		dt := *n.doctype
		clone.doctype = &dt
	default:
		clone = newNode(n.nodeType, n.nodeName, doc)
		clone.data = n.data
	}
	if deep {
		for c := n.firstChild; c != nil; c = c.nextSibling {
			clone.link(c.cloneInto(doc, true), nil)
		}
	}
	return clone
}
