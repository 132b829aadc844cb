package dom

// AppendChild appends child to n's children.
// https://dom.spec.whatwg.org/#dom-node-appendchild
func (n *Node) AppendChild(child *Node) (*Node, error) {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts node before child, or appends it when child is nil.
// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (n *Node) InsertBefore(node, child *Node) (*Node, error) {
	if node == nil {
		return nil, ErrType("parameter 1 is not of type 'Node'.")
	}
	if err := n.ensurePreInsertionValidity(node, child, nil); err != nil {
		return nil, err
	}
	ref := child
	if ref == node {
		ref = node.nextSibling
	}
	n.insert(node, ref)
	return node, nil
}

// RemoveChild removes child from n.
func (n *Node) RemoveChild(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrType("parameter 1 is not of type 'Node'.")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.remove(child)
	return child, nil
}

// ReplaceChild replaces child with node and returns child.
// https://dom.spec.whatwg.org/#concept-node-replace
func (n *Node) ReplaceChild(node, child *Node) (*Node, error) {
	if node == nil || child == nil {
		return nil, ErrType("parameter is not of type 'Node'.")
	}
	if err := n.ensurePreInsertionValidity(node, child, child); err != nil {
		return nil, err
	}
	ref := child.nextSibling
	if ref == node {
		ref = node.nextSibling
	}
	if child != node {
		n.remove(child)
	}
	n.insert(node, ref)
	return child, nil
}

// Remove detaches the node from its parent, if any.
func (n *Node) Remove() {
	if n.parentNode != nil {
		n.parentNode.remove(n)
	}
}

func (n *Node) canHaveChildren() bool {
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
		return true
	}
	return false
}

// ensurePreInsertionValidity runs the pre-insert checks. For replacement
// calls, replaced is the child being replaced and is ignored when counting
// the document's element and doctype children.
func (n *Node) ensurePreInsertionValidity(node, child, replaced *Node) error {
	if !n.canHaveChildren() {
		return ErrHierarchyRequest("This node type does not support children.")
	}
	if node.isInclusiveAncestorOf(n) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && child.parentNode != n {
		if replaced != nil {
			return ErrNotFound("The node to be replaced is not a child of this node.")
		}
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	switch node.nodeType {
	case DocumentFragmentNode, DocumentTypeNode, ElementNode, TextNode,
		CDATASectionNode, ProcessingInstructionNode, CommentNode:
	default:
		return ErrHierarchyRequest("Nodes of type '" + node.NodeName() + "' may not be inserted inside nodes of type '" + n.NodeName() + "'.")
	}
	if (node.nodeType == TextNode || node.nodeType == CDATASectionNode) && n.nodeType == DocumentNode {
		return ErrHierarchyRequest("Nodes of type '#text' may not be inserted inside nodes of type '#document'.")
	}
	if node.nodeType == DocumentTypeNode && n.nodeType != DocumentNode {
		return ErrHierarchyRequest("Nodes of type '" + node.NodeName() + "' may not be inserted inside nodes of type '" + n.NodeName() + "'.")
	}
	if n.nodeType != DocumentNode {
		return nil
	}
	return n.ensureDocumentChildValidity(node, child, replaced)
}

func (n *Node) ensureDocumentChildValidity(node, child, replaced *Node) error {
	elementAfter := func(child *Node) bool {
		for c := child; c != nil; c = c.nextSibling {
			if c.nodeType == ElementNode && c != replaced {
				return false
			}
		}
		return true
	}
	switch node.nodeType {
	case DocumentFragmentNode:
		elements := 0
		for c := node.firstChild; c != nil; c = c.nextSibling {
			switch c.nodeType {
			case ElementNode:
				elements++
			case TextNode, CDATASectionNode:
				return ErrHierarchyRequest("Nodes of type '#text' may not be inserted inside nodes of type '#document'.")
			}
		}
		if elements > 1 {
			return ErrHierarchyRequest("Only one element on document allowed.")
		}
		if elements == 1 {
			if n.hasChildOfTypeExcept(ElementNode, replaced) {
				return ErrHierarchyRequest("Only one element on document allowed.")
			}
			if child != nil && (child.nodeType == DocumentTypeNode && child != replaced || n.doctypeFollows(child, replaced)) {
				return ErrHierarchyRequest("Cannot insert an element before a doctype.")
			}
		}
	case ElementNode:
		if n.hasChildOfTypeExcept(ElementNode, replaced) {
			return ErrHierarchyRequest("Only one element on document allowed.")
		}
		if child != nil && (child.nodeType == DocumentTypeNode && child != replaced || n.doctypeFollows(child, replaced)) {
			return ErrHierarchyRequest("Cannot insert an element before a doctype.")
		}
	case DocumentTypeNode:
		if n.hasChildOfTypeExcept(DocumentTypeNode, replaced) {
			return ErrHierarchyRequest("Only one doctype on document allowed.")
		}
		if child != nil {
			for c := n.firstChild; c != nil && c != child; c = c.nextSibling {
				if c.nodeType == ElementNode && c != replaced {
					return ErrHierarchyRequest("Cannot insert a doctype after an element.")
				}
			}
		} else if !elementAfter(n.firstChild) {
			return ErrHierarchyRequest("Cannot insert a doctype after an element.")
		}
	}
	return nil
}

func (n *Node) hasChildOfTypeExcept(t NodeType, except *Node) bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == t && c != except {
			return true
		}
	}
	return false
}

func (n *Node) doctypeFollows(child, except *Node) bool {
	for c := child.nextSibling; c != nil; c = c.nextSibling {
		if c.nodeType == DocumentTypeNode && c != except {
			return true
		}
	}
	return false
}

// insert links node (or the children of a fragment) before ref without
// validation and runs the live range adjustments.
// https://dom.spec.whatwg.org/#concept-node-insert
func (n *Node) insert(node, ref *Node) {
	var nodes []*Node
	if node.nodeType == DocumentFragmentNode {
		for c := node.firstChild; c != nil; c = c.nextSibling {
			nodes = append(nodes, c)
		}
		for _, c := range nodes {
			node.remove(c)
		}
	} else {
		if node.parentNode != nil {
			node.parentNode.remove(node)
		}
		nodes = []*Node{node}
	}
	if len(nodes) == 0 {
		return
	}

	doc := n.nodeDocument()
	if ref != nil {
		doc.liveRanges().adjustForInsert(n, ref.Index(), len(nodes))
	}
	for _, c := range nodes {
		if c.ownerDoc != doc {
			adopt(c, doc)
		}
		n.link(c, ref)
	}
	doc.touch()
}

func (n *Node) link(c, ref *Node) {
	c.parentNode = n
	if ref == nil {
		c.prevSibling = n.lastChild
		c.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = c
		} else {
			n.firstChild = c
		}
		n.lastChild = c
		return
	}
	c.prevSibling = ref.prevSibling
	c.nextSibling = ref
	if ref.prevSibling != nil {
		ref.prevSibling.nextSibling = c
	} else {
		n.firstChild = c
	}
	ref.prevSibling = c
}

// remove unlinks child from n, running the range and node iterator
// pre-removal steps.
// https://dom.spec.whatwg.org/#concept-node-remove
func (n *Node) remove(child *Node) {
	doc := n.nodeDocument()
	index := child.Index()
	doc.liveRanges().adjustForRemove(n, child, index)
	for _, it := range doc.document.iterators {
		it.preRemove(child)
	}

	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
	doc.touch()
}

// replaceAll removes all children and inserts node, if any.
// https://dom.spec.whatwg.org/#concept-node-replace-all
func (n *Node) replaceAll(node *Node) {
	for n.firstChild != nil {
		n.remove(n.firstChild)
	}
	if node != nil {
		n.insert(node, nil)
	}
}

// adopt moves a subtree into doc.
func adopt(node *Node, doc *Document) {
	if node.parentNode != nil && node.parentNode.nodeDocument() != doc {
		node.parentNode.remove(node)
	}
	var walk func(*Node)
	walk = func(c *Node) {
		c.ownerDoc = doc
		for cc := c.firstChild; cc != nil; cc = cc.nextSibling {
			walk(cc)
		}
	}
	walk(node)
}

// convertNodesToNode implements "converting nodes into a node" for the
// ParentNode/ChildNode mixins. Items are *Node or string.
func (n *Node) convertNodesToNode(items []interface{}) *Node {
	doc := n.nodeDocument()
	toNode := func(item interface{}) *Node {
		switch v := item.(type) {
		case *Node:
			return v
		case string:
			return doc.CreateTextNode(v)
		}
		return nil
	}
	if len(items) == 1 {
		return toNode(items[0])
	}
	frag := doc.CreateDocumentFragment().AsNode()
	for _, item := range items {
		if node := toNode(item); node != nil {
			frag.insert(node, nil)
		}
	}
	return frag
}

// Append inserts nodes or strings after the last child.
func (n *Node) Append(items ...interface{}) error {
	node := n.convertNodesToNode(items)
	if node == nil {
		return nil
	}
	_, err := n.AppendChild(node)
	return err
}

// Prepend inserts nodes or strings before the first child.
func (n *Node) Prepend(items ...interface{}) error {
	node := n.convertNodesToNode(items)
	if node == nil {
		return nil
	}
	_, err := n.InsertBefore(node, n.firstChild)
	return err
}

// ReplaceChildren replaces all children with the given nodes or strings.
func (n *Node) ReplaceChildren(items ...interface{}) error {
	node := n.convertNodesToNode(items)
	if node != nil {
		if err := n.ensurePreInsertionValidity(node, nil, nil); err != nil {
			return err
		}
	}
	n.replaceAll(node)
	return nil
}

func excluded(items []interface{}) map[*Node]bool {
	set := make(map[*Node]bool)
	for _, item := range items {
		if node, ok := item.(*Node); ok {
			set[node] = true
		}
	}
	return set
}

// Before inserts nodes or strings before n.
func (n *Node) Before(items ...interface{}) error {
	parent := n.parentNode
	if parent == nil {
		return nil
	}
	set := excluded(items)
	prev := n.prevSibling
	for prev != nil && set[prev] {
		prev = prev.prevSibling
	}
	node := n.convertNodesToNode(items)
	if node == nil {
		return nil
	}
	ref := parent.firstChild
	if prev != nil {
		ref = prev.nextSibling
	}
	_, err := parent.InsertBefore(node, ref)
	return err
}

// After inserts nodes or strings after n.
func (n *Node) After(items ...interface{}) error {
	parent := n.parentNode
	if parent == nil {
		return nil
	}
	set := excluded(items)
	next := n.nextSibling
	for next != nil && set[next] {
		next = next.nextSibling
	}
	node := n.convertNodesToNode(items)
	if node == nil {
		return nil
	}
	_, err := parent.InsertBefore(node, next)
	return err
}

// ReplaceWith replaces n with nodes or strings.
func (n *Node) ReplaceWith(items ...interface{}) error {
	parent := n.parentNode
	if parent == nil {
		return nil
	}
	set := excluded(items)
	next := n.nextSibling
	for next != nil && set[next] {
		next = next.nextSibling
	}
	node := n.convertNodesToNode(items)
	if n.parentNode == parent {
		if node == nil {
			parent.remove(n)
			return nil
		}
		_, err := parent.ReplaceChild(node, n)
		return err
	}
	if node == nil {
		return nil
	}
	_, err := parent.InsertBefore(node, next)
	return err
}

// Normalize removes empty Text nodes and merges adjacent ones, adjusting
// live ranges as the DOM standard requires.
func (n *Node) Normalize() {
	var texts []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.firstChild; c != nil; c = c.nextSibling {
			if c.nodeType == TextNode {
				texts = append(texts, c)
			} else {
				walk(c)
			}
		}
	}
	walk(n)

	doc := n.nodeDocument()
	for _, text := range texts {
		if text.parentNode == nil {
			continue
		}
		if text.Length() == 0 {
			text.parentNode.remove(text)
			continue
		}
		if text.prevSibling != nil && text.prevSibling.nodeType == TextNode {
			continue
		}
		length := text.Length()
		var merged []*Node
		for s := text.nextSibling; s != nil && s.nodeType == TextNode; s = s.nextSibling {
			merged = append(merged, s)
		}
		if len(merged) == 0 {
			continue
		}
		var data string
		for _, s := range merged {
			data += s.data
		}
		text.AsCharacterData().replaceData(length, 0, data)
		for _, s := range merged {
			doc.liveRanges().adjustForMerge(text, s, length)
			length += s.Length()
			s.parentNode.remove(s)
		}
	}
}
