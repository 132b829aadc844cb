package dom

// FilterResult is the value returned by a NodeFilter.
type FilterResult uint16

const (
	FilterAccept FilterResult = 1
	FilterReject FilterResult = 2
	FilterSkip   FilterResult = 3
)

// whatToShow bits.
const (
	ShowAll                   uint32 = 0xFFFFFFFF
	ShowElement               uint32 = 0x1
	ShowAttribute             uint32 = 0x2
	ShowText                  uint32 = 0x4
	ShowCDATASection          uint32 = 0x8
	ShowEntityReference       uint32 = 0x10
	ShowEntity                uint32 = 0x20
	ShowProcessingInstruction uint32 = 0x40
	ShowComment               uint32 = 0x80
	ShowDocument              uint32 = 0x100
	ShowDocumentType          uint32 = 0x200
	ShowDocumentFragment      uint32 = 0x400
	ShowNotation              uint32 = 0x800
)

// NodeFilter decides whether a traversal object exposes a node. An error
// aborts the traversal and is returned to the caller unchanged.
type NodeFilter interface {
	AcceptNode(node *Node) (FilterResult, error)
}

// NodeFilterFunc adapts a function to NodeFilter.
type NodeFilterFunc func(node *Node) (FilterResult, error)

func (f NodeFilterFunc) AcceptNode(node *Node) (FilterResult, error) {
	return f(node)
}

// traverser holds the state shared by TreeWalker and NodeIterator.
type traverser struct {
	root       *Node
	whatToShow uint32
	filter     NodeFilter
	active     bool
}

// filterNode runs whatToShow and then the filter.
// https://dom.spec.whatwg.org/#concept-node-filter
func (t *traverser) filterNode(node *Node) (FilterResult, error) {
	if t.active {
		return 0, ErrInvalidState("The filter is already running.")
	}
	if t.whatToShow&(1<<(uint(node.nodeType)-1)) == 0 {
		return FilterSkip, nil
	}
	if t.filter == nil {
		return FilterAccept, nil
	}
	t.active = true
	result, err := t.filter.AcceptNode(node)
	t.active = false
	return result, err
}

func (t *traverser) Root() *Node        { return t.root }
func (t *traverser) WhatToShow() uint32 { return t.whatToShow }
func (t *traverser) Filter() NodeFilter { return t.filter }

// TreeWalker walks the subtree of root, exposing the nodes accepted by
// whatToShow and the filter.
// https://dom.spec.whatwg.org/#interface-treewalker
type TreeWalker struct {
	traverser
	current *Node
}

// CreateTreeWalker creates a TreeWalker rooted at root.
func (d *Document) CreateTreeWalker(root *Node, whatToShow uint32, filter NodeFilter) (*TreeWalker, error) {
	if root == nil {
		return nil, ErrType("parameter 1 is not of type 'Node'.")
	}
	return &TreeWalker{
		traverser: traverser{root: root, whatToShow: whatToShow, filter: filter},
		current:   root,
	}, nil
}

func (tw *TreeWalker) CurrentNode() *Node { return tw.current }

// SetCurrentNode moves the walker to node, which may be outside root.
func (tw *TreeWalker) SetCurrentNode(node *Node) error {
	if node == nil {
		return ErrType("The provided value is not of type 'Node'.")
	}
	tw.current = node
	return nil
}

// ParentNode moves to the closest accepted ancestor within root.
func (tw *TreeWalker) ParentNode() (*Node, error) {
	node := tw.current
	for node != nil && node != tw.root {
		node = node.parentNode
		if node == nil {
			break
		}
		result, err := tw.filterNode(node)
		if err != nil {
			return nil, err
		}
		if result == FilterAccept {
			tw.current = node
			return node, nil
		}
	}
	return nil, nil
}

func (tw *TreeWalker) FirstChild() (*Node, error) { return tw.traverseChildren(true) }
func (tw *TreeWalker) LastChild() (*Node, error)  { return tw.traverseChildren(false) }

// https://dom.spec.whatwg.org/#concept-traverse-children
func (tw *TreeWalker) traverseChildren(first bool) (*Node, error) {
	child := func(n *Node) *Node {
		if first {
			return n.firstChild
		}
		return n.lastChild
	}
	sibling := func(n *Node) *Node {
		if first {
			return n.nextSibling
		}
		return n.prevSibling
	}

	node := child(tw.current)
	for node != nil {
		result, err := tw.filterNode(node)
		if err != nil {
			return nil, err
		}
		if result == FilterAccept {
			tw.current = node
			return node, nil
		}
		if result == FilterSkip {
			if c := child(node); c != nil {
				node = c
				continue
			}
		}
		for node != nil {
			if s := sibling(node); s != nil {
				node = s
				break
			}
			parent := node.parentNode
			if parent == nil || parent == tw.root || parent == tw.current {
				return nil, nil
			}
			node = parent
		}
	}
	return nil, nil
}

func (tw *TreeWalker) NextSibling() (*Node, error)     { return tw.traverseSiblings(true) }
func (tw *TreeWalker) PreviousSibling() (*Node, error) { return tw.traverseSiblings(false) }

// https://dom.spec.whatwg.org/#concept-traverse-siblings
func (tw *TreeWalker) traverseSiblings(next bool) (*Node, error) {
	sibling := func(n *Node) *Node {
		if next {
			return n.nextSibling
		}
		return n.prevSibling
	}
	child := func(n *Node) *Node {
		if next {
			return n.firstChild
		}
		return n.lastChild
	}

	node := tw.current
	if node == tw.root {
		return nil, nil
	}
	for {
		s := sibling(node)
		for s != nil {
			node = s
			result, err := tw.filterNode(node)
			if err != nil {
				return nil, err
			}
			if result == FilterAccept {
				tw.current = node
				return node, nil
			}
			s = child(node)
			if result == FilterReject || s == nil {
				s = sibling(node)
			}
		}
		node = node.parentNode
		if node == nil || node == tw.root {
			return nil, nil
		}
		result, err := tw.filterNode(node)
		if err != nil {
			return nil, err
		}
		if result == FilterAccept {
			return nil, nil
		}
	}
}

// PreviousNode moves to the previous accepted node in tree order.
func (tw *TreeWalker) PreviousNode() (*Node, error) {
	node := tw.current
	for node != tw.root {
		s := node.prevSibling
		for s != nil {
			node = s
			result, err := tw.filterNode(node)
			if err != nil {
				return nil, err
			}
			for result != FilterReject && node.lastChild != nil {
				node = node.lastChild
				if result, err = tw.filterNode(node); err != nil {
					return nil, err
				}
			}
			if result == FilterAccept {
				tw.current = node
				return node, nil
			}
			s = node.prevSibling
		}
		if node == tw.root || node.parentNode == nil {
			return nil, nil
		}
		node = node.parentNode
		result, err := tw.filterNode(node)
		if err != nil {
			return nil, err
		}
		if result == FilterAccept {
			tw.current = node
			return node, nil
		}
	}
	return nil, nil
}

// NextNode moves to the next accepted node in tree order.
func (tw *TreeWalker) NextNode() (*Node, error) {
	node := tw.current
	result := FilterAccept
	for {
		for result != FilterReject && node.firstChild != nil {
			node = node.firstChild
			var err error
			if result, err = tw.filterNode(node); err != nil {
				return nil, err
			}
			if result == FilterAccept {
				tw.current = node
				return node, nil
			}
		}
		var next *Node
		for tmp := node; tmp != nil; tmp = tmp.parentNode {
			if tmp == tw.root {
				return nil, nil
			}
			if tmp.nextSibling != nil {
				next = tmp.nextSibling
				break
			}
		}
		if next == nil {
			return nil, nil
		}
		node = next
		var err error
		if result, err = tw.filterNode(node); err != nil {
			return nil, err
		}
		if result == FilterAccept {
			tw.current = node
			return node, nil
		}
	}
}

// NodeIterator iterates over the accepted nodes of root's subtree in tree
// order, tracking a reference node across removals.
// https://dom.spec.whatwg.org/#interface-nodeiterator
type NodeIterator struct {
	traverser
	reference     *Node
	pointerBefore bool
}

// CreateNodeIterator creates a NodeIterator and registers it with the
// document so that removals adjust it.
func (d *Document) CreateNodeIterator(root *Node, whatToShow uint32, filter NodeFilter) (*NodeIterator, error) {
	if root == nil {
		return nil, ErrType("parameter 1 is not of type 'Node'.")
	}
	it := &NodeIterator{
		traverser:     traverser{root: root, whatToShow: whatToShow, filter: filter},
		reference:     root,
		pointerBefore: true,
	}
	doc := root.nodeDocument()
	doc.document.iterators = append(doc.document.iterators, it)
	return it, nil
}

func (it *NodeIterator) ReferenceNode() *Node { return it.reference }

func (it *NodeIterator) PointerBeforeReferenceNode() bool { return it.pointerBefore }

// Detach does nothing; it remains for compatibility.
func (it *NodeIterator) Detach() {}

func (it *NodeIterator) NextNode() (*Node, error)     { return it.traverse(true) }
func (it *NodeIterator) PreviousNode() (*Node, error) { return it.traverse(false) }

// https://dom.spec.whatwg.org/#concept-nodeiterator-traverse
func (it *NodeIterator) traverse(next bool) (*Node, error) {
	node := it.reference
	before := it.pointerBefore
	for {
		if next {
			if !before {
				node = node.NextInTree(it.root)
				if node == nil {
					return nil, nil
				}
			} else {
				before = false
			}
		} else {
			if before {
				node = node.PreviousInTree(it.root)
				if node == nil {
					return nil, nil
				}
			} else {
				before = true
			}
		}
		result, err := it.filterNode(node)
		if err != nil {
			return nil, err
		}
		if result == FilterAccept {
			break
		}
	}
	it.reference = node
	it.pointerBefore = before
	return node, nil
}

// preRemove runs the NodeIterator pre-removing steps for a node about to be
// removed from the tree.
// https://dom.spec.whatwg.org/#nodeiterator-pre-removing-steps
func (it *NodeIterator) preRemove(toBeRemoved *Node) {
	if !toBeRemoved.isInclusiveAncestorOf(it.reference) || toBeRemoved == it.root {
		return
	}
	if it.pointerBefore {
		if next := toBeRemoved.nextSkippingChildren(it.root); next != nil {
			it.reference = next
			return
		}
		it.pointerBefore = false
	}
	prev := toBeRemoved.prevSibling
	if prev == nil {
		it.reference = toBeRemoved.parentNode
		return
	}
	for prev.lastChild != nil {
		prev = prev.lastChild
	}
	it.reference = prev
}
