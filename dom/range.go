package dom

import "strings"

// Range constants for CompareBoundaryPoints.
const (
	StartToStart = 0
	StartToEnd   = 1
	EndToEnd     = 2
	EndToStart   = 3
)

type boundaryPoint struct {
	node   *Node
	offset int
}

// Range is a live range: its boundary points follow tree mutations.
// https://dom.spec.whatwg.org/#interface-range
type Range struct {
	start boundaryPoint
	end   boundaryPoint
	doc   *Document
}

// newRange creates a range collapsed at (doc, 0) and registers it with the
// document so that mutations update it.
func newRange(doc *Document) *Range {
	r := &Range{
		start: boundaryPoint{doc.AsNode(), 0},
		end:   boundaryPoint{doc.AsNode(), 0},
		doc:   doc,
	}
	doc.liveRanges().register(r)
	return r
}

// NewRange is Document.CreateRange.
func NewRange(doc *Document) *Range {
	return newRange(doc)
}

func (r *Range) StartContainer() *Node { return r.start.node }
func (r *Range) StartOffset() int      { return r.start.offset }
func (r *Range) EndContainer() *Node   { return r.end.node }
func (r *Range) EndOffset() int        { return r.end.offset }

// Collapsed reports whether start and end are the same boundary point.
func (r *Range) Collapsed() bool {
	return r.start == r.end
}

func (r *Range) root() *Node {
	return r.start.node.GetRootNode()
}

// CommonAncestorContainer returns the deepest node that is an inclusive
// ancestor of both boundary containers.
func (r *Range) CommonAncestorContainer() *Node {
	container := r.start.node
	for !container.isInclusiveAncestorOf(r.end.node) {
		container = container.parentNode
	}
	return container
}

// comparePoints returns -1, 0 or 1 for the position of (a, offsetA)
// relative to (b, offsetB). Both nodes must share a root.
// https://dom.spec.whatwg.org/#concept-range-bp-position
func comparePoints(a *Node, offsetA int, b *Node, offsetB int) int {
	if a == b {
		switch {
		case offsetA < offsetB:
			return -1
		case offsetA > offsetB:
			return 1
		}
		return 0
	}
	if treeOrder(a, b) > 0 {
		return -comparePoints(b, offsetB, a, offsetA)
	}
	if a.isInclusiveAncestorOf(b) {
		child := b
		for child.parentNode != a {
			child = child.parentNode
		}
		if child.Index() < offsetA {
			return 1
		}
	}
	return -1
}

func (r *Range) setBoundary(node *Node, offset int, start bool) error {
	if node == nil {
		return ErrType("parameter 1 is not of type 'Node'.")
	}
	if node.nodeType == DocumentTypeNode {
		return ErrInvalidNodeType("The node provided is of type '" + node.NodeName() + "'.")
	}
	if offset < 0 || offset > node.Length() {
		return ErrIndexSize("There is no child at offset " + itoa(offset) + ".")
	}
	bp := boundaryPoint{node, offset}
	sameRoot := r.root() == node.GetRootNode()
	if start {
		if !sameRoot || comparePoints(node, offset, r.end.node, r.end.offset) > 0 {
			r.end = bp
		}
		r.start = bp
		return nil
	}
	if !sameRoot || comparePoints(node, offset, r.start.node, r.start.offset) < 0 {
		r.start = bp
	}
	r.end = bp
	return nil
}

// SetStart sets the start boundary point. The range collapses to it when it
// is after the end or in another tree.
func (r *Range) SetStart(node *Node, offset int) error {
	return r.setBoundary(node, offset, true)
}

// SetEnd sets the end boundary point.
func (r *Range) SetEnd(node *Node, offset int) error {
	return r.setBoundary(node, offset, false)
}

func parentAndIndex(node *Node) (*Node, int, error) {
	if node == nil {
		return nil, 0, ErrType("parameter 1 is not of type 'Node'.")
	}
	if node.parentNode == nil {
		return nil, 0, ErrInvalidNodeType("the given Node has no parent.")
	}
	return node.parentNode, node.Index(), nil
}

func (r *Range) SetStartBefore(node *Node) error {
	parent, index, err := parentAndIndex(node)
	if err != nil {
		return err
	}
	return r.SetStart(parent, index)
}

func (r *Range) SetStartAfter(node *Node) error {
	parent, index, err := parentAndIndex(node)
	if err != nil {
		return err
	}
	return r.SetStart(parent, index+1)
}

func (r *Range) SetEndBefore(node *Node) error {
	parent, index, err := parentAndIndex(node)
	if err != nil {
		return err
	}
	return r.SetEnd(parent, index)
}

func (r *Range) SetEndAfter(node *Node) error {
	parent, index, err := parentAndIndex(node)
	if err != nil {
		return err
	}
	return r.SetEnd(parent, index+1)
}

// Collapse collapses the range to its start (toStart) or end.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.end = r.start
	} else {
		r.start = r.end
	}
}

// SelectNode selects node itself.
func (r *Range) SelectNode(node *Node) error {
	parent, index, err := parentAndIndex(node)
	if err != nil {
		return err
	}
	r.start = boundaryPoint{parent, index}
	r.end = boundaryPoint{parent, index + 1}
	return nil
}

// SelectNodeContents selects the contents of node.
func (r *Range) SelectNodeContents(node *Node) error {
	if node == nil {
		return ErrType("parameter 1 is not of type 'Node'.")
	}
	if node.nodeType == DocumentTypeNode {
		return ErrInvalidNodeType("The node provided is of type '" + node.NodeName() + "'.")
	}
	r.start = boundaryPoint{node, 0}
	r.end = boundaryPoint{node, node.Length()}
	return nil
}

// CompareBoundaryPoints compares a boundary point of r with one of source.
// https://dom.spec.whatwg.org/#dom-range-compareboundarypoints
func (r *Range) CompareBoundaryPoints(how int, source *Range) (int, error) {
	if how < StartToStart || how > EndToStart {
		return 0, ErrNotSupported("The comparison method provided must be one of 'START_TO_START', 'START_TO_END', 'END_TO_END', or 'END_TO_START'.")
	}
	if r.root() != source.root() {
		return 0, ErrWrongDocument("The two Ranges are not in the same tree.")
	}
	var this, other boundaryPoint
	switch how {
	case StartToStart:
		this, other = r.start, source.start
	case StartToEnd:
		this, other = r.end, source.start
	case EndToEnd:
		this, other = r.end, source.end
	case EndToStart:
		this, other = r.start, source.end
	}
	return comparePoints(this.node, this.offset, other.node, other.offset), nil
}

func (r *Range) checkPoint(node *Node, offset int) error {
	if node.nodeType == DocumentTypeNode {
		return ErrInvalidNodeType("The node provided is of type '" + node.NodeName() + "'.")
	}
	if offset < 0 || offset > node.Length() {
		return ErrIndexSize("The offset " + itoa(offset) + " is larger than the node's length (" + itoa(node.Length()) + ").")
	}
	return nil
}

// ComparePoint returns -1, 0 or 1 depending on whether the point is before,
// inside or after the range.
func (r *Range) ComparePoint(node *Node, offset int) (int, error) {
	if node.GetRootNode() != r.root() {
		return 0, ErrWrongDocument("The node provided and the Range are not in the same tree.")
	}
	if err := r.checkPoint(node, offset); err != nil {
		return 0, err
	}
	if comparePoints(node, offset, r.start.node, r.start.offset) < 0 {
		return -1, nil
	}
	if comparePoints(node, offset, r.end.node, r.end.offset) > 0 {
		return 1, nil
	}
	return 0, nil
}

// IsPointInRange reports whether the point lies within the range.
func (r *Range) IsPointInRange(node *Node, offset int) (bool, error) {
	if node.GetRootNode() != r.root() {
		return false, nil
	}
	if err := r.checkPoint(node, offset); err != nil {
		return false, err
	}
	if comparePoints(node, offset, r.start.node, r.start.offset) < 0 ||
		comparePoints(node, offset, r.end.node, r.end.offset) > 0 {
		return false, nil
	}
	return true, nil
}

// IntersectsNode reports whether node is at least partially inside the range.
func (r *Range) IntersectsNode(node *Node) bool {
	if node.GetRootNode() != r.root() {
		return false
	}
	parent := node.parentNode
	if parent == nil {
		return true
	}
	offset := node.Index()
	return comparePoints(parent, offset, r.end.node, r.end.offset) < 0 &&
		comparePoints(parent, offset+1, r.start.node, r.start.offset) > 0
}

// contains reports whether node is fully contained in the range.
func (r *Range) contains(node *Node) bool {
	return node.GetRootNode() == r.root() &&
		comparePoints(node, 0, r.start.node, r.start.offset) > 0 &&
		comparePoints(node, node.Length(), r.end.node, r.end.offset) < 0
}

func (r *Range) partiallyContains(node *Node) bool {
	a := node.isInclusiveAncestorOf(r.start.node)
	b := node.isInclusiveAncestorOf(r.end.node)
	return a != b
}

// CloneRange returns a new live range with the same boundary points.
func (r *Range) CloneRange() *Range {
	clone := &Range{start: r.start, end: r.end, doc: r.doc}
	r.doc.liveRanges().register(clone)
	return clone
}

// Detach does nothing; it remains for compatibility.
func (r *Range) Detach() {}

func isCharacterDataType(n *Node) bool {
	return n.nodeType == TextNode || n.nodeType == CDATASectionNode ||
		n.nodeType == CommentNode || n.nodeType == ProcessingInstructionNode
}

// cutPoint returns the boundary point the range collapses to after its
// contents have been removed.
func (r *Range) cutPoint() boundaryPoint {
	if r.start.node.isInclusiveAncestorOf(r.end.node) {
		return r.start
	}
	ref := r.start.node
	for !ref.parentNode.isInclusiveAncestorOf(r.end.node) {
		ref = ref.parentNode
	}
	return boundaryPoint{ref.parentNode, ref.Index() + 1}
}

// DeleteContents removes the contents of the range from the tree.
// https://dom.spec.whatwg.org/#dom-range-deletecontents
func (r *Range) DeleteContents() error {
	if r.Collapsed() {
		return nil
	}
	start, end := r.start, r.end
	if start.node == end.node && isCharacterDataType(start.node) {
		start.node.AsCharacterData().replaceData(start.offset, end.offset-start.offset, "")
		return nil
	}

	var toRemove []*Node
	common := r.CommonAncestorContainer()
	for n := common.firstChild; n != nil; {
		if r.contains(n) {
			toRemove = append(toRemove, n)
			n = n.nextSkippingChildren(common)
			continue
		}
		n = n.NextInTree(common)
	}

	cut := r.cutPoint()
	if isCharacterDataType(start.node) {
		start.node.AsCharacterData().replaceData(start.offset, start.node.Length()-start.offset, "")
	}
	for _, n := range toRemove {
		if n.parentNode != nil {
			n.parentNode.remove(n)
		}
	}
	if isCharacterDataType(end.node) {
		end.node.AsCharacterData().replaceData(0, end.offset, "")
	}
	r.start, r.end = cut, cut
	return nil
}

// ExtractContents moves the contents of the range into a new fragment.
func (r *Range) ExtractContents() (*DocumentFragment, error) {
	return r.extractOrClone(true)
}

// CloneContents copies the contents of the range into a new fragment.
func (r *Range) CloneContents() (*DocumentFragment, error) {
	return r.extractOrClone(false)
}

// extractOrClone implements both "extract" and "clone the contents".
// https://dom.spec.whatwg.org/#concept-range-extract
func (r *Range) extractOrClone(extract bool) (*DocumentFragment, error) {
	start, end := r.start, r.end
	frag := start.node.nodeDocument().CreateDocumentFragment()
	fragNode := frag.AsNode()
	if r.Collapsed() {
		return frag, nil
	}

	if start.node == end.node && isCharacterDataType(start.node) {
		clone := start.node.CloneNode(false)
		clone.data = UTF16Substring(start.node.data, start.offset, end.offset)
		fragNode.insert(clone, nil)
		if extract {
			start.node.AsCharacterData().replaceData(start.offset, end.offset-start.offset, "")
		}
		return frag, nil
	}

	common := r.CommonAncestorContainer()
	var firstPartial, lastPartial *Node
	var contained []*Node
	for c := common.firstChild; c != nil; c = c.nextSibling {
		switch {
		case r.contains(c):
			contained = append(contained, c)
		case r.partiallyContains(c):
			if firstPartial == nil && !start.node.isInclusiveAncestorOf(end.node) && c.isInclusiveAncestorOf(start.node) {
				firstPartial = c
			}
			if !end.node.isInclusiveAncestorOf(start.node) && c.isInclusiveAncestorOf(end.node) {
				lastPartial = c
			}
		}
	}
	for _, c := range contained {
		if c.nodeType == DocumentTypeNode {
			return nil, ErrHierarchyRequest("The Range contains a doctype node.")
		}
	}

	var cut boundaryPoint
	if extract {
		cut = r.cutPoint()
	}

	if firstPartial != nil {
		if isCharacterDataType(firstPartial) {
			clone := start.node.CloneNode(false)
			clone.data = UTF16Substring(start.node.data, start.offset, start.node.Length())
			fragNode.insert(clone, nil)
			if extract {
				start.node.AsCharacterData().replaceData(start.offset, start.node.Length()-start.offset, "")
			}
		} else {
			clone := firstPartial.CloneNode(false)
			fragNode.insert(clone, nil)
			sub := &Range{start: start, end: boundaryPoint{firstPartial, firstPartial.Length()}, doc: r.doc}
			subfrag, err := sub.extractOrClone(extract)
			if err != nil {
				return nil, err
			}
			clone.insert(subfrag.AsNode(), nil)
		}
	}

	for _, c := range contained {
		if extract {
			fragNode.insert(c, nil)
		} else {
			fragNode.insert(c.CloneNode(true), nil)
		}
	}

	if lastPartial != nil {
		if isCharacterDataType(lastPartial) {
			clone := end.node.CloneNode(false)
			clone.data = UTF16Substring(end.node.data, 0, end.offset)
			fragNode.insert(clone, nil)
			if extract {
				end.node.AsCharacterData().replaceData(0, end.offset, "")
			}
		} else {
			clone := lastPartial.CloneNode(false)
			fragNode.insert(clone, nil)
			sub := &Range{start: boundaryPoint{lastPartial, 0}, end: end, doc: r.doc}
			subfrag, err := sub.extractOrClone(extract)
			if err != nil {
				return nil, err
			}
			clone.insert(subfrag.AsNode(), nil)
		}
	}

	if extract {
		r.start, r.end = cut, cut
	}
	return frag, nil
}

// InsertNode inserts node at the start of the range, splitting a Text
// start container.
// https://dom.spec.whatwg.org/#concept-range-insert
func (r *Range) InsertNode(node *Node) error {
	if node == nil {
		return ErrType("parameter 1 is not of type 'Node'.")
	}
	sn := r.start.node
	if sn.nodeType == ProcessingInstructionNode || sn.nodeType == CommentNode ||
		(isTextLike(sn) && sn.parentNode == nil) || sn == node {
		return ErrHierarchyRequest("The Range's start container cannot hold the new node.")
	}
	var ref *Node
	if isTextLike(sn) {
		ref = sn
	} else {
		ref = sn.ChildAt(r.start.offset)
	}
	parent := sn
	if ref != nil {
		parent = ref.parentNode
	}
	if err := parent.ensurePreInsertionValidity(node, ref, nil); err != nil {
		return err
	}
	if isTextLike(sn) {
		split, err := sn.AsCharacterData().SplitText(r.start.offset)
		if err != nil {
			return err
		}
		ref = split
	}
	if node == ref {
		ref = node.nextSibling
	}
	if node.parentNode != nil {
		node.parentNode.remove(node)
	}
	newOffset := parent.Length()
	if ref != nil {
		newOffset = ref.Index()
	}
	if node.nodeType == DocumentFragmentNode {
		newOffset += node.Length()
	} else {
		newOffset++
	}
	if _, err := parent.InsertBefore(node, ref); err != nil {
		return err
	}
	if r.Collapsed() {
		r.end = boundaryPoint{parent, newOffset}
	}
	return nil
}

// SurroundContents moves the range contents into newParent and inserts it
// in their place.
func (r *Range) SurroundContents(newParent *Node) error {
	if newParent == nil {
		return ErrType("parameter 1 is not of type 'Node'.")
	}
	common := r.CommonAncestorContainer()
	for n := common; n != nil; n = n.NextInTree(common) {
		if !isTextLike(n) && r.partiallyContains(n) && n != common {
			return ErrInvalidState("The Range has partially selected a non-Text node.")
		}
	}
	switch newParent.nodeType {
	case DocumentNode, DocumentTypeNode, DocumentFragmentNode:
		return ErrInvalidNodeType("The node provided is of type '" + newParent.NodeName() + "'.")
	}
	frag, err := r.ExtractContents()
	if err != nil {
		return err
	}
	if newParent.firstChild != nil {
		newParent.replaceAll(nil)
	}
	if err := r.InsertNode(newParent); err != nil {
		return err
	}
	if _, err := newParent.AppendChild(frag.AsNode()); err != nil {
		return err
	}
	return r.SelectNode(newParent)
}

// String returns the concatenated Text data inside the range.
func (r *Range) String() string {
	start, end := r.start, r.end
	if start.node == end.node && start.node.nodeType == TextNode {
		return UTF16Substring(start.node.data, start.offset, end.offset)
	}
	var sb strings.Builder
	if start.node.nodeType == TextNode {
		sb.WriteString(UTF16Substring(start.node.data, start.offset, start.node.Length()))
	}
	common := r.CommonAncestorContainer()
	for n := common.firstChild; n != nil; n = n.NextInTree(common) {
		if n.nodeType == TextNode && r.contains(n) {
			sb.WriteString(n.data)
		}
	}
	if end.node.nodeType == TextNode {
		sb.WriteString(UTF16Substring(end.node.data, 0, end.offset))
	}
	return sb.String()
}

// CreateContextualFragment parses markup in the context of the start
// container.
func (r *Range) CreateContextualFragment(markup string) (*DocumentFragment, error) {
	var context *Element
	switch n := r.start.node; n.nodeType {
	case ElementNode:
		context = n.AsElement()
	case TextNode, CDATASectionNode, CommentNode, ProcessingInstructionNode:
		context = n.ParentElement()
	}
	doc := r.start.node.nodeDocument()
	if context == nil || (context.IsHTML() && context.element.localName == "html" && doc.IsHTML()) {
		context = doc.CreateElement("body")
	}
	return parseFragment(context, markup)
}
