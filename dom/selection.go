package dom

// Selection direction values.
const (
	DirectionNone     = "none"
	DirectionForward  = "forward"
	DirectionBackward = "backward"
)

// Selection is the document's selection: at most one range plus a
// direction that decides which end is the anchor.
// https://w3c.github.io/selection-api/#selection-interface
type Selection struct {
	doc       *Document
	r         *Range
	direction string
}

func newSelection(doc *Document) *Selection {
	return &Selection{doc: doc, direction: DirectionNone}
}

func (s *Selection) anchor() boundaryPoint {
	if s.direction == DirectionBackward {
		return s.r.end
	}
	return s.r.start
}

func (s *Selection) focus() boundaryPoint {
	if s.direction == DirectionBackward {
		return s.r.start
	}
	return s.r.end
}

// AnchorNode returns the node the selection starts from, or nil.
func (s *Selection) AnchorNode() *Node {
	if s.r == nil {
		return nil
	}
	return s.anchor().node
}

func (s *Selection) AnchorOffset() int {
	if s.r == nil {
		return 0
	}
	return s.anchor().offset
}

// FocusNode returns the node the selection extends to, or nil.
func (s *Selection) FocusNode() *Node {
	if s.r == nil {
		return nil
	}
	return s.focus().node
}

func (s *Selection) FocusOffset() int {
	if s.r == nil {
		return 0
	}
	return s.focus().offset
}

// IsCollapsed reports whether the selection is empty or its range is
// collapsed.
func (s *Selection) IsCollapsed() bool {
	return s.r == nil || s.r.Collapsed()
}

func (s *Selection) RangeCount() int {
	if s.r == nil {
		return 0
	}
	return 1
}

// Type returns "None", "Caret" or "Range".
func (s *Selection) Type() string {
	switch {
	case s.r == nil:
		return "None"
	case s.r.Collapsed():
		return "Caret"
	}
	return "Range"
}

// Direction returns "none", "forward" or "backward".
func (s *Selection) Direction() string {
	if s.r == nil {
		return DirectionNone
	}
	return s.direction
}

// GetRangeAt returns the selection's range. The range is live and shared
// with the selection.
func (s *Selection) GetRangeAt(index int) (*Range, error) {
	if index != 0 || s.r == nil {
		return nil, ErrIndexSize("The index provided (" + itoa(index) + ") is greater than or equal to the maximum bound (" + itoa(s.RangeCount()) + ").")
	}
	return s.r, nil
}

func (s *Selection) inDocument(n *Node) bool {
	return n.GetRootNode() == s.doc.AsNode()
}

func (s *Selection) setRange(r *Range, direction string) {
	s.r = r
	s.direction = direction
}

// AddRange sets r as the selection's range. It is ignored when a range is
// already selected or r is not in the document.
func (s *Selection) AddRange(r *Range) {
	if r == nil || !s.inDocument(r.start.node) || s.r != nil {
		return
	}
	s.setRange(r, DirectionForward)
}

// RemoveRange removes r, which must be the selection's range.
func (s *Selection) RemoveRange(r *Range) error {
	if r == nil || r != s.r {
		return ErrNotFound("The given range isn't in document.")
	}
	s.setRange(nil, DirectionNone)
	return nil
}

// RemoveAllRanges empties the selection.
func (s *Selection) RemoveAllRanges() {
	s.setRange(nil, DirectionNone)
}

// Empty is an alias of RemoveAllRanges.
func (s *Selection) Empty() {
	s.RemoveAllRanges()
}

func checkSelectionPoint(node *Node, offset int) error {
	if node.nodeType == DocumentTypeNode {
		return ErrInvalidNodeType("The node provided is of type '" + node.NodeName() + "'.")
	}
	if offset < 0 || offset > node.Length() {
		return ErrIndexSize("The offset " + itoa(offset) + " is larger than the node's length (" + itoa(node.Length()) + ").")
	}
	return nil
}

// Collapse replaces the selection with a collapsed range at (node, offset).
// A nil node empties the selection.
func (s *Selection) Collapse(node *Node, offset int) error {
	if node == nil {
		s.RemoveAllRanges()
		return nil
	}
	if err := checkSelectionPoint(node, offset); err != nil {
		return err
	}
	if !s.inDocument(node) {
		return nil
	}
	r := s.doc.CreateRange()
	if err := r.SetStart(node, offset); err != nil {
		return err
	}
	s.setRange(r, DirectionNone)
	return nil
}

// SetPosition is an alias of Collapse.
func (s *Selection) SetPosition(node *Node, offset int) error {
	return s.Collapse(node, offset)
}

// CollapseToStart collapses the selection to the start of its range.
func (s *Selection) CollapseToStart() error {
	if s.r == nil {
		return ErrInvalidState("There is no selection to collapse.")
	}
	return s.Collapse(s.r.start.node, s.r.start.offset)
}

// CollapseToEnd collapses the selection to the end of its range.
func (s *Selection) CollapseToEnd() error {
	if s.r == nil {
		return ErrInvalidState("There is no selection to collapse.")
	}
	return s.Collapse(s.r.end.node, s.r.end.offset)
}

// Extend moves the focus to (node, offset), keeping the anchor.
// https://w3c.github.io/selection-api/#dom-selection-extend
func (s *Selection) Extend(node *Node, offset int) error {
	if node == nil {
		return ErrType("parameter 1 is not of type 'Node'.")
	}
	if !s.inDocument(node) {
		return nil
	}
	if s.r == nil {
		return ErrInvalidState("This Selection object doesn't have any Ranges.")
	}
	if err := checkSelectionPoint(node, offset); err != nil {
		return err
	}
	anchor := s.anchor()
	r := s.doc.CreateRange()
	switch {
	case node.GetRootNode() != s.r.root():
		r.start = boundaryPoint{node, offset}
		r.end = r.start
	case comparePoints(anchor.node, anchor.offset, node, offset) <= 0:
		r.start = anchor
		r.end = boundaryPoint{node, offset}
	default:
		r.start = boundaryPoint{node, offset}
		r.end = anchor
	}
	direction := DirectionForward
	if comparePoints(node, offset, anchor.node, anchor.offset) < 0 {
		direction = DirectionBackward
	}
	s.setRange(r, direction)
	return nil
}

// SetBaseAndExtent selects from the anchor point to the focus point.
func (s *Selection) SetBaseAndExtent(anchorNode *Node, anchorOffset int, focusNode *Node, focusOffset int) error {
	if anchorNode == nil || focusNode == nil {
		return ErrType("parameter is not of type 'Node'.")
	}
	if err := checkSelectionPoint(anchorNode, anchorOffset); err != nil {
		return err
	}
	if err := checkSelectionPoint(focusNode, focusOffset); err != nil {
		return err
	}
	if !s.inDocument(anchorNode) || !s.inDocument(focusNode) {
		return nil
	}
	r := s.doc.CreateRange()
	a := boundaryPoint{anchorNode, anchorOffset}
	f := boundaryPoint{focusNode, focusOffset}
	direction := DirectionForward
	if comparePoints(a.node, a.offset, f.node, f.offset) <= 0 {
		r.start, r.end = a, f
	} else {
		r.start, r.end = f, a
		direction = DirectionBackward
	}
	s.setRange(r, direction)
	return nil
}

// SelectAllChildren selects the contents of node.
func (s *Selection) SelectAllChildren(node *Node) error {
	if node == nil {
		return ErrType("parameter 1 is not of type 'Node'.")
	}
	if node.nodeType == DocumentTypeNode {
		return ErrInvalidNodeType("The node provided is of type '" + node.NodeName() + "'.")
	}
	if !s.inDocument(node) {
		return nil
	}
	r := s.doc.CreateRange()
	if err := r.SelectNodeContents(node); err != nil {
		return err
	}
	s.setRange(r, DirectionForward)
	return nil
}

// DeleteFromDocument deletes the contents of the selection's range.
func (s *Selection) DeleteFromDocument() error {
	if s.r == nil {
		return nil
	}
	return s.r.DeleteContents()
}

// ContainsNode reports whether node is inside the selection, entirely or,
// with allowPartial, at least partially.
func (s *Selection) ContainsNode(node *Node, allowPartial bool) bool {
	if s.r == nil || node == nil || !s.inDocument(node) {
		return false
	}
	start, end := s.r.start, s.r.end
	length := node.Length()
	if allowPartial {
		return comparePoints(start.node, start.offset, node, length) <= 0 &&
			comparePoints(end.node, end.offset, node, 0) >= 0
	}
	return comparePoints(start.node, start.offset, node, 0) <= 0 &&
		comparePoints(end.node, end.offset, node, length) >= 0
}

// String returns the text of the selection's range.
func (s *Selection) String() string {
	if s.r == nil {
		return ""
	}
	return s.r.String()
}
