package dom

// NodeList is either the live child list of a node or a static snapshot.
// https://dom.spec.whatwg.org/#interface-nodelist
type NodeList struct {
	parent *Node
	static []*Node
}

func newNodeList(parent *Node) *NodeList {
	return &NodeList{parent: parent}
}

// NewStaticNodeList returns a NodeList that does not track the tree.
func NewStaticNodeList(nodes []*Node) *NodeList {
	return &NodeList{static: append([]*Node(nil), nodes...)}
}

// Length returns the number of nodes.
func (nl *NodeList) Length() int {
	if nl.parent != nil {
		return nl.parent.ChildCount()
	}
	return len(nl.static)
}

// Item returns the node at index, or nil.
func (nl *NodeList) Item(index int) *Node {
	if nl.parent != nil {
		return nl.parent.ChildAt(index)
	}
	if index < 0 || index >= len(nl.static) {
		return nil
	}
	return nl.static[index]
}

// ToSlice returns the current nodes.
func (nl *NodeList) ToSlice() []*Node {
	if nl.parent == nil {
		return append([]*Node(nil), nl.static...)
	}
	var nodes []*Node
	for c := nl.parent.firstChild; c != nil; c = c.nextSibling {
		nodes = append(nodes, c)
	}
	return nodes
}

// HTMLCollection is a live, filtered list of elements under a root.
// https://dom.spec.whatwg.org/#interface-htmlcollection
type HTMLCollection struct {
	root    *Node
	deep    bool
	include func(*Element) bool
}

func newHTMLCollection(root *Node, deep bool, include func(*Element) bool) *HTMLCollection {
	return &HTMLCollection{root: root, deep: deep, include: include}
}

// ToSlice returns the elements currently in the collection.
func (hc *HTMLCollection) ToSlice() []*Element {
	var out []*Element
	if !hc.deep {
		for c := hc.root.firstChild; c != nil; c = c.nextSibling {
			if el := c.AsElement(); el != nil && hc.include(el) {
				out = append(out, el)
			}
		}
		return out
	}
	hc.root.Descendants(func(n *Node) bool {
		if el := n.AsElement(); el != nil && hc.include(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Length returns the number of elements.
func (hc *HTMLCollection) Length() int {
	return len(hc.ToSlice())
}

// Item returns the element at index, or nil.
func (hc *HTMLCollection) Item(index int) *Element {
	items := hc.ToSlice()
	if index < 0 || index >= len(items) {
		return nil
	}
	return items[index]
}

// NamedItem returns the first element whose id or (HTML) name matches.
func (hc *HTMLCollection) NamedItem(name string) *Element {
	if name == "" {
		return nil
	}
	for _, el := range hc.ToSlice() {
		if el.Id() == name {
			return el
		}
		if v, ok := el.GetAttribute("name"); ok && v == name && el.IsHTML() {
			return el
		}
	}
	return nil
}
