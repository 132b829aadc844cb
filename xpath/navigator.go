package xpath

import (
	xp "github.com/antchfx/xpath"

	"github.com/chrisuehlinger/webconform/dom"
)

// Item is a member of a node-set: a tree node, or an attribute together
// with its owner element. The zero Item stands for null.
type Item struct {
	Node *dom.Node
	Attr *dom.Attr
}

// IsZero reports whether the item is null.
func (it Item) IsZero() bool {
	return it.Node == nil && it.Attr == nil
}

// navigator walks a dom tree for github.com/antchfx/xpath. Doctypes and
// processing instructions are invisible; CDATA sections read as text.
type navigator struct {
	root *dom.Node
	cur  *dom.Node
	attr int // index into cur's attributes, -1 when on cur itself
}

var _ xp.NodeNavigator = (*navigator)(nil)

// newNavigator positions a navigator on context. It returns nil when the
// context cannot be navigated: a doctype, a processing instruction or an
// attribute without an owner.
func newNavigator(context Item) *navigator {
	if context.Attr != nil {
		owner := context.Attr.OwnerElement()
		if owner == nil {
			return nil
		}
		nav := &navigator{root: owner.AsNode().GetRootNode(), cur: owner.AsNode(), attr: -1}
		for i, a := range attributes(owner.AsNode()) {
			if a == context.Attr {
				nav.attr = i
			}
		}
		return nav
	}
	if !visible(context.Node) {
		return nil
	}
	return &navigator{root: context.Node.GetRootNode(), cur: context.Node, attr: -1}
}

// attributes returns the element's attributes minus namespace
// declarations.
func attributes(n *dom.Node) []*dom.Attr {
	el := n.AsElement()
	if el == nil {
		return nil
	}
	var out []*dom.Attr
	for _, a := range el.Attributes().Attrs() {
		if a.NamespaceURI() == dom.XMLNSNamespace {
			continue
		}
		out = append(out, a)
	}
	return out
}

func visible(n *dom.Node) bool {
	switch n.NodeType() {
	case dom.DocumentTypeNode, dom.ProcessingInstructionNode:
		return false
	}
	return true
}

func (nav *navigator) item() Item {
	if nav.attr >= 0 {
		return Item{Attr: attributes(nav.cur)[nav.attr]}
	}
	return Item{Node: nav.cur}
}

func (nav *navigator) NodeType() xp.NodeType {
	if nav.attr >= 0 {
		return xp.AttributeNode
	}
	switch nav.cur.NodeType() {
	case dom.ElementNode:
		return xp.ElementNode
	case dom.TextNode, dom.CDATASectionNode:
		return xp.TextNode
	case dom.CommentNode:
		return xp.CommentNode
	}
	// Documents and fragments. The Move methods never stop on an invisible
	// node and newNavigator refuses one as the context.
	return xp.RootNode
}

func (nav *navigator) LocalName() string {
	if nav.attr >= 0 {
		return attributes(nav.cur)[nav.attr].LocalName()
	}
	if el := nav.cur.AsElement(); el != nil {
		return el.LocalName()
	}
	return ""
}

func (nav *navigator) Prefix() string {
	if nav.attr >= 0 {
		return attributes(nav.cur)[nav.attr].Prefix()
	}
	if el := nav.cur.AsElement(); el != nil {
		return el.Prefix()
	}
	return ""
}

func (nav *navigator) NamespaceURL() string {
	if nav.attr >= 0 {
		return attributes(nav.cur)[nav.attr].NamespaceURI()
	}
	if el := nav.cur.AsElement(); el != nil {
		return el.NamespaceURI()
	}
	return ""
}

// Value returns the XPath string-value of the current node.
func (nav *navigator) Value() string {
	if nav.attr >= 0 {
		return attributes(nav.cur)[nav.attr].Value()
	}
	return stringValue(nav.cur)
}

func stringValue(n *dom.Node) string {
	switch n.NodeType() {
	case dom.TextNode, dom.CDATASectionNode, dom.CommentNode, dom.ProcessingInstructionNode:
		v, _ := n.NodeValue()
		return v
	}
	var text []byte
	n.Descendants(func(d *dom.Node) bool {
		if t := d.NodeType(); t == dom.TextNode || t == dom.CDATASectionNode {
			v, _ := d.NodeValue()
			text = append(text, v...)
		}
		return true
	})
	return string(text)
}

func (nav *navigator) Copy() xp.NodeNavigator {
	c := *nav
	return &c
}

func (nav *navigator) MoveToRoot() {
	nav.cur = nav.root
	nav.attr = -1
}

func (nav *navigator) MoveToParent() bool {
	if nav.attr >= 0 {
		nav.attr = -1
		return true
	}
	if nav.cur == nav.root || nav.cur.ParentNode() == nil {
		return false
	}
	nav.cur = nav.cur.ParentNode()
	return true
}

func (nav *navigator) MoveToNextAttribute() bool {
	attrs := attributes(nav.cur)
	if nav.attr+1 >= len(attrs) {
		return false
	}
	nav.attr++
	return true
}

func (nav *navigator) MoveToChild() bool {
	if nav.attr >= 0 {
		return false
	}
	for c := nav.cur.FirstChild(); c != nil; c = c.NextSibling() {
		if visible(c) {
			nav.cur = c
			return true
		}
	}
	return false
}

func (nav *navigator) MoveToFirst() bool {
	if nav.attr >= 0 || nav.cur == nav.root {
		return false
	}
	parent := nav.cur.ParentNode()
	if parent == nil {
		return false
	}
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if visible(c) {
			nav.cur = c
			return true
		}
	}
	return false
}

func (nav *navigator) MoveToNext() bool {
	if nav.attr >= 0 || nav.cur == nav.root {
		return false
	}
	for c := nav.cur.NextSibling(); c != nil; c = c.NextSibling() {
		if visible(c) {
			nav.cur = c
			return true
		}
	}
	return false
}

func (nav *navigator) MoveToPrevious() bool {
	if nav.attr >= 0 || nav.cur == nav.root {
		return false
	}
	for c := nav.cur.PreviousSibling(); c != nil; c = c.PreviousSibling() {
		if visible(c) {
			nav.cur = c
			return true
		}
	}
	return false
}

func (nav *navigator) MoveTo(other xp.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.root != nav.root {
		return false
	}
	nav.cur = o.cur
	nav.attr = o.attr
	return true
}
