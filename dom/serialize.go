package dom

import (
	"bytes"

	"golang.org/x/net/html"
)

// renderNodes serializes nodes with the x/net/html renderer.
func renderNodes(nodes []*Node) string {
	if len(nodes) == 0 {
		return ""
	}
	m := newMirror(nodes[0].GetRootNode())
	var buf bytes.Buffer
	for _, n := range nodes {
		h := m.toHTML[n]
		if h.Type == html.DocumentNode {
			for c := h.FirstChild; c != nil; c = c.NextSibling {
				_ = html.Render(&buf, c)
			}
			continue
		}
		// Render stops on malformed trees such as void elements with
		// children; whatever was written so far is kept.
		_ = html.Render(&buf, h)
	}
	return buf.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return renderNodes(children)
}

// OuterHTML serializes the element and its descendants.
func (e *Element) OuterHTML() string {
	return renderNodes([]*Node{e.AsNode()})
}

// SetInnerHTML replaces the children of the element with the result of
// parsing markup in its context.
func (e *Element) SetInnerHTML(markup string) error {
	frag, err := parseFragment(e, markup)
	if err != nil {
		return err
	}
	e.AsNode().replaceAll(frag.AsNode())
	return nil
}

// SetOuterHTML replaces the element with the result of parsing markup in
// the context of its parent.
func (e *Element) SetOuterHTML(markup string) error {
	parent := e.parentNode
	if parent == nil {
		return nil
	}
	if parent.nodeType == DocumentNode {
		return NewDOMException("NoModificationAllowedError", "Failed to set the 'outerHTML' property on 'Element': This element's parent is of type '#document'.")
	}
	context := parent.AsElement()
	if context == nil {
		context = parent.nodeDocument().CreateElement("body")
	}
	frag, err := parseFragment(context, markup)
	if err != nil {
		return err
	}
	_, err = parent.ReplaceChild(frag.AsNode(), e.AsNode())
	return err
}

// InsertAdjacentHTML parses markup and inserts the result relative to the
// element at position beforebegin, afterbegin, beforeend or afterend.
func (e *Element) InsertAdjacentHTML(position, markup string) error {
	node := e.AsNode()
	var context *Element
	switch asciiLower(position) {
	case "beforebegin", "afterend":
		if node.parentNode == nil || node.parentNode.nodeType == DocumentNode {
			return NewDOMException("NoModificationAllowedError", "The element has no parent.")
		}
		context = node.ParentElement()
	case "afterbegin", "beforeend":
		context = e
	default:
		return ErrSyntax("The value provided ('" + position + "') is not one of 'beforeBegin', 'afterBegin', 'beforeEnd', or 'afterEnd'.")
	}
	if context == nil {
		context = node.nodeDocument().CreateElement("body")
	}
	frag, err := parseFragment(context, markup)
	if err != nil {
		return err
	}
	switch asciiLower(position) {
	case "beforebegin":
		_, err = node.parentNode.InsertBefore(frag.AsNode(), node)
	case "afterbegin":
		_, err = node.InsertBefore(frag.AsNode(), node.firstChild)
	case "beforeend":
		_, err = node.AppendChild(frag.AsNode())
	case "afterend":
		_, err = node.parentNode.InsertBefore(frag.AsNode(), node.nextSibling)
	}
	return err
}
