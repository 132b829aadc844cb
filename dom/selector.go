package dom

import (
	"github.com/andybalholm/cascadia"
)

func compileSelector(selectors string) (cascadia.SelectorGroup, error) {
	group, err := cascadia.ParseGroup(selectors)
	if err != nil {
		return nil, ErrSyntax("'" + selectors + "' is not a valid selector.")
	}
	return group, nil
}

// QuerySelectorAll returns the descendants of n matching selectors, in tree
// order.
func (n *Node) QuerySelectorAll(selectors string) (*NodeList, error) {
	group, err := compileSelector(selectors)
	if err != nil {
		return nil, err
	}
	m := newMirror(n.GetRootNode())
	var out []*Node
	for _, h := range cascadia.QueryAll(m.toHTML[n], group) {
		out = append(out, m.toDOM[h])
	}
	return NewStaticNodeList(out), nil
}

// QuerySelector returns the first descendant of n matching selectors.
func (n *Node) QuerySelector(selectors string) (*Element, error) {
	group, err := compileSelector(selectors)
	if err != nil {
		return nil, err
	}
	m := newMirror(n.GetRootNode())
	h := cascadia.Query(m.toHTML[n], group)
	if h == nil {
		return nil, nil
	}
	return m.toDOM[h].AsElement(), nil
}

// Matches reports whether the element matches selectors.
func (e *Element) Matches(selectors string) (bool, error) {
	group, err := compileSelector(selectors)
	if err != nil {
		return false, err
	}
	m := newMirror(e.AsNode().GetRootNode())
	return group.Match(m.toHTML[e.AsNode()]), nil
}

// Closest returns the closest inclusive ancestor matching selectors.
func (e *Element) Closest(selectors string) (*Element, error) {
	group, err := compileSelector(selectors)
	if err != nil {
		return nil, err
	}
	m := newMirror(e.AsNode().GetRootNode())
	for el := e; el != nil; el = el.AsNode().ParentElement() {
		if group.Match(m.toHTML[el.AsNode()]) {
			return el, nil
		}
	}
	return nil, nil
}
