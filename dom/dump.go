package dom

import (
	"strconv"
	"strings"

	"github.com/xlab/treeprint"
)

// DumpTree renders the subtree rooted at n as an indented tree, one line per
// node.
func DumpTree(n *Node) string {
	tree := treeprint.NewWithRoot(describe(n))
	dumpChildren(tree, n)
	return tree.String()
}

func dumpChildren(tree treeprint.Tree, n *Node) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.firstChild == nil {
			tree.AddNode(describe(c))
			continue
		}
		dumpChildren(tree.AddBranch(describe(c)), c)
	}
}

func describe(n *Node) string {
	switch n.nodeType {
	case ElementNode:
		el := n.AsElement()
		var sb strings.Builder
		sb.WriteString("<" + n.nodeName)
		for _, a := range el.element.attributes.attrs {
			sb.WriteString(" " + a.Name() + "=" + strconv.Quote(a.value))
		}
		sb.WriteString(">")
		return sb.String()
	case DocumentTypeNode:
		return "<!DOCTYPE " + n.doctype.name + ">"
	case ProcessingInstructionNode:
		return "<?" + n.nodeName + " " + n.data + "?>"
	case TextNode, CDATASectionNode, CommentNode:
		return n.nodeName + " " + strconv.Quote(n.data)
	}
	return n.nodeName
}
