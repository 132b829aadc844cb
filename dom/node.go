// Package dom implements the document tree used by the emulated browser:
// nodes, documents, ranges, selections and traversal objects.
// https://dom.spec.whatwg.org/
package dom

import (
	"strings"
	"sync/atomic"
)

// NodeType is the numeric node type exposed as Node.nodeType.
type NodeType uint16

const (
	ElementNode               NodeType = 1
	AttributeNode             NodeType = 2
	TextNode                  NodeType = 3
	CDATASectionNode          NodeType = 4
	EntityReferenceNode       NodeType = 5 // legacy
	EntityNode                NodeType = 6 // legacy
	ProcessingInstructionNode NodeType = 7
	CommentNode               NodeType = 8
	DocumentNode              NodeType = 9
	DocumentTypeNode          NodeType = 10
	DocumentFragmentNode      NodeType = 11
	NotationNode              NodeType = 12 // legacy
)

var nodeTypeNames = map[NodeType]string{
	ElementNode:               "ELEMENT_NODE",
	AttributeNode:             "ATTRIBUTE_NODE",
	TextNode:                  "TEXT_NODE",
	CDATASectionNode:          "CDATA_SECTION_NODE",
	EntityReferenceNode:       "ENTITY_REFERENCE_NODE",
	EntityNode:                "ENTITY_NODE",
	ProcessingInstructionNode: "PROCESSING_INSTRUCTION_NODE",
	CommentNode:               "COMMENT_NODE",
	DocumentNode:              "DOCUMENT_NODE",
	DocumentTypeNode:          "DOCUMENT_TYPE_NODE",
	DocumentFragmentNode:      "DOCUMENT_FRAGMENT_NODE",
	NotationNode:              "NOTATION_NODE",
}

// String returns the constant name of the node type, e.g. "ELEMENT_NODE".
func (nt NodeType) String() string {
	if s, ok := nodeTypeNames[nt]; ok {
		return s
	}
	return "UNKNOWN_NODE"
}

// NodeTypeConstants returns the Node.*_NODE constants in numeric order.
func NodeTypeConstants() []NodeType {
	return []NodeType{ElementNode, AttributeNode, TextNode, CDATASectionNode,
		EntityReferenceNode, EntityNode, ProcessingInstructionNode, CommentNode,
		DocumentNode, DocumentTypeNode, DocumentFragmentNode, NotationNode}
}

// Document position bits returned by CompareDocumentPosition.
const (
	DocumentPositionDisconnected           uint16 = 0x01
	DocumentPositionPreceding              uint16 = 0x02
	DocumentPositionFollowing              uint16 = 0x04
	DocumentPositionContains               uint16 = 0x08
	DocumentPositionContainedBy            uint16 = 0x10
	DocumentPositionImplementationSpecific uint16 = 0x20
)

// Node is a node in the document tree. Element, Document, DocumentFragment
// and CharacterData are defined over the same struct so that a *Node can be
// converted to the specific view without allocation.
type Node struct {
	nodeType NodeType
	nodeName string
	ownerDoc *Document
	serial   uint64

	parentNode  *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node
	childNodes  *NodeList

	// data holds character data for Text, CDATASection, Comment and
	// ProcessingInstruction nodes.
	data string

	element  *elementData
	document *documentData
	doctype  *doctypeData
}

type doctypeData struct {
	name     string
	publicID string
	systemID string
}

var nodeCounter uint64

func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	n := &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
		serial:   atomic.AddUint64(&nodeCounter, 1),
	}
	n.childNodes = newNodeList(n)
	return n
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the node name: the HTML-uppercased qualified name for
// elements, "#text", "#comment", "#document", the doctype name, etc.
func (n *Node) NodeName() string {
	if n.nodeType == ElementNode {
		return n.AsElement().TagName()
	}
	return n.nodeName
}

// NodeValue returns the node value and whether it is non-null.
func (n *Node) NodeValue() (string, bool) {
	if n.IsCharacterData() {
		return n.data, true
	}
	return "", false
}

// SetNodeValue sets the data of character data nodes. It is a no-op for
// other node types.
func (n *Node) SetNodeValue(value string) {
	if n.IsCharacterData() {
		n.AsCharacterData().replaceData(0, UTF16Length(n.data), value)
	}
}

// IsCharacterData reports whether the node is Text, CDATASection, Comment or
// ProcessingInstruction.
func (n *Node) IsCharacterData() bool {
	switch n.nodeType {
	case TextNode, CDATASectionNode, CommentNode, ProcessingInstructionNode:
		return true
	}
	return false
}

// OwnerDocument returns the node document, or nil for documents.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// nodeDocument returns the node document, which for a document is itself.
func (n *Node) nodeDocument() *Document {
	if n.nodeType == DocumentNode {
		return (*Document)(n)
	}
	return n.ownerDoc
}

func (n *Node) ParentNode() *Node { return n.parentNode }

// ParentElement returns the parent if it is an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

func (n *Node) ChildNodes() *NodeList  { return n.childNodes }
func (n *Node) FirstChild() *Node      { return n.firstChild }
func (n *Node) LastChild() *Node       { return n.lastChild }
func (n *Node) PreviousSibling() *Node { return n.prevSibling }
func (n *Node) NextSibling() *Node     { return n.nextSibling }
func (n *Node) HasChildNodes() bool    { return n.firstChild != nil }

// AsElement returns the element view of the node, or nil.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

// AsDocument returns the document view of the node, or nil.
func (n *Node) AsDocument() *Document {
	if n == nil || n.nodeType != DocumentNode {
		return nil
	}
	return (*Document)(n)
}

// AsCharacterData returns the character data view of the node, or nil.
func (n *Node) AsCharacterData() *CharacterData {
	if n == nil || !n.IsCharacterData() {
		return nil
	}
	return (*CharacterData)(n)
}

// nodeSerial orders disconnected trees by the creation order of their roots.
func nodeSerial(n *Node) uint64 {
	return n.GetRootNode().serial
}

// IsConnected reports whether the node's root is a document.
func (n *Node) IsConnected() bool {
	return n.GetRootNode().nodeType == DocumentNode
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		count++
	}
	return count
}

// Index returns the number of preceding siblings.
func (n *Node) Index() int {
	i := 0
	for s := n.prevSibling; s != nil; s = s.prevSibling {
		i++
	}
	return i
}

// ChildAt returns the child at index i, or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// Length returns the node length used by ranges: 0 for doctypes, the UTF-16
// length of the data for character data, the child count otherwise.
func (n *Node) Length() int {
	switch {
	case n.nodeType == DocumentTypeNode:
		return 0
	case n.IsCharacterData():
		return UTF16Length(n.data)
	default:
		return n.ChildCount()
	}
}

// TextContent returns the text content, and false when it is null
// (documents and doctypes).
func (n *Node) TextContent() (string, bool) {
	switch {
	case n.nodeType == DocumentNode || n.nodeType == DocumentTypeNode:
		return "", false
	case n.IsCharacterData():
		return n.data, true
	default:
		var sb strings.Builder
		n.collectText(&sb)
		return sb.String(), true
	}
}

func (n *Node) collectText(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		switch c.nodeType {
		case TextNode, CDATASectionNode:
			sb.WriteString(c.data)
		case ElementNode, DocumentFragmentNode:
			c.collectText(sb)
		}
	}
}

// SetTextContent replaces all children of elements and fragments with a
// single text node, or sets the data of character data nodes.
func (n *Node) SetTextContent(value string) {
	switch {
	case n.nodeType == ElementNode || n.nodeType == DocumentFragmentNode:
		var text *Node
		if value != "" {
			text = n.nodeDocument().CreateTextNode(value)
		}
		n.replaceAll(text)
	case n.IsCharacterData():
		n.SetNodeValue(value)
	}
}

// Contains reports whether other is an inclusive descendant of n.
func (n *Node) Contains(other *Node) bool {
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// isInclusiveAncestorOf reports whether n is an inclusive ancestor of other.
func (n *Node) isInclusiveAncestorOf(other *Node) bool {
	return n.Contains(other)
}

func (n *Node) IsSameNode(other *Node) bool {
	return n == other
}

// LookupNamespaceURI locates the namespace bound to prefix ("" for the
// default namespace).
func (n *Node) LookupNamespaceURI(prefix string) string {
	switch n.nodeType {
	case ElementNode:
		el := n.AsElement()
		ns := el.element.namespaceURI
		if ns != "" && el.element.prefix == prefix {
			return ns
		}
		for _, attr := range el.element.attributes.attrs {
			if attr.namespaceURI != XMLNSNamespace {
				continue
			}
			if (attr.prefix == "xmlns" && attr.localName == prefix) ||
				(prefix == "" && attr.prefix == "" && attr.localName == "xmlns") {
				return attr.value
			}
		}
		if p := n.ParentElement(); p != nil {
			return p.AsNode().LookupNamespaceURI(prefix)
		}
		return ""
	case DocumentNode:
		if de := n.AsDocument().DocumentElement(); de != nil {
			return de.AsNode().LookupNamespaceURI(prefix)
		}
		return ""
	case DocumentTypeNode, DocumentFragmentNode:
		return ""
	default:
		if p := n.ParentElement(); p != nil {
			return p.AsNode().LookupNamespaceURI(prefix)
		}
		return ""
	}
}

// LookupPrefix returns a prefix bound to namespaceURI, or "".
func (n *Node) LookupPrefix(namespaceURI string) string {
	if namespaceURI == "" {
		return ""
	}
	var el *Element
	switch n.nodeType {
	case ElementNode:
		el = n.AsElement()
	case DocumentNode:
		el = n.AsDocument().DocumentElement()
	case DocumentTypeNode, DocumentFragmentNode:
		return ""
	default:
		el = n.ParentElement()
	}
	for ; el != nil; el = el.AsNode().ParentElement() {
		if el.element.namespaceURI == namespaceURI && el.element.prefix != "" {
			return el.element.prefix
		}
		for _, attr := range el.element.attributes.attrs {
			if attr.prefix == "xmlns" && attr.value == namespaceURI {
				return attr.localName
			}
		}
	}
	return ""
}

// IsDefaultNamespace reports whether namespaceURI is the default namespace.
func (n *Node) IsDefaultNamespace(namespaceURI string) bool {
	return n.LookupNamespaceURI("") == namespaceURI
}

// DoctypeName returns the name of a DocumentType node.
func (n *Node) DoctypeName() string {
	if n.doctype == nil {
		return ""
	}
	return n.doctype.name
}

// DoctypePublicID returns the public identifier of a DocumentType node.
func (n *Node) DoctypePublicID() string {
	if n.doctype == nil {
		return ""
	}
	return n.doctype.publicID
}

// DoctypeSystemID returns the system identifier of a DocumentType node.
func (n *Node) DoctypeSystemID() string {
	if n.doctype == nil {
		return ""
	}
	return n.doctype.systemID
}

// Target returns the target of a ProcessingInstruction node.
func (n *Node) Target() string {
	if n.nodeType == ProcessingInstructionNode {
		return n.nodeName
	}
	return ""
}
