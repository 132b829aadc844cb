package dom

import "strings"

// CharacterData is the view shared by Text, CDATASection, Comment and
// ProcessingInstruction nodes.
// https://dom.spec.whatwg.org/#interface-characterdata
type CharacterData Node

// AsNode returns the underlying Node.
func (c *CharacterData) AsNode() *Node {
	return (*Node)(c)
}

// Data returns the character data.
func (c *CharacterData) Data() string {
	return c.data
}

// SetData replaces all of the data.
func (c *CharacterData) SetData(data string) {
	c.replaceData(0, c.Length(), data)
}

// Length returns the length of the data in UTF-16 code units.
func (c *CharacterData) Length() int {
	return UTF16Length(c.data)
}

// SubstringData returns count code units starting at offset.
func (c *CharacterData) SubstringData(offset, count int) (string, error) {
	length := c.Length()
	if offset < 0 || offset > length {
		return "", ErrIndexSize("The offset " + itoa(offset) + " is greater than the node's length (" + itoa(length) + ").")
	}
	end := offset + count
	if count < 0 || end > length {
		end = length
	}
	return UTF16Substring(c.data, offset, end), nil
}

// AppendData appends data.
func (c *CharacterData) AppendData(data string) {
	c.replaceData(c.Length(), 0, data)
}

// InsertData inserts data at offset.
func (c *CharacterData) InsertData(offset int, data string) error {
	return c.ReplaceData(offset, 0, data)
}

// DeleteData removes count code units starting at offset.
func (c *CharacterData) DeleteData(offset, count int) error {
	return c.ReplaceData(offset, count, "")
}

// ReplaceData replaces count code units starting at offset with data.
func (c *CharacterData) ReplaceData(offset, count int, data string) error {
	length := c.Length()
	if offset < 0 || offset > length {
		return ErrIndexSize("The offset " + itoa(offset) + " is greater than the node's length (" + itoa(length) + ").")
	}
	if count < 0 || offset+count > length {
		count = length - offset
	}
	c.replaceData(offset, count, data)
	return nil
}

// replaceData performs the edit without bounds checks and updates live
// ranges.
// https://dom.spec.whatwg.org/#concept-cd-replace
func (c *CharacterData) replaceData(offset, count int, data string) {
	units := toUTF16(c.data)
	if offset > len(units) {
		offset = len(units)
	}
	if offset+count > len(units) {
		count = len(units) - offset
	}
	var sb strings.Builder
	sb.WriteString(fromUTF16(units[:offset]))
	sb.WriteString(data)
	sb.WriteString(fromUTF16(units[offset+count:]))
	c.data = sb.String()

	doc := c.AsNode().nodeDocument()
	if doc != nil {
		doc.liveRanges().adjustForReplaceData(c.AsNode(), offset, count, UTF16Length(data))
		doc.touch()
	}
}

// SplitText splits a Text node at offset, inserting the remainder as a new
// sibling, and returns the new node.
// https://dom.spec.whatwg.org/#concept-text-split
func (c *CharacterData) SplitText(offset int) (*Node, error) {
	node := c.AsNode()
	if node.nodeType != TextNode && node.nodeType != CDATASectionNode {
		return nil, ErrType("splitText called on a non-Text node.")
	}
	length := c.Length()
	if offset < 0 || offset > length {
		return nil, ErrIndexSize("The offset " + itoa(offset) + " is larger than the Text node's length.")
	}
	newData := UTF16Substring(c.data, offset, length)
	doc := node.nodeDocument()
	newNode := newNode(node.nodeType, node.nodeName, doc)
	newNode.data = newData

	if parent := node.parentNode; parent != nil {
		parent.insert(newNode, node.nextSibling)
		doc.liveRanges().adjustForSplit(node, newNode, offset)
	}
	c.replaceData(offset, length-offset, "")
	return newNode, nil
}

// WholeText returns the data of this node and its contiguous Text siblings.
func (c *CharacterData) WholeText() string {
	start := c.AsNode()
	for start.prevSibling != nil && isTextLike(start.prevSibling) {
		start = start.prevSibling
	}
	var sb strings.Builder
	for n := start; n != nil && isTextLike(n); n = n.nextSibling {
		sb.WriteString(n.data)
	}
	return sb.String()
}

func isTextLike(n *Node) bool {
	return n.nodeType == TextNode || n.nodeType == CDATASectionNode
}
