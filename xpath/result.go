package xpath

import (
	"github.com/chrisuehlinger/webconform/dom"
)

// ResultType is an XPathResult type constant.
type ResultType uint16

const (
	AnyType ResultType = iota
	NumberType
	StringType
	BooleanType
	UnorderedNodeIteratorType
	OrderedNodeIteratorType
	UnorderedNodeSnapshotType
	OrderedNodeSnapshotType
	AnyUnorderedNodeType
	FirstOrderedNodeType
)

var resultTypeNames = []string{
	"ANY_TYPE",
	"NUMBER_TYPE",
	"STRING_TYPE",
	"BOOLEAN_TYPE",
	"UNORDERED_NODE_ITERATOR_TYPE",
	"ORDERED_NODE_ITERATOR_TYPE",
	"UNORDERED_NODE_SNAPSHOT_TYPE",
	"ORDERED_NODE_SNAPSHOT_TYPE",
	"ANY_UNORDERED_NODE_TYPE",
	"FIRST_ORDERED_NODE_TYPE",
}

func (t ResultType) String() string {
	if int(t) < len(resultTypeNames) {
		return resultTypeNames[t]
	}
	return "UNKNOWN_TYPE"
}

// ResultTypes lists every type constant in numeric order.
func ResultTypes() []ResultType {
	out := make([]ResultType, len(resultTypeNames))
	for i := range out {
		out[i] = ResultType(i)
	}
	return out
}

func (t ResultType) isNodeType() bool {
	return t >= UnorderedNodeIteratorType && t <= FirstOrderedNodeType
}

func (t ResultType) isIterator() bool {
	return t == UnorderedNodeIteratorType || t == OrderedNodeIteratorType
}

func (t ResultType) isSnapshot() bool {
	return t == UnorderedNodeSnapshotType || t == OrderedNodeSnapshotType
}

// Result is an XPathResult.
// https://www.w3.org/TR/DOM-Level-3-XPath/xpath.html#XPathResult
type Result struct {
	resultType ResultType

	number  float64
	str     string
	boolean bool
	nodes   []Item

	doc     *dom.Document
	version uint64
	next    int
}

func (r *Result) ResultType() ResultType { return r.resultType }

func wrongType(accessor string, t ResultType) error {
	return dom.ErrType("The result type is not " + accessor + " (it is " + t.String() + ").")
}

// NumberValue returns the value of a NUMBER_TYPE result.
func (r *Result) NumberValue() (float64, error) {
	if r.resultType != NumberType {
		return 0, wrongType("a number", r.resultType)
	}
	return r.number, nil
}

// StringValue returns the value of a STRING_TYPE result.
func (r *Result) StringValue() (string, error) {
	if r.resultType != StringType {
		return "", wrongType("a string", r.resultType)
	}
	return r.str, nil
}

// BooleanValue returns the value of a BOOLEAN_TYPE result.
func (r *Result) BooleanValue() (bool, error) {
	if r.resultType != BooleanType {
		return false, wrongType("a boolean", r.resultType)
	}
	return r.boolean, nil
}

// SingleNodeValue returns the node of an ANY_UNORDERED_NODE_TYPE or
// FIRST_ORDERED_NODE_TYPE result.
func (r *Result) SingleNodeValue() (Item, error) {
	if r.resultType != AnyUnorderedNodeType && r.resultType != FirstOrderedNodeType {
		return Item{}, wrongType("a single node", r.resultType)
	}
	if len(r.nodes) == 0 {
		return Item{}, nil
	}
	return r.nodes[0], nil
}

// InvalidIteratorState reports whether the document changed since an
// iterator result was built.
func (r *Result) InvalidIteratorState() bool {
	return r.resultType.isIterator() && r.doc != nil && r.doc.Version() != r.version
}

// IterateNext returns the next node of an iterator result, or the zero Item
// when exhausted.
func (r *Result) IterateNext() (Item, error) {
	if !r.resultType.isIterator() {
		return Item{}, wrongType("a node iterator", r.resultType)
	}
	if r.InvalidIteratorState() {
		return Item{}, dom.ErrInvalidState("The document has mutated since the result was returned.")
	}
	if r.next >= len(r.nodes) {
		return Item{}, nil
	}
	it := r.nodes[r.next]
	r.next++
	return it, nil
}

// SnapshotLength returns the size of a snapshot result.
func (r *Result) SnapshotLength() (int, error) {
	if !r.resultType.isSnapshot() {
		return 0, wrongType("a snapshot", r.resultType)
	}
	return len(r.nodes), nil
}

// SnapshotItem returns the index-th node of a snapshot result, or the zero
// Item when out of range.
func (r *Result) SnapshotItem(index int) (Item, error) {
	if !r.resultType.isSnapshot() {
		return Item{}, wrongType("a snapshot", r.resultType)
	}
	if index < 0 || index >= len(r.nodes) {
		return Item{}, nil
	}
	return r.nodes[index], nil
}
