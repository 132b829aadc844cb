package xpath

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	xp "github.com/antchfx/xpath"

	"github.com/chrisuehlinger/webconform/dom"
)

// NSResolver maps namespace prefixes to URIs. An error returned by a
// resolver aborts compilation and is passed through unchanged.
type NSResolver interface {
	LookupNamespaceURI(prefix string) (string, error)
}

// NSResolverFunc adapts a function to NSResolver.
type NSResolverFunc func(prefix string) (string, error)

func (f NSResolverFunc) LookupNamespaceURI(prefix string) (string, error) {
	return f(prefix)
}

// nodeResolver resolves prefixes against the namespace declarations in
// scope at a node.
type nodeResolver struct {
	node *dom.Node
}

func (r nodeResolver) LookupNamespaceURI(prefix string) (string, error) {
	return r.node.LookupNamespaceURI(prefix), nil
}

// Evaluator is an XPathEvaluator.
// https://www.w3.org/TR/DOM-Level-3-XPath/xpath.html#XPathEvaluator
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// CreateNSResolver returns a resolver that looks prefixes up on node.
func (e *Evaluator) CreateNSResolver(node *dom.Node) NSResolver {
	return nodeResolver{node: node}
}

// CreateExpression compiles expr, resolving its prefixes through resolver.
func (e *Evaluator) CreateExpression(expr string, resolver NSResolver) (*Expression, error) {
	return Compile(expr, resolver)
}

// Evaluate compiles and evaluates expr against context in one step.
func (e *Evaluator) Evaluate(expr string, context Item, resolver NSResolver, resultType ResultType) (*Result, error) {
	compiled, err := Compile(expr, resolver)
	if err != nil {
		return nil, err
	}
	return compiled.Evaluate(context, resultType)
}

// Expression is a compiled XPathExpression. HTML documents use a variant
// whose unprefixed name tests are folded to lowercase.
type Expression struct {
	source string
	plain  *xp.Expr
	html   *xp.Expr
}

// Compile parses expr. Unresolvable prefixes are a NamespaceError and
// malformed expressions a SyntaxError.
func Compile(expr string, resolver NSResolver) (*Expression, error) {
	lowered, prefixes := scanNames(expr, true)
	namespaces := map[string]string{}
	for _, prefix := range prefixes {
		if resolver == nil {
			return nil, dom.ErrNamespace("The prefix '" + prefix + "' cannot be resolved without a namespace resolver.")
		}
		uri, err := resolver.LookupNamespaceURI(prefix)
		if err != nil {
			return nil, err
		}
		if uri == "" {
			return nil, dom.ErrNamespace("The prefix '" + prefix + "' cannot be resolved.")
		}
		namespaces[prefix] = uri
	}

	plain, err := compileWithNS(expr, namespaces)
	if err != nil {
		return nil, err
	}
	html, err := compileWithNS(lowered, namespaces)
	if err != nil {
		return nil, err
	}
	return &Expression{source: expr, plain: plain, html: html}, nil
}

func compileWithNS(expr string, namespaces map[string]string) (compiled *xp.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			compiled, err = nil, syntaxError(expr, fmt.Sprint(r))
		}
	}()
	compiled, err = xp.CompileWithNS(expr, namespaces)
	if err != nil {
		return nil, syntaxError(expr, err.Error())
	}
	return compiled, nil
}

func syntaxError(expr, reason string) error {
	return dom.ErrSyntax("The string '" + expr + "' is not a valid XPath expression: " + reason)
}

func (x *Expression) String() string { return x.source }

// Evaluate runs the expression with context as the context node and
// converts the value to resultType.
func (x *Expression) Evaluate(context Item, resultType ResultType) (res *Result, err error) {
	if context.IsZero() {
		return nil, dom.ErrType("The context node is null.")
	}
	if int(resultType) >= len(resultTypeNames) {
		return nil, dom.ErrNotSupported("The result type " + strconv.Itoa(int(resultType)) + " is not supported.")
	}
	nav := newNavigator(context)
	if nav == nil {
		return nil, dom.ErrNotSupported("The context node cannot be used for evaluation.")
	}

	expr := x.plain
	doc := documentOf(context)
	if doc != nil && doc.IsHTML() {
		expr = x.html
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, dom.ErrType("XPath evaluation failed: "+fmt.Sprint(r))
		}
	}()
	value := expr.Evaluate(nav)

	res = &Result{doc: doc}
	if doc != nil {
		res.version = doc.Version()
	}
	var nodes []Item
	iter, isNodeSet := value.(*xp.NodeIterator)
	if isNodeSet {
		nodes = collect(iter)
	}

	if resultType == AnyType {
		switch value.(type) {
		case float64:
			resultType = NumberType
		case string:
			resultType = StringType
		case bool:
			resultType = BooleanType
		default:
			resultType = UnorderedNodeIteratorType
		}
	}
	res.resultType = resultType

	switch {
	case resultType == NumberType:
		res.number = toNumber(value, nodes, isNodeSet)
	case resultType == StringType:
		res.str = toString(value, nodes, isNodeSet)
	case resultType == BooleanType:
		res.boolean = toBoolean(value, nodes, isNodeSet)
	case resultType.isNodeType():
		if !isNodeSet {
			return nil, dom.ErrType("The result is not a node set, and therefore cannot be converted to the desired type.")
		}
		res.nodes = nodes
		if resultType == AnyUnorderedNodeType || resultType == FirstOrderedNodeType {
			if len(nodes) > 1 {
				res.nodes = nodes[:1]
			}
		}
	}
	return res, nil
}

func documentOf(context Item) *dom.Document {
	if context.Attr != nil {
		return context.Attr.OwnerDocument()
	}
	if doc := context.Node.AsDocument(); doc != nil {
		return doc
	}
	return context.Node.OwnerDocument()
}

// collect drains iter into a duplicate-free slice in document order.
func collect(iter *xp.NodeIterator) []Item {
	var items []Item
	seen := map[Item]bool{}
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok {
			continue
		}
		it := nav.item()
		if seen[it] {
			continue
		}
		seen[it] = true
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return documentOrder(items[i], items[j]) < 0
	})
	return items
}

// documentOrder compares two items; attributes follow their owner element
// and precede its children.
func documentOrder(a, b Item) int {
	an, ai := position(a)
	bn, bi := position(b)
	if an != bn {
		if an.CompareDocumentPosition(bn)&dom.DocumentPositionFollowing != 0 {
			return -1
		}
		return 1
	}
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	}
	return 0
}

func position(it Item) (*dom.Node, int) {
	if it.Attr == nil {
		return it.Node, -1
	}
	owner := it.Attr.OwnerElement().AsNode()
	for i, a := range attributes(owner) {
		if a == it.Attr {
			return owner, i
		}
	}
	return owner, 0
}

func itemString(it Item) string {
	if it.Attr != nil {
		return it.Attr.Value()
	}
	return stringValue(it.Node)
}

func toString(value interface{}, nodes []Item, isNodeSet bool) string {
	if isNodeSet {
		if len(nodes) == 0 {
			return ""
		}
		return itemString(nodes[0])
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return FormatNumber(v)
	}
	return ""
}

func toNumber(value interface{}, nodes []Item, isNodeSet bool) float64 {
	if isNodeSet {
		return ParseNumber(toString(value, nodes, true))
	}
	switch v := value.(type) {
	case float64:
		return v
	case string:
		return ParseNumber(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func toBoolean(value interface{}, nodes []Item, isNodeSet bool) bool {
	if isNodeSet {
		return len(nodes) > 0
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	}
	return false
}

// FormatNumber converts a number to a string the way the XPath string()
// function does.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber converts a string the way the XPath number() function does:
// optional whitespace, an optional minus sign and a decimal literal.
// Anything else is NaN.
func ParseNumber(s string) float64 {
	s = strings.Trim(s, " \t\r\n")
	body := strings.TrimPrefix(s, "-")
	if body == "" || body == "." {
		return math.NaN()
	}
	dots := 0
	for _, r := range body {
		switch {
		case r == '.':
			dots++
		case r < '0' || r > '9':
			return math.NaN()
		}
	}
	if dots > 1 {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
