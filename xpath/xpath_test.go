package xpath

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/webconform/dom"
)

const page = `<html><head><title>t</title></head><body>
<div id="a" class="box"><p>one</p><p lang="en">two</p></div>
<div id="b"><span>three</span></div>
</body></html>`

func parse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseHTML(markup)
	require.NoError(t, err)
	return doc
}

func parseXML(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseXML(strings.NewReader(markup), "application/xml")
	require.NoError(t, err)
	return doc
}

func exceptionName(err error) string {
	var domErr *dom.DOMException
	if errors.As(err, &domErr) {
		return domErr.Name
	}
	var typeErr *dom.TypeError
	if errors.As(err, &typeErr) {
		return "TypeError"
	}
	return ""
}

func docItem(doc *dom.Document) Item {
	return Item{Node: doc.AsNode()}
}

func TestEvaluateNodeIterator(t *testing.T) {
	doc := parse(t, page)
	res, err := NewEvaluator().Evaluate("//p", docItem(doc), nil, OrderedNodeIteratorType)
	require.NoError(t, err)
	assert.Equal(t, OrderedNodeIteratorType, res.ResultType())

	var texts []string
	for {
		it, err := res.IterateNext()
		require.NoError(t, err)
		if it.IsZero() {
			break
		}
		v, _ := it.Node.TextContent()
		texts = append(texts, v)
	}
	assert.Equal(t, []string{"one", "two"}, texts)
}

func TestEvaluateAnyType(t *testing.T) {
	doc := parse(t, page)
	ev := NewEvaluator()

	tests := []struct {
		expr string
		want ResultType
	}{
		{"count(//p)", NumberType},
		{"string(//span)", StringType},
		{"//p = 'two'", BooleanType},
		{"//div", UnorderedNodeIteratorType},
	}
	for _, tt := range tests {
		res, err := ev.Evaluate(tt.expr, docItem(doc), nil, AnyType)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, res.ResultType(), tt.expr)
	}
}

func TestEvaluateConversions(t *testing.T) {
	doc := parse(t, page)
	ev := NewEvaluator()

	res, err := ev.Evaluate("count(//p)", docItem(doc), nil, NumberType)
	require.NoError(t, err)
	n, err := res.NumberValue()
	require.NoError(t, err)
	assert.Equal(t, 2.0, n)

	res, err = ev.Evaluate("//span", docItem(doc), nil, StringType)
	require.NoError(t, err)
	s, _ := res.StringValue()
	assert.Equal(t, "three", s)

	res, err = ev.Evaluate("//table", docItem(doc), nil, BooleanType)
	require.NoError(t, err)
	b, _ := res.BooleanValue()
	assert.False(t, b)

	res, err = ev.Evaluate("//p", docItem(doc), nil, NumberType)
	require.NoError(t, err)
	n, _ = res.NumberValue()
	assert.True(t, math.IsNaN(n))

	res, err = ev.Evaluate("count(//p) div 4", docItem(doc), nil, StringType)
	require.NoError(t, err)
	s, _ = res.StringValue()
	assert.Equal(t, "0.5", s)
}

func TestEvaluateNonNodeSetAsNodeType(t *testing.T) {
	doc := parse(t, page)
	_, err := NewEvaluator().Evaluate("count(//p)", docItem(doc), nil, FirstOrderedNodeType)
	assert.Equal(t, "TypeError", exceptionName(err))
}

func TestAccessorTypeErrors(t *testing.T) {
	doc := parse(t, page)
	res, err := NewEvaluator().Evaluate("'x'", docItem(doc), nil, StringType)
	require.NoError(t, err)

	_, err = res.NumberValue()
	assert.Equal(t, "TypeError", exceptionName(err))
	_, err = res.BooleanValue()
	assert.Equal(t, "TypeError", exceptionName(err))
	_, err = res.IterateNext()
	assert.Equal(t, "TypeError", exceptionName(err))
	_, err = res.SnapshotLength()
	assert.Equal(t, "TypeError", exceptionName(err))
	_, err = res.SingleNodeValue()
	assert.Equal(t, "TypeError", exceptionName(err))

	snap, err := NewEvaluator().Evaluate("//p", docItem(doc), nil, OrderedNodeSnapshotType)
	require.NoError(t, err)
	_, err = snap.IterateNext()
	assert.Equal(t, "TypeError", exceptionName(err))
}

func TestSnapshot(t *testing.T) {
	doc := parse(t, page)
	res, err := NewEvaluator().Evaluate("//div/@id | //p", docItem(doc), nil, OrderedNodeSnapshotType)
	require.NoError(t, err)

	n, err := res.SnapshotLength()
	require.NoError(t, err)
	require.Equal(t, 4, n)

	first, _ := res.SnapshotItem(0)
	require.NotNil(t, first.Attr)
	assert.Equal(t, "a", first.Attr.Value())
	second, _ := res.SnapshotItem(1)
	assert.Equal(t, "P", second.Node.NodeName())
	last, _ := res.SnapshotItem(3)
	assert.Equal(t, "b", last.Attr.Value())

	missing, err := res.SnapshotItem(10)
	require.NoError(t, err)
	assert.True(t, missing.IsZero())

	// Snapshots survive mutation
	doc.Body().AsNode().AppendChild(doc.CreateElement("p").AsNode())
	n, _ = res.SnapshotLength()
	assert.Equal(t, 4, n)
}

func TestSingleNode(t *testing.T) {
	doc := parse(t, page)
	res, err := NewEvaluator().Evaluate("//p[@lang]", docItem(doc), nil, FirstOrderedNodeType)
	require.NoError(t, err)
	it, err := res.SingleNodeValue()
	require.NoError(t, err)
	v, _ := it.Node.TextContent()
	assert.Equal(t, "two", v)

	res, err = NewEvaluator().Evaluate("//table", docItem(doc), nil, AnyUnorderedNodeType)
	require.NoError(t, err)
	it, err = res.SingleNodeValue()
	require.NoError(t, err)
	assert.True(t, it.IsZero())
}

func TestIteratorInvalidatedByMutation(t *testing.T) {
	doc := parse(t, page)
	res, err := NewEvaluator().Evaluate("//p", docItem(doc), nil, UnorderedNodeIteratorType)
	require.NoError(t, err)
	assert.False(t, res.InvalidIteratorState())

	doc.Body().AsNode().AppendChild(doc.CreateTextNode("x"))

	assert.True(t, res.InvalidIteratorState())
	_, err = res.IterateNext()
	assert.Equal(t, "InvalidStateError", exceptionName(err))
}

func TestHTMLNamesAreCaseInsensitive(t *testing.T) {
	doc := parse(t, page)
	res, err := NewEvaluator().Evaluate("count(//DIV[@ID='a']/P)", docItem(doc), nil, NumberType)
	require.NoError(t, err)
	n, _ := res.NumberValue()
	assert.Equal(t, 2.0, n)

	xmlDoc := parseXML(t, `<root><Item/><item/></root>`)
	res, err = NewEvaluator().Evaluate("count(//Item)", docItem(xmlDoc), nil, NumberType)
	require.NoError(t, err)
	n, _ = res.NumberValue()
	assert.Equal(t, 1.0, n)
}

func TestContextNode(t *testing.T) {
	doc := parse(t, page)
	b := doc.GetElementById("b").AsNode()

	res, err := NewEvaluator().Evaluate("count(.//span) + count(../div)", Item{Node: b}, nil, NumberType)
	require.NoError(t, err)
	n, _ := res.NumberValue()
	assert.Equal(t, 3.0, n)

	_, err = NewEvaluator().Evaluate("//p", Item{}, nil, AnyType)
	assert.Equal(t, "TypeError", exceptionName(err))
}

func TestDoctypeIsNotANode(t *testing.T) {
	doc := parse(t, `<!DOCTYPE html><!--c--><html><body><p>x</p></body></html>`)
	ev := NewEvaluator()

	res, err := ev.Evaluate("/node()", docItem(doc), nil, OrderedNodeSnapshotType)
	require.NoError(t, err)
	n, err := res.SnapshotLength()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	first, _ := res.SnapshotItem(0)
	second, _ := res.SnapshotItem(1)
	assert.Equal(t, dom.CommentNode, first.Node.NodeType())
	assert.Equal(t, "HTML", second.Node.NodeName())

	res, err = ev.Evaluate("count(//node())", docItem(doc), nil, NumberType)
	require.NoError(t, err)
	count, _ := res.NumberValue()
	assert.Equal(t, 6.0, count) // comment, html, head, body, p, text

	_, err = ev.Evaluate(".", Item{Node: doc.Doctype()}, nil, AnyType)
	assert.Equal(t, "NotSupportedError", exceptionName(err))
}

func TestNamespaces(t *testing.T) {
	doc := parseXML(t, `<root xmlns:x="urn:x"><x:a/><x:a/><a/></root>`)
	ev := NewEvaluator()

	resolver := ev.CreateNSResolver(doc.DocumentElement().AsNode())
	res, err := ev.Evaluate("count(//x:a)", docItem(doc), resolver, NumberType)
	require.NoError(t, err)
	n, _ := res.NumberValue()
	assert.Equal(t, 2.0, n)

	custom := NSResolverFunc(func(prefix string) (string, error) {
		if prefix == "y" {
			return "urn:x", nil
		}
		return "", nil
	})
	_, err = ev.CreateExpression("//y:a", custom)
	require.NoError(t, err)

	_, err = ev.CreateExpression("//z:a", custom)
	assert.Equal(t, "NamespaceError", exceptionName(err))
	_, err = ev.CreateExpression("//z:a", nil)
	assert.Equal(t, "NamespaceError", exceptionName(err))

	boom := errors.New("resolver failed")
	_, err = ev.CreateExpression("//q:a", NSResolverFunc(func(string) (string, error) { return "", boom }))
	assert.Same(t, boom, err)
}

func TestSyntaxError(t *testing.T) {
	for _, expr := range []string{"][", "count(", "//p[@"} {
		_, err := NewEvaluator().CreateExpression(expr, nil)
		assert.Equal(t, "SyntaxError", exceptionName(err), expr)
	}
}

func TestExpressionReuse(t *testing.T) {
	doc := parse(t, page)
	expr, err := NewEvaluator().CreateExpression("count(p)", nil)
	require.NoError(t, err)

	for id, want := range map[string]float64{"a": 2, "b": 0} {
		res, err := expr.Evaluate(Item{Node: doc.GetElementById(id).AsNode()}, NumberType)
		require.NoError(t, err)
		n, _ := res.NumberValue()
		assert.Equal(t, want, n, id)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{" -3.5 ", -3.5},
		{".5", 0.5},
		{"7.", 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumber(tt.in), tt.in)
	}
	for _, bad := range []string{"", "abc", "1e3", "+1", "1.2.3", "0x10", "-"} {
		assert.True(t, math.IsNaN(ParseNumber(bad)), bad)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", FormatNumber(3))
	assert.Equal(t, "-0.25", FormatNumber(-0.25))
	assert.Equal(t, "0", FormatNumber(math.Copysign(0, -1)))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
	assert.Equal(t, "Infinity", FormatNumber(math.Inf(1)))
}

func TestScanNames(t *testing.T) {
	out, prefixes := scanNames(`//DIV[@Class="Keep"]/x:Item/child::Text() | $Var`, true)
	assert.Equal(t, `//div[@class="Keep"]/x:Item/child::Text() | $Var`, out)
	assert.Equal(t, []string{"x"}, prefixes)
}
