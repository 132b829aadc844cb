package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const traversalPage = `<!DOCTYPE html>
<html><body><div id="root"><p id="a">alpha</p><!--note--><p id="b">beta <b id="c">gamma</b></p></div></body></html>`

func TestTreeWalkerBinding(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "a,b,c", eval(t, se, `
		var root = document.getElementById('root');
		var tw = document.createTreeWalker(root, NodeFilter.SHOW_ELEMENT);
		var ids = [];
		while (tw.nextNode()) ids.push(tw.currentNode.id);
		ids.join()
	`))
	assert.Equal(t, "b,a,root", eval(t, se, `
		var back = [];
		tw.currentNode = document.getElementById('c');
		while (tw.previousNode()) back.push(tw.currentNode.id);
		back.join()
	`))
	assert.Equal(t, true, eval(t, se, `
		tw.root === root && tw.whatToShow === NodeFilter.SHOW_ELEMENT && tw.filter === null
	`))
	assert.EqualValues(t, 0xFFFFFFFF, eval(t, se, `document.createTreeWalker(document).whatToShow`))
}

func TestTreeWalkerFilter(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "a,c", eval(t, se, `
		var filter = function(node) {
			return node.id === 'b' ? NodeFilter.FILTER_SKIP : NodeFilter.FILTER_ACCEPT;
		};
		var tw = document.createTreeWalker(document.getElementById('root'), NodeFilter.SHOW_ELEMENT, filter);
		var ids = [];
		while (tw.nextNode()) ids.push(tw.currentNode.id);
		tw.filter === filter ? ids.join() : 'filter lost'
	`))
	assert.Equal(t, "a", eval(t, se, `
		var rejecting = {
			acceptNode: function(node) {
				return node.id === 'b' ? NodeFilter.FILTER_REJECT : NodeFilter.FILTER_ACCEPT;
			}
		};
		var tw2 = document.createTreeWalker(document.getElementById('root'), NodeFilter.SHOW_ELEMENT, rejecting);
		var seen = [];
		while (tw2.nextNode()) seen.push(tw2.currentNode.id);
		seen.join()
	`))
}

func TestTreeWalkerFilterExceptions(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "custom", eval(t, se, `
		var thrown = {tag: 'custom'};
		var tw = document.createTreeWalker(document.body, NodeFilter.SHOW_ALL, function() { throw thrown; });
		try { tw.firstChild(); 'no error' } catch (e) { e === thrown ? e.tag : 'wrapped' }
	`))
	assert.Equal(t, "InvalidStateError", eval(t, se, `
		var reentrant;
		reentrant = document.createTreeWalker(document.body, NodeFilter.SHOW_ALL, function() {
			reentrant.nextNode();
			return NodeFilter.FILTER_ACCEPT;
		});
		try { reentrant.nextNode(); } catch (e) { e.name }
	`))
	assert.Equal(t, "TypeError", eval(t, se, `
		try { document.createTreeWalker(null); } catch (e) { e.name }
	`))
}

func TestNodeIteratorBinding(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "P,#comment,P", eval(t, se, `
		var it = document.createNodeIterator(document.getElementById('root'),
			NodeFilter.SHOW_ELEMENT | NodeFilter.SHOW_COMMENT);
		var names = [];
		var n;
		it.nextNode();
		while ((n = it.nextNode()) && n.id !== 'c') names.push(n.nodeName);
		names.join()
	`))
	// Removing the reference node moves the iterator.
	assert.Equal(t, "true,true", eval(t, se, `
		var iter = document.createNodeIterator(document.getElementById('root'), NodeFilter.SHOW_ELEMENT);
		iter.nextNode();
		var a = iter.nextNode();
		a.remove();
		[iter.referenceNode === document.getElementById('root'), iter.pointerBeforeReferenceNode === false].join()
	`))
}

func TestRangeBinding(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "true,true,0", eval(t, se, `
		var range = new Range();
		[range.collapsed, range.startContainer === document, range.startOffset].join()
	`))
	assert.Equal(t, "alphabeta", eval(t, se, `
		var a = document.getElementById('a').firstChild;
		var b = document.getElementById('b').firstChild;
		range.setStart(a, 0);
		range.setEnd(b, 4);
		range.toString()
	`))
	assert.Equal(t, true, eval(t, se, `
		range.commonAncestorContainer === document.getElementById('root') &&
			range.isPointInRange(document.getElementById('a').firstChild, 2) &&
			!range.isPointInRange(document.getElementById('a'), 0) &&
			range.intersectsNode(document.getElementById('root')) &&
			range.comparePoint(document.getElementById('c'), 0) === 1
	`))
	assert.Equal(t, "IndexSizeError", eval(t, se, `
		try { range.setStart(document.getElementById('a'), 5); } catch (e) { e.name }
	`))
	assert.Equal(t, "InvalidNodeTypeError", eval(t, se, `
		try { range.setStart(document.doctype, 0); } catch (e) { e.name }
	`))
	assert.Equal(t, "NotSupportedError", eval(t, se, `
		try { range.compareBoundaryPoints(4, new Range()); } catch (e) { e.name }
	`))
	assert.EqualValues(t, 3, eval(t, se, `Range.END_TO_START`))
}

func TestRangeMutations(t *testing.T) {
	se, doc := newTestPage(t, traversalPage)
	assert.Equal(t, "habet|alp|a ", eval(t, se, `
		var range = document.createRange();
		range.setStart(document.getElementById('a').firstChild, 3);
		range.setEnd(document.getElementById('b').firstChild, 3);
		var frag = range.extractContents();
		[frag.textContent, document.getElementById('a').textContent, document.getElementById('b').firstChild.data].join('|')
	`))
	assert.Equal(t, true, eval(t, se, `range.collapsed && range.startContainer === document.getElementById('root')`))

	eval(t, se, `
		var r2 = document.createRange();
		r2.selectNodeContents(document.getElementById('c'));
		r2.surroundContents(document.createElement('i'));
	`)
	assert.Equal(t, `<b id="c"><i>gamma</i></b>`, doc.GetElementById("c").OuterHTML())

	assert.Equal(t, "<u>new</u>", eval(t, se, `
		var r3 = document.createRange();
		r3.selectNodeContents(document.body);
		var f = r3.createContextualFragment('<u>new</u>');
		f.firstChild.outerHTML
	`))
}

func TestRangeLiveness(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "2,1", eval(t, se, `
		var root = document.getElementById('root');
		var range = document.createRange();
		range.setStart(root, 2);
		range.setEnd(root, 3);
		root.insertBefore(document.createElement('span'), root.firstChild);
		var afterInsert = range.startOffset - 1;
		root.removeChild(root.firstChild);
		root.removeChild(root.firstChild);
		[afterInsert, range.startOffset].join()
	`))
}

func TestSelectionBinding(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "None,0,none", eval(t, se, `
		var sel = getSelection();
		[sel.type, sel.rangeCount, sel.direction].join()
	`))
	assert.Equal(t, true, eval(t, se, `getSelection() === document.getSelection() && sel.anchorNode === null`))

	assert.Equal(t, "Caret,1,true", eval(t, se, `
		var text = document.getElementById('a').firstChild;
		sel.collapse(text, 2);
		[sel.type, sel.rangeCount, sel.isCollapsed].join()
	`))
	assert.Equal(t, "Range,forward,alph", eval(t, se, `
		sel.setBaseAndExtent(text, 0, text, 4);
		[sel.type, sel.direction, sel.toString()].join()
	`))
	assert.Equal(t, "backward,4,1", eval(t, se, `
		sel.collapse(text, 4);
		sel.extend(text, 1);
		[sel.direction, sel.anchorOffset, sel.focusOffset].join()
	`))
	assert.Equal(t, true, eval(t, se, `
		var live = sel.getRangeAt(0);
		live === sel.getRangeAt(0) && live.startOffset === 1 && live.endOffset === 4
	`))
	assert.Equal(t, "IndexSizeError", eval(t, se, `try { sel.getRangeAt(1); } catch (e) { e.name }`))
	assert.Equal(t, "IndexSizeError", eval(t, se, `try { sel.collapse(text, 99); } catch (e) { e.name }`))

	assert.Equal(t, "None,0", eval(t, se, `
		sel.collapse(null);
		[sel.type, sel.rangeCount].join()
	`))
	assert.Equal(t, "InvalidStateError", eval(t, se, `try { sel.extend(text, 0); } catch (e) { e.name }`))
}

func TestSelectionAddRange(t *testing.T) {
	se, _ := newTestPage(t, traversalPage)
	assert.Equal(t, "1,true,1", eval(t, se, `
		var sel = getSelection();
		var range = document.createRange();
		range.selectNode(document.getElementById('a'));
		sel.addRange(range);
		sel.addRange(document.createRange());
		var first = [sel.rangeCount, sel.getRangeAt(0) === range, sel.rangeCount];
		first.join()
	`))
	assert.Equal(t, true, eval(t, se, `
		sel.containsNode(document.getElementById('a')) && !sel.containsNode(document.getElementById('b'))
	`))
	assert.Equal(t, "beta gamma", eval(t, se, `
		sel.deleteFromDocument();
		document.getElementById('root').textContent
	`))
	assert.Equal(t, "NotFoundError", eval(t, se, `
		try { sel.removeRange(document.createRange()); } catch (e) { e.name }
	`))
}
