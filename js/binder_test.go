package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/webconform/dom"
)

const bindingPage = `<!DOCTYPE html>
<html><head><title>Binding test</title></head>
<body><div id="main" class="a b" data-foo-bar="baz"><p>one</p><p>two</p><!--c--></div></body></html>`

func TestBinderWrapperIdentity(t *testing.T) {
	se, doc := newTestPage(t, bindingPage)
	assert.Equal(t, true, eval(t, se, `
		var main = document.getElementById('main');
		main === document.querySelector('#main') &&
			main.firstChild.parentNode === main &&
			main.classList === main.classList &&
			main.dataset === main.dataset &&
			main.attributes === main.attributes &&
			document.implementation === document.implementation
	`))

	obj := se.Binder().Node(doc.GetElementById("main").AsNode())
	assert.Equal(t, doc.GetElementById("main").AsNode(), se.Binder().Value(obj))
}

func TestBinderInstanceOf(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	checks := []string{
		"document instanceof Document",
		"document instanceof HTMLDocument",
		"document instanceof Node",
		"document instanceof EventTarget",
		"document.body instanceof HTMLElement",
		"document.body instanceof Element",
		"document.createTextNode('x') instanceof Text",
		"document.createTextNode('x') instanceof CharacterData",
		"document.createComment('x') instanceof Comment",
		"document.doctype instanceof DocumentType",
		"document.createDocumentFragment() instanceof DocumentFragment",
		"document.body.childNodes instanceof NodeList",
		"document.body.children instanceof HTMLCollection",
		"document.body.attributes instanceof NamedNodeMap",
		"document.createAttribute('x') instanceof Attr",
		"document.implementation instanceof DOMImplementation",
		"document.createRange() instanceof Range",
		"getSelection() instanceof Selection",
		"document.createTreeWalker(document) instanceof TreeWalker",
		"document.createNodeIterator(document) instanceof NodeIterator",
		"new DOMPoint() instanceof DOMPointReadOnly",
		"new DOMMatrix() instanceof DOMMatrixReadOnly",
		"new DOMRect() instanceof DOMRectReadOnly",
		"new XPathEvaluator() instanceof XPathEvaluator",
		"new DOMException() instanceof Error",
		"document.implementation.createDocument(null, 'x') instanceof XMLDocument",
	}
	for _, check := range checks {
		assert.Equal(t, true, eval(t, se, check), check)
	}
}

func TestBinderIllegalConstructor(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	for _, iface := range []string{"Node", "Element", "HTMLElement", "NodeList", "Attr", "TreeWalker", "Selection"} {
		assert.Equal(t, "TypeError", eval(t, se, `try { new `+iface+`(); 'no error' } catch (e) { e.name }`), iface)
	}
	assert.Equal(t, "TypeError", eval(t, se, `
		try { Node.prototype.appendChild.call({}, document.body); } catch (e) { e.name }
	`))
}

func TestBinderNodeConstants(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	for _, nt := range dom.NodeTypeConstants() {
		assert.EqualValues(t, int(nt), eval(t, se, "Node."+nt.String()), nt.String())
		assert.EqualValues(t, int(nt), eval(t, se, "document.body."+nt.String()), nt.String())
	}
	assert.EqualValues(t, 20, eval(t, se, "Node.DOCUMENT_POSITION_CONTAINED_BY | Node.DOCUMENT_POSITION_FOLLOWING"))
}

func TestBinderTreeMutation(t *testing.T) {
	se, doc := newTestPage(t, bindingPage)
	eval(t, se, `
		var main = document.getElementById('main');
		var p = document.createElement('p');
		p.textContent = 'three';
		main.appendChild(p);
		main.insertBefore(document.createTextNode('zero'), main.firstChild);
		main.removeChild(main.querySelector('p'));
		main.lastElementChild.after('tail');
	`)
	assert.Equal(t, `<div id="main" class="a b" data-foo-bar="baz">zero<p>two</p><!--c--><p>three</p>tail</div>`,
		doc.GetElementById("main").OuterHTML())

	assert.Equal(t, "HierarchyRequestError 3", eval(t, se, `
		try { document.body.appendChild(document.documentElement); } catch (e) { e.name + ' ' + e.code }
	`))
	assert.Equal(t, "NotFoundError", eval(t, se, `
		try { document.body.removeChild(document.createElement('x')); } catch (e) { e.name }
	`))
	assert.Equal(t, "TypeError", eval(t, se, `
		try { document.body.appendChild('not a node'); } catch (e) { e.name }
	`))
}

func TestBinderNodeAccessors(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "DIV div main 3 true null", eval(t, se, `
		var main = document.getElementById('main');
		[main.nodeName, main.localName, main.id, main.childNodes.length,
		 main.isConnected, String(main.nodeValue)].join(' ')
	`))
	assert.Equal(t, "#text #comment #document #document-fragment html", eval(t, se, `
		[document.createTextNode('').nodeName, document.createComment('').nodeName,
		 document.nodeName, document.createDocumentFragment().nodeName, document.doctype.nodeName].join(' ')
	`))
	assert.Equal(t, true, eval(t, se, `
		var clone = document.getElementById('main').cloneNode(true);
		clone.isEqualNode(document.getElementById('main')) && !clone.isSameNode(document.getElementById('main')) &&
			clone.parentNode === null && !clone.isConnected && clone.ownerDocument === document
	`))
	assert.EqualValues(t, 4, eval(t, se, `
		document.body.compareDocumentPosition(document.getElementById('main')) & Node.DOCUMENT_POSITION_FOLLOWING
	`))
}

func TestBinderCharacterData(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "hello world|ello|6|IndexSizeError", eval(t, se, `
		var text = new Text('hello');
		text.appendData(' world');
		var out = [text.data, text.substringData(1, 4), text.splitText(5).length];
		try { text.deleteData(100, 1); } catch (e) { out.push(e.name); }
		out.join('|')
	`))
	assert.EqualValues(t, 2, eval(t, se, `new Text('\u{1F600}').length`))
	assert.Equal(t, "comment", eval(t, se, `new Comment('comment').data`))
}

func TestBinderAttributes(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "baz|true|null|1|x", eval(t, se, `
		var main = document.getElementById('main');
		var out = [main.getAttribute('data-foo-bar'), main.hasAttribute('CLASS'), main.getAttribute('missing')];
		main.toggleAttribute('hidden');
		main.removeAttribute('hidden');
		main.setAttributeNS('http://example.test/ns', 'p:attr', 'x');
		out.push(main.getAttributeNames().filter(function(n) { return n === 'p:attr'; }).length);
		out.push(main.getAttributeNS('http://example.test/ns', 'attr'));
		out.map(String).join('|')
	`))
	assert.Equal(t, "InvalidCharacterError", eval(t, se, `
		try { document.body.setAttribute('1bad', 'x'); } catch (e) { e.name }
	`))
	assert.Equal(t, true, eval(t, se, `
		var attr = document.createAttribute('title');
		attr.value = 'tip';
		document.body.setAttributeNode(attr);
		attr.ownerElement === document.body && document.body.title === 'tip' &&
			document.body.attributes.title === attr && document.body.attributes[document.body.attributes.length - 1] === attr
	`))
	assert.Equal(t, "InUseAttributeError", eval(t, se, `
		var a = document.body.getAttributeNode('title');
		try { document.createElement('div').setAttributeNode(a); } catch (e) { e.name }
	`))
}

func TestBinderCollections(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   interface{}
	}{
		{"live HTMLCollection", `
			var ps = document.getElementsByTagName('p');
			var live = ps.length;
			var texts = [];
			for (var p of ps) texts.push(p.textContent);
			document.getElementById('main').appendChild(document.createElement('p'));
			[live, texts.join(' '), ps.length === 3].join(' ')
		`, "2 one two true"},
		{"static NodeList", `
			var list = document.querySelectorAll('p');
			document.body.appendChild(document.createElement('p'));
			[list.length, list.item(0) === list[0], String(list[10])].join(' ')
		`, "2 true undefined"},
		{"namedItem", `document.body.children.namedItem('main') === document.getElementById('main')`, true},
		{"forEach", `
			var n = 0;
			document.getElementById('main').childNodes.forEach(function() { n++; });
			n
		`, int64(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se, _ := newTestPage(t, bindingPage)
			assert.EqualValues(t, tt.want, eval(t, se, tt.script))
		})
	}
}

func TestBinderClassList(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "a c d|true|false|SyntaxError|InvalidCharacterError", eval(t, se, `
		var cl = document.getElementById('main').classList;
		cl.remove('b');
		cl.add('c', 'd');
		var out = [cl.value, cl.contains('c'), cl.toggle('c')];
		try { cl.add(''); } catch (e) { out.push(e.name); }
		try { cl.add('a b'); } catch (e) { out.push(e.name); }
		out.join('|')
	`))
	assert.Equal(t, "x y", eval(t, se, `
		var el = document.createElement('div');
		el.classList = 'x y';
		el.className
	`))
}

func TestBinderDataset(t *testing.T) {
	se, doc := newTestPage(t, bindingPage)
	assert.Equal(t, "baz|true|fooBar,newKey|undefined", eval(t, se, `
		var ds = document.getElementById('main').dataset;
		ds.newKey = 'value';
		var out = [ds.fooBar, 'fooBar' in ds, Object.keys(ds).join(',')];
		delete ds.fooBar;
		out.push(String(ds.fooBar));
		out.join('|')
	`))
	v, ok := doc.GetElementById("main").GetAttribute("data-new-key")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	assert.Equal(t, "SyntaxError", eval(t, se, `
		try { document.body.dataset['bad-name'] = 'x'; } catch (e) { e.name }
	`))
}

func TestBinderInnerHTML(t *testing.T) {
	se, doc := newTestPage(t, bindingPage)
	eval(t, se, `document.getElementById('main').innerHTML = '<b>bold</b> & more'`)
	assert.Equal(t, "<b>bold</b> &amp; more", doc.GetElementById("main").AsNode().InnerHTML())

	assert.Equal(t, "<i>a</i><span>b</span>", eval(t, se, `
		var el = document.createElement('div');
		el.insertAdjacentHTML('beforeend', '<span>b</span>');
		el.insertAdjacentHTML('afterbegin', '<i>a</i>');
		el.innerHTML
	`))
	assert.Equal(t, "SyntaxError", eval(t, se, `
		try { document.body.insertAdjacentHTML('nowhere', 'x'); } catch (e) { e.name }
	`))
}

func TestBinderDocument(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "Binding test|CSS1Compat|UTF-8|text/html|HTML|BODY", eval(t, se, `
		[document.title, document.compatMode, document.characterSet, document.contentType,
		 document.documentElement.nodeName, document.body.tagName].join('|')
	`))
	eval(t, se, `document.title = 'Renamed'`)
	assert.Equal(t, "Renamed", eval(t, se, `document.querySelector('title').textContent`))

	assert.Equal(t, "InvalidCharacterError", eval(t, se, `
		try { document.createElement('1x'); } catch (e) { e.name }
	`))
	assert.Equal(t, "NamespaceError", eval(t, se, `
		try { document.createElementNS(null, 'p:x'); } catch (e) { e.name }
	`))
	assert.Equal(t, true, eval(t, se, `
		var other = document.implementation.createHTMLDocument('other');
		var el = other.createElement('span');
		var adopted = document.adoptNode(el);
		adopted === el && el.ownerDocument === document
	`))
	assert.Equal(t, "application/xml", eval(t, se, `new Document().contentType`))
}

func TestBinderDocumentFragment(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "2 0 true", eval(t, se, `
		var frag = new DocumentFragment();
		frag.append(document.createElement('a'), 'text');
		var inner = document.createElement('b');
		inner.id = 'found';
		frag.firstChild.appendChild(inner);
		var n = frag.childNodes.length;
		document.body.appendChild(frag);
		[n, frag.childNodes.length, document.getElementById('found') === inner].join(' ')
	`))
}

func TestBinderDOMImplementation(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "true|html|-//W3C|svg|http://www.w3.org/2000/svg|application/xml|image/svg+xml", eval(t, se, `
		var impl = document.implementation;
		var dt = impl.createDocumentType('html', '-//W3C', '');
		var svg = impl.createDocument('http://www.w3.org/2000/svg', 'svg', null);
		var xml = impl.createDocument(null, '', null);
		[impl.hasFeature(), dt.name, dt.publicId, svg.documentElement.localName,
		 svg.documentElement.namespaceURI, xml.contentType, svg.contentType].join('|')
	`))
	assert.Equal(t, "Hello|0", eval(t, se, `
		var html = document.implementation.createHTMLDocument('Hello');
		var bare = document.implementation.createHTMLDocument();
		[html.title, bare.getElementsByTagName('title').length].join('|')
	`))
	assert.Equal(t, "InvalidCharacterError", eval(t, se, `
		try { document.implementation.createDocumentType('a b', '', ''); } catch (e) { e.name }
	`))
}

func TestBinderDOMException(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	for _, c := range dom.ExceptionCodeNames {
		assert.EqualValues(t, c.Code, eval(t, se, "DOMException."+c.Constant), c.Constant)
		assert.EqualValues(t, c.Code, eval(t, se, "new DOMException('m', '"+c.Name+"').code"), c.Name)
	}
	assert.Equal(t, "Error||0", eval(t, se, `
		var e = new DOMException();
		[e.name, e.message, e.code].join('|')
	`))
	assert.Equal(t, "msg|Custom|0|true", eval(t, se, `
		var e = new DOMException('msg', 'Custom');
		[e.message, e.name, e.code, Object.prototype.toString.call(e) === '[object Error]' || e instanceof Error].join('|')
	`))
}

func TestBinderSelectors(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	assert.Equal(t, "true|DIV|2|SyntaxError", eval(t, se, `
		var p = document.querySelector('#main p:last-of-type');
		var out = [p.matches('div > p'), p.closest('.a').tagName, document.querySelectorAll('.b p').length];
		try { document.querySelector('##'); } catch (e) { out.push(e.name); }
		out.join('|')
	`))
}

func TestBinderConstructorsRequireNew(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	for _, ctor := range []string{"DOMException", "DOMMatrix", "DOMPoint", "XPathEvaluator", "Event", "Range"} {
		t.Run(ctor, func(t *testing.T) {
			got := eval(t, se, `try { `+ctor+`('x'); 'no throw' } catch (e) { e instanceof TypeError }`)
			assert.Equal(t, true, got)
		})
	}
	assert.Equal(t, "NotFoundError", eval(t, se, `new DOMException('a', 'NotFoundError').name`))
}

func TestBinderToStringTag(t *testing.T) {
	se, _ := newTestPage(t, bindingPage)
	tests := []struct{ script, want string }{
		{"Object.prototype.toString.call(new DOMException())", "[object DOMException]"},
		{"String(document.getElementById('main').dataset)", "[object DOMStringMap]"},
		{"Object.prototype.toString.call(new DOMMatrix())", "[object DOMMatrix]"},
		{"Object.prototype.toString.call(document.createRange())", "[object Range]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eval(t, se, tt.script), tt.script)
	}
}
