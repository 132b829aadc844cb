package dom

import "testing"

func TestDOMImplementation_CreateDocumentType(t *testing.T) {
	doc := NewDocument()
	dt, err := doc.Implementation().CreateDocumentType("svg:svg", "-//W3C//DTD SVG 1.1//EN", "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd")
	if err != nil {
		t.Fatal(err)
	}
	if dt.NodeType() != DocumentTypeNode {
		t.Errorf("Expected DocumentTypeNode, got %v", dt.NodeType())
	}
	if dt.DoctypeName() != "svg:svg" {
		t.Errorf("Expected name 'svg:svg', got %q", dt.DoctypeName())
	}
	if dt.DoctypePublicID() != "-//W3C//DTD SVG 1.1//EN" {
		t.Errorf("Unexpected publicId %q", dt.DoctypePublicID())
	}
	if dt.OwnerDocument() != doc {
		t.Error("Expected the doctype to belong to the implementation's document")
	}

	if _, err := doc.Implementation().CreateDocumentType("1bad", "", ""); exceptionName(err) != "InvalidCharacterError" {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}
}

func TestDOMImplementation_CreateDocument(t *testing.T) {
	impl := NewDocument().Implementation()

	tests := []struct {
		namespace   string
		contentType string
	}{
		{"", "application/xml"},
		{HTMLNamespace, "application/xhtml+xml"},
		{SVGNamespace, "image/svg+xml"},
	}
	for _, tt := range tests {
		doc, err := impl.CreateDocument(tt.namespace, "root", nil)
		if err != nil {
			t.Fatalf("%q: %v", tt.namespace, err)
		}
		if doc.ContentType() != tt.contentType {
			t.Errorf("%q: expected %s, got %s", tt.namespace, tt.contentType, doc.ContentType())
		}
		if doc.IsHTML() {
			t.Errorf("%q: expected an XML document", tt.namespace)
		}
	}

	empty, err := impl.CreateDocument("", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty.DocumentElement() != nil {
		t.Error("Expected no document element for an empty qualified name")
	}

	dt, _ := impl.CreateDocumentType("root", "", "")
	withDoctype, err := impl.CreateDocument("", "root", dt)
	if err != nil {
		t.Fatal(err)
	}
	if withDoctype.AsNode().FirstChild() != dt {
		t.Error("Expected the doctype to come first")
	}
	if dt.OwnerDocument() != withDoctype {
		t.Error("Expected the doctype to be adopted")
	}

	if _, err := impl.CreateDocument("", "x:root", nil); exceptionName(err) != "NamespaceError" {
		t.Errorf("Expected NamespaceError, got %v", err)
	}
}

func TestDOMImplementation_CreateHTMLDocument(t *testing.T) {
	impl := NewDocument().Implementation()
	title := "Hello"
	doc := impl.CreateHTMLDocument(&title)

	if doc.Doctype() == nil {
		t.Error("Expected a doctype")
	}
	if doc.Head() == nil || doc.Body() == nil {
		t.Fatal("Expected head and body")
	}
	if doc.Title() != "Hello" {
		t.Errorf("Expected title 'Hello', got %q", doc.Title())
	}
	if !impl.HasFeature() {
		t.Error("Expected hasFeature to return true")
	}

	untitled := impl.CreateHTMLDocument(nil)
	if untitled.Head().AsNode().HasChildNodes() {
		t.Error("Expected no title element when title is absent")
	}
}

func TestDocument_ImportAndAdopt(t *testing.T) {
	src, _ := ParseHTML(`<html><body><div id="x"><b>bold</b></div></body></html>`)
	dst := NewDocument()
	div := src.GetElementById("x").AsNode()

	imported, err := dst.ImportNode(div, true)
	if err != nil {
		t.Fatal(err)
	}
	if imported.OwnerDocument() != dst {
		t.Error("Expected the import to belong to the destination")
	}
	if div.ParentNode() == nil {
		t.Error("Expected importNode to leave the original in place")
	}
	if textContent(imported) != "bold" {
		t.Errorf("Expected a deep copy, got %q", textContent(imported))
	}

	adopted, err := dst.AdoptNode(div)
	if err != nil {
		t.Fatal(err)
	}
	if adopted.ParentNode() != nil {
		t.Error("Expected adoptNode to remove the node from its parent")
	}
	if adopted.FirstChild().OwnerDocument() != dst {
		t.Error("Expected descendants to be adopted")
	}

	if _, err := dst.ImportNode(src.AsNode(), false); exceptionName(err) != "NotSupportedError" {
		t.Errorf("Expected NotSupportedError, got %v", err)
	}
}

func TestDocument_Version(t *testing.T) {
	doc := NewDocument()
	before := doc.Version()
	doc.AsNode().AppendChild(doc.CreateElement("html").AsNode())
	if doc.Version() == before {
		t.Error("Expected the version to change after a mutation")
	}

	before = doc.Version()
	doc.DocumentElement().SetAttribute("lang", "en")
	if doc.Version() == before {
		t.Error("Expected the version to change after an attribute change")
	}
}

func TestDataset(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	el.SetAttribute("data-foo-bar", "1")
	el.SetAttribute("data-x", "2")
	el.SetAttribute("title", "t")

	ds := el.Dataset()
	if names := ds.Names(); !equalStrings(names, []string{"fooBar", "x"}) {
		t.Errorf("Expected [fooBar x], got %v", names)
	}
	if v, ok := ds.Get("fooBar"); !ok || v != "1" {
		t.Errorf("Expected fooBar=1, got %q %v", v, ok)
	}

	if err := ds.Set("someName", "v"); err != nil {
		t.Fatal(err)
	}
	if attr(el, "data-some-name") != "v" {
		t.Errorf("Expected data-some-name to be set, got %q", attr(el, "data-some-name"))
	}
	if err := ds.Set("bad-name", "v"); exceptionName(err) != "SyntaxError" {
		t.Errorf("Expected SyntaxError, got %v", err)
	}

	if !ds.Delete("x") || el.HasAttribute("data-x") {
		t.Error("Expected delete to remove data-x")
	}
	if ds.Has("x") {
		t.Error("Expected x to be gone")
	}
}

func TestDocument_CompatModeFromDoctype(t *testing.T) {
	doc, _ := ParseHTML(`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 3.2 Final//EN"><p>x</p>`)
	if doc.CompatMode() != "BackCompat" {
		t.Errorf("Expected BackCompat for a legacy public id, got %s", doc.CompatMode())
	}
}
