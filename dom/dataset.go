package dom

import "strings"

// DOMStringMap exposes the data-* attributes of an element as camel-cased
// names.
// https://html.spec.whatwg.org/multipage/dom.html#domstringmap
type DOMStringMap struct {
	owner *Element
}

// Dataset returns the element's DOMStringMap.
func (e *Element) Dataset() *DOMStringMap {
	if e.element.dataset == nil {
		e.element.dataset = &DOMStringMap{owner: e}
	}
	return e.element.dataset
}

// Names returns the camel-cased names in attribute order.
func (m *DOMStringMap) Names() []string {
	var names []string
	for _, a := range m.owner.element.attributes.attrs {
		if a.namespaceURI != "" || a.prefix != "" {
			continue
		}
		if name, ok := datasetName(a.localName); ok {
			names = append(names, name)
		}
	}
	return names
}

// Get returns the value for name and whether it exists.
func (m *DOMStringMap) Get(name string) (string, bool) {
	attr, err := datasetAttributeName(name)
	if err != nil {
		return "", false
	}
	for _, a := range m.owner.element.attributes.attrs {
		if a.namespaceURI == "" && a.prefix == "" && a.localName == attr {
			return a.value, true
		}
	}
	return "", false
}

// Has reports whether name exists in the map.
func (m *DOMStringMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Set writes the data-* attribute for name. Names with a '-' followed by an
// ASCII lowercase letter are a SyntaxError.
func (m *DOMStringMap) Set(name, value string) error {
	attr, err := datasetAttributeName(name)
	if err != nil {
		return err
	}
	return m.owner.SetAttribute(attr, value)
}

// Delete removes the data-* attribute for name and reports whether the
// name was valid.
func (m *DOMStringMap) Delete(name string) bool {
	attr, err := datasetAttributeName(name)
	if err != nil {
		return false
	}
	m.owner.RemoveAttribute(attr)
	return true
}

// datasetAttributeName converts a camel-cased name to its data-* attribute
// name.
func datasetAttributeName(name string) (string, error) {
	for i := 0; i+1 < len(name); i++ {
		if name[i] == '-' && name[i+1] >= 'a' && name[i+1] <= 'z' {
			return "", ErrSyntax("'" + name + "' is not a valid property name.")
		}
	}
	var sb strings.Builder
	sb.WriteString("data-")
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	attr := sb.String()
	if !IsValidName(attr) {
		return "", ErrInvalidCharacter("'" + attr + "' is not a valid attribute name.")
	}
	return attr, nil
}

// datasetName converts a data-* attribute name to its camel-cased name.
func datasetName(attr string) (string, bool) {
	if !strings.HasPrefix(attr, "data-") {
		return "", false
	}
	rest := attr[len("data-"):]
	for i := 0; i < len(rest); i++ {
		if rest[i] >= 'A' && rest[i] <= 'Z' {
			return "", false
		}
	}
	var sb strings.Builder
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == '-' && i+1 < len(rest) && rest[i+1] >= 'a' && rest[i+1] <= 'z' {
			sb.WriteByte(rest[i+1] - ('a' - 'A'))
			i++
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String(), true
}
