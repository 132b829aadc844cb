package dom

import (
	"strconv"
	"strings"
	"unicode"
)

// Namespace URIs used by the DOM.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
	XMLNamespace    = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace  = "http://www.w3.org/2000/xmlns/"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

func isNameStartChar(r rune) bool {
	switch {
	case r == ':' || r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x2FF,
		r >= 0x370 && r <= 0x37D, r >= 0x37F && r <= 0x1FFF, r >= 0x200C && r <= 0x200D,
		r >= 0x2070 && r <= 0x218F, r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF,
		r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD, r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

func isNameChar(r rune) bool {
	if isNameStartChar(r) {
		return true
	}
	switch {
	case r == '-' || r == '.' || (r >= '0' && r <= '9') || r == 0xB7:
		return true
	case r >= 0x300 && r <= 0x36F, r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}

// IsValidName reports whether s matches the XML Name production.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
		} else if !isNameChar(r) {
			return false
		}
	}
	return true
}

// isValidQName reports whether s matches the XML QName production.
func isValidQName(s string) bool {
	if !IsValidName(s) {
		return false
	}
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return true
	}
	if idx == 0 || idx == len(s)-1 || strings.IndexByte(s[idx+1:], ':') >= 0 {
		return false
	}
	local := []rune(s[idx+1:])
	return isNameStartChar(local[0]) && local[0] != ':'
}

// splitQualifiedName splits a qualified name into prefix and local name.
func splitQualifiedName(qualifiedName string) (prefix, localName string) {
	if idx := strings.IndexByte(qualifiedName, ':'); idx >= 0 {
		return qualifiedName[:idx], qualifiedName[idx+1:]
	}
	return "", qualifiedName
}

// ValidateAndExtract validates a namespace and qualified name pair.
// https://dom.spec.whatwg.org/#validate-and-extract
func ValidateAndExtract(namespace, qualifiedName string) (prefix, localName string, err error) {
	if !isValidQName(qualifiedName) {
		return "", "", ErrInvalidCharacter("The qualified name provided ('" + qualifiedName + "') contains the invalid name-start character.")
	}
	prefix, localName = splitQualifiedName(qualifiedName)
	switch {
	case prefix != "" && namespace == "":
		err = ErrNamespace("The namespace URI provided is empty, but the qualified name has a prefix.")
	case prefix == "xml" && namespace != XMLNamespace:
		err = ErrNamespace("The prefix 'xml' requires the XML namespace.")
	case (qualifiedName == "xmlns" || prefix == "xmlns") && namespace != XMLNSNamespace:
		err = ErrNamespace("The qualified name 'xmlns' requires the XMLNS namespace.")
	case namespace == XMLNSNamespace && qualifiedName != "xmlns" && prefix != "xmlns":
		err = ErrNamespace("The XMLNS namespace may only be used with the 'xmlns' prefix.")
	}
	return prefix, localName, err
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func asciiUpper(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, s)
}

// splitTokens splits on ASCII whitespace.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r < 0x80 && unicode.IsSpace(r)
	})
}
