package xpath

import (
	"strings"
	"unicode"
)

// scanNames walks the name tests of an XPath expression. It collects the
// prefixes of qualified names and, when lower is set, returns a copy of the
// expression with unprefixed name tests folded to lowercase. String
// literals, function names, axis names and variable references are left
// alone.
func scanNames(expr string, lower bool) (string, []string) {
	var (
		out      strings.Builder
		prefixes []string
		seen     = map[string]bool{}
	)
	rs := []rune(expr)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '"' || r == '\'':
			j := i + 1
			for j < len(rs) && rs[j] != r {
				j++
			}
			if j < len(rs) {
				j++
			}
			out.WriteString(string(rs[i:j]))
			i = j
		case r == '$':
			j := i + 1
			for j < len(rs) && isNameRune(rs[j]) {
				j++
			}
			out.WriteString(string(rs[i:j]))
			i = j
		case isNameStart(r):
			j := i
			for j < len(rs) && isNameRune(rs[j]) {
				j++
			}
			name := string(rs[i:j])
			// prefix:local or prefix:*
			if j+1 < len(rs) && rs[j] == ':' && rs[j+1] != ':' {
				k := j + 1
				if rs[k] == '*' {
					k++
				} else {
					for k < len(rs) && isNameRune(rs[k]) {
						k++
					}
				}
				if !seen[name] {
					seen[name] = true
					prefixes = append(prefixes, name)
				}
				out.WriteString(string(rs[i:k]))
				i = k
				continue
			}
			if lower && !followedBy(rs, j, "(") && !followedBy(rs, j, "::") {
				name = strings.ToLower(name)
			}
			out.WriteString(name)
			i = j
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			out.WriteString(string(rs[i:j]))
			i = j
		default:
			out.WriteRune(r)
			i++
		}
	}
	return out.String(), prefixes
}

func followedBy(rs []rune, i int, s string) bool {
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	return strings.HasPrefix(string(rs[i:]), s)
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == '·'
}
