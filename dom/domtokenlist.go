package dom

import "strings"

// DOMTokenList is the ordered set of tokens in an attribute, used for
// Element.classList.
// https://dom.spec.whatwg.org/#interface-domtokenlist
type DOMTokenList struct {
	element  *Element
	attrName string
}

// ClassTokens returns the classList of the element.
func (e *Element) ClassTokens() *DOMTokenList {
	return &DOMTokenList{element: e, attrName: "class"}
}

func validateToken(token string) error {
	if token == "" {
		return ErrSyntax("The token provided must not be empty.")
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return ErrInvalidCharacter("The token provided ('" + token + "') contains HTML space characters, which are not valid in tokens.")
	}
	return nil
}

// tokens returns the ordered set of tokens; duplicates are dropped.
func (tl *DOMTokenList) tokens() []string {
	value, _ := tl.element.GetAttribute(tl.attrName)
	seen := make(map[string]bool)
	var out []string
	for _, t := range splitTokens(value) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// update writes tokens back unless the attribute is absent and the set is
// empty.
func (tl *DOMTokenList) update(tokens []string) {
	if len(tokens) == 0 && !tl.element.HasAttribute(tl.attrName) {
		return
	}
	_ = tl.element.SetAttribute(tl.attrName, strings.Join(tokens, " "))
}

func (tl *DOMTokenList) Length() int {
	return len(tl.tokens())
}

// Item returns the token at index and whether it exists.
func (tl *DOMTokenList) Item(index int) (string, bool) {
	tokens := tl.tokens()
	if index < 0 || index >= len(tokens) {
		return "", false
	}
	return tokens[index], true
}

func (tl *DOMTokenList) Contains(token string) bool {
	for _, t := range tl.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends the tokens that are not yet present.
func (tl *DOMTokenList) Add(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	current := tl.tokens()
	for _, t := range tokens {
		if !containsString(current, t) {
			current = append(current, t)
		}
	}
	tl.update(current)
	return nil
}

// Remove removes the tokens.
func (tl *DOMTokenList) Remove(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	var kept []string
	for _, t := range tl.tokens() {
		if !containsString(tokens, t) {
			kept = append(kept, t)
		}
	}
	tl.update(kept)
	return nil
}

// Toggle removes token when present and adds it otherwise. With force the
// token is only added (true) or only removed (false).
func (tl *DOMTokenList) Toggle(token string, force *bool) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	if tl.Contains(token) {
		if force == nil || !*force {
			return false, tl.Remove(token)
		}
		return true, nil
	}
	if force == nil || *force {
		return true, tl.Add(token)
	}
	return false, nil
}

// Replace replaces the first occurrence of token with newToken.
func (tl *DOMTokenList) Replace(token, newToken string) (bool, error) {
	if token == "" || newToken == "" {
		return false, ErrSyntax("The token provided must not be empty.")
	}
	if err := validateToken(token); err != nil {
		return false, err
	}
	if err := validateToken(newToken); err != nil {
		return false, err
	}
	current := tl.tokens()
	if !containsString(current, token) {
		return false, nil
	}
	var out []string
	for _, t := range current {
		switch {
		case t == token || t == newToken:
			if !containsString(out, newToken) {
				out = append(out, newToken)
			}
		default:
			out = append(out, t)
		}
	}
	tl.update(out)
	return true, nil
}

// Value returns the attribute value.
func (tl *DOMTokenList) Value() string {
	v, _ := tl.element.GetAttribute(tl.attrName)
	return v
}

// SetValue sets the attribute value.
func (tl *DOMTokenList) SetValue(value string) {
	_ = tl.element.SetAttribute(tl.attrName, value)
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
