// Package wildcard scans and rewrites wildcard patterns whose special
// characters (tokens) may be escaped by a single escape character.
//
// A token at rune index i is escaped if i > 0 and the rune at i-1 is the
// escape character. All indexes are rune indexes.
package wildcard

import (
	"slices"

	"github.com/pkg/errors"
)

var (
	ErrNoTokens       = errors.New("token set is empty")
	ErrEscapeIsToken  = errors.New("escape character is one of the tokens")
	ErrSyntaxConflict = errors.New("wildcard syntaxes conflict")
)

// TokenSet is a set of special characters and the character that escapes them.
type TokenSet struct {
	escape rune
	tokens []rune
}

func NewTokenSet(escape rune, tokens ...rune) (TokenSet, error) {
	if len(tokens) == 0 {
		return TokenSet{}, ErrNoTokens
	}
	if slices.Contains(tokens, escape) {
		return TokenSet{}, errors.Wrapf(ErrEscapeIsToken, "%q", escape)
	}
	return TokenSet{escape: escape, tokens: slices.Clone(tokens)}, nil
}

func (s TokenSet) Escape() rune {
	return s.escape
}

func (s TokenSet) Tokens() []rune {
	return slices.Clone(s.tokens)
}

func (s TokenSet) Contains(r rune) bool {
	return slices.Contains(s.tokens, r)
}

func (s TokenSet) escapedAt(rs []rune, i int) bool {
	return i > 0 && rs[i-1] == s.escape
}

// FindFirstEscapedToken returns the index of the first escape character at or
// after from that is immediately followed by a token.
func FindFirstEscapedToken(text string, from int, set TokenSet) (int, bool) {
	return findEscaped([]rune(text), from, set)
}

func findEscaped(rs []rune, from int, set TokenSet) (int, bool) {
	for i := max(from, 0); i+1 < len(rs); i++ {
		if rs[i] == set.escape && set.Contains(rs[i+1]) {
			return i, true
		}
	}
	return -1, false
}

// FindFirstUnescapedToken returns the index of the first token at or after
// from that is not escaped.
func FindFirstUnescapedToken(text string, from int, set TokenSet) (int, bool) {
	return findUnescaped([]rune(text), from, set)
}

func findUnescaped(rs []rune, from int, set TokenSet) (int, bool) {
	for i := max(from, 0); i < len(rs); i++ {
		if set.Contains(rs[i]) && !set.escapedAt(rs, i) {
			return i, true
		}
	}
	return -1, false
}

// UnescapeTokens removes the escape character in front of every escaped token.
// Escape characters elsewhere are left in place.
func UnescapeTokens(text string, set TokenSet) string {
	rs := []rune(text)
	out := make([]rune, 0, len(rs))
	from := 0
	for {
		i, ok := findEscaped(rs, from, set)
		if !ok {
			break
		}
		out = append(out, rs[from:i]...)
		out = append(out, rs[i+1])
		from = i + 2
	}
	out = append(out, rs[from:]...)
	return string(out)
}

// ReplaceUnescapedTokens substitutes every unescaped occurrence of a key of
// replacements with its value. Escaped tokens and their escapes are kept.
func ReplaceUnescapedTokens(text string, replacements map[rune]string, escape rune) (string, error) {
	tokens := make([]rune, 0, len(replacements))
	for r := range replacements {
		tokens = append(tokens, r)
	}
	set, err := NewTokenSet(escape, tokens...)
	if err != nil {
		return "", err
	}
	rs := []rune(text)
	var out []rune
	from := 0
	for {
		i, ok := findUnescaped(rs, from, set)
		if !ok {
			break
		}
		out = append(out, rs[from:i]...)
		out = append(out, []rune(replacements[rs[i]])...)
		from = i + 1
	}
	out = append(out, rs[from:]...)
	return string(out), nil
}
