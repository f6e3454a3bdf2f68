package wildcard

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Syntax names the wildcard characters of one pattern language. Reserved lists
// further characters the language treats specially, such as '[' in T-SQL.
type Syntax struct {
	One      rune
	Many     rune
	Escape   rune
	Reserved []rune
}

// PortableSyntax is the backend-independent pattern language.
var PortableSyntax = Syntax{One: '?', Many: '*', Escape: '\\'}

// SQLSyntax is the LIKE syntax shared by most SQL backends, used with
// ESCAPE '\'.
var SQLSyntax = Syntax{One: '_', Many: '%', Escape: '\\'}

// TransactSQLSyntax additionally reserves the bracket character classes of
// SQL Server.
var TransactSQLSyntax = Syntax{One: '_', Many: '%', Escape: '\\', Reserved: []rune{'['}}

func (s Syntax) metacharacters() []rune {
	return append([]rune{s.One, s.Many, s.Escape}, s.Reserved...)
}

// Translator rewrites portable patterns into a backend pattern language.
type Translator struct {
	portable     Syntax
	backend      Syntax
	tokens       TokenSet
	replacements map[rune]string
}

func NewTranslator(portable, backend Syntax) (*Translator, error) {
	tokens, err := NewTokenSet(portable.Escape, portable.One, portable.Many)
	if err != nil {
		return nil, err
	}
	if portable.One == portable.Many {
		return nil, errors.Wrapf(ErrSyntaxConflict, "%q is both wildcards", portable.One)
	}
	meta := backend.metacharacters()
	for _, r := range []rune{portable.One, portable.Many} {
		if slices.Contains(meta, r) {
			return nil, errors.Wrapf(ErrSyntaxConflict, "portable wildcard %q is special to the backend", r)
		}
	}
	if portable.Escape != backend.Escape && slices.Contains(meta, portable.Escape) {
		return nil, errors.Wrapf(ErrSyntaxConflict, "portable escape %q is special to the backend", portable.Escape)
	}
	return &Translator{
		portable: portable,
		backend:  backend,
		tokens:   tokens,
		replacements: map[rune]string{
			portable.One:  string(backend.One),
			portable.Many: string(backend.Many),
		},
	}, nil
}

func (t *Translator) Backend() Syntax {
	return t.backend
}

// Translate converts pattern into the backend syntax: backend metacharacters
// present in pattern become literals, unescaped portable wildcards become
// backend wildcards, and escaped portable wildcards become plain characters.
func (t *Translator) Translate(pattern string) string {
	quoted := t.escapeBackend(pattern)
	replaced, _ := ReplaceUnescapedTokens(quoted, t.replacements, t.portable.Escape)
	return UnescapeTokens(replaced, t.tokens)
}

func (t *Translator) escapeBackend(pattern string) string {
	rs := []rune(pattern)
	meta := t.backend.metacharacters()
	var sb strings.Builder
	for i, r := range rs {
		if r == t.portable.Escape && i+1 < len(rs) && t.tokens.Contains(rs[i+1]) {
			sb.WriteRune(r)
			continue
		}
		if slices.Contains(meta, r) {
			sb.WriteRune(t.backend.Escape)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Match reports whether text matches the portable pattern as a whole.
func Match(pattern, text string) bool {
	return compile(pattern).MatchString(text)
}

func compile(pattern string) *regexp.Regexp {
	rs := []rune(pattern)
	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == PortableSyntax.Escape && i+1 < len(rs) && (rs[i+1] == PortableSyntax.One || rs[i+1] == PortableSyntax.Many):
			i++
			sb.WriteString(regexp.QuoteMeta(string(rs[i])))
		case r == PortableSyntax.One:
			sb.WriteString(".")
		case r == PortableSyntax.Many:
			sb.WriteString(".*")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`$`)
	return regexp.MustCompile(sb.String())
}
