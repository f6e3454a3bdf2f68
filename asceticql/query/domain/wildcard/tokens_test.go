package wildcard

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"syreclabs.com/go/faker"
)

func portableTokens(t *testing.T) TokenSet {
	t.Helper()
	set, err := NewTokenSet('\\', '?', '*')
	require.NoError(t, err)
	return set
}

func TestNewTokenSet(t *testing.T) {
	_, err := NewTokenSet('\\')
	assert.ErrorIs(t, err, ErrNoTokens)

	_, err = NewTokenSet('?', '?', '*')
	assert.ErrorIs(t, err, ErrEscapeIsToken)

	set, err := NewTokenSet('!', '%', '_')
	require.NoError(t, err)
	assert.Equal(t, '!', set.Escape())
	assert.True(t, set.Contains('%'))
	assert.False(t, set.Contains('!'))
}

func TestFindFirstEscapedToken(t *testing.T) {
	set := portableTokens(t)
	cases := []struct {
		text string
		from int
		want int
		ok   bool
	}{
		{`abc`, 0, -1, false},
		{`a?c`, 0, -1, false},
		{`a\?c`, 0, 1, true},
		{`\*`, 0, 0, true},
		{`*\*`, 0, 1, true},
		{`\?x\*`, 0, 0, true},
		{`\?x\*`, 1, 3, true},
		{`\?x\*`, 2, 3, true},
		{`\?`, 1, -1, false},
		{`\?`, 2, -1, false},
		{`a\b`, 0, -1, false},
		{`end\`, 0, -1, false},
		{`\\?`, 0, 1, true},
		{`ж\?`, 0, 1, true},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			got, ok := FindFirstEscapedToken(c.text, c.from, set)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestFindFirstUnescapedToken(t *testing.T) {
	set := portableTokens(t)
	cases := []struct {
		text string
		from int
		want int
		ok   bool
	}{
		{`abc`, 0, -1, false},
		{`?`, 0, 0, true},
		{`\??`, 0, 2, true},
		{`\?\*`, 0, -1, false},
		{`a*b*`, 2, 3, true},
		{`日本*`, 0, 2, true},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			got, ok := FindFirstUnescapedToken(c.text, c.from, set)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestUnescapeTokens(t *testing.T) {
	set := portableTokens(t)
	assert.Equal(t, `?A`, UnescapeTokens(`\?A`, set))
	assert.Equal(t, `a*b?`, UnescapeTokens(`a\*b\?`, set))
	assert.Equal(t, `C:\dir`, UnescapeTokens(`C:\dir`, set))
	assert.Equal(t, `\?`, UnescapeTokens(`\\?`, set))
	assert.Equal(t, `??`, UnescapeTokens(`?\?`, set))
	assert.Equal(t, `\`, UnescapeTokens(`\`, set))
}

func TestReplaceUnescapedTokens(t *testing.T) {
	repl := map[rune]string{'?': "_", '*': "%"}

	got, err := ReplaceUnescapedTokens(`?A?`, repl, '\\')
	require.NoError(t, err)
	assert.Equal(t, `_A_`, got)

	got, err = ReplaceUnescapedTokens(`\?A*`, repl, '\\')
	require.NoError(t, err)
	assert.Equal(t, `\?A%`, got)

	got, err = ReplaceUnescapedTokens(`*`, map[rune]string{'*': ".*"}, '\\')
	require.NoError(t, err)
	assert.Equal(t, `.*`, got)

	_, err = ReplaceUnescapedTokens(`x`, map[rune]string{}, '\\')
	assert.ErrorIs(t, err, ErrNoTokens)

	_, err = ReplaceUnescapedTokens(`x`, map[rune]string{'\\': "y"}, '\\')
	assert.ErrorIs(t, err, ErrEscapeIsToken)
}

// randomPattern interleaves lorem words with wildcard tokens and escapes.
func randomPattern(r *rand.Rand) string {
	var sb strings.Builder
	for range r.IntN(6) + 1 {
		sb.WriteString(faker.Lorem().Word())
		for range r.IntN(3) {
			sb.WriteRune([]rune{'?', '*', '\\'}[r.IntN(3)])
		}
	}
	return sb.String()
}

func countTokens(text string, set TokenSet) (escaped, unescaped int) {
	rs := []rune(text)
	for i, r := range rs {
		if !set.Contains(r) {
			continue
		}
		if set.escapedAt(rs, i) {
			escaped++
		} else {
			unescaped++
		}
	}
	return escaped, unescaped
}

func TestUnescapeTokens_RemovesOneEscapePerEscapedToken(t *testing.T) {
	set := portableTokens(t)
	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		text := randomPattern(r)
		escaped, unescaped := countTokens(text, set)
		got := UnescapeTokens(text, set)

		assert.Equal(t, len([]rune(text))-escaped, len([]rune(got)), text)
		assert.Equal(t, strings.Count(text, `\`)-escaped, strings.Count(got, `\`), text)
		assert.Equal(t, escaped+unescaped, strings.Count(got, "?")+strings.Count(got, "*"), text)
	}
}

func TestReplaceUnescapedTokens_KeepsEscapedTokens(t *testing.T) {
	set := portableTokens(t)
	repl := map[rune]string{'?': "_", '*': "%"}
	r := rand.New(rand.NewPCG(3, 4))
	for range 500 {
		text := randomPattern(r)
		escaped, _ := countTokens(text, set)

		got, err := ReplaceUnescapedTokens(text, repl, '\\')
		require.NoError(t, err)

		gotEscaped, gotUnescaped := countTokens(got, set)
		assert.Equal(t, escaped, gotEscaped, text)
		assert.Zero(t, gotUnescaped, text)
	}
}
