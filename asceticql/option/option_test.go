package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSome(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		o := Some("u")
		assert.True(t, o.IsSome())
		assert.False(t, o.IsNothing())
		assert.Equal(t, "u", o.Unwrap())
	})

	t.Run("empty string is still a value", func(t *testing.T) {
		o := Some("")
		assert.True(t, o.IsSome())
		assert.Equal(t, "", o.Unwrap())
	})
}

func TestNothing(t *testing.T) {
	o := Nothing[string]()
	assert.True(t, o.IsNothing())
	assert.False(t, o.IsSome())
	assert.Equal(t, "", o.UnwrapOrZero())
}

func TestNonZero(t *testing.T) {
	assert.True(t, NonZero("alias").IsSome())
	assert.True(t, NonZero("").IsNothing())
	assert.True(t, NonZero(0).IsNothing())
	assert.Equal(t, 7, NonZero(7).Unwrap())
}

func TestGet(t *testing.T) {
	val, ok := Some("x").Get()
	assert.True(t, ok)
	assert.Equal(t, "x", val)

	_, ok = Nothing[string]().Get()
	assert.False(t, ok)
}

func TestUnwrap(t *testing.T) {
	t.Run("nothing panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "called Unwrap on a Nothing Option", func() {
			Nothing[string]().Unwrap()
		})
	})

	t.Run("unwrap or", func(t *testing.T) {
		assert.Equal(t, "name", Nothing[string]().UnwrapOr("name"))
		assert.Equal(t, "alias", Some("alias").UnwrapOr("name"))
	})
}

func TestOr(t *testing.T) {
	assert.Equal(t, "a", Some("a").Or(Some("b")).Unwrap())
	assert.Equal(t, "b", Nothing[string]().Or(Some("b")).Unwrap())
	assert.True(t, Nothing[string]().Or(Nothing[string]()).IsNothing())
}

func TestMap(t *testing.T) {
	upper := Map(Some("ab"), func(s string) int { return len(s) })
	assert.Equal(t, 2, upper.Unwrap())
	assert.True(t, Map(Nothing[string](), func(s string) int { return len(s) }).IsNothing())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Nothing[string](), Nothing[string]()))
	assert.True(t, Equal(Some("a"), Some("a")))
	assert.False(t, Equal(Some("a"), Some("b")))
	assert.False(t, Equal(Some("a"), Nothing[string]()))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Some(u)", Some("u").String())
	assert.Equal(t, "Nothing", Nothing[string]().String())
}
