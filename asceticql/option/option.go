package option

import "fmt"

// Option holds an optional value. Entity and field aliases are the main users:
// an alias is either present (Some) or absent (Nothing), and an empty alias is
// never a meaningful third state.
type Option[T any] struct {
	val   T
	valid bool
}

func Some[T any](val T) Option[T] {
	return Option[T]{val: val, valid: true}
}

func Nothing[T any]() Option[T] {
	return Option[T]{}
}

// NonZero returns Some(val) unless val is the zero value of T.
func NonZero[T comparable](val T) Option[T] {
	var zero T
	if val == zero {
		return Nothing[T]()
	}
	return Some(val)
}

func (o Option[T]) IsSome() bool {
	return o.valid
}

func (o Option[T]) IsNothing() bool {
	return !o.valid
}

// Get returns the value together with its presence flag, comma-ok style.
func (o Option[T]) Get() (T, bool) {
	return o.val, o.valid
}

// Unwrap returns the contained value.
// Panics if the Option is Nothing.
func (o Option[T]) Unwrap() T {
	if !o.valid {
		panic("called Unwrap on a Nothing Option")
	}
	return o.val
}

func (o Option[T]) UnwrapOr(def T) T {
	if o.valid {
		return o.val
	}
	return def
}

func (o Option[T]) UnwrapOrZero() T {
	return o.val
}

// Or returns o if it holds a value, otherwise alt.
func (o Option[T]) Or(alt Option[T]) Option[T] {
	if o.valid {
		return o
	}
	return alt
}

func Map[T any, U any](o Option[T], f func(T) U) Option[U] {
	if o.valid {
		return Some(f(o.val))
	}
	return Nothing[U]()
}

// Equal reports whether both options are Nothing or both hold equal values.
func Equal[T comparable](a, b Option[T]) bool {
	if a.valid != b.valid {
		return false
	}
	return !a.valid || a.val == b.val
}

func (o Option[T]) String() string {
	if o.valid {
		return fmt.Sprintf("Some(%v)", o.val)
	}
	return "Nothing"
}
