package sim

import (
	"encoding/json"
	"fmt"
)

// Optional holds a value that may be unset. It replaces magic sentinel values
// (e.g. -1 for "no partition" or "not started yet") so that callers must check
// presence explicitly.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is held.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// MustGet returns the held value and panics if unset.
func (o Optional[T]) MustGet() T {
	if !o.set {
		panic("MustGet: optional value is not set")
	}
	return o.value
}

func (o Optional[T]) String() string {
	if !o.set {
		return "-"
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes an unset value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
