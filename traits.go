package ordmap

import (
	"cmp"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Traits is the callback bundle that defines how a Map handles its
// otherwise opaque keys and values. It is fixed when the map is created.
//
//   - CopyKey / CopyValue return an independent copy, or an error if the
//     copy could not be produced. A copy that fails must not leave
//     anything behind that needs freeing.
//   - FreeKey / FreeValue release whatever a single key or value owns.
//     The map calls them at most once per object it stores.
//   - CompareKey is a three-way comparator (negative, zero, positive)
//     that must be a consistent strict total order. Keys that compare
//     equal are the same key.
type Traits[K, V any] struct {
	CopyKey    func(key K) (K, error)
	CopyValue  func(value V) (V, error)
	FreeKey    func(key K)
	FreeValue  func(value V)
	CompareKey func(a, b K) int
}

func (t *Traits[K, V]) complete() bool {
	return t.CopyKey != nil && t.CopyValue != nil &&
		t.FreeKey != nil && t.FreeValue != nil &&
		t.CompareKey != nil
}

// FuncTraits returns traits that copy keys and values by assignment,
// free nothing, and order keys with compare.
func FuncTraits[K, V any](compare func(a, b K) int) Traits[K, V] {
	return Traits[K, V]{
		CopyKey:    identity[K],
		CopyValue:  identity[V],
		FreeKey:    func(K) {},
		FreeValue:  func(V) {},
		CompareKey: compare,
	}
}

// OrderedTraits returns FuncTraits ordered by cmp.Compare.
func OrderedTraits[K constraints.Ordered, V any]() Traits[K, V] {
	return FuncTraits[K, V](cmp.Compare[K])
}

func identity[T any](v T) (T, error) { return v, nil }

// isNil reports whether v holds a nil pointer, map, slice, func, chan or
// interface. Value kinds are never nil.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
