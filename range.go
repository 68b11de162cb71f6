package ordmap

import (
	"iter"
	"math"
)

// EntryOf is a key/value pair as seen through ToSlice or JSON.
type EntryOf[K, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Range calls yield for every entry in ascending key order until yield
// returns false. Keys and values are the map's own, not copies.
//
// Notes:
//   - yield may replace the value of an existing key with Put.
//   - Adding or removing keys, Clear and Destroy from inside yield panic
//     with ErrIteratorInvalidated on return from yield.
func (m *Map[K, V]) Range(yield func(key K, value V) bool) {
	if !m.usable() {
		return
	}
	gen := m.gen
	for i := m.head; i != nilIndex; {
		e := m.arena.at(i)
		if !yield(e.key, e.value) {
			return
		}
		if m.destroyed || m.gen != gen {
			panic(ErrIteratorInvalidated)
		}
		i = m.arena.at(i).next
	}
}

// All is the iterator version of Range.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.Range
}

// Keys is the iterator version for iterating over all keys.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		m.Range(func(key K, _ V) bool {
			return yield(key)
		})
	}
}

// Values is the iterator version for iterating over all values.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		m.Range(func(_ K, value V) bool {
			return yield(value)
		})
	}
}

// ToSlice collects every entry in ascending key order.
func (m *Map[K, V]) ToSlice() []EntryOf[K, V] {
	return m.ToSliceWithLimit(-1)
}

// ToSliceWithLimit collects up to limit entries in ascending key order,
// limit < 0 is no limit.
func (m *Map[K, V]) ToSliceWithLimit(limit int) []EntryOf[K, V] {
	if limit == 0 || m.IsZero() {
		return []EntryOf[K, V]{}
	}
	if limit < 0 {
		limit = math.MaxInt
	}
	a := make([]EntryOf[K, V], 0, min(m.size, limit))
	m.Range(func(key K, value V) bool {
		a = append(a, EntryOf[K, V]{Key: key, Value: value})
		return len(a) < limit
	})
	return a
}
