package ordmap

import (
	"go.uber.org/zap"
)

// Iterator walks a Map in ascending key order.
//
//	it := m.Iter()
//	for it.Next() {
//		v, _ := m.Get(it.Key())
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// Each Iterator keeps its own position, so several may walk the same map
// at once. Adding a new key, removing a key, clearing or destroying the
// map invalidates every Iterator created before: its next call to Next
// returns false and Err reports ErrIteratorInvalidated. Replacing the
// value of an existing key does not.
type Iterator[K, V any] struct {
	m       *Map[K, V]
	pos     int
	gen     uint64
	started bool
	key     K
	err     error
}

// Iter returns a new Iterator positioned before the first entry.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, pos: nilIndex}
}

// Next advances to the following entry and copies its key through
// Traits.CopyKey. It returns false at the end of the map, after the map
// was structurally modified, or when the key copy fails.
func (it *Iterator[K, V]) Next() bool {
	if it.err != nil || it.m == nil {
		return false
	}
	m := it.m
	if !it.started {
		if !m.usable() {
			return false
		}
		it.started = true
		it.gen = m.gen
		it.pos = m.head
	} else {
		if it.pos == nilIndex {
			return false
		}
		if !m.usable() || it.gen != m.gen {
			it.invalidate()
			return false
		}
		it.pos = m.arena.at(it.pos).next
	}
	if it.pos == nilIndex {
		return false
	}
	k, err := m.traits.CopyKey(m.arena.at(it.pos).key)
	if err != nil {
		it.err = outOfMemory(err, "copy key")
		it.pos = nilIndex
		return false
	}
	it.key = k
	return true
}

func (it *Iterator[K, V]) invalidate() {
	it.err = ErrIteratorInvalidated
	it.pos = nilIndex
	var zero K
	it.key = zero
	if it.m != nil && it.m.log != nil {
		it.m.log.Debug("ordmap: iteration invalidated",
			zap.Uint64("started_gen", it.gen),
			zap.Uint64("map_gen", it.m.gen))
	}
}

// Key returns the copy of the current key made by the last successful
// Next. The copy belongs to the caller.
func (it *Iterator[K, V]) Key() K {
	return it.key
}

// Value returns the stored value of the current entry, or the zero value
// if the Iterator is not positioned on a valid entry. Like Get, it
// returns the map's own value.
func (it *Iterator[K, V]) Value() (value V) {
	if !it.valid() {
		return
	}
	return it.m.arena.at(it.pos).value
}

func (it *Iterator[K, V]) valid() bool {
	return it.err == nil && it.m.usable() && it.pos != nilIndex && it.gen == it.m.gen
}

// Err returns the error that stopped the iteration, if any.
func (it *Iterator[K, V]) Err() error {
	return it.err
}

// FirstKey positions the map's shared cursor on the lowest key and
// returns a copy of that key, owned by the caller. It returns false for a
// nil or empty map.
//
// The shared cursor is a single position per map; starting it again
// with FirstKey abandons any walk in progress. Use Iter for independent
// walks.
func (m *Map[K, V]) FirstKey() (key K, ok bool) {
	if !m.usable() {
		return
	}
	m.cursor = Iterator[K, V]{m: m, pos: nilIndex}
	if m.size == 0 || !m.cursor.Next() {
		return
	}
	return m.cursor.key, true
}

// NextKey advances the shared cursor and returns a copy of the key it
// lands on. It returns false if the cursor is unset, already on the last
// entry, or invalidated by a structural mutation since FirstKey (see
// CursorErr).
func (m *Map[K, V]) NextKey() (key K, ok bool) {
	if !m.usable() || !m.cursor.started {
		return
	}
	if !m.cursor.Next() {
		return
	}
	return m.cursor.key, true
}

// CursorErr reports why the shared cursor stopped early: nil when it
// simply reached the end, ErrIteratorInvalidated after a structural
// mutation, or an error matching ErrOutOfMemory if a key copy failed.
// Clear and Destroy unset the cursor rather than invalidating it.
func (m *Map[K, V]) CursorErr() error {
	if m == nil {
		return nil
	}
	return m.cursor.err
}
