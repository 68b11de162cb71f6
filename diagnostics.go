package ordmap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// String implement the formatting output interface fmt.Stringer
func (m *Map[K, V]) String() string {
	const limit = 1024
	var sb strings.Builder
	sb.WriteString("Map[")
	for i, e := range m.ToSliceWithLimit(limit) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", e.Key, e.Value)
	}
	sb.WriteByte(']')
	return sb.String()
}

var (
	jsonMarshal   func(v any) ([]byte, error)
	jsonUnmarshal func(data []byte, v any) error
)

// SetDefaultJSONMarshal sets the default JSON serialization and deserialization functions.
// If not set, the standard library is used by default.
func SetDefaultJSONMarshal(marshal func(v any) ([]byte, error), unmarshal func(data []byte, v any) error) {
	jsonMarshal, jsonUnmarshal = marshal, unmarshal
}

// MarshalJSON encodes the map as an array of {"key":…,"value":…}
// objects in ascending key order.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if jsonMarshal != nil {
		return jsonMarshal(m.ToSlice())
	}
	return json.Marshal(m.ToSlice())
}

// UnmarshalJSON replaces the content of the map with the pairs encoded
// by MarshalJSON. Every pair goes through Put, so through the copy
// callbacks; a later duplicate key replaces the earlier value.
//
// The map must have been created with New (or a sibling constructor)
// since the traits are not part of the encoding. On any error the map
// is left unchanged.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	if !m.usable() || !m.traits.complete() {
		return ErrNullArgument
	}
	var a []EntryOf[K, V]
	if jsonUnmarshal != nil {
		if err := jsonUnmarshal(data, &a); err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
	}

	scratch := newMap(m.traits, m.cfg)
	for i := range a {
		if err := scratch.Put(a[i].Key, a[i].Value); err != nil {
			scratch.Destroy()
			return errors.Wrapf(err, "entry %d", i)
		}
	}
	m.freeAll()
	m.arena = scratch.arena
	m.head = scratch.head
	m.size = scratch.size
	m.cursor = Iterator[K, V]{m: m, pos: nilIndex}
	m.counters.puts += scratch.counters.puts
	m.counters.updates += scratch.counters.updates
	return nil
}

// Stats returns statistics for the Map. It's an O(N) operation,
// so it should be used only for diagnostics or debugging purposes.
func (m *Map[K, V]) Stats() *MapStats {
	stats := &MapStats{}
	if !m.usable() {
		stats.Size = NullSize
		stats.Counter = NullSize
		return stats
	}
	stats.Counter = m.size
	stats.Capacity = cap(m.arena.entries)
	stats.Slots = len(m.arena.entries)
	stats.FreeSlots = m.arena.nfree
	stats.Generation = m.gen
	stats.Puts = m.counters.puts
	stats.Updates = m.counters.updates
	stats.Removes = m.counters.removes
	stats.Rollbacks = m.counters.rollbacks
	stats.Ordered = true
	first := true
	var prev K
	for i := m.head; i != nilIndex; i = m.arena.at(i).next {
		e := m.arena.at(i)
		if !first && m.traits.CompareKey(prev, e.key) >= 0 {
			stats.Ordered = false
		}
		prev, first = e.key, false
		stats.Size++
	}
	return stats
}

// MapStats is Map statistics.
//
// Warning: map statistics are intented to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Size is the number of entries reachable from the head of the
	// chain, or NullSize for a nil or destroyed map.
	Size int
	// Counter is the entry count the map maintains. It always equals
	// Size.
	Counter int
	// Capacity is the number of entries the arena can hold before it
	// grows.
	Capacity int
	// Slots is the number of arena slots in use or on the free list.
	Slots int
	// FreeSlots is the number of released slots waiting for reuse.
	FreeSlots int
	// Generation counts structural mutations.
	Generation uint64
	// Puts is the number of new keys inserted.
	Puts uint64
	// Updates is the number of values replaced under an existing key.
	Updates uint64
	// Removes is the number of entries removed by Remove.
	Removes uint64
	// Rollbacks is the number of Put calls undone after a failure.
	Rollbacks uint64
	// Ordered reports whether every adjacent pair of keys is strictly
	// ascending.
	Ordered bool
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Size:       %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counter:    %d\n", s.Counter))
	sb.WriteString(fmt.Sprintf("Capacity:   %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Slots:      %d\n", s.Slots))
	sb.WriteString(fmt.Sprintf("FreeSlots:  %d\n", s.FreeSlots))
	sb.WriteString(fmt.Sprintf("Generation: %d\n", s.Generation))
	sb.WriteString(fmt.Sprintf("Puts:       %d\n", s.Puts))
	sb.WriteString(fmt.Sprintf("Updates:    %d\n", s.Updates))
	sb.WriteString(fmt.Sprintf("Removes:    %d\n", s.Removes))
	sb.WriteString(fmt.Sprintf("Rollbacks:  %d\n", s.Rollbacks))
	sb.WriteString(fmt.Sprintf("Ordered:    %t\n", s.Ordered))
	sb.WriteString("}\n")
	return sb.String()
}
