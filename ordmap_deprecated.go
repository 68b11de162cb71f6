package ordmap

// Create builds a Map from the five callbacks in their classic argument
// order. It returns nil if any callback is missing.
//
// Parameters:
//   - copyKey / copyValue: produce independent copies
//   - freeKey / freeValue: release one key or value
//   - compareKey: three-way key comparator
//
// Deprecated: Use New with a Traits value instead.
//
//goland:noinspection ALL
func Create[K, V any](
	copyKey func(K) (K, error),
	copyValue func(V) (V, error),
	freeKey func(K),
	freeValue func(V),
	compareKey func(a, b K) int,
	options ...func(*MapConfig),
) *Map[K, V] {
	m, err := New(Traits[K, V]{
		CopyKey:    copyKey,
		CopyValue:  copyValue,
		FreeKey:    freeKey,
		FreeValue:  freeValue,
		CompareKey: compareKey,
	}, options...)
	if err != nil {
		return nil
	}
	return m
}

// GetFirst is the classic name of FirstKey.
//
// Deprecated: Use FirstKey, or Iter for an independent walk.
func (m *Map[K, V]) GetFirst() (K, bool) {
	return m.FirstKey()
}

// GetNext is the classic name of NextKey.
//
// Deprecated: Use NextKey, or Iter for an independent walk.
func (m *Map[K, V]) GetNext() (K, bool) {
	return m.NextKey()
}

// GetSize is the classic name of Size.
//
// Deprecated: Use Size.
func (m *Map[K, V]) GetSize() int {
	return m.Size()
}

// Copy is the classic name of Clone. It returns nil on failure.
//
// Deprecated: Use Clone, which reports why the copy failed.
func (m *Map[K, V]) Copy() *Map[K, V] {
	c, err := m.Clone()
	if err != nil {
		return nil
	}
	return c
}
