package ordmap

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

// NullSize is what Size reports for a nil or destroyed map.
const NullSize = -1

// Map is an ordered associative container. Entries are kept in
// ascending key order under Traits.CompareKey, and every key and value
// it stores is a copy made by the Traits copy callbacks, released
// through the matching free callbacks when the entry goes away.
//
// Key features of ordmap.Map:
//   - Ordering and identity come only from the comparator; keys that
//     compare equal are the same key
//   - Failed insertions and clones roll back completely
//   - A shared cursor (FirstKey/NextKey) plus independent Iterator
//     handles and range-over-func views (All, Keys, Values)
//   - Iteration is invalidated, never silently resynchronized, by
//     structural mutation
//   - Clone, Stats, String and JSON support
//
// A nil *Map is a valid, empty, read-only map: predicates return their
// safe defaults and mutations return ErrNullArgument. The same holds
// after Destroy.
//
// A Map is not safe for concurrent use.
type Map[K, V any] struct {
	traits    Traits[K, V]
	arena     entryArena[K, V]
	head      int
	size      int
	gen       uint64 // bumped by every structural mutation
	cursor    Iterator[K, V]
	cfg       MapConfig
	log       *zap.Logger
	destroyed bool
	counters  mapCounters
}

type mapCounters struct {
	puts      uint64
	updates   uint64
	removes   uint64
	rollbacks uint64
}

// MapConfig defines configurable Map options.
type MapConfig struct {
	sizeHint   int
	maxEntries int
	logger     *zap.Logger
}

// WithPresize configures the new Map with room for sizeHint entries
// before the arena has to grow. Zero or negative values are ignored.
func WithPresize(sizeHint int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.sizeHint = sizeHint
	}
}

// WithMaxEntries caps the number of live entries. Inserting a new key
// into a full map fails with ErrOutOfMemory and leaves it unchanged.
// Zero or negative means no limit.
func WithMaxEntries(n int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.maxEntries = max(n, 0)
	}
}

// WithLogger sets the logger used for debug output. nil keeps the
// default no-op logger.
func WithLogger(l *zap.Logger) func(*MapConfig) {
	return func(c *MapConfig) {
		c.logger = l
	}
}

// New creates an empty Map bound to traits for its whole lifetime.
//
// Parameters:
//   - traits: all five callbacks are required
//   - WithPresize option for initial capacity
//   - WithMaxEntries option to limit the number of entries
//   - WithLogger option for debug logging
//
// Returns ErrNullArgument if any callback is missing.
func New[K, V any](traits Traits[K, V], options ...func(*MapConfig)) (*Map[K, V], error) {
	if !traits.complete() {
		return nil, errors.Wrap(ErrNullArgument, "incomplete traits")
	}
	var cfg MapConfig
	for _, o := range options {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return newMap(traits, cfg), nil
}

func newMap[K, V any](traits Traits[K, V], cfg MapConfig) *Map[K, V] {
	m := &Map[K, V]{
		traits: traits,
		arena:  newEntryArena[K, V](cfg.sizeHint, cfg.maxEntries),
		head:   nilIndex,
		cfg:    cfg,
		log:    cfg.logger,
	}
	m.cursor = Iterator[K, V]{m: m, pos: nilIndex}
	return m
}

// NewOrdered creates a Map over an ordered key type that copies keys and
// values by assignment and orders keys with cmp.Compare.
func NewOrdered[K constraints.Ordered, V any](options ...func(*MapConfig)) *Map[K, V] {
	m, _ := New(OrderedTraits[K, V](), options...)
	return m
}

// NewFunc creates a Map that copies keys and values by assignment and
// orders keys with compare. Returns ErrNullArgument if compare is nil.
func NewFunc[K, V any](compare func(a, b K) int, options ...func(*MapConfig)) (*Map[K, V], error) {
	return New(FuncTraits[K, V](compare), options...)
}

func (m *Map[K, V]) usable() bool {
	return m != nil && !m.destroyed
}

// find walks the chain up to the first entry whose key is not less than
// key. It returns that entry's index (nilIndex if every key is less),
// its predecessor (nilIndex if it is the head) and whether it compares
// equal to key.
func (m *Map[K, V]) find(key K) (prev, i int, eq bool) {
	prev = nilIndex
	for i = m.head; i != nilIndex; i = m.arena.at(i).next {
		c := m.traits.CompareKey(m.arena.at(i).key, key)
		if c >= 0 {
			return prev, i, c == 0
		}
		prev = i
	}
	return prev, nilIndex, false
}

// Contains reports whether an entry with a key equal to key exists.
// It returns false for a nil map, an empty map or a nil key.
func (m *Map[K, V]) Contains(key K) bool {
	if !m.usable() || m.size == 0 || isNil(key) {
		return false
	}
	_, _, eq := m.find(key)
	return eq
}

// HasKey is an alias of Contains.
func (m *Map[K, V]) HasKey(key K) bool {
	return m.Contains(key)
}

// Get returns the value stored under key.
//
// The value is the map's own copy, not a new one: callers must not
// free it, and must not hold on to it past the next mutation that
// replaces or removes it.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if !m.usable() || m.size == 0 || isNil(key) {
		return
	}
	_, i, eq := m.find(key)
	if !eq {
		return
	}
	return m.arena.at(i).value, true
}

// Put associates a copy of value with key.
//
// If an equal key is already stored, only its value is replaced: the
// new value is copied first, then the old one is freed. The stored key
// is kept as is. Otherwise a new entry holding copies of key and value
// is spliced in at its ordered position.
//
// Returns ErrNullArgument for a nil map, key or value. Returns an error
// matching ErrOutOfMemory if the entry limit is reached or a copy
// callback fails; the map is then exactly as it was before the call.
func (m *Map[K, V]) Put(key K, value V) error {
	if !m.usable() || isNil(key) || isNil(value) {
		return ErrNullArgument
	}
	prev, i, eq := m.find(key)
	if eq {
		return m.update(i, value)
	}
	return m.insert(prev, i, key, value)
}

func (m *Map[K, V]) update(i int, value V) error {
	v, err := m.traits.CopyValue(value)
	if err != nil {
		m.rolledBack("update", err)
		return outOfMemory(err, "copy value")
	}
	e := m.arena.at(i)
	old := e.value
	e.value = v
	m.traits.FreeValue(old)
	m.counters.updates++
	return nil
}

// insert links a new entry between prev and next.
func (m *Map[K, V]) insert(prev, next int, key K, value V) error {
	slot, err := m.arena.alloc()
	if err != nil {
		m.rolledBack("alloc", err)
		return err
	}
	k, err := m.traits.CopyKey(key)
	if err != nil {
		m.arena.release(slot)
		m.rolledBack("copy key", err)
		return outOfMemory(err, "copy key")
	}
	v, err := m.traits.CopyValue(value)
	if err != nil {
		m.traits.FreeKey(k)
		m.arena.release(slot)
		m.rolledBack("copy value", err)
		return outOfMemory(err, "copy value")
	}
	m.arena.commit(slot, k, v)
	m.arena.at(slot).next = next
	if prev == nilIndex {
		m.head = slot
	} else {
		m.arena.at(prev).next = slot
	}
	m.size++
	m.gen++
	m.counters.puts++
	return nil
}

func (m *Map[K, V]) rolledBack(op string, err error) {
	m.counters.rollbacks++
	m.log.Debug("ordmap: put rolled back",
		zap.String("op", op),
		zap.Int("size", m.size),
		zap.Error(err))
}

// Remove deletes the entry whose key equals key, releasing its stored
// key and value through the free callbacks.
//
// Returns ErrNullArgument for a nil map or key and ErrItemNotFound if
// no entry matches. A successful Remove invalidates the shared cursor
// and every live Iterator.
func (m *Map[K, V]) Remove(key K) error {
	if !m.usable() || isNil(key) {
		return ErrNullArgument
	}
	prev, i, eq := m.find(key)
	if !eq {
		return ErrItemNotFound
	}
	e := m.arena.at(i)
	if prev == nilIndex {
		m.head = e.next
	} else {
		m.arena.at(prev).next = e.next
	}
	k, v := e.key, e.value
	m.arena.release(i)
	m.size--
	m.gen++
	m.counters.removes++
	m.traits.FreeValue(v)
	m.traits.FreeKey(k)
	return nil
}

// Clear releases every stored key and value and leaves the map empty
// with its cursor unset. Returns ErrNullArgument for a nil map.
func (m *Map[K, V]) Clear() error {
	if !m.usable() {
		return ErrNullArgument
	}
	m.freeAll()
	m.cursor = Iterator[K, V]{m: m, pos: nilIndex}
	return nil
}

func (m *Map[K, V]) freeAll() {
	for i := m.head; i != nilIndex; {
		e := m.arena.at(i)
		k, v, next := e.key, e.value, e.next
		m.traits.FreeKey(k)
		m.traits.FreeValue(v)
		i = next
	}
	m.arena.reset()
	m.head = nilIndex
	m.size = 0
	m.gen++
}

// Destroy releases every stored key and value and makes the map
// unusable. It is a no-op on a nil or already destroyed map.
func (m *Map[K, V]) Destroy() {
	if !m.usable() {
		return
	}
	n := m.size
	m.freeAll()
	m.arena = entryArena[K, V]{free: nilIndex}
	m.cursor = Iterator[K, V]{m: m, pos: nilIndex}
	m.destroyed = true
	m.log.Debug("ordmap: destroyed", zap.Int("released", n))
}

// Clone returns a deep copy of the map: same traits, configuration and
// order, with every key and value duplicated through the copy
// callbacks. Mutating either map never affects the other.
//
// Clone is atomic. If any copy fails, the copies already made are freed
// and an error matching ErrOutOfMemory is returned; the source map is
// never modified. Returns ErrNullArgument for a nil map.
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	if !m.usable() {
		return nil, ErrNullArgument
	}
	cfg := m.cfg
	cfg.sizeHint = max(cfg.sizeHint, m.size)
	clone := newMap(m.traits, cfg)
	tail := nilIndex
	for i := m.head; i != nilIndex; i = m.arena.at(i).next {
		if err := clone.appendCopy(&tail, m.arena.at(i)); err != nil {
			copied := clone.size
			clone.Destroy()
			m.log.Debug("ordmap: clone rolled back",
				zap.Int("copied", copied),
				zap.Int("size", m.size),
				zap.Error(err))
			return nil, err
		}
	}
	return clone, nil
}

// appendCopy adds copies of src after *tail. The caller guarantees the
// keys arrive in ascending order.
func (m *Map[K, V]) appendCopy(tail *int, src *entry[K, V]) error {
	slot, err := m.arena.alloc()
	if err != nil {
		return err
	}
	k, err := m.traits.CopyKey(src.key)
	if err != nil {
		m.arena.release(slot)
		return outOfMemory(err, "clone key")
	}
	v, err := m.traits.CopyValue(src.value)
	if err != nil {
		m.traits.FreeKey(k)
		m.arena.release(slot)
		return outOfMemory(err, "clone value")
	}
	m.arena.commit(slot, k, v)
	if *tail == nilIndex {
		m.head = slot
	} else {
		m.arena.at(*tail).next = slot
	}
	*tail = slot
	m.size++
	m.gen++
	return nil
}

// Size returns the number of entries, or NullSize for a nil or
// destroyed map. This is an O(1) operation.
func (m *Map[K, V]) Size() int {
	if !m.usable() {
		return NullSize
	}
	return m.size
}

// IsZero reports whether the map holds no entries.
func (m *Map[K, V]) IsZero() bool {
	return !m.usable() || m.size == 0
}
