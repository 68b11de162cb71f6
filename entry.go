package ordmap

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// nilIndex terminates the chain and the free list.
const nilIndex = -1

// entry is one key/value record of the ordered chain. next is the arena
// index of the following entry, or nilIndex for the last one. A released
// entry is not live and its next links the free list instead.
type entry[K, V any] struct {
	key   K
	value V
	next  int
	live  bool
}

// entryArena stores entries by index and recycles released slots.
type entryArena[K, V any] struct {
	entries  []entry[K, V]
	free     int // head of the free list
	nfree    int
	limit    int // max live entries, 0 = unlimited
	growStep int
}

func newEntryArena[K, V any](sizeHint, limit int) entryArena[K, V] {
	a := entryArena[K, V]{
		free:     nilIndex,
		limit:    limit,
		growStep: calcGrowStep[K, V](),
	}
	if sizeHint > 0 {
		if limit > 0 {
			sizeHint = min(sizeHint, limit)
		}
		a.entries = make([]entry[K, V], 0, sizeHint)
	}
	return a
}

// calcGrowStep returns how many entries fill at least one cache line.
func calcGrowStep[K, V any]() int {
	size := int(unsafe.Sizeof(entry[K, V]{}))
	if size == 0 {
		return 1
	}
	return max(1, (int(CacheLineSize)+size-1)/size)
}

func (a *entryArena[K, V]) live() int {
	return len(a.entries) - a.nfree
}

func (a *entryArena[K, V]) at(i int) *entry[K, V] {
	return &a.entries[i]
}

// alloc reserves a slot for a new entry. The slot is not live until the
// caller fills it with commit.
func (a *entryArena[K, V]) alloc() (int, error) {
	if a.limit > 0 && a.live() >= a.limit {
		return nilIndex, errors.Wrapf(ErrOutOfMemory, "entry limit %d reached", a.limit)
	}
	if a.free != nilIndex {
		i := a.free
		a.free = a.entries[i].next
		a.nfree--
		a.entries[i].next = nilIndex
		return i, nil
	}
	if len(a.entries) == cap(a.entries) {
		grow := max(a.growStep, len(a.entries)/2)
		if a.limit > 0 {
			grow = max(1, min(grow, a.limit-len(a.entries)))
		}
		a.entries = append(make([]entry[K, V], 0, len(a.entries)+grow), a.entries...)
	}
	a.entries = append(a.entries, entry[K, V]{next: nilIndex})
	return len(a.entries) - 1, nil
}

func (a *entryArena[K, V]) commit(i int, key K, value V) {
	e := &a.entries[i]
	e.key, e.value, e.live = key, value, true
}

// release returns a slot to the free list and drops its key and value
// so they can be collected. Freeing them is the caller's job.
func (a *entryArena[K, V]) release(i int) {
	a.entries[i] = entry[K, V]{next: a.free}
	a.free = i
	a.nfree++
}

// reset forgets every slot but keeps the backing storage.
func (a *entryArena[K, V]) reset() {
	clear(a.entries)
	a.entries = a.entries[:0]
	a.free = nilIndex
	a.nfree = 0
}
