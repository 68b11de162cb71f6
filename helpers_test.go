package ordmap

import (
	"cmp"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
)

// box is a heap object with an identity, so tests can tell copies apart
// and count how each one is released.
type box struct {
	v  int
	id int
}

var errInjected = errors.New("injected copy failure")

// tracker hands out traits over *box keys and values that record every
// copy and free. failKeyAt / failValueAt make the n-th copy call (1-based)
// fail; zero never fails.
type tracker struct {
	live        map[*box]string
	nextID      int
	keyCopies   int
	valueCopies int
	keyFrees    int
	valueFrees  int
	badFrees    int
	failKeyAt   int
	failValueAt int
}

func newTracker() *tracker {
	return &tracker{live: map[*box]string{}}
}

func (tr *tracker) copyOf(b *box, kind string) *box {
	tr.nextID++
	c := &box{v: b.v, id: tr.nextID}
	tr.live[c] = kind
	return c
}

func (tr *tracker) free(b *box, kind string) {
	if tr.live[b] != kind {
		tr.badFrees++
		return
	}
	delete(tr.live, b)
}

func (tr *tracker) traits() Traits[*box, *box] {
	return Traits[*box, *box]{
		CopyKey: func(b *box) (*box, error) {
			tr.keyCopies++
			if tr.failKeyAt != 0 && tr.keyCopies == tr.failKeyAt {
				return nil, errInjected
			}
			return tr.copyOf(b, "key"), nil
		},
		CopyValue: func(b *box) (*box, error) {
			tr.valueCopies++
			if tr.failValueAt != 0 && tr.valueCopies == tr.failValueAt {
				return nil, errInjected
			}
			return tr.copyOf(b, "value"), nil
		},
		FreeKey: func(b *box) {
			tr.keyFrees++
			tr.free(b, "key")
		},
		FreeValue: func(b *box) {
			tr.valueFrees++
			tr.free(b, "value")
		},
		CompareKey: func(a, b *box) int { return cmp.Compare(a.v, b.v) },
	}
}

// liveCount returns the number of copies not yet freed.
func (tr *tracker) liveCount() int {
	return len(tr.live)
}

func newTrackedMap(t *testing.T, tr *tracker, options ...func(*MapConfig)) *Map[*box, *box] {
	t.Helper()
	m, err := New(tr.traits(), options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func bx(v int) *box { return &box{v: v} }

// snapshot returns the map content as plain ints, in iteration order.
func snapshot(m *Map[*box, *box]) [][2]int {
	var out [][2]int
	for k, v := range m.All() {
		out = append(out, [2]int{k.v, v.v})
	}
	return out
}

// checkInvariants verifies ordering and the size counter against the
// chain itself.
func checkInvariants[K, V any](t *testing.T, m *Map[K, V]) {
	t.Helper()
	s := m.Stats()
	if !s.Ordered || s.Size != s.Counter {
		t.Fatalf("invariants broken:\n%s", spew.Sdump(s))
	}
}

// requireIs checks err against target with errors.Is from
// cockroachdb/errors, which also follows marks.
func requireIs(t *testing.T, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v %v", target, err, msgAndArgs)
	}
}
