package ordmap

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNullArgument is returned when the map, a key or a value is nil,
	// or when a required callback is missing.
	ErrNullArgument = errors.New("ordmap: null argument")
	// ErrOutOfMemory is returned when an entry slot cannot be allocated
	// or a copy callback fails. Callback errors are kept as the cause.
	ErrOutOfMemory = errors.New("ordmap: out of memory")
	// ErrItemNotFound is returned by Remove when no entry matches the key.
	ErrItemNotFound = errors.New("ordmap: item does not exist")
	// ErrIteratorInvalidated is reported by a cursor or Iterator when the
	// map was structurally modified after the iteration started.
	ErrIteratorInvalidated = errors.New("ordmap: iterator invalidated by map mutation")
)

// Result mirrors the classic result-code enumeration of the map API.
type Result int

const (
	Success Result = iota
	NullArgument
	OutOfMemory
	ItemNotFound
	// Unknown is returned by ResultOf for errors outside the map taxonomy.
	Unknown
)

func (r Result) String() string {
	switch r {
	case Success:
		return "MAP_SUCCESS"
	case NullArgument:
		return "MAP_NULL_ARGUMENT"
	case OutOfMemory:
		return "MAP_OUT_OF_MEMORY"
	case ItemNotFound:
		return "MAP_ITEM_DOES_NOT_EXIST"
	default:
		return "MAP_ERROR"
	}
}

// ResultOf maps an error returned by this package to its Result code.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrNullArgument):
		return NullArgument
	case errors.Is(err, ErrOutOfMemory):
		return OutOfMemory
	case errors.Is(err, ErrItemNotFound):
		return ItemNotFound
	default:
		return Unknown
	}
}

// outOfMemory wraps a failed copy callback so that it matches
// ErrOutOfMemory while keeping the callback error as the cause.
func outOfMemory(err error, format string, args ...any) error {
	if err == nil {
		return errors.WithStackDepth(ErrOutOfMemory, 1)
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrOutOfMemory)
}
