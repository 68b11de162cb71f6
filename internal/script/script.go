// Package script drives an ordmap.Map of integer-keyed records from a
// JSONC script: initial entries followed by a list of operations.
package script

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/llxisdsh/ordmap"
)

// Record is the value stored per key.
type Record struct {
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`
}

// Op is one scripted operation.
type Op struct {
	// Op is one of put, remove, clear, snapshot, restore.
	Op    string  `json:"op"`
	Key   *int64  `json:"key,omitempty"`
	Value *Record `json:"value,omitempty"`
}

// Script is the decoded script file.
type Script struct {
	MaxEntries int                               `json:"max_entries,omitempty"`
	Entries    []ordmap.EntryOf[int64, *Record] `json:"entries"`
	Ops        []Op                              `json:"ops"`
}

// Outcome is the result of one Op.
type Outcome struct {
	Index  int
	Op     string
	Key    *int64
	Result ordmap.Result
	Err    error
}

func (o Outcome) String() string {
	key := "-"
	if o.Key != nil {
		key = fmt.Sprint(*o.Key)
	}
	return fmt.Sprintf("#%d %s %s: %s", o.Index, o.Op, key, o.Result)
}

var errUnknownOp = errors.New("unknown op")

// Load reads and decodes the script at path. Comments and trailing
// commas are allowed.
func Load(fs afero.Fs, path string) (*Script, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	var s Script
	if err := json.Unmarshal(jsonc.ToJSON(content), &s); err != nil {
		return nil, errors.Wrapf(err, "decode script %s", path)
	}
	for i, op := range s.Ops {
		switch op.Op {
		case "put", "remove":
			if op.Key == nil {
				return nil, errors.Newf("op #%d %s: missing key", i, op.Op)
			}
		case "clear", "snapshot", "restore":
		default:
			return nil, errors.Wrapf(errUnknownOp, "op #%d %q", i, op.Op)
		}
	}
	return &s, nil
}

// RecordTraits returns the traits of a record map: int64 keys and deep
// copied records.
func RecordTraits() ordmap.Traits[int64, *Record] {
	return ordmap.Traits[int64, *Record]{
		CopyKey:    func(k int64) (int64, error) { return k, nil },
		CopyValue:  CopyRecord,
		FreeKey:    func(int64) {},
		FreeValue:  func(*Record) {},
		CompareKey: cmp.Compare[int64],
	}
}

// CopyRecord returns a deep copy of r.
func CopyRecord(r *Record) (*Record, error) {
	if r == nil {
		return nil, errors.New("copy of nil record")
	}
	return &Record{Name: r.Name, Tags: slices.Clone(r.Tags)}, nil
}

// Runner applies scripts.
type Runner struct {
	log        *zap.Logger
	maxEntries int
}

// NewRunner creates a Runner. maxEntries overrides the script's own
// limit when positive.
func NewRunner(log *zap.Logger, maxEntries int) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log, maxEntries: maxEntries}
}

// Apply builds the map from s.Entries, then runs s.Ops in order. A
// failing op is recorded in its Outcome and does not stop the script.
// The error return is reserved for failures to build the initial map.
// The caller owns the returned map.
func (r *Runner) Apply(s *Script) (*ordmap.Map[int64, *Record], []Outcome, error) {
	limit := s.MaxEntries
	if r.maxEntries > 0 {
		limit = r.maxEntries
	}
	m, err := ordmap.New(RecordTraits(),
		ordmap.WithPresize(len(s.Entries)),
		ordmap.WithMaxEntries(limit),
		ordmap.WithLogger(r.log))
	if err != nil {
		return nil, nil, err
	}
	for i, e := range s.Entries {
		if err := m.Put(e.Key, e.Value); err != nil {
			m.Destroy()
			return nil, nil, errors.Wrapf(err, "entry #%d key %d", i, e.Key)
		}
	}

	var snapshot *ordmap.Map[int64, *Record]
	defer func() { snapshot.Destroy() }()

	outcomes := make([]Outcome, 0, len(s.Ops))
	for i, op := range s.Ops {
		var err error
		switch op.Op {
		case "put", "remove":
			if op.Key == nil {
				err = errors.Wrap(ordmap.ErrNullArgument, "missing key")
			} else if op.Op == "put" {
				err = m.Put(*op.Key, op.Value)
			} else {
				err = m.Remove(*op.Key)
			}
		case "clear":
			err = m.Clear()
		case "snapshot":
			var c *ordmap.Map[int64, *Record]
			if c, err = m.Clone(); err == nil {
				snapshot.Destroy()
				snapshot = c
			}
		case "restore":
			if snapshot == nil {
				err = errors.Wrap(ordmap.ErrNullArgument, "no snapshot")
				break
			}
			var c *ordmap.Map[int64, *Record]
			if c, err = snapshot.Clone(); err == nil {
				m.Destroy()
				m = c
			}
		default:
			err = errors.Wrapf(errUnknownOp, "%q", op.Op)
		}
		o := Outcome{Index: i, Op: op.Op, Key: op.Key, Result: ordmap.ResultOf(err), Err: err}
		if err != nil {
			r.log.Info("op failed", zap.Int("index", i), zap.String("op", op.Op), zap.Error(err))
		}
		outcomes = append(outcomes, o)
	}
	r.log.Debug("script applied", zap.Int("ops", len(s.Ops)), zap.Int("size", m.Size()))
	return m, outcomes, nil
}

// WriteListing writes one line per entry in ascending key order, walking
// the map with its shared cursor.
func WriteListing(w io.Writer, m *ordmap.Map[int64, *Record]) error {
	for key, ok := m.FirstKey(); ok; key, ok = m.NextKey() {
		rec, _ := m.Get(key)
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", key, rec.Name, strings.Join(rec.Tags, ",")); err != nil {
			return errors.Wrap(err, "write listing")
		}
	}
	return m.CursorErr()
}
