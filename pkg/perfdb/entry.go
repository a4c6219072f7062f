package perfdb

import "github.com/rs/zerolog"

// EntryKind discriminates the two states a stored key can be in.
type EntryKind int

const (
	// KindSingle marks a key that has seen exactly one value.
	KindSingle EntryKind = iota

	// KindConflict marks a key that has seen two or more values. The
	// transition is one-directional: once a key escalates to a conflict it
	// never reverts, even if every later value is identical.
	KindConflict
)

// Entry is the tagged variant stored per tuning key: either a single
// ValueRecord or a Conflict aggregate. The zero value is not meaningful;
// entries are created by Store.Ingest.
type Entry struct {
	kind     EntryKind
	single   ValueRecord
	conflict *Conflict
}

// Kind reports whether the entry holds a single value or a conflict.
func (e *Entry) Kind() EntryKind {
	return e.kind
}

// Single returns the sole recorded value. Valid only while Kind is
// KindSingle.
func (e *Entry) Single() ValueRecord {
	return e.single
}

// Conflict returns the conflict aggregate. Valid only once Kind is
// KindConflict.
func (e *Entry) Conflict() *Conflict {
	return e.conflict
}

func newSingleEntry(rec ValueRecord) *Entry {
	return &Entry{kind: KindSingle, single: rec}
}

// escalate converts a single entry into a conflict, re-injecting the
// original value as the conflict's first sub-record set before the new
// value is added by the caller.
func (e *Entry) escalate(log *zerolog.Logger) *Conflict {
	c := NewConflict(log)
	c.Add(e.single.Value, e.single.Provenance)
	e.kind = KindConflict
	e.conflict = c
	e.single = ValueRecord{}
	return c
}
