// Package perfdb models the contents of one or more performance-tuning
// database fragments: flat text files of key=value records produced by
// independent build or benchmark shards. A Store ingests records line by
// line and keeps, per tuning key, either the single value seen so far or a
// Conflict aggregate once a second value arrives for the same key.
package perfdb

import "fmt"

// Provenance identifies where a record was read from. It is carried for
// diagnostics only and never participates in ordering or merge decisions.
type Provenance struct {
	Source string // input file path or other source identifier
	Line   int    // 1-based line number within the source
}

// String renders provenance in the source:line form used by diagnostics.
func (p Provenance) String() string {
	return fmt.Sprintf("%s:%d", p.Source, p.Line)
}

// ValueRecord pairs a raw value string with the provenance it was read at.
type ValueRecord struct {
	Provenance Provenance
	Value      string
}
