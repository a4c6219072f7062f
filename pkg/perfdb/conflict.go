package perfdb

import (
	"strings"

	"github.com/rs/zerolog"
)

// Conflict aggregates every value recorded for one tuning key, grouped by
// sub-identifier. Raw values decompose on ';' into id:value sub-records;
// within a sub-identifier, records keep the order their owning inputs were
// processed in. That order is load-bearing: the Off policy's trivial merge
// takes the first-seen value and the Auto policy breaks ties by it.
type Conflict struct {
	ids   []string // sub-identifiers in first-occurrence order
	items map[string][]ValueRecord
	log   *zerolog.Logger
}

// NewConflict returns an empty aggregate. Decomposition warnings are
// emitted through log.
func NewConflict(log *zerolog.Logger) *Conflict {
	return &Conflict{
		items: make(map[string][]ValueRecord),
		log:   log,
	}
}

// Add decomposes a raw value into its ';'-separated sub-records and appends
// each well-formed one under its sub-identifier. Malformed sub-records are
// dropped with a warning and never enter the aggregate.
func (c *Conflict) Add(raw string, pos Provenance) {
	parts := strings.Split(raw, ";")
	// A single trailing ';' yields an empty final segment; it is not a
	// record, so drop it without a warning. Interior empties still warn.
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	for _, part := range parts {
		c.addItem(part, pos)
	}
}

func (c *Conflict) addItem(item string, pos Provenance) {
	id, value, ok := strings.Cut(item, ":")
	if !ok || id == "" {
		c.log.Warn().
			Stringer("at", pos).
			Msg("ill-formed record: id not found")
		return
	}
	if value == "" {
		c.log.Warn().
			Str("id", id).
			Stringer("at", pos).
			Msg("none contents under the id")
		return
	}

	if _, seen := c.items[id]; !seen {
		c.ids = append(c.ids, id)
	}
	c.items[id] = append(c.items[id], ValueRecord{Provenance: pos, Value: value})
}

// SubIDs returns the sub-identifiers in insertion order of first occurrence.
// Callers must not mutate the returned slice.
func (c *Conflict) SubIDs() []string {
	return c.ids
}

// Records returns every recorded value for the given sub-identifier, in
// arrival order.
func (c *Conflict) Records(subID string) []ValueRecord {
	return c.items[subID]
}

// AllAgree reports whether every value recorded for the sub-identifier is
// character-identical, regardless of provenance.
func (c *Conflict) AllAgree(subID string) bool {
	records := c.items[subID]
	for i := 1; i < len(records); i++ {
		if records[i].Value != records[i-1].Value {
			return false
		}
	}
	return true
}
