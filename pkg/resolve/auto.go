package resolve

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/ROCm/pdbmerge/pkg/perfdb"
)

// autoPolicy resolves every conflict by picking, per sub-identifier, the
// value with the most comma-separated parameters. Longer tuning vectors
// carry more information, so more commas wins; on a tie the
// earliest-recorded value is kept. The policy never fails a run.
type autoPolicy struct {
	log *zerolog.Logger
}

func (p *autoPolicy) Resolve(key string, conflict *perfdb.Conflict) (*Decision, error) {
	line := mergedLine(key, conflict.SubIDs(), func(id string) string {
		return pickMostCommas(conflict.Records(id))
	})
	return &Decision{MergedLine: line, Resolved: true}, nil
}

// pickMostCommas returns the value with the greatest comma count, the
// earliest-recorded one on a tie. Records are never empty: a conflict
// only exists once at least one well-formed sub-record was added.
func pickMostCommas(records []perfdb.ValueRecord) string {
	best := ""
	bestMetric := -1

	for _, rec := range records {
		metric := strings.Count(rec.Value, ",")
		if metric > bestMetric {
			bestMetric = metric
			best = rec.Value
		}
	}

	return best
}
