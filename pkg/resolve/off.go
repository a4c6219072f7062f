package resolve

import (
	"github.com/rs/zerolog"

	"github.com/ROCm/pdbmerge/pkg/driverkey"
	"github.com/ROCm/pdbmerge/pkg/perfdb"
)

// offPolicy merges a conflicted key only when it is conflict-free after
// decomposition: every sub-identifier's recorded values must be identical.
// Keys that escalated purely because their raw concatenations differed
// (sub-record order, a stray CRLF) still merge; anything else is reported
// and left out of the merged database.
type offPolicy struct {
	log *zerolog.Logger
}

func (p *offPolicy) Resolve(key string, conflict *perfdb.Conflict) (*Decision, error) {
	agree := true
	for _, id := range conflict.SubIDs() {
		if !conflict.AllAgree(id) {
			agree = false
			break
		}
	}

	if agree {
		return p.trivialMerge(key, conflict), nil
	}
	return p.unresolved(key, conflict)
}

// trivialMerge emits the first-seen value of every sub-identifier, in
// insertion order. The key counts as resolved.
func (p *offPolicy) trivialMerge(key string, conflict *perfdb.Conflict) *Decision {
	p.log.Warn().
		Str("key", key).
		Msg("merged without conflicts")

	line := mergedLine(key, conflict.SubIDs(), func(id string) string {
		return conflict.Records(id)[0].Value
	})
	return &Decision{MergedLine: line, Resolved: true}
}

// unresolved reports the conflict and keeps the key out of the merged
// output. The run continues; only the final exit status records the
// failure.
func (p *offPolicy) unresolved(key string, conflict *perfdb.Conflict) (*Decision, error) {
	p.log.Error().
		Str("key", key).
		Msg("merge conflict")

	command, err := driverkey.Decode(key)
	if err != nil {
		return nil, err
	}

	return &Decision{
		Resolved: false,
		Command:  command,
		Report:   buildReport(key, command, conflict),
	}, nil
}
