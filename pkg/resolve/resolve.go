// Package resolve turns a conflicted tuning key into an output decision.
// Two interchangeable policies exist: Off (the default) refuses to merge
// keys whose decomposed sub-records genuinely disagree, reporting them for
// a human to re-benchmark, while Auto always picks a winner per
// sub-identifier and never fails the run.
package resolve

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/ROCm/pdbmerge/pkg/errors"
	"github.com/ROCm/pdbmerge/pkg/perfdb"
)

// Mode selects the conflict resolution policy.
type Mode int

const (
	// ModeOff ignores keys with real conflicts and reports them.
	ModeOff Mode = iota

	// ModeAuto resolves every conflict by comma-count heuristic.
	ModeAuto
)

// String returns the flag-level name of the mode.
func (m Mode) String() string {
	if m == ModeAuto {
		return "auto"
	}
	return "off"
}

// ParseMode parses a --resolve flag value. It accepts 0/off and 1/auto,
// case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "0", "off":
		return ModeOff, nil
	case "1", "auto":
		return ModeAuto, nil
	default:
		return ModeOff, errors.NewUsageError("--resolve", "expected 0, 1, off or auto, got "+s)
	}
}

// Decision is the outcome of resolving one conflicted key.
type Decision struct {
	// MergedLine is the key=value line to append to the merged database,
	// empty when the key stays unresolved.
	MergedLine string

	// Resolved is false only for an unresolved conflict under the Off
	// policy; it flips the run's exit status without stopping the pass.
	Resolved bool

	// Command is the decoded driver invocation reproducing the key, set
	// only for unresolved conflicts.
	Command string

	// Report describes an unresolved conflict for the conflicts file.
	Report *Report
}

// Policy resolves conflicted keys. Implementations are stateless between
// keys; the error return is reserved for fatal key-decoding failures.
type Policy interface {
	Resolve(key string, conflict *perfdb.Conflict) (*Decision, error)
}

// New returns the policy implementing the given mode, logging diagnostics
// through log. A nil logger disables diagnostics.
func New(mode Mode, log *zerolog.Logger) Policy {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	if mode == ModeAuto {
		return &autoPolicy{log: log}
	}
	return &offPolicy{log: log}
}

// mergedLine renders key= followed by id:value pairs joined by ';'. The
// value for each sub-identifier comes from pick.
func mergedLine(key string, subIDs []string, pick func(subID string) string) string {
	var b strings.Builder
	b.WriteString(key)
	b.WriteByte('=')
	for i, id := range subIDs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(id)
		b.WriteByte(':')
		b.WriteString(pick(id))
	}
	return b.String()
}
