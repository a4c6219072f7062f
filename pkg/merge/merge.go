// Package merge orchestrates a pdbmerge run: it feeds every source file to
// a perfdb.Store, then visits each stored key in sorted order and either
// emits it directly or hands its conflict to the configured resolve policy,
// routing the policy's artifacts to the output destinations.
package merge

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ROCm/pdbmerge/pkg/driverkey"
	"github.com/ROCm/pdbmerge/pkg/errors"
	"github.com/ROCm/pdbmerge/pkg/logging"
	"github.com/ROCm/pdbmerge/pkg/perfdb"
	"github.com/ROCm/pdbmerge/pkg/resolve"
)

// Options configures one merge run. All destinations are optional: an
// empty path disables its artifact.
type Options struct {
	// Sources are the input database fragments, processed in order.
	Sources []string

	// Output is the merged database destination.
	Output string

	// Conflicts is the conflicts report destination. A .yaml/.yml path
	// switches the report from text blocks to a YAML document stream.
	Conflicts string

	// ConflictCommands receives one driver command per unresolved key.
	ConflictCommands string

	// Commands receives one driver command per key, conflicting or not.
	Commands string

	// Mode selects the conflict resolution policy.
	Mode resolve.Mode

	// Logger receives diagnostics; nil uses the default logger.
	Logger *zerolog.Logger
}

// normalize applies the destination derivation rules: a merged-output path
// derives default conflicts and conflict-commands paths, and a commands
// dump does the same for any still unset.
func (o *Options) normalize() {
	for _, base := range []string{o.Output, o.Commands} {
		if base == "" {
			continue
		}
		if o.Conflicts == "" {
			o.Conflicts = base + ".conflicts"
		}
		if o.ConflictCommands == "" {
			o.ConflictCommands = base + ".options"
		}
	}
}

// Run executes a full merge. It returns nil for a clean merge,
// ErrUnresolvedConflicts when at least one key kept a real conflict under
// the off policy, and a fatal error (I/O or key grammar) otherwise.
func Run(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	opts.normalize()

	if len(opts.Sources) == 0 {
		return errors.NewUsageError("--sources", "expected at least one input file")
	}

	store := perfdb.New(log)
	for _, source := range opts.Sources {
		if err := store.LoadFile(source); err != nil {
			return err
		}
	}

	return process(store, &opts, log)
}

// process visits every key and writes the configured artifacts. Every
// configured destination is created (and truncated) up front so an
// unwritable path fails the run before any key is visited; per-key writes
// then append one complete record at a time.
func process(store *perfdb.Store, opts *Options, log *zerolog.Logger) error {
	for _, path := range []string{opts.Output, opts.Conflicts, opts.ConflictCommands, opts.Commands} {
		if path == "" {
			continue
		}
		if err := truncate(path); err != nil {
			return err
		}
	}

	policy := resolve.New(opts.Mode, log)
	reportYAML := yamlPath(opts.Conflicts)
	failed := false

	for _, key := range store.SortedKeys() {
		if opts.Commands != "" {
			command, err := driverkey.Decode(key)
			if err != nil {
				return err
			}
			if err := appendLine(opts.Commands, command); err != nil {
				return err
			}
		}

		entry := store.Entry(key)
		if entry.Kind() == perfdb.KindSingle {
			if opts.Output != "" {
				if err := appendLine(opts.Output, key+"="+entry.Single().Value); err != nil {
					return err
				}
			}
			continue
		}

		decision, err := policy.Resolve(key, entry.Conflict())
		if err != nil {
			return err
		}

		if decision.MergedLine != "" && opts.Output != "" {
			if err := appendLine(opts.Output, decision.MergedLine); err != nil {
				return err
			}
		}
		if decision.Resolved {
			continue
		}

		failed = true
		if opts.ConflictCommands != "" {
			if err := appendLine(opts.ConflictCommands, decision.Command); err != nil {
				return err
			}
		}
		if opts.Conflicts != "" {
			if err := appendReport(opts.Conflicts, decision.Report, reportYAML); err != nil {
				return err
			}
		}
	}

	if failed {
		return errors.ErrUnresolvedConflicts
	}
	return nil
}

// yamlPath reports whether the conflicts destination asks for the YAML
// report format.
func yamlPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
