package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ROCm/pdbmerge/pkg/errors"
	"github.com/ROCm/pdbmerge/pkg/merge"
	"github.com/ROCm/pdbmerge/pkg/resolve"
)

// Execute runs the pdbmerge CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// mergeFlags collects the flag values for one merge invocation.
type mergeFlags struct {
	sources          []string
	output           string
	conflicts        string
	conflictCommands string
	commands         string
	resolveMode      string

	verbose  bool
	quiet    bool
	noColor  bool
	logLevel string
}

// createRootCommand creates the root cobra command. pdbmerge is a single
// purpose tool, so the root command is the merge itself.
func (a *App) createRootCommand() *cobra.Command {
	flags := &mergeFlags{}

	rootCmd := &cobra.Command{
		Use:     "pdbmerge [flags] --sources <paths...>",
		Short:   "Merge performance database fragments",
		Version: a.version,
		Long: `pdbmerge consolidates performance-tuning database fragments produced by
independent build or benchmark shards into one merged database, detecting
and reporting conflicting values recorded for the same tuning key.

Bare arguments are treated as source paths, exactly as if they followed
--sources. By default conflicting keys are left unmerged and reported
(--resolve off); --resolve auto picks a winner per sub-identifier instead.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRun: func(_ *cobra.Command, _ []string) {
			a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.logLevel)
			logger := NewLogger(a.config)
			a.logger = &logger
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runMerge(flags, args)
		},
	}

	rootCmd.Flags().StringArrayVarP(&flags.sources, "sources", "s", nil, "paths to files to merge (repeatable)")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "path to merged output file; output is not saved if unset")
	rootCmd.Flags().StringVarP(&flags.conflicts, "conflicts", "p", "", "path to conflicts report file (.yaml/.yml switches to YAML)")
	rootCmd.Flags().StringVarP(&flags.conflictCommands, "conflict_commands", "x", "", "path to file receiving one driver command per conflicting key")
	rootCmd.Flags().StringVarP(&flags.commands, "commands", "c", "", "path to file receiving one driver command per key; also enables conflicts and conflict_commands with derived paths")
	rootCmd.Flags().StringVarP(&flags.resolveMode, "resolve", "r", a.config.Resolve, "conflict resolve mode: 0|off (report conflicts) or 1|auto (more commas wins, earlier value on ties)")

	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	rootCmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", a.config.Quiet, "suppress per-record warnings (shortcut for --log-level=error)")
	rootCmd.Flags().BoolVar(&flags.noColor, "no-color", a.config.NoColor, "disable colored output")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("pdbmerge {{.Version}}\n")

	return rootCmd
}

// runMerge validates the invocation and hands it to the merge package.
func (a *App) runMerge(flags *mergeFlags, args []string) error {
	sources := append([]string{}, flags.sources...)
	sources = append(sources, args...)

	if len(sources) == 0 {
		return errors.NewUsageError("--sources", "expected at least one input file")
	}

	// Check readability up front so a typo fails before any ingestion.
	for _, source := range sources {
		file, err := os.Open(source)
		if err != nil {
			return errors.WrapIO("open", source, err)
		}
		file.Close()
	}

	mode, err := resolve.ParseMode(flags.resolveMode)
	if err != nil {
		return err
	}

	return merge.Run(merge.Options{
		Sources:          sources,
		Output:           flags.output,
		Conflicts:        flags.conflicts,
		ConflictCommands: flags.conflictCommands,
		Commands:         flags.commands,
		Mode:             mode,
		Logger:           a.logger,
	})
}
