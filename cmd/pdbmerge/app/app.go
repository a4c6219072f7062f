// Package app provides the application context for the pdbmerge CLI:
// configuration loading, logger construction, the cobra command surface,
// and the mapping from errors to process exit codes.
package app

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/ROCm/pdbmerge/pkg/errors"
)

// App represents the pdbmerge application with its dependencies. It keeps
// configuration and logging in one place so the merge packages stay free
// of process-level concerns.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// Option customizes an App during construction.
type Option func(*App) error

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// WithLogger overrides the application logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Exit terminates the process with the exit code mapped from err: 0 for a
// clean merge, 1 when unresolved conflicts remain, 2 for fatal errors.
// Fatal errors are printed; unresolved conflicts were already reported
// per key during the run.
func Exit(err error) {
	if err != nil && !errors.Is(err, errors.ErrUnresolvedConflicts) {
		//nolint:errcheck // exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
	}
	os.Exit(errors.ExitCode(err))
}
