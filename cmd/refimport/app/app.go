// Package app provides the application context and dependency management
// for the refimport CLI. It centralizes configuration, logging and the
// construction of refimport clients.
package app

import (
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/agentstation/refimport"
	"github.com/agentstation/refimport/internal/cmd/application"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the refimport application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Command output; nil means the process streams
	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config file
// locations; options run afterwards and may replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
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

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// UseColor reports whether colored output is allowed.
func (a *App) UseColor() bool {
	return !a.config.NoColor && !color.NoColor
}

// Defaults returns the configured import defaults.
func (a *App) Defaults() application.Defaults {
	return application.Defaults{
		Filter:       a.config.Filter,
		Pattern:      a.config.Pattern,
		BackupSuffix: a.config.BackupSuffix,
		ManagedOnly:  a.config.ManagedOnly,
	}
}

// Client returns a new refimport client configured from the app
// configuration, with opts applied last.
func (a *App) Client(opts ...refimport.Option) (refimport.Client, error) {
	all := append(a.clientOptions(), opts...)
	return refimport.New(all...)
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []refimport.Option {
	var opts []refimport.Option
	if a.config.Pattern != "" {
		opts = append(opts, refimport.WithPattern(a.config.Pattern))
	}
	if a.config.BackupSuffix != "" {
		opts = append(opts, refimport.WithBackupSuffix(a.config.BackupSuffix))
	}
	opts = append(opts, refimport.WithManagedOnly(a.config.ManagedOnly))
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithIO redirects command output, for tests and embedding.
func WithIO(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}
