// Package application provides the application interface for refimport commands.
//
// Commands accept this interface rather than the concrete App type from
// cmd/refimport/app, so they can be tested with a Mock.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use client
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/refimport"
)

// Defaults are the command defaults resolved from the config file and the
// environment. Flags override them.
type Defaults struct {
	Filter       string
	Pattern      string
	BackupSuffix string
	ManagedOnly  bool
}

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns a refimport client built from the configured defaults
	// plus opts. Later options win.
	Client(opts ...refimport.Option) (refimport.Client, error)

	// Defaults returns the configured command defaults.
	Defaults() Defaults

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// UseColor reports whether colored output is allowed.
	UseColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
