package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/refimport"
	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/logging"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := add.NewCommand(mock)
//	// ... test command
type Mock struct {
	ClientFunc       func(opts ...refimport.Option) (refimport.Client, error)
	DefaultsFunc     func() Defaults
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	UseColorFunc     func() bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Client returns a client using the mock function or a real client built from opts.
func (m *Mock) Client(opts ...refimport.Option) (refimport.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return refimport.New(opts...)
}

// Defaults returns defaults using the mock function or the built-in defaults.
func (m *Mock) Defaults() Defaults {
	if m.DefaultsFunc != nil {
		return m.DefaultsFunc()
	}
	return Defaults{
		Pattern:      constants.DefaultCandidatePattern,
		BackupSuffix: constants.BackupSuffix,
		ManagedOnly:  true,
	}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// UseColor returns the mock function result or false.
func (m *Mock) UseColor() bool {
	if m.UseColorFunc != nil {
		return m.UseColorFunc()
	}
	return false
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
