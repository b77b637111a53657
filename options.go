package refimport

import (
	"strings"

	"github.com/agentstation/refimport/internal/matcher"
	"github.com/agentstation/refimport/pkg/assembly"
	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/errors"
)

// Option is a function that configures a Client instance
type Option func(*options) error

// options holds the client configuration
type options struct {
	pattern      string
	backupSuffix string
	managedOnly  bool
	validator    assembly.Validator
}

// defaults returns the default options
func defaults() *options {
	return &options{
		pattern:      constants.DefaultCandidatePattern,
		backupSuffix: constants.BackupSuffix,
		managedOnly:  true,
	}
}

// apply applies the given options, stopping at the first error
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithPattern configures the glob candidate file names must match
func WithPattern(pattern string) Option {
	return func(o *options) error {
		if strings.TrimSpace(pattern) == "" {
			return errors.NewValidationError("pattern", pattern, "cannot be empty")
		}
		if _, err := matcher.New(matcher.Glob, pattern); err != nil {
			return errors.NewValidationError("pattern", pattern, err.Error())
		}
		o.pattern = pattern
		return nil
	}
}

// WithBackupSuffix configures the suffix of the backup written before a descriptor is changed
func WithBackupSuffix(suffix string) Option {
	return func(o *options) error {
		if suffix == "" {
			return errors.NewValidationError("backup_suffix", suffix, "cannot be empty")
		}
		o.backupSuffix = suffix
		return nil
	}
}

// WithManagedOnly configures whether candidates must be managed assemblies
func WithManagedOnly(enabled bool) Option {
	return func(o *options) error {
		o.managedOnly = enabled
		return nil
	}
}

// WithValidator configures a custom managed assembly check
func WithValidator(v assembly.Validator) Option {
	return func(o *options) error {
		if v == nil {
			return errors.NewValidationError("validator", nil, "cannot be nil")
		}
		o.validator = v
		return nil
	}
}
