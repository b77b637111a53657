package reconciler

import (
	"strings"

	"github.com/agentstation/refimport/internal/matcher"
	"github.com/agentstation/refimport/pkg/assembly"
	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/errors"
	"github.com/agentstation/refimport/pkg/project"
)

// ProgressSink receives progress in percent, from 0 to 100. It is called on
// the goroutine running the pass; marshal to a UI thread if needed.
type ProgressSink func(percent int)

// AddedHook is called synchronously after each reference is added.
type AddedHook func(ref project.Reference)

type options struct {
	prefix       matcher.Matcher
	sink         ProgressSink
	validator    assembly.Validator
	pattern      string
	backupSuffix string
	dryRun       bool
	managedOnly  bool
	hooks        []AddedHook
}

func defaultOptions() *options {
	return &options{
		validator:    assembly.DefaultValidator,
		pattern:      constants.DefaultCandidatePattern,
		backupSuffix: constants.BackupSuffix,
		managedOnly:  true,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

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

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithPrefixFilter keeps only candidates whose base name starts with prefix,
// ignoring case. Only the empty string disables filtering; whitespace is
// part of the prefix.
func WithPrefixFilter(prefix string) Option {
	return func(o *options) error {
		if prefix == "" {
			o.prefix = nil
			return nil
		}
		m, err := matcher.New(matcher.Prefix, prefix)
		if err != nil {
			return errors.NewValidationError("prefix_filter", prefix, err.Error())
		}
		o.prefix = m
		return nil
	}
}

// WithProgress sets the progress sink. A nil sink discards progress.
func WithProgress(sink ProgressSink) Option {
	return func(o *options) error {
		o.sink = sink
		return nil
	}
}

// WithValidator replaces the managed assembly check.
func WithValidator(v assembly.Validator) Option {
	return func(o *options) error {
		if v == nil {
			return &errors.ValidationError{
				Field:   "validator",
				Message: "cannot be nil",
			}
		}
		o.validator = v
		return nil
	}
}

// WithPattern sets the glob candidate file names must match (default *.dll).
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

// WithBackupSuffix sets the suffix appended to the descriptor path for the backup copy.
func WithBackupSuffix(suffix string) Option {
	return func(o *options) error {
		if suffix == "" {
			return errors.NewValidationError("backup_suffix", suffix, "cannot be empty")
		}
		o.backupSuffix = suffix
		return nil
	}
}

// WithDryRun computes the additions without writing the backup or the descriptor.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}

// WithManagedOnly controls whether candidates must pass the validator.
// When disabled every candidate that survives filtering is added. Default true.
func WithManagedOnly(enabled bool) Option {
	return func(o *options) error {
		o.managedOnly = enabled
		return nil
	}
}

// WithAddedHook registers a callback for each added reference.
func WithAddedHook(hook AddedHook) Option {
	return func(o *options) error {
		if hook == nil {
			return &errors.ValidationError{
				Field:   "hook",
				Message: "cannot be nil",
			}
		}
		o.hooks = append(o.hooks, hook)
		return nil
	}
}
