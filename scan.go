package refimport

import (
	"context"
	"strings"

	"github.com/agentstation/refimport/internal/matcher"
	"github.com/agentstation/refimport/pkg/assembly"
	"github.com/agentstation/refimport/pkg/errors"
	"github.com/agentstation/refimport/pkg/logging"
	"github.com/agentstation/refimport/pkg/scan"
)

// ScanEntry is one candidate and what the validator made of it.
type ScanEntry struct {
	Name   string         `json:"name" yaml:"name"`
	Path   string         `json:"path" yaml:"path"`
	Status string         `json:"status" yaml:"status"`
	Reason string         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Info   *assembly.Info `json:"info,omitempty" yaml:"info,omitempty"`
}

// Valid reports whether the entry is a managed assembly.
func (e ScanEntry) Valid() bool {
	return e.Status == assembly.StatusValid.String()
}

// Scan lists the candidates in dir that start with filter and validates each.
// Nothing is written.
func (c *client) Scan(ctx context.Context, dir string, filter string) ([]ScanEntry, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.NewValidationError("directory", dir, "is required")
	}

	var prefix matcher.Matcher
	if filter != "" {
		var err error
		if prefix, err = matcher.New(matcher.Prefix, filter); err != nil {
			return nil, errors.NewValidationError("filter", filter, err.Error())
		}
	}

	candidates, err := scan.Directory(dir, scan.WithPattern(c.options.pattern))
	if err != nil {
		return nil, err
	}

	validator := c.options.validator
	if validator == nil {
		validator = assembly.DefaultValidator
	}

	logger := logging.FromContext(ctx)
	entries := make([]ScanEntry, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapCanceled("scan", err)
		}
		if prefix != nil && !prefix.Match(candidate.Name) {
			continue
		}
		result := validator.Validate(logging.WithCandidate(ctx, candidate.Path), candidate.Path)
		entries = append(entries, ScanEntry{
			Name:   candidate.Name,
			Path:   candidate.Path,
			Status: result.Status.String(),
			Reason: result.Reason(),
			Info:   result.Info,
		})
	}
	logger.Debug().Str("directory", dir).Int("entries", len(entries)).Msg("Scanned directory")
	return entries, nil
}
