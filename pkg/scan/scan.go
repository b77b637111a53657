// Package scan lists the candidate binaries in a directory.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/refimport/internal/matcher"
	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/errors"
)

// Candidate is a binary that may become a reference.
type Candidate struct {
	// Path is the directory joined with the file name.
	Path string `json:"path" yaml:"path"`
	// Name is the file name without its extension.
	Name string `json:"name" yaml:"name"`
}

// Option configures Directory.
type Option func(*options) error

type options struct {
	pattern string
}

// WithPattern sets the glob that file names must match. Matching ignores case.
func WithPattern(pattern string) Option {
	return func(o *options) error {
		if strings.TrimSpace(pattern) == "" {
			return errors.NewValidationError("pattern", pattern, "cannot be empty")
		}
		o.pattern = pattern
		return nil
	}
}

// Directory returns the files directly inside dir whose names match the
// pattern (default *.dll), sorted by file name. Subdirectories are not entered.
func Directory(dir string, opts ...Option) ([]Candidate, error) {
	o := &options{pattern: constants.DefaultCandidatePattern}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	m, err := matcher.New(matcher.Glob, o.pattern)
	if err != nil {
		return nil, errors.NewValidationError("pattern", o.pattern, err.Error())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapIO("list", dir, errors.NewNotFoundError("directory", dir))
		}
		return nil, errors.WrapIO("list", dir, err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !m.Match(entry.Name()) {
			continue
		}
		name := entry.Name()
		candidates = append(candidates, Candidate{
			Path: filepath.Join(dir, name),
			Name: BaseName(name),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return filepath.Base(candidates[i].Path) < filepath.Base(candidates[j].Path)
	})
	return candidates, nil
}

// BaseName strips the directory and the last extension from a path.
// Both slash styles are treated as separators so that Windows paths read
// from a descriptor resolve the same way on every platform.
func BaseName(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return strings.TrimSuffix(p, pathExt(p))
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
