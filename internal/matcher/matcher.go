// Package matcher provides the name matching used to select candidate binaries:
// doublestar globs for file names, prefix filters for base names, and
// case-insensitive name sets. Case folding uses Unicode full case folding.
package matcher

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses doublestar patterns (*, ?, [], {a,b}).
	Glob PatternType = iota
	// Prefix matches inputs that start with the pattern.
	Prefix
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Prefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// Matcher is the interface for pattern matching operations.
type Matcher interface {
	// Match checks if the input matches the pattern.
	Match(input string) bool
	// MatchAll returns the matching inputs in order.
	MatchAll(inputs ...string) []string
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// Options configures the matcher behavior.
type Options struct {
	// CaseInsensitive folds case on both pattern and input
	CaseInsensitive bool
}

// DefaultOptions returns case-insensitive matching, which is how project
// tooling on Windows treats file and assembly names.
func DefaultOptions() *Options {
	return &Options{CaseInsensitive: true}
}

type matcher struct {
	pattern         string
	compiled        string
	patternType     PatternType
	caseInsensitive bool
}

// New creates a new Matcher with the specified pattern and type.
func New(patternType PatternType, pattern string, opts ...*Options) (Matcher, error) {
	options := DefaultOptions()
	if len(opts) > 0 && opts[0] != nil {
		options = opts[0]
	}

	m := &matcher{
		pattern:         pattern,
		compiled:        pattern,
		patternType:     patternType,
		caseInsensitive: options.CaseInsensitive,
	}
	if m.caseInsensitive {
		m.compiled = Fold(pattern)
	}

	switch patternType {
	case Glob:
		if !doublestar.ValidatePattern(m.compiled) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	case Prefix:
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}
	return m, nil
}

// MustNew creates a new Matcher and panics if there's an error.
func MustNew(patternType PatternType, pattern string, opts ...*Options) Matcher {
	m, err := New(patternType, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Match checks if the input matches the pattern.
func (m *matcher) Match(input string) bool {
	if m.caseInsensitive {
		input = Fold(input)
	}

	switch m.patternType {
	case Glob:
		matched, _ := doublestar.Match(m.compiled, input)
		return matched
	case Prefix:
		return strings.HasPrefix(input, m.compiled)
	default:
		return false
	}
}

// MatchAll returns the matching inputs in order.
func (m *matcher) MatchAll(inputs ...string) []string {
	results := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if m.Match(input) {
			results = append(results, input)
		}
	}
	return results
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// Fold returns the case-folded form of s. Two names are equal ignoring case
// exactly when their folded forms are equal.
func Fold(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(s)
}

// Set is a set of names compared without regard to case.
type Set map[string]struct{}

// NewSet returns a set holding names. Blank names are ignored.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name. Blank names are ignored.
func (s Set) Add(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	s[Fold(name)] = struct{}{}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[Fold(name)]
	return ok
}
