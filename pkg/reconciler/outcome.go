package reconciler

import (
	"bytes"
	"fmt"
	"time"
)

// Status is the caller-facing classification of a completed pass.
// A pass that failed returns an error instead of an Outcome.
type Status int

const (
	// StatusNothingToDo means nothing was added and nothing went wrong.
	StatusNothingToDo Status = iota
	// StatusSuccess means references were added without issues.
	StatusSuccess
	// StatusCompletedWithWarnings means some candidates could not be validated.
	StatusCompletedWithWarnings
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNothingToDo:
		return "nothing_to_do"
	case StatusSuccess:
		return "success"
	case StatusCompletedWithWarnings:
		return "completed_with_warnings"
	default:
		return "unknown"
	}
}

// IssueKind classifies a per-candidate failure.
type IssueKind string

const (
	// IssueInvalid means the file is not a managed assembly.
	IssueInvalid IssueKind = "invalid"
	// IssueUnreadable means the file could not be read.
	IssueUnreadable IssueKind = "unreadable"
)

// Issue is a candidate that was rejected by validation.
type Issue struct {
	File    string    `json:"file" yaml:"file"`
	Kind    IssueKind `json:"kind" yaml:"kind"`
	Reason  string    `json:"reason" yaml:"reason"`
	Message string    `json:"message" yaml:"message"`
}

// Outcome is the result of one reconciliation pass. It is not modified after
// Reconcile returns; accessors hand out copies.
type Outcome struct {
	changesMade bool
	added       []string
	issues      []Issue
	candidates  int
	skipped     int
	backupPath  string
	dryRun      bool
	before      []byte
	after       []byte
	duration    time.Duration
}

// ChangesMade reports whether at least one reference was added.
func (o *Outcome) ChangesMade() bool {
	return o.changesMade
}

// Added returns the added assembly names in the order they were added.
func (o *Outcome) Added() []string {
	return append([]string{}, o.added...)
}

// Errors returns one message per rejected candidate, in enumeration order.
func (o *Outcome) Errors() []string {
	msgs := make([]string, 0, len(o.issues))
	for _, issue := range o.issues {
		msgs = append(msgs, issue.Message)
	}
	return msgs
}

// Issues returns the rejected candidates with their failure kind.
func (o *Outcome) Issues() []Issue {
	return append([]Issue{}, o.issues...)
}

// Candidates is the number of files that matched the binary pattern.
func (o *Outcome) Candidates() int {
	return o.candidates
}

// Skipped counts candidates ignored because of a blank name, the prefix
// filter, or an existing reference.
func (o *Outcome) Skipped() int {
	return o.skipped
}

// BackupPath is where the pre-pass descriptor was copied. It is empty when no
// backup was written.
func (o *Outcome) BackupPath() string {
	return o.backupPath
}

// DryRun reports whether the pass ran without writing.
func (o *Outcome) DryRun() bool {
	return o.dryRun
}

// Before returns the descriptor content read at the start of the pass.
func (o *Outcome) Before() []byte {
	return bytes.Clone(o.before)
}

// After returns the descriptor content as it was (or, in a dry run, would be) saved.
func (o *Outcome) After() []byte {
	return bytes.Clone(o.after)
}

// Duration is the wall time of the pass.
func (o *Outcome) Duration() time.Duration {
	return o.duration
}

// Status classifies the outcome for presentation.
func (o *Outcome) Status() Status {
	switch {
	case len(o.issues) > 0:
		return StatusCompletedWithWarnings
	case o.changesMade:
		return StatusSuccess
	default:
		return StatusNothingToDo
	}
}

// Summary returns a human-readable summary of the outcome.
func (o *Outcome) Summary() string {
	prefix := ""
	if o.dryRun {
		prefix = "Dry run: "
	}

	switch o.Status() {
	case StatusSuccess:
		return fmt.Sprintf("%sadded %d reference(s)", prefix, len(o.added))
	case StatusCompletedWithWarnings:
		return fmt.Sprintf("%sadded %d reference(s), %d file(s) could not be validated", prefix, len(o.added), len(o.issues))
	default:
		return prefix + "no new references; every binary is already referenced or none matched"
	}
}
