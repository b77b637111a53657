// Package reconciler brings a project descriptor's reference list up to date
// with a directory of binaries.
//
// One pass loads the descriptor, indexes the references it already has,
// walks the candidate binaries in name order, and appends a Reference for
// every managed assembly not yet referenced. Per-file validation failures are
// collected in the Outcome and never stop the pass. The descriptor is backed
// up and rewritten only when something was added.
package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/refimport/pkg/assembly"
	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/errors"
	"github.com/agentstation/refimport/pkg/logging"
	"github.com/agentstation/refimport/pkg/project"
	"github.com/agentstation/refimport/pkg/scan"
)

// Reconciler runs reconciliation passes with a fixed configuration.
type Reconciler interface {
	// Reconcile adds the missing references for the binaries in binariesDir
	// to the descriptor at descriptorPath.
	Reconcile(ctx context.Context, descriptorPath, binariesDir string) (*Outcome, error)
}

type reconciler struct {
	opts *options
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{opts: options}, nil
}

// Reconcile runs one pass with the default configuration, an optional
// case-insensitive name prefix filter and an optional progress sink.
func Reconcile(ctx context.Context, descriptorPath, binariesDir, prefixFilter string, sink ProgressSink) (*Outcome, error) {
	r, err := New(WithPrefixFilter(prefixFilter), WithProgress(sink))
	if err != nil {
		return nil, err
	}
	return r.Reconcile(ctx, descriptorPath, binariesDir)
}

// pass holds the state of a single Reconcile call.
type pass struct {
	descriptor string
	doc        *project.Document
	index      *index
	outcome    *Outcome
	logger     *zerolog.Logger
}

// Reconcile implements Reconciler.
//
// It fails with *errors.DescriptorLoadError when the descriptor is not
// well-formed XML and with *errors.IOError when the descriptor cannot be read,
// the directory cannot be listed or the descriptor cannot be written.
// A canceled context stops the pass before anything is written.
func (r *reconciler) Reconcile(ctx context.Context, descriptorPath, binariesDir string) (*Outcome, error) {
	start := time.Now()
	descriptorPath = resolve(absolute(descriptorPath))
	binariesDir = absolute(binariesDir)

	ctx = logging.WithDescriptor(ctx, descriptorPath)
	ctx = logging.WithDirectory(ctx, binariesDir)
	logger := logging.FromContext(ctx)

	doc, err := project.Load(descriptorPath)
	if err != nil {
		return nil, err
	}

	candidates, err := scan.Directory(binariesDir, scan.WithPattern(r.opts.pattern))
	if err != nil {
		return nil, err
	}

	p := &pass{
		descriptor: descriptorPath,
		doc:        doc,
		index:      newIndex(doc.References()),
		outcome: &Outcome{
			added:      []string{},
			issues:     []Issue{},
			candidates: len(candidates),
			dryRun:     r.opts.dryRun,
			before:     doc.Source(),
		},
		logger: logger,
	}
	logger.Debug().
		Int("candidates", len(candidates)).
		Int("existing_references", len(doc.References())).
		Str("namespace", doc.Namespace()).
		Msg("Starting reconciliation pass")

	progress := newProgress(r.opts.sink, len(candidates))
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapCanceled("reconcile", err)
		}
		r.evaluate(ctx, p, candidate)
		progress.report(i + 1)
	}
	progress.done()

	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("reconcile", err)
	}

	out := p.outcome
	out.changesMade = doc.Modified()
	out.after = doc.Bytes()
	if out.changesMade && !r.opts.dryRun {
		if err := r.persist(p); err != nil {
			return nil, err
		}
	}
	out.duration = time.Since(start)

	logger.Info().
		Int("added", len(out.added)).
		Int("errors", len(out.issues)).
		Int("skipped", out.skipped).
		Bool("dry_run", r.opts.dryRun).
		Dur("duration", out.duration).
		Msg("Reconciliation pass complete")

	return out, nil
}

// evaluate decides what to do with one candidate.
func (r *reconciler) evaluate(ctx context.Context, p *pass, c scan.Candidate) {
	logger := p.logger.With().Str("candidate", c.Path).Logger()

	switch {
	case strings.TrimSpace(c.Name) == "":
		p.outcome.skipped++
		return
	case r.opts.prefix != nil && !r.opts.prefix.Match(c.Name):
		p.outcome.skipped++
		logger.Trace().Msg("Skipping candidate outside prefix filter")
		return
	case p.index.has(c.Name):
		p.outcome.skipped++
		logger.Debug().Str("name", c.Name).Msg("Already referenced")
		return
	}

	if r.opts.managedOnly {
		result := r.opts.validator.Validate(logging.WithCandidate(ctx, c.Path), c.Path)
		if !result.Valid() {
			issue := issueFor(c, result)
			p.outcome.issues = append(p.outcome.issues, issue)
			logger.Warn().Str("kind", string(issue.Kind)).Str("reason", issue.Reason).Msg("Candidate rejected")
			return
		}
	}

	ref := project.Reference{
		Include:  c.Name,
		HintPath: RelativePath(p.descriptor, c.Path),
	}
	p.doc.AddReference(ref)
	p.index.add(c.Name)
	p.outcome.added = append(p.outcome.added, c.Name)
	logger.Debug().Str("include", ref.Include).Str("hint_path", ref.HintPath).Msg("Adding reference")

	for _, hook := range r.opts.hooks {
		hook(ref)
	}
}

// persist backs up the descriptor, best effort, then overwrites it.
func (r *reconciler) persist(p *pass) error {
	backup := p.descriptor + r.opts.backupSuffix
	if err := project.Backup(p.descriptor, backup); err != nil {
		p.logger.Warn().Err(err).Str("backup", backup).Msg("Backup failed, saving anyway")
	} else {
		p.outcome.backupPath = backup
	}
	return project.Save(p.descriptor, p.doc)
}

func issueFor(c scan.Candidate, result assembly.Result) Issue {
	kind := IssueInvalid
	if result.Status == assembly.StatusUnreadable {
		kind = IssueUnreadable
	}
	result.Path = c.Path
	return Issue{
		File:    c.Path,
		Kind:    kind,
		Reason:  result.Reason(),
		Message: result.Message(),
	}
}

func absolute(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// resolve follows a symlinked descriptor so the backup and the save land on
// the real file instead of replacing the link. Other paths, including ones
// that cannot be resolved, are returned unchanged and left for Load to report.
func resolve(p string) string {
	info, err := os.Lstat(p)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return p
	}
	if target, err := filepath.EvalSymlinks(p); err == nil {
		return target
	}
	return p
}

// progress turns processed counts into percentages for a sink.
type progress struct {
	sink  ProgressSink
	total int
}

func newProgress(sink ProgressSink, count int) *progress {
	return &progress{sink: sink, total: max(1, count)}
}

// report sends round(processed*100/total).
func (p *progress) report(processed int) {
	if p.sink == nil {
		return
	}
	p.sink((processed*constants.ProgressMax + p.total/2) / p.total)
}

func (p *progress) done() {
	if p.sink != nil {
		p.sink(constants.ProgressMax)
	}
}
