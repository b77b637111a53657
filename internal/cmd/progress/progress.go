// Package progress turns the percentages reported by a reconciliation pass
// into something a person can watch: a spinner on a terminal, log lines
// everywhere else.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/theckman/yacspin"

	"github.com/agentstation/refimport/pkg/reconciler"
)

// Reporter displays the progress of one pass.
type Reporter interface {
	// Start begins displaying progress with an initial message.
	Start(message string) error
	// Sink returns the function to hand to the reconciler.
	Sink() reconciler.ProgressSink
	// Stop ends the display. A false ok marks the pass as failed.
	Stop(ok bool, message string) error
}

// New returns a spinner when w is a terminal and log-based reporting otherwise.
func New(w io.Writer, logger *zerolog.Logger) Reporter {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		if s, err := NewSpinner(w); err == nil {
			return s
		}
	}
	return NewLogReporter(logger)
}

// Spinner shows progress with a yacspin spinner. The sink may be called
// from a goroutine other than the one that started the spinner.
type Spinner struct {
	spinner *yacspin.Spinner
	prefix  string
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer) (*Spinner, error) {
	config := yacspin.Config{
		Writer:            w,
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[14],
		Suffix:            " ",
		SuffixAutoColon:   false,
		StopCharacter:     "✓",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "✗",
		StopFailColors:    []string{"fgRed"},
	}
	spinner, err := yacspin.New(config)
	if err != nil {
		return nil, err
	}
	return &Spinner{spinner: spinner}, nil
}

// Start implements Reporter.
func (s *Spinner) Start(message string) error {
	s.prefix = message
	s.spinner.Message(message)
	return s.spinner.Start()
}

// Sink implements Reporter.
func (s *Spinner) Sink() reconciler.ProgressSink {
	return func(percent int) {
		s.spinner.Message(fmt.Sprintf("%s %3d%%", s.prefix, percent))
	}
}

// Stop implements Reporter.
func (s *Spinner) Stop(ok bool, message string) error {
	if s.spinner.Status() == yacspin.SpinnerStopped {
		return nil
	}
	if ok {
		s.spinner.StopMessage(message)
		return s.spinner.Stop()
	}
	s.spinner.StopFailMessage(message)
	return s.spinner.StopFail()
}

// LogReporter writes progress as debug log lines, one per distinct percentage.
type LogReporter struct {
	logger *zerolog.Logger

	mu      sync.Mutex
	message string
	last    int
	seen    []int
}

// NewLogReporter creates a reporter logging through logger. A nil logger
// discards everything.
func NewLogReporter(logger *zerolog.Logger) *LogReporter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &LogReporter{logger: logger, last: -1}
}

// Start implements Reporter.
func (r *LogReporter) Start(message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message = message
	r.last = -1
	r.seen = nil
	r.logger.Debug().Msg(message)
	return nil
}

// Sink implements Reporter.
func (r *LogReporter) Sink() reconciler.ProgressSink {
	return func(percent int) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if percent == r.last {
			return
		}
		r.last = percent
		r.seen = append(r.seen, percent)
		r.logger.Debug().Int("percent", percent).Msg(r.message)
	}
}

// Stop implements Reporter.
func (r *LogReporter) Stop(ok bool, message string) error {
	if ok {
		r.logger.Debug().Msg(message)
	} else {
		r.logger.Warn().Msg(message)
	}
	return nil
}

// Reported returns the distinct percentages logged so far.
func (r *LogReporter) Reported() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int{}, r.seen...)
}
