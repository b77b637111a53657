// Package preview renders the change a dry run would make to a descriptor
// as a line diff.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agentstation/refimport/internal/cmd/emoji"
)

// Line is one line of a diff.
type Line struct {
	Op   diffmatchpatch.Operation
	Text string
}

// Lines diffs before and after line by line. Line endings are normalized
// to \n before comparing.
func Lines(before, after string) []Line {
	before = normalize(before)
	after = normalize(after)

	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var lines []Line
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, l := range strings.Split(text, "\n") {
			lines = append(lines, Line{Op: d.Type, Text: l})
		}
	}
	return lines
}

// Changed reports whether any line was inserted or deleted.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != diffmatchpatch.DiffEqual {
			return true
		}
	}
	return false
}

// Options control Write.
type Options struct {
	// Context is the number of unchanged lines kept around each change.
	// A negative value keeps every line.
	Context int
	// Color enables colored output.
	Color bool
	// Name labels the diff header.
	Name string
}

// Write prints a unified style diff of before and after to w.
func Write(w io.Writer, before, after []byte, opts Options) error {
	lines := Lines(string(before), string(after))
	if !Changed(lines) {
		return nil
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	if opts.Color {
		added.EnableColor()
		removed.EnableColor()
	} else {
		added.DisableColor()
		removed.DisableColor()
	}

	if opts.Name != "" {
		if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", opts.Name, opts.Name); err != nil {
			return err
		}
	}

	keep := visible(lines, opts.Context)
	gap := false
	for i, l := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap {
			if _, err := fmt.Fprintln(w, "@@"); err != nil {
				return err
			}
			gap = false
		}

		var err error
		switch l.Op {
		case diffmatchpatch.DiffInsert:
			_, err = added.Fprintln(w, emoji.Added+l.Text)
		case diffmatchpatch.DiffDelete:
			_, err = removed.Fprintln(w, emoji.Removed+l.Text)
		default:
			_, err = fmt.Fprintln(w, " "+l.Text)
		}
		if err != nil {
			return err
		}
	}
	if gap {
		if _, err := fmt.Fprintln(w, "@@"); err != nil {
			return err
		}
	}
	return nil
}

// visible marks the lines within context of a change.
func visible(lines []Line, context int) []bool {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if context < 0 {
			keep[i] = true
			continue
		}
		if l.Op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}
	return keep
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
