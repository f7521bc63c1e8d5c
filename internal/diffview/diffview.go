// Package diffview renders the difference between a clean copy and the
// local file as text.
package diffview

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"
)

type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

type Line struct {
	Op   Op
	Text string
}

type Diff struct {
	Title string
	Left  string
	Right string
	Lines []Line
}

func (d Diff) Identical() bool {
	for _, l := range d.Lines {
		if l.Op != OpEqual {
			return false
		}
	}
	return true
}

// Text renders the diff with "-", "+" and " " line markers under a header
// naming both files.
func (d Diff) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", d.Left, d.Right)
	for _, l := range d.Lines {
		b.WriteString(l.Op.marker())
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (o Op) marker() string {
	switch o {
	case OpInsert:
		return "+"
	case OpDelete:
		return "-"
	case OpEqual:
	}
	return " "
}

// Compute diffs the files at left and right line by line.
func Compute(left, right, title string) (Diff, error) {
	before, err := os.ReadFile(left)
	if err != nil {
		return Diff{}, fmt.Errorf("failed to read %s: %w", left, err)
	}
	after, err := os.ReadFile(right)
	if err != nil {
		return Diff{}, fmt.Errorf("failed to read %s: %w", right, err)
	}

	return Diff{
		Title: title,
		Left:  left,
		Right: right,
		Lines: Lines(string(before), string(after)),
	}, nil
}

func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var lines []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffEqual:
		}

		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			lines = append(lines, Line{Op: op, Text: line})
		}
	}

	return lines
}

// Viewer computes the diff as soon as it is asked to show one and hands it
// to a callback. The files are not needed after ShowDiff returns.
type Viewer struct {
	handle func(Diff)

	logger *zap.Logger
}

func NewViewer(handle func(Diff), logger *zap.Logger) *Viewer {
	return &Viewer{
		handle: handle,

		logger: logger,
	}
}

func (v *Viewer) ShowDiff(left, right, title string) <-chan struct{} {
	d, err := Compute(left, right, title)
	if err != nil {
		v.logger.Error("failed to compute diff", zap.String("title", title), zap.Error(err))
		return nil
	}

	v.handle(d)
	return nil
}
