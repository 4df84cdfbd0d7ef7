// Package console isolates terminal mutation behind a small sink
// interface. Writing a trace line, retracting a drawn region and
// redrawing a region are the only terminal-mutating primitives, so the
// box/trace coordination above is expressible as ordered sink calls and
// testable against a recording implementation.
package console

import (
	"io"

	"github.com/muesli/termenv"
)

// Sink serializes output to the two coordinated views: the scrolling
// trace stream and the fixed redrawn region beneath it.
type Sink interface {
	// WriteLine appends one line to the scrolling stream.
	WriteLine(s string) error
	// DrawRegion replaces the fixed region with the given lines. The
	// cursor is left at the end of the last line, not on a new line.
	DrawRegion(lines []string) error
	// RetractRegion clears the fixed region and restores the cursor to
	// the start of the line it occupied.
	RetractRegion() error
}

// Terminal is the ANSI sink. Cursor repositioning uses clear-line and
// cursor-up sequences, so the region keeps a constant vertical
// footprint instead of scrolling.
type Terminal struct {
	ew     *errWriter
	out    *termenv.Output
	region int
}

// NewTerminal creates a sink writing to w.
func NewTerminal(w io.Writer) *Terminal {
	ew := &errWriter{w: w}
	return &Terminal{
		ew:  ew,
		out: termenv.NewOutput(ew),
	}
}

// WriteLine writes s followed by a newline.
func (t *Terminal) WriteLine(s string) error {
	t.out.WriteString(s + "\n")
	return t.ew.err
}

// DrawRegion retracts any previously drawn region and draws the new
// one in its place.
func (t *Terminal) DrawRegion(lines []string) error {
	t.retract()
	for i, line := range lines {
		t.out.WriteString(line)
		if i < len(lines)-1 {
			t.out.WriteString("\n")
		}
	}
	t.region = len(lines)
	return t.ew.err
}

// RetractRegion clears the drawn region, if any.
func (t *Terminal) RetractRegion() error {
	t.retract()
	return t.ew.err
}

func (t *Terminal) retract() {
	if t.region == 0 {
		return
	}
	for i := 0; i < t.region-1; i++ {
		t.out.ClearLine()
		t.out.CursorUp(1)
	}
	t.out.ClearLine()
	t.out.WriteString("\r")
	t.region = 0
}

// errWriter passes writes through until the first failure, then
// swallows everything and remembers the error. A dead destination must
// degrade rendering, never abort the run.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
	return len(p), nil
}
