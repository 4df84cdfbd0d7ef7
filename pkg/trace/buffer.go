package trace

import (
	"strings"

	"github.com/jsimmonds/robotrace/pkg/events"
)

// maxIndentDepth caps trace indentation so pathological nesting cannot
// push lines off the right edge of the terminal.
const maxIndentDepth = 20

// Line is one immutable rendering unit: indentation level plus the
// already-colorized text. Lines are owned by the buffer until flushed
// or discarded.
type Line struct {
	Depth int
	Text  string
}

// Buffer accumulates the trace lines of one top-level unit (a test, or
// the suite-scoped keywords around its tests) eagerly as events arrive.
// Whether the lines ever reach the output is decided only when the
// owning unit closes; Reset releases them either way, so memory is
// bounded to one unit's worth of lines.
type Buffer struct {
	name  string
	lines []Line
	depth int

	warned  bool
	errored bool
	failed  bool
}

// NewBuffer creates a buffer owned by the named unit.
func NewBuffer(name string) *Buffer {
	return &Buffer{name: name}
}

// Reset rebinds the buffer to a new owning unit and drops all state.
func (b *Buffer) Reset(name string) {
	b.name = name
	b.lines = nil
	b.depth = 0
	b.warned = false
	b.errored = false
	b.failed = false
}

// Name is the dotted path of the owning unit.
func (b *Buffer) Name() string {
	return b.name
}

// Enter records a call-entry line and deepens subsequent lines.
func (b *Buffer) Enter(text string) {
	b.lines = append(b.lines, Line{Depth: b.depth, Text: text})
	b.depth++
}

// Exit shallows the nesting and records the call's status line.
func (b *Buffer) Exit(text string) {
	if b.depth > 0 {
		b.depth--
	}
	b.lines = append(b.lines, Line{Depth: b.depth, Text: text})
}

// Log records message lines at the current nesting and tracks whether
// the unit saw warnings or errors, which feeds the flush policy.
func (b *Buffer) Log(level events.Level, lines []string) {
	switch level {
	case events.LevelWarn:
		b.warned = true
	case events.LevelError:
		b.errored = true
	case events.LevelFail:
		b.failed = true
	}
	for _, line := range lines {
		b.lines = append(b.lines, Line{Depth: b.depth, Text: line})
	}
}

// Empty reports whether nothing has been recorded since the last Reset.
func (b *Buffer) Empty() bool {
	return len(b.lines) == 0
}

// Warned reports whether any line logged at warning level.
func (b *Buffer) Warned() bool {
	return b.warned
}

// Errored reports whether any line logged at error level.
func (b *Buffer) Errored() bool {
	return b.errored
}

// Failed reports whether any line logged at fail level. A failure
// message is printable even when the unit's own outcome is pass.
func (b *Buffer) Failed() bool {
	return b.failed
}

// HasWarnOrError reports whether any descendant logged at warning,
// error or fail level.
func (b *Buffer) HasWarnOrError() bool {
	return b.warned || b.errored || b.failed
}

// Render materializes the buffered lines, indented by nesting depth.
func (b *Buffer) Render() []string {
	out := make([]string, 0, len(b.lines))
	for _, line := range b.lines {
		depth := line.Depth
		if depth > maxIndentDepth {
			depth = maxIndentDepth
		}
		out = append(out, strings.Repeat("  ", depth)+line.Text)
	}
	return out
}
