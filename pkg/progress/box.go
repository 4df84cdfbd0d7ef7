// Package progress renders the fixed-size status box — current suite,
// current test with elapsed/ETA, current call — and estimates remaining
// run time from recently completed test durations.
package progress

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jsimmonds/robotrace/pkg/console"
)

// contentLines is the number of text lines inside the box borders.
const contentLines = 3

// Box line indices.
const (
	LineSuite   = 0
	LineTest    = 1
	LineKeyword = 2
)

// minBarWidth is the narrowest display that still fits the completion
// bar in the top border.
const minBarWidth = 40

// minBoxWidth is the narrowest display the borders and padding can
// render in. Below it the box is disabled; the trace stream still
// works at any positive width.
const minBoxWidth = 10

// Box maintains the fixed-height bordered region. Every redraw
// replaces the whole region in place through the sink, so the box never
// scrolls the trace stream. A write failure disables the box for the
// remainder of the run; a nil sink makes every operation a no-op.
type Box struct {
	sink      console.Sink
	width     int
	lines     [contentLines]string
	total     int
	completed int
	disabled  bool
}

// NewBox creates a box of the given display width drawing to sink.
// A nil sink or a width too narrow for the borders disables the box
// entirely.
func NewBox(sink console.Sink, width int) *Box {
	return &Box{
		sink:     sink,
		width:    width,
		disabled: sink == nil || width < minBoxWidth,
	}
}

// Enabled reports whether the box is still drawing.
func (b *Box) Enabled() bool {
	return !b.disabled
}

// SetTotal records the planned task count shown by the completion bar.
func (b *Box) SetTotal(n int) {
	if n > 0 {
		b.total = n
	}
}

// Completed records the number of finished tasks.
func (b *Box) Completed(n int) {
	if n >= 0 {
		b.completed = n
	}
}

// SetLine formats and stores one content line. Right text takes
// priority; left text is truncated with an ellipsis marker when the
// two cannot share the width.
func (b *Box) SetLine(i int, left, right string) {
	if i < 0 || i >= contentLines {
		return
	}
	b.lines[i] = composeLine(left, right, b.width-4)
}

// ClearLine blanks one content line.
func (b *Box) ClearLine(i int) {
	if i < 0 || i >= contentLines {
		return
	}
	b.lines[i] = ""
}

// Redraw replaces the drawn region with the current content. The box
// disables itself on the first sink failure rather than aborting.
func (b *Box) Redraw() {
	if b.disabled {
		return
	}
	if err := b.sink.DrawRegion(b.render()); err != nil {
		b.disabled = true
	}
}

// Retract clears the drawn region so trace output can be written
// beneath it.
func (b *Box) Retract() {
	if b.disabled {
		return
	}
	if err := b.sink.RetractRegion(); err != nil {
		b.disabled = true
	}
}

// render computes the full region: top border (with completion bar when
// the planned total is known and the box is wide enough), three content
// lines padded so the right border stays aligned, bottom border.
func (b *Box) render() []string {
	region := make([]string, 0, contentLines+2)
	region = append(region, b.topBorder())

	textWidth := b.width - 4
	for _, line := range b.lines {
		region = append(region, "│ "+runewidth.FillRight(line, textWidth)+" │")
	}

	region = append(region, "└"+strings.Repeat("─", b.width-2)+"┘")
	return region
}

func (b *Box) topBorder() string {
	if b.total <= 0 || b.width < minBarWidth {
		return "┌" + strings.Repeat("─", b.width-2) + "┐"
	}
	barLen := b.width - 20
	done := b.completed * barLen / b.total
	if done > barLen {
		done = barLen
	}
	return "┌" + strings.Repeat("─", 8) + "┤" +
		strings.Repeat("█", done) + strings.Repeat("░", barLen-done) +
		"├" + strings.Repeat("─", 8) + "┐"
}

// composeLine fits left and right text into textWidth columns,
// rune-width aware.
func composeLine(left, right string, textWidth int) string {
	if textWidth < 1 {
		return ""
	}
	rightLen := runewidth.StringWidth(right)
	maxLeft := textWidth
	if rightLen > 0 {
		maxLeft = textWidth - rightLen - 1
	}
	if maxLeft < 0 {
		maxLeft = 0
	}
	if runewidth.StringWidth(left) > maxLeft {
		if maxLeft >= 3 {
			left = runewidth.Truncate(left, maxLeft, "...")
		} else {
			left = runewidth.Truncate(left, maxLeft, "")
		}
	}
	padding := textWidth - runewidth.StringWidth(left) - rightLen
	if padding < 0 {
		padding = 0
	}
	if rightLen == 0 {
		return left
	}
	return left + strings.Repeat(" ", padding) + right
}
