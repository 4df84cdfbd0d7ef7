package progress

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/jsimmonds/robotrace/pkg/console"
)

func TestBoxLinesNeverExceedWidth(t *testing.T) {
	for _, width := range []int{40, 120, 200} {
		rec := &console.Recorder{}
		box := NewBox(rec, width)
		box.SetTotal(10)
		box.Completed(3)
		box.SetLine(LineSuite, "[SUITE  1/ 2] "+strings.Repeat("Very.Long.Suite.Path.", 20), "")
		box.SetLine(LineTest, "[TEST  3/10] Some Test", "(elapsed 12s, ETA 40s)")
		box.SetLine(LineKeyword, "[Keyword]  ('arg')", "")
		box.Redraw()

		region := rec.LastRegion()
		if len(region) != 5 {
			t.Fatalf("width %d: region has %d lines, want 5", width, len(region))
		}
		for i, line := range region {
			if got := runewidth.StringWidth(line); got != width {
				t.Errorf("width %d: line %d is %d columns (%q)", width, i, got, line)
			}
		}
	}
}

func TestBoxBordersAligned(t *testing.T) {
	rec := &console.Recorder{}
	box := NewBox(rec, 60)
	box.SetLine(LineTest, "short", "")
	box.Redraw()

	region := rec.LastRegion()
	for i := 1; i <= 3; i++ {
		if !strings.HasPrefix(region[i], "│ ") || !strings.HasSuffix(region[i], " │") {
			t.Errorf("content line %d = %q, want │-bordered", i, region[i])
		}
	}
	if !strings.HasPrefix(region[0], "┌") || !strings.HasSuffix(region[0], "┐") {
		t.Errorf("top border = %q", region[0])
	}
	if !strings.HasPrefix(region[4], "└") || !strings.HasSuffix(region[4], "┘") {
		t.Errorf("bottom border = %q", region[4])
	}
}

func TestBoxProgressBarInTopBorder(t *testing.T) {
	rec := &console.Recorder{}
	box := NewBox(rec, 120)
	box.SetTotal(10)
	box.Completed(5)
	box.Redraw()

	top := rec.LastRegion()[0]
	if !strings.Contains(top, "┤") || !strings.Contains(top, "├") {
		t.Fatalf("top border missing bar delimiters: %q", top)
	}
	filled := strings.Count(top, "█")
	empty := strings.Count(top, "░")
	if filled+empty != 100 {
		t.Errorf("bar is %d cells, want width-20 = 100", filled+empty)
	}
	if filled != 50 {
		t.Errorf("bar filled = %d cells, want 50 at half completion", filled)
	}
}

func TestBoxNoBarWhenNarrowOrUnknownTotal(t *testing.T) {
	rec := &console.Recorder{}
	box := NewBox(rec, 39)
	box.SetTotal(10)
	box.Redraw()
	if strings.Contains(rec.LastRegion()[0], "█") {
		t.Error("bar should be suppressed below the minimum width")
	}

	rec = &console.Recorder{}
	box = NewBox(rec, 120)
	box.Redraw()
	if strings.Contains(rec.LastRegion()[0], "┤") {
		t.Error("bar should be suppressed while the total is unknown")
	}
}

func TestBoxTruncatesWithEllipsis(t *testing.T) {
	rec := &console.Recorder{}
	box := NewBox(rec, 40)
	long := strings.Repeat("abcdef", 20)
	box.SetLine(LineSuite, long, "")
	box.Redraw()

	line := rec.LastRegion()[1]
	if !strings.Contains(line, "...") {
		t.Errorf("long name not truncated with ellipsis: %q", line)
	}
	if runewidth.StringWidth(line) != 40 {
		t.Errorf("truncated line is %d columns, want 40", runewidth.StringWidth(line))
	}
}

func TestBoxRightTextTakesPriority(t *testing.T) {
	got := composeLine(strings.Repeat("x", 100), "(elapsed 5s)", 50)
	if !strings.HasSuffix(got, "(elapsed 5s)") {
		t.Errorf("right text lost: %q", got)
	}
	if runewidth.StringWidth(got) != 50 {
		t.Errorf("composed width = %d, want 50", runewidth.StringWidth(got))
	}
}

func TestBoxDisablesItselfOnSinkFailure(t *testing.T) {
	rec := &console.Recorder{Err: errors.New("broken pipe")}
	box := NewBox(rec, 80)
	box.Redraw()
	if box.Enabled() {
		t.Fatal("box should disable itself after a write failure")
	}

	calls := len(rec.Calls)
	box.Redraw()
	box.Retract()
	if len(rec.Calls) != calls {
		t.Error("disabled box must not touch the sink again")
	}
}

func TestBoxDisabledAtDegenerateWidths(t *testing.T) {
	for _, width := range []int{1, 2, 4, 9} {
		rec := &console.Recorder{}
		box := NewBox(rec, width)
		if box.Enabled() {
			t.Errorf("width %d: box should be disabled", width)
		}
		box.SetTotal(10)
		box.SetLine(LineTest, "T1", "")
		box.Redraw()
		box.Retract()
		if len(rec.Calls) != 0 {
			t.Errorf("width %d: disabled box touched the sink: %v", width, rec.Calls)
		}
	}

	if !NewBox(&console.Recorder{}, minBoxWidth).Enabled() {
		t.Errorf("width %d: box should be enabled at the floor", minBoxWidth)
	}
}

func TestBoxNilSinkIsNoOp(t *testing.T) {
	box := NewBox(nil, 80)
	if box.Enabled() {
		t.Fatal("nil sink should disable the box")
	}
	box.SetLine(LineTest, "x", "")
	box.Redraw()
	box.Retract()
}
