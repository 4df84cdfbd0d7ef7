package trace

import (
	"strings"
	"testing"

	"github.com/jsimmonds/robotrace/pkg/events"
)

func TestBufferIndentation(t *testing.T) {
	b := NewBuffer("S1.T1")
	b.Enter("▶ Outer()")
	b.Enter("▶ Inner()")
	b.Log(events.LevelInfo, []string{"I hello"})
	b.Exit("  ✓ PASS     0s")
	b.Exit("  ✓ PASS     1s")

	got := b.Render()
	want := []string{
		"▶ Outer()",
		"  ▶ Inner()",
		"    I hello",
		"    ✓ PASS     0s",
		"  ✓ PASS     1s",
	}
	if len(got) != len(want) {
		t.Fatalf("rendered %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBufferFlags(t *testing.T) {
	b := NewBuffer("T1")
	if b.HasWarnOrError() {
		t.Error("fresh buffer should have no warn/error")
	}
	b.Log(events.LevelWarn, []string{"W careful"})
	if !b.Warned() || b.Errored() {
		t.Error("warn flag should be set, error flag clear")
	}
	b.Log(events.LevelError, []string{"F broken"})
	if !b.HasWarnOrError() || !b.Errored() {
		t.Error("error flag should be set")
	}
}

func TestBufferFailMessageIsPrintable(t *testing.T) {
	b := NewBuffer("T1")
	b.Log(events.LevelFail, []string{"F assertion failed"})
	if !b.Failed() {
		t.Error("fail flag should be set")
	}
	if b.Warned() || b.Errored() {
		t.Error("fail message must not masquerade as a warning or error")
	}
	if !b.HasWarnOrError() {
		t.Error("fail message alone should make the buffer printable")
	}
}

func TestBufferResetReleasesEverything(t *testing.T) {
	b := NewBuffer("T1")
	b.Enter("▶ K()")
	b.Log(events.LevelError, []string{"F broken"})
	b.Reset("T2")

	if !b.Empty() || b.HasWarnOrError() || b.Name() != "T2" {
		t.Errorf("reset incomplete: empty=%v flags=%v name=%q",
			b.Empty(), b.HasWarnOrError(), b.Name())
	}
	if lines := b.Render(); len(lines) != 0 {
		t.Errorf("rendered %d lines after reset, want 0", len(lines))
	}
}

func TestBufferIndentCapped(t *testing.T) {
	b := NewBuffer("T1")
	for i := 0; i < 30; i++ {
		b.Enter("▶ K()")
	}
	b.Log(events.LevelInfo, []string{"I deep"})

	lines := b.Render()
	last := lines[len(lines)-1]
	indent := len(last) - len(strings.TrimLeft(last, " "))
	if indent != maxIndentDepth*2 {
		t.Errorf("deep line indent = %d, want capped at %d", indent, maxIndentDepth*2)
	}
}

func TestBufferExitNeverUnderflows(t *testing.T) {
	b := NewBuffer("T1")
	b.Exit("  ✓ PASS     0s")
	b.Exit("  ✓ PASS     0s")
	b.Enter("▶ K()")

	lines := b.Render()
	if lines[2] != "▶ K()" {
		t.Errorf("entry after underflow = %q, want unindented", lines[2])
	}
}
