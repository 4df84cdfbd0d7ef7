package trace

import (
	"testing"

	"github.com/jsimmonds/robotrace/pkg/config"
	"github.com/jsimmonds/robotrace/pkg/events"
)

func TestShouldFlushTable(t *testing.T) {
	cases := []struct {
		name      string
		outcome   events.Outcome
		warnOrErr bool
		verbosity config.Verbosity
		want      bool
	}{
		{"debug flushes pass", events.OutcomePass, false, config.Debug, true},
		{"debug flushes fail", events.OutcomeFail, false, config.Debug, true},
		{"debug flushes skip", events.OutcomeSkip, false, config.Debug, true},

		{"normal flushes fail", events.OutcomeFail, false, config.Normal, true},
		{"normal flushes pass with warnings", events.OutcomePass, true, config.Normal, true},
		{"normal suppresses clean pass", events.OutcomePass, false, config.Normal, false},
		{"normal suppresses clean skip", events.OutcomeSkip, false, config.Normal, false},

		{"quiet flushes fail", events.OutcomeFail, false, config.Quiet, true},
		{"quiet suppresses pass with warnings", events.OutcomePass, true, config.Quiet, false},
		{"quiet suppresses clean pass", events.OutcomePass, false, config.Quiet, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ShouldFlush(c.outcome, c.warnOrErr, c.verbosity)
			if got != c.want {
				t.Errorf("ShouldFlush(%v, %v, %v) = %v, want %v",
					c.outcome, c.warnOrErr, c.verbosity, got, c.want)
			}
		})
	}
}

func TestColorsOffRendersPlainText(t *testing.T) {
	pal := NewPalette(false)
	for _, o := range []events.Outcome{events.OutcomePass, events.OutcomeFail, events.OutcomeSkip, events.OutcomeNotRun} {
		if got := pal.Outcome(o).Render("x"); got != "x" {
			t.Errorf("color-off render of %v = %q, want plain x", o, got)
		}
	}
	for _, l := range []events.Level{events.LevelInfo, events.LevelWarn, events.LevelError, events.LevelDebug} {
		if got := pal.Level(l).Render("x"); got != "x" {
			t.Errorf("color-off render of %v = %q, want plain x", l, got)
		}
	}
}

func TestColorsOnEmitsEscapes(t *testing.T) {
	pal := NewPalette(true)
	if got := pal.Outcome(events.OutcomeFail).Render("FAIL"); got == "FAIL" {
		t.Error("color-on render of fail should carry escape codes")
	}
}
