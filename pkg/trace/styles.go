// Package trace tracks the live nesting of suite/test/keyword frames,
// buffers their rendered trace lines per top-level unit, and decides at
// unit completion whether the buffer is materialized to output.
package trace

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jsimmonds/robotrace/pkg/events"
)

// Trace glyphs — convey meaning without relying on color alone.
const (
	GlyphEntry  = "▶"
	GlyphPass   = "✓"
	GlyphFail   = "✗"
	GlyphSkip   = "→"
	GlyphNotRun = "⊘"
)

// Palette maps outcomes and log levels to a fixed set of styles. The
// styles are bound to a renderer with an explicit termenv profile, so
// the color decision is made once from configuration: with colors off
// every style renders plain text, whatever the terminal claims.
type Palette struct {
	pass   lipgloss.Style
	fail   lipgloss.Style
	skip   lipgloss.Style
	notRun lipgloss.Style

	info  lipgloss.Style
	warn  lipgloss.Style
	error lipgloss.Style
	debug lipgloss.Style

	bannerPass lipgloss.Style
	bannerFail lipgloss.Style
	bannerSkip lipgloss.Style
	bannerWarn lipgloss.Style

	none lipgloss.Style
}

// NewPalette builds the palette. colors selects between the ANSI and
// plain-text termenv profiles.
func NewPalette(colors bool) *Palette {
	profile := termenv.Ascii
	if colors {
		profile = termenv.ANSI
	}
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))

	return &Palette{
		pass:   r.NewStyle().Foreground(lipgloss.Color("10")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("9")),
		skip:   r.NewStyle().Foreground(lipgloss.Color("3")),
		notRun: r.NewStyle().Foreground(lipgloss.Color("8")),

		info:  r.NewStyle().Foreground(lipgloss.Color("8")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")),
		error: r.NewStyle().Foreground(lipgloss.Color("9")),
		debug: r.NewStyle().Foreground(lipgloss.Color("7")),

		bannerPass: r.NewStyle().Foreground(lipgloss.Color("2")),
		bannerFail: r.NewStyle().Foreground(lipgloss.Color("1")),
		bannerSkip: r.NewStyle().Foreground(lipgloss.Color("3")),
		bannerWarn: r.NewStyle().Foreground(lipgloss.Color("11")),

		none: r.NewStyle(),
	}
}

// Outcome returns the style for a frame outcome.
func (p *Palette) Outcome(o events.Outcome) lipgloss.Style {
	switch o {
	case events.OutcomePass:
		return p.pass
	case events.OutcomeFail:
		return p.fail
	case events.OutcomeSkip:
		return p.skip
	case events.OutcomeNotRun:
		return p.notRun
	default:
		return p.none
	}
}

// Level returns the style for a log message level.
func (p *Palette) Level(l events.Level) lipgloss.Style {
	switch l {
	case events.LevelError, events.LevelFail:
		return p.error
	case events.LevelWarn:
		return p.warn
	case events.LevelInfo:
		return p.info
	case events.LevelDebug, events.LevelTrace:
		return p.debug
	default:
		return p.none
	}
}

// banner returns the style for a flush header given the closed unit's
// aggregate state. Errors dominate warnings, which dominate the outcome.
func (p *Palette) banner(outcome events.Outcome, warned, errored bool) lipgloss.Style {
	switch {
	case errored, outcome == events.OutcomeFail:
		return p.bannerFail
	case warned:
		return p.bannerWarn
	case outcome == events.OutcomeSkip:
		return p.bannerSkip
	case outcome == events.OutcomePass:
		return p.bannerPass
	default:
		return p.none
	}
}
