package trace

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsimmonds/robotrace/pkg/events"
)

// KeywordEntry renders a call-entry line: "▶ Name('arg1', 'arg2')".
// Setup and teardown calls carry their type label so they stand out
// from plain keywords.
func KeywordEntry(name, keywordType string, args []string) string {
	display := name
	if keywordType != "" && keywordType != events.KeywordTypePlain {
		if display != "" {
			display = keywordType + "    " + display
		} else {
			display = keywordType
		}
	}

	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "'" + a + "'"
	}
	return GlyphEntry + " " + display + "(" + strings.Join(quoted, ", ") + ")"
}

// KeywordStatus renders a call's completion line, e.g. "  ✓ PASS    3s".
func KeywordStatus(pal *Palette, outcome events.Outcome, elapsed string) string {
	var glyph string
	switch outcome {
	case events.OutcomePass:
		glyph = GlyphPass
	case events.OutcomeFail:
		glyph = GlyphFail
	case events.OutcomeSkip:
		glyph = GlyphSkip
	case events.OutcomeNotRun:
		glyph = GlyphNotRun
	default:
		glyph = "?"
	}
	status := pal.Outcome(outcome).Render(glyph + " " + outcome.Label())
	return "  " + status + "    " + elapsed
}

// MessageLines renders a log message as one or more trace lines. The
// first line carries the level initial; continuations are indented
// under it. Every line is colorized by level.
func MessageLines(pal *Palette, level events.Level, text string) []string {
	style := pal.Level(level)
	parts := strings.Split(strings.TrimRight(text, "\n"), "\n")
	lines := make([]string, 0, len(parts))
	lines = append(lines, style.Render(level.Initial()+" "+parts[0]))
	for _, part := range parts[1:] {
		lines = append(lines, style.Render("  "+part))
	}
	return lines
}

// Banner renders the flush header: the closed unit's status and dotted
// path, underlined by a rule of ═ characters matching the header's
// printable length (capped at the display width).
func Banner(pal *Palette, kind events.Kind, outcome events.Outcome, warned, errored bool, name string, width int) []string {
	label := "TEST"
	if kind == events.KindSuite {
		label = "SUITE"
	}

	status := label + " " + outcomePastTense(outcome)
	if errored {
		status += " WITH ERRORS"
	}
	if warned {
		status += " WITH WARNINGS"
	}

	header := pal.banner(outcome, warned, errored).Render(status) + ": " + name
	ruleLen := lipgloss.Width(header)
	if width > 0 && ruleLen > width {
		ruleLen = width
	}
	return []string{header, strings.Repeat("═", ruleLen)}
}

// outcomePastTense renders the outcome label in past tense for banner
// text: PASSED, FAILED, SKIPPED. NOT RUN stays as is.
func outcomePastTense(o events.Outcome) string {
	if o == events.OutcomeNotRun {
		return o.Label()
	}
	return pastTense(o.Label())
}

// pastTense converts a verb to past tense, preserving its case.
func pastTense(verb string) string {
	isUpper := verb == strings.ToUpper(verb)
	isTitle := len(verb) > 0 && unicode.IsUpper(rune(verb[0])) && !isUpper

	v := strings.ToLower(verb)
	var res string
	switch {
	case strings.HasSuffix(v, "e"):
		res = v + "d"
	case strings.HasSuffix(v, "y"):
		res = v[:len(v)-1] + "ied"
	case strings.HasSuffix(v, "p"):
		res = v + "ped"
	default:
		res = v + "ed"
	}

	switch {
	case isUpper:
		return strings.ToUpper(res)
	case isTitle:
		return strings.ToUpper(res[:1]) + res[1:]
	default:
		return res
	}
}
