package trace

import (
	"fmt"
	"strings"

	"github.com/jsimmonds/robotrace/pkg/events"
)

// Totals holds the monotonically increasing run counters: suites and
// tests started and completed, outcomes by category, and which units
// logged warnings or errors. Counters are never decremented; not-run
// tests never count as completed.
type Totals struct {
	PlannedSuites int
	PlannedTests  int

	StartedSuites   int
	CompletedSuites int
	StartedTests    int
	CompletedTests  int

	Passed  int
	Failed  int
	Skipped int

	CurrentSuite string
	CurrentTest  string

	failedTests []string
	warnings    map[string][]string
	errors      map[string][]string
	warnOrder   []string
	errOrder    []string
}

// NewTotals creates zeroed counters.
func NewTotals() *Totals {
	return &Totals{
		warnings: make(map[string][]string),
		errors:   make(map[string][]string),
	}
}

// StartSuite records a suite opening. The first suite of a run carries
// the planned totals; later values never overwrite them.
func (t *Totals) StartSuite(path string, plannedSuites, plannedTests int) {
	t.CurrentSuite = path
	t.StartedSuites++
	if t.PlannedSuites == 0 && plannedSuites > 0 {
		t.PlannedSuites = plannedSuites
	}
	if t.PlannedTests == 0 && plannedTests > 0 {
		t.PlannedTests = plannedTests
	}
}

// EndSuite records a suite closing.
func (t *Totals) EndSuite() {
	t.CurrentSuite = ""
	t.CompletedSuites++
}

// StartTest records a test opening.
func (t *Totals) StartTest(path string) {
	t.CurrentTest = path
	t.StartedTests++
}

// EndTest records a test closing with its outcome.
func (t *Totals) EndTest(path string, outcome events.Outcome) {
	t.CurrentTest = ""
	if outcome == events.OutcomeNotRun {
		return
	}
	t.CompletedTests++
	switch outcome {
	case events.OutcomePass:
		t.Passed++
	case events.OutcomeFail:
		t.Failed++
		t.failedTests = append(t.failedTests, path)
	case events.OutcomeSkip:
		t.Skipped++
	}
}

// LogWarning attributes a warning to the current test, or to the
// current suite when logged outside any test.
func (t *Totals) LogWarning(text string) {
	unit := t.currentUnit()
	if _, seen := t.warnings[unit]; !seen {
		t.warnOrder = append(t.warnOrder, unit)
	}
	t.warnings[unit] = append(t.warnings[unit], text)
}

// LogError attributes an error to the current test or suite.
func (t *Totals) LogError(text string) {
	unit := t.currentUnit()
	if _, seen := t.errors[unit]; !seen {
		t.errOrder = append(t.errOrder, unit)
	}
	t.errors[unit] = append(t.errors[unit], text)
}

func (t *Totals) currentUnit() string {
	if t.CurrentTest != "" {
		return t.CurrentTest
	}
	return t.CurrentSuite
}

// Remaining is the planned-minus-completed test count, never negative.
func (t *Totals) Remaining() int {
	r := t.PlannedTests - t.CompletedTests
	if r < 0 {
		return 0
	}
	return r
}

// SuiteProgress renders the suite index for the progress box.
func (t *Totals) SuiteProgress() string {
	if t.PlannedSuites > 0 {
		return fmt.Sprintf("%2d/%2d", t.StartedSuites, t.PlannedSuites)
	}
	return fmt.Sprintf("%2d", t.StartedSuites)
}

// TestProgress renders the test index for the progress box.
func (t *Totals) TestProgress() string {
	return fmt.Sprintf("%2d/%2d", t.StartedTests, t.PlannedTests)
}

// FailedTests returns the dotted paths of failed tests in completion
// order.
func (t *Totals) FailedTests() []string {
	return t.failedTests
}

// Summary renders the one-line run summary.
func (t *Totals) Summary() string {
	summary := fmt.Sprintf("%d test%s, %d completed (%d passed, %d skipped, %d failed).",
		t.PlannedTests, plural(t.PlannedTests),
		t.CompletedTests, t.Passed, t.Skipped, t.Failed)
	if len(t.errors) > 0 {
		summary += fmt.Sprintf(" %d test%s raised errors.", len(t.errors), plural(len(t.errors)))
	}
	if len(t.warnings) > 0 {
		summary += fmt.Sprintf(" %d test%s raised warnings.", len(t.warnings), plural(len(t.warnings)))
	}
	return summary
}

// Results renders the failing/erroring/warning test lists, or the
// empty string when there is nothing to report.
func (t *Totals) Results() string {
	var b strings.Builder
	if len(t.failedTests) > 0 {
		fmt.Fprintf(&b, "Failing test%s:\n", plural(len(t.failedTests)))
		for _, name := range t.failedTests {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	if len(t.errOrder) > 0 {
		fmt.Fprintf(&b, "Erroring test%s:\n", plural(len(t.errOrder)))
		for _, unit := range t.errOrder {
			fmt.Fprintf(&b, "- %s:\n", unit)
			for _, msg := range t.errors[unit] {
				fmt.Fprintf(&b, "  - %s\n", msg)
			}
		}
	}
	if len(t.warnOrder) > 0 {
		fmt.Fprintf(&b, "Warning test%s:\n", plural(len(t.warnOrder)))
		for _, unit := range t.warnOrder {
			fmt.Fprintf(&b, "- %s:\n", unit)
			for _, msg := range t.warnings[unit] {
				fmt.Fprintf(&b, "  - %s\n", msg)
			}
		}
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
