package listener

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest records the metadata of a rendered run. Written as YAML on
// request after the run completes; it complements, not replaces, the
// runner's own persisted report.
type Manifest struct {
	RunID      string       `yaml:"run_id"`
	StartedAt  string       `yaml:"started_at,omitempty"`
	EndedAt    string       `yaml:"ended_at"`
	Verbosity  string       `yaml:"verbosity"`
	Tests      TestsSummary `yaml:"tests"`
	Failing    []string     `yaml:"failing,omitempty"`
	Violations int          `yaml:"protocol_violations,omitempty"`
}

// TestsSummary counts test results by category.
type TestsSummary struct {
	Planned   int `yaml:"planned"`
	Completed int `yaml:"completed"`
	Passed    int `yaml:"passed"`
	Failed    int `yaml:"failed"`
	Skipped   int `yaml:"skipped"`
}

// Manifest builds the manifest for the current run state.
func (l *Listener) Manifest() *Manifest {
	m := &Manifest{
		RunID:      l.runID,
		EndedAt:    time.Now().Format(time.RFC3339),
		Verbosity:  l.cfg.Verbosity.String(),
		Failing:    l.totals.FailedTests(),
		Violations: l.tracker.Violations(),
		Tests: TestsSummary{
			Planned:   l.totals.PlannedTests,
			Completed: l.totals.CompletedTests,
			Passed:    l.totals.Passed,
			Failed:    l.totals.Failed,
			Skipped:   l.totals.Skipped,
		},
	}
	if !l.runStart.IsZero() {
		m.StartedAt = l.runStart.Format(time.RFC3339)
	}
	return m
}

// WriteManifest writes the run manifest as YAML to path.
func (l *Listener) WriteManifest(path string) error {
	data, err := yaml.Marshal(l.Manifest())
	if err != nil {
		return fmt.Errorf("marshal run manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write run manifest: %w", err)
	}
	return nil
}
