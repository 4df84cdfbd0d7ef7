package progress

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration in the trace's h/m/s style,
// rounded to whole seconds: "45s", " 2m  5s", " 1h  1m  5s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	m, s := total/60, total%60
	h, m := m/60, m%60
	switch {
	case h > 0:
		return fmt.Sprintf("%2dh %2dm %2ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%2dm %2ds", m, s)
	default:
		return fmt.Sprintf("%2ds", s)
	}
}

// FormatETA renders an estimate, or "unknown" when none exists yet.
func FormatETA(d time.Duration, ok bool) string {
	if !ok {
		return "unknown"
	}
	return FormatDuration(d)
}
