package progress

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, " 0s"},
		{45 * time.Second, "45s"},
		{125 * time.Second, " 2m  5s"},
		{3665 * time.Second, " 1h  1m  5s"},
		{1499 * time.Millisecond, " 1s"},
		{-3 * time.Second, " 0s"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.d); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	if got := FormatETA(0, false); got != "unknown" {
		t.Errorf("FormatETA(_, false) = %q, want unknown", got)
	}
	if got := FormatETA(90*time.Second, true); got != " 1m 30s" {
		t.Errorf("FormatETA(90s, true) = %q, want %q", got, " 1m 30s")
	}
}
