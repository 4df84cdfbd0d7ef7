package config

import (
	"strings"
	"testing"
)

func TestParseVerbosity(t *testing.T) {
	cases := []struct {
		in   string
		want Verbosity
		err  bool
	}{
		{"quiet", Quiet, false},
		{"NORMAL", Normal, false},
		{"DeBuG", Debug, false},
		{" debug ", Debug, false},
		{"invalid", Normal, true},
		{"", Normal, true},
	}
	for _, c := range cases {
		got, err := ParseVerbosity(c.in)
		if (err != nil) != c.err {
			t.Errorf("ParseVerbosity(%q) error = %v, want error %v", c.in, err, c.err)
			continue
		}
		if !c.err && got != c.want {
			t.Errorf("ParseVerbosity(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestVerbosityOrdering(t *testing.T) {
	if !(Quiet < Normal && Normal < Debug) {
		t.Fatal("verbosity levels must order QUIET < NORMAL < DEBUG")
	}
}

func TestParseColorMode(t *testing.T) {
	for _, in := range []string{"AUTO", "on", "Ansi", "OFF"} {
		if _, err := ParseColorMode(in); err != nil {
			t.Errorf("ParseColorMode(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseColorMode("rainbow"); err == nil {
		t.Error("ParseColorMode(rainbow) should fail")
	}
}

func TestParseProgressTarget(t *testing.T) {
	for _, in := range []string{"auto", "STDOUT", "stderr", "NONE"} {
		if _, err := ParseProgressTarget(in); err != nil {
			t.Errorf("ParseProgressTarget(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseProgressTarget("SOCKET"); err == nil {
		t.Error("ParseProgressTarget(SOCKET) should fail")
	}
}

func TestBuildRejectsInvalidEnums(t *testing.T) {
	cases := []Options{
		{Verbosity: "LOUD", Colors: "OFF", Progress: "NONE", Width: 120},
		{Verbosity: "NORMAL", Colors: "MAYBE", Progress: "NONE", Width: 120},
		{Verbosity: "NORMAL", Colors: "OFF", Progress: "SOCKET", Width: 120},
		{Verbosity: "NORMAL", Colors: "OFF", Progress: "NONE", Width: 0},
		{Verbosity: "NORMAL", Colors: "OFF", Progress: "NONE", Width: -5},
	}
	for _, opts := range cases {
		if _, err := Build(opts); err == nil {
			t.Errorf("Build(%+v) should fail", opts)
		}
	}
}

func TestBuildExplicitValues(t *testing.T) {
	cfg, err := Build(Options{Verbosity: "QUIET", Colors: "ON", Progress: "NONE", Width: 80})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Verbosity != Quiet {
		t.Errorf("verbosity = %v, want QUIET", cfg.Verbosity)
	}
	if !cfg.Colors {
		t.Error("colors should be on")
	}
	if cfg.ProgressOut != nil {
		t.Error("progress destination NONE should resolve to nil writer")
	}
	if cfg.Width > 80 {
		t.Errorf("width = %d, want at most the configured 80", cfg.Width)
	}
}

func TestBuildErrorIsDescriptive(t *testing.T) {
	_, err := Build(Options{Verbosity: "LOUD", Colors: "OFF", Progress: "NONE", Width: 120})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "LOUD") {
		t.Errorf("error should name the bad value: %v", err)
	}
}
