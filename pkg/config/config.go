// Package config builds the immutable render configuration for a run.
// Enum values are parsed strictly: an invalid verbosity, color mode,
// progress destination or width is a configuration fault reported before
// any event is processed, never silently defaulted.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is the display width used when the host does not pick one.
const DefaultWidth = 120

// Verbosity controls how much of the buffered trace is materialized.
type Verbosity int

const (
	Quiet Verbosity = iota
	Normal
	Debug
)

// String returns the uppercase name of the verbosity.
func (v Verbosity) String() string {
	switch v {
	case Quiet:
		return "QUIET"
	case Normal:
		return "NORMAL"
	case Debug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseVerbosity maps a name to a Verbosity, case-insensitively.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QUIET":
		return Quiet, nil
	case "NORMAL":
		return Normal, nil
	case "DEBUG":
		return Debug, nil
	default:
		return Normal, fmt.Errorf("invalid verbosity %q (want QUIET, NORMAL or DEBUG)", s)
	}
}

// ColorMode selects whether trace output is colorized.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorOn
	ColorANSI
	ColorOff
)

// ParseColorMode maps a name to a ColorMode, case-insensitively.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AUTO":
		return ColorAuto, nil
	case "ON":
		return ColorOn, nil
	case "ANSI":
		return ColorANSI, nil
	case "OFF":
		return ColorOff, nil
	default:
		return ColorOff, fmt.Errorf("invalid color mode %q (want AUTO, ON, ANSI or OFF)", s)
	}
}

// ProgressTarget selects where the progress box is drawn.
type ProgressTarget int

const (
	ProgressAuto ProgressTarget = iota
	ProgressStdout
	ProgressStderr
	ProgressNone
)

// ParseProgressTarget maps a name to a ProgressTarget, case-insensitively.
func ParseProgressTarget(s string) (ProgressTarget, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AUTO":
		return ProgressAuto, nil
	case "STDOUT":
		return ProgressStdout, nil
	case "STDERR":
		return ProgressStderr, nil
	case "NONE":
		return ProgressNone, nil
	default:
		return ProgressNone, fmt.Errorf("invalid progress destination %q (want AUTO, STDOUT, STDERR or NONE)", s)
	}
}

// Options are the raw configuration values as the host supplies them,
// typically straight from command-line flags.
type Options struct {
	Verbosity string
	Colors    string
	Progress  string
	Width     int
}

// Config is the resolved, immutable render configuration for one run.
type Config struct {
	Verbosity Verbosity
	// Colors is the resolved boolean: AUTO has already consulted the
	// terminal, so downstream policy never probes the environment.
	Colors bool
	// ProgressOut is nil when the progress box is disabled.
	ProgressOut io.Writer
	Width       int
}

// Build validates opts and resolves AUTO values against the process
// terminals. All faults are reported here, before any event arrives.
func Build(opts Options) (*Config, error) {
	verbosity, err := ParseVerbosity(opts.Verbosity)
	if err != nil {
		return nil, err
	}
	colorMode, err := ParseColorMode(opts.Colors)
	if err != nil {
		return nil, err
	}
	progress, err := ParseProgressTarget(opts.Progress)
	if err != nil {
		return nil, err
	}
	if opts.Width < 1 {
		return nil, fmt.Errorf("invalid display width %d (must be positive)", opts.Width)
	}

	cfg := &Config{
		Verbosity: verbosity,
		Width:     clampToTerminal(opts.Width),
	}

	switch colorMode {
	case ColorOn, ColorANSI:
		cfg.Colors = true
	case ColorOff:
		cfg.Colors = false
	default: // AUTO
		cfg.Colors = isatty.IsTerminal(os.Stdout.Fd())
	}

	switch progress {
	case ProgressStdout:
		cfg.ProgressOut = os.Stdout
	case ProgressStderr:
		cfg.ProgressOut = os.Stderr
	case ProgressNone:
		cfg.ProgressOut = nil
	default: // AUTO: prefer stdout, fall back to stderr, else disable
		if isatty.IsTerminal(os.Stdout.Fd()) {
			cfg.ProgressOut = os.Stdout
		} else if isatty.IsTerminal(os.Stderr.Fd()) {
			cfg.ProgressOut = os.Stderr
		}
	}

	return cfg, nil
}

// clampToTerminal caps the configured width at the real terminal width
// so the box border never wraps. Non-terminal stdout keeps the
// configured width unchanged.
func clampToTerminal(width int) int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols < 1 {
		return width
	}
	if cols < width {
		return cols
	}
	return width
}
