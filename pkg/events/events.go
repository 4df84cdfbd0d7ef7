// Package events defines the lifecycle event contract between a test
// runner and the trace listener: a closed set of ordered start/end/message
// variants describing a tree of suites, tests and keyword invocations.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies what a frame in the execution tree represents.
type Kind int

const (
	KindSuite Kind = iota
	KindTest
	KindKeyword
)

// String returns the lowercase wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuite:
		return "suite"
	case KindTest:
		return "test"
	case KindKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Outcome is the result of a completed (or still running) frame.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomePass
	OutcomeFail
	OutcomeSkip
	OutcomeNotRun
)

// String returns the lowercase wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	case OutcomeSkip:
		return "skip"
	case OutcomeNotRun:
		return "not-run"
	default:
		return "unknown"
	}
}

// Label returns the uppercase display form used in trace output,
// e.g. "PASS", "NOT RUN".
func (o Outcome) Label() string {
	if o == OutcomeNotRun {
		return "NOT RUN"
	}
	return strings.ToUpper(o.String())
}

// ParseOutcome maps a wire or display outcome name to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS":
		return OutcomePass, nil
	case "FAIL":
		return OutcomeFail, nil
	case "SKIP":
		return OutcomeSkip, nil
	case "NOT-RUN", "NOT RUN":
		return OutcomeNotRun, nil
	case "RUNNING":
		return OutcomeRunning, nil
	default:
		return OutcomeRunning, fmt.Errorf("unknown outcome %q (want pass, fail, skip or not-run)", s)
	}
}

// Level is the severity of a log message attached to a frame.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFail
)

// String returns the uppercase wire name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Initial returns the single-letter prefix used for trace log lines.
// Error and fail messages share the failure prefix F.
func (l Level) Initial() string {
	if l == LevelError || l == LevelFail {
		return "F"
	}
	return l.String()[:1]
}

// ParseLevel maps a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FAIL":
		return LevelFail, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Type discriminates the event variants.
type Type string

const (
	StartSuite   Type = "start_suite"
	EndSuite     Type = "end_suite"
	StartTest    Type = "start_test"
	EndTest      Type = "end_test"
	StartKeyword Type = "start_keyword"
	EndKeyword   Type = "end_keyword"
	Message      Type = "message"
)

// Keyword subtypes. Setup and teardown keywords are displayed with a
// distinct label but aggregate like any other keyword.
const (
	KeywordTypePlain    = "KEYWORD"
	KeywordTypeSetup    = "SETUP"
	KeywordTypeTeardown = "TEARDOWN"
)

// Event is one lifecycle notification. Only the fields relevant to the
// variant named by Type are populated; the zero values of the rest are
// omitted on the wire.
type Event struct {
	Type Type `json:"event"`

	// start_suite / start_test / start_keyword
	Name string   `json:"name,omitempty"`
	Args []string `json:"args,omitempty"`
	// KeywordType is KEYWORD, SETUP or TEARDOWN for start_keyword.
	KeywordType string `json:"keyword_type,omitempty"`
	// Planned totals, carried by the first start_suite of a run.
	TotalSuites int `json:"total_suites,omitempty"`
	TotalTests  int `json:"total_tests,omitempty"`

	// end_suite / end_test / end_keyword
	Outcome Outcome `json:"outcome,omitempty"`
	// ElapsedMS is the keyword duration reported by end_keyword.
	ElapsedMS int64 `json:"elapsed_ms,omitempty"`

	// message
	Level Level  `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`
}

// MarshalJSON writes outcomes by wire name rather than ordinal.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts either a wire name or a display label.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalJSON writes levels by name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts a level name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
