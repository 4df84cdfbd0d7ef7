package trace

import (
	"github.com/jsimmonds/robotrace/pkg/config"
	"github.com/jsimmonds/robotrace/pkg/events"
)

// ShouldFlush decides whether a completed unit's buffered trace is
// written to output:
//
//	DEBUG   flush unconditionally
//	NORMAL  flush on failure, or on pass when a descendant logged at
//	        warning or error level
//	QUIET   flush only on failure
//
// Pure function of its inputs; terminal state never participates.
func ShouldFlush(outcome events.Outcome, hasWarnOrError bool, verbosity config.Verbosity) bool {
	switch verbosity {
	case config.Debug:
		return true
	case config.Normal:
		return outcome == events.OutcomeFail || hasWarnOrError
	default: // QUIET
		return outcome == events.OutcomeFail
	}
}
