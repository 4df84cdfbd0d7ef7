// Package listener wires the execution tracker, trace buffers and
// progress box into one consumer of runner lifecycle events. It is the
// single place that coordinates terminal output: a trace flush always
// retracts the box first and redraws it after, and the redraw ticker
// shares the same mutual-exclusion boundary, so the two views never
// interleave mid-line.
package listener

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jsimmonds/robotrace/pkg/config"
	"github.com/jsimmonds/robotrace/pkg/console"
	"github.com/jsimmonds/robotrace/pkg/events"
	"github.com/jsimmonds/robotrace/pkg/progress"
	"github.com/jsimmonds/robotrace/pkg/trace"
)

// redrawInterval drives the timer-tick redraw so elapsed/ETA keep
// advancing during a long-running call that emits no events.
const redrawInterval = time.Second

// GenerateRunID creates a run ID in format YYYYMMDDTHHmmss-xxxxxxxx.
func GenerateRunID() string {
	ts := time.Now().Format("20060102T150405")
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%s-%x", ts, suffix)
}

// Listener consumes ordered lifecycle events from a test runner and
// renders the live trace and progress box. Event consumption is
// single-threaded; the redraw ticker is the only concurrent activity
// and synchronizes through the listener's mutex.
type Listener struct {
	cfg *config.Config
	pal *trace.Palette

	// mu guards the sinks, the box state and the snapshot fields the
	// ticker reads. Event bookkeeping and rendering computation happen
	// on the single event goroutine; the lock is about terminal writes.
	mu     sync.Mutex
	out    console.Sink
	box    *progress.Box
	closed bool

	tracker  *trace.Tracker
	totals   *trace.Totals
	testBuf  *trace.Buffer
	suiteBuf *trace.Buffer
	eta      *progress.Estimator

	runID     string
	runStart  time.Time
	suitePath []string

	// Current test line content, re-rendered by ticker ticks.
	testLabel string

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a listener rendering the trace to traceOut and the
// progress box to the destination resolved in cfg.
func New(cfg *config.Config, traceOut io.Writer) *Listener {
	var boxSink console.Sink
	if cfg.ProgressOut != nil {
		boxSink = console.NewTerminal(cfg.ProgressOut)
	}
	return NewWithSinks(cfg, console.NewTerminal(traceOut), boxSink)
}

// NewWithSinks creates a listener over explicit sinks. Tests use this
// with recording sinks; a nil boxSink disables the progress box.
func NewWithSinks(cfg *config.Config, traceSink, boxSink console.Sink) *Listener {
	l := &Listener{
		cfg:      cfg,
		pal:      trace.NewPalette(cfg.Colors),
		out:      traceSink,
		box:      progress.NewBox(boxSink, cfg.Width),
		tracker:  trace.NewTracker(),
		totals:   trace.NewTotals(),
		testBuf:  trace.NewBuffer(""),
		suiteBuf: trace.NewBuffer(""),
		eta:      progress.NewEstimator(progress.DefaultWindow),
		runID:    GenerateRunID(),
		done:     make(chan struct{}),
	}
	if l.box.Enabled() {
		l.mu.Lock()
		l.box.Redraw()
		l.mu.Unlock()
		go l.tickLoop()
	}
	return l
}

// RunID identifies this run in the manifest.
func (l *Listener) RunID() string {
	return l.runID
}

// Totals exposes the run counters, e.g. for exit-code computation.
func (l *Listener) Totals() *trace.Totals {
	return l.totals
}

// Dispatch routes one event to its handler. The event set is closed;
// unknown types are absorbed as protocol violations.
func (l *Listener) Dispatch(ev events.Event) {
	switch ev.Type {
	case events.StartSuite:
		l.StartSuite(ev.Name, ev.TotalSuites, ev.TotalTests)
	case events.EndSuite:
		l.EndSuite(ev.Outcome)
	case events.StartTest:
		l.StartTest(ev.Name)
	case events.EndTest:
		l.EndTest(ev.Outcome)
	case events.StartKeyword:
		l.StartKeyword(ev.Name, ev.Args, ev.KeywordType)
	case events.EndKeyword:
		l.EndKeyword(ev.Outcome, time.Duration(ev.ElapsedMS)*time.Millisecond)
	case events.Message:
		l.Message(ev.Level, ev.Text)
	}
}

// --- suite ---

// StartSuite opens a suite frame. The first suite of a run carries the
// planned suite/test totals.
func (l *Listener) StartSuite(name string, totalSuites, totalTests int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tracker.Start(events.KindSuite, name, nil, "")
	l.suitePath = append(l.suitePath, name)
	path := strings.Join(l.suitePath, ".")
	l.totals.StartSuite(path, totalSuites, totalTests)
	if l.runStart.IsZero() {
		l.runStart = time.Now()
	}
	l.suiteBuf.Reset(path)

	l.box.SetTotal(l.totals.PlannedTests)
	l.box.SetLine(progress.LineSuite, fmt.Sprintf("[SUITE %s] %s", l.totals.SuiteProgress(), path), "")
	l.box.Redraw()
}

// EndSuite closes the current suite frame and flushes the suite-scoped
// buffer when the policy says so.
func (l *Listener) EndSuite(outcome events.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	frame, ok := l.tracker.End(events.KindSuite, outcome)
	effective := outcome
	warned, errored := l.suiteBuf.Warned(), l.suiteBuf.Errored()
	if ok {
		effective = frame.Outcome
	}

	if !l.suiteBuf.Empty() && trace.ShouldFlush(effective, l.suiteBuf.HasWarnOrError(), l.cfg.Verbosity) {
		lines := trace.Banner(l.pal, events.KindSuite, effective, warned, errored, l.suiteBuf.Name(), l.cfg.Width)
		lines = append(lines, l.suiteBuf.Render()...)
		l.flushLocked(lines)
	}
	l.suiteBuf.Reset("")

	l.totals.EndSuite()
	if len(l.suitePath) > 0 {
		l.suitePath = l.suitePath[:len(l.suitePath)-1]
	}
	l.box.ClearLine(progress.LineSuite)
	l.box.Redraw()
}

// --- test ---

// StartTest opens a test frame and rebinds the test trace buffer.
func (l *Listener) StartTest(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tracker.Start(events.KindTest, name, nil, "")
	path := name
	if len(l.suitePath) > 0 {
		path = strings.Join(l.suitePath, ".") + "." + name
	}
	l.totals.StartTest(path)
	if l.runStart.IsZero() {
		l.runStart = time.Now()
	}
	l.testBuf.Reset(path)

	l.testLabel = fmt.Sprintf("[TEST %s] %s", l.totals.TestProgress(), name)
	l.refreshTestLineLocked()
	l.box.Redraw()
}

// EndTest closes the current test frame, evaluates the flush policy
// against its accumulated buffer, and releases the buffer either way.
func (l *Listener) EndTest(outcome events.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	frame, ok := l.tracker.End(events.KindTest, outcome)
	effective := outcome
	if ok {
		effective = frame.Outcome
	}
	path := l.testBuf.Name()
	warned, errored := l.testBuf.Warned(), l.testBuf.Errored()

	if ok && effective != events.OutcomeNotRun {
		l.eta.Record(frame.Elapsed())
	}
	l.totals.EndTest(path, effective)

	if effective != events.OutcomeNotRun &&
		trace.ShouldFlush(effective, l.testBuf.HasWarnOrError(), l.cfg.Verbosity) {
		lines := trace.Banner(l.pal, events.KindTest, effective, warned, errored, path, l.cfg.Width)
		lines = append(lines, l.testBuf.Render()...)
		l.flushLocked(lines)
	}
	l.testBuf.Reset("")

	l.testLabel = ""
	l.box.Completed(l.totals.CompletedTests)
	l.box.ClearLine(progress.LineTest)
	l.box.Redraw()
}

// --- keyword ---

// StartKeyword opens a keyword frame and records its entry line in the
// owning unit's buffer.
func (l *Listener) StartKeyword(name string, args []string, keywordType string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	inTest := l.tracker.InTest()
	l.tracker.Start(events.KindKeyword, name, args, keywordType)
	l.bufferFor(inTest).Enter(trace.KeywordEntry(name, keywordType, args))

	l.box.SetLine(progress.LineKeyword, keywordBoxLabel(name, args), "")
	l.box.Redraw()
}

// EndKeyword closes the current keyword frame and records its status
// line. A failing keyword's outcome has already been folded into its
// ancestors by the tracker.
func (l *Listener) EndKeyword(outcome events.Outcome, elapsed time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	frame, ok := l.tracker.End(events.KindKeyword, outcome)
	effective := outcome
	if ok {
		effective = frame.Outcome
		if elapsed <= 0 {
			elapsed = frame.Elapsed()
		}
	}
	status := trace.KeywordStatus(l.pal, effective, progress.FormatDuration(elapsed))
	l.bufferFor(l.tracker.InTest()).Exit(status)

	l.box.ClearLine(progress.LineKeyword)
	l.box.Redraw()
}

// --- messages ---

// Message records a log line against the current frame and buffer.
func (l *Listener) Message(level events.Level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tracker.Message(level, text)
	switch level {
	case events.LevelWarn:
		l.totals.LogWarning(text)
	case events.LevelError:
		l.totals.LogError(text)
	}
	l.bufferFor(l.tracker.InTest()).Log(level, trace.MessageLines(l.pal, level, text))
}

// --- close ---

// Close stops the ticker, retracts the box, and prints the end-of-run
// summary. Safe to call more than once and from a signal handler.
func (l *Listener) Close() {
	l.closeOnce.Do(func() {
		close(l.done)

		l.mu.Lock()
		defer l.mu.Unlock()
		l.closed = true
		l.box.Retract()

		l.out.WriteLine("RUN COMPLETE: " + l.totals.Summary())
		if l.cfg.Verbosity >= config.Normal {
			if results := l.totals.Results(); results != "" {
				l.out.WriteLine("")
				for _, line := range strings.Split(strings.TrimRight(results, "\n"), "\n") {
					l.out.WriteLine(line)
				}
			}
			if !l.runStart.IsZero() {
				l.out.WriteLine(fmt.Sprintf("Total elapsed: %s.",
					strings.TrimSpace(progress.FormatDuration(time.Since(l.runStart)))))
			}
		}
		if l.cfg.Verbosity >= config.Debug {
			for _, note := range l.tracker.Notes() {
				l.out.WriteLine("internal: " + note)
			}
		}
	})
}

// --- internals ---

func (l *Listener) bufferFor(inTest bool) *trace.Buffer {
	if inTest {
		return l.testBuf
	}
	return l.suiteBuf
}

// flushLocked writes a block of trace lines, retracting the box first
// and redrawing it beneath the new output. Callers hold mu.
func (l *Listener) flushLocked(lines []string) {
	l.box.Retract()
	for _, line := range lines {
		l.out.WriteLine(line)
	}
	l.out.WriteLine("")
	l.box.Redraw()
}

// refreshTestLineLocked recomputes the test line's elapsed/ETA
// annotation. Callers hold mu.
func (l *Listener) refreshTestLineLocked() {
	if l.testLabel == "" {
		return
	}
	elapsed := progress.FormatDuration(time.Since(l.runStart))
	eta, ok := l.eta.Estimate(l.totals.Remaining())
	right := fmt.Sprintf("(elapsed %s, ETA %s)",
		strings.TrimSpace(elapsed), strings.TrimSpace(progress.FormatETA(eta, ok)))
	l.box.SetLine(progress.LineTest, l.testLabel, right)
}

// tickLoop redraws the box on a fixed interval so the elapsed/ETA
// annotation advances even when no events arrive.
func (l *Listener) tickLoop() {
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			if !l.closed && l.box.Enabled() {
				l.refreshTestLineLocked()
				l.box.Redraw()
			}
			l.mu.Unlock()
		}
	}
}

// keywordBoxLabel renders the currently executing call for the box's
// bottom line.
func keywordBoxLabel(name string, args []string) string {
	if len(args) == 0 {
		return "[" + name + "]"
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "'" + a + "'"
	}
	return "[" + name + "]  (" + strings.Join(quoted, ", ") + ")"
}
