package trace

import (
	"fmt"
	"time"

	"github.com/jsimmonds/robotrace/pkg/events"
)

// FrameID indexes a frame in the tracker's arena.
type FrameID int

// NoFrame is the parent of root frames.
const NoFrame FrameID = -1

// Frame is one running or completed suite, test or keyword invocation.
// Frames live in an arena indexed by FrameID; parent links are indices,
// and outcome aggregation is a bottom-up fold performed when a frame is
// popped, not a live back-reference mutation.
type Frame struct {
	Kind        events.Kind
	Name        string
	Args        []string
	KeywordType string
	Depth       int
	Parent      FrameID
	Children    []FrameID
	Started     time.Time
	Ended       time.Time
	Outcome     events.Outcome

	// Aggregate state folded up from closed descendants.
	ChildFailed bool
	Warned      bool
	Errored     bool
}

// Elapsed is the frame duration, zero while still running.
func (f *Frame) Elapsed() time.Duration {
	if f.Ended.IsZero() {
		return 0
	}
	return f.Ended.Sub(f.Started)
}

// Tracker maintains the execution stack: the ordered sequence of
// currently open frames, root to leaf. Malformed event streams are
// absorbed as protocol violations — recorded, never raised — and the
// tracker continues with best-effort state.
type Tracker struct {
	arena []Frame
	stack []FrameID
	notes []string
	now   func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Start pushes a new frame as a child of the current top of stack and
// returns its identifier.
func (t *Tracker) Start(kind events.Kind, name string, args []string, keywordType string) FrameID {
	parent := NoFrame
	if len(t.stack) > 0 {
		parent = t.stack[len(t.stack)-1]
	}
	id := FrameID(len(t.arena))
	t.arena = append(t.arena, Frame{
		Kind:        kind,
		Name:        name,
		Args:        args,
		KeywordType: keywordType,
		Depth:       len(t.stack),
		Parent:      parent,
		Started:     t.now(),
		Outcome:     events.OutcomeRunning,
	})
	if parent != NoFrame {
		t.arena[parent].Children = append(t.arena[parent].Children, id)
	}
	t.stack = append(t.stack, id)
	return id
}

// End closes the current top-of-stack frame with the given outcome,
// pops it, and folds its aggregate state into the parent. The returned
// frame is a snapshot of the closed frame. ok is false when the event
// had no open frame to close.
func (t *Tracker) End(kind events.Kind, outcome events.Outcome) (Frame, bool) {
	if len(t.stack) == 0 {
		t.note(fmt.Sprintf("end_%s with no open frame; event ignored", kind))
		return Frame{}, false
	}
	id := t.stack[len(t.stack)-1]
	top := &t.arena[id]
	if top.Kind != kind {
		// Mismatched kind: the stream is malformed. Closing the actual
		// top keeps push/pop balanced for the rest of the run.
		t.note(fmt.Sprintf("end_%s closes open %s frame %q", kind, top.Kind, top.Name))
	}

	effective := outcome
	if effective == events.OutcomePass && top.ChildFailed {
		effective = events.OutcomeFail
	}
	top.Outcome = effective
	top.Ended = t.now()
	t.stack = t.stack[:len(t.stack)-1]

	closed := *top
	if top.Parent != NoFrame {
		parent := &t.arena[top.Parent]
		if effective == events.OutcomeFail {
			parent.ChildFailed = true
		}
		parent.Warned = parent.Warned || top.Warned
		parent.Errored = parent.Errored || top.Errored
	}

	// A closed test or suite is a flush boundary: its subtree occupies
	// the arena tail and is evicted wholesale, bounding live memory to
	// one unit's worth of frames.
	if closed.Kind != events.KindKeyword {
		t.arena = t.arena[:id]
		if closed.Parent != NoFrame {
			children := t.arena[closed.Parent].Children
			t.arena[closed.Parent].Children = children[:len(children)-1]
		}
	}

	return closed, true
}

// Message attaches a log line's severity to the current top-of-stack
// frame. Messages with no open frame are a protocol violation.
func (t *Tracker) Message(level events.Level, text string) {
	if len(t.stack) == 0 {
		t.note(fmt.Sprintf("%s message with no open frame: %s", level, text))
		return
	}
	top := &t.arena[t.stack[len(t.stack)-1]]
	switch level {
	case events.LevelWarn:
		top.Warned = true
	case events.LevelError:
		top.Errored = true
	}
}

// Depth is the number of currently open frames.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

// Current returns a snapshot of the top-of-stack frame.
func (t *Tracker) Current() (Frame, bool) {
	if len(t.stack) == 0 {
		return Frame{}, false
	}
	return t.arena[t.stack[len(t.stack)-1]], true
}

// InTest reports whether a test frame is currently open.
func (t *Tracker) InTest() bool {
	for _, id := range t.stack {
		if t.arena[id].Kind == events.KindTest {
			return true
		}
	}
	return false
}

// Notes returns the protocol-violation notes recorded so far.
func (t *Tracker) Notes() []string {
	return t.notes
}

// Violations is the number of protocol violations absorbed.
func (t *Tracker) Violations() int {
	return len(t.notes)
}

func (t *Tracker) note(msg string) {
	t.notes = append(t.notes, msg)
}
