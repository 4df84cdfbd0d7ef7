package console

// Op names a recorded sink primitive.
type Op string

const (
	OpWrite   Op = "write"
	OpDraw    Op = "draw"
	OpRetract Op = "retract"
)

// Call is one recorded sink invocation in order.
type Call struct {
	Op    Op
	Lines []string
}

// Recorder is a Sink that records the ordered primitive calls instead
// of touching a terminal. Tests assert on the call sequence to verify
// box/trace coordination without real terminal I/O.
type Recorder struct {
	Calls []Call
	// Err, when set, is returned by every primitive to simulate a dead
	// output destination.
	Err error
}

var _ Sink = (*Recorder)(nil)

// WriteLine records a scrolling-stream line.
func (r *Recorder) WriteLine(s string) error {
	r.Calls = append(r.Calls, Call{Op: OpWrite, Lines: []string{s}})
	return r.Err
}

// DrawRegion records a region redraw.
func (r *Recorder) DrawRegion(lines []string) error {
	copied := make([]string, len(lines))
	copy(copied, lines)
	r.Calls = append(r.Calls, Call{Op: OpDraw, Lines: copied})
	return r.Err
}

// RetractRegion records a region retraction.
func (r *Recorder) RetractRegion() error {
	r.Calls = append(r.Calls, Call{Op: OpRetract})
	return r.Err
}

// Written returns every scrolling-stream line recorded so far.
func (r *Recorder) Written() []string {
	var out []string
	for _, c := range r.Calls {
		if c.Op == OpWrite {
			out = append(out, c.Lines...)
		}
	}
	return out
}

// LastRegion returns the most recently drawn region, or nil if the
// region was never drawn or has been retracted since.
func (r *Recorder) LastRegion() []string {
	var region []string
	for _, c := range r.Calls {
		switch c.Op {
		case OpDraw:
			region = c.Lines
		case OpRetract:
			region = nil
		}
	}
	return region
}
