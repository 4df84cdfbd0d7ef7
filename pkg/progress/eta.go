package progress

import "time"

// DefaultWindow is the ETA window capacity: enough history to smooth
// over outliers without letting ancient durations dominate.
const DefaultWindow = 16

// Estimator projects remaining run time from a bounded ring buffer of
// recently completed top-level test durations. Estimates are recomputed
// forward only — a slow test changes future estimates, never the ones
// already reported.
type Estimator struct {
	window []time.Duration
	next   int
	count  int
}

// NewEstimator creates an estimator with the given window capacity.
func NewEstimator(capacity int) *Estimator {
	if capacity < 1 {
		capacity = DefaultWindow
	}
	return &Estimator{window: make([]time.Duration, capacity)}
}

// Record adds a completed test duration, evicting the oldest entry
// once the window is full.
func (e *Estimator) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.window[e.next] = d
	e.next = (e.next + 1) % len(e.window)
	if e.count < len(e.window) {
		e.count++
	}
}

// Estimate returns mean-duration × remaining. ok is false before any
// test has completed: the ETA is unknown, not zero.
func (e *Estimator) Estimate(remaining int) (time.Duration, bool) {
	if e.count == 0 {
		return 0, false
	}
	if remaining <= 0 {
		return 0, true
	}
	var sum time.Duration
	for i := 0; i < e.count; i++ {
		sum += e.window[i]
	}
	mean := sum / time.Duration(e.count)
	return mean * time.Duration(remaining), true
}
