package grep

import "time"

// Stopwatch measures the wall-clock duration of a run. It is created by the caller
// and passed down explicitly rather than kept in package state.
type Stopwatch struct {
	start   time.Time
	stopped time.Duration
	done    bool
	now     func() time.Time
}

// StartStopwatch returns a running Stopwatch.
func StartStopwatch() *Stopwatch {
	return newStopwatch(time.Now)
}

func newStopwatch(now func() time.Time) *Stopwatch {
	return &Stopwatch{start: now(), now: now}
}

// Stop freezes the stopwatch and returns the elapsed time. Further calls return the same value.
func (s *Stopwatch) Stop() time.Duration {
	if !s.done {
		s.stopped = s.now().Sub(s.start)
		s.done = true
	}
	return s.stopped
}

// Elapsed returns the time since start, or the frozen value once stopped.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.done {
		return s.stopped
	}
	return s.now().Sub(s.start)
}
