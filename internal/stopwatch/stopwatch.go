// Package stopwatch is the start/pause/resume/stop state machine behind the
// dashboard timer. It never reads the clock itself; callers pass now.
package stopwatch

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// current state. The stopwatch is left untouched.
var ErrInvalidTransition = errors.New("invalid stopwatch transition")

// State of the stopwatch.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stopwatch measures active time across pauses. The zero value is idle.
type Stopwatch struct {
	state       State
	startedAt   time.Time     // first Start of the session
	origin      time.Time     // start of the current running interval
	accumulated time.Duration // closed intervals
}

func (w *Stopwatch) State() State { return w.state }

func (w *Stopwatch) Running() bool { return w.state == Running }

func (w *Stopwatch) Paused() bool { return w.state == Paused }

// Active reports whether a session is in progress, running or paused.
func (w *Stopwatch) Active() bool { return w.state != Idle }

// StartedAt is the instant of the session's first Start.
func (w *Stopwatch) StartedAt() time.Time { return w.startedAt }

func (w *Stopwatch) transition(op string, from ...State) error {
	for _, s := range from {
		if w.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, w.state)
}

// Start begins a new session. Only valid when idle.
func (w *Stopwatch) Start(now time.Time) error {
	if err := w.transition("start", Idle); err != nil {
		return err
	}
	*w = Stopwatch{state: Running, startedAt: now, origin: now}
	return nil
}

// Pause closes the current interval.
func (w *Stopwatch) Pause(now time.Time) error {
	if err := w.transition("pause", Running); err != nil {
		return err
	}
	w.accumulated += interval(w.origin, now)
	w.state = Paused
	return nil
}

// Resume opens a new interval at now.
func (w *Stopwatch) Resume(now time.Time) error {
	if err := w.transition("resume", Paused); err != nil {
		return err
	}
	w.origin = now
	w.state = Running
	return nil
}

// Stop ends the session and returns its length in whole minutes, at least 1.
// The stopwatch returns to idle.
func (w *Stopwatch) Stop(now time.Time) (int, error) {
	if err := w.transition("stop", Running, Paused); err != nil {
		return 0, err
	}
	minutes := Minutes(w.Elapsed(now))
	*w = Stopwatch{}
	return minutes, nil
}

// Elapsed is the active time so far. It is never negative.
func (w *Stopwatch) Elapsed(now time.Time) time.Duration {
	switch w.state {
	case Running:
		return w.accumulated + interval(w.origin, now)
	case Paused:
		return w.accumulated
	default:
		return 0
	}
}

// Minutes rounds d up to whole minutes after dropping the sub-second part,
// so it agrees with a one-second readout. The result is at least 1.
func Minutes(d time.Duration) int {
	secs := int64(d / time.Second)
	m := int((secs + 59) / 60)
	if m < 1 {
		return 1
	}
	return m
}

func interval(from, to time.Time) time.Duration {
	if d := to.Sub(from); d > 0 {
		return d
	}
	return 0
}
