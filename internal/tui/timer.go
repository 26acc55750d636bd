package tui

import (
	"time"

	"github.com/sadopc/studylog/internal/stopwatch"
)

// timerModel ties the stopwatch to the subject being studied and to idle detection.
type timerModel struct {
	sw      stopwatch.Stopwatch
	subject string

	// tickGen identifies the live tick chain; older chains are dropped.
	tickGen int

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
}

func newTimerModel(idleTimeout time.Duration) timerModel {
	return timerModel{idleTimeout: idleTimeout}
}

func (t *timerModel) start(subject string, now time.Time) error {
	if err := t.sw.Start(now); err != nil {
		return err
	}
	t.subject = subject
	t.lastActivity = now
	t.isIdle = false
	t.tickGen++
	return nil
}

// stop returns the session's subject, start instant and minutes.
func (t *timerModel) stop(now time.Time) (string, time.Time, int, error) {
	startedAt := t.sw.StartedAt()
	minutes, err := t.sw.Stop(now)
	if err != nil {
		return "", time.Time{}, 0, err
	}
	subject := t.subject
	t.subject = ""
	t.isIdle = false
	t.tickGen++
	return subject, startedAt, minutes, nil
}

// toggle pauses or resumes. It reports whether the stopwatch is now running.
func (t *timerModel) toggle(now time.Time) (bool, error) {
	switch t.sw.State() {
	case stopwatch.Running:
		t.tickGen++
		return false, t.sw.Pause(now)
	case stopwatch.Paused:
		if err := t.sw.Resume(now); err != nil {
			return false, err
		}
		t.isIdle = false
		t.lastActivity = now
		t.tickGen++
		return true, nil
	default:
		return false, t.sw.Resume(now)
	}
}

// tick checks for idleness. It reports whether the tick chain should continue.
func (t *timerModel) tick(msg tickMsg) bool {
	if msg.gen != t.tickGen || !t.sw.Running() {
		return false
	}
	if t.idleTimeout <= 0 {
		return true
	}
	deadline := t.lastActivity.Add(t.idleTimeout)
	if msg.at.Before(deadline) {
		return true
	}
	// Idle time is not study time: pause where the user went quiet.
	if err := t.sw.Pause(deadline); err != nil {
		return false
	}
	t.isIdle = true
	t.tickGen++
	return false
}

func (t *timerModel) recordActivity(now time.Time) {
	t.lastActivity = now
}

func (t timerModel) running() bool { return t.sw.Running() }

func (t timerModel) paused() bool { return t.sw.Paused() }

func (t timerModel) active() bool { return t.sw.Active() }

func (t timerModel) elapsed(now time.Time) time.Duration {
	return t.sw.Elapsed(now)
}
