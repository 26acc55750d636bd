package store

import (
	"math"
	"sync"
	"time"

	"github.com/sadopc/studylog/internal/kv"
)

const dayLayout = "2006-01-02"

// DayKey is the calendar date of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// TargetStore maps calendar days to a goal in hours.
type TargetStore struct {
	mu   sync.Mutex
	sub  kv.Substrate
	opts options
}

func NewTargetStore(sub kv.Substrate, opts ...Option) *TargetStore {
	return &TargetStore{sub: sub, opts: buildOptions(opts)}
}

func (s *TargetStore) load() map[string]float64 {
	return loadInto[map[string]float64](s.opts, s.sub, targetsKey)
}

// GetForDate returns the target saved for day's calendar date.
func (s *TargetStore) GetForDate(day time.Time) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hours, ok := s.load()[DayKey(day)]
	if !ok || !validHours(hours) {
		return 0, false
	}
	return hours, true
}

// SetForDate saves hours for day's calendar date, keeping every other day.
// Non-positive or non-finite hours are rejected and nothing is written.
func (s *TargetStore) SetForDate(day time.Time, hours float64) error {
	if !validHours(hours) {
		return ErrInvalidTarget
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets, ok := loadForUpdate[map[string]float64](s.opts, s.sub, targetsKey)
	if !ok {
		return nil
	}
	if targets == nil {
		targets = make(map[string]float64)
	}
	targets[DayKey(day)] = hours
	s.opts.persist(s.sub, targetsKey, targets)
	return nil
}

func validHours(h float64) bool {
	return h > 0 && !math.IsInf(h, 0) && !math.IsNaN(h)
}
