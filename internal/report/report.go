// Package report derives daily totals, the rolling seven-day series and the
// per-subject breakdown from a slice of records.
package report

import (
	"time"

	"github.com/sadopc/studylog/internal/store"
)

// WindowDays is the length of the rolling window ending today.
const WindowDays = 7

// chartPalette colors subjects that have no registry entry.
var chartPalette = []string{"#06b6d4", "#0891b2", "#22d3ee", "#67e8f9", "#a5f3fc", "#0e7490"}

// SubjectLookup resolves a record's subject label to registry metadata.
type SubjectLookup interface {
	FindByName(name string) (store.Subject, bool)
}

// SubjectIndex is an in-memory SubjectLookup built from one registry listing.
type SubjectIndex map[string]store.Subject

func IndexSubjects(subjects []store.Subject) SubjectIndex {
	idx := make(SubjectIndex, len(subjects))
	for _, s := range subjects {
		idx[s.Name] = s
	}
	return idx
}

func (idx SubjectIndex) FindByName(name string) (store.Subject, bool) {
	s, ok := idx[name]
	return s, ok
}

type DayTotal struct {
	Day     time.Time
	Minutes int
}

type SubjectShare struct {
	Subject    string
	Minutes    int
	Percentage float64
	Color      string
	Icon       store.Icon
}

// Progress of today's minutes toward a target.
type Progress struct {
	TargetMinutes    float64
	Ratio            float64 // uncapped; 1.5 means 150%
	RemainingMinutes float64
}

func (p Progress) Reached() bool { return p.TargetMinutes > 0 && p.Ratio >= 1 }

// StartOfDay is midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether instant falls on day's calendar date, in day's location.
func SameDay(instant, day time.Time) bool {
	y1, m1, d1 := instant.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DailyTotal sums the minutes of records that started on day.
func DailyTotal(records []store.Record, day time.Time) int {
	total := 0
	for _, r := range records {
		if SameDay(r.StartedAt, day) {
			total += r.DurationMinutes
		}
	}
	return total
}

// Last7Days returns one entry per day from today-6 to today, oldest first.
// Days without records are present with zero minutes.
func Last7Days(records []store.Record, today time.Time) []DayTotal {
	start := StartOfDay(today).AddDate(0, 0, -(WindowDays - 1))
	days := make([]DayTotal, WindowDays)
	for i := range days {
		days[i].Day = start.AddDate(0, 0, i)
	}
	for _, r := range records {
		if i := dayIndex(r.StartedAt, start); i >= 0 {
			days[i].Minutes += r.DurationMinutes
		}
	}
	return days
}

// dayIndex is the window position of instant, or -1 outside the window.
// Calendar arithmetic keeps DST days at the right index.
func dayIndex(instant, start time.Time) int {
	local := StartOfDay(instant.In(start.Location()))
	for i := 0; i < WindowDays; i++ {
		if local.Equal(start.AddDate(0, 0, i)) {
			return i
		}
	}
	return -1
}

// InWindow reports whether instant falls within the seven days ending today.
func InWindow(instant, today time.Time) bool {
	return dayIndex(instant, StartOfDay(today).AddDate(0, 0, -(WindowDays-1))) >= 0
}

// SubjectBreakdown totals the window's minutes per subject label, in the order
// labels are first seen. Percentages are zero when the window is empty.
func SubjectBreakdown(records []store.Record, today time.Time, lookup SubjectLookup) []SubjectShare {
	var shares []SubjectShare
	index := make(map[string]int)
	total := 0

	for _, r := range records {
		if !InWindow(r.StartedAt, today) {
			continue
		}
		i, ok := index[r.Subject]
		if !ok {
			i = len(shares)
			index[r.Subject] = i
			shares = append(shares, SubjectShare{Subject: r.Subject})
		}
		shares[i].Minutes += r.DurationMinutes
		total += r.DurationMinutes
	}

	for i := range shares {
		if total > 0 {
			shares[i].Percentage = float64(shares[i].Minutes) / float64(total) * 100
		}
		shares[i].Color = chartPalette[i%len(chartPalette)]
		shares[i].Icon = store.IconBook
		if lookup == nil {
			continue
		}
		if s, ok := lookup.FindByName(shares[i].Subject); ok {
			shares[i].Color = s.Color
			shares[i].Icon = s.Icon.OrDefault()
		}
	}
	return shares
}

// ProgressToward compares today's minutes with a target in hours. A target of
// zero or less yields a zero ratio.
func ProgressToward(targetHours float64, todayMinutes int) Progress {
	p := Progress{TargetMinutes: targetHours * 60}
	if p.TargetMinutes <= 0 {
		p.TargetMinutes = 0
		return p
	}
	p.Ratio = float64(todayMinutes) / p.TargetMinutes
	if rem := p.TargetMinutes - float64(todayMinutes); rem > 0 {
		p.RemainingMinutes = rem
	}
	return p
}

// Weekly bundles everything the reports view and the PDF export need.
type Weekly struct {
	Today        time.Time
	Days         []DayTotal
	Subjects     []SubjectShare
	TotalMinutes int
}

func BuildWeekly(records []store.Record, today time.Time, lookup SubjectLookup) Weekly {
	w := Weekly{
		Today:    StartOfDay(today),
		Days:     Last7Days(records, today),
		Subjects: SubjectBreakdown(records, today, lookup),
	}
	for _, d := range w.Days {
		w.TotalMinutes += d.Minutes
	}
	return w
}

// Best returns the day with the most minutes, preferring the latest on ties.
func (w Weekly) Best() (DayTotal, bool) {
	var best DayTotal
	found := false
	for _, d := range w.Days {
		if d.Minutes > 0 && d.Minutes >= best.Minutes {
			best, found = d, true
		}
	}
	return best, found
}

// AverageMinutes is the mean over all seven days, studied or not.
func (w Weekly) AverageMinutes() float64 {
	if len(w.Days) == 0 {
		return 0
	}
	return float64(w.TotalMinutes) / float64(len(w.Days))
}
