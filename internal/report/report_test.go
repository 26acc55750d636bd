package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/studylog/internal/kv"
	"github.com/sadopc/studylog/internal/store"
)

var jst = time.FixedZone("JST", 9*60*60)

// today is 2026-10-19 15:00 in JST.
var today = time.Date(2026, 10, 19, 15, 0, 0, 0, jst)

func rec(subject string, start time.Time, minutes int) store.Record {
	return store.Record{ID: subject + start.String(), Subject: subject, StartedAt: start.UTC(), DurationMinutes: minutes}
}

func daysAgo(n int, hour int) time.Time {
	return time.Date(2026, 10, 19-n, hour, 0, 0, 0, jst)
}

// ============================================================
// Daily totals and series
// ============================================================

func TestLast7DaysSeries(t *testing.T) {
	records := []store.Record{
		rec("a", daysAgo(5, 10), 10),
		rec("b", daysAgo(3, 11), 20),
		rec("c", daysAgo(0, 9), 30),
	}

	days := Last7Days(records, today)
	require.Len(t, days, 7)

	got := make([]int, len(days))
	for i, d := range days {
		got[i] = d.Minutes
	}
	assert.Equal(t, []int{0, 10, 0, 20, 0, 0, 30}, got)
	assert.Equal(t, 30, DailyTotal(records, today))

	assert.True(t, days[0].Day.Equal(time.Date(2026, 10, 13, 0, 0, 0, 0, jst)))
	assert.True(t, days[6].Day.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, jst)))
}

func TestLast7DaysEmpty(t *testing.T) {
	days := Last7Days(nil, today)
	require.Len(t, days, 7)
	for _, d := range days {
		assert.Zero(t, d.Minutes)
	}
}

func TestLast7DaysIgnoresOutsideWindow(t *testing.T) {
	records := []store.Record{
		rec("old", daysAgo(7, 23), 100),
		rec("future", daysAgo(-1, 0), 100),
		rec("edge", daysAgo(6, 0), 5),
	}
	days := Last7Days(records, today)
	total := 0
	for _, d := range days {
		total += d.Minutes
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 5, days[0].Minutes)
}

func TestDailyTotalUsesLocalCalendarDay(t *testing.T) {
	// 2026-10-19 00:30 JST is 2026-10-18 15:30 UTC.
	early := rec("x", time.Date(2026, 10, 19, 0, 30, 0, 0, jst), 25)
	// 2026-10-18 23:30 JST.
	late := rec("y", time.Date(2026, 10, 18, 23, 30, 0, 0, jst), 40)
	records := []store.Record{early, late}

	assert.Equal(t, 25, DailyTotal(records, today))
	assert.Equal(t, 40, DailyTotal(records, daysAgo(1, 12)))

	utcToday := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 65, DailyTotal(records, utcToday))
}

func TestLast7DaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// DST ended 2026-11-01 in New York.
	now := time.Date(2026, 11, 3, 12, 0, 0, 0, ny)
	records := []store.Record{
		rec("a", time.Date(2026, 11, 1, 23, 30, 0, 0, ny), 15),
		rec("b", time.Date(2026, 10, 28, 0, 10, 0, 0, ny), 7),
	}
	days := Last7Days(records, now)
	assert.Equal(t, 7, days[0].Minutes)
	assert.Equal(t, 15, days[4].Minutes)
	assert.Equal(t, 1, days[4].Day.Day())
}

// ============================================================
// Subject breakdown
// ============================================================

func TestSubjectBreakdownPercentages(t *testing.T) {
	records := []store.Record{
		rec("A", daysAgo(1, 10), 10),
		rec("B", daysAgo(2, 10), 30),
	}
	shares := SubjectBreakdown(records, today, nil)
	require.Len(t, shares, 2)

	assert.Equal(t, "A", shares[0].Subject)
	assert.Equal(t, 10, shares[0].Minutes)
	assert.InDelta(t, 25.0, shares[0].Percentage, 1e-9)
	assert.Equal(t, "B", shares[1].Subject)
	assert.InDelta(t, 75.0, shares[1].Percentage, 1e-9)
}

func TestSubjectBreakdownFirstSeenOrder(t *testing.T) {
	records := []store.Record{
		rec("Z", daysAgo(0, 10), 1),
		rec("A", daysAgo(1, 10), 50),
		rec("Z", daysAgo(2, 10), 4),
	}
	shares := SubjectBreakdown(records, today, nil)
	require.Len(t, shares, 2)
	assert.Equal(t, "Z", shares[0].Subject)
	assert.Equal(t, 5, shares[0].Minutes)
	assert.Equal(t, "A", shares[1].Subject)
}

func TestSubjectBreakdownSumsToHundred(t *testing.T) {
	records := []store.Record{
		rec("A", daysAgo(0, 10), 7),
		rec("B", daysAgo(1, 10), 11),
		rec("C", daysAgo(2, 10), 13),
	}
	sum := 0.0
	for _, s := range SubjectBreakdown(records, today, nil) {
		sum += s.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestSubjectBreakdownEmptyWindow(t *testing.T) {
	assert.Empty(t, SubjectBreakdown(nil, today, nil))

	old := []store.Record{rec("A", daysAgo(30, 10), 10)}
	assert.Empty(t, SubjectBreakdown(old, today, nil))
}

func TestSubjectBreakdownColors(t *testing.T) {
	lookup := IndexSubjects([]store.Subject{
		{Name: "数学", Color: "#3b82f6", Icon: store.IconCalculator},
	})
	records := []store.Record{
		rec("数学", daysAgo(0, 10), 10),
		rec("unknown", daysAgo(0, 11), 10),
	}
	shares := SubjectBreakdown(records, today, lookup)
	require.Len(t, shares, 2)
	assert.Equal(t, "#3b82f6", shares[0].Color)
	assert.Equal(t, store.IconCalculator, shares[0].Icon)
	assert.Equal(t, chartPalette[1], shares[1].Color)
	assert.Equal(t, store.IconBook, shares[1].Icon)
}

func TestSubjectBreakdownWithRegistry(t *testing.T) {
	reg := store.NewSubjectRegistry(kv.NewMemory())
	records := []store.Record{rec("英語", daysAgo(0, 10), 10)}

	shares := SubjectBreakdown(records, today, reg)
	require.Len(t, shares, 1)
	assert.Equal(t, "#22c55e", shares[0].Color)

	indexed := SubjectBreakdown(records, today, IndexSubjects(reg.List()))
	assert.Equal(t, shares, indexed)
}

func TestSubjectIndexLastNameWins(t *testing.T) {
	idx := IndexSubjects([]store.Subject{
		{Name: "Go", Color: "#111111"},
		{Name: "Go", Color: "#222222"},
	})
	s, ok := idx.FindByName("Go")
	require.True(t, ok)
	assert.Equal(t, "#222222", s.Color)

	_, ok = idx.FindByName("Rust")
	assert.False(t, ok)
}

// ============================================================
// Progress
// ============================================================

func TestProgressToward(t *testing.T) {
	p := ProgressToward(2, 90)
	assert.Equal(t, 120.0, p.TargetMinutes)
	assert.InDelta(t, 0.75, p.Ratio, 1e-9)
	assert.Equal(t, 30.0, p.RemainingMinutes)
	assert.False(t, p.Reached())
}

func TestProgressExceeded(t *testing.T) {
	p := ProgressToward(1, 90)
	assert.InDelta(t, 1.5, p.Ratio, 1e-9)
	assert.Zero(t, p.RemainingMinutes)
	assert.True(t, p.Reached())
}

func TestProgressNoTarget(t *testing.T) {
	for _, h := range []float64{0, -2} {
		p := ProgressToward(h, 45)
		assert.Zero(t, p.Ratio)
		assert.Zero(t, p.RemainingMinutes)
		assert.False(t, p.Reached())
	}
}

// ============================================================
// Weekly
// ============================================================

func TestBuildWeekly(t *testing.T) {
	records := []store.Record{
		rec("A", daysAgo(0, 10), 30),
		rec("A", daysAgo(2, 10), 60),
		rec("B", daysAgo(2, 12), 30),
		rec("old", daysAgo(10, 12), 500),
	}
	w := BuildWeekly(records, today, nil)

	assert.Equal(t, 120, w.TotalMinutes)
	assert.Len(t, w.Days, 7)
	assert.Len(t, w.Subjects, 2)
	assert.InDelta(t, 120.0/7, w.AverageMinutes(), 1e-9)

	best, ok := w.Best()
	require.True(t, ok)
	assert.Equal(t, 90, best.Minutes)
	assert.Equal(t, 17, best.Day.Day())
}

func TestWeeklyBestEmpty(t *testing.T) {
	_, ok := BuildWeekly(nil, today, nil).Best()
	assert.False(t, ok)
}

// ============================================================
// Formatting
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{
		0:   "0m",
		45:  "45m",
		60:  "1h",
		90:  "1h 30m",
		600: "10h",
		-3:  "0m",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMinutes(in), "FormatMinutes(%d)", in)
	}
}

func TestFormatStopwatch(t *testing.T) {
	assert.Equal(t, "0:00", FormatStopwatch(0))
	assert.Equal(t, "0:05", FormatStopwatch(5*time.Second+900*time.Millisecond))
	assert.Equal(t, "12:34", FormatStopwatch(12*time.Minute+34*time.Second))
	assert.Equal(t, "1:00:00", FormatStopwatch(time.Hour))
	assert.Equal(t, "2:03:04", FormatStopwatch(2*time.Hour+3*time.Minute+4*time.Second))
	assert.Equal(t, "0:00", FormatStopwatch(-time.Second))
}
