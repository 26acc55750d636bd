package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studylog/internal/report"
)

type reportsModel struct {
	deps   *Deps
	width  int
	height int

	offset int // 7-day blocks back from today (0 = current)
	weekly report.Weekly

	chart barchart.Model
}

func newReportsModel(deps *Deps) reportsModel {
	return reportsModel{
		deps:  deps,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	weekly report.Weekly
}

// windowEnd is the last day of the window shown.
func (r reportsModel) windowEnd() time.Time {
	return r.deps.Now().AddDate(0, 0, -report.WindowDays*r.offset)
}

func (r reportsModel) refresh() tea.Cmd {
	deps := r.deps
	end := r.windowEnd()
	return func() tea.Msg {
		return reportsDataMsg{
			weekly: report.BuildWeekly(deps.Records.List(), end, report.IndexSubjects(deps.Subjects.List())),
		}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.weekly = msg.weekly
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	today := report.StartOfDay(r.deps.Now())
	var bars []barchart.BarData
	for _, d := range r.weekly.Days {
		color := colorSecondary
		if d.Day.Equal(today) {
			color = colorPrimary
		}
		bars = append(bars, barchart.BarData{
			Label: d.Day.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  "minutes",
				Value: float64(d.Minutes),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	start := r.weekly.Today.AddDate(0, 0, -(report.WindowDays - 1))
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", start.Format("Jan 02"), r.weekly.Today.Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Last 7 days"), "  ", dateLabel,
	)

	stats := r.renderStats()
	chartView := r.chart.View()
	breakdown := r.renderBreakdown(w)
	nav := mutedStyle.Render("  ←/→: previous/next 7 days")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", stats, "", chartView, "", breakdown, "", nav,
		),
	)
}

func (r reportsModel) renderStats() string {
	parts := []string{
		"Total " + highlightStyle.Render(report.FormatMinutes(r.weekly.TotalMinutes)),
		"Daily avg " + highlightStyle.Render(report.FormatMinutes(int(r.weekly.AverageMinutes()+0.5))),
	}
	if best, ok := r.weekly.Best(); ok {
		parts = append(parts, "Best "+highlightStyle.Render(fmt.Sprintf("%s (%s)", best.Day.Format("Mon"), report.FormatMinutes(best.Minutes))))
	}
	return "  " + strings.Join(parts, mutedStyle.Render("  ·  "))
}

func (r reportsModel) renderBreakdown(w int) string {
	if len(r.weekly.Subjects) == 0 {
		return mutedStyle.Render("  No sessions in this period")
	}

	barWidth := max(10, min(w-50, 30))

	var rows []string
	rows = append(rows, titleStyle.Render("By subject"))
	for _, s := range r.weekly.Subjects {
		filled := int(s.Percentage/100*float64(barWidth) + 0.5)
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barWidth-filled))
		rows = append(rows, fmt.Sprintf("  %s %-4s %-16s %8s %6.1f%%  %s",
			dot(s.Color), glyph(s.Icon), truncate(s.Subject, 16),
			report.FormatMinutes(s.Minutes), s.Percentage, bar,
		))
	}
	return strings.Join(rows, "\n")
}
