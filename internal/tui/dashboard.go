package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/studylog/internal/report"
	"github.com/sadopc/studylog/internal/store"
)

const (
	recentLimit = 5

	formLog    = "log"
	formTarget = "target"
)

type dashboardModel struct {
	deps   *Deps
	timer  timerModel
	width  int
	height int

	today      time.Time
	todayTotal int
	target     float64
	hasTarget  bool
	recent     []store.Record
	subjects   []store.Subject

	// Subject picker state
	picking      bool
	pickerCursor int

	bar progress.Model

	formActive  bool
	form        *huh.Form
	formType    string
	fields      recordFields
	targetInput *string
}

func newDashboardModel(deps *Deps) dashboardModel {
	target := ""
	return dashboardModel{
		deps:        deps,
		timer:       newTimerModel(deps.Config.IdleTimeout),
		bar:         progress.New(progress.WithGradient(string(colorSecondary), string(colorHighlight)), progress.WithoutPercentage()),
		fields:      newRecordFields(),
		targetInput: &target,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = max(10, w-14)
}

func (d dashboardModel) isActive() bool { return d.timer.active() }
func (d dashboardModel) isPaused() bool { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.elapsed(d.deps.Now())
}

type dashboardDataMsg struct {
	today      time.Time
	todayTotal int
	target     float64
	hasTarget  bool
	recent     []store.Record
	subjects   []store.Subject
}

func (d dashboardModel) loadData() tea.Cmd {
	deps := d.deps
	return func() tea.Msg {
		now := deps.Now()
		records := deps.Records.List()
		target, ok := deps.Targets.GetForDate(now)

		recent := records
		if len(recent) > recentLimit {
			recent = recent[:recentLimit]
		}

		return dashboardDataMsg{
			today:      now,
			todayTotal: report.DailyTotal(records, now),
			target:     target,
			hasTarget:  ok,
			recent:     recent,
			subjects:   deps.Subjects.List(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return d.tick(msg)
	case dashboardDataMsg:
		d.today = msg.today
		d.todayTotal = msg.todayTotal
		d.target = msg.target
		d.hasTarget = msg.hasTarget
		d.recent = msg.recent
		d.subjects = msg.subjects
		if d.pickerCursor >= len(d.subjects) {
			d.pickerCursor = max(0, len(d.subjects)-1)
		}
		return d, nil
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.active() {
				return d, status("Stopwatch already running. Press x to stop it.", true)
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()

		case key.Matches(msg, keys.Pause):
			return d.toggleTimer()

		case key.Matches(msg, keys.New):
			return d.showLogForm()

		case key.Matches(msg, keys.Target):
			return d.showTargetForm()
		}
	}
	return d, nil
}

func (d dashboardModel) tick(msg tickMsg) (dashboardModel, tea.Cmd) {
	if d.timer.tick(msg) {
		return d, tickCmd(d.timer.tickGen)
	}
	if d.timer.isIdle && d.timer.paused() {
		d.deps.Logger.Info("stopwatch auto-paused",
			zap.String("subject", d.timer.subject),
			zap.Duration("idle_timeout", d.timer.idleTimeout))
		return d, status(fmt.Sprintf("Paused after %s without input", d.timer.idleTimeout), false)
	}
	return d, nil
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(d.subjects)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		d.picking = false
		if len(d.subjects) == 0 {
			return d, nil
		}
		return d.startTimer(d.subjects[d.pickerCursor].Name)
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) startTimer(subject string) (dashboardModel, tea.Cmd) {
	if err := d.timer.start(subject, d.deps.Now()); err != nil {
		return d, status(fmt.Sprintf("Error: %v", err), true)
	}
	return d, tea.Batch(
		tickCmd(d.timer.tickGen),
		func() tea.Msg { return stopwatchStartedMsg{subject: subject} },
	)
}

func (d dashboardModel) toggleTimer() (dashboardModel, tea.Cmd) {
	running, err := d.timer.toggle(d.deps.Now())
	if err != nil {
		return d, status("Nothing to pause. Press s to start.", true)
	}
	if running {
		return d, tickCmd(d.timer.tickGen)
	}
	return d, nil
}

// stopTimer ends the session and saves it as a record.
func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	subject, startedAt, minutes, err := d.timer.stop(d.deps.Now())
	if err != nil {
		return d, status("Stopwatch is not running", true)
	}

	rec, err := d.deps.Records.Add(store.NewRecord{
		Subject:         subject,
		StartedAt:       startedAt,
		DurationMinutes: minutes,
	})
	if err != nil {
		d.deps.Logger.Warn("save stopwatch session", zap.String("subject", subject), zap.Error(err))
		return d, status(fmt.Sprintf("Error: %v", err), true)
	}
	d.deps.Logger.Info("stopwatch session saved",
		zap.String("id", rec.ID), zap.String("subject", rec.Subject), zap.Int("minutes", rec.DurationMinutes))

	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return recordSavedMsg{record: rec} },
	)
}

func (d dashboardModel) showLogForm() (dashboardModel, tea.Cmd) {
	d.fields.reset("", d.deps.Now(), d.deps.Config.DefaultDuration, "")
	d.formType = formLog
	d.form = d.fields.form(d.subjects)
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showTargetForm() (dashboardModel, tea.Cmd) {
	*d.targetInput = ""
	if d.hasTarget {
		*d.targetInput = strconv.FormatFloat(d.target, 'f', -1, 64)
	}
	d.formType = formTarget
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Today's target (hours)").
				Placeholder("e.g. 2.5").
				Value(d.targetInput).
				Validate(validateHours),
		),
	).WithShowHelp(true).WithShowErrors(true)
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	form, outcome, cmd := stepForm(d.form, msg)
	d.form = form

	switch outcome {
	case formCancelled:
		d.formActive = false
		return d, nil
	case formCompleted:
		d.formActive = false
		d.form = nil
		if d.formType == formTarget {
			return d, d.saveTarget()
		}
		return d, d.saveManualRecord()
	}
	return d, cmd
}

func (d dashboardModel) saveManualRecord() tea.Cmd {
	in, err := d.fields.parse()
	if err != nil {
		return status(fmt.Sprintf("Error: %v", err), true)
	}
	rec, err := d.deps.Records.Add(in)
	if err != nil {
		return status(fmt.Sprintf("Error: %v", err), true)
	}
	d.deps.Logger.Info("record logged",
		zap.String("id", rec.ID), zap.String("subject", rec.Subject), zap.Int("minutes", rec.DurationMinutes))
	return tea.Batch(
		d.loadData(),
		func() tea.Msg { return recordSavedMsg{record: rec} },
	)
}

func (d dashboardModel) saveTarget() tea.Cmd {
	hours, err := parseHours(*d.targetInput)
	if err == nil {
		err = d.deps.Targets.SetForDate(d.deps.Now(), hours)
	}
	if err != nil {
		return status(fmt.Sprintf("Error: %v", err), true)
	}
	return tea.Batch(
		d.loadData(),
		status(fmt.Sprintf("Target set to %sh", strconv.FormatFloat(hours, 'f', -1, 64)), false),
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Log a session")
		if d.formType == formTarget {
			title = titleStyle.Render("Today's target")
		}
		return activePanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	timerPanel := d.renderTimerPanel(contentWidth)
	todayPanel := d.renderTodayPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderSubjectPicker(contentWidth)
	} else {
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, todayPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.active() {
		timeStr := report.FormatStopwatch(d.elapsed())

		var timeDisplay, indicator string
		if d.timer.paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			if d.timer.isIdle {
				indicator = warningStyle.Render("⏸  IDLE")
			} else {
				indicator = warningStyle.Render("⏸  PAUSED")
			}
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  RUNNING")
		}

		color := subjectColor(d.subjects, d.timer.subject)
		subjectLine := dot(color) + " " + highlightStyle.Render(d.timer.subject)

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			subjectLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("0:00"),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Press s to start, n to log a session by hand"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(report.FormatMinutes(d.todayTotal))

	if !d.hasTarget {
		header := fmt.Sprintf("%s  %s", title, total)
		hint := mutedStyle.Render("No target for today. Press t to set one.")
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, hint))
	}

	p := report.ProgressToward(d.target, d.todayTotal)
	header := fmt.Sprintf("%s  %s %s", title, total,
		mutedStyle.Render("/ "+report.FormatMinutes(int(p.TargetMinutes))))

	var detail string
	style := panelStyle
	if p.Reached() {
		style = reachedPanelStyle
		detail = successStyle.Render(fmt.Sprintf("✓ Target reached (%.0f%%)", p.Ratio*100))
	} else {
		detail = mutedStyle.Render(fmt.Sprintf("%.0f%%  ·  %s to go",
			p.Ratio*100, report.FormatMinutes(int(p.RemainingMinutes+0.5))))
	}

	// The ratio is uncapped; only the bar is clamped.
	bar := d.bar.ViewAs(min(p.Ratio, 1))

	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, bar, detail))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No records yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, r := range d.recent {
		row := fmt.Sprintf("  %s %s  %-16s %s",
			dot(subjectColor(d.subjects, r.Subject)),
			r.StartedAt.Local().Format("01/02 15:04"),
			truncate(r.Subject, 16),
			report.FormatMinutes(r.DurationMinutes),
		)
		if r.Memo != "" {
			row += mutedStyle.Render("  " + truncate(r.Memo, 30))
		}
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderSubjectPicker(w int) string {
	title := titleStyle.Render("Select Subject")

	var rows []string
	rows = append(rows, title)
	for i, s := range d.subjects {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s %s", cursor, dot(s.Color), glyph(s.Icon), s.Name)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: start  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
