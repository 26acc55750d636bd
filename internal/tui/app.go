package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/studylog/internal/config"
	"github.com/sadopc/studylog/internal/export"
	"github.com/sadopc/studylog/internal/report"
	"github.com/sadopc/studylog/internal/store"
)

// Deps are the stores and settings the views work against.
type Deps struct {
	Records  *store.RecordStore
	Subjects *store.SubjectRegistry
	Targets  *store.TargetStore
	Config   *config.Config
	Logger   *zap.Logger
	Now      func() time.Time
}

var exportFormats = []string{"CSV", "JSON", "PDF (last 7 days)"}

const (
	exportCSV = iota
	exportJSON
	exportPDF
)

// App is the root Bubble Tea model.
type App struct {
	deps   *Deps
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	records   recordsModel
	subjects  subjectsModel
	reports   reportsModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(d Deps) App {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Config == nil {
		d.Config = &config.Config{DefaultDuration: 30}
	}
	deps := &d

	h := help.New()
	h.ShowAll = false

	return App{
		deps:       deps,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(deps),
		records:    newRecordsModel(deps),
		subjects:   newSubjectsModel(deps),
		reports:    newReportsModel(deps),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.dashboard.Init()
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.records.setSize(a.width, contentHeight)
		a.subjects.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		if a.activeView == viewReports {
			return a, a.reports.refresh()
		}
		return a, nil

	case tea.KeyMsg:
		a.dashboard.timer.recordActivity(a.deps.Now())

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewRecords
			return a, a.records.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSubjects
			return a, a.subjects.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// Ticks always belong to the dashboard stopwatch.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case recordsChangedMsg, subjectsChangedMsg:
		return a, a.dashboard.loadData()

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		return a, nil

	case stopwatchStartedMsg:
		a.status = "Studying " + msg.subject
		a.isErr = false
		return a, nil

	case recordSavedMsg:
		a.status = fmt.Sprintf("Saved %s · %s", msg.record.Subject, report.FormatMinutes(msg.record.DurationMinutes))
		a.isErr = false
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewRecords:
		a.records, cmd = a.records.update(msg)
	case viewSubjects:
		a.subjects, cmd = a.subjects.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive || a.dashboard.picking
	case viewRecords:
		return a.records.formActive
	case viewSubjects:
		return a.subjects.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewRecords:
		return a.records.refresh()
	case viewSubjects:
		return a.subjects.refresh()
	case viewReports:
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewRecords:
		content = a.records.view()
	case viewSubjects:
		content = a.subjects.view()
	case viewReports:
		content = a.reports.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studylog")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.isErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Stopwatch indicator in footer
	timerInfo := ""
	if a.dashboard.isActive() {
		elapsed := report.FormatStopwatch(a.dashboard.elapsed())
		timerInfo = successStyle.Render(" ● " + elapsed)
		if a.dashboard.isPaused() {
			timerInfo = warningStyle.Render(" ⏸ " + elapsed)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  to "+a.deps.Config.ExportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	deps := a.deps
	return func() tea.Msg {
		path, err := runExport(deps, format)
		if err != nil {
			deps.Logger.Warn("export failed", zap.Int("format", format), zap.Error(err))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		deps.Logger.Info("exported", zap.String("path", path))
		return exportDoneMsg{path: path}
	}
}

func runExport(deps *Deps, format int) (string, error) {
	dir := deps.Config.ExportDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve export dir: %w", err)
		}
		dir = home
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	now := deps.Now()
	base := filepath.Join(dir, "studylog-export-"+now.Format("2006-01-02"))
	records := deps.Records.List()

	switch format {
	case exportCSV:
		path := base + ".csv"
		return path, export.ToCSV(records, path)
	case exportJSON:
		path := base + ".json"
		return path, export.ToJSON(records, path)
	case exportPDF:
		path := filepath.Join(dir, "studylog-week-"+now.Format("2006-01-02")+".pdf")
		weekly := report.BuildWeekly(records, now, report.IndexSubjects(deps.Subjects.List()))
		return path, export.ToPDF(weekly, path, deps.Config.PDFFont)
	default:
		return "", fmt.Errorf("unknown export format %d", format)
	}
}
