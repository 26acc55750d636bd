package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/studylog/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewRecords
	viewSubjects
	viewReports
)

var viewNames = []string{"Dashboard", "Records", "Subjects", "Reports"}

const inputTimeLayout = "2006-01-02 15:04"

// --- Messages ---

// tickMsg drives the stopwatch readout. gen ties it to one tick chain so a
// chain is dropped once the stopwatch pauses, stops or restarts.
type tickMsg struct {
	gen int
	at  time.Time
}

type stopwatchStartedMsg struct {
	subject string
}

type recordSavedMsg struct {
	record store.Record
}

// recordsChangedMsg asks every view holding records to reload.
type recordsChangedMsg struct{}

type subjectsChangedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func subjectNames(subjects []store.Subject) []string {
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = s.Name
	}
	return names
}

// subjectColor looks up a subject's color by name, falling back to the primary color.
func subjectColor(subjects []store.Subject, name string) string {
	for _, s := range subjects {
		if s.Name == name {
			return s.Color
		}
	}
	return string(colorPrimary)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
