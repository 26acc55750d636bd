package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/studylog/internal/report"
	"github.com/sadopc/studylog/internal/store"
)

type recordsModel struct {
	deps   *Deps
	width  int
	height int

	records  []store.Record
	subjects []store.Subject
	cursor   int
	offset   int // first visible row

	formActive bool
	form       *huh.Form
	fields     recordFields
	editingID  string
}

func newRecordsModel(deps *Deps) recordsModel {
	return recordsModel{
		deps:   deps,
		fields: newRecordFields(),
	}
}

func (r *recordsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type recordsDataMsg struct {
	records  []store.Record
	subjects []store.Subject
}

func (r recordsModel) refresh() tea.Cmd {
	deps := r.deps
	return func() tea.Msg {
		return recordsDataMsg{
			records:  deps.Records.List(),
			subjects: deps.Subjects.List(),
		}
	}
}

// visibleRows is how many records fit below the title and column header.
func (r recordsModel) visibleRows() int {
	return max(3, r.height-10)
}

func (r recordsModel) update(msg tea.Msg) (recordsModel, tea.Cmd) {
	if data, ok := msg.(recordsDataMsg); ok {
		r.records = data.records
		r.subjects = data.subjects
		if r.cursor >= len(r.records) {
			r.cursor = max(0, len(r.records)-1)
		}
		r.clampOffset()
		return r, nil
	}

	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, keys.Down):
			if r.cursor < len(r.records)-1 {
				r.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(r.records) > 0 {
				return r.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(r.records) > 0 {
				return r, r.deleteSelected()
			}
		}
		r.clampOffset()
	}
	return r, nil
}

func (r *recordsModel) clampOffset() {
	rows := r.visibleRows()
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+rows {
		r.offset = r.cursor - rows + 1
	}
	if r.offset < 0 {
		r.offset = 0
	}
}

func (r recordsModel) deleteSelected() tea.Cmd {
	rec := r.records[r.cursor]
	r.deps.Records.Remove(rec.ID)
	r.deps.Logger.Info("record deleted", zap.String("id", rec.ID), zap.String("subject", rec.Subject))
	return tea.Batch(
		r.refresh(),
		func() tea.Msg { return recordsChangedMsg{} },
		status(fmt.Sprintf("Deleted %s (%s)", rec.Subject, report.FormatMinutes(rec.DurationMinutes)), false),
	)
}

func (r recordsModel) showEditForm() (recordsModel, tea.Cmd) {
	rec := r.records[r.cursor]
	r.editingID = rec.ID
	r.fields.reset(rec.Subject, rec.StartedAt, rec.DurationMinutes, rec.Memo)
	r.form = r.fields.form(r.subjects)
	r.formActive = true
	return r, r.form.Init()
}

func (r recordsModel) updateForm(msg tea.Msg) (recordsModel, tea.Cmd) {
	form, outcome, cmd := stepForm(r.form, msg)
	r.form = form

	switch outcome {
	case formCancelled:
		r.formActive = false
		return r, nil
	case formCompleted:
		r.formActive = false
		r.form = nil
		return r, r.saveEdit()
	}
	return r, cmd
}

func (r recordsModel) saveEdit() tea.Cmd {
	in, err := r.fields.parse()
	if err != nil {
		return status(fmt.Sprintf("Error: %v", err), true)
	}
	err = r.deps.Records.Update(store.Record{
		ID:              r.editingID,
		Subject:         in.Subject,
		StartedAt:       in.StartedAt,
		DurationMinutes: in.DurationMinutes,
		Memo:            in.Memo,
	})
	if err != nil {
		return status(fmt.Sprintf("Error: %v", err), true)
	}
	return tea.Batch(
		r.refresh(),
		func() tea.Msg { return recordsChangedMsg{} },
		status("Record updated", false),
	)
}

func (r recordsModel) view() string {
	w := r.width - 4

	if r.formActive && r.form != nil {
		title := titleStyle.Render("Edit Record")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", r.form.View()),
		)
	}

	title := titleStyle.Render(fmt.Sprintf("Records (%d)", len(r.records)))
	if len(r.records) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No records yet. Start the stopwatch or press n on the dashboard."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-16s %-18s %8s  %s", "Started", "Subject", "Duration", "Memo")))

	end := min(len(r.records), r.offset+r.visibleRows())
	for i := r.offset; i < end; i++ {
		rec := r.records[i]
		cursor := "  "
		style := normalItemStyle
		if i == r.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%s %-16s %-18s %8s",
			cursor,
			dot(subjectColor(r.subjects, rec.Subject)),
			rec.StartedAt.Local().Format("2006-01-02 15:04"),
			truncate(rec.Subject, 18),
			report.FormatMinutes(rec.DurationMinutes),
		)
		row := style.Render(line)
		if rec.Memo != "" {
			row += mutedStyle.Render("  " + truncate(rec.Memo, max(10, w-60)))
		}
		rows = append(rows, row)
	}

	if len(r.records) > r.visibleRows() {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", r.offset+1, end, len(r.records))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
