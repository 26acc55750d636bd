package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/studylog/internal/store"
)

type subjectsModel struct {
	deps   *Deps
	width  int
	height int

	subjects []store.Subject
	cursor   int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName *string
}

func newSubjectsModel(deps *Deps) subjectsModel {
	name := ""
	return subjectsModel{
		deps:     deps,
		formName: &name,
	}
}

func (s *subjectsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type subjectsDataMsg struct {
	subjects []store.Subject
}

func (s subjectsModel) refresh() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		return subjectsDataMsg{subjects: deps.Subjects.List()}
	}
}

func (s subjectsModel) update(msg tea.Msg) (subjectsModel, tea.Cmd) {
	if data, ok := msg.(subjectsDataMsg); ok {
		s.subjects = data.subjects
		if s.cursor >= len(s.subjects) {
			s.cursor = max(0, len(s.subjects)-1)
		}
		return s, nil
	}

	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.subjects)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.New):
			return s.showNewSubjectForm()
		case key.Matches(msg, keys.Delete):
			if len(s.subjects) > 0 {
				return s, s.deleteSelected()
			}
		}
	}
	return s, nil
}

func (s subjectsModel) deleteSelected() tea.Cmd {
	subj := s.subjects[s.cursor]
	if !s.deps.Subjects.Remove(subj.ID) {
		return status(fmt.Sprintf("%s is built in and cannot be deleted", subj.Name), true)
	}
	s.deps.Logger.Info("subject deleted", zap.String("id", subj.ID), zap.String("name", subj.Name))
	return tea.Batch(
		s.refresh(),
		func() tea.Msg { return subjectsChangedMsg{} },
	)
}

func (s subjectsModel) showNewSubjectForm() (subjectsModel, tea.Cmd) {
	*s.formName = ""

	existing := subjectNames(s.subjects)
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subject Name").
				Value(s.formName).
				Validate(func(v string) error {
					v = strings.TrimSpace(v)
					if v == "" {
						return errors.New("name is required")
					}
					for _, name := range existing {
						if name == v {
							return errors.New("a subject with this name already exists")
						}
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s subjectsModel) updateForm(msg tea.Msg) (subjectsModel, tea.Cmd) {
	form, outcome, cmd := stepForm(s.form, msg)
	s.form = form

	switch outcome {
	case formCancelled:
		s.formActive = false
		return s, nil
	case formCompleted:
		s.formActive = false
		s.form = nil
		subj, err := s.deps.Subjects.Add(*s.formName)
		if err != nil {
			return s, status(fmt.Sprintf("Error: %v", err), true)
		}
		s.deps.Logger.Info("subject added", zap.String("id", subj.ID), zap.String("name", subj.Name))
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return subjectsChangedMsg{} },
		)
	}
	return s, cmd
}

func (s subjectsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("New Subject")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Subjects")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-4s %-24s %-10s", "", "", "Name", "Color")))

	for i, subj := range s.subjects {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-4s %-24s %-10s", cursor, dot(subj.Color), glyph(subj.Icon), subj.Name, subj.Color))
		if subj.IsDefault {
			row += mutedStyle.Render(" built-in")
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
