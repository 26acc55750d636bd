package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sadopc/studylog/internal/store"
)

// recordFields holds form values behind pointers so they survive model copies.
type recordFields struct {
	subject *string
	started *string
	minutes *string
	memo    *string
}

func newRecordFields() recordFields {
	subject, started, minutes, memo := "", "", "", ""
	return recordFields{subject: &subject, started: &started, minutes: &minutes, memo: &memo}
}

func (f recordFields) reset(subject string, started time.Time, minutes int, memo string) {
	*f.subject = subject
	*f.started = started.Local().Format(inputTimeLayout)
	*f.minutes = strconv.Itoa(minutes)
	*f.memo = memo
}

// form builds the subject/started/minutes/memo form.
func (f recordFields) form(subjects []store.Subject) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subject").
				Suggestions(subjectNames(subjects)).
				Value(f.subject).
				Validate(validateSubject),
			huh.NewInput().
				Title("Started").
				Description("YYYY-MM-DD HH:MM").
				Value(f.started).
				Validate(validateStarted),
			huh.NewInput().
				Title("Minutes").
				Value(f.minutes).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Memo").
				Placeholder("optional").
				Value(f.memo),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// parse converts the form values. The stores validate again.
func (f recordFields) parse() (store.NewRecord, error) {
	started, err := parseStarted(*f.started)
	if err != nil {
		return store.NewRecord{}, err
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(*f.minutes))
	if err != nil {
		return store.NewRecord{}, fmt.Errorf("parse minutes: %w", err)
	}
	return store.NewRecord{
		Subject:         *f.subject,
		StartedAt:       started,
		DurationMinutes: minutes,
		Memo:            *f.memo,
	}, nil
}

func parseStarted(s string) (time.Time, error) {
	t, err := time.ParseInLocation(inputTimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start time: %w", err)
	}
	return t, nil
}

func validateSubject(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("subject is required")
	}
	return nil
}

func validateStarted(s string) error {
	if _, err := parseStarted(s); err != nil {
		return errors.New("use YYYY-MM-DD HH:MM")
	}
	return nil
}

func validateMinutes(s string) error {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || m < 1 {
		return errors.New("enter whole minutes, at least 1")
	}
	return nil
}

func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours: %w", err)
	}
	return h, nil
}

func validateHours(s string) error {
	h, err := parseHours(s)
	if err != nil || h <= 0 {
		return errors.New("enter a positive number of hours")
	}
	return nil
}

// formOutcome is the result of feeding one message to a huh form.
type formOutcome int

const (
	formRunning formOutcome = iota
	formCompleted
	formCancelled
)

// stepForm feeds msg to form. esc cancels.
func stepForm(form *huh.Form, msg tea.Msg) (*huh.Form, formOutcome, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return nil, formCancelled, nil
	}

	m, cmd := form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		form = f
	}

	switch form.State {
	case huh.StateCompleted:
		return form, formCompleted, cmd
	case huh.StateAborted:
		return nil, formCancelled, nil
	}
	return form, formRunning, cmd
}
