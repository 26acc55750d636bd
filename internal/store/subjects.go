package store

import (
	"strings"
	"sync"

	"github.com/sadopc/studylog/internal/kv"
)

var defaultSubjects = []Subject{
	{ID: "math", Name: "数学", Color: "#3b82f6", Icon: IconCalculator, IsDefault: true},
	{ID: "english", Name: "英語", Color: "#22c55e", Icon: IconLanguages, IsDefault: true},
	{ID: "programming", Name: "プログラミング", Color: "#a855f7", Icon: IconCode, IsDefault: true},
}

// customPalette is cycled by the number of existing custom subjects.
var customPalette = []string{"#ef4444", "#f97316", "#eab308", "#06b6d4", "#ec4899", "#8b5cf6"}

// DefaultSubjects returns the built-in subjects. They are never persisted.
func DefaultSubjects() []Subject {
	out := make([]Subject, len(defaultSubjects))
	copy(out, defaultSubjects)
	return out
}

// SubjectRegistry holds the default subjects plus user-added ones.
type SubjectRegistry struct {
	mu   sync.Mutex
	sub  kv.Substrate
	opts options
}

func NewSubjectRegistry(sub kv.Substrate, opts ...Option) *SubjectRegistry {
	return &SubjectRegistry{sub: sub, opts: buildOptions(opts)}
}

func (r *SubjectRegistry) loadCustom() []Subject {
	return normalizeIcons(loadInto[[]Subject](r.opts, r.sub, subjectsKey))
}

func (r *SubjectRegistry) loadForUpdate() ([]Subject, bool) {
	custom, ok := loadForUpdate[[]Subject](r.opts, r.sub, subjectsKey)
	return normalizeIcons(custom), ok
}

func normalizeIcons(custom []Subject) []Subject {
	for i := range custom {
		custom[i].Icon = custom[i].Icon.OrDefault()
	}
	return custom
}

// List returns the defaults in fixed order followed by customs in creation order.
func (r *SubjectRegistry) List() []Subject {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(DefaultSubjects(), r.loadCustom()...)
}

// FindByName is an exact, case-sensitive match over defaults and customs.
func (r *SubjectRegistry) FindByName(name string) (Subject, bool) {
	for _, s := range r.List() {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}

// Add creates a custom subject. Names must be unique across defaults and customs.
func (r *SubjectRegistry) Add(name string) (Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Subject{}, ErrEmptySubject
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	custom, ok := r.loadForUpdate()
	if !ok {
		return Subject{}, ErrUnavailable
	}
	for _, s := range append(DefaultSubjects(), custom...) {
		if s.Name == name {
			return Subject{}, ErrDuplicateSubject
		}
	}

	s := Subject{
		ID:    r.opts.newID(),
		Name:  name,
		Color: customPalette[len(custom)%len(customPalette)],
		Icon:  IconBook,
	}
	r.opts.persist(r.sub, subjectsKey, append(custom, s))
	return s, nil
}

// Remove deletes a custom subject. It reports false, without writing, when id
// is unknown or names a default subject.
func (r *SubjectRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	custom, ok := r.loadForUpdate()
	if !ok {
		return false
	}
	idx := -1
	for i, s := range custom {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || custom[idx].IsDefault {
		return false
	}

	kept := append(custom[:idx:idx], custom[idx+1:]...)
	r.opts.persist(r.sub, subjectsKey, kept)
	return true
}
