package store

import "time"

// Record is one logged activity session.
type Record struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject" validate:"required"`
	StartedAt       time.Time `json:"startedAt"`
	DurationMinutes int       `json:"durationMinutes" validate:"min=1"`
	Memo            string    `json:"memo,omitempty"`
}

// NewRecord is the caller-supplied part of a Record; the store assigns the ID.
// A zero StartedAt means "now".
type NewRecord struct {
	Subject         string `validate:"required"`
	StartedAt       time.Time
	DurationMinutes int `validate:"min=1"`
	Memo            string
}

// Icon is a rendering hint for a subject.
type Icon string

const (
	IconCalculator Icon = "calculator"
	IconLanguages  Icon = "languages"
	IconCode       Icon = "code"
	IconBook       Icon = "book"
	IconPen        Icon = "pen"
	IconAtom       Icon = "atom"
)

var knownIcons = []Icon{IconCalculator, IconLanguages, IconCode, IconBook, IconPen, IconAtom}

// Icons lists every known icon in display order.
func Icons() []Icon {
	out := make([]Icon, len(knownIcons))
	copy(out, knownIcons)
	return out
}

func (i Icon) Valid() bool {
	for _, k := range knownIcons {
		if i == k {
			return true
		}
	}
	return false
}

// OrDefault maps unknown or empty icons to IconBook.
func (i Icon) OrDefault() Icon {
	if i.Valid() {
		return i
	}
	return IconBook
}

// Subject is a named category with display metadata.
type Subject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      Icon   `json:"icon"`
	IsDefault bool   `json:"isDefault"`
}
