package report

import (
	"fmt"
	"time"
)

// FormatMinutes renders 45 as "45m", 60 as "1h" and 90 as "1h 30m".
func FormatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	h, rem := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rem)
	case rem == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, rem)
	}
}

// FormatStopwatch renders whole seconds as M:SS, or H:MM:SS from one hour.
func FormatStopwatch(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
