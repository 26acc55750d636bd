package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/studylog/internal/store"
)

var csvHeader = []string{"ID", "Subject", "Started", "Minutes", "Duration", "Memo"}

// ToCSV writes records in the given order, start times in local time.
func ToCSV(records []store.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Subject,
			r.StartedAt.Local().Format(time.RFC3339),
			strconv.Itoa(r.DurationMinutes),
			formatMinutes(r.DurationMinutes),
			r.Memo,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatMinutes renders minutes as HH:MM.
func formatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
