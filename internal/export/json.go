package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/studylog/internal/store"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Records    []jsonRecord `json:"records"`
}

type jsonRecord struct {
	ID              string `json:"id"`
	Subject         string `json:"subject"`
	StartedAt       string `json:"startedAt"`
	DurationMinutes int    `json:"durationMinutes"`
	Duration        string `json:"duration"`
	Memo            string `json:"memo,omitempty"`
}

func ToJSON(records []store.Record, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, r := range records {
		export.Records = append(export.Records, jsonRecord{
			ID:              r.ID,
			Subject:         r.Subject,
			StartedAt:       r.StartedAt.UTC().Format(time.RFC3339),
			DurationMinutes: r.DurationMinutes,
			Duration:        formatMinutes(r.DurationMinutes),
			Memo:            r.Memo,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
