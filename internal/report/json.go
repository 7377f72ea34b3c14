// internal/report/json.go
package report

import (
	"encoding/json"
	"fmt"

	"github.com/mwiater/autograde/internal/grading"
	"github.com/mwiater/autograde/internal/util"
)

// Export is the JSON document written by WriteJSONFile.
type Export struct {
	grading.Run
	Cleanup *CleanupSummary `json:"cleanup,omitempty"`
}

// CleanupSummary is the serializable form of grading.CleanupReport.
type CleanupSummary struct {
	Removed []string          `json:"removed"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// NewCleanupSummary converts a cleanup report for export.
func NewCleanupSummary(report grading.CleanupReport) *CleanupSummary {
	summary := &CleanupSummary{Removed: report.Removed}
	if len(report.Failed) > 0 {
		summary.Failed = make(map[string]string, len(report.Failed))
		for path, err := range report.Failed {
			summary.Failed[path] = err.Error()
		}
	}
	return summary
}

// WriteJSONFile writes the full run, including per-case test outcomes and
// compiler output, to path.
func WriteJSONFile(path string, export Export) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}
