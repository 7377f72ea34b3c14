// internal/grading/cleanup.go
package grading

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwiater/autograde/internal/compiler"
	"github.com/mwiater/autograde/internal/logging"
)

var removeFile = os.Remove

// Cleanup removes every compiled artifact directly inside dir. A file that
// cannot be removed is recorded in the report and does not stop the sweep.
// The error is non-nil only when dir itself cannot be listed.
func Cleanup(dir string) (CleanupReport, error) {
	report := CleanupReport{Failed: make(map[string]error)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrSubmissionsDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != compiler.ArtifactExt {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := removeFile(path); err != nil {
			report.Failed[path] = err
			logging.Logger().Warnw("artifact removal failed", "artifact", path, "error", err)
			continue
		}
		report.Removed = append(report.Removed, path)
	}

	logging.Logger().Infow("cleanup finished", "directory", dir, "removed", len(report.Removed), "failed", len(report.Failed))
	return report, nil
}

// Cleanup removes the artifacts produced by grading dir.
func (p *Pipeline) Cleanup(dir string) (CleanupReport, error) {
	return Cleanup(dir)
}
