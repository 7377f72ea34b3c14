// internal/grading/types.go
package grading

import (
	"time"

	"github.com/mwiater/autograde/internal/compiler"
	"github.com/mwiater/autograde/internal/identity"
	"github.com/mwiater/autograde/internal/scoring"
	"github.com/mwiater/autograde/internal/testrunner"
)

// Record is the graded result of one submission file.
type Record struct {
	Identity    identity.Identity  `json:"identity"`
	SourcePath  string             `json:"sourcePath"`
	Compiled    bool               `json:"compiled"`
	Diagnostics int                `json:"diagnostics"`
	TestsPassed int                `json:"testsPassed"`
	DocLines    int                `json:"docLines"`
	Scores      scoring.Breakdown  `json:"scores"`
	Compilation compiler.Result    `json:"compilation"`
	Tests       testrunner.Outcome `json:"tests"`
	Duration    time.Duration      `json:"durationNs"`
	// Err is set when the submission could not be graded (for example a
	// malformed filename). Such records never reach the report rows.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the submission could not be graded.
func (r Record) Failed() bool { return r.Err != nil }

// Run is the outcome of grading one submissions directory.
type Run struct {
	ID        string        `json:"id"`
	Directory string        `json:"directory"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"durationNs"`
	Records   []Record      `json:"records"`
	Failures  []Record      `json:"failures,omitempty"`
}

// CleanupReport lists what Cleanup removed and what it could not remove.
type CleanupReport struct {
	Removed []string         `json:"removed"`
	Failed  map[string]error `json:"-"`
}
