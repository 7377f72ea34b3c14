// internal/report/summary.go
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/mwiater/autograde/internal/grading"
	"github.com/mwiater/autograde/internal/util"
)

var (
	passColor = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Stats aggregates a run for the summary footer.
type Stats struct {
	Graded     int
	Compiled   int
	AllPassed  int
	Failures   int
	MeanScore  float64
	BestScore  float64
	WorstScore float64
}

// Summarize computes aggregate statistics over run.
func Summarize(run grading.Run) Stats {
	stats := Stats{Graded: len(run.Records), Failures: len(run.Failures)}
	if len(run.Records) == 0 {
		return stats
	}
	stats.WorstScore = run.Records[0].Scores.FinalScore
	total := 0.0
	for _, record := range run.Records {
		if record.Compiled {
			stats.Compiled++
		}
		if record.Tests.Total > 0 && record.TestsPassed == record.Tests.Total {
			stats.AllPassed++
		}
		score := record.Scores.FinalScore
		total += score
		if score > stats.BestScore {
			stats.BestScore = score
		}
		if score < stats.WorstScore {
			stats.WorstScore = score
		}
	}
	stats.MeanScore = total / float64(len(run.Records))
	return stats
}

// ConsoleLine formats one graded submission for streaming console output.
func ConsoleLine(record grading.Record) string {
	name := filepath.Base(record.SourcePath)
	if record.Failed() {
		return failColor.Sprintf("✗ %-28s skipped: %v", name, record.Err)
	}
	status := passColor
	switch {
	case !record.Compiled:
		status = failColor
	case record.Diagnostics > 0 || record.TestsPassed < record.Tests.Total:
		status = warnColor
	}
	line := fmt.Sprintf("%-28s compiled=%d warnings=%d tests=%d/%d final=%s",
		name, util.BoolToInt(record.Compiled), record.Diagnostics, record.TestsPassed, record.Tests.Total, FormatScore(record.Scores.FinalScore))
	if !record.Compiled {
		if first := util.FirstLine(record.Compilation.Output); first != "" {
			line += " " + util.TruncateRunes(first, 60)
		}
	}
	return status.Sprint("• " + line)
}

// RenderSummary renders the end-of-run table and totals.
func RenderSummary(run grading.Run, cleanup *grading.CleanupReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Grading run %s", run.ID)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · %d submissions · %s", run.Directory, len(run.Records)+len(run.Failures), run.Duration.Round(time.Millisecond))))
	b.WriteString("\n\n")

	if len(run.Records) > 0 {
		rows := make([][]string, 0, len(run.Records))
		for _, record := range run.Records {
			rows = append(rows, []string{
				record.Identity.String(),
				strconv.Itoa(util.BoolToInt(record.Compiled)),
				strconv.Itoa(record.Diagnostics),
				fmt.Sprintf("%d/%d", record.TestsPassed, record.Tests.Total),
				FormatScore(record.Scores.DocScore),
				FormatScore(record.Scores.CompileScore),
				FormatScore(record.Scores.FinalScore),
			})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(mutedStyle).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
			Headers("Student", "Compiled", "Warnings", "Tests", "Doc", "Compile", "Final").
			Rows(rows...)
		b.WriteString(t.String())
		b.WriteString("\n")
	}

	stats := Summarize(run)
	b.WriteString(fmt.Sprintf("graded=%d compiled=%d all-tests-passed=%d mean=%.2f best=%s worst=%s\n",
		stats.Graded, stats.Compiled, stats.AllPassed, stats.MeanScore, FormatScore(stats.BestScore), FormatScore(stats.WorstScore)))

	if len(run.Failures) > 0 {
		b.WriteString(failColor.Sprintf("%d submission(s) could not be graded:\n", len(run.Failures)))
		for _, failure := range run.Failures {
			b.WriteString(failColor.Sprintf("  - %s: %v\n", filepath.Base(failure.SourcePath), failure.Err))
		}
	}

	if cleanup != nil {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("removed %d artifact(s)", len(cleanup.Removed))))
		b.WriteString("\n")
		paths := make([]string, 0, len(cleanup.Failed))
		for path := range cleanup.Failed {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			b.WriteString(warnColor.Sprintf("  could not remove %s: %v\n", path, cleanup.Failed[path]))
		}
	}

	return b.String()
}
