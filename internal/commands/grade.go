// internal/commands/grade.go
package autograde

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/k0kubun/pp"
	"github.com/mwiater/autograde/internal/appconfig"
	"github.com/mwiater/autograde/internal/compiler"
	"github.com/mwiater/autograde/internal/grading"
	"github.com/mwiater/autograde/internal/logging"
	"github.com/mwiater/autograde/internal/report"
	"github.com/mwiater/autograde/internal/testrunner"
	"github.com/mwiater/autograde/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// toolchain is a compiler that can verify it is installed before a run.
type toolchain interface {
	compiler.Compiler
	Check() error
}

// Package-level hooks swapped in tests.
var (
	newToolchain = func(timeout time.Duration) toolchain {
		return compiler.NewGCC(timeout)
	}
	startProgress = func(out io.Writer, total int, cancel context.CancelFunc) progressDisplay {
		return tui.Start(out, total, cancel)
	}
)

// progressDisplay receives graded submissions while a run is in flight.
type progressDisplay interface {
	Graded(grading.Record)
	Finish(error) error
}

// gradeCmd implements 'grade', which grades every submission in the
// submissions directory and writes the grade sheet.
var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Compile, test and score every submission",
	Long: `The 'grade' command compiles every .c file in the submissions directory with
gcc -Wall -ansi, runs each program against the sum test vector, counts its
documentation lines, and writes one CSV row per student. Compiled artifacts
are removed afterwards unless --keep is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGrade(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), *GetConfig())
	},
}

func init() {
	gradeCmd.Flags().StringP("report", "r", appconfig.DefaultReportPath, "CSV grade sheet to write")
	gradeCmd.Flags().String("export", "", "also write the full run to this JSON file")
	gradeCmd.Flags().IntP("workers", "w", 0, "submissions graded concurrently (0 = number of CPUs)")
	gradeCmd.Flags().Int("compileTimeout", 0, "seconds allowed per compilation (0 = default)")
	gradeCmd.Flags().Int("testTimeout", 0, "seconds allowed per test case (0 = default)")
	gradeCmd.Flags().Bool("tui", false, "show an interactive progress display")
	gradeCmd.Flags().Bool("keep", false, "keep compiled artifacts after grading")

	_ = viper.BindPFlag("report", gradeCmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("export", gradeCmd.Flags().Lookup("export"))
	_ = viper.BindPFlag("workers", gradeCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("compileTimeout", gradeCmd.Flags().Lookup("compileTimeout"))
	_ = viper.BindPFlag("testTimeout", gradeCmd.Flags().Lookup("testTimeout"))
	_ = viper.BindPFlag("tui", gradeCmd.Flags().Lookup("tui"))
	_ = viper.BindPFlag("keep", gradeCmd.Flags().Lookup("keep"))

	rootCmd.AddCommand(gradeCmd)
}

// runGrade grades cfg.Directory() and writes the configured reports.
// Per-submission failures are reported in the summary and do not fail the
// command; a missing directory or toolchain does.
func runGrade(ctx context.Context, out, errOut io.Writer, cfg appconfig.Config) error {
	dir := cfg.Directory()
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("%w: %v", grading.ErrSubmissionsDir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", grading.ErrSubmissionsDir, dir)
	}

	cc := newToolchain(cfg.CompileTimeout())
	if err := cc.Check(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	onGraded := func(record grading.Record) {
		fmt.Fprintln(out, report.ConsoleLine(record))
	}
	var display progressDisplay
	if cfg.TUI {
		sources, err := grading.Discover(dir, compiler.SourceExt)
		if err != nil {
			return err
		}
		display = startProgress(out, len(sources), cancel)
		onGraded = display.Graded
	}

	pipeline := grading.New(cc, testrunner.New(cfg.TestTimeout()),
		grading.WithWorkers(cfg.WorkerCount()),
		grading.WithProgress(onGraded),
	)

	run, runErr := pipeline.Run(ctx, dir)
	if display != nil {
		if err := display.Finish(runErr); err != nil {
			logging.Logger().Warnw("progress display failed", "error", err)
		}
	}

	var cleanup *grading.CleanupReport
	if !cfg.Keep {
		swept, err := pipeline.Cleanup(dir)
		if err != nil {
			logging.Logger().Warnw("artifact cleanup failed", "directory", dir, "error", err)
		} else {
			cleanup = &swept
		}
	}

	if runErr != nil {
		return fmt.Errorf("grading %s: %w", dir, runErr)
	}

	if err := report.WriteCSVFile(cfg.ReportFilePath(), run.Records); err != nil {
		return err
	}
	logging.LogEvent("report written: %s (%d rows)", cfg.ReportFilePath(), len(run.Records))

	if cfg.ExportPath != "" {
		export := report.Export{Run: run}
		if cleanup != nil {
			export.Cleanup = report.NewCleanupSummary(*cleanup)
		}
		if err := report.WriteJSONFile(cfg.ExportPath, export); err != nil {
			return err
		}
		logging.LogEvent("export written: %s", cfg.ExportPath)
	}

	if cfg.Debug {
		pp.Fprintln(errOut, run.Records)
	}

	fmt.Fprintln(out, report.RenderSummary(run, cleanup))
	fmt.Fprintf(out, "Report written to %s\n", cfg.ReportFilePath())
	return nil
}
