package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Submissions Dir: %s\n", cfg.Directory())
	fmt.Fprintf(out, "  Report:          %s\n", cfg.ReportFilePath())
	if cfg.ExportPath != "" {
		fmt.Fprintf(out, "  Export:          %s\n", cfg.ExportPath)
	}
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  TUI:             %v\n", cfg.TUI)
	fmt.Fprintf(out, "  Keep Artifacts:  %v\n", cfg.Keep)
	fmt.Fprintf(out, "  Workers:         %d\n", cfg.WorkerCount())
	fmt.Fprintf(out, "  Compile Timeout: %s\n", cfg.CompileTimeout())
	fmt.Fprintf(out, "  Test Timeout:    %s\n", cfg.TestTimeout())
}
