// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultSubmissionsDir is the directory graded when none is configured.
	DefaultSubmissionsDir = "eleves_bis"
	// DefaultReportPath is the CSV grade sheet written when none is configured.
	DefaultReportPath = "informations_etudiants.csv"
	// defaultLogFile is the log file used when none is configured.
	defaultLogFile = "autograde.log"
	// defaultCompileTimeout bounds one compiler invocation.
	defaultCompileTimeout = 30 * time.Second
	// defaultTestTimeout bounds one execution of a submission.
	defaultTestTimeout = 3 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	SubmissionsDir string `json:"submissionsDir" mapstructure:"submissionsDir"`
	ReportPath     string `json:"report" mapstructure:"report"`
	ExportPath     string `json:"export,omitempty" mapstructure:"export"`
	LogFile        string `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool   `json:"debug" mapstructure:"debug"`
	TUI            bool   `json:"tui" mapstructure:"tui"`
	Keep           bool   `json:"keep" mapstructure:"keep"`
	Workers        int    `json:"workers,omitempty" mapstructure:"workers"`
	// CompileTimeoutSeconds bounds each compiler invocation.
	CompileTimeoutSeconds int `json:"compileTimeout,omitempty" mapstructure:"compileTimeout"`
	// TestTimeoutSeconds bounds each execution of a compiled submission.
	TestTimeoutSeconds int    `json:"testTimeout,omitempty" mapstructure:"testTimeout"`
	ConfigPath         string `json:"-" mapstructure:"-"`
}

// Directory returns the submissions directory, falling back to the default.
func (c Config) Directory() string {
	if dir := strings.TrimSpace(c.SubmissionsDir); dir != "" {
		return dir
	}
	return DefaultSubmissionsDir
}

// ReportFilePath returns the CSV report path, falling back to the default.
func (c Config) ReportFilePath() string {
	if path := strings.TrimSpace(c.ReportPath); path != "" {
		return path
	}
	return DefaultReportPath
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return defaultLogFile
}

// WorkerCount returns the number of submissions graded concurrently.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// CompileTimeout returns the timeout for a single compilation.
func (c Config) CompileTimeout() time.Duration {
	if c.CompileTimeoutSeconds <= 0 {
		return defaultCompileTimeout
	}
	return time.Duration(c.CompileTimeoutSeconds) * time.Second
}

// TestTimeout returns the timeout for a single test case execution.
func (c Config) TestTimeout() time.Duration {
	if c.TestTimeoutSeconds <= 0 {
		return defaultTestTimeout
	}
	return time.Duration(c.TestTimeoutSeconds) * time.Second
}

// Read returns the contents of the configuration file at path after checking
// them against the configuration schema. An empty path selects
// DefaultConfigPath. A missing file is reported with an error wrapping
// os.ErrNotExist.
func Read(path string) ([]byte, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return data, nil
}
