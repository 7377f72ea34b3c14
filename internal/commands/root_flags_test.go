package autograde

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/autograde/internal/logging"
	"github.com/spf13/viper"
)

func resetFlag(name string) {
	flag := rootCmd.PersistentFlags().Lookup(name)
	if flag == nil {
		flag = gradeCmd.Flags().Lookup(name)
	}
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func resetAllFlags() {
	for _, name := range []string{"config", "debug", "dir", "logFile", "report", "export", "workers", "compileTimeout", "testTimeout", "tui", "keep"} {
		resetFlag(name)
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// useConfig points the root command at a fresh config file and log file and
// restores the flag state afterwards.
func useConfig(t *testing.T, content string) string {
	t.Helper()
	resetAllFlags()
	configPath := writeTempConfig(t, content)
	prevCfgFile := cfgFile
	cfgFile = configPath
	_ = rootCmd.PersistentFlags().Set("logFile", filepath.Join(t.TempDir(), "autograde.log"))
	t.Cleanup(func() {
		resetAllFlags()
		cfgFile = prevCfgFile
		currentConfig = nil
		_ = logging.Close()
	})
	return configPath
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	configPath := useConfig(t, `{"submissionsDir": "from-config", "workers": 2, "report": "config.csv"}`)

	_ = rootCmd.PersistentFlags().Set("debug", "true")
	_ = rootCmd.PersistentFlags().Set("dir", "from-flag")
	_ = gradeCmd.Flags().Set("keep", "true")

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil || cfg.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s, got %+v", configPath, cfg)
	}
	if cfg.Directory() != "from-flag" {
		t.Fatalf("expected flag to override config dir, got %q", cfg.Directory())
	}
	if cfg.WorkerCount() != 2 {
		t.Fatalf("expected workers from config, got %d", cfg.WorkerCount())
	}
	if cfg.ReportFilePath() != "config.csv" {
		t.Fatalf("expected report from config, got %q", cfg.ReportFilePath())
	}
	if !cfg.Debug || !cfg.Keep || !DebugEnabled() {
		t.Fatalf("expected flag values to flow into config: %+v", cfg)
	}
}

func TestPersistentPreRunEUsesConfigValues(t *testing.T) {
	useConfig(t, `{"submissionsDir": "from-config", "testTimeout": 7, "tui": true}`)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	cfg := GetConfig()
	if cfg.Directory() != "from-config" {
		t.Fatalf("expected config dir, got %q", cfg.Directory())
	}
	if cfg.TestTimeoutSeconds != 7 || !cfg.TUI {
		t.Fatalf("expected config values, got %+v", cfg)
	}
	if cfg.ReportFilePath() != "informations_etudiants.csv" {
		t.Fatalf("expected default report path, got %q", cfg.ReportFilePath())
	}
}

func TestPersistentPreRunERejectsInvalidConfig(t *testing.T) {
	useConfig(t, `{"hosts": []}`)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err == nil {
		t.Fatalf("expected schema error for unknown config key")
	}
}

func TestPersistentPreRunEMissingConfig(t *testing.T) {
	useConfig(t, `{}`)
	missing := filepath.Join(t.TempDir(), "missing.json")

	cfgFile = missing
	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("missing default config should fall back to defaults: %v", err)
	}
	if GetConfig().ConfigPath != "" {
		t.Fatalf("expected no config path, got %q", GetConfig().ConfigPath)
	}

	_ = rootCmd.PersistentFlags().Set("config", missing)
	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err == nil {
		t.Fatalf("expected error for missing --config file")
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	configPath := useConfig(t, `{"workers": 3}`)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--config", configPath, "--debug", "show", "config"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Config file: "+configPath) {
		t.Fatalf("expected config file path in output, got %s", out)
	}
	if !strings.Contains(out, "Debug:           true") {
		t.Fatalf("expected debug in output, got %s", out)
	}
	if !strings.Contains(out, "Workers:         3") {
		t.Fatalf("expected workers in output, got %s", out)
	}
}

func TestEnvironmentOverridesConfig(t *testing.T) {
	useConfig(t, `{"submissionsDir": "from-config"}`)
	t.Setenv("AUTOGRADE_SUBMISSIONSDIR", "from-env")
	viper.SetEnvPrefix("AUTOGRADE")
	viper.AutomaticEnv()

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}
	if got := GetConfig().Directory(); got != "from-env" {
		t.Fatalf("expected env override, got %q", got)
	}
}
