// internal/commands/root.go
package autograde

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mwiater/autograde/internal/appconfig"
	"github.com/mwiater/autograde/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// initLogging is swapped in tests.
var initLogging = logging.Init

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "autograde",
	Short:        "autograde compiles, tests and scores C programming submissions",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := ensureConfigLoaded(cmd)
		if err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = loaded
		currentConfig = &cfg

		if err := initLogging(currentConfig.LogFilePath(), currentConfig.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogEvent("autograde %s started: command=%q config=%q", appVersion, cmd.CommandPath(), loaded)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM cancel the command context, which stops in-flight
// compilations and test executions.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringP("dir", "d", appconfig.DefaultSubmissionsDir, "directory containing the submissions")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("submissionsDir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig loads an optional .env file and enables AUTOGRADE_* overrides.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}
	viper.SetEnvPrefix("AUTOGRADE")
	viper.AutomaticEnv()
}

// ensureConfigLoaded validates and merges the config file into viper. A
// missing default config file is not an error; a missing file named with
// --config is. It returns the path of the file that was loaded, if any.
func ensureConfigLoaded(cmd *cobra.Command) (string, error) {
	data, err := appconfig.Read(cfgFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	viper.SetConfigType("json")
	if err := viper.ReadConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfgFile, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
