package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "planwright",
	Short: "Deterministic plan document engine",
	Long: `Planwright validates, enriches, and advances JSON plan documents.

Every operation loads the plan, computes, and for mutations writes the
document back atomically. Results are single JSON objects on stdout; a
styled human view is rendered instead when stdout is a terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagJSON     bool
	flagLogLevel string
)

// Execute runs the root command and returns the process exit code.
// Operations that already wrote their failure payload return a silenced
// error; anything else (flag errors, internal faults) is printed to stderr.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var silent *silentError
		if !errors.As(err, &silent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/planwright/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "force JSON output even on a terminal")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override the configured log level (debug/info/warn/error)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(config.LocalConfigFile); err == nil {
		// A project-local config beats the user-level one
		viper.SetConfigFile(config.LocalConfigFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/planwright")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PLANWRIGHT")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PLANWRIGHT_BREAKER_SKIP_RATIO for breaker.skip_ratio
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newLogger builds the per-operation logger from config. Logs go to the
// configured file (or stderr); results own stdout exclusively.
func newLogger(op string) *logging.Logger {
	cfg := config.Get()
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger, err := logging.NewLoggerWithRotation(cfg.Logging.File, level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return logging.NopLogger()
	}
	return logger.WithOp(op)
}
