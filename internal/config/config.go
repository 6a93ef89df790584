package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete planwright configuration
type Config struct {
	Plan    PlanConfig    `mapstructure:"plan"`
	Pool    PoolConfig    `mapstructure:"pool"`
	Breaker BreakerConfig `mapstructure:"breaker"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlanConfig controls plan document limits
type PlanConfig struct {
	// MaxNodes is the maximum number of nodes a plan document may contain (default: 20)
	MaxNodes int `mapstructure:"max_nodes"`
	// MaxDepth is the maximum dependency depth before validation warns (default: 8)
	MaxDepth int `mapstructure:"max_depth"`
	// MaxAttempts is the retry budget per node; failed nodes with attempts below
	// this count are retry candidates (default: 3)
	MaxAttempts int `mapstructure:"max_attempts"`
}

// PoolConfig controls worker pool sizing
type PoolConfig struct {
	// MaxWidth is the external concurrency ceiling for worker pool planning (default: 4)
	MaxWidth int `mapstructure:"max_width"`
}

// BreakerConfig controls the circuit breaker abort heuristic
type BreakerConfig struct {
	// MinNodes is the plan size below which the breaker never trips (default: 3)
	MinNodes int `mapstructure:"min_nodes"`
	// SkipRatio is the fraction of pending nodes that must be doomed to skip
	// before the breaker recommends aborting (default: 0.5)
	SkipRatio float64 `mapstructure:"skip_ratio"`
}

// WatchConfig controls the plan file watcher
type WatchConfig struct {
	// DebounceMs is how long to wait after a file event before re-reading
	// the plan, in milliseconds (default: 200)
	DebounceMs int `mapstructure:"debounce_ms"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path; empty writes JSON logs to stderr (default: "")
	File string `mapstructure:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// Debounce returns the watch debounce interval as a time.Duration
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Plan: PlanConfig{
			MaxNodes:    20,
			MaxDepth:    8,
			MaxAttempts: 3,
		},
		Pool: PoolConfig{
			MaxWidth: 4,
		},
		Breaker: BreakerConfig{
			MinNodes:  3,
			SkipRatio: 0.5,
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			File:       "", // Empty means stderr
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Plan defaults
	viper.SetDefault("plan.max_nodes", defaults.Plan.MaxNodes)
	viper.SetDefault("plan.max_depth", defaults.Plan.MaxDepth)
	viper.SetDefault("plan.max_attempts", defaults.Plan.MaxAttempts)

	// Pool defaults
	viper.SetDefault("pool.max_width", defaults.Pool.MaxWidth)

	// Breaker defaults
	viper.SetDefault("breaker.min_nodes", defaults.Breaker.MinNodes)
	viper.SetDefault("breaker.skip_ratio", defaults.Breaker.SkipRatio)

	// Watch defaults
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planwright")
	}
	// Fall back to ~/.config/planwright
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planwright"
	}
	return filepath.Join(home, ".config", "planwright")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LocalConfigFile is the project-local config file name searched in the
// working directory before the user config directory.
const LocalConfigFile = ".planwright.yaml"
