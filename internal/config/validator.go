package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "plan.max_nodes")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Plan config
	errors = append(errors, c.validatePlan()...)

	// Validate Pool config
	errors = append(errors, c.validatePool()...)

	// Validate Breaker config
	errors = append(errors, c.validateBreaker()...)

	// Validate Watch config
	errors = append(errors, c.validateWatch()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validatePlan validates the PlanConfig
func (c *Config) validatePlan() []ValidationError {
	var errors []ValidationError

	const minMaxNodes = 1
	const maxMaxNodes = 10000

	if c.Plan.MaxNodes < minMaxNodes {
		errors = append(errors, ValidationError{
			Field:   "plan.max_nodes",
			Value:   c.Plan.MaxNodes,
			Message: fmt.Sprintf("must be at least %d", minMaxNodes),
		})
	}
	if c.Plan.MaxNodes > maxMaxNodes {
		errors = append(errors, ValidationError{
			Field:   "plan.max_nodes",
			Value:   c.Plan.MaxNodes,
			Message: fmt.Sprintf("exceeds maximum of %d", maxMaxNodes),
		})
	}

	const minMaxDepth = 1
	const maxMaxDepth = 100

	if c.Plan.MaxDepth < minMaxDepth {
		errors = append(errors, ValidationError{
			Field:   "plan.max_depth",
			Value:   c.Plan.MaxDepth,
			Message: fmt.Sprintf("must be at least %d", minMaxDepth),
		})
	}
	if c.Plan.MaxDepth > maxMaxDepth {
		errors = append(errors, ValidationError{
			Field:   "plan.max_depth",
			Value:   c.Plan.MaxDepth,
			Message: fmt.Sprintf("exceeds maximum of %d", maxMaxDepth),
		})
	}

	// Max attempts must be non-negative (0 means failed nodes are never retried)
	if c.Plan.MaxAttempts < 0 {
		errors = append(errors, ValidationError{
			Field:   "plan.max_attempts",
			Value:   c.Plan.MaxAttempts,
			Message: "must be non-negative (0 disables retries)",
		})
	}

	return errors
}

// validatePool validates the PoolConfig
func (c *Config) validatePool() []ValidationError {
	var errors []ValidationError

	const minMaxWidth = 1
	const maxMaxWidth = 64

	if c.Pool.MaxWidth < minMaxWidth {
		errors = append(errors, ValidationError{
			Field:   "pool.max_width",
			Value:   c.Pool.MaxWidth,
			Message: fmt.Sprintf("must be at least %d", minMaxWidth),
		})
	}
	if c.Pool.MaxWidth > maxMaxWidth {
		errors = append(errors, ValidationError{
			Field:   "pool.max_width",
			Value:   c.Pool.MaxWidth,
			Message: fmt.Sprintf("exceeds maximum of %d", maxMaxWidth),
		})
	}

	return errors
}

// validateBreaker validates the BreakerConfig
func (c *Config) validateBreaker() []ValidationError {
	var errors []ValidationError

	// Min nodes must be non-negative (0 means the breaker applies to every plan)
	if c.Breaker.MinNodes < 0 {
		errors = append(errors, ValidationError{
			Field:   "breaker.min_nodes",
			Value:   c.Breaker.MinNodes,
			Message: "must be non-negative",
		})
	}

	// Skip ratio must be a usable fraction
	if c.Breaker.SkipRatio <= 0 {
		errors = append(errors, ValidationError{
			Field:   "breaker.skip_ratio",
			Value:   c.Breaker.SkipRatio,
			Message: "must be greater than 0",
		})
	}
	if c.Breaker.SkipRatio > 1 {
		errors = append(errors, ValidationError{
			Field:   "breaker.skip_ratio",
			Value:   c.Breaker.SkipRatio,
			Message: "cannot exceed 1",
		})
	}

	return errors
}

// validateWatch validates the WatchConfig
func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	const minDebounce = 10   // 10ms minimum
	const maxDebounce = 5000 // 5 seconds maximum

	if c.Watch.DebounceMs < minDebounce {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: fmt.Sprintf("must be at least %dms", minDebounce),
		})
	}
	if c.Watch.DebounceMs > maxDebounce {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxDebounce),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	// Log file path validation - if set, check for invalid characters
	if c.Logging.File != "" {
		path := c.Logging.File

		// Check for null bytes which are invalid in paths
		if strings.ContainsRune(path, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "logging.file",
				Value:   path,
				Message: "path contains invalid null character",
			})
		}

		// Reasonable path length limit (most filesystems have limits around 4096)
		const maxPathLength = 4096
		if len(path) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "logging.file",
				Value:   path,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}
