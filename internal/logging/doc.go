// Package logging provides structured logging for planwright operations.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation support for debugging and post-hoc analysis. Engine
// results go to stdout as JSON; logs never do. They go to stderr or to a
// configured log file, so an orchestrator driving the engine can keep the
// result stream clean while still capturing diagnostics.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (plan path, operation name)
//   - Log rotation with configurable size limits
//   - Optional gzip compression for rotated logs
//   - Log aggregation and filtering utilities
//   - Export to JSON, text, or CSV formats
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger for a log file path (empty path logs to stderr):
//
//	logger, err := logging.NewLogger("/path/to/planwright.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Debug("resolved references", "nodes", 8)
//	logger.Info("plan finalized", "path", planPath)
//	logger.Warn("overlap detected", "a", 2, "b", 5)
//	logger.Error("atomic write failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	// Add the operation name
//	opLogger := logger.WithOp("update")
//
//	// Add the plan path
//	planLogger := opLogger.WithPlan("/tmp/plan.json")
//
//	// All logs from planLogger will include op and plan
//	planLogger.Info("batch applied", "updated", 3)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"batch applied","op":"update","plan":"/tmp/plan.json","updated":3}
//
// # Log Rotation
//
// For long-running observers (watch, top), use log rotation to prevent
// unbounded growth:
//
//	config := logging.RotationConfig{
//	    MaxSizeMB:  10,    // Rotate when file exceeds 10MB
//	    MaxBackups: 3,     // Keep 3 backup files
//	    Compress:   true,  // Gzip compress rotated files
//	}
//
//	logger, err := logging.NewLoggerWithRotation("/path/to/planwright.log", "INFO", config)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
// Rotated files are named: planwright.log.1, planwright.log.2, etc., where
// .1 is the most recent backup. When compression is enabled, rotated files
// become planwright.log.1.gz, etc.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger in tests without creating files
//	}
//
// # Log Aggregation and Filtering
//
// Read and analyze logs after a run:
//
//	// Load all entries from a log file
//	entries, err := logging.AggregateLogs("/path/to/planwright.log")
//	if err != nil {
//	    return err
//	}
//
//	// Filter logs by various criteria
//	filter := logging.LogFilter{
//	    Level:     "WARN",                           // Minimum level
//	    Op:        "update",                         // Specific operation
//	    StartTime: time.Now().Add(-1 * time.Hour),  // Last hour
//	}
//	filtered := logging.FilterLogs(entries, filter)
//
//	// Export to various formats
//	logging.ExportLogEntries(filtered, "errors.json", "json")
//	logging.ExportLogEntries(filtered, "errors.txt", "text")
//	logging.ExportLogEntries(filtered, "errors.csv", "csv")
//
// # Log Levels
//
// The package defines four log levels:
//
//   - [LevelDebug]: Detailed information for debugging
//   - [LevelInfo]: General operational information (default)
//   - [LevelWarn]: Warning conditions that may need attention
//   - [LevelError]: Error conditions that affect functionality
//
// Use [ValidLevels] to get the list of valid level strings, and [ParseLevel]
// to normalize user-provided level strings.
//
// # Configuration
//
// The logging system is typically configured via the planwright config file:
//
//	logging:
//	  level: info
//	  file: ""
//	  max_size_mb: 10
//	  max_backups: 3
package logging
