package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View and export the engine log",
	Long: `Logs reads the engine's JSON log file, applies filters, and either
displays the entries or exports them to a file.

Examples:
  # Show the last 50 entries
  planwright logs

  # Only warnings and errors from update operations
  planwright logs --level warn --op update

  # Entries from the last hour mentioning a node
  planwright logs --since 1h --grep auth-api

  # Export everything as CSV
  planwright logs --export run.csv --format csv`,
	RunE: runLogs,
}

var (
	logsFile   string
	logsLevel  string
	logsOp     string
	logsPlan   string
	logsGrep   string
	logsSince  string
	logsTail   int
	logsExport string
	logsFormat string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsFile, "file", "", "Log file to read (default: logging.file from config)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsOp, "op", "", "Filter by operation (validate, update, ...)")
	logsCmd.Flags().StringVar(&logsPlan, "plan", "", "Filter by plan document path")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter by message substring")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Export entries to this file instead of displaying")
	logsCmd.Flags().StringVar(&logsFormat, "format", "json", "Export format (json/text/csv)")
}

// logsResult is the logs payload when displaying entries.
type logsResult struct {
	OK      bool               `json:"ok"`
	Count   int                `json:"count"`
	Entries []logging.LogEntry `json:"entries"`
}

func (r logsResult) renderHuman(w io.Writer) {
	if len(r.Entries) == 0 {
		fmt.Fprintf(w, "%s no matching log entries\n", mutedStyle.Render("·"))
		return
	}
	for i := range r.Entries {
		fmt.Fprintln(w, formatLogEntry(&r.Entries[i]))
	}
}

// exportLogsResult is the logs payload when exporting.
type exportLogsResult struct {
	OK       bool   `json:"ok"`
	Exported int    `json:"exported"`
	Path     string `json:"path"`
	Format   string `json:"format"`
}

func (r exportLogsResult) renderHuman(w io.Writer) {
	fmt.Fprintf(w, "%s exported %d entries to %s (%s)\n",
		okStyle.Render("✓"), r.Exported, r.Path, r.Format)
}

// levelStyle returns the lipgloss style for a log level.
func levelStyle(level string) func(...string) string {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return mutedStyle.Render
	case logging.LevelWarn:
		return warnStyle.Render
	case logging.LevelError:
		return errorStyle.Render
	default:
		return okStyle.Render
	}
}

// formatLogEntry renders one entry for terminal display.
func formatLogEntry(entry *logging.LogEntry) string {
	var sb strings.Builder

	sb.WriteString(mutedStyle.Render("[" + entry.Timestamp.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(levelStyle(entry.Level)("[" + strings.ToUpper(entry.Level) + "]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Message)

	if entry.Op != "" {
		sb.WriteString(mutedStyle.Render(" op=" + entry.Op))
	}
	if entry.Plan != "" {
		sb.WriteString(mutedStyle.Render(" plan=" + entry.Plan))
	}
	for key, value := range entry.Attrs {
		sb.WriteString(" ")
		sb.WriteString(mutedStyle.Render(key + "="))
		sb.WriteString(fmt.Sprintf("%v", value))
	}
	return sb.String()
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	logPath := logsFile
	if logPath == "" {
		logPath = cfg.Logging.File
	}
	if logPath == "" {
		return fail(cmd, errors.NewValidationError(
			"no log file configured, set logging.file or pass --file").
			WithField("file").
			WithCause(errors.ErrInvalidInput))
	}

	filter := logging.LogFilter{
		Level:           logsLevel,
		Plan:            logsPlan,
		Op:              logsOp,
		MessageContains: logsGrep,
	}
	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return fail(cmd, errors.NewValidationError(
				fmt.Sprintf("invalid --since duration %q", logsSince)).
				WithField("since").
				WithCause(errors.ErrInvalidInput))
		}
		filter.StartTime = time.Now().Add(-duration)
	}

	entries, err := logging.AggregateLogs(logPath)
	if err != nil {
		return fail(cmd, errors.NewStoreError("failed to read log file", err).
			WithPath(logPath).WithOp("read"))
	}
	entries = logging.FilterLogs(entries, filter)

	if logsExport != "" {
		if err := logging.ExportLogEntries(entries, logsExport, logsFormat); err != nil {
			return fail(cmd, errors.NewStoreError("log export failed", err).
				WithPath(logsExport).WithOp("write"))
		}
		return emit(cmd, exportLogsResult{
			OK:       true,
			Exported: len(entries),
			Path:     logsExport,
			Format:   strings.ToLower(logsFormat),
		})
	}

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}
	if entries == nil {
		entries = []logging.LogEntry{}
	}
	return emit(cmd, logsResult{OK: true, Count: len(entries), Entries: entries})
}
