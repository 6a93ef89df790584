package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/logging"
	"github.com/planwright/planwright/internal/plan"
)

// -----------------------------------------------------------------------------
// Output Mode
// -----------------------------------------------------------------------------

// jsonMode reports whether results should be emitted as JSON. JSON wins when
// --json is set or stdout is not a terminal; captured test writers render
// human unless --json asks otherwise.
func jsonMode(cmd *cobra.Command) bool {
	if flagJSON {
		return true
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return false
}

// humanRenderer is implemented by payloads that have a styled terminal view.
// Payloads without one fall back to JSON in both modes.
type humanRenderer interface {
	renderHuman(w io.Writer)
}

// emit writes the payload to the command's stdout in the active mode.
func emit(cmd *cobra.Command, payload any) error {
	out := cmd.OutOrStdout()
	if !jsonMode(cmd) {
		if h, ok := payload.(humanRenderer); ok {
			h.renderHuman(out)
			return nil
		}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to encode result: %v\n", err)
		return silenced(err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// -----------------------------------------------------------------------------
// Failure Handling
// -----------------------------------------------------------------------------

// silentError marks errors whose payload was already written to stdout, so
// Execute knows not to print them again.
type silentError struct {
	err error
}

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

func silenced(err error) error { return &silentError{err: err} }

// failure is the JSON payload for any failed operation.
type failure struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (f failure) renderHuman(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), f.Message)
	fmt.Fprintf(w, "  %s\n", mutedStyle.Render(f.Error))
}

// fail emits the failure payload for err and returns it silenced, mapping
// the operation to exit code 1.
func fail(cmd *cobra.Command, err error) error {
	_ = emit(cmd, failure{OK: false, Error: errors.Token(err), Message: err.Error()})
	return silenced(err)
}

// loadPlan loads the document for an operation. Load failures are emitted
// as their payload and mapped to exit 1; every operation fails the same way
// on an unreadable plan.
func loadPlan(cmd *cobra.Command, path string, logger *logging.Logger) (*plan.Document, error) {
	doc, err := plan.Load(path)
	if err != nil {
		logger.Error("plan load failed", "error", err)
		return nil, fail(cmd, err)
	}
	logger.Debug("plan loaded", "nodes", len(doc.Nodes))
	return doc, nil
}

// -----------------------------------------------------------------------------
// Styles
// -----------------------------------------------------------------------------

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))            // Green
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))            // Red (red-400)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))            // Amber
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))            // Gray
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA")) // Purple (violet-400)

	statusColors = map[plan.Status]lipgloss.Style{
		plan.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")), // Gray
		plan.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")), // Green
		plan.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")), // Purple
		plan.StatusFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")), // Red
		plan.StatusBlocked:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FB923C")), // Orange
		plan.StatusSkipped:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")), // Yellow
	}
)

// renderStatus returns the status name in its color.
func renderStatus(s plan.Status) string {
	if style, ok := statusColors[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// renderIssue writes one validation issue line.
func renderIssue(w io.Writer, issue plan.Issue) {
	marker := warnStyle.Render("!")
	if issue.IsError() {
		marker = errorStyle.Render("✗")
	}
	where := ""
	if issue.Node != "" {
		where = " [" + issue.Node + "]"
	}
	fmt.Fprintf(w, "  %s%s %s\n", marker, mutedStyle.Render(where), issue.Message)
	if issue.Suggestion != "" {
		fmt.Fprintf(w, "      %s\n", mutedStyle.Render(issue.Suggestion))
	}
}
