// Package util provides small string helpers shared by the output surfaces.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens a string to maxLen runes, ending it with "..." when it
// was cut. Plain rune counting; not safe for styled terminal output, use
// TruncateANSI there.
func Truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateANSI shortens a string to maxWidth visual columns, ending it with
// "..." when it was cut. Escape sequences and wide characters are measured
// correctly, so styled node summaries keep their styling after the cut.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate counts the tail into the final width.
	return ansi.Truncate(s, maxWidth, "...")
}
