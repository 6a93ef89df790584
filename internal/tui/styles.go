package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/planwright/planwright/internal/plan"
)

var (
	// Colors - all meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	primaryColor = lipgloss.Color("#A78BFA") // Purple (violet-400)
	greenColor   = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red (red-400)
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray (brighter for readability)
	orangeColor  = lipgloss.Color("#FB923C") // Orange
	yellowColor  = lipgloss.Color("#FBBF24") // Yellow
	borderColor  = lipgloss.Color("#6B7280") // Gray (gray-500)
	textColor    = lipgloss.Color("#F9FAFB") // Light text

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	runnableStyle = lipgloss.NewStyle().Foreground(warningColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(lipgloss.Color("#1F2937"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(errorColor).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	statusStyles = map[plan.Status]lipgloss.Style{
		plan.StatusPending:    lipgloss.NewStyle().Foreground(mutedColor),
		plan.StatusInProgress: lipgloss.NewStyle().Foreground(greenColor),
		plan.StatusCompleted:  lipgloss.NewStyle().Foreground(primaryColor),
		plan.StatusFailed:     lipgloss.NewStyle().Foreground(errorColor),
		plan.StatusBlocked:    lipgloss.NewStyle().Foreground(orangeColor),
		plan.StatusSkipped:    lipgloss.NewStyle().Foreground(yellowColor),
	}
)

// statusStyle returns the style for a node status, falling back to muted for
// anything unknown.
func statusStyle(s plan.Status) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return mutedStyle
}

// statusGlyph returns the one-column marker for a node status.
func statusGlyph(s plan.Status) string {
	switch s {
	case plan.StatusCompleted:
		return "✓"
	case plan.StatusInProgress:
		return "▶"
	case plan.StatusFailed:
		return "✗"
	case plan.StatusBlocked:
		return "■"
	case plan.StatusSkipped:
		return "↷"
	default:
		return "·"
	}
}
