// Package tui provides the live terminal dashboard for a plan document.
//
// The top view follows The Elm Architecture via bubbletea: the model holds a
// periodically reloaded snapshot of the plan, Update reacts to keys and
// refresh ticks, and View renders the current snapshot. The dashboard is a
// read-only observer; it never writes the document.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planwright/planwright/internal/breaker"
	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/plan"
	"github.com/planwright/planwright/internal/pool"
	"github.com/planwright/planwright/internal/util"
)

const refreshInterval = 2 * time.Second

// snapshot is one loaded-and-analyzed plan state.
type snapshot struct {
	doc      *plan.Document
	runnable map[int]bool
	depths   []int
	cycle    bool
	decision breaker.Decision
	err      error
	taken    time.Time
}

// refreshMsg delivers a new snapshot to the model.
type refreshMsg snapshot

// Model is the top view model. Zero value is not usable; construct with New.
type Model struct {
	path string
	brk  *breaker.Breaker

	snap      snapshot
	selected  int
	width     int
	height    int
	filter    textinput.Model
	filtering bool
	quitting  bool
}

// New creates a top view for the plan at path.
func New(path string, cfg *config.Config) Model {
	filter := textinput.New()
	filter.Placeholder = "filter nodes"
	filter.Prompt = "/ "
	filter.CharLimit = 64

	return Model{
		path:   path,
		filter: filter,
		brk: breaker.New(
			breaker.WithMinNodes(cfg.Breaker.MinNodes),
			breaker.WithSkipRatio(cfg.Breaker.SkipRatio),
		),
	}
}

// takeSnapshot loads the plan and derives everything the view shows. A load
// failure produces a snapshot carrying only the error; the view keeps
// running and shows it.
func (m Model) takeSnapshot() snapshot {
	s := snapshot{taken: time.Now()}

	doc, err := plan.Load(m.path)
	if err != nil {
		s.err = err
		return s
	}
	s.doc = doc

	g, _ := graph.Build(doc, graph.Permissive)
	s.runnable = make(map[int]bool)
	for _, i := range pool.Runnable(doc, g) {
		s.runnable[i] = true
	}
	if g.Cycle() != nil {
		s.cycle = true
	} else if depths, err := g.Depths(); err == nil {
		s.depths = depths
	}
	s.decision = m.brk.Evaluate(doc, g)
	return s
}

func (m Model) refreshNow() tea.Msg {
	return refreshMsg(m.takeSnapshot())
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg(m.takeSnapshot())
	})
}

// Init is called once when the program starts.
func (m Model) Init() tea.Cmd {
	return m.refreshNow
}

// Update reacts to refresh ticks and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.snap = snapshot(msg)
		if n := m.nodeCount(); n > 0 && m.selected >= n {
			m.selected = n - 1
		}
		m.clampSelection()
		return m, m.scheduleRefresh()

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.refreshNow
		case "/":
			m.filtering = true
			cmd := m.filter.Focus()
			return m, cmd
		case "up", "k":
			m.moveSelection(-1)
		case "down", "j":
			m.moveSelection(1)
		case "g":
			m.moveToEdge(false)
		case "G":
			m.moveToEdge(true)
		}
	}
	return m, nil
}

// updateFilter routes keys to the filter input while it has focus. Enter
// keeps the filter and returns focus to the list; esc drops it.
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.clampSelection()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.clampSelection()
	return m, cmd
}

func (m Model) nodeCount() int {
	if m.snap.doc == nil {
		return 0
	}
	return len(m.snap.doc.Nodes)
}

// visibleNodes returns the document indices matching the filter, in order.
// An empty filter shows every node.
func (m Model) visibleNodes() []int {
	if m.snap.doc == nil {
		return nil
	}
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	out := make([]int, 0, len(m.snap.doc.Nodes))
	for i := range m.snap.doc.Nodes {
		if query == "" ||
			strings.Contains(strings.ToLower(m.snap.doc.NodeIdentity(i)), query) ||
			strings.Contains(strings.ToLower(m.snap.doc.Nodes[i].Summary), query) {
			out = append(out, i)
		}
	}
	return out
}

// moveSelection moves the selection through the visible rows.
func (m *Model) moveSelection(delta int) {
	visible := m.visibleNodes()
	if len(visible) == 0 {
		return
	}
	pos := 0
	for p, idx := range visible {
		if idx == m.selected {
			pos = p
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos > len(visible)-1 {
		pos = len(visible) - 1
	}
	m.selected = visible[pos]
}

// moveToEdge jumps the selection to the first or last visible row.
func (m *Model) moveToEdge(last bool) {
	visible := m.visibleNodes()
	if len(visible) == 0 {
		return
	}
	if last {
		m.selected = visible[len(visible)-1]
		return
	}
	m.selected = visible[0]
}

// clampSelection keeps the selection on a visible row after a refresh or a
// filter change.
func (m *Model) clampSelection() {
	visible := m.visibleNodes()
	if len(visible) == 0 {
		return
	}
	for _, idx := range visible {
		if idx == m.selected {
			return
		}
	}
	m.selected = visible[0]
}

// View renders the current snapshot.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 100
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")

	if m.snap.err != nil {
		b.WriteString(bannerStyle.Render("plan unreadable: " + m.snap.err.Error()))
		b.WriteString("\n")
		b.WriteString(m.renderHelp())
		return b.String()
	}
	if m.snap.doc == nil {
		b.WriteString(mutedStyle.Render("Loading..."))
		return b.String()
	}

	if m.snap.cycle {
		b.WriteString(bannerStyle.Render("dependency cycle detected"))
		b.WriteString("\n")
	}
	if m.snap.decision.Abort {
		b.WriteString(bannerStyle.Render(m.snap.decision.Reason))
		b.WriteString("\n")
	}

	b.WriteString(m.renderCounts())
	b.WriteString("\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, i := range m.visibleNodes() {
		b.WriteString(m.renderRow(i, width))
		b.WriteString("\n")
	}

	if detail := m.renderDetail(width); detail != "" {
		b.WriteString("\n")
		b.WriteString(detail)
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader(width int) string {
	goal := "planwright"
	if m.snap.doc != nil && m.snap.doc.Goal != "" {
		goal = m.snap.doc.Goal
	}
	return titleStyle.Render(util.Truncate(goal, width-2))
}

func (m Model) renderCounts() string {
	counts := m.snap.doc.CountByStatus()
	order := []plan.Status{
		plan.StatusPending, plan.StatusInProgress, plan.StatusCompleted,
		plan.StatusFailed, plan.StatusBlocked, plan.StatusSkipped,
	}
	parts := []string{fmt.Sprintf("%d nodes", len(m.snap.doc.Nodes))}
	for _, s := range order {
		if n := counts[s]; n > 0 {
			parts = append(parts, statusStyle(s).Render(fmt.Sprintf("%s %d", s, n)))
		}
	}
	if n := len(m.snap.runnable); n > 0 {
		parts = append(parts, runnableStyle.Render(fmt.Sprintf("runnable %d", n)))
	}
	return strings.Join(parts, mutedStyle.Render(" · "))
}

func (m Model) renderRow(i, width int) string {
	node := m.snap.doc.Nodes[i]

	marker := " "
	if m.snap.runnable[i] {
		marker = runnableStyle.Render("»")
	}
	depth := "  "
	if m.snap.depths != nil {
		depth = fmt.Sprintf("d%d", m.snap.depths[i])
	}

	line := fmt.Sprintf("%s %s %2d  %-24s %s %s  %s",
		marker,
		statusStyle(node.Status).Render(statusGlyph(node.Status)),
		i,
		util.Truncate(m.snap.doc.NodeIdentity(i), 24),
		statusStyle(node.Status).Render(fmt.Sprintf("%-11s", node.Status)),
		mutedStyle.Render(depth),
		node.Summary,
	)
	line = util.TruncateANSI(line, width)
	if i == m.selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (m Model) renderDetail(width int) string {
	if m.selected < 0 || m.selected >= m.nodeCount() {
		return ""
	}
	visible := false
	for _, idx := range m.visibleNodes() {
		if idx == m.selected {
			visible = true
			break
		}
	}
	if !visible {
		return ""
	}
	node := m.snap.doc.Nodes[m.selected]

	var lines []string
	if node.Summary != "" {
		lines = append(lines, node.Summary)
	}
	if node.Role != "" || node.Model != "" {
		lines = append(lines, mutedStyle.Render(strings.TrimSpace(node.Role+" "+node.Model)))
	}
	if len(node.Dependencies) > 0 {
		refs := make([]string, len(node.Dependencies))
		for i, ref := range node.Dependencies {
			refs[i] = ref.String()
		}
		lines = append(lines, "depends on "+strings.Join(refs, ", "))
	}
	if node.Scope != nil && !node.Scope.IsEmpty() {
		scope := make([]string, 0, len(node.Scope.Directories)+len(node.Scope.Patterns))
		scope = append(scope, node.Scope.Directories...)
		scope = append(scope, node.Scope.Patterns...)
		lines = append(lines, mutedStyle.Render("scope "+strings.Join(scope, " ")))
	}
	if len(node.Overlaps) > 0 {
		lines = append(lines, runnableStyle.Render(fmt.Sprintf("overlaps %v", node.Overlaps)))
	}
	if node.Attempts > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d attempt(s)", node.Attempts)))
	}
	if node.Result != "" {
		lines = append(lines, node.Result)
	}
	if len(lines) == 0 {
		return ""
	}
	for i := range lines {
		lines[i] = util.TruncateANSI(lines[i], width-6)
	}
	title := statusStyle(node.Status).Render(m.snap.doc.NodeIdentity(m.selected))
	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, lines...)...)
	return detailStyle.Width(min(width-2, 80)).Render(content)
}

func (m Model) renderHelp() string {
	updated := ""
	if !m.snap.taken.IsZero() {
		updated = " · updated " + m.snap.taken.Format("15:04:05")
	}
	return helpStyle.Render("↑/↓ select · / filter · r refresh · q quit" + updated)
}

// Run starts the dashboard for the plan at path and blocks until quit.
func Run(path string, cfg *config.Config) error {
	p := tea.NewProgram(New(path, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
