package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/plan"
	"github.com/planwright/planwright/internal/pool"
)

var statusCmd = &cobra.Command{
	Use:   "status <plan>",
	Short: "Summarize a plan's execution state",
	Long: `Status reports where a plan stands: node counts by status, the set of
nodes whose dependencies are satisfied, and the completion log.

Status stays usable on a broken graph. A cyclic plan is reported with
cycleDetected set and the depth-derived fields omitted rather than failing.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusResult is the status payload, also emitted per change by watch.
type statusResult struct {
	OK            bool           `json:"ok"`
	Goal          string         `json:"goal"`
	Total         int            `json:"total"`
	Counts        map[string]int `json:"counts"`
	Runnable      []int          `json:"runnable"`
	CycleDetected bool           `json:"cycleDetected"`
	Depths        []int          `json:"depths,omitempty"`
	Completed     []string       `json:"completed"`
}

func (r statusResult) renderHuman(w io.Writer) {
	fmt.Fprintln(w, headerStyle.Render(r.Goal))
	if r.CycleDetected {
		fmt.Fprintf(w, "%s dependency cycle detected\n", errorStyle.Render("✗"))
	}

	order := []plan.Status{
		plan.StatusPending, plan.StatusInProgress, plan.StatusCompleted,
		plan.StatusFailed, plan.StatusBlocked, plan.StatusSkipped,
	}
	fmt.Fprintf(w, "%d nodes:", r.Total)
	for _, s := range order {
		if n := r.Counts[string(s)]; n > 0 {
			fmt.Fprintf(w, " %s", renderStatus(s)+fmt.Sprintf(" %d", n))
		}
	}
	fmt.Fprintln(w)

	if len(r.Runnable) > 0 {
		fmt.Fprintf(w, "runnable: %v\n", r.Runnable)
	}
	if len(r.Completed) > 0 {
		fmt.Fprintf(w, "%s %d completed\n", okStyle.Render("✓"), len(r.Completed))
	}
}

// planStatus assembles the status payload for a loaded document. Shared with
// the watch command, which re-emits it on every change.
func planStatus(doc *plan.Document) statusResult {
	g, _ := graph.Build(doc, graph.Permissive)

	counts := make(map[string]int)
	for s, n := range doc.CountByStatus() {
		counts[string(s)] = n
	}

	r := statusResult{
		OK:       true,
		Goal:     doc.Goal,
		Total:    len(doc.Nodes),
		Counts:   counts,
		Runnable: pool.Runnable(doc, g),
	}
	if r.Runnable == nil {
		r.Runnable = []int{}
	}

	if g.Cycle() != nil {
		r.CycleDetected = true
	} else if depths, err := g.Depths(); err == nil {
		r.Depths = depths
	}

	if doc.Progress != nil {
		r.Completed = doc.Progress.Completed
	}
	if r.Completed == nil {
		r.Completed = []string{}
	}
	return r
}

func runStatus(cmd *cobra.Command, args []string) error {
	logger := newLogger("status")
	defer logger.Close()

	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}
	return emit(cmd, planStatus(doc))
}
