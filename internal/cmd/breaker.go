package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/breaker"
	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/graph"
)

var breakerCmd = &cobra.Command{
	Use:   "breaker <plan>",
	Short: "Decide whether the plan run should be aborted",
	Long: `Breaker evaluates the circuit-breaker heuristic: when failures would
cascade into at least half of the remaining pending work, continuing is
waste and the run should stop.

Small plans never trip the breaker, and a plan with no pending work has
nothing left to protect.`,
	Args: cobra.ExactArgs(1),
	RunE: runBreaker,
}

func init() {
	rootCmd.AddCommand(breakerCmd)
}

// breakerResult is the breaker payload: the decision plus ok.
type breakerResult struct {
	OK bool `json:"ok"`
	breaker.Decision
}

func (r breakerResult) renderHuman(w io.Writer) {
	if r.Abort {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗ abort:"), r.Reason)
	} else {
		fmt.Fprintf(w, "%s continue (%d pending)\n", okStyle.Render("✓"), r.Pending)
	}
	if len(r.WouldSkip) > 0 {
		fmt.Fprintf(w, "  would skip: %v\n", r.WouldSkip)
	}
}

func runBreaker(cmd *cobra.Command, args []string) error {
	logger := newLogger("breaker")
	defer logger.Close()

	cfg := config.Get()
	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	g, _ := graph.Build(doc, graph.Permissive)
	decision := breaker.New(
		breaker.WithMinNodes(cfg.Breaker.MinNodes),
		breaker.WithSkipRatio(cfg.Breaker.SkipRatio),
	).Evaluate(doc, g)

	logger.Info("breaker evaluated",
		"abort", decision.Abort,
		"wouldSkip", len(decision.WouldSkip),
		"pending", decision.Pending)

	if decision.WouldSkip == nil {
		decision.WouldSkip = []int{}
	}
	if decision.FailedOrBlocked == nil {
		decision.FailedOrBlocked = []int{}
	}
	return emit(cmd, breakerResult{OK: true, Decision: decision})
}
