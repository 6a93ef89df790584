package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/overlap"
)

var overlapCmd = &cobra.Command{
	Use:   "overlap <plan>",
	Short: "Report scope overlaps between independent nodes",
	Long: `Overlap compares the declared filesystem scopes of every pair of nodes
that could run concurrently and reports the pairs that touch the same
files. Pairs already ordered by a dependency are skipped; the dependency
serializes them.`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlap,
}

func init() {
	rootCmd.AddCommand(overlapCmd)
}

// overlapResult is the overlap payload.
type overlapResult struct {
	OK        bool               `json:"ok"`
	Matrix    [][]int            `json:"matrix"`
	Conflicts []overlap.Conflict `json:"conflicts"`
}

func (r overlapResult) renderHuman(w io.Writer) {
	if len(r.Conflicts) == 0 {
		fmt.Fprintf(w, "%s no scope overlaps\n", okStyle.Render("✓"))
		return
	}
	fmt.Fprintf(w, "%s %d scope overlap(s)\n", warnStyle.Render("!"), len(r.Conflicts))
	for _, c := range r.Conflicts {
		fmt.Fprintf(w, "  %s ~ %s: %s\n", c.A, c.B, mutedStyle.Render(c.Detail))
	}
}

func runOverlap(cmd *cobra.Command, args []string) error {
	logger := newLogger("overlap")
	defer logger.Close()

	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	g, _ := graph.Build(doc, graph.Permissive)
	analysis := overlap.Analyze(doc, g)
	logger.Info("overlap analysis finished", "conflicts", len(analysis.Conflicts))

	conflicts := analysis.Conflicts
	if conflicts == nil {
		conflicts = []overlap.Conflict{}
	}
	return emit(cmd, overlapResult{
		OK:        true,
		Matrix:    analysis.Matrix,
		Conflicts: conflicts,
	})
}
