package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/plan"
	"github.com/planwright/planwright/internal/status"
)

var resetCmd = &cobra.Command{
	Use:   "reset <plan>",
	Short: "Recover nodes stranded in_progress by a dead run",
	Long: `Reset returns every in_progress node to pending, charging an attempt and
clearing its stale result. Use it after an executor died mid-run and left
nodes claiming to be worked on.`,
	Args: cobra.ExactArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

// resetResult is the reset payload.
type resetResult struct {
	OK    bool            `json:"ok"`
	Reset []status.Change `json:"reset"`
}

func (r resetResult) renderHuman(w io.Writer) {
	if len(r.Reset) == 0 {
		fmt.Fprintf(w, "%s nothing in progress\n", mutedStyle.Render("·"))
		return
	}
	for _, c := range r.Reset {
		fmt.Fprintf(w, "%s %s: %s -> %s\n", okStyle.Render("✓"), c.Node,
			renderStatus(c.From), renderStatus(c.To))
	}
}

func runReset(cmd *cobra.Command, args []string) error {
	logger := newLogger("reset")
	defer logger.Close()

	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	changes := status.ResetInterrupted(doc)
	if len(changes) > 0 {
		if err := plan.Save(args[0], doc); err != nil {
			logger.Error("reset save failed", "error", err)
			return fail(cmd, err)
		}
	}
	logger.Info("interrupted nodes reset", "reset", len(changes))

	if changes == nil {
		changes = []status.Change{}
	}
	return emit(cmd, resetResult{OK: true, Reset: changes})
}
