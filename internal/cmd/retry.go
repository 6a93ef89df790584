package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/status"
)

var retryMaxAttempts int

var retryCmd = &cobra.Command{
	Use:   "retry <plan>",
	Short: "List failed nodes that still have retry budget",
	Long: `Retry reports which failed nodes can be sent back to pending: those whose
attempt count is still below the maximum. It does not transition anything;
pair it with update --set node=pending to actually retry.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetry,
}

func init() {
	rootCmd.AddCommand(retryCmd)
	retryCmd.Flags().IntVar(&retryMaxAttempts, "max-attempts", 0,
		"attempt ceiling (0 uses plan.max_attempts from config)")
}

// retryResult is the retry payload.
type retryResult struct {
	OK         bool  `json:"ok"`
	Candidates []int `json:"candidates"`
}

func (r retryResult) renderHuman(w io.Writer) {
	if len(r.Candidates) == 0 {
		fmt.Fprintf(w, "%s nothing to retry\n", mutedStyle.Render("·"))
		return
	}
	fmt.Fprintf(w, "%s %d node(s) can be retried: %v\n",
		okStyle.Render("✓"), len(r.Candidates), r.Candidates)
}

func runRetry(cmd *cobra.Command, args []string) error {
	logger := newLogger("retry")
	defer logger.Close()

	cfg := config.Get()
	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	maxAttempts := retryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = cfg.Plan.MaxAttempts
	}

	candidates := status.RetryCandidates(doc, maxAttempts)
	logger.Info("retry candidates computed", "candidates", len(candidates))

	if candidates == nil {
		candidates = []int{}
	}
	return emit(cmd, retryResult{OK: true, Candidates: candidates})
}
