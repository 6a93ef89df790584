package cmd

import (
	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/tui"
)

var topCmd = &cobra.Command{
	Use:   "top <plan>",
	Short: "Live dashboard for a plan document",
	Long: `Top opens a full-screen dashboard that reloads the plan every two
seconds: per-node status, dependency depth, the runnable frontier, and the
circuit-breaker verdict. The dashboard is read-only and never writes the
document.`,
	Args: cobra.ExactArgs(1),
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, args []string) error {
	logger := newLogger("top")
	defer logger.Close()

	cfg := config.Get()

	// Check the plan loads before taking over the terminal, so obvious
	// failures report like every other operation.
	if _, err := loadPlan(cmd, args[0], logger); err != nil {
		return err
	}
	logger.Info("dashboard started")
	return tui.Run(args[0], cfg)
}
