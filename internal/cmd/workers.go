package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/pool"
)

var workersWidth int

var workersCmd = &cobra.Command{
	Use:   "workers <plan>",
	Short: "Propose a worker pool for the runnable nodes",
	Long: `Workers sizes a worker pool for the plan's current frontier: the pending
nodes whose dependencies are all satisfied. Pool width is bounded by the
widest dependency-depth bucket, the number of distinct roles, and --width.

Sizing needs dependency depths, so a cyclic plan fails with cycle_detected.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkers,
}

func init() {
	rootCmd.AddCommand(workersCmd)
	workersCmd.Flags().IntVar(&workersWidth, "width", 0,
		"maximum pool width (0 uses pool.max_width from config)")
}

// workersResult is the workers payload.
type workersResult struct {
	OK          bool          `json:"ok"`
	Workers     []pool.Worker `json:"workers"`
	Concurrency int           `json:"concurrency"`
	Runnable    []int         `json:"runnable"`
}

func (r workersResult) renderHuman(w io.Writer) {
	if len(r.Workers) == 0 {
		fmt.Fprintf(w, "%s no runnable nodes\n", mutedStyle.Render("·"))
		return
	}
	fmt.Fprintf(w, "%s %d worker(s) for %d runnable node(s)\n",
		okStyle.Render("✓"), r.Concurrency, len(r.Runnable))
	for _, worker := range r.Workers {
		line := "  " + headerStyle.Render(worker.Name)
		if worker.Role != "" {
			line += mutedStyle.Render(" (" + worker.Role + ")")
		}
		fmt.Fprintf(w, "%s: %s\n", line, strings.Join(worker.Nodes, ", "))
	}
}

func runWorkers(cmd *cobra.Command, args []string) error {
	logger := newLogger("workers")
	defer logger.Close()

	cfg := config.Get()
	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	width := workersWidth
	if width <= 0 {
		width = cfg.Pool.MaxWidth
	}

	g, _ := graph.Build(doc, graph.Permissive)
	p, err := pool.Plan(doc, g, width)
	if err != nil {
		logger.Error("worker planning failed", "error", err)
		return fail(cmd, err)
	}
	logger.Info("worker pool planned",
		"workers", len(p.Workers),
		"runnable", len(p.Runnable))

	if p.Workers == nil {
		p.Workers = []pool.Worker{}
	}
	if p.Runnable == nil {
		p.Runnable = []int{}
	}
	return emit(cmd, workersResult{
		OK:          true,
		Workers:     p.Workers,
		Concurrency: p.Concurrency,
		Runnable:    p.Runnable,
	})
}
