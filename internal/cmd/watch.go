package cmd

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/plan"
	"github.com/planwright/planwright/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <plan>",
	Short: "Stream plan status as the file changes",
	Long: `Watch emits one compact JSON status line for the current plan state and
another for every change to the file, until interrupted. Bursts of writes
are debounced into a single reload.

A plan that disappears or turns unparseable mid-watch is reported as a
failure line; watching continues and recovery produces a normal line.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0,
		"quiet period before reloading (0 uses watch.debounce_ms from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger("watch")
	defer logger.Close()

	cfg := config.Get()
	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(planStatus(doc)); err != nil {
		return silenced(err)
	}

	debounce := watchDebounce
	if debounce <= 0 {
		debounce = cfg.Watch.Debounce()
	}
	w, err := watch.New(args[0], debounce, logger)
	if err != nil {
		logger.Error("watch setup failed", "error", err)
		return fail(cmd, err)
	}
	w.OnChange(func(doc *plan.Document, err error) {
		if err != nil {
			_ = enc.Encode(failure{OK: false, Error: errors.Token(err), Message: err.Error()})
			return
		}
		_ = enc.Encode(planStatus(doc))
	})
	if err := w.Start(); err != nil {
		logger.Error("watch start failed", "error", err)
		return fail(cmd, err)
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("watch stopped")
	return nil
}
