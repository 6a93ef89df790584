package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/plan"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize <plan>",
	Short: "Validate a plan and write the derived fields back to disk",
	Long: `Finalize runs the same checks as validate and, when the plan is
structurally sound, writes the engine-derived fields into the document:
per-node dependency depths, scope overlap annotations, and an initialized
progress record.

A plan with blocking issues is not touched; finalize fails with
validation_failed and a nonzero exit so a pipeline halts before executing a
broken plan.`,
	Args: cobra.ExactArgs(1),
	RunE: runFinalize,
}

func init() {
	rootCmd.AddCommand(finalizeCmd)
}

// finalizeResult is the finalize payload.
type finalizeResult struct {
	OK           bool         `json:"ok"`
	Finalized    bool         `json:"finalized"`
	Depths       []int        `json:"depths"`
	OverlapCount int          `json:"overlapCount"`
	Warnings     []plan.Issue `json:"warnings"`
}

func (r finalizeResult) renderHuman(w io.Writer) {
	fmt.Fprintf(w, "%s plan finalized (%d nodes", okStyle.Render("✓"), len(r.Depths))
	if r.OverlapCount > 0 {
		fmt.Fprintf(w, ", %d overlap(s)", r.OverlapCount)
	}
	fmt.Fprintln(w, ")")
	for i := range r.Warnings {
		renderIssue(w, r.Warnings[i])
	}
}

func runFinalize(cmd *cobra.Command, args []string) error {
	logger := newLogger("finalize")
	defer logger.Close()

	cfg := config.Get()
	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	r := reviewPlan(doc, cfg)
	if r.Result.HasErrors() {
		logger.Warn("finalize rejected plan",
			"errors", r.Result.ErrorCount,
			"cycle", r.Cycle != nil)
		return fail(cmd, errors.Wrapf(errors.ErrValidationFailed,
			"plan has %d blocking issue(s), run validate for details", r.Result.ErrorCount))
	}

	for i := range doc.Nodes {
		doc.Nodes[i].Depth = r.Depths[i]
	}
	r.Overlap.Annotate(doc)
	doc.EnsureProgress()

	if err := plan.Save(args[0], doc); err != nil {
		logger.Error("finalize save failed", "error", err)
		return fail(cmd, err)
	}
	logger.Info("plan finalized",
		"nodes", len(doc.Nodes),
		"overlaps", len(r.Overlap.Conflicts))

	warnings := append(r.Result.BySeverity(plan.SeverityWarning), r.Result.BySeverity(plan.SeverityInfo)...)
	if warnings == nil {
		warnings = []plan.Issue{}
	}
	return emit(cmd, finalizeResult{
		OK:           true,
		Finalized:    true,
		Depths:       r.Depths,
		OverlapCount: len(r.Overlap.Conflicts),
		Warnings:     warnings,
	})
}
