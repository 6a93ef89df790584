package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planwright/planwright/internal/config"
	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/overlap"
	"github.com/planwright/planwright/internal/plan"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan>",
	Short: "Check a plan document for structural problems",
	Long: `Validate runs every structural check against the plan document and reports
all findings at once: schema problems, duplicate names, bad references,
dependency cycles, excessive depth, and scope overlaps.

Structural problems are reported in the result payload with ok set to false;
the command still exits 0. Only an unreadable or unparseable plan file exits
nonzero.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// -----------------------------------------------------------------------------
// Shared Review
// -----------------------------------------------------------------------------

// review is the exhaustive structural examination shared by validate and
// finalize. Every check runs; nothing stops at the first finding.
type review struct {
	Result *plan.Result
	Graph  *graph.Graph

	// Cycle holds one closed witness path when the graph is cyclic.
	Cycle []string

	// Depths holds per-node dependency depths. Nil when the graph is cyclic.
	Depths []int

	Overlap *overlap.Analysis
}

// reviewPlan collects all structural findings for the document: node and
// auxiliary checks, reference resolution, cycle detection, depth limits, and
// scope overlap warnings.
func reviewPlan(doc *plan.Document, cfg *config.Config) *review {
	r := &review{Result: plan.ValidateStructure(doc, cfg.Plan.MaxNodes)}

	g, issues := graph.Build(doc, graph.Permissive)
	r.Graph = g
	r.Result.AddAll(issues)

	if cycle := g.Cycle(); cycle != nil {
		r.Cycle = cycle
		r.Result.Add(plan.Issue{
			Severity: plan.SeverityError,
			Message:  "Dependency cycle detected: " + strings.Join(cycle, " -> "),
			Field:    "dependencies",
			Related:  cycle[:len(cycle)-1],
		})
	} else if depths, err := g.Depths(); err == nil {
		r.Depths = depths
		for i, d := range depths {
			if d > cfg.Plan.MaxDepth {
				r.Result.Add(plan.Issue{
					Severity:   plan.SeverityWarning,
					Message:    fmt.Sprintf("Dependency depth %d exceeds the maximum of %d", d, cfg.Plan.MaxDepth),
					Node:       doc.NodeIdentity(i),
					Field:      "dependencies",
					Suggestion: "Flatten the dependency chain or raise plan.max_depth",
				})
			}
		}
	}

	r.Overlap = overlap.Analyze(doc, g)
	for _, c := range r.Overlap.Conflicts {
		r.Result.Add(plan.Issue{
			Severity:   plan.SeverityWarning,
			Message:    fmt.Sprintf("Scope overlap between %s and %s: %s", c.A, c.B, c.Detail),
			Node:       c.B,
			Field:      "scope",
			Related:    []string{c.A},
			Suggestion: "Narrow the scopes or order the nodes with a dependency",
		})
	}

	return r
}

// -----------------------------------------------------------------------------
// Command
// -----------------------------------------------------------------------------

// validateResult is the validate payload. Issues holds error-level findings,
// Warnings everything below.
type validateResult struct {
	OK       bool         `json:"ok"`
	Nodes    int          `json:"nodes"`
	Issues   []plan.Issue `json:"issues"`
	Warnings []plan.Issue `json:"warnings"`
}

func (r validateResult) renderHuman(w io.Writer) {
	if r.OK {
		fmt.Fprintf(w, "%s plan is valid (%d nodes)\n", okStyle.Render("✓"), r.Nodes)
	} else {
		fmt.Fprintf(w, "%s plan has %d issue(s)\n", errorStyle.Render("✗"), len(r.Issues))
	}
	for i := range r.Issues {
		renderIssue(w, r.Issues[i])
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "%s\n", warnStyle.Render(fmt.Sprintf("%d warning(s)", len(r.Warnings))))
		for i := range r.Warnings {
			renderIssue(w, r.Warnings[i])
		}
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := newLogger("validate")
	defer logger.Close()

	cfg := config.Get()
	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}

	r := reviewPlan(doc, cfg)
	logger.Info("validation finished",
		"errors", r.Result.ErrorCount,
		"warnings", r.Result.WarningCount)

	payload := validateResult{
		OK:       !r.Result.HasErrors(),
		Nodes:    len(doc.Nodes),
		Issues:   r.Result.BySeverity(plan.SeverityError),
		Warnings: append(r.Result.BySeverity(plan.SeverityWarning), r.Result.BySeverity(plan.SeverityInfo)...),
	}
	if payload.Issues == nil {
		payload.Issues = []plan.Issue{}
	}
	if payload.Warnings == nil {
		payload.Warnings = []plan.Issue{}
	}
	return emit(cmd, payload)
}
