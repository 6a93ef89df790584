package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/plan"
	"github.com/planwright/planwright/internal/status"
)

var (
	updateSets []string
	updateFile string
)

var updateCmd = &cobra.Command{
	Use:   "update <plan>",
	Short: "Apply status transitions and cascade the fallout",
	Long: `Update applies one or more status transitions to the plan, skips every
pending node whose dependencies can no longer complete, and writes the
document back atomically.

Transitions come from repeatable --set flags (node=status[:result]) and/or
an --updates file holding a JSON or YAML array of {node, status, result}
entries. File entries apply first, then flags, in the order given.

The whole batch is checked before anything is written: one illegal
transition rejects the batch and leaves the document untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringArrayVar(&updateSets, "set", nil,
		"transition as node=status[:result] (repeatable)")
	updateCmd.Flags().StringVar(&updateFile, "updates", "",
		"file with a JSON or YAML array of {node, status, result}")
}

// updateEntry is one requested transition, from --set or the batch file.
type updateEntry struct {
	Node   string `json:"node" yaml:"node"`
	Status string `json:"status" yaml:"status"`
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
}

// parseSetFlag splits a --set value into its entry. The result part is
// optional and may itself contain colons.
func parseSetFlag(s string) (updateEntry, error) {
	node, rest, ok := strings.Cut(s, "=")
	if !ok || node == "" || rest == "" {
		return updateEntry{}, errors.NewValidationError(
			fmt.Sprintf("malformed --set %q, want node=status[:result]", s)).
			WithField("set").
			WithCause(errors.ErrInvalidInput)
	}
	st, result, _ := strings.Cut(rest, ":")
	return updateEntry{Node: node, Status: st, Result: result}, nil
}

// readUpdateFile loads batch entries from a JSON or YAML file. JSON is tried
// first so .json files get json-grade error messages; anything else goes
// through the YAML parser.
func readUpdateFile(path string) ([]updateEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStoreError("failed to read updates file", err).
			WithPath(path).WithOp("read")
	}
	var entries []updateEntry
	if jsonErr := json.Unmarshal(data, &entries); jsonErr == nil {
		return entries, nil
	}
	if yamlErr := yaml.Unmarshal(data, &entries); yamlErr != nil {
		return nil, errors.NewValidationError(
			fmt.Sprintf("updates file is neither a JSON nor a YAML array: %v", yamlErr)).
			WithField("updates").
			WithCause(errors.ErrInvalidInput)
	}
	return entries, nil
}

// updateResult is the update payload. Updated holds the requested
// transitions, Cascaded the skips they caused.
type updateResult struct {
	OK       bool            `json:"ok"`
	Updated  []status.Change `json:"updated"`
	Cascaded []status.Change `json:"cascaded"`
	Trimmed  int             `json:"trimmed"`
}

func (r updateResult) renderHuman(w io.Writer) {
	for _, c := range r.Updated {
		fmt.Fprintf(w, "%s %s: %s -> %s\n", okStyle.Render("✓"), c.Node,
			renderStatus(c.From), renderStatus(c.To))
	}
	for _, c := range r.Cascaded {
		line := fmt.Sprintf("%s %s: %s -> %s", warnStyle.Render("↳"), c.Node,
			renderStatus(c.From), renderStatus(c.To))
		if c.Cause != "" {
			line += mutedStyle.Render(" (dependency " + c.Cause + ")")
		}
		fmt.Fprintln(w, line)
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	logger := newLogger("update")
	defer logger.Close()

	var entries []updateEntry
	if updateFile != "" {
		fromFile, err := readUpdateFile(updateFile)
		if err != nil {
			logger.Error("updates file rejected", "error", err)
			return fail(cmd, err)
		}
		entries = append(entries, fromFile...)
	}
	for _, s := range updateSets {
		entry, err := parseSetFlag(s)
		if err != nil {
			logger.Error("set flag rejected", "error", err)
			return fail(cmd, err)
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return fail(cmd, errors.NewValidationError("no updates given, use --set or --updates").
			WithCause(errors.ErrInvalidInput))
	}

	doc, err := loadPlan(cmd, args[0], logger)
	if err != nil {
		return err
	}
	g, _ := graph.Build(doc, graph.Permissive)

	updates := make([]status.Update, 0, len(entries))
	for _, e := range entries {
		idx, err := g.Resolve(e.Node)
		if err != nil {
			logger.Error("update target not found", "node", e.Node)
			return fail(cmd, err)
		}
		updates = append(updates, status.Update{
			Index:  idx,
			To:     plan.Status(e.Status),
			Result: e.Result,
		})
	}

	changes, err := status.Apply(doc, updates)
	if err != nil {
		logger.Error("update rejected", "error", err)
		return fail(cmd, err)
	}

	trimmed := 0
	var seeds []int
	for _, c := range changes {
		switch c.To {
		case plan.StatusCompleted:
			trimmed++
		case plan.StatusFailed, plan.StatusBlocked:
			seeds = append(seeds, c.Index)
		}
	}
	cascaded := status.Cascade(doc, g, seeds)

	if err := plan.Save(args[0], doc); err != nil {
		logger.Error("update save failed", "error", err)
		return fail(cmd, err)
	}
	logger.Info("plan updated",
		"updated", len(changes),
		"cascaded", len(cascaded),
		"trimmed", trimmed)

	if cascaded == nil {
		cascaded = []status.Change{}
	}
	return emit(cmd, updateResult{
		OK:       true,
		Updated:  changes,
		Cascaded: cascaded,
		Trimmed:  trimmed,
	})
}
