package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// -----------------------------------------------------------------------------
// Validation Types
// -----------------------------------------------------------------------------

// Severity represents the severity level of a validation issue.
//
// Errors block finalization while warnings and info are advisory.
type Severity string

const (
	// SeverityError indicates a blocking issue that must be fixed.
	// Examples: duplicate names, unknown statuses, unresolved references.
	SeverityError Severity = "error"

	// SeverityWarning indicates a potential issue that should be reviewed.
	// Examples: missing summaries, unassigned roles.
	SeverityWarning Severity = "warning"

	// SeverityInfo indicates informational feedback.
	SeverityInfo Severity = "info"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Issue represents a single validation finding with structured context.
type Issue struct {
	// Severity indicates how critical this issue is.
	Severity Severity `json:"severity"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// Node identifies the node this issue relates to (name or decimal
	// index). Empty for plan-level issues.
	Node string `json:"node,omitempty"`

	// Field identifies the specific field causing the issue.
	// Examples: "dependencies", "status", "scope".
	Field string `json:"field,omitempty"`

	// Suggestion provides guidance on how to fix the issue.
	Suggestion string `json:"suggestion,omitempty"`

	// Related lists other node identities involved in this issue.
	// Used for duplicates, cycles, and cross-node findings.
	Related []string `json:"related,omitempty"`
}

// IsError returns true if this issue is an error.
func (i *Issue) IsError() bool {
	return i.Severity == SeverityError
}

// IsWarning returns true if this issue is a warning.
func (i *Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// Result contains the collected validation findings for a plan.
//
// Validation is exhaustive: every check runs and every finding is collected,
// rather than stopping at the first problem.
type Result struct {
	// Valid is true if there are no errors (warnings allowed).
	Valid bool `json:"valid"`

	// Issues contains all findings in the order they were discovered.
	Issues []Issue `json:"issues"`

	// ErrorCount is the number of error-level issues.
	ErrorCount int `json:"errorCount"`

	// WarningCount is the number of warning-level issues.
	WarningCount int `json:"warningCount"`

	// InfoCount is the number of info-level issues.
	InfoCount int `json:"infoCount"`
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{Valid: true}
}

// Add appends an issue and updates the counters.
func (r *Result) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	switch issue.Severity {
	case SeverityError:
		r.ErrorCount++
		r.Valid = false
	case SeverityWarning:
		r.WarningCount++
	case SeverityInfo:
		r.InfoCount++
	}
}

// AddAll appends every issue in order.
func (r *Result) AddAll(issues []Issue) {
	for _, issue := range issues {
		r.Add(issue)
	}
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	return r.ErrorCount > 0
}

// HasWarnings returns true if there are any warning-level issues.
func (r *Result) HasWarnings() bool {
	return r.WarningCount > 0
}

// BySeverity returns all issues of the given severity, in discovery order.
func (r *Result) BySeverity(severity Severity) []Issue {
	var issues []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			issues = append(issues, issue)
		}
	}
	return issues
}

// -----------------------------------------------------------------------------
// Structural Validation
// -----------------------------------------------------------------------------

// ValidateStructure checks the document's node and auxiliary definitions
// without touching the dependency graph. Reference resolution, cycles, and
// depth findings come from graph construction and are merged by the caller.
//
// maxNodes bounds the plan size; zero disables the bound.
func ValidateStructure(doc *Document, maxNodes int) *Result {
	result := NewResult()

	if strings.TrimSpace(doc.Goal) == "" {
		result.Add(Issue{
			Severity:   SeverityWarning,
			Message:    "Plan has no goal",
			Field:      "goal",
			Suggestion: "State the objective this plan decomposes",
		})
	}

	if maxNodes > 0 && len(doc.Nodes) > maxNodes {
		result.Add(Issue{
			Severity: SeverityError,
			Message: fmt.Sprintf("Plan has %d nodes, more than the configured maximum of %d",
				len(doc.Nodes), maxNodes),
			Field:      "nodes",
			Suggestion: "Split the plan into smaller plans or raise plan.max_nodes",
		})
	}

	seen := make(map[string]int)
	for i := range doc.Nodes {
		node := &doc.Nodes[i]
		id := doc.NodeIdentity(i)

		if node.Name != "" {
			if first, ok := seen[node.Name]; ok {
				result.Add(Issue{
					Severity:   SeverityError,
					Message:    fmt.Sprintf("Duplicate node name %q", node.Name),
					Node:       strconv.Itoa(i),
					Field:      "name",
					Suggestion: "Node names must be unique within the plan",
					Related:    []string{strconv.Itoa(first)},
				})
			} else {
				seen[node.Name] = i
			}
		}

		if node.Summary == "" {
			result.Add(Issue{
				Severity:   SeverityWarning,
				Message:    "Node has no summary",
				Node:       id,
				Field:      "summary",
				Suggestion: "Add a short description of the work",
			})
		}

		if node.Role == "" {
			result.Add(Issue{
				Severity:   SeverityWarning,
				Message:    "Node has no role",
				Node:       id,
				Field:      "role",
				Suggestion: "Assign a worker role so the pool planner can group it",
			})
		}

		if node.Model == "" {
			result.Add(Issue{
				Severity:   SeverityWarning,
				Message:    "Node has no model",
				Node:       id,
				Field:      "model",
				Suggestion: "Name the model or tool configuration to execute with",
			})
		}

		if !node.Status.IsValid() {
			result.Add(Issue{
				Severity:   SeverityError,
				Message:    fmt.Sprintf("Unknown status %q", node.Status),
				Node:       id,
				Field:      "status",
				Suggestion: fmt.Sprintf("Use one of: %s", joinStatuses(ValidStatuses())),
			})
		}

		if node.Attempts < 0 {
			result.Add(Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("Attempts cannot be negative (got %d)", node.Attempts),
				Node:     id,
				Field:    "attempts",
			})
		}

		if node.Scope != nil {
			for _, pattern := range node.Scope.Patterns {
				if _, err := glob.Compile(pattern); err != nil {
					result.Add(Issue{
						Severity: SeverityError,
						Message:  fmt.Sprintf("Invalid scope pattern %q: %v", pattern, err),
						Node:     id,
						Field:    "scope",
					})
				}
			}
		}
	}

	for i := range doc.Auxiliary {
		aux := &doc.Auxiliary[i]
		label := aux.Name
		if label == "" {
			label = fmt.Sprintf("auxiliary %d", i)
			result.Add(Issue{
				Severity:   SeverityWarning,
				Message:    "Auxiliary node has no name",
				Node:       label,
				Field:      "name",
				Suggestion: "Name auxiliary nodes so reports can reference them",
			})
		}

		if !aux.Type.IsValid() {
			result.Add(Issue{
				Severity:   SeverityError,
				Message:    fmt.Sprintf("Unknown auxiliary type %q", aux.Type),
				Node:       label,
				Field:      "type",
				Suggestion: fmt.Sprintf("Use one of: %s", joinAuxTypes(ValidAuxiliaryTypes())),
			})
		}

		if aux.Trigger != "" && !aux.Trigger.IsValid() {
			result.Add(Issue{
				Severity:   SeverityError,
				Message:    fmt.Sprintf("Unknown auxiliary trigger %q", aux.Trigger),
				Node:       label,
				Field:      "trigger",
				Suggestion: fmt.Sprintf("Use one of: %s", joinAuxTriggers(ValidAuxiliaryTriggers())),
			})
		}
	}

	return result
}

func joinStatuses(statuses []Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

func joinAuxTypes(types []AuxiliaryType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func joinAuxTriggers(triggers []AuxiliaryTrigger) string {
	parts := make([]string, len(triggers))
	for i, t := range triggers {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
