// Package graph builds and queries the dependency graph of a plan document.
//
// Dependency references are resolved exactly once, at construction: name and
// index references both map to dense node indices, and every query after
// that point works on indices. Resolution problems (unknown names, indices
// out of range, self-dependencies) are collected as validation issues rather
// than failing one at a time.
//
// Cycles are first-class: Cycle returns a deterministic closed witness path,
// and Depths reports a CycleError instead of producing sentinel values.
package graph

import (
	"fmt"
	"strconv"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/plan"
)

// Mode controls how Build treats resolution errors.
type Mode int

const (
	// Permissive collects resolution issues, drops the offending edges,
	// and still returns a usable graph. Used for reporting.
	Permissive Mode = iota

	// Strict returns no graph when any resolution issue is an error.
	// Used by operations that must not proceed on a malformed graph.
	Strict
)

// Direction selects which way Closure walks the graph.
type Direction int

const (
	// Forward walks dependent edges: everything that transitively depends
	// on the seeds.
	Forward Direction = iota

	// Backward walks dependency edges: everything the seeds transitively
	// depend on.
	Backward
)

// Graph is the resolved dependency graph of a plan document.
//
// Node indices match positions in the document's node list. Edge lists
// preserve declaration order, with duplicates removed.
type Graph struct {
	n          int
	ids        []string
	deps       [][]int
	dependents [][]int
	byName     map[string]int
}

// Build resolves every dependency reference in the document and constructs
// the graph. Returned issues cover unknown names, out-of-range indices, and
// self-dependencies; in Permissive mode the graph is returned with those
// edges dropped, in Strict mode any error-severity issue yields a nil graph.
func Build(doc *plan.Document, mode Mode) (*Graph, []plan.Issue) {
	n := len(doc.Nodes)
	g := &Graph{
		n:          n,
		ids:        make([]string, n),
		deps:       make([][]int, n),
		dependents: make([][]int, n),
		byName:     make(map[string]int),
	}

	for i := range doc.Nodes {
		g.ids[i] = doc.NodeIdentity(i)
		name := doc.Nodes[i].Name
		if name == "" {
			continue
		}
		// First occurrence wins; duplicates are flagged by structural
		// validation.
		if _, exists := g.byName[name]; !exists {
			g.byName[name] = i
		}
	}

	var issues []plan.Issue
	for i := range doc.Nodes {
		seen := make(map[int]bool)
		for _, ref := range doc.Nodes[i].Dependencies {
			var target int
			if ref.ByName() {
				idx, ok := g.byName[ref.Name()]
				if !ok {
					issues = append(issues, plan.Issue{
						Severity: plan.SeverityError,
						Message:  fmt.Sprintf("Depends on unknown node %q", ref.Name()),
						Node:     g.ids[i],
						Field:    "dependencies",
						Related:  []string{ref.Name()},
						Suggestion: fmt.Sprintf("Remove %q from dependencies or add a node with that name",
							ref.Name()),
					})
					continue
				}
				target = idx
			} else {
				idx := ref.Index()
				if idx < 0 || idx >= n {
					issues = append(issues, plan.Issue{
						Severity:   plan.SeverityError,
						Message:    fmt.Sprintf("Depends on out-of-range index %d", idx),
						Node:       g.ids[i],
						Field:      "dependencies",
						Suggestion: "Dependency indices are zero-based positions in the node list",
					})
					continue
				}
				target = idx
			}

			if target == i {
				issues = append(issues, plan.Issue{
					Severity:   plan.SeverityError,
					Message:    "Node depends on itself",
					Node:       g.ids[i],
					Field:      "dependencies",
					Related:    []string{g.ids[i]},
					Suggestion: "Remove the self-dependency",
				})
				continue
			}

			if seen[target] {
				continue
			}
			seen[target] = true
			g.deps[i] = append(g.deps[i], target)
		}
	}

	// Build reverse edges in index order so dependent lists are sorted.
	for i := 0; i < n; i++ {
		for _, dep := range g.deps[i] {
			g.dependents[dep] = append(g.dependents[dep], i)
		}
	}

	if mode == Strict {
		for i := range issues {
			if issues[i].IsError() {
				return nil, issues
			}
		}
	}
	return g, issues
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return g.n
}

// Identity returns the label of node i (name, or decimal index).
func (g *Graph) Identity(i int) string {
	if i < 0 || i >= g.n {
		return strconv.Itoa(i)
	}
	return g.ids[i]
}

// Dependencies returns the resolved dependency indices of node i in
// declaration order. The returned slice is shared; callers must not mutate it.
func (g *Graph) Dependencies(i int) []int {
	if i < 0 || i >= g.n {
		return nil
	}
	return g.deps[i]
}

// Dependents returns the indices of nodes that depend directly on node i,
// in ascending order. The returned slice is shared; callers must not mutate it.
func (g *Graph) Dependents(i int) []int {
	if i < 0 || i >= g.n {
		return nil
	}
	return g.dependents[i]
}

// Resolve maps an update target to a node index. A target is a node name or,
// failing that, a decimal index. Names win over indices, so a node literally
// named "2" shadows the node at position 2.
func (g *Graph) Resolve(target string) (int, error) {
	if idx, ok := g.byName[target]; ok {
		return idx, nil
	}
	idx, err := strconv.Atoi(target)
	if err != nil || idx < 0 || idx >= g.n {
		return 0, errors.NewNotFoundError("node", target).
			WithCause(errors.ErrNodeNotFound)
	}
	return idx, nil
}
