// Package overlap analyzes node scopes for filesystem collisions.
//
// Two nodes overlap when their declared scopes (directory prefixes and glob
// patterns) could touch the same files. Pairs that are dependency-ordered
// are skipped: they can never run concurrently, so a collision between them
// is harmless. Each overlapping pair is recorded once, on the higher-indexed
// node, so the matrix stays triangular.
//
// The check is a deliberate prefix heuristic, not a full glob intersection:
// patterns are reduced to their literal base before the first wildcard, and
// bases and directories are compared as path prefixes. A pattern with no
// literal base (such as "*.go") cannot be localized and is never reported
// as overlapping.
package overlap

import (
	"fmt"
	"strings"

	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/plan"
)

// Conflict records one overlapping node pair.
type Conflict struct {
	// AIndex and BIndex are the pair's positions, AIndex < BIndex.
	AIndex int `json:"aIndex"`
	BIndex int `json:"bIndex"`

	// A and B are the pair's identities (name or decimal index).
	A string `json:"a"`
	B string `json:"b"`

	// Detail names the scope entries that collide.
	Detail string `json:"detail"`
}

// Analysis holds the result of an overlap pass.
type Analysis struct {
	// Matrix lists, for each node index j, the lower-indexed nodes whose
	// scopes overlap it, ascending.
	Matrix [][]int `json:"matrix"`

	// Conflicts lists every overlapping pair with detail.
	Conflicts []Conflict `json:"conflicts"`
}

// HasConflicts returns true if any overlapping pair was found.
func (a *Analysis) HasConflicts() bool {
	return len(a.Conflicts) > 0
}

// ConflictCount returns the number of overlapping pairs.
func (a *Analysis) ConflictCount() int {
	return len(a.Conflicts)
}

// Annotate writes the overlap matrix into the document: each node's Overlaps
// field becomes the list of lower-indexed nodes colliding with it. Stale
// annotations on non-overlapping nodes are cleared.
func (a *Analysis) Annotate(doc *plan.Document) {
	for j := range doc.Nodes {
		if j < len(a.Matrix) && len(a.Matrix[j]) > 0 {
			doc.Nodes[j].Overlaps = a.Matrix[j]
		} else {
			doc.Nodes[j].Overlaps = nil
		}
	}
}

// Analyze compares every scope pair in the document and returns the overlap
// matrix plus a conflict record per colliding pair. Nodes without a scope
// (including trimmed completed nodes) take part in no pairs.
func Analyze(doc *plan.Document, g *graph.Graph) *Analysis {
	n := len(doc.Nodes)
	a := &Analysis{Matrix: make([][]int, n)}

	// Backward closures answer "does one of the pair depend on the other".
	ancestors := make([]map[int]bool, n)
	for i := 0; i < n; i++ {
		set := make(map[int]bool)
		for _, idx := range g.Closure(graph.Backward, []int{i}) {
			set[idx] = true
		}
		ancestors[i] = set
	}

	for j := 0; j < n; j++ {
		sj := doc.Nodes[j].Scope
		if sj.IsEmpty() {
			continue
		}
		for i := 0; i < j; i++ {
			si := doc.Nodes[i].Scope
			if si.IsEmpty() {
				continue
			}
			// Dependency-ordered pairs never run concurrently.
			if ancestors[j][i] || ancestors[i][j] {
				continue
			}
			detail, ok := scopesOverlap(si, sj)
			if !ok {
				continue
			}
			a.Matrix[j] = append(a.Matrix[j], i)
			a.Conflicts = append(a.Conflicts, Conflict{
				AIndex: i,
				BIndex: j,
				A:      doc.NodeIdentity(i),
				B:      doc.NodeIdentity(j),
				Detail: detail,
			})
		}
	}
	return a
}

// scopesOverlap reports the first collision between two scopes, checking
// directory and pattern entries in declaration order.
func scopesOverlap(a, b *plan.Scope) (string, bool) {
	for _, da := range a.Directories {
		for _, db := range b.Directories {
			if pathsOverlap(da, db) {
				return fmt.Sprintf("directory %q overlaps directory %q", da, db), true
			}
		}
		for _, pb := range b.Patterns {
			if base := globBase(pb); base != "" && pathsOverlap(da, base) {
				return fmt.Sprintf("directory %q overlaps pattern %q", da, pb), true
			}
		}
	}
	for _, pa := range a.Patterns {
		base := globBase(pa)
		if base == "" {
			continue
		}
		for _, db := range b.Directories {
			if pathsOverlap(base, db) {
				return fmt.Sprintf("pattern %q overlaps directory %q", pa, db), true
			}
		}
		for _, pb := range b.Patterns {
			if bb := globBase(pb); bb != "" && pathsOverlap(base, bb) {
				return fmt.Sprintf("pattern %q overlaps pattern %q", pa, pb), true
			}
		}
	}
	return "", false
}

// pathsOverlap reports whether two paths name the same directory or one
// contains the other. Comparison is at path boundaries: "internal/api" does
// not overlap "internal/apix".
func pathsOverlap(a, b string) bool {
	a = strings.TrimSuffix(a, "/")
	b = strings.TrimSuffix(b, "/")
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}

// globBase returns the literal prefix of a pattern before its first "*",
// without any trailing slash. A pattern that starts with a wildcard has no
// base and returns "".
func globBase(pattern string) string {
	if idx := strings.Index(pattern, "*"); idx >= 0 {
		pattern = pattern[:idx]
	}
	return strings.TrimSuffix(pattern, "/")
}
