// Package pool sizes an external worker pool from a plan's runnable nodes.
//
// The planner recommends capacity, it does not schedule. Runnable nodes are
// pending nodes whose dependencies can all still complete; the largest depth
// bucket bounds useful parallelism, since nodes at different depths never run
// at the same time. Each recommended worker serves one role group.
package pool

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/plan"
)

// -----------------------------------------------------------------------------
// Pool Types
// -----------------------------------------------------------------------------

// Worker describes one recommended executor slot.
type Worker struct {
	// Name is the slugified, collision-free worker name.
	Name string `json:"name"`

	// Role is the role shared by the worker's nodes, if any.
	Role string `json:"role,omitempty"`

	// Model is the model of the group's first node, if any.
	Model string `json:"model,omitempty"`

	// Nodes lists the identities of the runnable nodes in this group,
	// in document order.
	Nodes []string `json:"nodes"`
}

// Pool is the planner's recommendation for one plan state.
type Pool struct {
	// Workers lists one entry per recommended executor, largest group
	// first.
	Workers []Worker `json:"workers"`

	// Concurrency is how many executors to run at once.
	Concurrency int `json:"concurrency"`

	// Runnable lists the indices of the nodes that can still run,
	// ascending.
	Runnable []int `json:"runnable"`
}

// -----------------------------------------------------------------------------
// Planning
// -----------------------------------------------------------------------------

// Runnable returns the indices of every pending node whose dependencies are
// all outside {failed, blocked, skipped}. A pending or in-progress dependency
// does not disqualify a node; only a doomed one does.
func Runnable(doc *plan.Document, g *graph.Graph) []int {
	var out []int
	for i := range doc.Nodes {
		if doc.Nodes[i].Status != plan.StatusPending {
			continue
		}
		doomed := false
		for _, dep := range g.Dependencies(i) {
			switch doc.Nodes[dep].Status {
			case plan.StatusFailed, plan.StatusBlocked, plan.StatusSkipped:
				doomed = true
			}
			if doomed {
				break
			}
		}
		if !doomed {
			out = append(out, i)
		}
	}
	return out
}

// Plan computes the worker recommendation for the document. Width caps the
// worker count externally; width <= 0 means no cap. Returns the graph's
// cycle error if depths cannot be computed.
func Plan(doc *plan.Document, g *graph.Graph, width int) (*Pool, error) {
	depths, err := g.Depths()
	if err != nil {
		return nil, err
	}

	runnable := Runnable(doc, g)
	p := &Pool{Runnable: runnable}
	if len(runnable) == 0 {
		return p, nil
	}

	groups := groupByRole(doc, runnable)

	count := bucketCeiling(runnable, depths)
	if len(groups) < count {
		count = len(groups)
	}
	if width > 0 && width < count {
		count = width
	}

	used := make(map[string]bool)
	workers := make([]Worker, 0, count)
	for _, grp := range groups[:count] {
		first := doc.Nodes[grp.nodes[0]]
		nodes := make([]string, len(grp.nodes))
		for k, idx := range grp.nodes {
			nodes[k] = doc.NodeIdentity(idx)
		}
		workers = append(workers, Worker{
			Name:  uniqueSlug(Slugify(grp.key), used),
			Role:  first.Role,
			Model: first.Model,
			Nodes: nodes,
		})
	}

	p.Workers = workers
	p.Concurrency = count
	return p, nil
}

// bucketCeiling returns the size of the most populated depth bucket among
// the runnable nodes.
func bucketCeiling(runnable []int, depths []int) int {
	buckets := make(map[int]int)
	ceiling := 0
	for _, i := range runnable {
		buckets[depths[i]]++
		if buckets[depths[i]] > ceiling {
			ceiling = buckets[depths[i]]
		}
	}
	return ceiling
}

// roleGroup collects the runnable nodes sharing one role identity.
type roleGroup struct {
	key   string
	nodes []int
}

// groupKey is the role identity for grouping: the role, falling back to the
// node name, falling back to "worker".
func groupKey(n *plan.Node) string {
	switch {
	case n.Role != "":
		return n.Role
	case n.Name != "":
		return n.Name
	default:
		return "worker"
	}
}

// groupByRole buckets runnable nodes by role identity and orders the groups
// by node count descending, then key ascending, so the recommendation is
// stable across runs.
func groupByRole(doc *plan.Document, runnable []int) []roleGroup {
	byKey := make(map[string]int)
	var out []roleGroup
	for _, i := range runnable {
		key := groupKey(&doc.Nodes[i])
		pos, ok := byKey[key]
		if !ok {
			pos = len(out)
			byKey[key] = pos
			out = append(out, roleGroup{key: key})
		}
		out[pos].nodes = append(out[pos].nodes, i)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if len(out[a].nodes) != len(out[b].nodes) {
			return len(out[a].nodes) > len(out[b].nodes)
		}
		return out[a].key < out[b].key
	})
	return out
}

// -----------------------------------------------------------------------------
// Worker Naming
// -----------------------------------------------------------------------------

// Slugify reduces a role name to a lowercase, hyphen-separated slug.
// Underscores and whitespace become hyphens, anything outside [a-z0-9-] is
// removed, hyphen runs collapse, and an input with nothing usable becomes
// "worker".
func Slugify(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '_' || r == '-' || unicode.IsSpace(r):
			return '-'
		default:
			return -1
		}
	}, s)

	var b strings.Builder
	var prev rune
	for _, r := range mapped {
		if r == '-' && (b.Len() == 0 || prev == '-') {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "worker"
	}
	return slug
}

// uniqueSlug reserves base in used, appending the smallest unused numeric
// suffix (starting at 2) on collision.
func uniqueSlug(base string, used map[string]bool) string {
	if !used[base] {
		used[base] = true
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}
