package graph

import (
	"github.com/planwright/planwright/internal/errors"
)

// Three-color DFS states shared by Cycle and Depths.
const (
	white = iota // not yet visited
	gray         // on the current DFS stack
	black        // fully explored
)

// Cycle returns one dependency cycle as a closed path of node labels, with
// the first node repeated at the end (for example [a b c a]). Returns nil if
// the graph is acyclic.
//
// The witness is deterministic: DFS starts from node 0 upward and follows
// dependencies in declaration order, so the same graph always yields the
// same cycle.
func (g *Graph) Cycle() []string {
	state := make([]int, g.n)
	parent := make([]int, g.n)
	for i := range parent {
		parent[i] = -1
	}

	var dfs func(i int) []string
	dfs = func(i int) []string {
		state[i] = gray

		for _, dep := range g.deps[i] {
			switch state[dep] {
			case white:
				parent[dep] = i
				if cycle := dfs(dep); cycle != nil {
					return cycle
				}
			case gray:
				// Found a back edge; walk parents to reconstruct the
				// closed path.
				cycle := []string{g.ids[dep]}
				for current := i; current != dep; current = parent[current] {
					cycle = append([]string{g.ids[current]}, cycle...)
				}
				return append([]string{g.ids[dep]}, cycle...)
			}
		}

		state[i] = black
		return nil
	}

	for i := 0; i < g.n; i++ {
		if state[i] == white {
			if cycle := dfs(i); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Depths computes the dependency depth of every node: 1 for nodes with no
// dependencies, otherwise one more than the deepest dependency. Returns a
// CycleError carrying a witness path if the graph is cyclic.
func (g *Graph) Depths() ([]int, error) {
	depths := make([]int, g.n)
	state := make([]int, g.n)

	var visit func(i int) (int, error)
	visit = func(i int) (int, error) {
		switch state[i] {
		case black:
			return depths[i], nil
		case gray:
			return 0, errors.NewCycleError(g.Cycle())
		}

		state[i] = gray
		depth := 1
		for _, dep := range g.deps[i] {
			d, err := visit(dep)
			if err != nil {
				return 0, err
			}
			if d+1 > depth {
				depth = d + 1
			}
		}
		state[i] = black
		depths[i] = depth
		return depth, nil
	}

	for i := 0; i < g.n; i++ {
		if _, err := visit(i); err != nil {
			return nil, err
		}
	}
	return depths, nil
}

// Closure returns the set of nodes transitively reachable from the seeds in
// the given direction, excluding the seeds themselves. The result is sorted
// ascending. Out-of-range seeds are ignored.
func (g *Graph) Closure(dir Direction, seeds []int) []int {
	adj := g.dependents
	if dir == Backward {
		adj = g.deps
	}

	visited := make([]bool, g.n)
	isSeed := make([]bool, g.n)
	queue := make([]int, 0, len(seeds))
	for _, s := range seeds {
		if s < 0 || s >= g.n || visited[s] {
			continue
		}
		visited[s] = true
		isSeed[s] = true
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var result []int
	for i := 0; i < g.n; i++ {
		if visited[i] && !isSeed[i] {
			result = append(result, i)
		}
	}
	return result
}
