package status

import (
	"fmt"

	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/plan"
)

// Cascade skips every pending node that transitively depends on one of the
// seed nodes (typically the nodes that just failed). Each skipped node's
// result records a human-readable reason, and the returned changes carry a
// causal pointer to the dependency that doomed it.
//
// The cause is chosen deterministically from the node's direct dependencies
// in declaration order: the first dependency in the seed set, else the first
// whose status is failed, blocked, or skipped, else the first dependency.
//
// Cascade is idempotent: nodes already skipped (or in any non-pending
// status) are left alone, so re-running it with the same seeds changes
// nothing and returns no changes.
func Cascade(doc *plan.Document, g *graph.Graph, seeds []int) []Change {
	if len(seeds) == 0 {
		return nil
	}
	seedSet := make(map[int]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}

	var changes []Change
	for _, i := range g.Closure(graph.Forward, seeds) {
		node := &doc.Nodes[i]
		if node.Status != plan.StatusPending {
			continue
		}

		cause := -1
		for _, dep := range g.Dependencies(i) {
			if seedSet[dep] {
				cause = dep
				break
			}
		}
		if cause < 0 {
			for _, dep := range g.Dependencies(i) {
				s := doc.Nodes[dep].Status
				if s == plan.StatusFailed || s == plan.StatusBlocked || s == plan.StatusSkipped {
					cause = dep
					break
				}
			}
		}
		if cause < 0 {
			if deps := g.Dependencies(i); len(deps) > 0 {
				cause = deps[0]
			}
		}

		causeID := ""
		switch {
		case cause >= 0 && (seedSet[cause] || doc.Nodes[cause].Status == plan.StatusFailed):
			causeID = doc.NodeIdentity(cause)
			node.Result = fmt.Sprintf("skipped: dependency %q failed", causeID)
		case cause >= 0:
			causeID = doc.NodeIdentity(cause)
			node.Result = fmt.Sprintf("skipped: dependency %q cannot complete", causeID)
		default:
			node.Result = "skipped: upstream failure"
		}
		node.Status = plan.StatusSkipped

		changes = append(changes, Change{
			Index: i,
			Node:  doc.NodeIdentity(i),
			From:  plan.StatusPending,
			To:    plan.StatusSkipped,
			Cause: causeID,
		})
	}
	return changes
}
