// Package status implements the node lifecycle state machine.
//
// Legal transitions form a small fixed table: pending nodes start, running
// nodes complete or fail, failed nodes may be retried back to pending.
// Completed, skipped, and blocked are terminal. Updates are applied as an
// atomic batch: either every transition in the batch is legal and all of
// them land, or none do.
//
// Failure cascades live here too: when nodes fail, every pending node that
// transitively depends on them is skipped with a causal pointer back to the
// dependency that doomed it.
package status

import (
	"fmt"
	"strconv"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/plan"
)

// transitions is the full state machine. A status missing from the map or
// mapped to an empty list is terminal.
var transitions = map[plan.Status][]plan.Status{
	plan.StatusPending:    {plan.StatusInProgress},
	plan.StatusInProgress: {plan.StatusCompleted, plan.StatusFailed},
	plan.StatusFailed:     {plan.StatusPending},
	plan.StatusCompleted:  nil,
	plan.StatusBlocked:    nil,
	plan.StatusSkipped:    nil,
}

// CanTransition returns true if the state machine allows moving from one
// status to another.
func CanTransition(from, to plan.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Allowed returns the statuses reachable from the given status in one step.
// Terminal statuses return nil.
func Allowed(from plan.Status) []plan.Status {
	return transitions[from]
}

func allowedStrings(from plan.Status) []string {
	targets := transitions[from]
	if len(targets) == 0 {
		return nil
	}
	out := make([]string, len(targets))
	for i, s := range targets {
		out[i] = string(s)
	}
	return out
}

// Update is one requested status transition.
type Update struct {
	// Index is the target node's position in the document.
	Index int

	// To is the requested status.
	To plan.Status

	// Result optionally records the outcome text. Ignored when retrying
	// back to pending, which always clears the previous result.
	Result string
}

// Change records one applied transition.
type Change struct {
	// Index is the node's position in the document.
	Index int `json:"index"`

	// Node is the node's identity (name or decimal index).
	Node string `json:"node"`

	// From is the status before the transition.
	From plan.Status `json:"from"`

	// To is the status after the transition.
	To plan.Status `json:"to"`

	// Cause is the identity of the dependency that caused this change.
	// Only set for cascade skips.
	Cause string `json:"cause,omitempty"`
}

// Apply validates and applies a batch of updates.
//
// The whole batch is checked against a scratch copy of the statuses before
// anything is touched, so an illegal transition anywhere in the batch leaves
// the document unchanged. Within a batch, later updates see the statuses
// earlier updates produced, so pending -> in_progress -> completed can be
// expressed as one batch.
//
// Side effects on apply: retrying a failed node back to pending increments
// its attempts and clears its result; completing a node records it in the
// progress log and trims it for serialization.
func Apply(doc *plan.Document, updates []Update) ([]Change, error) {
	scratch := make([]plan.Status, len(doc.Nodes))
	for i := range doc.Nodes {
		scratch[i] = doc.Nodes[i].Status
	}

	for _, u := range updates {
		if u.Index < 0 || u.Index >= len(doc.Nodes) {
			return nil, errors.NewNotFoundError("node", strconv.Itoa(u.Index)).
				WithCause(errors.ErrNodeNotFound)
		}
		if !u.To.IsValid() {
			return nil, errors.NewValidationError(fmt.Sprintf("unknown status %q", u.To)).
				WithField("status").
				WithValue(string(u.To))
		}
		from := scratch[u.Index]
		if !CanTransition(from, u.To) {
			return nil, errors.NewTransitionError(u.Index, doc.Nodes[u.Index].Name,
				string(from), string(u.To), allowedStrings(from))
		}
		scratch[u.Index] = u.To
	}

	changes := make([]Change, 0, len(updates))
	for _, u := range updates {
		node := &doc.Nodes[u.Index]
		from := node.Status
		node.Status = u.To

		switch u.To {
		case plan.StatusPending:
			node.Attempts++
			node.Result = ""
		case plan.StatusCompleted:
			if u.Result != "" {
				node.Result = u.Result
			}
			plan.TrimForCompletion(node)
			doc.MarkCompleted(doc.NodeIdentity(u.Index))
		default:
			if u.Result != "" {
				node.Result = u.Result
			}
		}

		changes = append(changes, Change{
			Index: u.Index,
			Node:  doc.NodeIdentity(u.Index),
			From:  from,
			To:    u.To,
		})
	}
	return changes, nil
}

// ResetInterrupted returns every in_progress node to pending, charging an
// attempt and clearing the stale result. Used to recover a plan whose
// executor died mid-run; this is a recovery action, not a state machine
// transition, so it bypasses the table.
func ResetInterrupted(doc *plan.Document) []Change {
	var changes []Change
	for i := range doc.Nodes {
		if doc.Nodes[i].Status != plan.StatusInProgress {
			continue
		}
		doc.Nodes[i].Status = plan.StatusPending
		doc.Nodes[i].Attempts++
		doc.Nodes[i].Result = ""
		changes = append(changes, Change{
			Index: i,
			Node:  doc.NodeIdentity(i),
			From:  plan.StatusInProgress,
			To:    plan.StatusPending,
		})
	}
	return changes
}

// RetryCandidates returns the indices of failed nodes that still have retry
// budget: attempts below maxAttempts. A maxAttempts of zero disables retries
// entirely.
func RetryCandidates(doc *plan.Document, maxAttempts int) []int {
	if maxAttempts <= 0 {
		return nil
	}
	var candidates []int
	for i := range doc.Nodes {
		if doc.Nodes[i].Status != plan.StatusFailed {
			continue
		}
		if doc.Nodes[i].Attempts >= maxAttempts {
			continue
		}
		candidates = append(candidates, i)
	}
	return candidates
}
