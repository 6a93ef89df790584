// Package breaker recommends aborting a plan once cascading failure has
// doomed too much of the remaining work.
//
// The heuristic is deliberately blunt: small plans never trip it (any single
// failure looks catastrophic by percentage), and larger plans trip it once
// at least half the still-pending nodes sit downstream of a failed or
// blocked node. The breaker only recommends; callers decide what an abort
// means.
package breaker

import (
	"fmt"

	"github.com/planwright/planwright/internal/graph"
	"github.com/planwright/planwright/internal/plan"
)

const (
	// DefaultMinNodes is the plan size at or below which the breaker
	// never trips.
	DefaultMinNodes = 3

	// DefaultSkipRatio is the fraction of pending nodes that must be
	// doomed before the breaker trips.
	DefaultSkipRatio = 0.5
)

// Breaker evaluates abort recommendations against one plan state.
type Breaker struct {
	minNodes  int
	skipRatio float64
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithMinNodes sets the plan size at or below which the breaker stays quiet.
func WithMinNodes(n int) Option {
	return func(b *Breaker) {
		b.minNodes = n
	}
}

// WithSkipRatio sets the doomed fraction of pending nodes that trips the
// breaker.
func WithSkipRatio(r float64) Option {
	return func(b *Breaker) {
		b.skipRatio = r
	}
}

// New creates a Breaker with the default thresholds, adjusted by opts.
func New(opts ...Option) *Breaker {
	b := &Breaker{
		minNodes:  DefaultMinNodes,
		skipRatio: DefaultSkipRatio,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Decision is the breaker's verdict for one plan state.
type Decision struct {
	// Abort is true when continuing the plan is not worthwhile.
	Abort bool `json:"shouldAbort"`

	// Reason explains a true Abort in one line.
	Reason string `json:"reason,omitempty"`

	// WouldSkip lists the pending nodes downstream of the failed set,
	// ascending.
	WouldSkip []int `json:"wouldSkip"`

	// Pending is the number of pending nodes in the whole plan.
	Pending int `json:"pending"`

	// FailedOrBlocked lists the nodes seeding the cascade, ascending.
	FailedOrBlocked []int `json:"failedOrBlocked"`
}

// Evaluate computes the abort recommendation for the document. The breaker
// trips only when the plan is larger than its minimum size, work remains,
// and the doomed share of that work reaches the skip ratio.
func (b *Breaker) Evaluate(doc *plan.Document, g *graph.Graph) Decision {
	var seeds []int
	pending := 0
	for i := range doc.Nodes {
		switch doc.Nodes[i].Status {
		case plan.StatusFailed, plan.StatusBlocked:
			seeds = append(seeds, i)
		case plan.StatusPending:
			pending++
		}
	}

	var wouldSkip []int
	for _, idx := range g.Closure(graph.Forward, seeds) {
		if doc.Nodes[idx].Status == plan.StatusPending {
			wouldSkip = append(wouldSkip, idx)
		}
	}

	d := Decision{
		WouldSkip:       wouldSkip,
		Pending:         pending,
		FailedOrBlocked: seeds,
	}

	if len(doc.Nodes) <= b.minNodes || pending == 0 {
		return d
	}
	if float64(len(wouldSkip)) >= b.skipRatio*float64(pending) {
		d.Abort = true
		d.Reason = fmt.Sprintf("circuit breaker: %d/%d pending nodes would be skipped", len(wouldSkip), pending)
	}
	return d
}
