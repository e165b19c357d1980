package orchestrator

import (
	"context"
	"math"
	"sort"

	"github.com/gitsherpa/gitsherpa/internal/models"
)

// CapacityUnbounded marks a strategy with no practical response-size limit.
const CapacityUnbounded = math.MaxInt

// DefaultStructuredAPICeiling is the response size in bytes beyond which
// the structured API path stops being reliable for large PRs.
const DefaultStructuredAPICeiling = 25000

// Probe is the capability-probe abstraction: the external-facing interface
// through which a retrieval strategy is actually executed. Implementations
// wrap an authenticated API, a local CLI invocation or a sub-task
// delegation; all are opaque to the orchestrator.
type Probe interface {
	Invoke(ctx context.Context, req models.RetrievalRequest) models.RetrievalOutcome
}

// StrategySpec declares one retrieval strategy: its cost rank, its capacity
// ceiling, a suitability predicate over requests, and the probe that
// executes it.
type StrategySpec struct {
	Strategy models.Strategy
	Cost     int
	Ceiling  int
	Suits    func(models.RetrievalRequest) bool
	Probe    Probe
}

// suits reports whether the spec accepts the request. A nil predicate
// accepts everything.
func (s StrategySpec) suits(req models.RetrievalRequest) bool {
	return s.Suits == nil || s.Suits(req)
}

// rank returns the specs suited to req, cheapest first, excluding any
// strategy whose ceiling the size hint already exceeds (skip-ahead: a
// doomed attempt is never made).
func rank(specs []StrategySpec, req models.RetrievalRequest) []StrategySpec {
	ranked := make([]StrategySpec, 0, len(specs))
	for _, s := range specs {
		if !s.suits(req) {
			continue
		}
		if req.SizeHint > 0 && req.SizeHint > s.Ceiling {
			continue
		}
		ranked = append(ranked, s)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Cost < ranked[j].Cost
	})
	return ranked
}

// pruneByCapacity drops every spec whose ceiling is at or below the
// observed size estimate.
func pruneByCapacity(specs []StrategySpec, estimatedSize int) []StrategySpec {
	kept := make([]StrategySpec, 0, len(specs))
	for _, s := range specs {
		if s.Ceiling > estimatedSize {
			kept = append(kept, s)
		}
	}
	return kept
}
