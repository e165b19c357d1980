// Package orchestrator selects among retrieval strategies with different
// cost and reliability tradeoffs, executes them through capability probes,
// and falls back deterministically: size failures prune by capacity,
// transient failures retry once then demote, permission failures abort.
package orchestrator

import (
	"context"
	"time"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
)

// BackoffFunc waits before a transient-failure retry. It must return early
// with the context error when ctx is cancelled.
type BackoffFunc func(ctx context.Context) error

func defaultBackoff(ctx context.Context) error {
	select {
	case <-time.After(500 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Orchestrator struct {
	specs   []StrategySpec
	backoff BackoffFunc
}

type Option func(*Orchestrator)

// WithBackoff replaces the default transient-failure backoff.
func WithBackoff(backoff BackoffFunc) Option {
	return func(o *Orchestrator) {
		o.backoff = backoff
	}
}

func New(specs []StrategySpec, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		specs:   specs,
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fetch runs the ranked state machine for one request. Strategy attempts
// are strictly sequential: a cheap success must preempt costlier work.
// Failure outcomes (size exceeded, permission denied, exhaustion) come back
// as tagged outcomes, not errors; the error return covers cancellation and
// the case where no strategy suits the request at all.
//
// Total probe invocations are bounded by 2 x number of strategies: each
// strategy is attempted at most twice (original plus one transient retry),
// and pruning and demotion only ever shrink the remaining set.
func (o *Orchestrator) Fetch(ctx context.Context, req models.RetrievalRequest) (models.RetrievalOutcome, error) {
	log := logger.FromContext(ctx)

	remaining := rank(o.specs, req)
	if len(remaining) == 0 {
		log.Warn("no suitable retrieval strategy",
			"resource", req.Resource,
			"size_hint", req.SizeHint)
		if req.SizeHint > 0 {
			return models.SizeExceeded("", req.SizeHint), domainErrors.ErrNoSuitableStrategy
		}
		return models.RetrievalOutcome{}, domainErrors.ErrNoSuitableStrategy
	}

	var trace []models.Attempt
	retried := false

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return models.RetrievalOutcome{}, err
		}

		spec := remaining[0]
		log.Debug("attempting retrieval strategy",
			"strategy", spec.Strategy,
			"resource", req.Resource,
			"key", req.Key())

		outcome := spec.Probe.Invoke(ctx, req)
		outcome.Strategy = spec.Strategy
		trace = append(trace, models.Attempt{Strategy: spec.Strategy, Status: outcome.Status})
		outcome.Attempts = trace

		switch outcome.Status {
		case models.OutcomeSuccess:
			return outcome, nil

		case models.OutcomePermissionDenied:
			// No alternate strategy can close an authorization gap.
			log.Warn("permission denied, aborting fetch",
				"strategy", spec.Strategy,
				"key", req.Key())
			return outcome, nil

		case models.OutcomeSizeExceeded:
			estimate := outcome.EstimatedSize
			if estimate == 0 {
				estimate = spec.Ceiling
			}
			remaining = pruneByCapacity(remaining[1:], estimate)
			retried = false
			if len(remaining) == 0 {
				log.Warn("size exceeded under every available strategy",
					"estimated_size", estimate,
					"key", req.Key())
				return outcome, nil
			}

		case models.OutcomeTransientFailure:
			if !retried {
				retried = true
				log.Debug("transient failure, retrying same strategy",
					"strategy", spec.Strategy,
					"error", outcome.Cause)
				if err := o.backoff(ctx); err != nil {
					return models.RetrievalOutcome{}, err
				}
				continue
			}
			// Second transient failure demotes to the next-ranked strategy.
			retried = false
			remaining = remaining[1:]
			if len(remaining) == 0 {
				return outcome, nil
			}

		default:
			return outcome, domainErrors.NewAppError(domainErrors.TypeInternal,
				"probe returned an unknown outcome status", nil).
				WithContext("status", string(outcome.Status))
		}
	}

	return models.RetrievalOutcome{}, domainErrors.ErrStrategiesExhausted
}
