package models

import "fmt"

// Strategy is an enumerated retrieval strategy, ordered by cost.
type Strategy string

const (
	StrategyStructuredAPI    Strategy = "structured-api"
	StrategyLightweightQuery Strategy = "lightweight-query"
	StrategyDelegatedAnalysis Strategy = "delegated-analysis"
)

// ResourceType names the unit of data a retrieval request targets.
type ResourceType string

const (
	ResourcePRFiles       ResourceType = "pr-files"
	ResourcePRMetadata    ResourceType = "pr-metadata"
	ResourceCommitHistory ResourceType = "commit-history"
)

// RetrievalRequest describes a unit of retrieval work against a repository.
// SizeHint is the expected response size when known in advance; zero means
// unknown.
type RetrievalRequest struct {
	Resource ResourceType
	Owner    string
	Repo     string
	Number   int
	SizeHint int
}

// Key returns the request key in owner/repo#number form.
func (r RetrievalRequest) Key() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// OutcomeStatus tags a RetrievalOutcome.
type OutcomeStatus string

const (
	OutcomeSuccess          OutcomeStatus = "success"
	OutcomeSizeExceeded     OutcomeStatus = "size-exceeded"
	OutcomeTransientFailure OutcomeStatus = "transient-failure"
	OutcomePermissionDenied OutcomeStatus = "permission-denied"
)

// Attempt records a single probe invocation for the outcome trace.
type Attempt struct {
	Strategy Strategy
	Status   OutcomeStatus
}

// RetrievalOutcome is the tagged result of a fetch. Exactly one of Payload,
// EstimatedSize or Cause is meaningful, depending on Status. The tag itself
// implies no retry; retry policy lives in the orchestrator.
type RetrievalOutcome struct {
	Status        OutcomeStatus
	Payload       string
	EstimatedSize int
	Cause         error
	Strategy      Strategy
	Attempts      []Attempt
}

func Success(strategy Strategy, payload string) RetrievalOutcome {
	return RetrievalOutcome{Status: OutcomeSuccess, Strategy: strategy, Payload: payload}
}

func SizeExceeded(strategy Strategy, estimatedSize int) RetrievalOutcome {
	return RetrievalOutcome{Status: OutcomeSizeExceeded, Strategy: strategy, EstimatedSize: estimatedSize}
}

func TransientFailure(strategy Strategy, cause error) RetrievalOutcome {
	return RetrievalOutcome{Status: OutcomeTransientFailure, Strategy: strategy, Cause: cause}
}

func PermissionDenied(strategy Strategy, cause error) RetrievalOutcome {
	return RetrievalOutcome{Status: OutcomePermissionDenied, Strategy: strategy, Cause: cause}
}
