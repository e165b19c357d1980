package services

import (
	"context"
	"strconv"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/regex"
)

// fetcher defines the methods needed by RetrievalService from the orchestrator.
type fetcher interface {
	Fetch(ctx context.Context, req models.RetrievalRequest) (models.RetrievalOutcome, error)
}

// repoReader defines the methods needed by RetrievalService from the git facade.
type repoReader interface {
	GetRepoInfo(ctx context.Context) (owner, repo, provider string, err error)
}

type RetrievalService struct {
	orchestrator fetcher
	git          repoReader
}

type RetrievalOption func(*RetrievalService)

func WithFetcher(f fetcher) RetrievalOption {
	return func(s *RetrievalService) {
		s.orchestrator = f
	}
}

func WithRepoReader(git repoReader) RetrievalOption {
	return func(s *RetrievalService) {
		s.git = git
	}
}

func NewRetrievalService(opts ...RetrievalOption) *RetrievalService {
	s := &RetrievalService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchContext resolves the target repository and runs the ranked fetch.
// key is either "owner/repo#number" or empty, in which case owner and repo
// come from the local origin remote and number must be given.
func (s *RetrievalService) FetchContext(ctx context.Context, resource models.ResourceType, key string, number, sizeHint int) (models.RetrievalOutcome, error) {
	log := logger.FromContext(ctx)

	req, err := s.buildRequest(ctx, resource, key, number, sizeHint)
	if err != nil {
		return models.RetrievalOutcome{}, err
	}

	log.Info("fetching repository context",
		"resource", req.Resource,
		"key", req.Key(),
		"size_hint", req.SizeHint)

	return s.orchestrator.Fetch(ctx, req)
}

func (s *RetrievalService) buildRequest(ctx context.Context, resource models.ResourceType, key string, number, sizeHint int) (models.RetrievalRequest, error) {
	if key != "" {
		matches := regex.RepoKey.FindStringSubmatch(key)
		if matches == nil {
			return models.RetrievalRequest{}, domainErrors.NewAppError(domainErrors.TypeValidation,
				"request key must have the form owner/repo#number", nil).
				WithContext("key", key)
		}
		parsed, err := strconv.Atoi(matches[3])
		if err != nil {
			return models.RetrievalRequest{}, domainErrors.NewAppError(domainErrors.TypeValidation,
				"request number is not a valid integer", err).
				WithContext("key", key)
		}
		return models.RetrievalRequest{
			Resource: resource,
			Owner:    matches[1],
			Repo:     matches[2],
			Number:   parsed,
			SizeHint: sizeHint,
		}, nil
	}

	if number <= 0 {
		return models.RetrievalRequest{}, domainErrors.NewAppError(domainErrors.TypeValidation,
			"a pull request number is required", nil).
			WithSuggestion("Pass it with --pr <number> or a full key like owner/repo#42")
	}

	owner, repo, _, err := s.git.GetRepoInfo(ctx)
	if err != nil {
		return models.RetrievalRequest{}, err
	}

	return models.RetrievalRequest{
		Resource: resource,
		Owner:    owner,
		Repo:     repo,
		Number:   number,
		SizeHint: sizeHint,
	}, nil
}
