// Package services ties the pure convention rules and the retrieval
// orchestrator to local git state and external trackers.
package services

import (
	"context"

	"github.com/gitsherpa/gitsherpa/internal/conventions"
	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
)

// branchReader defines the methods needed by ConventionService from the git facade.
type branchReader interface {
	GetCurrentBranch(ctx context.Context) (string, error)
}

// ticketReader defines the methods needed by ConventionService from a tracker.
type ticketReader interface {
	GetTicketInfo(ctx context.Context, ref models.TicketRef) (*models.TicketInfo, error)
}

type ConventionService struct {
	git     branchReader
	tickets ticketReader
}

type ConventionOption func(*ConventionService)

func WithBranchReader(git branchReader) ConventionOption {
	return func(s *ConventionService) {
		s.git = git
	}
}

func WithTicketReader(tickets ticketReader) ConventionOption {
	return func(s *ConventionService) {
		s.tickets = tickets
	}
}

func NewConventionService(opts ...ConventionOption) *ConventionService {
	s := &ConventionService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateCurrentBranch checks the checked-out branch against the branch
// grammar and returns its decomposed form.
func (s *ConventionService) ValidateCurrentBranch(ctx context.Context) (models.BranchName, error) {
	log := logger.FromContext(ctx)

	branch, err := s.git.GetCurrentBranch(ctx)
	if err != nil {
		return models.BranchName{}, err
	}

	parsed, err := conventions.ValidateBranchName(branch)
	if err != nil {
		log.Debug("branch name failed validation",
			"branch", branch,
			"error", err)
		return models.BranchName{}, err
	}

	return parsed, nil
}

// TicketFromBranch extracts the ticket referenced by the checked-out branch.
// The branch does not have to satisfy the full grammar; any embedded ticket
// key counts.
func (s *ConventionService) TicketFromBranch(ctx context.Context) (models.TicketRef, error) {
	branch, err := s.git.GetCurrentBranch(ctx)
	if err != nil {
		return "", err
	}

	ticket, ok := conventions.ExtractTicketReference(branch)
	if !ok {
		return "", domainErrors.NewAppError(domainErrors.TypeValidation,
			"no ticket reference found in branch", nil).
			WithContext("branch", branch).
			WithSuggestion("Name your branch <initials>/<TICKET>-<description>")
	}

	return ticket, nil
}

// SuggestPRTitle builds "<TICKET>: <summary>" from the checked-out branch.
// With an empty summary and a configured tracker, the ticket's own title is
// used as the summary.
func (s *ConventionService) SuggestPRTitle(ctx context.Context, summary string) (models.PRTitle, error) {
	log := logger.FromContext(ctx)

	ticket, err := s.TicketFromBranch(ctx)
	if err != nil {
		return models.PRTitle{}, err
	}

	if summary == "" {
		if s.tickets == nil {
			return models.PRTitle{}, domainErrors.NewAppError(domainErrors.TypeValidation,
				"a summary is required when no ticket tracker is configured", nil).
				WithSuggestion("Pass a summary: gitsherpa pr-title \"short summary here\"")
		}

		info, err := s.tickets.GetTicketInfo(ctx, ticket)
		if err != nil {
			log.Warn("failed to fetch ticket title",
				"ticket", ticket,
				"error", err)
			return models.PRTitle{}, err
		}
		summary = info.Title
	}

	return conventions.BuildPRTitle(string(ticket), summary)
}
