package services

import (
	"context"

	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) GetCurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) GetRepoInfo(ctx context.Context) (string, string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) GetTicketInfo(ctx context.Context, ref models.TicketRef) (*models.TicketInfo, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketInfo), args.Error(1)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, req models.RetrievalRequest) (models.RetrievalOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return models.RetrievalOutcome{}, args.Error(1)
	}
	return args.Get(0).(models.RetrievalOutcome), args.Error(1)
}
