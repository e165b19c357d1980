package githubapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gitsherpa/gitsherpa/internal/models"
)

func prFilesRequest() models.RetrievalRequest {
	return models.RetrievalRequest{
		Resource: models.ResourcePRFiles,
		Owner:    "test-owner",
		Repo:     "test-repo",
		Number:   42,
	}
}

func httpResponse(status int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: status}}
}

func TestProbe_Invoke_PRFiles(t *testing.T) {
	t.Run("should return the file list as JSON payload", func(t *testing.T) {
		// Arrange
		mockPR := &MockPRService{}
		probe := NewProbeWithServices(mockPR, 25000)

		files := []*github.CommitFile{
			{Filename: github.Ptr("internal/fetch.go"), Status: github.Ptr("modified"), Additions: github.Ptr(10), Deletions: github.Ptr(2), Patch: github.Ptr("@@ -1 +1 @@")},
			{Filename: github.Ptr("README.md"), Status: github.Ptr("added"), Additions: github.Ptr(3), Deletions: github.Ptr(0)},
		}
		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 42, mock.Anything).
			Return(files, &github.Response{}, nil)

		// Act
		outcome := probe.Invoke(context.Background(), prFilesRequest())

		// Assert
		assert.Equal(t, models.OutcomeSuccess, outcome.Status)
		assert.Contains(t, outcome.Payload, "internal/fetch.go")
		assert.Contains(t, outcome.Payload, "README.md")
		mockPR.AssertExpectations(t)
	})

	t.Run("should report size exceeded when patches cross the ceiling", func(t *testing.T) {
		mockPR := &MockPRService{}
		probe := NewProbeWithServices(mockPR, 100)

		files := []*github.CommitFile{
			{Filename: github.Ptr("big.go"), Status: github.Ptr("modified"), Patch: github.Ptr(strings.Repeat("x", 500))},
		}
		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 42, mock.Anything).
			Return(files, &github.Response{}, nil)

		outcome := probe.Invoke(context.Background(), prFilesRequest())

		assert.Equal(t, models.OutcomeSizeExceeded, outcome.Status)
		assert.Greater(t, outcome.EstimatedSize, 100)
	})

	t.Run("should stop paginating once the ceiling is crossed", func(t *testing.T) {
		mockPR := &MockPRService{}
		probe := NewProbeWithServices(mockPR, 100)

		firstPage := []*github.CommitFile{
			{Filename: github.Ptr("big.go"), Patch: github.Ptr(strings.Repeat("x", 500))},
		}
		mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 42, mock.Anything).
			Return(firstPage, &github.Response{NextPage: 2}, nil).Once()

		outcome := probe.Invoke(context.Background(), prFilesRequest())

		assert.Equal(t, models.OutcomeSizeExceeded, outcome.Status)
		mockPR.AssertExpectations(t)
	})
}

func TestProbe_Invoke_PRMetadata(t *testing.T) {
	t.Run("should return PR metadata", func(t *testing.T) {
		mockPR := &MockPRService{}
		probe := NewProbeWithServices(mockPR, 25000)

		pr := &github.PullRequest{
			Number: github.Ptr(42),
			Title:  github.Ptr("CORE-42: Add retry logic"),
			State:  github.Ptr("open"),
			User:   &github.User{Login: github.Ptr("octocat")},
			Head:   &github.PullRequestBranch{Ref: github.Ptr("tv/CORE-42-retry-logic")},
		}
		mockPR.On("Get", mock.Anything, "test-owner", "test-repo", 42).
			Return(pr, &github.Response{}, nil)

		req := prFilesRequest()
		req.Resource = models.ResourcePRMetadata
		outcome := probe.Invoke(context.Background(), req)

		assert.Equal(t, models.OutcomeSuccess, outcome.Status)
		assert.Contains(t, outcome.Payload, "CORE-42: Add retry logic")
		assert.Contains(t, outcome.Payload, "octocat")
	})
}

func TestProbe_Invoke_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		rate     github.Rate
		expected models.OutcomeStatus
	}{
		{
			name:     "401 should map to permission denied",
			status:   http.StatusUnauthorized,
			expected: models.OutcomePermissionDenied,
		},
		{
			name:     "403 should map to permission denied",
			status:   http.StatusForbidden,
			rate:     github.Rate{Remaining: 100},
			expected: models.OutcomePermissionDenied,
		},
		{
			name:     "403 with exhausted quota should map to transient failure",
			status:   http.StatusForbidden,
			rate:     github.Rate{Remaining: 0},
			expected: models.OutcomeTransientFailure,
		},
		{
			name:     "404 should map to permission denied",
			status:   http.StatusNotFound,
			expected: models.OutcomePermissionDenied,
		},
		{
			name:     "502 should map to transient failure",
			status:   http.StatusBadGateway,
			expected: models.OutcomeTransientFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPR := &MockPRService{}
			probe := NewProbeWithServices(mockPR, 25000)

			resp := httpResponse(tt.status)
			resp.Rate = tt.rate
			mockPR.On("ListFiles", mock.Anything, "test-owner", "test-repo", 42, mock.Anything).
				Return(nil, resp, errors.New("api error"))

			outcome := probe.Invoke(context.Background(), prFilesRequest())

			assert.Equal(t, tt.expected, outcome.Status)
			require.Error(t, outcome.Cause)
		})
	}
}

func TestProbe_Invoke_CommitHistory(t *testing.T) {
	t.Run("should return commit messages", func(t *testing.T) {
		mockPR := &MockPRService{}
		probe := NewProbeWithServices(mockPR, 25000)

		commits := []*github.RepositoryCommit{
			{SHA: github.Ptr("abc123"), Commit: &github.Commit{Message: github.Ptr("feat: add fetcher")}},
			{SHA: github.Ptr("def456"), Commit: &github.Commit{Message: github.Ptr("fix: handle nil remote")}},
		}
		mockPR.On("ListCommits", mock.Anything, "test-owner", "test-repo", 42, mock.Anything).
			Return(commits, &github.Response{}, nil)

		req := prFilesRequest()
		req.Resource = models.ResourceCommitHistory
		outcome := probe.Invoke(context.Background(), req)

		assert.Equal(t, models.OutcomeSuccess, outcome.Status)
		assert.Contains(t, outcome.Payload, "feat: add fetcher")
		assert.Contains(t, outcome.Payload, "def456")
	})
}
