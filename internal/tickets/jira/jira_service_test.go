package jira

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/models"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func testConfig() Config {
	return Config{
		BaseURL: "https://example.atlassian.net",
		Email:   "dev@example.com",
		APIKey:  "token",
	}
}

func TestNewService(t *testing.T) {
	t.Run("should fail when credentials are incomplete", func(t *testing.T) {
		_, err := NewService(Config{BaseURL: "https://example.atlassian.net"}, &MockHTTPClient{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domainErrors.ErrJiraNotConfigured)
	})
}

func TestService_GetTicketInfo(t *testing.T) {
	t.Run("should return summary and flattened description", func(t *testing.T) {
		// Arrange
		mockClient := &MockHTTPClient{}
		service, err := NewService(testConfig(), mockClient)
		require.NoError(t, err)

		body := `{
			"fields": {
				"summary": "Add retry logic to the fetcher",
				"description": {
					"type": "doc",
					"content": [
						{"type": "paragraph", "content": [{"type": "text", "text": "Retries must be bounded."}]}
					]
				}
			}
		}`
		mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			return req.URL.Path == "/rest/api/3/issue/CORE-42" &&
				req.Header.Get("Authorization") != ""
		})).Return(jsonResponse(http.StatusOK, body), nil)

		// Act
		info, err := service.GetTicketInfo(context.Background(), models.TicketRef("CORE-42"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.TicketRef("CORE-42"), info.Key)
		assert.Equal(t, "Add retry logic to the fetcher", info.Title)
		assert.Equal(t, "Retries must be bounded.", info.Description)
		mockClient.AssertExpectations(t)
	})

	t.Run("should return ticket not found on 404", func(t *testing.T) {
		mockClient := &MockHTTPClient{}
		service, err := NewService(testConfig(), mockClient)
		require.NoError(t, err)

		mockClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusNotFound, "{}"), nil)

		_, err = service.GetTicketInfo(context.Background(), models.TicketRef("CORE-999"))

		require.Error(t, err)
		var appErr *domainErrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domainErrors.TypeTickets, appErr.Type)
	})

	t.Run("should surface an authorization failure", func(t *testing.T) {
		mockClient := &MockHTTPClient{}
		service, err := NewService(testConfig(), mockClient)
		require.NoError(t, err)

		mockClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusUnauthorized, "{}"), nil)

		_, err = service.GetTicketInfo(context.Background(), models.TicketRef("CORE-42"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "CONFIGURATION")
	})
}
