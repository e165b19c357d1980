// Package jira looks up ticket data through the Jira REST API, used to
// enrich PR titles with tracker context.
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/httpclient"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
)

type Config struct {
	BaseURL string
	Email   string
	APIKey  string
}

type Service struct {
	baseURL string
	email   string
	apiKey  string
	client  httpclient.HTTPClient
}

func NewService(cfg Config, client httpclient.HTTPClient) (*Service, error) {
	if cfg.BaseURL == "" || cfg.Email == "" || cfg.APIKey == "" {
		return nil, domainErrors.ErrJiraNotConfigured
	}

	return &Service{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		email:   cfg.Email,
		apiKey:  cfg.APIKey,
		client:  client,
	}, nil
}

type (
	atlassianDoc struct {
		Type    string       `json:"type"`
		Content []docContent `json:"content"`
	}

	docContent struct {
		Type    string       `json:"type"`
		Text    string       `json:"text,omitempty"`
		Content []docContent `json:"content,omitempty"`
	}
)

// GetTicketInfo fetches the ticket's summary and description.
func (s *Service) GetTicketInfo(ctx context.Context, ticket models.TicketRef) (*models.TicketInfo, error) {
	log := logger.FromContext(ctx)

	url := fmt.Sprintf("%s/rest/api/3/issue/%s", s.baseURL, ticket)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", basicAuth(s.email, s.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request to jira API: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn("error closing response body", "error", err)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domainErrors.ErrTicketNotFound.WithContext("ticket", ticket.String())
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domainErrors.ErrJiraNotConfigured.
			WithError(fmt.Errorf("jira returned %s", resp.Status))
	default:
		return nil, fmt.Errorf("unexpected jira response: %s", resp.Status)
	}

	var result struct {
		Fields struct {
			Summary     string       `json:"summary"`
			Description atlassianDoc `json:"description"`
		} `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &models.TicketInfo{
		Key:         ticket,
		Title:       result.Fields.Summary,
		Description: parseAtlassianDoc(result.Fields.Description.Content),
	}, nil
}

func basicAuth(username, token string) string {
	credentials := fmt.Sprintf("%s:%s", username, token)
	return fmt.Sprintf("Basic %s", base64.StdEncoding.EncodeToString([]byte(credentials)))
}

// parseAtlassianDoc flattens the Atlassian document tree into plain text.
func parseAtlassianDoc(content []docContent) string {
	var sb strings.Builder
	for _, node := range content {
		if node.Text != "" {
			sb.WriteString(node.Text)
		}
		if len(node.Content) > 0 {
			sb.WriteString(parseAtlassianDoc(node.Content))
		}
		if node.Type == "paragraph" {
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}
