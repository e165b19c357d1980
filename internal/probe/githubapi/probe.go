// Package githubapi implements the structured-API retrieval strategy on top
// of the authenticated GitHub REST API.
package githubapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/orchestrator"
)

var _ orchestrator.Probe = (*Probe)(nil)

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error)
}

// Probe fetches repository data through the REST API. It refuses to return
// payloads beyond its ceiling; the orchestrator reroutes those to a
// higher-capacity strategy.
type Probe struct {
	prService PullRequestsService
	ceiling   int
}

func NewProbe(token string, ceiling int) *Probe {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &Probe{
		prService: client.PullRequests,
		ceiling:   ceiling,
	}
}

func NewProbeWithServices(prService PullRequestsService, ceiling int) *Probe {
	return &Probe{
		prService: prService,
		ceiling:   ceiling,
	}
}

type prMetadata struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	State     string   `json:"state"`
	Branch    string   `json:"branch"`
	Body      string   `json:"body,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Additions int      `json:"additions"`
	Deletions int      `json:"deletions"`
}

type prFile struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch,omitempty"`
}

type commitEntry struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author,omitempty"`
}

func (p *Probe) Invoke(ctx context.Context, req models.RetrievalRequest) models.RetrievalOutcome {
	log := logger.FromContext(ctx)

	log.Debug("github api probe",
		"resource", req.Resource,
		"key", req.Key())

	switch req.Resource {
	case models.ResourcePRMetadata:
		return p.fetchPRMetadata(ctx, req)
	case models.ResourcePRFiles:
		return p.fetchPRFiles(ctx, req)
	case models.ResourceCommitHistory:
		return p.fetchCommits(ctx, req)
	default:
		return models.TransientFailure(models.StrategyStructuredAPI,
			domainErrors.NewAppError(domainErrors.TypeRetrieval, "unsupported resource", nil).
				WithContext("resource", string(req.Resource)))
	}
}

func (p *Probe) fetchPRMetadata(ctx context.Context, req models.RetrievalRequest) models.RetrievalOutcome {
	pr, resp, err := p.prService.Get(ctx, req.Owner, req.Repo, req.Number)
	if err != nil {
		return classify(resp, err)
	}

	labels := make([]string, len(pr.Labels))
	for i, label := range pr.Labels {
		labels[i] = label.GetName()
	}

	return p.finish(prMetadata{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Author:    pr.GetUser().GetLogin(),
		State:     pr.GetState(),
		Branch:    pr.GetHead().GetRef(),
		Body:      pr.GetBody(),
		Labels:    labels,
		Additions: pr.GetAdditions(),
		Deletions: pr.GetDeletions(),
	})
}

func (p *Probe) fetchPRFiles(ctx context.Context, req models.RetrievalRequest) models.RetrievalOutcome {
	opts := &github.ListOptions{PerPage: 100}
	var files []prFile
	size := 0

	for {
		page, resp, err := p.prService.ListFiles(ctx, req.Owner, req.Repo, req.Number, opts)
		if err != nil {
			return classify(resp, err)
		}

		for _, f := range page {
			files = append(files, prFile{
				Path:      f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Patch:     f.GetPatch(),
			})
			size += len(f.GetPatch()) + len(f.GetFilename())
		}

		// Bail out as soon as the running size crosses the ceiling; no
		// point paying for the remaining pages.
		if size > p.ceiling {
			return models.SizeExceeded(models.StrategyStructuredAPI, size)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return p.finish(files)
}

func (p *Probe) fetchCommits(ctx context.Context, req models.RetrievalRequest) models.RetrievalOutcome {
	opts := &github.ListOptions{PerPage: 100}
	var entries []commitEntry

	for {
		page, resp, err := p.prService.ListCommits(ctx, req.Owner, req.Repo, req.Number, opts)
		if err != nil {
			return classify(resp, err)
		}

		for _, c := range page {
			entries = append(entries, commitEntry{
				SHA:     c.GetSHA(),
				Message: c.GetCommit().GetMessage(),
				Author:  c.GetCommit().GetAuthor().GetName(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return p.finish(entries)
}

// finish marshals the payload and applies the ceiling to the final size.
func (p *Probe) finish(payload interface{}) models.RetrievalOutcome {
	data, err := json.Marshal(payload)
	if err != nil {
		return models.TransientFailure(models.StrategyStructuredAPI,
			domainErrors.NewAppError(domainErrors.TypeInternal, "failed to encode payload", err))
	}

	if len(data) > p.ceiling {
		return models.SizeExceeded(models.StrategyStructuredAPI, len(data))
	}

	return models.Success(models.StrategyStructuredAPI, string(data))
}

// classify maps a REST failure to a retrieval outcome. Authorization
// problems abort the whole fetch, everything else is worth a retry.
func classify(resp *github.Response, err error) models.RetrievalOutcome {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return models.PermissionDenied(models.StrategyStructuredAPI,
				domainErrors.ErrGitHubTokenInvalid.WithError(err))
		case http.StatusForbidden:
			// GitHub reports rate limiting as 403 with a zero remaining
			// quota; that is transient, a real 403 is not.
			if resp.Rate.Remaining == 0 {
				return models.TransientFailure(models.StrategyStructuredAPI,
					domainErrors.ErrGitHubRateLimit.WithError(err))
			}
			return models.PermissionDenied(models.StrategyStructuredAPI,
				domainErrors.ErrPermissionDenied.WithError(err))
		case http.StatusNotFound:
			// Private repos answer 404 to tokens without access.
			return models.PermissionDenied(models.StrategyStructuredAPI,
				domainErrors.ErrPermissionDenied.WithError(err))
		}
	}

	return models.TransientFailure(models.StrategyStructuredAPI,
		domainErrors.ErrTransientFailure.WithError(err))
}
