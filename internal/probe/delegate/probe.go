// Package delegate implements the delegated-analysis retrieval strategy:
// the raw data is fetched at full fidelity through a source probe and a
// summarization sub-task is handed to Gemini, so the caller receives a
// digest that fits where the raw response would not.
package delegate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/orchestrator"
	"github.com/gitsherpa/gitsherpa/internal/regex"
)

var _ orchestrator.Probe = (*Probe)(nil)

const defaultModel = "gemini-2.5-flash"

type generateFn func(ctx context.Context, model, prompt string) (string, error)

type Probe struct {
	source   orchestrator.Probe
	client   *genai.Client
	model    string
	generate generateFn
}

// NewProbe builds the delegation probe. source supplies the raw data,
// typically a lightweight-query probe with no ceiling of its own.
func NewProbe(ctx context.Context, apiKey, model string, source orchestrator.Probe) (*Probe, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "error creating AI client", err)
	}

	if model == "" {
		model = defaultModel
	}

	p := &Probe{
		source: source,
		client: client,
		model:  model,
	}
	p.generate = p.defaultGenerate
	return p, nil
}

func newProbeWithGenerate(source orchestrator.Probe, generate generateFn) *Probe {
	return &Probe{
		source:   source,
		model:    defaultModel,
		generate: generate,
	}
}

func (p *Probe) Invoke(ctx context.Context, req models.RetrievalRequest) models.RetrievalOutcome {
	log := logger.FromContext(ctx)

	raw := p.source.Invoke(ctx, req)
	if raw.Status != models.OutcomeSuccess {
		// The sub-task cannot analyze what the source could not produce.
		raw.Strategy = models.StrategyDelegatedAnalysis
		return raw
	}

	log.Debug("delegating analysis sub-task",
		"model", p.model,
		"raw_size", len(raw.Payload),
		"key", req.Key())

	digest, err := p.generate(ctx, p.model, buildPrompt(req, raw.Payload))
	if err != nil {
		return classifyAIError(err)
	}

	return models.Success(models.StrategyDelegatedAnalysis, unwrapFence(digest))
}

// unwrapFence strips the markdown code fence the model sometimes wraps its
// whole answer in.
func unwrapFence(digest string) string {
	digest = strings.TrimSpace(digest)
	if !strings.HasPrefix(digest, "```") {
		return digest
	}
	if m := regex.MarkdownJSONBlock.FindStringSubmatch(digest); m != nil {
		return strings.TrimSpace(m[1])
	}
	return digest
}

func (p *Probe) defaultGenerate(ctx context.Context, model, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     float32Ptr(0.2),
		MaxOutputTokens: 4096,
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}

func float32Ptr(f float32) *float32 {
	return &f
}

func buildPrompt(req models.RetrievalRequest, payload string) string {
	var instruction string
	switch req.Resource {
	case models.ResourcePRFiles:
		instruction = "Summarize this pull request file list: group the changed files by area, name the largest changes, and keep every file path."
	case models.ResourceCommitHistory:
		instruction = "Summarize this commit history: list each commit subject and collapse repeated fixups."
	default:
		instruction = "Summarize this repository data without dropping identifiers."
	}

	return fmt.Sprintf("%s\n\nRepository: %s\n\n%s", instruction, req.Key(), payload)
}

func classifyAIError(err error) models.RetrievalOutcome {
	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "permission") {
		return models.PermissionDenied(models.StrategyDelegatedAnalysis,
			domainErrors.ErrAPIKeyMissing.WithError(err))
	}

	return models.TransientFailure(models.StrategyDelegatedAnalysis,
		domainErrors.ErrTransientFailure.WithError(err))
}
