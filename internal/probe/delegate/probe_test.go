package delegate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitsherpa/gitsherpa/internal/models"
)

type stubSource struct {
	outcome models.RetrievalOutcome
}

func (s *stubSource) Invoke(_ context.Context, _ models.RetrievalRequest) models.RetrievalOutcome {
	return s.outcome
}

func prFilesRequest() models.RetrievalRequest {
	return models.RetrievalRequest{
		Resource: models.ResourcePRFiles,
		Owner:    "org",
		Repo:     "repo",
		Number:   42,
	}
}

func TestNewProbe(t *testing.T) {
	t.Run("should fail without an API key", func(t *testing.T) {
		probe, err := NewProbe(context.Background(), "", "", &stubSource{})

		assert.Nil(t, probe)
		require.Error(t, err)
	})
}

func TestProbe_Invoke(t *testing.T) {
	t.Run("should delegate the raw payload and return a digest", func(t *testing.T) {
		// Arrange
		source := &stubSource{outcome: models.Success(models.StrategyLightweightQuery, `{"files":["a.go","b.go"]}`)}
		var gotPrompt string
		probe := newProbeWithGenerate(source, func(_ context.Context, _ string, prompt string) (string, error) {
			gotPrompt = prompt
			return "2 files changed in internal\n", nil
		})

		// Act
		outcome := probe.Invoke(context.Background(), prFilesRequest())

		// Assert
		assert.Equal(t, models.OutcomeSuccess, outcome.Status)
		assert.Equal(t, models.StrategyDelegatedAnalysis, outcome.Strategy)
		assert.Equal(t, "2 files changed in internal", outcome.Payload)
		assert.Contains(t, gotPrompt, "org/repo#42")
		assert.Contains(t, gotPrompt, `a.go`)
	})

	t.Run("should digest a payload far beyond the lightweight ceiling", func(t *testing.T) {
		// Arrange
		source := &stubSource{outcome: models.Success(models.StrategyLightweightQuery, strings.Repeat(`{"file":"a.go"}`, 10000))}
		probe := newProbeWithGenerate(source, func(_ context.Context, _ string, _ string) (string, error) {
			return "10000 identical file entries", nil
		})

		// Act
		outcome := probe.Invoke(context.Background(), prFilesRequest())

		// Assert
		assert.Equal(t, models.OutcomeSuccess, outcome.Status)
		assert.Equal(t, "10000 identical file entries", outcome.Payload)
	})

	t.Run("should unwrap a digest the model fenced in a code block", func(t *testing.T) {
		source := &stubSource{outcome: models.Success(models.StrategyLightweightQuery, "payload")}
		probe := newProbeWithGenerate(source, func(_ context.Context, _ string, _ string) (string, error) {
			return "```json\n{\"summary\":\"2 files changed\"}\n```", nil
		})

		outcome := probe.Invoke(context.Background(), prFilesRequest())

		assert.Equal(t, models.OutcomeSuccess, outcome.Status)
		assert.Equal(t, `{"summary":"2 files changed"}`, outcome.Payload)
	})

	t.Run("should leave a digest that merely contains a fence untouched", func(t *testing.T) {
		source := &stubSource{outcome: models.Success(models.StrategyLightweightQuery, "payload")}
		digest := "The diff adds:\n```go\nfunc main() {}\n```\nto cmd."
		probe := newProbeWithGenerate(source, func(_ context.Context, _ string, _ string) (string, error) {
			return digest, nil
		})

		outcome := probe.Invoke(context.Background(), prFilesRequest())

		assert.Equal(t, digest, outcome.Payload)
	})

	t.Run("should propagate a failed source outcome without generating", func(t *testing.T) {
		source := &stubSource{outcome: models.PermissionDenied(models.StrategyLightweightQuery, errors.New("403"))}
		generated := false
		probe := newProbeWithGenerate(source, func(_ context.Context, _ string, _ string) (string, error) {
			generated = true
			return "", nil
		})

		outcome := probe.Invoke(context.Background(), prFilesRequest())

		assert.Equal(t, models.OutcomePermissionDenied, outcome.Status)
		assert.Equal(t, models.StrategyDelegatedAnalysis, outcome.Strategy)
		assert.False(t, generated)
	})

	t.Run("should map quota errors to transient failure", func(t *testing.T) {
		source := &stubSource{outcome: models.Success(models.StrategyLightweightQuery, "payload")}
		probe := newProbeWithGenerate(source, func(_ context.Context, _ string, _ string) (string, error) {
			return "", errors.New("resource exhausted: quota exceeded")
		})

		outcome := probe.Invoke(context.Background(), prFilesRequest())

		assert.Equal(t, models.OutcomeTransientFailure, outcome.Status)
	})

	t.Run("should map API key errors to permission denied", func(t *testing.T) {
		source := &stubSource{outcome: models.Success(models.StrategyLightweightQuery, "payload")}
		probe := newProbeWithGenerate(source, func(_ context.Context, _ string, _ string) (string, error) {
			return "", errors.New("API key not valid")
		})

		outcome := probe.Invoke(context.Background(), prFilesRequest())

		assert.Equal(t, models.OutcomePermissionDenied, outcome.Status)
	})
}
