// Package ghcli implements the lightweight-query retrieval strategy by
// shelling out to the gh CLI, which carries its own authentication and
// pagination and costs far less than a full API walk.
package ghcli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/orchestrator"
)

var _ orchestrator.Probe = (*Probe)(nil)

// runner executes one command and returns stdout and stderr separately,
// injectable so tests never shell out.
type runner func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

func execRunner(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

type Probe struct {
	bin     string
	ceiling int
	run     runner
}

func NewProbe(ceiling int) *Probe {
	return &Probe{
		bin:     "gh",
		ceiling: ceiling,
		run:     execRunner,
	}
}

func newProbeWithRunner(ceiling int, run runner) *Probe {
	return &Probe{
		bin:     "gh",
		ceiling: ceiling,
		run:     run,
	}
}

func (p *Probe) Invoke(ctx context.Context, req models.RetrievalRequest) models.RetrievalOutcome {
	log := logger.FromContext(ctx)

	args, err := p.argsFor(req)
	if err != nil {
		return models.TransientFailure(models.StrategyLightweightQuery, err)
	}

	log.Debug("gh cli probe",
		"args", strings.Join(args, " "),
		"key", req.Key())

	stdout, stderr, err := p.run(ctx, p.bin, args...)
	if err != nil {
		return classify(err, stderr)
	}

	if p.ceiling > 0 && len(stdout) > p.ceiling {
		return models.SizeExceeded(models.StrategyLightweightQuery, len(stdout))
	}

	return models.Success(models.StrategyLightweightQuery, strings.TrimSpace(stdout))
}

func (p *Probe) argsFor(req models.RetrievalRequest) ([]string, error) {
	repo := fmt.Sprintf("%s/%s", req.Owner, req.Repo)
	number := fmt.Sprintf("%d", req.Number)

	switch req.Resource {
	case models.ResourcePRFiles:
		return []string{"pr", "view", number, "--repo", repo, "--json", "files"}, nil
	case models.ResourcePRMetadata:
		return []string{"pr", "view", number, "--repo", repo, "--json", "number,title,author,state,headRefName,body,labels,additions,deletions"}, nil
	case models.ResourceCommitHistory:
		return []string{"pr", "view", number, "--repo", repo, "--json", "commits"}, nil
	default:
		return nil, domainErrors.NewAppError(domainErrors.TypeRetrieval, "unsupported resource", nil).
			WithContext("resource", string(req.Resource))
	}
}

// classify maps a gh failure to a retrieval outcome based on exit state and
// stderr. gh prints authentication problems to stderr with stable wording.
func classify(err error, stderr string) models.RetrievalOutcome {
	if errors.Is(err, exec.ErrNotFound) {
		// A missing binary sinks this strategy, not the whole fetch; the
		// orchestrator will demote past it.
		return models.TransientFailure(models.StrategyLightweightQuery,
			domainErrors.ErrGhCLINotFound.WithError(err))
	}

	lower := strings.ToLower(stderr)
	if strings.Contains(lower, "gh auth login") ||
		strings.Contains(lower, "http 401") ||
		strings.Contains(lower, "http 403") ||
		strings.Contains(lower, "could not find") {
		return models.PermissionDenied(models.StrategyLightweightQuery,
			domainErrors.ErrPermissionDenied.WithError(err).
				WithContext("stderr", strings.TrimSpace(stderr)))
	}

	return models.TransientFailure(models.StrategyLightweightQuery,
		domainErrors.ErrTransientFailure.WithError(err).
			WithContext("stderr", strings.TrimSpace(stderr)))
}
