// Package git is a thin facade over the local git CLI, used to default
// request keys and derive tickets from the current branch.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/regex"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) GetCurrentBranch(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "branch", "--show-current")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainErrors.ErrGetBranch, err)
	}

	branchName := strings.TrimSpace(string(output))
	if branchName == "" {
		return "", domainErrors.ErrNoBranch
	}

	return branchName, nil
}

// GetRepoInfo returns owner, repository name and hosting provider derived
// from the origin remote.
func (s *Service) GetRepoInfo(ctx context.Context) (string, string, string, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", domainErrors.ErrGetRepoURL, err)
	}

	return parseRepoURL(strings.TrimSpace(string(output)))
}

func parseRepoURL(url string) (string, string, string, error) {
	var matches []string
	if regex.SSHRepo.MatchString(url) {
		matches = regex.SSHRepo.FindStringSubmatch(url)
	} else if regex.HTTPSRepo.MatchString(url) {
		matches = regex.HTTPSRepo.FindStringSubmatch(url)
	}

	if len(matches) >= 4 {
		provider := detectProvider(matches[1])
		repoName := strings.TrimSuffix(matches[3], ".git")
		return matches[2], repoName, provider, nil
	}

	return "", "", "", domainErrors.ErrExtractRepoInfo.WithContext("url", url)
}

func detectProvider(host string) string {
	if strings.Contains(host, "github") {
		return "github"
	}
	if strings.Contains(host, "gitlab") {
		return "gitlab"
	}
	return "unknown"
}
