// Package check hosts the convention validation commands.
package check

import (
	"context"
	"fmt"
	"os"

	cfg "github.com/gitsherpa/gitsherpa/internal/config"
	"github.com/gitsherpa/gitsherpa/internal/conventions"
	"github.com/gitsherpa/gitsherpa/internal/i18n"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConventionService is a minimal interface for testing purposes
type ConventionService interface {
	ValidateCurrentBranch(ctx context.Context) (models.BranchName, error)
}

type BranchCommandFactory struct {
	service ConventionService
}

func NewBranchCommandFactory(service ConventionService) *BranchCommandFactory {
	return &BranchCommandFactory{service: service}
}

func (c *BranchCommandFactory) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:    "check-branch",
		Aliases: []string{"cb"},
		Usage:   t.GetMessage("check_branch_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			parsed, err := c.service.ValidateCurrentBranch(ctx)
			if err != nil {
				log.Debug("branch validation failed", "error", err)
				ui.HandleAppError(err)
				return fmt.Errorf("%s", t.GetMessage("check_failed", 0, map[string]interface{}{
					"Identifier": "branch name",
				}))
			}

			ui.PrintSuccess(os.Stdout, t.GetMessage("check_passed", 0, map[string]interface{}{
				"Identifier": "branch name",
			}))
			ui.PrintKeyValue("initials", parsed.Initials)
			ui.PrintKeyValue("ticket", string(parsed.Ticket))
			ui.PrintKeyValue("description", parsed.Description)
			return nil
		},
	}
}

type CommitCommandFactory struct{}

func NewCommitCommandFactory() *CommitCommandFactory {
	return &CommitCommandFactory{}
}

func (c *CommitCommandFactory) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "check-commit",
		Aliases:   []string{"cc"},
		Usage:     t.GetMessage("check_commit_usage", 0, nil),
		ArgsUsage: "\"<type>(<scope>): <subject>\"",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			subject := cmd.Args().First()
			parsed, err := conventions.ValidateCommitSubject(subject)
			if err != nil {
				log.Debug("commit subject validation failed", "error", err)
				ui.HandleAppError(err)
				return fmt.Errorf("%s", t.GetMessage("check_failed", 0, map[string]interface{}{
					"Identifier": "commit subject",
				}))
			}

			ui.PrintSuccess(os.Stdout, t.GetMessage("check_passed", 0, map[string]interface{}{
				"Identifier": "commit subject",
			}))
			ui.PrintKeyValue("type", parsed.Type)
			if parsed.Scope != "" {
				ui.PrintKeyValue("scope", parsed.Scope)
			}
			ui.PrintKeyValue("subject", parsed.Subject)
			return nil
		},
	}
}
