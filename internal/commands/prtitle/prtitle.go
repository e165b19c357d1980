// Package prtitle hosts the PR title generation command.
package prtitle

import (
	"context"
	"fmt"
	"os"

	cfg "github.com/gitsherpa/gitsherpa/internal/config"
	"github.com/gitsherpa/gitsherpa/internal/i18n"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConventionService is a minimal interface for testing purposes
type ConventionService interface {
	SuggestPRTitle(ctx context.Context, summary string) (models.PRTitle, error)
}

type CommandFactory struct {
	service ConventionService
}

func NewCommandFactory(service ConventionService) *CommandFactory {
	return &CommandFactory{service: service}
}

func (c *CommandFactory) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "pr-title",
		Aliases:   []string{"pt"},
		Usage:     t.GetMessage("prtitle_usage", 0, nil),
		ArgsUsage: "[summary]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			summary := cmd.Args().First()

			title, err := c.service.SuggestPRTitle(ctx, summary)
			if err != nil {
				ui.HandleAppError(err)
				return err
			}

			ui.PrintInfo(t.GetMessage("prtitle_result", 0, nil))
			fmt.Fprintln(os.Stdout, title.String())
			return nil
		},
	}
}
