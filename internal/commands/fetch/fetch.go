// Package fetch hosts the context retrieval command.
package fetch

import (
	"context"
	"fmt"
	"os"

	cfg "github.com/gitsherpa/gitsherpa/internal/config"
	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/i18n"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/ui"
	"github.com/urfave/cli/v3"
)

// RetrievalService is a minimal interface for testing purposes
type RetrievalService interface {
	FetchContext(ctx context.Context, resource models.ResourceType, key string, number, sizeHint int) (models.RetrievalOutcome, error)
}

type CommandFactory struct {
	service RetrievalService
}

func NewCommandFactory(service RetrievalService) *CommandFactory {
	return &CommandFactory{service: service}
}

var resources = map[string]models.ResourceType{
	"pr-files":       models.ResourcePRFiles,
	"pr-metadata":    models.ResourcePRMetadata,
	"commit-history": models.ResourceCommitHistory,
}

func (c *CommandFactory) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: t.GetMessage("fetch_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "resource",
				Aliases: []string{"r"},
				Usage:   "One of: pr-files, pr-metadata, commit-history",
				Value:   "pr-files",
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "Target as owner/repo#number; defaults to the origin remote",
			},
			&cli.IntFlag{
				Name:    "pr",
				Aliases: []string{"n"},
				Usage:   "Pull request number when --key is not given",
			},
			&cli.IntFlag{
				Name:  "size-hint",
				Usage: "Expected response size in bytes, when known",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			resource, ok := resources[cmd.String("resource")]
			if !ok {
				return fmt.Errorf("unknown resource: %s", cmd.String("resource"))
			}

			key := cmd.String("key")
			number := int(cmd.Int("pr"))
			sizeHint := int(cmd.Int("size-hint"))

			spinner := ui.NewSmartSpinner(t.GetMessage("fetch_in_progress", 0, map[string]interface{}{
				"Resource": string(resource),
				"Key":      key,
			}))
			spinner.Start()

			outcome, err := c.service.FetchContext(ctx, resource, key, number, sizeHint)
			spinner.Stop()
			if err != nil {
				log.Error("fetch failed", "error", err)
				ui.HandleAppError(err)
				return err
			}

			printAttempts(t, outcome.Attempts)

			switch outcome.Status {
			case models.OutcomeSuccess:
				ui.PrintSuccess(os.Stdout, t.GetMessage("fetch_strategy_used", 0, map[string]interface{}{
					"Strategy": string(outcome.Strategy),
					"Size":     len(outcome.Payload),
				}))
				fmt.Fprintln(os.Stdout, outcome.Payload)
				return nil

			case models.OutcomePermissionDenied:
				msg := t.GetMessage("fetch_permission_denied", 0, map[string]interface{}{"Key": key})
				ui.PrintError(os.Stdout, msg)
				ui.HandleAppError(outcome.Cause)
				return domainErrors.ErrPermissionDenied

			case models.OutcomeSizeExceeded:
				ui.PrintError(os.Stdout, t.GetMessage("fetch_size_exceeded", 0, nil))
				return domainErrors.ErrSizeExceeded

			default:
				ui.PrintError(os.Stdout, t.GetMessage("fetch_exhausted", 0, nil))
				return domainErrors.ErrStrategiesExhausted
			}
		},
	}
}

func printAttempts(t *i18n.Translations, attempts []models.Attempt) {
	if len(attempts) == 0 {
		return
	}
	fmt.Fprintln(os.Stdout, t.GetMessage("attempts_made", len(attempts), map[string]interface{}{
		"Count": len(attempts),
	}))
	for _, a := range attempts {
		ui.PrintKeyValue(string(a.Strategy), string(a.Status))
	}
}
