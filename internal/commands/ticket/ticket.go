// Package ticket hosts the ticket derivation command.
package ticket

import (
	"context"
	"os"

	cfg "github.com/gitsherpa/gitsherpa/internal/config"
	"github.com/gitsherpa/gitsherpa/internal/i18n"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConventionService is a minimal interface for testing purposes
type ConventionService interface {
	TicketFromBranch(ctx context.Context) (models.TicketRef, error)
}

// TicketInfoService resolves ticket details from a tracker. Optional.
type TicketInfoService interface {
	GetTicketInfo(ctx context.Context, ref models.TicketRef) (*models.TicketInfo, error)
}

type CommandFactory struct {
	service ConventionService
	tracker TicketInfoService
}

func NewCommandFactory(service ConventionService, tracker TicketInfoService) *CommandFactory {
	return &CommandFactory{service: service, tracker: tracker}
}

func (c *CommandFactory) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "ticket",
		Usage: t.GetMessage("ticket_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "details",
				Aliases: []string{"d"},
				Usage:   "Look up the ticket in the configured tracker",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			ref, err := c.service.TicketFromBranch(ctx)
			if err != nil {
				ui.HandleAppError(err)
				return err
			}

			ui.PrintSuccess(os.Stdout, t.GetMessage("ticket_detected", 0, map[string]interface{}{
				"Ticket": string(ref),
			}))

			if cmd.Bool("details") && c.tracker != nil {
				info, err := c.tracker.GetTicketInfo(ctx, ref)
				if err != nil {
					log.Warn("tracker lookup failed", "ticket", ref, "error", err)
					ui.HandleAppError(err)
					return err
				}
				ui.PrintKeyValue("title", info.Title)
				if info.Description != "" {
					ui.PrintKeyValue("description", info.Description)
				}
			}

			return nil
		},
	}
}
