// Package config hosts the configuration management commands.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	cfg "github.com/gitsherpa/gitsherpa/internal/config"
	"github.com/gitsherpa/gitsherpa/internal/i18n"
	"github.com/gitsherpa/gitsherpa/internal/ui"
	"github.com/urfave/cli/v3"
)

type CommandFactory struct{}

func NewCommandFactory() *CommandFactory {
	return &CommandFactory{}
}

func (c *CommandFactory) CreateCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config_usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, config),
			c.newSetCommand(t, config),
		},
	}
}

func (c *CommandFactory) newShowCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ui.PrintKeyValue("language", config.Language)
			ui.PrintKeyValue("gemini-model", config.GeminiModel)
			ui.PrintKeyValue("github-token", maskSecret(config.GitHubToken))
			ui.PrintKeyValue("gemini-api-key", maskSecret(config.GeminiAPIKey))
			ui.PrintKeyValue("active-ticket-service", config.ActiveTicketService)
			ui.PrintKeyValue("jira-base-url", config.JiraConfig.BaseURL)
			ui.PrintKeyValue("jira-email", config.JiraConfig.Email)
			ui.PrintKeyValue("jira-api-key", maskSecret(config.JiraConfig.APIKey))
			if config.Retrieval.StructuredAPICeiling > 0 {
				ui.PrintKeyValue("structured-api-ceiling", strconv.Itoa(config.Retrieval.StructuredAPICeiling))
			}
			return nil
		},
	}
}

func (c *CommandFactory) newSetCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config_set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("usage: gitsherpa config set <key> <value>")
			}
			key, value := cmd.Args().Get(0), cmd.Args().Get(1)

			if err := applySetting(config, key, value); err != nil {
				ui.HandleAppError(err)
				return err
			}

			if err := cfg.SaveConfig(config); err != nil {
				ui.HandleAppError(err)
				return err
			}

			ui.PrintSuccess(os.Stdout, t.GetMessage("config_saved", 0, nil))
			return nil
		},
	}
}

func applySetting(config *cfg.Config, key, value string) error {
	switch key {
	case "language":
		config.Language = value
	case "github-token":
		config.GitHubToken = value
	case "gemini-api-key":
		config.GeminiAPIKey = value
	case "gemini-model":
		config.GeminiModel = value
	case "active-ticket-service":
		config.ActiveTicketService = value
	case "jira-base-url":
		config.JiraConfig.BaseURL = value
	case "jira-email":
		config.JiraConfig.Email = value
	case "jira-api-key":
		config.JiraConfig.APIKey = value
	case "structured-api-ceiling":
		ceiling, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("structured-api-ceiling must be an integer: %w", err)
		}
		config.Retrieval.StructuredAPICeiling = ceiling
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
