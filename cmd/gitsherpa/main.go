package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	checkcmd "github.com/gitsherpa/gitsherpa/internal/commands/check"
	configcmd "github.com/gitsherpa/gitsherpa/internal/commands/config"
	fetchcmd "github.com/gitsherpa/gitsherpa/internal/commands/fetch"
	prtitlecmd "github.com/gitsherpa/gitsherpa/internal/commands/prtitle"
	"github.com/gitsherpa/gitsherpa/internal/commands/registry"
	ticketcmd "github.com/gitsherpa/gitsherpa/internal/commands/ticket"
	cfg "github.com/gitsherpa/gitsherpa/internal/config"
	"github.com/gitsherpa/gitsherpa/internal/git"
	"github.com/gitsherpa/gitsherpa/internal/i18n"
	"github.com/gitsherpa/gitsherpa/internal/logger"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/orchestrator"
	"github.com/gitsherpa/gitsherpa/internal/probe/delegate"
	"github.com/gitsherpa/gitsherpa/internal/probe/ghcli"
	"github.com/gitsherpa/gitsherpa/internal/probe/githubapi"
	"github.com/gitsherpa/gitsherpa/internal/services"
	"github.com/gitsherpa/gitsherpa/internal/tickets/jira"
	"github.com/gitsherpa/gitsherpa/internal/version"
	"github.com/urfave/cli/v3"
)

// lightweightQueryCeiling bounds the gh CLI path. It parses full JSON
// responses locally, so it tolerates far larger payloads than the API path.
const lightweightQueryCeiling = 100000

func main() {
	logger.Initialize(hasFlag("--debug"), hasFlag("--verbose"))

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to initialize the cli: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func hasFlag(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name {
			return true
		}
	}
	return false
}

func initializeApp() (*cli.Command, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not resolve the user home directory: %w", err)
	}

	cfgApp, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	gitService := git.NewService()

	conventionOpts := []services.ConventionOption{
		services.WithBranchReader(gitService),
	}

	var tracker ticketcmd.TicketInfoService
	if cfgApp.ActiveTicketService == "jira" {
		jiraService, err := jira.NewService(jira.Config{
			BaseURL: cfgApp.JiraConfig.BaseURL,
			Email:   cfgApp.JiraConfig.Email,
			APIKey:  cfgApp.JiraConfig.APIKey,
		}, &http.Client{Timeout: 15 * time.Second})
		if err != nil {
			log.Printf("Warning: jira is configured but unusable: %v", err)
		} else {
			tracker = jiraService
			conventionOpts = append(conventionOpts, services.WithTicketReader(jiraService))
		}
	}

	conventionService := services.NewConventionService(conventionOpts...)

	retrievalService := services.NewRetrievalService(
		services.WithFetcher(buildOrchestrator(cfgApp)),
		services.WithRepoReader(gitService),
	)

	registerCommand := registry.NewRegistry(cfgApp, translations)

	factories := map[string]registry.CommandFactory{
		"check-branch": checkcmd.NewBranchCommandFactory(conventionService),
		"check-commit": checkcmd.NewCommitCommandFactory(),
		"ticket":       ticketcmd.NewCommandFactory(conventionService, tracker),
		"pr-title":     prtitlecmd.NewCommandFactory(conventionService),
		"fetch":        fetchcmd.NewCommandFactory(retrievalService),
		"config":       configcmd.NewCommandFactory(),
	}
	for _, name := range []string{"check-branch", "check-commit", "ticket", "pr-title", "fetch", "config"} {
		if err := registerCommand.Register(name, factories[name]); err != nil {
			return nil, fmt.Errorf("failed to register command %q: %w", name, err)
		}
	}

	return &cli.Command{
		Name:                  "gitsherpa",
		Usage:                 "Workflow conventions and repository context retrieval",
		Version:               version.FullVersion(),
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
	}, nil
}

// buildOrchestrator assembles the ranked strategy chain: the structured API
// first, the gh CLI as fallback, and delegated analysis last when an AI key
// is configured.
func buildOrchestrator(cfgApp *cfg.Config) *orchestrator.Orchestrator {
	apiCeiling := cfgApp.Retrieval.StructuredAPICeiling
	if apiCeiling == 0 {
		apiCeiling = orchestrator.DefaultStructuredAPICeiling
	}

	token := cfgApp.GitHubToken
	if env := os.Getenv("GITHUB_TOKEN"); env != "" {
		token = env
	}

	cliProbe := ghcli.NewProbe(lightweightQueryCeiling)

	specs := []orchestrator.StrategySpec{
		{
			Strategy: models.StrategyStructuredAPI,
			Cost:     1,
			Ceiling:  apiCeiling,
			Probe:    githubapi.NewProbe(token, apiCeiling),
		},
		{
			Strategy: models.StrategyLightweightQuery,
			Cost:     2,
			Ceiling:  lightweightQueryCeiling,
			Probe:    cliProbe,
		},
	}

	apiKey := cfgApp.GeminiAPIKey
	if env := os.Getenv("GEMINI_API_KEY"); env != "" {
		apiKey = env
	}
	if apiKey != "" {
		// The delegate source carries no ceiling: oversized payloads are the
		// whole point of delegating, the digest is what has to fit.
		delegateProbe, err := delegate.NewProbe(context.Background(), apiKey, cfgApp.GeminiModel, ghcli.NewProbe(0))
		if err != nil {
			log.Printf("Warning: delegated analysis unavailable: %v", err)
		} else {
			specs = append(specs, orchestrator.StrategySpec{
				Strategy: models.StrategyDelegatedAnalysis,
				Cost:     3,
				Ceiling:  orchestrator.CapacityUnbounded,
				Probe:    delegateProbe,
			})
		}
	}

	return orchestrator.New(specs)
}
