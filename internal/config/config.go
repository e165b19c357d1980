package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type (
	Config struct {
		Language     string `json:"language"`
		GitHubToken  string `json:"github_token,omitempty"`
		GeminiAPIKey string `json:"gemini_api_key,omitempty"`
		GeminiModel  string `json:"gemini_model"`
		PathFile     string `json:"path_file"`

		// Retrieval tuning. Zero values fall back to the built-in ceilings.
		Retrieval RetrievalConfig `json:"retrieval"`

		ActiveTicketService string     `json:"active_ticket_service,omitempty"` // "jira"
		JiraConfig          JiraConfig `json:"jira_config"`
	}

	RetrievalConfig struct {
		StructuredAPICeiling int `json:"structured_api_ceiling,omitempty"`
	}

	JiraConfig struct {
		APIKey  string `json:"api_key,omitempty"`
		BaseURL string `json:"base_url,omitempty"`
		Email   string `json:"email,omitempty"`
	}
)

const (
	defaultLang  = "en"
	defaultModel = "gemini-2.5-flash"

	configDirName = ".gitsherpa"
)

// LoadConfig reads the configuration at path. When path is a directory the
// file lives at <path>/.gitsherpa/config.json, created with defaults when
// missing.
func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".json" {
		configPath = path
	} else {
		configDir := filepath.Join(path, configDirName)
		configPath = filepath.Join(configDir, "config.json")

		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.GeminiModel == "" {
		config.GeminiModel = defaultModel
	}
	config.PathFile = configPath

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("loaded config is not valid: %w", err)
	}

	return &config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	config := &Config{
		Language:    defaultLang,
		GeminiModel: defaultModel,
		PathFile:    path,

		JiraConfig:          JiraConfig{},
		ActiveTicketService: "",
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}

	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("config to save is not valid: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("config file path is not set")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return errors.New("language cannot be empty")
	}
	if config.Retrieval.StructuredAPICeiling < 0 {
		return errors.New("structured_api_ceiling cannot be negative")
	}
	if config.ActiveTicketService != "" {
		switch config.ActiveTicketService {
		case "jira":
			if config.JiraConfig.BaseURL == "" {
				return errors.New("jira base URL is not configured")
			}
			if config.JiraConfig.Email == "" {
				return errors.New("jira email is not configured")
			}
			if config.JiraConfig.APIKey == "" {
				return errors.New("jira API key is not configured")
			}
		default:
			return fmt.Errorf("unsupported ticket service: %s", config.ActiveTicketService)
		}
	}
	return nil
}
