package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

func NewTranslations(defaultLang string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	files, err := filepath.Glob("locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[check_branch_usage]
	other = "Validate the current branch name against the naming convention"

	[check_commit_usage]
	other = "Validate a commit subject line"

	[check_passed]
	other = "{{.Identifier}} follows the convention"

	[check_failed]
	other = "{{.Identifier}} does not follow the convention"

	[ticket_usage]
	other = "Show the ticket referenced by the current branch"

	[ticket_detected]
	other = "Ticket: {{.Ticket}}"

	[prtitle_usage]
	other = "Build a pull request title from the current branch"

	[prtitle_result]
	other = "Suggested PR title:"

	[fetch_usage]
	other = "Fetch pull request context, picking the cheapest working source"

	[fetch_in_progress]
	other = "Fetching {{.Resource}} for {{.Key}}..."

	[fetch_strategy_used]
	other = "Retrieved via {{.Strategy}} ({{.Size}} bytes)"

	[fetch_permission_denied]
	other = "Access denied while fetching {{.Key}}. Check your credentials."

	[fetch_size_exceeded]
	other = "The requested data is too large for every available source"

	[fetch_exhausted]
	other = "All retrieval sources failed. Try again later."

	[config_usage]
	other = "Manage gitsherpa configuration"

	[config_set_usage]
	other = "Set a configuration value"

	[config_show_usage]
	other = "Show the current configuration"

	[config_saved]
	other = "Configuration saved"

	[config_unknown_key]
	other = "Unknown configuration key: {{.Key}}"

	[attempts_made]
	one = "{{.Count}} attempt made"
	other = "{{.Count}} attempts made"
	`
