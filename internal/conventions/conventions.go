// Package conventions validates and normalizes workflow identifiers
// (branch names, commit subjects, PR titles) against the project grammars.
// Everything here is a pure function: no I/O, deterministic given input.
package conventions

import (
	"strings"

	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/gitsherpa/gitsherpa/internal/regex"
)

// SubjectMaxLength is the hard limit for commit subjects and PR titles.
const SubjectMaxLength = 72

const (
	descriptionMinWords = 2
	descriptionMaxWords = 6
)

// commitTypes is the fixed conventional-commit type set.
var commitTypes = map[string]bool{
	"feat":     true,
	"fix":      true,
	"docs":     true,
	"style":    true,
	"refactor": true,
	"perf":     true,
	"test":     true,
	"build":    true,
	"ci":       true,
	"chore":    true,
	"revert":   true,
}

// ValidateBranchName checks raw against the branch grammar
// <initials>/<TICKET>-<kebab-description> and returns the decomposed
// identifier. The ticket segment is matched case-insensitively and
// normalized to uppercase; everything else is case-sensitive.
func ValidateBranchName(raw string) (models.BranchName, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.BranchName{}, domainErrors.NewInvalidFormatError("branch name", "branch name must not be empty", raw)
	}

	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 || strings.Contains(parts[1], "/") {
		return models.BranchName{}, domainErrors.NewInvalidFormatError("branch name", "branch name must have the form <initials>/<TICKET>-<description>", raw)
	}

	initials, rest := parts[0], parts[1]
	if !regex.BranchInitials.MatchString(initials) {
		return models.BranchName{}, domainErrors.NewInvalidFormatError("branch name", "initials must be 1-4 lowercase letters", raw)
	}

	ticketMatch := regex.TicketKey.FindString(rest)
	if ticketMatch == "" || !strings.HasPrefix(strings.ToUpper(rest), strings.ToUpper(ticketMatch)) {
		return models.BranchName{}, domainErrors.NewInvalidFormatError("branch name", "ticket reference must follow the initials", raw)
	}

	description := strings.TrimPrefix(rest[len(ticketMatch):], "-")
	if description == "" {
		return models.BranchName{}, domainErrors.NewInvalidFormatError("branch name", "description must follow the ticket reference", raw)
	}

	if !regex.BranchDescription.MatchString(description) {
		return models.BranchName{}, domainErrors.NewInvalidFormatError("branch name", "description must be lowercase kebab-case", raw)
	}

	words := strings.Split(description, "-")
	if len(words) < descriptionMinWords || len(words) > descriptionMaxWords {
		return models.BranchName{}, domainErrors.NewInvalidFormatError("branch name", "description must have 2-6 words", raw)
	}

	return models.BranchName{
		Initials:    initials,
		Ticket:      models.TicketRef(strings.ToUpper(ticketMatch)),
		Description: description,
	}, nil
}

// ValidateCommitSubject checks raw against <type>(<scope>)?: <subject>.
// A subject with valid grammar but more than 72 characters fails with
// LineTooLongError so callers can offer truncation.
func ValidateCommitSubject(raw string) (models.CommitSubject, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.CommitSubject{}, domainErrors.NewInvalidFormatError("commit subject", "commit subject must not be empty", raw)
	}

	typeMatch := regex.CommitType.FindStringSubmatch(raw)
	if typeMatch == nil {
		return models.CommitSubject{}, domainErrors.NewInvalidFormatError("commit subject", "subject must have the form <type>(<scope>)?: <subject>", raw)
	}

	commitType := typeMatch[1]
	scope := typeMatch[3]
	if !commitTypes[commitType] {
		return models.CommitSubject{}, domainErrors.NewInvalidFormatError("commit subject", "unknown commit type: "+commitType, raw)
	}

	if typeMatch[2] != "" && scope == "" {
		return models.CommitSubject{}, domainErrors.NewInvalidFormatError("commit subject", "scope must not be empty", raw)
	}

	rest := raw[len(typeMatch[0]):]
	if !strings.HasPrefix(rest, " ") {
		return models.CommitSubject{}, domainErrors.NewInvalidFormatError("commit subject", "a space must separate the type from the subject", raw)
	}

	subject := strings.TrimSpace(rest)
	if subject == "" {
		return models.CommitSubject{}, domainErrors.NewInvalidFormatError("commit subject", "subject text must follow the type", raw)
	}

	if strings.HasSuffix(subject, ".") {
		return models.CommitSubject{}, domainErrors.NewInvalidFormatError("commit subject", "subject must not end with a period", raw)
	}

	if len(raw) > SubjectMaxLength {
		return models.CommitSubject{}, domainErrors.NewLineTooLongError("commit subject", len(raw), SubjectMaxLength)
	}

	return models.CommitSubject{
		Type:    commitType,
		Scope:   scope,
		Subject: subject,
	}, nil
}

// ExtractTicketReference scans text case-insensitively for the first
// project-key match and returns it normalized to uppercase. Absence is not
// an error: ticket-less input is valid for some callers.
func ExtractTicketReference(text string) (models.TicketRef, bool) {
	match := regex.TicketKey.FindString(text)
	if match == "" {
		return "", false
	}
	return models.TicketRef(strings.ToUpper(match)), true
}

// BuildPRTitle concatenates "<TICKET>: <summary>" after validating both
// pieces and the resulting length.
func BuildPRTitle(ticket, summary string) (models.PRTitle, error) {
	ticket = strings.ToUpper(strings.TrimSpace(ticket))
	summary = strings.TrimSpace(summary)

	if !regex.TicketKeyStrict.MatchString(ticket) {
		return models.PRTitle{}, domainErrors.NewInvalidFormatError("PR title", "ticket must match PROJECT-NUMBER", ticket)
	}

	if summary == "" {
		return models.PRTitle{}, domainErrors.NewInvalidFormatError("PR title", "summary must not be empty", summary)
	}

	title := models.PRTitle{
		Ticket:  models.TicketRef(ticket),
		Summary: summary,
	}

	if l := len(title.String()); l > SubjectMaxLength {
		return models.PRTitle{}, domainErrors.NewLineTooLongError("PR title", l, SubjectMaxLength)
	}

	return title, nil
}
