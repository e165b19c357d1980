package models

import "fmt"

// TicketRef is an issue-tracker key of the form PROJECT-NUMBER,
// always normalized to uppercase.
type TicketRef string

func (t TicketRef) String() string {
	return string(t)
}

type (
	// BranchName is a validated branch identifier of the form
	// <initials>/<TICKET>-<kebab-description>.
	BranchName struct {
		Initials    string
		Ticket      TicketRef
		Description string
	}

	// CommitSubject is a validated conventional-commit subject line.
	CommitSubject struct {
		Type    string
		Scope   string
		Subject string
	}

	// PRTitle is a validated pull request title of the form
	// <TICKET>: <summary>.
	PRTitle struct {
		Ticket  TicketRef
		Summary string
	}
)

func (b BranchName) String() string {
	return fmt.Sprintf("%s/%s-%s", b.Initials, b.Ticket, b.Description)
}

func (c CommitSubject) String() string {
	if c.Scope != "" {
		return fmt.Sprintf("%s(%s): %s", c.Type, c.Scope, c.Subject)
	}
	return fmt.Sprintf("%s: %s", c.Type, c.Subject)
}

func (p PRTitle) String() string {
	return fmt.Sprintf("%s: %s", p.Ticket, p.Summary)
}
