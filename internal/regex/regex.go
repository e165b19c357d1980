package regex

import "regexp"

var (
	// Ticket patterns. Project keys are letters only; matched
	// case-insensitively and normalized to uppercase by the conventions
	// package.
	TicketKey       = regexp.MustCompile(`(?i)\b([A-Z]+-\d+)\b`)
	TicketKeyStrict = regexp.MustCompile(`^[A-Z]+-\d+$`)

	// Branch name grammar: <initials>/<TICKET>-<kebab-description>
	BranchInitials    = regexp.MustCompile(`^[a-z]{1,4}$`)
	BranchDescription = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

	// Commit subject grammar: the type-and-scope prefix of <type>(<scope>)?: <subject>
	CommitType = regexp.MustCompile(`^([a-z]+)(\(([^)]*)\))?:`)

	// Git and Repo patterns
	SSHRepo   = regexp.MustCompile(`git@([^:]+):([^/]+)/(.+)\.git$`)
	HTTPSRepo = regexp.MustCompile(`https://([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)

	// Repo key patterns for retrieval requests: owner/repo#number
	RepoKey = regexp.MustCompile(`^([^/#\s]+)/([^/#\s]+)#(\d+)$`)

	// AI and JSON parsing
	MarkdownJSONBlock = regexp.MustCompile("(?s)```(?:json)?\n?(.*?)```")
)
