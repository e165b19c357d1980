package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeValidation    ErrorType = "VALIDATION"
	TypeRetrieval     ErrorType = "RETRIEVAL"
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeGit           ErrorType = "GIT"
	TypeTickets       ErrorType = "TICKETS"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// InvalidFormatError reports a convention grammar violation. Rule names the
// first rule the input broke, so callers can point the user at it.
type InvalidFormatError struct {
	Identifier string
	Rule       string
	Input      string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("VALIDATION: invalid %s: %s", e.Identifier, e.Rule)
}

func (e *InvalidFormatError) Unwrap() error {
	return ErrInvalidFormat
}

// NewInvalidFormatError creates a new InvalidFormatError
func NewInvalidFormatError(identifier, rule, input string) *InvalidFormatError {
	return &InvalidFormatError{Identifier: identifier, Rule: rule, Input: input}
}

// LineTooLongError is surfaced distinctly from InvalidFormatError so callers
// can offer truncation instead of a generic format fix.
type LineTooLongError struct {
	Identifier string
	Length     int
	Limit      int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("VALIDATION: %s is %d characters, limit is %d", e.Identifier, e.Length, e.Limit)
}

func (e *LineTooLongError) Unwrap() error {
	return ErrLineTooLong
}

// NewLineTooLongError creates a new LineTooLongError
func NewLineTooLongError(identifier string, length, limit int) *LineTooLongError {
	return &LineTooLongError{Identifier: identifier, Length: length, Limit: limit}
}

// Validation errors
var (
	ErrInvalidFormat = NewAppError(TypeValidation, "Input does not match the required format", nil)

	// ErrLineTooLong wraps ErrInvalidFormat: an over-long line is a format
	// violation too, but stays distinguishable so callers can offer
	// truncation instead of a generic format fix.
	ErrLineTooLong = NewAppError(TypeValidation, "Line exceeds the maximum length", ErrInvalidFormat).
			WithSuggestion("Shorten the subject or move details to the body")
)

// Retrieval errors
var (
	ErrPermissionDenied = NewAppError(TypeRetrieval, "Authorization gap, no strategy can resolve it", nil).
				WithSuggestion("Check your token scopes: gh auth status")

	ErrSizeExceeded = NewAppError(TypeRetrieval, "Could not retrieve within size budget", nil).
			WithSuggestion("Narrow the request or raise the strategy ceilings in config")

	ErrTransientFailure = NewAppError(TypeRetrieval, "Transient infrastructure failure", nil).
				WithSuggestion("Check your network connection and retry")

	ErrStrategiesExhausted = NewAppError(TypeRetrieval, "All retrieval strategies exhausted", nil)

	ErrNoSuitableStrategy = NewAppError(TypeRetrieval, "No strategy is suitable for this request", nil)

	ErrGitHubTokenInvalid = NewAppError(TypeRetrieval, "GitHub token is invalid or expired", nil).
				WithSuggestion("Regenerate your token: https://github.com/settings/tokens")

	ErrGitHubRateLimit = NewAppError(TypeRetrieval, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or authenticate with a token")

	ErrGhCLINotFound = NewAppError(TypeRetrieval, "gh CLI not found in PATH", nil).
				WithSuggestion("Install it from https://cli.github.com")
)

// Git errors
var (
	ErrGetBranch = NewAppError(TypeGit, "Failed to get current branch", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrNoBranch = NewAppError(TypeGit, "No branch detected", nil).
			WithSuggestion("Create a branch first: git checkout -b <branch-name>")

	ErrGetRepoURL = NewAppError(TypeGit, "Failed to get repository URL", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrExtractRepoInfo = NewAppError(TypeGit, "Failed to extract repository info", nil)
)

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "AI API key is not configured", nil).
				WithSuggestion("Set it with: gitsherpa config set gemini-api-key <key>")

	ErrJiraNotConfigured = NewAppError(TypeConfiguration, "Jira credentials are not configured", nil).
				WithSuggestion("Set base URL, email and API key with: gitsherpa config set")
)

// Ticket errors
var (
	ErrTicketNotFound = NewAppError(TypeTickets, "Ticket not found in the tracker", nil).
				WithSuggestion("Verify the ticket key and your tracker permissions")
)
