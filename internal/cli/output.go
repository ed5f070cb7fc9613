package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/incydecy/internal/ledger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Input rejected (text is not a mutation, etc.)
	ExitCommandError = 2 // Command error (invalid paths, database not found, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  string      `json:"error,omitempty"` // error message
}

// Success outputs a successful result in the configured format.
// Text mode prints the data; JSON mode wraps it in the standard envelope.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// renderCounters renders the counter leaderboard as text.
func renderCounters(scopeID string, ranks []ledger.CounterRank) string {
	if len(ranks) == 0 {
		return fmt.Sprintf("no counters in %s", scopeID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Top counters in %s:\n", scopeID)
	for i, r := range ranks {
		fmt.Fprintf(&b, "%3d. %-24s %d\n", i+1, r.Label, r.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderAuthors renders the author leaderboard as text.
func renderAuthors(scopeID string, ranks []ledger.AuthorRank) string {
	if len(ranks) == 0 {
		return fmt.Sprintf("no mutations in %s", scopeID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Top authors in %s:\n", scopeID)
	for i, r := range ranks {
		fmt.Fprintf(&b, "%3d. %-24s %d\n", i+1, r.AuthorID, r.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}
