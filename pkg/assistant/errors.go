package assistant

import (
	"errors"
	"fmt"
)

// ConfigError reports a required credential or identifier missing from the
// configuration. It is raised before any network call is made.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("assistant: missing configuration: %s", e.Missing)
}

// ProviderError reports a failed network call to the AI provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("assistant: provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// TerminalError reports a run that ended in failed, cancelled or expired.
// It is not retried automatically.
type TerminalError struct {
	Status RunStatus
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("assistant: run ended with status %s", e.Status)
}

// TimeoutError reports a run that was still not terminal after the poll
// attempt ceiling was reached.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("assistant: run not complete after %d poll attempts", e.Attempts)
}

// ParseError reports provider output that didn't match the expected shape.
// It is recovered locally by substituting the default response and is only
// surfaced for diagnostics, never to HTTP callers.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("assistant: parse response: %s", e.Reason)
}

// IsFallback reports whether err is one of the kinds the HTTP layer answers
// with the default payload: provider, terminal, timeout or config failures.
func IsFallback(err error) bool {
	var ce *ConfigError
	var pe *ProviderError
	var te *TerminalError
	var to *TimeoutError
	return errors.As(err, &ce) || errors.As(err, &pe) || errors.As(err, &te) || errors.As(err, &to)
}
