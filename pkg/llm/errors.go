package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyCompletion is returned when a provider responds successfully but
// with no text content. Treated as permanent: retrying the same prompt is
// not expected to help.
var ErrEmptyCompletion = errors.New("completion service returned empty response")

// ErrNoProviders is returned when no provider is configured or every
// configured provider failed.
var ErrNoProviders = errors.New("no completion providers available")

// APIError is a non-2xx response from a completion provider.
type APIError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// Transient reports whether the failure is worth retrying: server-class
// errors and rate limits. Client-class errors are permanent.
func (e *APIError) Transient() bool {
	return e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// IsTransient reports whether err represents a transient completion failure.
// Network-level errors (no APIError in the chain) are treated as transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return true
}
