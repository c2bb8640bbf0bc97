// Package provider defines types shared by the external data-provider clients.
package provider

import "fmt"

// Error is returned when a provider responds with a non-2xx status.
// It carries the upstream status code and response body so callers can
// log or surface the provider's own diagnostics.
type Error struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
}

// NewError creates a provider error for a failed upstream call.
func NewError(provider, operation string, statusCode int, body string) *Error {
	return &Error{
		Provider:   provider,
		Operation:  operation,
		StatusCode: statusCode,
		Body:       body,
	}
}
