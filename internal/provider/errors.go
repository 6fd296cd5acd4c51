package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError means the credential for a provider is rejected. It is fatal
// for every call to that provider in the current run; the waterfall still
// advances to the next provider.
type AuthError struct {
	Provider string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: credential rejected", e.Provider)
}

// RateLimitedError means the provider returned 429. Recoverable: the
// caller waits briefly and moves on to the next company.
type RateLimitedError struct {
	Provider string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: rate limited", e.Provider)
}

// RequestFormatError means the provider rejected the request shape (422),
// usually contract drift. Fatal for the provider this run, and logged
// distinctly from AuthError so operators can tell a bad key from a stale
// integration.
type RequestFormatError struct {
	Provider string
	Detail   string
}

func (e *RequestFormatError) Error() string {
	return fmt.Sprintf("%s: request rejected: %s", e.Provider, e.Detail)
}

// UnavailableError covers transport failures, timeouts and 5xx responses.
// Recoverable: skip this company under this provider.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ClassifyStatus maps an HTTP status to the provider error taxonomy.
// 2xx statuses return nil.
func ClassifyStatus(providerName string, status int, body string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &AuthError{Provider: providerName}
	case status == http.StatusUnprocessableEntity:
		return &RequestFormatError{Provider: providerName, Detail: body}
	case status == http.StatusTooManyRequests:
		return &RateLimitedError{Provider: providerName}
	default:
		return &UnavailableError{Provider: providerName, Err: fmt.Errorf("status %d", status)}
	}
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// IsRateLimited reports whether err is a RateLimitedError.
func IsRateLimited(err error) bool {
	var e *RateLimitedError
	return errors.As(err, &e)
}

// IsRequestFormat reports whether err is a RequestFormatError.
func IsRequestFormat(err error) bool {
	var e *RequestFormatError
	return errors.As(err, &e)
}
