package api

import "fmt"

// The error taxonomy mirrors the service's status-code contract. The four
// types are disjoint; callers pick them apart with errors.As.

// AuthenticationError reports rejected or missing credentials (HTTP 401) and
// payment-required conditions (HTTP 402).
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ValidationError reports a request the server refused (4xx other than
// authentication and rate limiting). Body carries the raw error payload when
// the server sent one.
type ValidationError struct {
	Message    string
	StatusCode int
	Body       map[string]any
}

func (e *ValidationError) Error() string { return e.Message }

// RateLimitError reports HTTP 429 together with the plan limit and current
// usage the server included in the error body.
type RateLimitError struct {
	Message    string
	Limit      int
	Usage      int
	StatusCode int
}

func (e *RateLimitError) Error() string { return e.Message }

// APIError reports transport failures (timeout, connection) and server-side
// 5xx responses. StatusCode is zero for transport failures. These are the
// retryable errors; the client never retries on its own.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}
