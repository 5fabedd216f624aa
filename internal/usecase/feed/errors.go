// Package feed provides the cache-aside fetch-and-render use case for section feeds.
// It validates the section, consults the feed cache, fetches articles from the
// content API on a miss, renders them as RSS 2.0 and writes the result back.
package feed

import (
	"errors"
	"fmt"
)

// Sentinel errors for feed use case operations.
var (
	// ErrSectionNotFound indicates that the content API does not know the section.
	ErrSectionNotFound = errors.New("section not found")

	// ErrNoArticles indicates that the section exists but returned zero articles.
	ErrNoArticles = errors.New("no articles found for section")

	// ErrRenderFailed indicates that the article list could not be rendered as RSS.
	ErrRenderFailed = errors.New("failed to render feed")
)

// UpstreamErrorKind classifies a content API failure.
// The HTTP status returned to callers depends on the kind.
type UpstreamErrorKind int

const (
	// KindUnexpected covers transport failures, timeouts, 5xx responses,
	// malformed payloads and an open circuit breaker.
	KindUnexpected UpstreamErrorKind = iota
	// KindNotFound is an upstream HTTP 404.
	KindNotFound
	// KindAPIError is an application-level error payload (status "error").
	KindAPIError
	// KindClientError is any other upstream HTTP 4xx.
	KindClientError
	// KindConfiguration is an upstream 401/403, i.e. a missing or rejected API key.
	KindConfiguration
	// KindEmptyResults is a successful response with zero articles.
	KindEmptyResults
)

// String returns the metrics/log label of the kind.
func (k UpstreamErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAPIError:
		return "api_error"
	case KindClientError:
		return "client_error"
	case KindConfiguration:
		return "configuration"
	case KindEmptyResults:
		return "empty_results"
	default:
		return "unexpected"
	}
}

// UpstreamError is the explicit result type for content API failures.
type UpstreamError struct {
	Kind       UpstreamErrorKind
	StatusCode int    // upstream HTTP status, 0 when no response was received
	Message    string // upstream-supplied message for KindAPIError
	Err        error
}

// Error returns a diagnostic message. It is never shown to callers as-is.
func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %s", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is maps not-found and empty-result kinds onto the package sentinels so callers
// can use errors.Is without inspecting the kind.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrSectionNotFound:
		return e.Kind == KindNotFound
	case ErrNoArticles:
		return e.Kind == KindEmptyResults
	}
	return false
}

// NewUpstreamError creates an UpstreamError of the given kind.
func NewUpstreamError(kind UpstreamErrorKind, statusCode int, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, StatusCode: statusCode, Err: err}
}

// KindOf returns the upstream kind carried by err.
// Errors that are not UpstreamErrors are reported as KindUnexpected.
func KindOf(err error) UpstreamErrorKind {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Kind
	}
	if errors.Is(err, ErrNoArticles) {
		return KindEmptyResults
	}
	if errors.Is(err, ErrSectionNotFound) {
		return KindNotFound
	}
	return KindUnexpected
}
