package feed

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamErrorKind_String(t *testing.T) {
	tests := map[UpstreamErrorKind]string{
		KindUnexpected:        "unexpected",
		KindNotFound:          "not_found",
		KindAPIError:          "api_error",
		KindClientError:       "client_error",
		KindConfiguration:     "configuration",
		KindEmptyResults:      "empty_results",
		UpstreamErrorKind(99): "unexpected",
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.String())
	}
}

func TestUpstreamError_Error(t *testing.T) {
	err := &UpstreamError{Kind: KindAPIError, StatusCode: 200, Message: "The requested resource could not be found."}
	assert.Equal(t, "upstream api_error (status 200): The requested resource could not be found.", err.Error())

	err = NewUpstreamError(KindUnexpected, 0, errors.New("connection refused"))
	assert.Equal(t, "upstream unexpected: connection refused", err.Error())
}

func TestUpstreamError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("fetch: %w", NewUpstreamError(KindUnexpected, 502, cause))

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSectionNotFound)

	notFound := fmt.Errorf("fetch: %w", &UpstreamError{Kind: KindNotFound, StatusCode: 404})
	assert.ErrorIs(t, notFound, ErrSectionNotFound)
	assert.NotErrorIs(t, notFound, ErrNoArticles)

	empty := &UpstreamError{Kind: KindEmptyResults}
	assert.ErrorIs(t, empty, ErrNoArticles)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(&UpstreamError{Kind: KindNotFound}))
	assert.Equal(t, KindClientError, KindOf(fmt.Errorf("wrapped: %w", &UpstreamError{Kind: KindClientError})))
	assert.Equal(t, KindEmptyResults, KindOf(ErrNoArticles))
	assert.Equal(t, KindNotFound, KindOf(ErrSectionNotFound))
	assert.Equal(t, KindUnexpected, KindOf(ErrRenderFailed))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("anything else")))
}
