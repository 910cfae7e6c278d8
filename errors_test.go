package archtoolkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWithOpPrependsOperation(t *testing.T) {
	err := newEmptyInputError("query").WithOp("search")
	assert.Equal(t, "search: query must not be empty", err.Error())
}

func TestIsMatchesOuterKindNotCause(t *testing.T) {
	base := newHTTPStatusError(503)
	wrapped := &Error{Kind: KindTransport, Cause: base}
	assert.True(t, Is(wrapped, KindTransport))
	assert.False(t, Is(wrapped, KindHTTPStatus))
	assert.Same(t, base, errors.Unwrap(wrapped))
}

func TestIsRetryableClassifiesHTTPStatus(t *testing.T) {
	assert.True(t, IsRetryable(newHTTPStatusError(503)))
	assert.True(t, IsRetryable(newHTTPStatusError(429)))
	assert.False(t, IsRetryable(newHTTPStatusError(404)))
}

func TestIsRetryableClassifiesTransportAndTimeout(t *testing.T) {
	assert.True(t, IsRetryable(newTransportError(errors.New("dial failed"))))
	assert.True(t, IsRetryable(newTimeoutError()))
}

func TestIsRetryableRejectsValidationErrors(t *testing.T) {
	assert.False(t, IsRetryable(newInvalidPackageNameError("bad", "reason")))
}
