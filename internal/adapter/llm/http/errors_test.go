package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := &Error{
		Type:       ErrTypeRateLimit,
		Message:    "too many requests",
		StatusCode: 429,
		Retryable:  true,
		Provider:   "anthropic",
	}

	assert.Equal(t, "anthropic: rate limit exceeded: too many requests (status: 429)", err.Error())
	assert.True(t, err.IsRetryable())
}

func TestError_IsMatchesOnType(t *testing.T) {
	rateLimited := &Error{Type: ErrTypeRateLimit, Message: "a"}

	assert.True(t, errors.Is(rateLimited, &Error{Type: ErrTypeRateLimit}))
	assert.False(t, errors.Is(rateLimited, &Error{Type: ErrTypeTimeout}))
	assert.False(t, errors.Is(rateLimited, errors.New("other")))
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrTypeAuthentication, "authentication error"},
		{ErrTypeRateLimit, "rate limit exceeded"},
		{ErrTypeServiceUnavailable, "service unavailable"},
		{ErrTypeInvalidRequest, "invalid request"},
		{ErrTypeTimeout, "timeout"},
		{ErrTypeUnknown, "unknown error"},
		{ErrorType(99), "unknown error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.errType.String())
	}
}
