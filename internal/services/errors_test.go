package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	retryable := []error{
		ErrNetworkUnavailable,
		ErrTimeout,
		ErrServiceUnavailable,
		ErrServerFailure,
	}
	for _, err := range retryable {
		assert.True(t, IsRetryableError(err), err.Error())
		assert.False(t, IsPermanentError(err), err.Error())
	}
}

func TestIsPermanentError(t *testing.T) {
	permanent := []error{
		ErrForbidden,
		ErrNotFound,
		ErrInvalidInput,
		ErrInvalidFormat,
		ErrMessageNotFound,
		ErrInvalidStatus,
		ErrInvalidMessageID,
		ErrUnknownRecipient,
	}
	for _, err := range permanent {
		assert.True(t, IsPermanentError(err), err.Error())
		assert.False(t, IsRetryableError(err), err.Error())
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to list messages for claude_code: %w", ErrTimeout)
	assert.True(t, IsRetryableError(wrapped))

	deep := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrForbidden))
	assert.True(t, IsPermanentError(deep))
}

func TestUnknownErrorIsNeither(t *testing.T) {
	err := errors.New("something else")
	assert.False(t, IsRetryableError(err))
	assert.False(t, IsPermanentError(err))
}
