package services

import "errors"

// Standard service errors shared by the store client and the controllers
var (
	// Network and connectivity errors
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrTimeout            = errors.New("operation timed out")
	ErrForbidden          = errors.New("access forbidden")

	// Data errors
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input provided")
	ErrInvalidFormat = errors.New("invalid format")

	// Cache errors
	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrCacheMiss        = errors.New("cache miss")
	ErrCacheExpired     = errors.New("cache entry expired")

	// Service errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrServerFailure      = errors.New("server failure")

	// Inbox specific errors
	ErrMessageNotFound  = errors.New("message not found")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrInvalidMessageID = errors.New("invalid message ID")
	ErrUnknownRecipient = errors.New("unknown recipient")
)

// IsRetryableError determines if an error is worth re-triggering by the user.
// The dashboard never retries automatically.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrServerFailure)
}

// IsPermanentError determines if an error is permanent and re-triggering the
// same action cannot succeed.
func IsPermanentError(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidMessageID) ||
		errors.Is(err, ErrUnknownRecipient)
}
