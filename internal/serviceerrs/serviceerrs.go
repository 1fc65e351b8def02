package serviceerrs

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrInvalidDelta        = errors.New("invalid delta")
	ErrTransactionConflict = errors.New("transaction conflict")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrForbidden           = errors.New("operation requires admin principal")
	ErrMalformedBatch      = errors.New("malformed batch input")

	ErrSemaphoreTimeoutExceeded = errors.New("semaphore acquire timeout exceeded")
	ErrTokenExpired             = errors.New("token expired")
)
