package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are missing or malformed
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrBuildFailed is returned when a product record cannot be built for a URL
	ErrBuildFailed = errors.New("product record build failed")

	// ErrItemCancelled is returned when a batch item is abandoned because its context ended
	ErrItemCancelled = errors.New("item processing cancelled")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRateLimitStoreUnavailable is returned when the rate limit backend cannot be reached
	ErrRateLimitStoreUnavailable = errors.New("rate limit store unavailable")
)
