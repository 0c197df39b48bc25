package ai

import "errors"

var (
	// ErrQuotaExceeded indicates the generation provider refused the call
	// because its quota or rate limit is exhausted. Resolvers propagate
	// this as a failure, never as an empty answer.
	ErrQuotaExceeded = errors.New("generation quota exceeded")

	// ErrEmptyResponse indicates the generation provider returned no
	// choices for a nominally successful call.
	ErrEmptyResponse = errors.New("generation returned no content")
)
