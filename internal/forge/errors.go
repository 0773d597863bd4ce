package forge

import (
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
)

var (
	// ErrUnauthorized signals that the configured token was rejected.
	ErrUnauthorized = errors.NewError(errors.CategoryAuth, "github rejected the credentials").Build()

	// ErrRateLimited signals that the API rate limit is exhausted.
	ErrRateLimited = errors.ForgeError("github rate limit exceeded").RateLimit().Build()

	// ErrUnexpectedStatus signals any other non-success response.
	ErrUnexpectedStatus = errors.ForgeError("unexpected github response").Permanent().Build()

	// ErrServerError signals a 5xx response.
	ErrServerError = errors.ForgeError("github server error").Retryable().Build()

	// ErrRequestFailed signals a transport failure before any response arrived.
	ErrRequestFailed = errors.NetworkError("github request failed").Build()

	// ErrTooLarge signals a response body above the per-file size limit.
	ErrTooLarge = errors.ForgeError("github response exceeds size limit").Permanent().Build()

	// ErrInvalidResponse signals a body that could not be decoded.
	ErrInvalidResponse = errors.ForgeError("invalid github response").Permanent().Build()
)
