package errors

import "maps"

// ErrorCategory classifies an error for status and exit code mapping.
type ErrorCategory string

const (
	// CategoryValidation covers malformed input such as an unparseable page path.
	CategoryValidation ErrorCategory = "validation"
	CategoryConfig     ErrorCategory = "config"
	CategoryAuth       ErrorCategory = "auth"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryForge covers failures talking to the source-control host.
	CategoryForge   ErrorCategory = "forge"
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"

	// CategoryCompile covers documents that exist but do not compile.
	CategoryCompile    ErrorCategory = "compile"
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity selects the log level used when an error is reported.
type ErrorSeverity string

const (
	SeverityFatal ErrorSeverity = "fatal"
	SeverityError ErrorSeverity = "error"
	SeverityInfo  ErrorSeverity = "info"
)

// RetryStrategy tells fetch collaborators whether an attempt may be repeated.
type RetryStrategy string

const (
	RetryNever     RetryStrategy = "never"
	RetryBackoff   RetryStrategy = "backoff"
	RetryRateLimit RetryStrategy = "rate_limit"
)

// ErrorContext carries structured details rendered into logs and API payloads.
type ErrorContext map[string]any

// Set stores value under key, allocating the map when needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = ErrorContext{}
	}
	c[key] = value
	return c
}

// GetString returns the value under key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

func (c ErrorContext) clone() ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	return out
}
