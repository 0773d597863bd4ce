// Package errors provides the classified error primitives used across docpage.
//
// Every failure that crosses a package boundary is a ClassifiedError so that the
// HTTP API and the CLI can decide status and exit codes without string matching.
//
// Key features:
//   - ErrorCategory: broad classification (validation, not_found, forge, compile, ...)
//   - ErrorSeverity: impact level (fatal, error, info)
//   - RetryStrategy: whether a fetch collaborator may retry
//   - ErrorBuilder: fluent construction with context and cause
//   - HTTP and CLI adapters for presentation
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryForge, "fetch repository contents").
//		Retryable().
//		WithContext("repository", "invertase/docs.page").
//		WithCause(originalErr).
//		Build()
package errors
