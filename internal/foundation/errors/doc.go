// Package errors provides the classified error type used across sitebuilder.
//
// Errors carry a category (config, content, query, bundler, ...), a severity
// and a small context map. The CLI adapter maps categories to exit codes.
//
// Example usage:
//
//	err := errors.QueryError("content query returned errors").
//		WithContext("errors", len(result.Errors)).
//		WithCause(joined).
//		Build()
package errors
