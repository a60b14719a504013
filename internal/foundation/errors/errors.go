// Package errors provides classified errors with a category and structured
// context, used at the pipeline boundary to attach document identity to
// failures before they reach the caller.
package errors

import (
	"fmt"
	"maps"
)

// ErrorCategory represents the broad category of an error for classification.
type ErrorCategory string

const (
	// CategoryValidation covers malformed document content (bad YAML,
	// wrong frontmatter structure).
	CategoryValidation ErrorCategory = "validation"

	// CategoryFileSystem covers read/write failures on content files.
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryInternal covers everything that should not happen.
	CategoryInternal ErrorCategory = "internal"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	if value, exists := c[key]; exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// ClassifiedError is an error with a category, message, optional cause, and
// structured context.
type ClassifiedError struct {
	category ErrorCategory
	message  string
	cause    error
	context  ErrorContext
}

// New creates a ClassifiedError without a cause.
func New(category ErrorCategory, message string) *ClassifiedError {
	return &ClassifiedError{category: category, message: message}
}

// Wrap creates a ClassifiedError wrapping an existing error.
func Wrap(err error, category ErrorCategory, message string) *ClassifiedError {
	return &ClassifiedError{category: category, message: message, cause: err}
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.category, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.category, e.message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Category returns the error category.
func (e *ClassifiedError) Category() ErrorCategory {
	return e.category
}

// Context returns the error context.
func (e *ClassifiedError) Context() ErrorContext {
	return e.context
}

// WithContext returns a copy of the error with an added context value.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	ctx := make(ErrorContext, len(e.context)+1)
	maps.Copy(ctx, e.context)
	ctx[key] = value
	return &ClassifiedError{
		category: e.category,
		message:  e.message,
		cause:    e.cause,
		context:  ctx,
	}
}

// AsClassified attempts to convert an error to a ClassifiedError.
func AsClassified(err error) (*ClassifiedError, bool) {
	if classified, ok := err.(*ClassifiedError); ok {
		return classified, true
	}
	return nil, false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.Category()
	}
	return CategoryInternal
}
