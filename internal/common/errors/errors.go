// Package errors provides the standardized error taxonomy of the chat engine.
// Every code is terminal for the round it occurs in; nothing here is retried.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRetrievalFailed    ErrorCode = "RETRIEVAL_FAILED"
	ErrCodeRetrievalTimeout   ErrorCode = "RETRIEVAL_TIMEOUT"
	ErrCodeUnknownTable       ErrorCode = "UNKNOWN_TABLE"
	ErrCodeEmptyQuery         ErrorCode = "EMPTY_QUERY"
	ErrCodeEmptyMessage       ErrorCode = "EMPTY_MESSAGE"
	ErrCodeUnrecognizedIntent ErrorCode = "UNRECOGNIZED_INTENT"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewRetrievalFailedError wraps a store or transport failure for one operation.
func NewRetrievalFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeRetrievalFailed, "Catalog retrieval failed",
		fmt.Sprintf("operation: %s, error: %v", operation, err), err)
}

// NewRetrievalTimeoutError reports a store call that outlived its deadline.
func NewRetrievalTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeRetrievalTimeout, "Catalog retrieval timed out",
		fmt.Sprintf("operation: %s", operation), err)
}

func NewUnknownTableError(table string, err error) *StandardError {
	return newError(ErrCodeUnknownTable, "Table is not part of the catalog",
		fmt.Sprintf("table: %s", table), err)
}

func NewEmptyQueryError(err error) *StandardError {
	return newError(ErrCodeEmptyQuery, "Question is empty", "", err)
}

func NewEmptyMessageError() *StandardError {
	return newError(ErrCodeEmptyMessage, "Message text is empty", "", nil)
}

func NewInvalidInputError(details string, err error) *StandardError {
	return newError(ErrCodeInvalidInput, "Input failed validation", details, err)
}

// NewInternalError captures anything unexpected during a round, including
// recovered panics.
func NewInternalError(details string) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", details, nil)
}

// CodeOf extracts the code of the first StandardError in err's chain, or
// INTERNAL_ERROR when there is none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// GetErrorCategory groups codes for metrics and logs.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeRetrievalFailed, ErrCodeRetrievalTimeout:
		return "RETRIEVAL"
	case ErrCodeUnknownTable, ErrCodeEmptyQuery, ErrCodeEmptyMessage, ErrCodeInvalidInput:
		return "INPUT"
	case ErrCodeUnrecognizedIntent:
		return "INTENT"
	default:
		return "INTERNAL"
	}
}
