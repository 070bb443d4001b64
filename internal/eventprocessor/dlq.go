// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/jandi/internal/models"
)

// ErrorCategory categorizes errors for dead-letter routing and metrics.
type ErrorCategory int

const (
	// ErrorCategoryUnknown is the default category for unclassified errors.
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryConnection indicates network or connection failures.
	ErrorCategoryConnection
	// ErrorCategoryTimeout indicates operation timeout.
	ErrorCategoryTimeout
	// ErrorCategoryValidation indicates malformed or incomplete payloads.
	ErrorCategoryValidation
	// ErrorCategoryDatabase indicates store failures.
	ErrorCategoryDatabase
	// ErrorCategoryExhausted indicates a message that failed every allowed delivery.
	ErrorCategoryExhausted
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryConnection:
		return "connection"
	case ErrorCategoryTimeout:
		return "timeout"
	case ErrorCategoryValidation:
		return "validation"
	case ErrorCategoryDatabase:
		return "database"
	case ErrorCategoryExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// RetryableError represents an error that can be retried.
// These errors are typically transient (network issues, timeouts).
type RetryableError struct {
	Message  string
	Cause    error
	Category ErrorCategory
}

// NewRetryableError creates a new retryable error.
func NewRetryableError(message string, cause error) *RetryableError {
	return &RetryableError{
		Message:  message,
		Cause:    cause,
		Category: categorize(message, cause),
	}
}

// Error implements the error interface.
func (e *RetryableError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *RetryableError) Unwrap() error {
	return e.Cause
}

// PermanentError represents an error that should not be retried.
// The message is acknowledged and copied to dead_letters.
type PermanentError struct {
	Message  string
	Cause    error
	Category ErrorCategory
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, cause error) *PermanentError {
	category := categorize(message, cause)
	if category == ErrorCategoryUnknown {
		category = ErrorCategoryValidation
	}
	return &PermanentError{
		Message:  message,
		Cause:    cause,
		Category: category,
	}
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// categorize attempts to categorize an error based on its text.
func categorize(message string, cause error) ErrorCategory {
	if errors.Is(cause, models.ErrMalformed) {
		return ErrorCategoryValidation
	}
	if errors.Is(cause, context.DeadlineExceeded) {
		return ErrorCategoryTimeout
	}

	text := message
	if cause != nil {
		text += " " + cause.Error()
	}
	text = strings.ToLower(text)

	switch {
	case containsAny(text, "connection", "connect", "refused", "reset", "network"):
		return ErrorCategoryConnection
	case containsAny(text, "timeout", "deadline", "timed out"):
		return ErrorCategoryTimeout
	case containsAny(text, "invalid", "validation", "malformed", "unmarshal", "parse"):
		return ErrorCategoryValidation
	case containsAny(text, "database", "sql", "query", "duckdb", "postgres"):
		return ErrorCategoryDatabase
	default:
		return ErrorCategoryUnknown
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsRetryableError checks if the error is retryable.
func IsRetryableError(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// IsPermanentError checks if the error is permanent (non-retryable).
func IsPermanentError(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}

// CategoryOf returns the category carried by err, if any.
func CategoryOf(err error) ErrorCategory {
	var permErr *PermanentError
	if errors.As(err, &permErr) {
		return permErr.Category
	}
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		return retryErr.Category
	}
	return categorize("", err)
}

// DeadLetter is the payload written to the dead_letters queue.
type DeadLetter struct {
	Queue     string          `json:"queue"`
	MessageID string          `json:"message_id"`
	Reason    string          `json:"reason"`
	Category  string          `json:"category"`
	Attempts  int             `json:"attempts"`
	FailedAt  time.Time       `json:"failed_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewDeadLetter describes why msg from queue is being given up on.
func NewDeadLetter(queue string, msg *message.Message, cause error, attempts int) *DeadLetter {
	payload := json.RawMessage(msg.Payload)
	if !json.Valid(payload) {
		// Keep undecodable bytes inspectable as a JSON string.
		quoted, _ := json.Marshal(string(msg.Payload))
		payload = quoted
	}

	return &DeadLetter{
		Queue:     queue,
		MessageID: msg.UUID,
		Reason:    cause.Error(),
		Category:  CategoryOf(cause).String(),
		Attempts:  attempts,
		FailedAt:  time.Now().UTC(),
		Payload:   payload,
	}
}

// DeadLetterSink receives messages a Consumer gives up on.
type DeadLetterSink interface {
	DeadLetter(ctx context.Context, queue string, msg *message.Message, cause error, attempts int) error
}
