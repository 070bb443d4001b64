// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/jandi/internal/models"
)

func TestRetryableError_Identification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		isRetryable bool
		isPermanent bool
	}{
		{"retryable error", NewRetryableError("connection timeout", nil), true, false},
		{"permanent error", NewPermanentError("invalid JSON format", nil), false, true},
		{"wrapped retryable", fmt.Errorf("enrich: %w", NewRetryableError("db error", errors.New("connection refused"))), true, false},
		{"wrapped permanent", fmt.Errorf("decode: %w", NewPermanentError("bad payload", nil)), false, true},
		{"plain error", errors.New("something"), false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryableError(tt.err); got != tt.isRetryable {
				t.Errorf("IsRetryableError() = %v, want %v", got, tt.isRetryable)
			}
			if got := IsPermanentError(tt.err); got != tt.isPermanent {
				t.Errorf("IsPermanentError() = %v, want %v", got, tt.isPermanent)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"connection", NewRetryableError("publish", errors.New("dial tcp: connection refused")), ErrorCategoryConnection},
		{"timeout text", NewRetryableError("request timed out", nil), ErrorCategoryTimeout},
		{"deadline", NewRetryableError("classify", context.DeadlineExceeded), ErrorCategoryTimeout},
		{"malformed sentinel", NewPermanentError("decode", fmt.Errorf("%w: user_id", models.ErrMalformed)), ErrorCategoryValidation},
		{"database", NewRetryableError("insert post", errors.New("duckdb: constraint")), ErrorCategoryDatabase},
		{"permanent defaults to validation", NewPermanentError("missing email", nil), ErrorCategoryValidation},
		{"unknown", NewRetryableError("weird", nil), ErrorCategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CategoryOf(tt.err); got != tt.want {
				t.Errorf("CategoryOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	err := NewRetryableError("send mail", errors.New("EOF"))
	if err.Error() != "send mail: EOF" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, err.Cause) {
		t.Error("Unwrap should expose the cause")
	}

	perm := NewPermanentError("missing email", nil)
	if perm.Error() != "missing email" {
		t.Errorf("Error() = %q", perm.Error())
	}
}

func TestNewDeadLetter_InvalidPayload(t *testing.T) {
	t.Parallel()

	msg := message.NewMessage("m-1", []byte("not json"))
	entry := NewDeadLetter(models.QueueNewPosts, msg, NewPermanentError("unmarshal payload", errors.New("invalid character")), 1)

	if string(entry.Payload) != `"not json"` {
		t.Errorf("payload = %s, want quoted string", entry.Payload)
	}
	if entry.Category != "validation" {
		t.Errorf("category = %q, want validation", entry.Category)
	}
	if entry.FailedAt.IsZero() {
		t.Error("FailedAt should be set")
	}
}
