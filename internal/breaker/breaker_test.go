// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/jandi/internal/metrics"
)

func TestDo_ReturnsTypedResult(t *testing.T) {
	t.Parallel()

	b := New(DefaultConfig("test-typed"))
	got, err := Do(b, func() ([]string, error) {
		return []string{"기술 / 프로그래밍"}, nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(got) != 1 || got[0] != "기술 / 프로그래밍" {
		t.Errorf("Do() = %v", got)
	}
}

func TestDo_NilResult(t *testing.T) {
	t.Parallel()

	b := New(DefaultConfig("test-nil"))
	got, err := Do(b, func() (*int, error) { return nil, nil })
	if err != nil || got != nil {
		t.Errorf("Do() = %v, %v; want nil, nil", got, err)
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := New(Config{
		Name:             "test-open",
		MaxRequests:      1,
		Timeout:          time.Hour,
		FailureThreshold: 3,
	})
	boom := errors.New("upstream 503")

	for i := 0; i < 3; i++ {
		if err := Run(b, func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: error = %v, want boom", i, err)
		}
	}

	if b.State() != "open" {
		t.Fatalf("State() = %s, want open", b.State())
	}

	called := false
	err := Run(b, func() error {
		called = true
		return nil
	})
	if !IsRejection(err) {
		t.Errorf("expected rejection, got %v", err)
	}
	if called {
		t.Error("fn must not run while the circuit is open")
	}
	if v := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-open", "rejected")); v != 1 {
		t.Errorf("rejected counter = %v, want 1", v)
	}
	if v := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); v != 2 {
		t.Errorf("state gauge = %v, want 2", v)
	}
}

func TestIsRejection(t *testing.T) {
	t.Parallel()

	if IsRejection(errors.New("other")) {
		t.Error("plain error is not a rejection")
	}
	if IsRejection(nil) {
		t.Error("nil is not a rejection")
	}
}
