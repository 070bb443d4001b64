// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount extracts the observation count of a histogram.
func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordRecompute_ObservesDuration(t *testing.T) {
	before := histogramCount(t, RecomputeDuration)

	RecordRecompute(40*time.Millisecond, nil)
	RecordRecompute(time.Second, errors.New("locked"))

	if got := histogramCount(t, RecomputeDuration); got != before+2 {
		t.Errorf("sample count = %d, want %d", got, before+2)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.CollectAndCount(DBQueryErrors)

	RecordDBQuery("select", "posts", 5*time.Millisecond, nil)
	RecordDBQuery("insert", "posts", time.Millisecond,
		errors.New("this is a very long error message that exceeds fifty characters and should be truncated"))

	if got := testutil.CollectAndCount(DBQueryErrors); got != before+1 {
		t.Errorf("DBQueryErrors series = %d, want %d", got, before+1)
	}

	long := "this is a very long error message that exceeds fif"
	if v := testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "posts", long)); v < 1 {
		t.Errorf("expected truncated error label to be recorded, got %v", v)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/users/{userID}/topics", "200"))
	RecordAPIRequest("GET", "/api/users/{userID}/topics", 200, 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/users/{userID}/topics", "200"))
	if after != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
	}
}

func TestRecordConsume(t *testing.T) {
	counter := MessagesConsumed.WithLabelValues("refresh", "ack")
	before := testutil.ToFloat64(counter)

	RecordConsume("refresh", "ack", 2*time.Millisecond)
	RecordConsume("refresh", "ack", 2*time.Millisecond)

	if got := testutil.ToFloat64(counter); got != before+2 {
		t.Errorf("MessagesConsumed = %v, want %v", got, before+2)
	}
}

func TestRecordRecompute(t *testing.T) {
	before := testutil.ToFloat64(RecomputeErrors)

	RecordRecompute(10*time.Millisecond, nil)
	RecordRecompute(10*time.Millisecond, errors.New("tx aborted"))

	if got := testutil.ToFloat64(RecomputeErrors); got != before+1 {
		t.Errorf("RecomputeErrors = %v, want %v", got, before+1)
	}
}

func TestBatchCounters(t *testing.T) {
	opened := testutil.ToFloat64(BatchesOpened.WithLabelValues("global"))
	completed := testutil.ToFloat64(BatchesCompleted.WithLabelValues("platform_register"))
	discarded := testutil.ToFloat64(ProgressDiscarded.WithLabelValues("global", "absent"))

	RecordBatchOpened("global")
	RecordBatchCompleted("platform_register")
	RecordProgressDiscarded("global", "absent")

	if got := testutil.ToFloat64(BatchesOpened.WithLabelValues("global")); got != opened+1 {
		t.Errorf("BatchesOpened = %v, want %v", got, opened+1)
	}
	if got := testutil.ToFloat64(BatchesCompleted.WithLabelValues("platform_register")); got != completed+1 {
		t.Errorf("BatchesCompleted = %v, want %v", got, completed+1)
	}
	if got := testutil.ToFloat64(ProgressDiscarded.WithLabelValues("global", "absent")); got != discarded+1 {
		t.Errorf("ProgressDiscarded = %v, want %v", got, discarded+1)
	}
}

func TestRecordDiscovered(t *testing.T) {
	before := testutil.ToFloat64(ArticlesDiscovered.WithLabelValues("velog"))
	RecordDiscovered("velog", 3)
	if got := testutil.ToFloat64(ArticlesDiscovered.WithLabelValues("velog")); got != before+3 {
		t.Errorf("ArticlesDiscovered = %v, want %v", got, before+3)
	}
}

func TestRecordObserverRun(t *testing.T) {
	ok := testutil.ToFloat64(ObserverRuns.WithLabelValues("success"))
	bad := testutil.ToFloat64(ObserverRuns.WithLabelValues("error"))

	RecordObserverRun(nil)
	RecordObserverRun(errors.New("store down"))

	if got := testutil.ToFloat64(ObserverRuns.WithLabelValues("success")); got != ok+1 {
		t.Errorf("success runs = %v, want %v", got, ok+1)
	}
	if got := testutil.ToFloat64(ObserverRuns.WithLabelValues("error")); got != bad+1 {
		t.Errorf("error runs = %v, want %v", got, bad+1)
	}
}
