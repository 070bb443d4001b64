// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jandi_db_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_db_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jandi_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Queue Metrics
	MessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_messages_published_total",
			Help: "Total number of messages published by queue",
		},
		[]string{"queue"},
	)

	MessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_messages_consumed_total",
			Help: "Total number of messages consumed by queue and outcome",
		},
		[]string{"queue", "outcome"}, // outcome: "ack", "requeue", "dead_letter"
	)

	MessageProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jandi_message_processing_duration_seconds",
			Help:    "Time spent handling one message",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"queue"},
	)

	// Completion Barrier Metrics
	BatchesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_batches_opened_total",
			Help: "Total number of completion batches opened",
		},
		[]string{"kind"}, // kind: "global", "platform_register"
	)

	BatchesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_batches_completed_total",
			Help: "Total number of completion batches that fired",
		},
		[]string{"kind"},
	)

	ProgressDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_progress_discarded_total",
			Help: "Progress signals that matched no open batch or arrived after it fired",
		},
		[]string{"kind", "reason"}, // reason: "absent", "fired"
	)

	RecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jandi_recompute_duration_seconds",
			Help:    "Duration of aggregate recomputation",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecomputeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jandi_recompute_errors_total",
			Help: "Total number of failed aggregate recomputations",
		},
	)

	// Pipeline Metrics
	ArticlesDiscovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_articles_discovered_total",
			Help: "New articles found by discovery scans",
		},
		[]string{"platform"},
	)

	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_feed_fetch_errors_total",
			Help: "Feed fetches that failed or returned nothing",
		},
		[]string{"platform"},
	)

	CrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jandi_crawl_duration_seconds",
			Help:    "Article fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"}, // outcome: "ok", "empty", "error"
	)

	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_classifications_total",
			Help: "Persisted posts by assigned topic",
		},
		[]string{"topic"},
	)

	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_reminders_total",
			Help: "Reminder mail outcomes",
		},
		[]string{"outcome"}, // outcome: "sent", "failed", "rejected"
	)

	ObserverRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_observer_runs_total",
			Help: "Observer cycles by result",
		},
		[]string{"result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jandi_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jandi_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPublish counts one message published to queue.
func RecordPublish(queue string) {
	MessagesPublished.WithLabelValues(queue).Inc()
}

// RecordConsume records how one delivery on queue was settled.
func RecordConsume(queue, outcome string, duration time.Duration) {
	MessagesConsumed.WithLabelValues(queue, outcome).Inc()
	MessageProcessingDuration.WithLabelValues(queue).Observe(duration.Seconds())
}

// RecordBatchOpened counts a batch opened by an init signal.
func RecordBatchOpened(kind string) {
	BatchesOpened.WithLabelValues(kind).Inc()
}

// RecordBatchCompleted counts a batch whose barrier fired.
func RecordBatchCompleted(kind string) {
	BatchesCompleted.WithLabelValues(kind).Inc()
}

// RecordProgressDiscarded counts a progress signal that changed nothing.
func RecordProgressDiscarded(kind, reason string) {
	ProgressDiscarded.WithLabelValues(kind, reason).Inc()
}

// RecordRecompute records one aggregate recomputation.
func RecordRecompute(duration time.Duration, err error) {
	RecomputeDuration.Observe(duration.Seconds())
	if err != nil {
		RecomputeErrors.Inc()
	}
}

// RecordDiscovered counts new articles for a platform.
func RecordDiscovered(platform string, n int) {
	ArticlesDiscovered.WithLabelValues(platform).Add(float64(n))
}

// RecordFeedError counts a failed or empty feed fetch.
func RecordFeedError(platform string) {
	FeedFetchErrors.WithLabelValues(platform).Inc()
}

// RecordCrawl records one article fetch.
func RecordCrawl(outcome string, duration time.Duration) {
	CrawlDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordClassification counts a persisted post by topic.
func RecordClassification(topic string) {
	Classifications.WithLabelValues(topic).Inc()
}

// RecordReminder counts one reminder outcome.
func RecordReminder(outcome string) {
	RemindersSent.WithLabelValues(outcome).Inc()
}

// RecordObserverRun counts one observer cycle.
func RecordObserverRun(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ObserverRuns.WithLabelValues(result).Inc()
}
