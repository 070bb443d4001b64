// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed by the admin HTTP server at /metrics.

# Available Metrics

Queues:
  - jandi_messages_published_total{queue}
  - jandi_messages_consumed_total{queue,outcome}
  - jandi_message_processing_duration_seconds{queue}

Completion barrier:
  - jandi_batches_opened_total{kind}
  - jandi_batches_completed_total{kind}
  - jandi_progress_discarded_total{kind,reason}
  - jandi_recompute_duration_seconds, jandi_recompute_errors_total

Pipeline:
  - jandi_articles_discovered_total{platform}
  - jandi_feed_fetch_errors_total{platform}
  - jandi_crawl_duration_seconds{outcome}
  - jandi_classifications_total{topic}
  - jandi_reminders_total{outcome}
  - jandi_observer_runs_total{result}

Infrastructure:
  - jandi_db_query_duration_seconds{operation,table}, jandi_db_query_errors_total
  - jandi_api_requests_total, jandi_api_request_duration_seconds
  - jandi_circuit_breaker_state{name}, jandi_circuit_breaker_requests_total, jandi_circuit_breaker_state_transitions_total

# Usage

Callers use the Record* helpers rather than touching collectors directly:

	start := time.Now()
	err := store.RefreshAggregates(ctx)
	metrics.RecordRecompute(time.Since(start), err)
*/
package metrics
