// Package metrics provides the centralized Prometheus metrics registry
// for the export. All metrics are defined in their respective packages
// (client, cache, ratelimit, export) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the export.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Throttling Metrics (pkg/ratelimit):
//   - plenty_throttle_cooldowns_total (Counter): Cooldowns recorded from response headers
//   - plenty_throttle_wait_seconds (Histogram): Cooldown sleep durations
//   - plenty_throttle_global_stops_total (Counter): Calls stopped by the exhausted long global window
//
// Cache Metrics (pkg/cache):
//   - plenty_cache_hits_total (Counter): Cache hits
//   - plenty_cache_misses_total (Counter): Cache misses
//   - plenty_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - plenty_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - plenty_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - plenty_retries_total (Counter): Retry attempts
//   - plenty_errors_total{class} (Counter): Errors by class (fatal, recoverable, throttled)
//
// Export Metrics (pkg/export):
//   - plenty_export_products_total{outcome} (Counter): Products by outcome (exported, skipped)
//   - plenty_export_run_duration_seconds (Histogram): Wall time of one full run
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(plenty_cache_hits_total[5m])) /
//   (sum(rate(plenty_cache_hits_total[5m])) + sum(rate(plenty_cache_misses_total[5m])))
//
//   # Skip Rate
//   rate(plenty_export_products_total{outcome="skipped"}[5m]) /
//   rate(plenty_export_products_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(plenty_request_duration_seconds_bucket[5m]))
//
//   # Throttle Pressure
//   rate(plenty_throttle_cooldowns_total[5m])
