package metrics

import (
	"errors"
	"time"

	"Tuder/core/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LibraryOperations counts library mutations and reads by outcome.
	LibraryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuder_library_operations_total",
			Help: "Total number of library operations by result",
		},
		[]string{"operation", "result"}, // result: ok, not_found, permission_denied, invalid_input, dependency_failure, error
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuder_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"}, // musics, playlists, artists
	)

	SearchCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuder_search_cache_lookups_total",
			Help: "Search cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tuder_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tuder_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ResultLabel maps an operation error to its result label.
func ResultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch kind := apperr.KindOf(err); {
	case errors.Is(kind, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(kind, apperr.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(kind, apperr.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(kind, apperr.ErrDependencyFailure):
		return "dependency_failure"
	case errors.Is(kind, apperr.ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "error"
	}
}

// RecordLibraryOperation records the outcome of a library operation
func RecordLibraryOperation(operation string, err error) {
	LibraryOperations.WithLabelValues(operation, ResultLabel(err)).Inc()
}

// RecordSearch records how long a search took
func RecordSearch(kind string, duration time.Duration) {
	SearchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup records a search cache hit or miss
func RecordCacheLookup(hit bool) {
	if hit {
		SearchCacheHits.WithLabelValues("hit").Inc()
		return
	}
	SearchCacheHits.WithLabelValues("miss").Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
