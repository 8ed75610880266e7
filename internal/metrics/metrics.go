package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AssetsProvisioned counts created assets by type.
	AssetsProvisioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assets_provisioned_total",
			Help: "Total number of assets created, by asset type",
		},
		[]string{"type"},
	)

	// DeadlinesCreated counts deadlines materialized during provisioning.
	DeadlinesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deadlines_created_total",
			Help: "Total number of deadlines created from templates",
		},
	)

	// ExpansionFailures counts template expansion failures by reason
	// (malformed_interval, storage).
	ExpansionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadline_expansion_failures_total",
			Help: "Total number of deadline template expansion failures by reason",
		},
		[]string{"reason"},
	)

	// DeadlinesMarkedOverdue counts deadlines flipped to overdue by the sweeper.
	DeadlinesMarkedOverdue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deadlines_marked_overdue_total",
			Help: "Total number of deadlines marked overdue by the background sweeper",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AssetsProvisioned, DeadlinesCreated, ExpansionFailures, DeadlinesMarkedOverdue)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /assets/123 -> /assets/{id}, /deadlines/45 -> /deadlines/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAssetsProvisioned increments the provisioned-assets counter for the type.
func IncAssetsProvisioned(assetType string) {
	AssetsProvisioned.WithLabelValues(assetType).Inc()
}

// IncDeadlinesCreated increments the created-deadlines counter.
func IncDeadlinesCreated() {
	DeadlinesCreated.Inc()
}

// IncExpansionFailures increments the expansion-failure counter for the reason.
func IncExpansionFailures(reason string) {
	ExpansionFailures.WithLabelValues(reason).Inc()
}

// AddDeadlinesMarkedOverdue adds n to the overdue-sweep counter.
func AddDeadlinesMarkedOverdue(n int64) {
	DeadlinesMarkedOverdue.Add(float64(n))
}
