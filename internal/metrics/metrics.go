package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method"},
	)

	// ReportsComputedTotal counts full report computations by report
	// name and outcome (ok, degraded, error).
	ReportsComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiredeck_reports_computed_total",
			Help: "Total assembled reports by name and outcome",
		},
		[]string{"report", "outcome"},
	)

	ReportComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hiredeck_report_compute_duration_seconds",
			Help:    "Time spent computing an assembled report",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"report"},
	)

	ReportCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiredeck_report_cache_total",
			Help: "Report cache lookups by result (hit, miss, bypass)",
		},
		[]string{"result"},
	)

	// TransitionsTotal counts application status transitions by outcome
	// (ok, stale, invalid, error).
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiredeck_transitions_total",
			Help: "Application status transitions by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiredeck_notifications_emitted_total",
			Help: "Notifications emitted by type",
		},
		[]string{"type"},
	)

	LegacyStatusesNormalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiredeck_legacy_statuses_normalized_total",
			Help: "Application statuses rewritten to canonical labels",
		},
	)

	PaymentsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiredeck_payments_ingested_total",
			Help: "Payment records ingested from the billing webhook",
		},
		[]string{"status"},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "environment", "service"},
	)
)

func SetAppInfo(version, environment, service string) {
	AppInfo.WithLabelValues(version, environment, service).Set(1)
}

// NormalizePath collapses record IDs out of paths so the label set
// stays bounded.
func NormalizePath(path string) string {
	return uuidRegex.ReplaceAllString(path, ":id")
}
