package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_store_operations_total",
			Help: "Total number of journal store operations",
		},
		[]string{"backend", "operation", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradejournal_store_operation_duration_seconds",
			Help:    "Journal store operation duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_reports_total",
			Help: "Total number of analytics reports computed",
		},
		[]string{"kind"},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradejournal_report_duration_seconds",
			Help:    "Time to load trades and compute a report",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	SampleSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradejournal_report_sample_size",
			Help:    "Number of trades in the filtered sample of a report",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_cache_requests_total",
			Help: "Read-through cache lookups by result",
		},
		[]string{"kind", "result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_http_requests_total",
			Help: "HTTP API requests",
		},
		[]string{"method", "route", "code"},
	)
)

// ObserveStore records the outcome and latency of one store call.
func ObserveStore(backend, op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOperationsTotal.WithLabelValues(backend, op, status).Inc()
	StoreOperationDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

// ObserveReport records one computed report and its sample size.
func ObserveReport(kind string, start time.Time, sample int) {
	ReportsTotal.WithLabelValues(kind).Inc()
	ReportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	SampleSize.Observe(float64(sample))
}
