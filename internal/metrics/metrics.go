// Package metrics exposes Prometheus collectors for the invoice dashboard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "invoice_dashboard",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoice_dashboard",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "invoice_dashboard",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	invoiceActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoice_dashboard",
			Subsystem: "invoices",
			Name:      "actions_total",
			Help:      "Invoice create, update and delete actions by outcome.",
		},
		[]string{"action", "outcome"},
	)

	routeCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoice_dashboard",
			Subsystem: "route_cache",
			Name:      "lookups_total",
			Help:      "Route cache lookups by result.",
		},
		[]string{"result"},
	)

	signIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoice_dashboard",
			Subsystem: "auth",
			Name:      "sign_ins_total",
			Help:      "Sign-in attempts by result.",
		},
		[]string{"result"},
	)
)

// Action outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeDBError     = "db_error"
	OutcomeBadCategory = "bad_category"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		invoiceActions,
		routeCacheLookups,
		signIns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations keyed by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordInvoiceAction counts a finished invoice action.
func RecordInvoiceAction(action, outcome string) {
	invoiceActions.WithLabelValues(action, outcome).Inc()
}

// RecordRouteCacheLookup counts a route cache hit or miss.
func RecordRouteCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	routeCacheLookups.WithLabelValues(result).Inc()
}

// RecordSignIn counts a sign-in attempt.
func RecordSignIn(result string) {
	signIns.WithLabelValues(result).Inc()
}
