package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Signup counter
	SignupCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cafe_signup_total",
			Help: "Total number of tenant signup attempts",
		},
	)

	// Login counters by surface (master or tenant)
	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_login_total",
			Help: "Total number of login attempts by surface",
		},
		[]string{"surface"},
	)

	// Provisioning outcome counter
	ProvisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_provision_total",
			Help: "Total number of tenant provisioning attempts by outcome",
		},
		[]string{"outcome"}, // "success", "duplicate", "incomplete"
	)

	// Tenant resolution counter
	ResolveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_tenant_resolve_total",
			Help: "Total number of tenant connection resolutions by outcome",
		},
		[]string{"outcome"}, // "hit", "opened", "not_found", "suspended", "error"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counter by stable tenancy error code
	TenancyErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_tenancy_errors_total",
			Help: "Total number of tenancy errors by code",
		},
		[]string{"code"},
	)

	// Chat relay counter
	ChatMessageCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cafe_chat_messages_total",
			Help: "Total number of chat messages relayed",
		},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)

	// Tenant resolution duration
	ResolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cafe_tenant_resolve_duration_seconds",
			Help:    "Duration of tenant connection resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Gauge metrics
var (
	// Cached tenant connections
	OpenTenantConnectionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cafe_open_tenant_connections",
			Help: "Number of cached tenant database connections",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cafe_info",
			Help: "Information about the service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(SignupCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(ProvisionCounter)
	prometheus.MustRegister(ResolveCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(TenancyErrorCounter)
	prometheus.MustRegister(ChatMessageCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(ResolveDuration)

	prometheus.MustRegister(OpenTenantConnectionsGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordTenancyError counts a tenancy failure by its stable code.
func RecordTenancyError(code string) {
	if code == "" {
		code = "unknown"
	}
	TenancyErrorCounter.With(prometheus.Labels{"code": code}).Inc()
}

// RecordResolve counts one tenant resolution outcome.
func RecordResolve(outcome string) {
	ResolveCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordProvision counts one provisioning outcome.
func RecordProvision(outcome string) {
	ProvisionCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
