package httpdelivery

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed.",
		},
	)

	// Business metrics.
	authOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_auth_operations_total",
			Help: "Total number of authentication operations.",
		},
		[]string{"operation", "status"},
	)

	menuOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_menu_operations_total",
			Help: "Total number of menu mutations.",
		},
		[]string{"operation", "status"},
	)

	roleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_role_operations_total",
			Help: "Total number of role and role permission mutations.",
		},
		[]string{"operation", "status"},
	)

	userOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_user_operations_total",
			Help: "Total number of user mutations.",
		},
		[]string{"operation", "status"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter.",
		},
		[]string{"limiter"},
	)
)

const (
	metricStatusSuccess = "success"
	metricStatusFailure = "failure"
)

// metricsMiddleware records request count and latency per route template.
// It runs inside the router so the matched route is known.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		start := time.Now()
		rec := wrapResponseWriter(w)
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func record(counter *prometheus.CounterVec, operation string, err error) {
	s := metricStatusSuccess
	if err != nil {
		s = metricStatusFailure
	}
	counter.WithLabelValues(operation, s).Inc()
}

// RecordAuthOperation records an authentication operation metric.
func RecordAuthOperation(operation string, err error) { record(authOperationsTotal, operation, err) }

// RecordMenuOperation records a menu mutation metric.
func RecordMenuOperation(operation string, err error) { record(menuOperationsTotal, operation, err) }

// RecordRoleOperation records a role mutation metric.
func RecordRoleOperation(operation string, err error) { record(roleOperationsTotal, operation, err) }

// RecordUserOperation records a user mutation metric.
func RecordUserOperation(operation string, err error) { record(userOperationsTotal, operation, err) }
