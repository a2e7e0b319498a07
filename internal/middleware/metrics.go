package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tender_audit_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tender_audit_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tender_audit_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})

	modelRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tender_audit_model_runs_total",
		Help: "Detection model runs by model type and outcome.",
	}, []string{"model", "outcome"})

	anomaliesFoundTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tender_audit_anomalies_found_total",
		Help: "Anomalies flagged by model type.",
	}, []string{"model"})
)

// MetricsMiddleware records request count, latency, and the in-flight gauge.
// The route label uses the chi pattern so ids do not explode cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordModelRun counts one detector run.
func RecordModelRun(model string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	modelRunsTotal.WithLabelValues(model, outcome).Inc()
}

// RecordAnomalies adds the anomalies flagged by one run.
func RecordAnomalies(model string, n int) {
	anomaliesFoundTotal.WithLabelValues(model).Add(float64(n))
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
