// Package metrics exposes Prometheus counters for HTTP traffic and catenary
// calculations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"route", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mooring_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	calculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_calculations_total",
			Help: "Catenary calculations by outcome.",
		},
		[]string{"source", "outcome"},
	)

	calculationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mooring_calculation_duration_seconds",
			Help:    "Time spent in the catenary engine per calculation.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpDurationSeconds, calculationsTotal, calculationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCalculation records one engine run. outcome is "ok" or the error kind.
func ObserveCalculation(source, outcome string, d time.Duration) {
	if outcome == "" {
		outcome = "error"
	}
	calculationsTotal.WithLabelValues(source, outcome).Inc()
	calculationSeconds.Observe(d.Seconds())
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeLabel uses the matched mux template so path parameters do not
// multiply label values.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "other"
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := routeLabel(r)
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
