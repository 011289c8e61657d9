package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "qadocs", Name: "http_requests_total", Help: "Number of HTTP requests by route and status code."},
		[]string{"route", "code"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "qadocs", Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"route"},
	)
	IndexOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "qadocs", Name: "index_operations_total", Help: "Number of vector index operations by operation and result."},
		[]string{"operation", "result"},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "qadocs", Name: "rate_limit_rejected_total", Help: "Number of requests rejected by the rate limiter."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(Requests)
	reg.MustRegister(RequestDuration)
	reg.MustRegister(IndexOperations)
	reg.MustRegister(RateLimitRejected)
}

// ObserveIndex records the outcome of an index operation.
func ObserveIndex(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	IndexOperations.WithLabelValues(operation, result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handler records request counts and latency for next under the route label.
func Handler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
