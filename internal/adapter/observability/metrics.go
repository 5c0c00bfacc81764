package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding provider requests by outcome",
		},
		[]string{"provider", "outcome"},
	)
	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Embedding provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)

	RankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rank_requests_total",
			Help: "Total number of ranking invocations",
		},
		[]string{"kind"},
	)
	RankedCandidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ranked_candidates_total",
			Help: "Total number of candidate scorings performed",
		},
	)

	JobContextCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_context_cache_hits_total",
			Help: "Job context cache lookups served from cache",
		},
	)
	JobContextCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_context_cache_misses_total",
			Help: "Job context cache lookups that required a build",
		},
	)

	MetricFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_metric_fallbacks_total",
			Help: "Metric calculations replaced by their neutral fallback, by reason",
		},
		[]string{"metric", "reason"},
	)
	MetricScoreHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "similarity_metric_score",
			Help:    "Distribution of individual metric scores [0,1]",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"metric"},
	)
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_overall_score",
			Help:    "Distribution of overall similarity scores [0,1]",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
)

// InitMetrics registers all collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(RankRequestsTotal)
	prometheus.MustRegister(RankedCandidatesTotal)
	prometheus.MustRegister(JobContextCacheHits)
	prometheus.MustRegister(JobContextCacheMisses)
	prometheus.MustRegister(MetricFallbacksTotal)
	prometheus.MustRegister(MetricScoreHistogram)
	prometheus.MustRegister(OverallScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}
