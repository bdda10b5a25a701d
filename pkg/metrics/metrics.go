// Package metrics exports arcdiff's observability hooks as Prometheus
// metrics.
//
// A [Registry] owns its own prometheus.Registry so tests and embedded
// servers never collide on the global default registerer. [Registry.Install]
// registers the registry as the process-wide hooks of package observability;
// [Registry.Handler] serves the /metrics endpoint.
//
//	reg := metrics.NewRegistry()
//	reg.Install()
//	router.Handle("/metrics", reg.Handler())
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/arcdiff/pkg/observability"
)

// Registry holds every arcdiff metric.
type Registry struct {
	// Pipeline
	DecodesTotal        *prometheus.CounterVec
	DecodeDuration      *prometheus.HistogramVec
	ComparisonsTotal    *prometheus.CounterVec
	CompareDuration     *prometheus.HistogramVec
	EdgesClassified     *prometheus.CounterVec
	EdgesMoved          prometheus.Counter
	RendersTotal        *prometheus.CounterVec
	RenderDuration      prometheus.Histogram
	ComparisonAgreement prometheus.Histogram

	// Cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheSetBytes    *prometheus.HistogramVec

	// Annotation service
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	UpstreamErrorsTotal     *prometheus.CounterVec

	// HTTP API
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initUpstreamMetrics()
	r.initHTTPMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Install registers r as the pipeline, cache, HTTP and server hooks.
func (r *Registry) Install() {
	observability.SetPipelineHooks(pipelineHooks{r})
	observability.SetCacheHooks(cacheHooks{r})
	observability.SetHTTPHooks(httpHooks{r})
	observability.SetServerHooks(serverHooks{r})
}

func (r *Registry) initPipelineMetrics() {
	r.DecodesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_decodes_total",
			Help: "Total number of decoded graphs",
		},
		[]string{"format", "status"},
	)

	r.DecodeDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arcdiff_decode_duration_seconds",
			Help:    "Time to decode one graph from its payload",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"format"},
	)

	r.ComparisonsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_comparisons_total",
			Help: "Total number of graph comparisons",
		},
		[]string{"mode", "status"},
	)

	r.CompareDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arcdiff_compare_duration_seconds",
			Help:    "Time to classify the edges of two graphs",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
		[]string{"mode"},
	)

	r.EdgesClassified = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_edges_classified_total",
			Help: "Edges classified, by outcome",
		},
		[]string{"mode", "class"}, // match, conflict, unique_a, unique_b
	)

	r.EdgesMoved = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "arcdiff_edges_moved_total",
			Help: "UNIQUE_B edges moved to the bottom lane",
		},
	)

	r.ComparisonAgreement = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arcdiff_comparison_agreement_ratio",
			Help:    "Share of relations both graphs agree on",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.95, 1.0},
		},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_renders_total",
			Help: "Total number of rendered artifacts",
		},
		[]string{"format", "status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arcdiff_render_duration_seconds",
			Help:    "Time to render all requested artifacts of a comparison",
			Buckets: prometheus.DefBuckets,
		},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_cache_hits_total",
			Help: "Cache hits by key type",
		},
		[]string{"type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_cache_misses_total",
			Help: "Cache misses by key type",
		},
		[]string{"type"},
	)

	r.CacheSetBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arcdiff_cache_set_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"type"},
	)
}

func (r *Registry) initUpstreamMetrics() {
	r.UpstreamRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_upstream_requests_total",
			Help: "Requests sent to the annotation service",
		},
		[]string{"host", "status"},
	)

	r.UpstreamRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arcdiff_upstream_request_duration_seconds",
			Help:    "Annotation service latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"host"},
	)

	r.UpstreamErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_upstream_errors_total",
			Help: "Annotation service calls that failed without a response",
		},
		[]string{"host"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcdiff_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arcdiff_http_request_duration_seconds",
			Help:    "HTTP API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
}
