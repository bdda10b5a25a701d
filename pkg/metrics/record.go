package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/arcdiff/pkg/observability"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordComparison records a finished comparison and its outcome counts.
func (r *Registry) RecordComparison(mode string, stats observability.CompareStats, duration time.Duration, err error) {
	r.ComparisonsTotal.WithLabelValues(mode, status(err)).Inc()
	r.CompareDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if err != nil {
		return
	}
	r.EdgesClassified.WithLabelValues(mode, "match").Add(float64(stats.Match))
	r.EdgesClassified.WithLabelValues(mode, "conflict").Add(float64(stats.Conflict))
	r.EdgesClassified.WithLabelValues(mode, "unique_a").Add(float64(stats.UniqueA))
	r.EdgesClassified.WithLabelValues(mode, "unique_b").Add(float64(stats.UniqueB))
	r.EdgesMoved.Add(float64(stats.Moved))

	total := stats.Match + stats.Conflict + stats.UniqueA + stats.UniqueB
	agreement := 1.0
	if total > 0 {
		agreement = float64(stats.Match) / float64(total)
	}
	r.ComparisonAgreement.Observe(agreement)
}

// RecordHTTPRequest records an API request with its duration.
func (r *Registry) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	s := strconv.Itoa(code)
	r.HTTPRequestsTotal.WithLabelValues(method, route, s).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, s).Observe(duration.Seconds())
}

// =============================================================================
// Hook adapters
// =============================================================================

type pipelineHooks struct{ r *Registry }

func (h pipelineHooks) OnDecodeStart(context.Context, string, string) {}

func (h pipelineHooks) OnDecodeComplete(_ context.Context, format, _ string, _ int, d time.Duration, err error) {
	h.r.DecodesTotal.WithLabelValues(format, status(err)).Inc()
	h.r.DecodeDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (h pipelineHooks) OnCompareStart(context.Context, string, int, int) {}

func (h pipelineHooks) OnCompareComplete(_ context.Context, mode string, stats observability.CompareStats, d time.Duration, err error) {
	h.r.RecordComparison(mode, stats, d, err)
}

func (h pipelineHooks) OnRenderStart(context.Context, []string) {}

func (h pipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		h.r.RendersTotal.WithLabelValues(f, status(err)).Inc()
	}
	h.r.RenderDuration.Observe(d.Seconds())
}

type cacheHooks struct{ r *Registry }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

type httpHooks struct{ r *Registry }

func (h httpHooks) OnRequest(context.Context, string, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	h.r.UpstreamRequestsTotal.WithLabelValues(host, strconv.Itoa(code)).Inc()
	h.r.UpstreamRequestDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h httpHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.r.UpstreamErrorsTotal.WithLabelValues(host).Inc()
}

type serverHooks struct{ r *Registry }

func (h serverHooks) OnServe(_ context.Context, method, route string, code int, d time.Duration) {
	h.r.RecordHTTPRequest(method, route, code, d)
}
