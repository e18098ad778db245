package preview

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the preview server's Prometheus collectors, registered on
// a private registry so tests can run servers side by side.
type metrics struct {
	registry      *prometheus.Registry
	requestsTotal *prometheus.CounterVec
	rebuildsTotal *prometheus.CounterVec
	buildDuration prometheus.Histogram
	renderTotal   prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foliopress_preview_http_requests_total",
		Help: "HTTP requests served by the preview server.",
	}, []string{"code"})

	m.rebuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foliopress_preview_rebuilds_total",
		Help: "Content rebuilds, by trigger.",
	}, []string{"trigger", "result"})

	m.buildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "foliopress_preview_build_duration_seconds",
		Help:    "Duration of content pipeline runs.",
		Buckets: prometheus.DefBuckets,
	})

	m.renderTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foliopress_preview_renders_total",
		Help: "Documents rendered through the preview render API.",
	})

	m.registry.MustRegister(m.requestsTotal, m.rebuildsTotal, m.buildDuration, m.renderTotal)
	return m
}
