package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "yt_audio_vault"

// Prom holds the service's Prometheus collectors on a private registry
type Prom struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	downloads *prometheus.CounterVec
}

// NewProm registers the collectors on a new registry
func NewProm() *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method/route/status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method/route",
			Buckets:   []float64{0.05, 0.25, 1, 5, 15, 60, 180, 600},
		}, []string{"method", "route"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "downloads_total",
			Help:      "Audio downloads by outcome",
		}, []string{"outcome"}),
	}
	p.registry.MustRegister(p.requests, p.latency, p.downloads)
	return p
}

// ObserveRequest records one completed HTTP request
func (p *Prom) ObserveRequest(method, route string, status int, durationSeconds float64) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.latency.WithLabelValues(method, route).Observe(durationSeconds)
}

// ObserveDownload records the outcome of one download
func (p *Prom) ObserveDownload(outcome string) {
	p.downloads.WithLabelValues(outcome).Inc()
}

// Handler returns an HTTP handler for /metrics
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
