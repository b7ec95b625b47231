package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the service
type Registry struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RoutesTotal      *prometheus.CounterVec
	RouteHops        prometheus.Histogram
	MutationsTotal   *prometheus.CounterVec
	AudioEventsTotal *prometheus.CounterVec
	ToolCallsTotal   *prometheus.CounterVec
	DangerousZones   prometheus.Gauge
	ClosedDoors      prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a Registry backed by its own prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	r.RoutesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_routes_total",
			Help: "Route planning requests by outcome (found, no_route, error) and admitted tier",
		},
		[]string{"outcome", "admission"},
	)
	r.RouteHops = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_route_hops",
			Help:    "Door count of returned routes",
			Buckets: prometheus.LinearBuckets(0, 1, 12),
		},
	)
	r.MutationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_mutations_total",
			Help: "Applied zone and door mutations",
		},
		[]string{"kind", "source"},
	)
	r.AudioEventsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_audio_events_total",
			Help: "Classified audio events by label and whether they changed zone state",
		},
		[]string{"label", "applied"},
	)
	r.ToolCallsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_tool_calls_total",
			Help: "Agent tool calls by tool and status",
		},
		[]string{"tool", "status"},
	)
	r.DangerousZones = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_dangerous_zones",
			Help: "Zones currently classified dangerous",
		},
	)
	r.ClosedDoors = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_closed_doors",
			Help: "Doors currently closed",
		},
	)

	return r
}

// RecordRoute records one planning outcome. hops < 0 means no route.
func (r *Registry) RecordRoute(outcome, admission string, hops int) {
	if r == nil {
		return
	}
	r.RoutesTotal.WithLabelValues(outcome, admission).Inc()
	if hops >= 0 {
		r.RouteHops.Observe(float64(hops))
	}
}

func (r *Registry) RecordMutation(kind, source string) {
	if r == nil {
		return
	}
	r.MutationsTotal.WithLabelValues(kind, source).Inc()
}

func (r *Registry) RecordAudioEvent(label string, applied bool) {
	if r == nil {
		return
	}
	r.AudioEventsTotal.WithLabelValues(label, strconv.FormatBool(applied)).Inc()
}

func (r *Registry) RecordToolCall(tool, status string) {
	if r == nil {
		return
	}
	r.ToolCallsTotal.WithLabelValues(tool, status).Inc()
}

// SetBuildingState updates the state gauges.
func (r *Registry) SetBuildingState(dangerousZones, closedDoors int) {
	if r == nil {
		return
	}
	r.DangerousZones.Set(float64(dangerousZones))
	r.ClosedDoors.Set(float64(closedDoors))
}

// Middleware records request counts and latency per route template.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		r.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }
