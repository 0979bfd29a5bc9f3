package prom

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/enginecore"
	"github.com/hupe1980/enginecore/arena"
)

const namespace = "enginecore"

// Collector implements enginecore.MetricsCollector on a Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	FramesTotal     prometheus.Counter
	FrameDuration   prometheus.Histogram
	DestroyedTotal  prometheus.Counter
	LiveEntities    prometheus.Gauge
	FrameBytes      prometheus.Histogram
	CommittedBytes  prometheus.Gauge
	ArenaOffset     *prometheus.GaugeVec
	ArenaCommitted  *prometheus.GaugeVec
	ArenaHighWater  *prometheus.GaugeVec
	ArenaReserved   *prometheus.GaugeVec
	ArenaAllocs     *prometheus.GaugeVec
	ArenaResizes    *prometheus.GaugeVec
	ArenaInPlaceHit *prometheus.GaugeVec
}

var _ enginecore.MetricsCollector = (*Collector)(nil)

// NewCollector registers the engine metrics on registry. A nil registry
// selects a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	f := promauto.With(registry)

	return &Collector{
		registry: registry,
		FramesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of completed frames",
		}),
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time from BeginFrame to EndFrame in seconds",
			Buckets:   []float64{0.001, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
		}),
		DestroyedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_destroyed_total",
			Help:      "Total number of entities destroyed at frame end",
		}),
		LiveEntities: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities_live",
			Help:      "Number of live entities after the last frame",
		}),
		FrameBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_arena_bytes",
			Help:      "Bytes allocated from the frame arena per frame",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		CommittedBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "committed_bytes",
			Help:      "Committed memory across all arenas of the core",
		}),
		ArenaOffset:     arenaGauge(f, "offset_bytes", "Bump cursor of the arena"),
		ArenaCommitted:  arenaGauge(f, "committed_bytes", "Committed bytes of the arena"),
		ArenaHighWater:  arenaGauge(f, "high_water_bytes", "Largest cursor the arena reached"),
		ArenaReserved:   arenaGauge(f, "reserved_bytes", "Reserved address range of the arena"),
		ArenaAllocs:     arenaGauge(f, "allocs", "Alloc calls served by the arena"),
		ArenaResizes:    arenaGauge(f, "resizes", "Resize calls served by the arena"),
		ArenaInPlaceHit: arenaGauge(f, "in_place_resizes", "Resize calls served without copying"),
	}
}

func arenaGauge(f promauto.Factory, name, help string) *prometheus.GaugeVec {
	return f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "arena",
		Name:      name,
		Help:      help,
	}, []string{"arena"})
}

// RecordFrame implements enginecore.MetricsCollector.
func (c *Collector) RecordFrame(s enginecore.FrameStats) {
	c.FramesTotal.Inc()
	c.FrameDuration.Observe(s.Duration.Seconds())
	c.DestroyedTotal.Add(float64(s.Destroyed))
	c.LiveEntities.Set(float64(s.Live))
	c.FrameBytes.Observe(float64(s.FrameBytes))
	c.CommittedBytes.Set(float64(s.CommittedBytes))
}

// RecordArena implements enginecore.MetricsCollector.
func (c *Collector) RecordArena(name string, s arena.Stats) {
	c.ArenaOffset.WithLabelValues(name).Set(float64(s.Offset))
	c.ArenaCommitted.WithLabelValues(name).Set(float64(s.Committed))
	c.ArenaHighWater.WithLabelValues(name).Set(float64(s.HighWater))
	c.ArenaReserved.WithLabelValues(name).Set(float64(s.Reserved))
	c.ArenaAllocs.WithLabelValues(name).Set(float64(s.Allocs))
	c.ArenaResizes.WithLabelValues(name).Set(float64(s.Resizes))
	c.ArenaInPlaceHit.WithLabelValues(name).Set(float64(s.InPlaceResizes))
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
