package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the arena collectors. Labels are bounded: archetypes,
// states and outcome kinds only, never entity ids.
type Metrics struct {
	registry *prometheus.Registry

	FrameDuration prometheus.Histogram
	LiveEntities  prometheus.Gauge
	Damage        *prometheus.CounterVec
	Outcomes      *prometheus.CounterVec
	Deaths        *prometheus.CounterVec
	StateChanges  *prometheus.CounterVec
	Events        *prometheus.CounterVec
	Spectators    prometheus.Gauge
	Broadcasts    prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry so several arenas
// (and tests) can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_frame_duration_seconds",
			Help:    "Time spent in one simulation frame",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016},
		}),
		LiveEntities: f.NewGauge(prometheus.GaugeOpts{
			Name: "arena_live_entities",
			Help: "Entities alive in the world",
		}),
		Damage: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_damage_total",
			Help: "Hit points removed, by target archetype",
		}, []string{"archetype"}),
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_hit_outcomes_total",
			Help: "Hits by outcome kind",
		}, []string{"outcome"}),
		Deaths: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_deaths_total",
			Help: "Deaths by archetype",
		}, []string{"archetype"}),
		StateChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_state_changes_total",
			Help: "State transitions by destination state",
		}, []string{"state"}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_events_total",
			Help: "Combat events by type",
		}, []string{"type"}),
		Spectators: f.NewGauge(prometheus.GaugeOpts{
			Name: "arena_spectators_active",
			Help: "Connected websocket spectators",
		}),
		Broadcasts: f.NewCounter(prometheus.CounterOpts{
			Name: "arena_broadcasts_total",
			Help: "Snapshots broadcast to spectators",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFrame records how long a frame took.
func (m *Metrics) ObserveFrame(d time.Duration) {
	m.FrameDuration.Observe(d.Seconds())
}
