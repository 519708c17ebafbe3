package observability

import (
	"strconv"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard collectors.
type Metrics struct {
	Decisions    *prometheus.CounterVec
	Renders      *prometheus.CounterVec
	Interactions *prometheus.CounterVec
	ModeChanges  *prometheus.CounterVec
	Publishes    *prometheus.CounterVec
	Mounts       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dagview_snapshot_decisions_total",
				Help: "Snapshot decisions taken by diagram coordinators",
			},
			[]string{"decision"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dagview_renders_total",
				Help: "Render passes triggered, by whether the operator asked for them",
			},
			[]string{"manual"},
		),
		Interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dagview_interactions_total",
				Help: "Manual interactions that made diagrams defer structural renders",
			},
			[]string{"kind"},
		),
		ModeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dagview_mode_changes_total",
				Help: "Diagram mode switches",
			},
			[]string{"to"},
		),
		Publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dagview_snapshots_published_total",
				Help: "Topology snapshots published per view",
			},
			[]string{"view"},
		),
		Mounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dagview_live_mounts",
			Help: "Diagrams currently mounted",
		}),
	}
	reg.MustRegister(m.Decisions, m.Renders, m.Interactions, m.ModeChanges, m.Publishes, m.Mounts)
	return m
}

// Hooks returns coordinator hooks recording into the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnDecision: func(e *domain.DecisionEvent) {
			m.Decisions.WithLabelValues(string(e.Decision)).Inc()
		},
		OnRender: func(e *domain.RenderEvent) {
			m.Renders.WithLabelValues(strconv.FormatBool(e.Manual)).Inc()
		},
		OnInteraction: func(kind domain.InteractionKind) {
			m.Interactions.WithLabelValues(string(kind)).Inc()
		},
		OnModeChange: func(from, to domain.Mode) {
			m.ModeChanges.WithLabelValues(string(to)).Inc()
		},
	}
}

// ObservePublish records one publication of a view.
func (m *Metrics) ObservePublish(viewID string, mounts int) {
	m.Publishes.WithLabelValues(viewID).Inc()
}
