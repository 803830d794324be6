package engine

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"epubdeco/common"
)

// Metrics counts engine activity. Nil Metrics is valid and counts nothing.
type Metrics struct {
	changes *prometheus.CounterVec
	layouts prometheus.Counter
	skipped *prometheus.CounterVec
	hits    *prometheus.CounterVec
}

// NewMetrics creates collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "decor",
			Name:      "changes_applied_total",
			Help:      "Decoration changes applied to the rendered resource, by kind.",
		}, []string{"kind"}),
		layouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "decor",
			Name:      "layout_passes_total",
			Help:      "Group layout passes.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "decor",
			Name:      "items_skipped_total",
			Help:      "Decorations which could not be drawn, by reason.",
		}, []string{"reason"}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "decor",
			Name:      "hit_tests_total",
			Help:      "Pointer hit tests, by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.changes, m.layouts, m.skipped, m.hits} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("unable to register engine metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) changeApplied(kind common.ChangeKind) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) layoutPass() {
	if m == nil {
		return
	}
	m.layouts.Inc()
}

func (m *Metrics) itemSkipped(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) hitTested(matched bool) {
	if m == nil {
		return
	}
	result := "missed"
	if matched {
		result = "matched"
	}
	m.hits.WithLabelValues(result).Inc()
}
