package floor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes renderer statistics as Prometheus collectors.
// A nil *Metrics records nothing.
type Metrics struct {
	rebuilds   prometheus.Counter
	layers     prometheus.Counter
	drawCalls  prometheus.Counter
	underwater prometheus.Counter
	liveMeshes prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floor",
			Name:      "chunk_rebuilds_total",
			Help:      "Chunks whose layer meshes were regenerated.",
		}),
		layers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floor",
			Name:      "layer_meshes_built_total",
			Help:      "Non-empty chunk layer meshes uploaded.",
		}),
		drawCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floor",
			Name:      "mesh_draws_total",
			Help:      "Chunk layer meshes drawn.",
		}),
		underwater: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floor",
			Name:      "underwater_passes_total",
			Help:      "Liquid layers that ran underwater draw callbacks.",
		}),
		liveMeshes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floor",
			Name:      "live_meshes",
			Help:      "Chunk layer meshes currently resident.",
		}),
	}
	for _, c := range []prometheus.Collector{m.rebuilds, m.layers, m.drawCalls, m.underwater, m.liveMeshes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) chunkRebuilt() {
	if m != nil {
		m.rebuilds.Inc()
	}
}

func (m *Metrics) meshBuilt() {
	if m != nil {
		m.layers.Inc()
		m.liveMeshes.Inc()
	}
}

func (m *Metrics) meshDisposed() {
	if m != nil {
		m.liveMeshes.Dec()
	}
}

func (m *Metrics) meshDrawn() {
	if m != nil {
		m.drawCalls.Inc()
	}
}

func (m *Metrics) underwaterPass() {
	if m != nil {
		m.underwater.Inc()
	}
}
