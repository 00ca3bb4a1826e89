package preview

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitepipe"

// Metrics holds the preview and rebuild collectors on a private registry.
type Metrics struct {
	registry        *prom.Registry
	clients         prom.Gauge
	reloads         prom.Counter
	rebuilds        *prom.CounterVec
	rebuildDuration *prom.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg creates a fresh registry.
func NewMetrics(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		clients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live-reload clients",
		}),
		reloads: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "livereload_broadcasts_total",
			Help:      "Reload signals broadcast to clients",
		}),
		rebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Watch-triggered rebuilds by binding and result",
		}, []string{"binding", "result"}),
		rebuildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Duration of watch-triggered rebuilds",
			Buckets:   prom.DefBuckets,
		}, []string{"binding"}),
	}
	reg.MustRegister(m.clients, m.reloads, m.rebuilds, m.rebuildDuration)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prom.Registry {
	return m.registry
}

// ObserveRebuild records one binding run.
func (m *Metrics) ObserveRebuild(binding string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failed"
	}
	m.rebuilds.WithLabelValues(binding, result).Inc()
	m.rebuildDuration.WithLabelValues(binding).Observe(d.Seconds())
}

func (m *Metrics) setClients(n int) {
	if m != nil {
		m.clients.Set(float64(n))
	}
}

func (m *Metrics) incReloads() {
	if m != nil {
		m.reloads.Inc()
	}
}
