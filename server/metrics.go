package server

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	events         *prometheus.CounterVec
	animations     *prometheus.CounterVec
	patchesSent    prometheus.Counter
	patchesDropped prometheus.Counter
	streams        prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartable_events_total",
			Help: "Widget events received by type.",
		}, []string{"type"}),
		animations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartable_animations_total",
			Help: "Animate requests by result.",
		}, []string{"result"}),
		patchesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartable_patches_sent_total",
			Help: "Patches written to event streams.",
		}),
		patchesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartable_patches_dropped_total",
			Help: "Patches dropped for slow event streams.",
		}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartable_event_streams",
			Help: "Connected event streams.",
		}),
	}
	reg.MustRegister(m.events, m.animations, m.patchesSent, m.patchesDropped, m.streams)
	return m
}
