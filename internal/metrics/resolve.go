package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution metrics. Defined in a standalone package to avoid import cycles
// between the HTTP layer and the resolution core (which itself stays
// metrics-free).

var (
	ResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tenantd_resolve_total",
		Help: "Resoluciones por capability y resultado (ok|not_found|error)",
	}, []string{"capability", "outcome"})

	ResolveDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tenantd_resolve_duration_ms",
		Help:    "Latencia de resolución + construcción en milisegundos",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"capability"})

	ScopesActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tenantd_scopes_active",
		Help: "Scopes de request abiertos actualmente",
	})
)

// ObserveResolve registra el resultado de una resolución.
func ObserveResolve(capability, outcome string, start time.Time) {
	ResolveTotal.WithLabelValues(capability, outcome).Inc()
	ResolveDuration.WithLabelValues(capability).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// Register registers the resolution metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{ResolveTotal, ResolveDuration, ScopesActive} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
