package probability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pricing work. A nil *Metrics records nothing.
type Metrics struct {
	PricingsTotal   prometheus.Counter
	PathsTotal      prometheus.Counter
	PricingDuration prometheus.Histogram
}

func NewMetrics(subsystem string) *Metrics {
	return &Metrics{
		PricingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdequant",
			Subsystem: subsystem,
			Name:      "pricings_total",
			Help:      "Total Monte Carlo pricings",
		}),
		PathsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdequant",
			Subsystem: subsystem,
			Name:      "paths_simulated_total",
			Help:      "Total simulated paths priced",
		}),
		PricingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sdequant",
			Subsystem: subsystem,
			Name:      "pricing_duration_seconds",
			Help:      "Monte Carlo pricing duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.PricingsTotal, m.PathsTotal, m.PricingDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(paths int, d time.Duration) {
	if m == nil {
		return
	}
	m.PricingsTotal.Inc()
	m.PathsTotal.Add(float64(paths))
	m.PricingDuration.Observe(d.Seconds())
}
