package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the manager's Prometheus collectors.
type Metrics struct {
	setups      *prometheus.CounterVec
	generations *prometheus.CounterVec
	tokens      *prometheus.CounterVec
	genDuration prometheus.Histogram
	transitions *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*Metrics, error) {
	mt := &Metrics{
		setups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llamasvc",
				Subsystem: "manager",
				Name:      "setups_total",
				Help:      "Total model setups by result (ok or failure reason)",
			},
			[]string{"result"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llamasvc",
				Subsystem: "manager",
				Name:      "generations_total",
				Help:      "Total generation requests by result (ok or failure reason)",
			},
			[]string{"result"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llamasvc",
				Subsystem: "manager",
				Name:      "generation_tokens_total",
				Help:      "Total tokens reported by successful generations",
			},
			[]string{"model"},
		),
		genDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "llamasvc",
				Subsystem: "manager",
				Name:      "generation_duration_seconds",
				Help:      "Processing time reported by successful generations",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llamasvc",
				Subsystem: "manager",
				Name:      "model_transitions_total",
				Help:      "Lifecycle transitions by target status",
			},
			[]string{"to"},
		),
	}
	if reg == nil {
		return mt, nil
	}
	for _, c := range []prometheus.Collector{mt.setups, mt.generations, mt.tokens, mt.genDuration, mt.transitions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return mt, nil
}

func resultLabel(f *Failure) string {
	if f == nil {
		return "ok"
	}
	return string(f.Reason)
}
