package api

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeUp          = "up"
	outcomeMaintenance = "maintenance"
)

// newProbeCounter counts liveness probes by outcome.
func newProbeCounter() *prometheus.CounterVec {
	probes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liveness_probes_total",
			Help: "Total number of liveness probes, by outcome",
		},
		[]string{"outcome"},
	)
	// Export both series from the start
	probes.WithLabelValues(outcomeUp)
	probes.WithLabelValues(outcomeMaintenance)
	return probes
}
