package session

import "github.com/zeromicro/go-zero/core/metric"

var (
	transitions = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Pair transitions by kind and outcome",
		Labels:    []string{"kind", "outcome"},
	})

	transitionDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "session",
		Name:      "transition_duration_seconds",
		Help:      "Time from accepting a transition to committing it",
		Labels:    []string{"kind"},
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	prefetches = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "session",
		Name:      "prefetch_total",
		Help:      "Shuffles served from the prefetch slot (hit) or computed directly (miss)",
		Labels:    []string{"result"},
	})

	activeSessions = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "session",
		Name:      "active",
		Help:      "Sessions currently held by the registry",
		Labels:    []string{},
	})
)
