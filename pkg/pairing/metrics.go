package pairing

import "github.com/zeromicro/go-zero/core/metric"

var (
	regenerations = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "pairing",
		Name:      "cycle_regenerations_total",
		Help:      "Cycle regenerations by cycle kind",
		Labels:    []string{"kind"},
	})

	rotationFallbacks = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "pairing",
		Name:      "rotation_fallbacks_total",
		Help:      "Unlocked cycles that fell back to the deterministic rotation",
		Labels:    []string{},
	})
)
