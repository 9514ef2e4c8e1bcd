package font

import "github.com/zeromicro/go-zero/core/metric"

var (
	assetLoads = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "font",
		Name:      "stylesheet_loads_total",
		Help:      "Stylesheet load requests by outcome",
		Labels:    []string{"outcome"},
	})

	loadDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "font",
		Name:      "stylesheet_load_seconds",
		Help:      "Stylesheet fetch duration in seconds",
		Labels:    []string{},
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)
