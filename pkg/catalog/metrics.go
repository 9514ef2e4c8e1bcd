package catalog

import "github.com/zeromicro/go-zero/core/metric"

var (
	resolutions = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "catalog",
		Name:      "resolutions_total",
		Help:      "Catalog resolutions by source",
		Labels:    []string{"source"},
	})

	endpointFailures = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "catalog",
		Name:      "endpoint_failures_total",
		Help:      "Metadata endpoints that failed or returned too few fonts",
		Labels:    []string{"endpoint"},
	})

	catalogSize = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "plat_fontmatch",
		Subsystem: "catalog",
		Name:      "fonts",
		Help:      "Number of fonts in the resolved catalog",
		Labels:    []string{"source"},
	})
)
