package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "loads_total",
		Help:      "Completed model loads.",
	})
	loadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "load_failures_total",
		Help:      "Model loads that ended in an error.",
	})
	switchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "switches_total",
		Help:      "Accepted model switch requests.",
	})
	idleUnloads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "idle_unloads_total",
		Help:      "Models evicted by the idle timer.",
	})
	tokensPerSecond = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "tokens_per_second",
		Help:      "Throughput measured by the post-load benchmark.",
	})
	memoryUsedGB = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "memory_used_gb",
		Help:      "Accelerator memory in use, GB.",
	})
	memoryTotalGB = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "memory_total_gb",
		Help:      "Accelerator memory available, GB.",
	})
	generateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "novad",
		Subsystem: "manager",
		Name:      "generate_duration_seconds",
		Help:      "Wall-clock duration of blocking generations.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

func init() {
	prometheus.MustRegister(
		loadsTotal,
		loadFailures,
		switchesTotal,
		idleUnloads,
		tokensPerSecond,
		memoryUsedGB,
		memoryTotalGB,
		generateDuration,
	)
}
