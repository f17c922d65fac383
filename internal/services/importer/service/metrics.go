package service

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type runMetrics struct {
	runs     *prometheus.CounterVec
	rows     *prometheus.CounterVec
	rejected *prometheus.CounterVec
	duration prometheus.Histogram
	active   prometheus.Gauge
}

var importMetrics = sync.OnceValue(func() *runMetrics {
	return &runMetrics{
		runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compsync",
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Finished import runs by mode and terminal state.",
		}, []string{"mode", "state"}),
		rows: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compsync",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Rows processed by import runs by outcome.",
		}, []string{"outcome"}),
		rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compsync",
			Subsystem: "import",
			Name:      "rejected_total",
			Help:      "Uploads rejected before any write, by error code.",
		}, []string{"code"}),
		duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "compsync",
			Subsystem: "import",
			Name:      "run_duration_seconds",
			Help:      "Wall time of import runs from accept to completion.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		active: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "compsync",
			Subsystem: "import",
			Name:      "active_runs",
			Help:      "Import runs currently writing.",
		}),
	}
})
