package ledger

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	histogramWriteTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gastos",
			Subsystem: "ledger",
			Name:      "histogram_write_time_seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"success"},
	)

	counterAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gastos",
			Subsystem: "ledger",
			Name:      "appends_total",
		},
		[]string{"success"},
	)
)

func observeWrite(elapsed time.Duration, success bool) {
	label := strconv.FormatBool(success)
	histogramWriteTime.WithLabelValues(label).Observe(elapsed.Seconds())
	counterAppends.WithLabelValues(label).Inc()
}
