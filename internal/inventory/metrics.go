package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultInvalid = "invalid"
)

var (
	StockUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "inventory",
		Name:      "stock_updates_total",
		Help:      "Single-item stock updates by result",
	}, []string{"result"})

	BatchUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "inventory",
		Name:      "batch_updates_total",
		Help:      "File-driven bulk stock updates by result",
	}, []string{"result"})

	Imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Subsystem: "inventory",
		Name:      "imports_total",
		Help:      "Item import files by result",
	}, []string{"result"})

	BatchRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "warehouse",
		Subsystem: "inventory",
		Name:      "batch_rows",
		Help:      "Rows per committed bulk update or import",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
	})
)
