// metrics.go — Prometheus-метрики доменных операций.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operationsTotal — счётчик доменных операций по типу и исходу.
var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fh_operations_total",
		Help: "Общее количество доменных операций File Hub",
	},
	[]string{"operation", "status"},
)
