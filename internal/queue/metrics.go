// metrics.go — Prometheus-метрики очереди заданий.
package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// jobsPublishedTotal — количество опубликованных заданий по очередям.
	jobsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fh_jobs_published_total",
			Help: "Общее количество заданий, опубликованных в очередь",
		},
		[]string{"queue"},
	)

	// jobsConsumedTotal — количество успешно обработанных заданий.
	jobsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fh_jobs_consumed_total",
			Help: "Общее количество успешно обработанных заданий",
		},
		[]string{"queue"},
	)
)
