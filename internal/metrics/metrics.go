// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finanzas"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ContractsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_created_total",
		Help:      "Contracts created.",
	})

	ContractsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_deleted_total",
		Help:      "Contracts deleted, labelled by which parties were removed with them.",
	}, []string{"cleanup"})

	ContractUnitFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contract_unit_failures_total",
		Help:      "Contract create/delete units that failed and rolled back.",
	}, []string{"operation"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Contract events published, by type and result.",
	}, []string{"type", "result"})

	WeeksRolled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weeks_rolled_total",
		Help:      "Budget weeks created by the week roller.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "notifications_total",
		Help:      "Contract notification e-mails, by result.",
	}, []string{"result"})
)

// CleanupLabel describes the parties removed alongside a contract.
func CleanupLabel(clientDeleted, avalDeleted bool) string {
	switch {
	case clientDeleted && avalDeleted:
		return "client_and_aval"
	case clientDeleted:
		return "client"
	case avalDeleted:
		return "aval"
	default:
		return "none"
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
