package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts lease and transition outcomes by kind and result.
type Metrics struct {
	leaseOps    *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		leaseOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "lease_operations_total",
			Help:      "Lease operations by operation, kind and outcome.",
		}, []string{"operation", "kind", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "status_transitions_total",
			Help:      "Order status transitions by target status and outcome.",
		}, []string{"to", "outcome"}),
	}
	reg.MustRegister(m.leaseOps, m.transitions)
	return m
}

func (m *Metrics) observeLease(operation, kind string, err error) {
	m.leaseOps.WithLabelValues(operation, kind, outcomeOf(err)).Inc()
}

func (m *Metrics) observeTransition(to string, err error) {
	m.transitions.WithLabelValues(to, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	switch statusOf(err) {
	case http.StatusConflict:
		return "conflict"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "invalid"
	case http.StatusNotFound:
		return "not_found"
	default:
		return "error"
	}
}
