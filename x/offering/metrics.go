package offering

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts offering activity for operational monitoring.
type Metrics struct {
	Payments      prometheus.Counter
	PaymentsValue prometheus.Counter
	Refunds       prometheus.Counter
	RefundsValue  prometheus.Counter
	Failures      *prometheus.CounterVec
	SoldUnits     prometheus.Gauge
}

// NewMetrics creates and registers the offering metrics with the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Payments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "raise",
			Name:      "payments_total",
			Help:      "Number of settled payment authorizations.",
		}),
		PaymentsValue: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "raise",
			Name:      "payments_value_base_units",
			Help:      "Value received through settled payments, in base units.",
		}),
		Refunds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "raise",
			Name:      "refunds_total",
			Help:      "Number of processed refunds.",
		}),
		RefundsValue: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "raise",
			Name:      "refunds_value_base_units",
			Help:      "Value returned through refunds, in base units.",
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raise",
			Name:      "operation_failures_total",
			Help:      "Number of rejected operations, by operation and cause code.",
		}, []string{"operation", "code"}),
		SoldUnits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "raise",
			Name:      "sold_units",
			Help:      "Share units currently sold.",
		}),
	}
}
