package metrics

import "github.com/prometheus/client_golang/prometheus"

// CreditOps counts ledger mutations by operation, source tag and outcome.
// result is one of: applied, duplicate, rejected, error.
var CreditOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: "credits",
		Name:      "ops_total",
		Help:      "Credit ledger operations partitioned by op, source and result.",
	},
	[]string{"op", "source", "result"},
)

func init() {
	prometheus.MustRegister(CreditOps)
}
