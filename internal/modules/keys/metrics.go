package keys

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "gymkey"

// Metrics counts key lifecycle outcomes. Label values never include key values
type Metrics struct {
	issued      prometheus.Counter
	denied      prometheus.Counter
	redeemed    prometheus.Counter
	misses      prometheus.Counter
	storeErrors *prometheus.CounterVec
}

// NewMetrics creates the key collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "keys_issued_total",
			Help:      "Number of keys issued.",
		}),
		denied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "key_requests_denied_total",
			Help:      "Number of key requests rejected for invalid credentials.",
		}),
		redeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "keys_redeemed_total",
			Help:      "Number of keys successfully redeemed.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "key_redemption_misses_total",
			Help:      "Number of redemption attempts for unknown, used or malformed keys.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "store_errors_total",
			Help:      "Number of key store failures by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(m.issued, m.denied, m.redeemed, m.misses, m.storeErrors)
	return m
}
