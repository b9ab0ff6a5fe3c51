package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Metrics holds the collectors of the DSA facades. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	TransactionsSubmitted *prometheus.CounterVec
	ChainErrors           *prometheus.CounterVec
	ValidationErrors      *prometheus.CounterVec
	Liquidity             *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. Collectors already
// registered with reg, e.g. by an earlier New, are shared.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		TransactionsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_submitted_total",
			Help:      "Transactions accepted by the node, by operation and asset kind.",
		}, []string{"operation", "asset"}),
		ChainErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_errors_total",
			Help:      "Submission and query failures returned by the chain client.",
		}, []string{"operation"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Requests rejected before any chain call.",
		}, []string{"operation"}),
		Liquidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "instapool_liquidity",
			Help:      "Last computed InstaPool liquidity per asset.",
		}, []string{"asset"}),
	}

	var err error
	if m.TransactionsSubmitted, err = register(reg, m.TransactionsSubmitted); err != nil {
		return nil, err
	}
	if m.ChainErrors, err = register(reg, m.ChainErrors); err != nil {
		return nil, err
	}
	if m.ValidationErrors, err = register(reg, m.ValidationErrors); err != nil {
		return nil, err
	}
	if m.Liquidity, err = register(reg, m.Liquidity); err != nil {
		return nil, err
	}

	return m, nil
}

// register adds c to reg. A collector already registered under the same
// descriptor is returned instead of c.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}

	return c, errors.Wrap(err, "failed to register metrics collector")
}

func (m *Metrics) Submitted(operation, asset string) {
	if m == nil {
		return
	}
	m.TransactionsSubmitted.WithLabelValues(operation, asset).Inc()
}

func (m *Metrics) ChainError(operation string) {
	if m == nil {
		return
	}
	m.ChainErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) ValidationError(operation string) {
	if m == nil {
		return
	}
	m.ValidationErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) SetLiquidity(asset string, value decimal.Decimal) {
	if m == nil {
		return
	}
	m.Liquidity.WithLabelValues(asset).Set(value.InexactFloat64())
}
