package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/internal/metrics"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New("dsa", reg)
	require.NoError(t, err)

	m.Submitted("transfer", "token")
	m.Submitted("transfer", "token")
	m.ChainError("approve")
	m.ValidationError("transfer")
	m.SetLiquidity("dai", decimal.NewFromInt(199000))

	assert.InDelta(t, 2, testutil.ToFloat64(m.TransactionsSubmitted.WithLabelValues("transfer", "token")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ChainErrors.WithLabelValues("approve")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("transfer")), 0)
	assert.InDelta(t, 199000, testutil.ToFloat64(m.Liquidity.WithLabelValues("dai")), 0)

	again, err := metrics.New("dsa", reg)
	require.NoError(t, err, "second registration reuses the collectors")
	again.Submitted("transfer", "token")
	assert.InDelta(t, 3, testutil.ToFloat64(m.TransactionsSubmitted.WithLabelValues("transfer", "token")), 0)
}

func TestMetricsRegistrationConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dsa",
		Name:      "chain_errors_total",
		Help:      "Same name, different type.",
	}))

	_, err := metrics.New("dsa", reg)
	require.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Submitted("transfer", "native")
		m.ChainError("transfer")
		m.ValidationError("transfer")
		m.SetLiquidity("eth", decimal.NewFromInt(1))
	})
}
