package dsa_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/test"
)

func TestInitDSAWithBackendSharesMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	cfg := test.TestSDKConfig(t)
	cfg.Metrics.Enabled = true

	first, err := dsa.InitDSAWithBackend(ctx, cfg, test.NewFakeBackend(), reg, nil)
	require.NoError(t, err)
	require.NotNil(t, first.Metrics)

	second, err := dsa.InitDSAWithBackend(ctx, cfg, test.NewFakeBackend(), reg, nil)
	require.NoError(t, err, "a second context on the same registerer")

	first.Metrics.ChainError("transfer")
	second.Metrics.ChainError("transfer")
	assert.InDelta(t, 2, testutil.ToFloat64(first.Metrics.ChainErrors.WithLabelValues("transfer")), 0)
}

func TestNewMetricsDisabled(t *testing.T) {
	cfg := test.TestSDKConfig(t)
	cfg.Metrics = config.Metrics{Enabled: false}

	m, err := dsa.NewMetrics(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Nil(t, m)
}
