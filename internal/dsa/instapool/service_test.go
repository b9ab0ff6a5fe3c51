package instapool_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa/compound"
	"github/chapool/dsa-connect/internal/dsa/instapool"
	"github/chapool/dsa-connect/internal/test"
)

type positionStub struct {
	position *compound.Position
	err      error

	owner common.Address
	key   compound.PositionKey
}

func (p *positionStub) GetPosition(_ context.Context, owner common.Address, key compound.PositionKey) (*compound.Position, error) {
	p.owner = owner
	p.key = key

	return p.position, p.err
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func poolPosition() *compound.Position {
	return &compound.Position{
		MaxBorrowLimitInEth: d("100"),
		Assets: map[string]compound.Asset{
			"eth":  {PriceInEth: d("1")},
			"dai":  {PriceInEth: d("0.0005")},
			"usdc": {PriceInEth: d("0.0005")},
		},
	}
}

func TestGetLiquidity(t *testing.T) {
	stub := &positionStub{position: poolPosition()}
	dsa := test.NewTestDSA(t, test.NewFakeBackend())
	dsa.Positions = stub

	liquidity, err := instapool.NewService(dsa).GetLiquidity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"dai", "eth", "usdc"}, liquidity.Keys())
	assert.True(t, liquidity["eth"].Equal(d("99.5")), liquidity["eth"].String())
	assert.True(t, liquidity["dai"].Equal(d("199000")), liquidity["dai"].String())
	assert.True(t, liquidity["usdc"].Equal(d("199000")), liquidity["usdc"].String())

	assert.Equal(t, common.HexToAddress(config.DefaultInstaPoolAddress), stub.owner)
	assert.Equal(t, compound.KeyToken, stub.key)

	assert.InDelta(t, 199000, testutil.ToFloat64(dsa.Metrics.Liquidity.WithLabelValues("dai")), 0)
	assert.InDelta(t, 99.5, testutil.ToFloat64(dsa.Metrics.Liquidity.WithLabelValues("eth")), 0)
}

func TestGetLiquidityConfigured(t *testing.T) {
	stub := &positionStub{position: poolPosition()}
	dsa := test.NewTestDSA(t, test.NewFakeBackend(), func(cfg *config.SDK) {
		cfg.InstaPool.Haircut = d("0.5")
		cfg.InstaPool.QuoteAssets = []string{"dai"}
	})
	dsa.Positions = stub

	liquidity, err := instapool.NewService(dsa).GetLiquidity(context.Background())
	require.NoError(t, err)

	assert.Len(t, liquidity, 2)
	assert.True(t, liquidity["eth"].Equal(d("50")))
	assert.True(t, liquidity["dai"].Equal(d("100000")))
}

func TestGetLiquidityErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("position error is returned unchanged", func(t *testing.T) {
		posErr := errors.New("execution reverted")
		dsa := test.NewTestDSA(t, test.NewFakeBackend())
		dsa.Positions = &positionStub{err: posErr}

		_, err := instapool.NewService(dsa).GetLiquidity(ctx)
		assert.Equal(t, posErr, err)
	})

	t.Run("missing quote asset", func(t *testing.T) {
		position := poolPosition()
		delete(position.Assets, "usdc")

		dsa := test.NewTestDSA(t, test.NewFakeBackend())
		dsa.Positions = &positionStub{position: position}

		_, err := instapool.NewService(dsa).GetLiquidity(ctx)
		require.ErrorContains(t, err, "usdc")
	})

	t.Run("zero price", func(t *testing.T) {
		position := poolPosition()
		position.Assets["dai"] = compound.Asset{}

		dsa := test.NewTestDSA(t, test.NewFakeBackend())
		dsa.Positions = &positionStub{position: position}

		_, err := instapool.NewService(dsa).GetLiquidity(ctx)
		require.ErrorContains(t, err, "dai")
	})

	t.Run("no position reader", func(t *testing.T) {
		dsa := test.NewTestDSA(t, test.NewFakeBackend())
		dsa.Positions = nil

		_, err := instapool.NewService(dsa).GetLiquidity(ctx)
		require.ErrorIs(t, err, instapool.ErrPositionsNotConfigured)
	})
}
