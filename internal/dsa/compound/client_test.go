package compound_test

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/internal/chain"
	"github/chapool/dsa-connect/internal/dsa/compound"
	"github/chapool/dsa-connect/internal/dsa/registry"
	"github/chapool/dsa-connect/internal/test"
)

// market mirrors a resolver result tuple for packing.
type market struct {
	TokenPriceInEth         *big.Int
	ExchangeRateCurrent     *big.Int
	BalanceOfUser           *big.Int
	BorrowBalanceStoredUser *big.Int
	SupplyRatePerBlock      *big.Int
	BorrowRatePerBlock      *big.Int
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func mul(a int64, exp int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(a), pow10(exp))
}

func zeroMarket(price *big.Int) market {
	return market{
		TokenPriceInEth:         price,
		ExchangeRateCurrent:     pow10(18),
		BalanceOfUser:           new(big.Int),
		BorrowBalanceStoredUser: new(big.Int),
		SupplyRatePerBlock:      new(big.Int),
		BorrowRatePerBlock:      new(big.Int),
	}
}

// poolMarkets returns resolver data in registry.Markets order (dai, eth,
// usdc, usdt, wbtc): 120 eth and 1 wbtc supplied, 20000 dai borrowed, dai
// and usdc priced at 0.0005 eth.
func poolMarkets() []market {
	dai := zeroMarket(mul(5, 14))
	dai.BorrowBalanceStoredUser = mul(20000, 18)
	dai.SupplyRatePerBlock = pow10(10)

	eth := zeroMarket(pow10(18))
	eth.BalanceOfUser = mul(120, 18)

	usdc := zeroMarket(mul(5, 26))
	usdt := zeroMarket(mul(5, 26))

	wbtc := zeroMarket(mul(25, 28))
	wbtc.BalanceOfUser = pow10(8)

	return []market{dai, eth, usdc, usdt, wbtc}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func newClient(t *testing.T, backend *test.FakeBackend, resolver string) *compound.Client {
	t.Helper()

	client, err := compound.NewClient(resolver, registry.New(), chain.NewTransactor(backend, nil, nil))
	require.NoError(t, err)

	return client
}

func TestGetPosition(t *testing.T) {
	owner := common.HexToAddress("0x1879BEE186BFfBA9A8b1cAD8181bBFb218A5Aa61")
	method := compound.ResolverABI.Methods[compound.MethodGetPosition]

	backend := test.NewFakeBackend()
	backend.CallHandler = func(msg ethereum.CallMsg) ([]byte, error) {
		if *msg.To != common.HexToAddress(test.TestResolverAddress) || !bytes.Equal(msg.Data[:4], method.ID) {
			return nil, errors.New("unexpected call")
		}
		return method.Outputs.Pack(poolMarkets())
	}

	pos, err := newClient(t, backend, test.TestResolverAddress).GetPosition(context.Background(), owner, compound.KeyToken)
	require.NoError(t, err)

	args, err := method.Inputs.Unpack(backend.CallMsgs()[0].Data[4:])
	require.NoError(t, err)
	assert.Equal(t, owner, args[0])
	assert.Len(t, args[1], len(registry.New().Markets()))

	assertDecimal(t, "145", pos.TotalSupplyInEth)
	assertDecimal(t, "10", pos.TotalBorrowInEth)
	assertDecimal(t, "100", pos.MaxBorrowLimitInEth)
	assert.True(t, pos.Status.Equal(decimal.NewFromInt(10).Div(decimal.NewFromInt(145))))
	assert.True(t, pos.Liquidation.Equal(decimal.NewFromInt(100).Div(decimal.NewFromInt(145))))

	dai, ok := pos.Asset("DAI")
	require.True(t, ok)
	assertDecimal(t, "0.0005", dai.PriceInEth)
	assertDecimal(t, "20000", dai.Borrow)
	assertDecimal(t, "0.021024", dai.SupplyRate)

	usdc, ok := pos.Asset("usdc")
	require.True(t, ok)
	assertDecimal(t, "0.0005", usdc.PriceInEth)

	wbtc, ok := pos.Asset("wbtc")
	require.True(t, ok)
	assertDecimal(t, "1", wbtc.Supply)
	assertDecimal(t, "25", wbtc.PriceInEth)
}

func TestGetPositionByCToken(t *testing.T) {
	backend := test.NewFakeBackend()
	backend.CallHandler = func(_ ethereum.CallMsg) ([]byte, error) {
		return compound.ResolverABI.Methods[compound.MethodGetPosition].Outputs.Pack(poolMarkets())
	}

	pos, err := newClient(t, backend, test.TestResolverAddress).GetPosition(context.Background(), common.Address{}, compound.KeyCToken)
	require.NoError(t, err)

	_, ok := pos.Asset("cdai")
	assert.True(t, ok)
	_, ok = pos.Asset("dai")
	assert.False(t, ok)
}

func TestGetPositionErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newClient(t, test.NewFakeBackend(), "").GetPosition(ctx, common.Address{}, compound.KeyToken)
	require.ErrorIs(t, err, compound.ErrResolverNotConfigured)

	_, err = compound.NewClient("0xnope", registry.New(), nil)
	require.Error(t, err)

	backend := test.NewFakeBackend()
	_, err = newClient(t, backend, test.TestResolverAddress).GetPosition(ctx, common.Address{}, "underlying")
	require.Error(t, err)
	assert.Zero(t, backend.Requests())

	callErr := errors.New("execution reverted")
	backend.CallErr = callErr
	_, err = newClient(t, backend, test.TestResolverAddress).GetPosition(ctx, common.Address{}, compound.KeyToken)
	assert.Equal(t, callErr, err)

	backend.CallErr = nil
	backend.CallHandler = func(_ ethereum.CallMsg) ([]byte, error) {
		return compound.ResolverABI.Methods[compound.MethodGetPosition].Outputs.Pack(poolMarkets()[:2])
	}
	_, err = newClient(t, backend, test.TestResolverAddress).GetPosition(ctx, common.Address{}, compound.KeyToken)
	require.Error(t, err, "market count mismatch")
}

func TestParsePositionKey(t *testing.T) {
	key, err := compound.ParsePositionKey(" Token ")
	require.NoError(t, err)
	assert.Equal(t, compound.KeyToken, key)

	key, err = compound.ParsePositionKey("ctoken")
	require.NoError(t, err)
	assert.Equal(t, compound.KeyCToken, key)

	_, err = compound.ParsePositionKey("")
	require.Error(t, err)
}
