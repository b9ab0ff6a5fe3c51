package compound

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github/chapool/dsa-connect/internal/dsa/registry"
)

// PositionKey selects how assets are keyed in a Position.
type PositionKey string

const (
	// KeyToken keys assets by underlying symbol, e.g. "dai".
	KeyToken PositionKey = "token"
	// KeyCToken keys assets by cToken symbol, e.g. "cdai".
	KeyCToken PositionKey = "ctoken"
)

const (
	blocksPerYear   = 2102400
	priceScale      = 36
	mantissaDecimal = 18
)

// ParsePositionKey accepts "token" and "ctoken", case-insensitive.
func ParsePositionKey(raw string) (PositionKey, error) {
	switch key := PositionKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case KeyToken, KeyCToken:
		return key, nil
	default:
		return "", errors.Errorf("unknown position key %q, use %q or %q", raw, KeyToken, KeyCToken)
	}
}

// Asset is one market of a position. Rates are yearly fractions.
type Asset struct {
	PriceInEth   decimal.Decimal `json:"priceInEth"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Supply       decimal.Decimal `json:"supply"`
	Borrow       decimal.Decimal `json:"borrow"`
	SupplyRate   decimal.Decimal `json:"supplyRate"`
	BorrowRate   decimal.Decimal `json:"borrowRate"`
}

// Position is an account's lending position across all known markets.
type Position struct {
	Assets              map[string]Asset `json:"assets"`
	TotalSupplyInEth    decimal.Decimal  `json:"totalSupplyInEth"`
	TotalBorrowInEth    decimal.Decimal  `json:"totalBorrowInEth"`
	MaxBorrowLimitInEth decimal.Decimal  `json:"maxBorrowLimitInEth"`
	Status              decimal.Decimal  `json:"status"`
	Liquidation         decimal.Decimal  `json:"liquidation"`
}

func (p *Position) Asset(key string) (Asset, bool) {
	asset, ok := p.Assets[strings.ToLower(key)]
	return asset, ok
}

// compData mirrors one resolver result tuple.
type compData struct {
	TokenPriceInEth         *big.Int
	ExchangeRateCurrent     *big.Int
	BalanceOfUser           *big.Int
	BorrowBalanceStoredUser *big.Int
	SupplyRatePerBlock      *big.Int
	BorrowRatePerBlock      *big.Int
}

func fromBig(v *big.Int, exp int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(v, exp)
}

func yearly(ratePerBlock *big.Int) decimal.Decimal {
	return fromBig(ratePerBlock, -mantissaDecimal).Mul(decimal.NewFromInt(blocksPerYear))
}

// buildPosition folds resolver data for markets into a Position. data and
// markets are index aligned.
func buildPosition(markets []registry.Token, data []compData, key PositionKey) (*Position, error) {
	if len(data) != len(markets) {
		return nil, errors.Errorf("resolver returned %d markets, expected %d", len(data), len(markets))
	}

	pos := &Position{Assets: make(map[string]Asset, len(markets))}

	for i, market := range markets {
		d := data[i]
		dec := market.Decimals

		asset := Asset{
			PriceInEth:   fromBig(d.TokenPriceInEth, -(priceScale - dec)),
			ExchangeRate: fromBig(d.ExchangeRateCurrent, -mantissaDecimal),
			Borrow:       fromBig(d.BorrowBalanceStoredUser, -dec),
			SupplyRate:   yearly(d.SupplyRatePerBlock),
			BorrowRate:   yearly(d.BorrowRatePerBlock),
		}
		asset.Supply = fromBig(d.BalanceOfUser, -dec).Mul(asset.ExchangeRate)

		supplyInEth := asset.Supply.Mul(asset.PriceInEth)
		pos.TotalSupplyInEth = pos.TotalSupplyInEth.Add(supplyInEth)
		pos.TotalBorrowInEth = pos.TotalBorrowInEth.Add(asset.Borrow.Mul(asset.PriceInEth))
		pos.MaxBorrowLimitInEth = pos.MaxBorrowLimitInEth.Add(supplyInEth.Mul(market.CollateralFactor))

		name := market.Symbol
		if key == KeyCToken {
			name = market.CTokenSymbol
		}
		pos.Assets[strings.ToLower(name)] = asset
	}

	if pos.TotalSupplyInEth.IsPositive() {
		pos.Status = pos.TotalBorrowInEth.Div(pos.TotalSupplyInEth)
		pos.Liquidation = pos.MaxBorrowLimitInEth.Div(pos.TotalSupplyInEth)
	}

	return pos, nil
}
