// Package instapool estimates how much the InstaPool flash-loan account can
// lend right now.
package instapool

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/compound"
	"github/chapool/dsa-connect/internal/util"
)

// ErrPositionsNotConfigured is returned when the DSA context has no position
// reader.
var ErrPositionsNotConfigured = errors.New("lending position reader is not configured")

// Liquidity maps an asset key ("eth", "dai", "usdc") to the available amount
// in that asset's units.
type Liquidity map[string]decimal.Decimal

// Keys returns the asset keys in a stable order.
func (l Liquidity) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

type Service interface {
	// GetLiquidity reads the pool position and derives the haircut adjusted
	// borrow limit, in the native currency and in every quote asset.
	GetLiquidity(ctx context.Context) (Liquidity, error)
}

type service struct {
	dsa *dsa.DSA
}

// NewService returns the liquidity snapshot bound to d.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(d *dsa.DSA) Service {
	return &service{dsa: d}
}

func (s *service) GetLiquidity(ctx context.Context) (Liquidity, error) {
	cfg := s.dsa.Config.InstaPool
	log := util.LogFromContext(ctx).With().Str("component", "instapool").Logger()

	if s.dsa.Positions == nil {
		return nil, ErrPositionsNotConfigured
	}

	if !common.IsHexAddress(cfg.Address) {
		return nil, errors.Errorf("invalid instapool address %q", cfg.Address)
	}

	key, err := compound.ParsePositionKey(cfg.PositionKey)
	if err != nil {
		return nil, err
	}

	position, err := s.dsa.Positions.GetPosition(ctx, common.HexToAddress(cfg.Address), key)
	if err != nil {
		s.dsa.Metrics.ChainError("liquidity")
		return nil, err
	}

	adjusted := position.MaxBorrowLimitInEth.Mul(cfg.Haircut)

	liquidity := Liquidity{cfg.NativeKey: adjusted}

	for _, asset := range cfg.QuoteAssets {
		entry, ok := position.Asset(asset)
		if !ok {
			return nil, errors.Errorf("position has no %q market", asset)
		}

		if !entry.PriceInEth.IsPositive() {
			return nil, errors.Errorf("position reports no price for %q", asset)
		}

		liquidity[asset] = adjusted.Div(entry.PriceInEth)
	}

	for asset, amount := range liquidity {
		s.dsa.Metrics.SetLiquidity(asset, amount)
	}

	log.Debug().
		Str("max_borrow_limit_in_eth", position.MaxBorrowLimitInEth.String()).
		Str("adjusted", adjusted.String()).
		Msg("Computed instapool liquidity")

	return liquidity, nil
}
