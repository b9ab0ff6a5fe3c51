// Package compound reads lending positions through the Compound resolver
// contract.
package compound

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/dsa-connect/internal/chain"
	"github/chapool/dsa-connect/internal/dsa/registry"
	"github/chapool/dsa-connect/internal/util"
)

const MethodGetPosition = "getPosition"

const resolverJSON = `[
	{"name":"getPosition","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"cAddress","type":"address[]"}],
	 "outputs":[{"name":"","type":"tuple[]","components":[
		{"name":"tokenPriceInEth","type":"uint256"},
		{"name":"exchangeRateCurrent","type":"uint256"},
		{"name":"balanceOfUser","type":"uint256"},
		{"name":"borrowBalanceStoredUser","type":"uint256"},
		{"name":"supplyRatePerBlock","type":"uint256"},
		{"name":"borrowRatePerBlock","type":"uint256"}
	 ]}]}
]`

// ResolverABI is the subset of the resolver used here.
var ResolverABI = chain.MustParseABI(resolverJSON)

// ErrResolverNotConfigured is returned by GetPosition without a resolver
// address.
var ErrResolverNotConfigured = errors.New("compound resolver address is not configured")

type Client struct {
	contract *chain.Contract
	tokens   *registry.Registry
}

// NewClient returns a position reader. An empty resolver yields a client whose
// GetPosition always fails with ErrResolverNotConfigured.
func NewClient(resolver string, tokens *registry.Registry, transactor *chain.Transactor) (*Client, error) {
	c := &Client{tokens: tokens}

	if resolver == "" {
		return c, nil
	}

	if !common.IsHexAddress(resolver) {
		return nil, errors.Errorf("invalid compound resolver address %q", resolver)
	}

	c.contract = chain.NewContract(ResolverABI, common.HexToAddress(resolver), transactor)

	return c, nil
}

// GetPosition reads owner's position in every registered market. Chain errors
// are returned unchanged.
func (c *Client) GetPosition(ctx context.Context, owner common.Address, key PositionKey) (*Position, error) {
	if c.contract == nil {
		return nil, ErrResolverNotConfigured
	}

	if _, err := ParsePositionKey(string(key)); err != nil {
		return nil, err
	}

	markets := c.tokens.Markets()
	cAddresses := make([]common.Address, 0, len(markets))
	for _, m := range markets {
		cAddresses = append(cAddresses, m.CToken)
	}

	out, err := c.contract.Call(ctx, owner, MethodGetPosition, owner, cAddresses)
	if err != nil {
		return nil, err
	}

	if len(out) != 1 {
		return nil, errors.Errorf("unexpected %s output length %d", MethodGetPosition, len(out))
	}

	data := *abi.ConvertType(out[0], new([]compData)).(*[]compData) //nolint:forcetypeassert // ConvertType returns the proto type

	pos, err := buildPosition(markets, data, key)
	if err != nil {
		return nil, err
	}

	util.LogFromContext(ctx).Debug().
		Str("owner", owner.Hex()).
		Int("markets", len(markets)).
		Str("max_borrow_limit_in_eth", pos.MaxBorrowLimitInEth.String()).
		Msg("Read compound position")

	return pos, nil
}
