// Package dsa holds the context shared by the SDK facades: configuration,
// token address book, chain access, the user account and the lending
// position reader.
package dsa

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/dsa-connect/internal/account"
	"github/chapool/dsa-connect/internal/chain"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa/compound"
	"github/chapool/dsa-connect/internal/dsa/registry"
	"github/chapool/dsa-connect/internal/metrics"
)

// PositionReader queries a lending position. key selects how assets are
// keyed in the result, see compound.PositionKey.
type PositionReader interface {
	GetPosition(ctx context.Context, owner common.Address, key compound.PositionKey) (*compound.Position, error)
}

// DSA is read-only after New and safe for concurrent use.
type DSA struct {
	Config    config.SDK
	Tokens    *registry.Registry
	Backend   chain.Backend
	Account   account.Service
	Positions PositionReader
	Metrics   *metrics.Metrics

	transactor *chain.Transactor
}

// New assembles a DSA context. backend, acc, positions and m may be nil; the
// operations that need them fail accordingly.
func New(
	cfg config.SDK,
	tokens *registry.Registry,
	backend chain.Backend,
	acc account.Service,
	positions PositionReader,
	m *metrics.Metrics,
) *DSA {
	var chainID *big.Int
	if cfg.Chain.ChainID > 0 {
		chainID = big.NewInt(cfg.Chain.ChainID)
	}

	var signer chain.Signer
	if acc != nil {
		signer = acc
	}

	d := &DSA{
		Config:    cfg,
		Tokens:    tokens,
		Backend:   backend,
		Account:   acc,
		Positions: positions,
		Metrics:   m,
	}

	if backend != nil {
		d.transactor = chain.NewTransactor(backend, signer, chainID)
	}

	return d
}

// CheckChain fails fast when no chain client is configured.
func (d *DSA) CheckChain() error {
	if d == nil || d.Backend == nil || d.transactor == nil {
		return ErrChainNotConfigured
	}

	return nil
}

// Transactor returns the transactor bound to the user account.
func (d *DSA) Transactor() *chain.Transactor {
	return d.transactor
}

// NewContract returns a fresh handle for the contract at address.
func (d *DSA) NewContract(parsed abi.ABI, address common.Address) *chain.Contract {
	return chain.NewContract(parsed, address, d.transactor)
}

// InstanceAddress is the managed DSA account. The zero address means none is
// configured.
func (d *DSA) InstanceAddress() common.Address {
	if !common.IsHexAddress(d.Config.Instance) {
		return common.Address{}
	}

	return common.HexToAddress(d.Config.Instance)
}

// UserAddress resolves the address of the unlocked account.
func (d *DSA) UserAddress(ctx context.Context) (common.Address, error) {
	if d.Account == nil {
		return common.Address{}, account.ErrNoAccount
	}

	return d.Account.Address(ctx)
}

// ParseAddress validates a hex address request field.
func ParseAddress(field string, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if !common.IsHexAddress(value) {
		return common.Address{}, errors.Wrapf(ErrInvalidAddress, "'%s' %q", field, value)
	}

	return common.HexToAddress(value), nil
}
