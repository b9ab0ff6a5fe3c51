package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Contract is a callable handle for one deployed contract.
type Contract struct {
	abi        abi.ABI
	address    common.Address
	transactor *Transactor
}

func NewContract(parsed abi.ABI, address common.Address, transactor *Transactor) *Contract {
	return &Contract{
		abi:        parsed,
		address:    address,
		transactor: transactor,
	}
}

func (c *Contract) Address() common.Address {
	return c.address
}

// Transact packs and submits a state changing call, returning the tx hash.
func (c *Contract) Transact(ctx context.Context, opts TxOpts, method string, args ...interface{}) (common.Hash, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "failed to pack %s", method)
	}

	return c.transactor.submit(ctx, opts, c.address, new(big.Int), data)
}

// Call executes a read-only method at the latest block and returns the
// unpacked outputs.
func (c *Contract) Call(ctx context.Context, from common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s", method)
	}

	to := c.address
	out, err := c.transactor.backend.CallContract(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, err
	}

	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s", method)
	}

	return values, nil
}
