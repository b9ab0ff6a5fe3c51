package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

const eip1559FeeMultiplier = 2

var (
	// ErrNoSigner is returned when a transaction is submitted through a
	// read-only transactor.
	ErrNoSigner = errors.New("no signer configured")
	// ErrSignerMismatch is returned when the sender is not the signer's address.
	ErrSignerMismatch = errors.New("from address does not match signer")
)

// Signer signs transactions for a single address.
type Signer interface {
	Address(ctx context.Context) (common.Address, error)
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// TxOpts are the per-call transaction options. A nil GasPrice selects
// EIP-1559 pricing, a zero GasLimit asks the node for an estimate.
type TxOpts struct {
	From     common.Address
	GasPrice *big.Int
	GasLimit uint64
}

// Transactor builds, signs and broadcasts transactions. It returns as soon as
// the node accepted the transaction. Errors from the node are returned
// unchanged so callers can match them.
type Transactor struct {
	backend Backend
	signer  Signer
	chainID *big.Int
}

// NewTransactor returns a transactor. signer may be nil for read-only use,
// chainID may be nil to ask the node.
func NewTransactor(backend Backend, signer Signer, chainID *big.Int) *Transactor {
	return &Transactor{
		backend: backend,
		signer:  signer,
		chainID: chainID,
	}
}

func (t *Transactor) Backend() Backend {
	return t.backend
}

func (t *Transactor) Signer() Signer {
	return t.signer
}

// SendValue submits a plain native-currency transfer.
func (t *Transactor) SendValue(ctx context.Context, opts TxOpts, to common.Address, value *big.Int) (common.Hash, error) {
	return t.submit(ctx, opts, to, value, nil)
}

func (t *Transactor) submit(ctx context.Context, opts TxOpts, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	if t.signer == nil {
		return common.Hash{}, ErrNoSigner
	}

	signerAddress, err := t.signer.Address(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to get signer address")
	}
	if signerAddress != opts.From {
		return common.Hash{}, errors.Wrapf(ErrSignerMismatch, "from %s, signer %s", opts.From.Hex(), signerAddress.Hex())
	}

	if value == nil {
		value = new(big.Int)
	}

	chainID := t.chainID
	if chainID == nil {
		chainID, err = t.backend.ChainID(ctx)
		if err != nil {
			return common.Hash{}, err
		}
	}

	nonce, err := t.backend.PendingNonceAt(ctx, opts.From)
	if err != nil {
		return common.Hash{}, err
	}

	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		gasLimit, err = t.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  opts.From,
			To:    &to,
			Value: value,
			Data:  data,
		})
		if err != nil {
			return common.Hash{}, err
		}
	}

	txData, err := t.feeData(ctx, opts.GasPrice)
	if err != nil {
		return common.Hash{}, err
	}

	var tx *types.Transaction
	switch fees := txData.(type) {
	case *types.DynamicFeeTx:
		fees.ChainID = chainID
		fees.Nonce = nonce
		fees.Gas = gasLimit
		fees.To = &to
		fees.Value = value
		fees.Data = data
		tx = types.NewTx(fees)
	case *types.LegacyTx:
		fees.Nonce = nonce
		fees.Gas = gasLimit
		fees.To = &to
		fees.Value = value
		fees.Data = data
		tx = types.NewTx(fees)
	}

	signedTx, err := t.signer.SignTx(ctx, tx, chainID)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to sign transaction")
	}

	if err := t.backend.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, err
	}

	return signedTx.Hash(), nil
}

// feeData picks the pricing: legacy when a gas price is given or the chain
// has no base fee, EIP-1559 with maxFee = baseFee*2 + tip otherwise.
func (t *Transactor) feeData(ctx context.Context, gasPrice *big.Int) (types.TxData, error) {
	if gasPrice != nil {
		return &types.LegacyTx{GasPrice: gasPrice}, nil
	}

	head, err := t.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}

	if head.BaseFee == nil {
		price, err := t.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		return &types.LegacyTx{GasPrice: price}, nil
	}

	tipCap, err := t.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}

	maxFee := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(eip1559FeeMultiplier)), tipCap)

	return &types.DynamicFeeTx{
		GasTipCap: tipCap,
		GasFeeCap: maxFee,
	}, nil
}
