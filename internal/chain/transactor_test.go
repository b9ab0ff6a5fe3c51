package chain_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/internal/chain"
	"github/chapool/dsa-connect/internal/test"
)

var receiver = common.HexToAddress("0x1111111111111111111111111111111111111111")

func newTransactor(t *testing.T, backend *test.FakeBackend, chainID *big.Int) (*chain.Transactor, common.Address) {
	t.Helper()

	acc := test.NewTestAccount(t)
	from, err := acc.Address(context.Background())
	require.NoError(t, err)

	return chain.NewTransactor(backend, acc, chainID), from
}

func TestSendValueDynamicFee(t *testing.T) {
	backend := test.NewFakeBackend()
	backend.Nonce = 7
	transactor, from := newTransactor(t, backend, nil)

	hash, err := transactor.SendValue(context.Background(), chain.TxOpts{From: from}, receiver, big.NewInt(42))
	require.NoError(t, err)

	sent := backend.Sent()
	require.Len(t, sent, 1)
	tx := sent[0]

	assert.Equal(t, tx.Hash(), hash)
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(test.FakeGasEstimate), tx.Gas())
	assert.Equal(t, "1000000000", tx.GasTipCap().String())
	assert.Equal(t, "3000000000", tx.GasFeeCap().String())
	assert.Equal(t, int64(test.FakeChainID), tx.ChainId().Int64())

	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	require.NoError(t, err)
	assert.Equal(t, from, sender)
}

func TestSendValueLegacy(t *testing.T) {
	t.Run("pre-London head", func(t *testing.T) {
		backend := test.NewFakeBackend()
		backend.BaseFee = nil
		transactor, from := newTransactor(t, backend, nil)

		_, err := transactor.SendValue(context.Background(), chain.TxOpts{From: from}, receiver, big.NewInt(1))
		require.NoError(t, err)

		tx := backend.Sent()[0]
		assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
		assert.Equal(t, backend.GasPrice, tx.GasPrice())
	})

	t.Run("gas price and limit given", func(t *testing.T) {
		backend := test.NewFakeBackend()
		backend.EstimateErr = errors.New("must not estimate")
		transactor, from := newTransactor(t, backend, big.NewInt(5))

		_, err := transactor.SendValue(context.Background(), chain.TxOpts{
			From:     from,
			GasPrice: big.NewInt(99),
			GasLimit: 21000,
		}, receiver, big.NewInt(1))
		require.NoError(t, err)

		tx := backend.Sent()[0]
		assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
		assert.Equal(t, "99", tx.GasPrice().String())
		assert.Equal(t, uint64(21000), tx.Gas())
		assert.Equal(t, int64(5), tx.ChainId().Int64())
	})
}

func TestSubmitErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no signer", func(t *testing.T) {
		backend := test.NewFakeBackend()
		_, err := chain.NewTransactor(backend, nil, nil).SendValue(ctx, chain.TxOpts{}, receiver, big.NewInt(1))
		require.ErrorIs(t, err, chain.ErrNoSigner)
		assert.Zero(t, backend.Requests())
	})

	t.Run("signer mismatch", func(t *testing.T) {
		backend := test.NewFakeBackend()
		transactor, _ := newTransactor(t, backend, nil)

		_, err := transactor.SendValue(ctx, chain.TxOpts{From: receiver}, receiver, big.NewInt(1))
		require.ErrorIs(t, err, chain.ErrSignerMismatch)
		assert.Zero(t, backend.Requests())
	})

	t.Run("estimate error is returned unchanged", func(t *testing.T) {
		backend := test.NewFakeBackend()
		backend.EstimateErr = errors.New("insufficient funds for gas * price + value")
		transactor, from := newTransactor(t, backend, nil)

		_, err := transactor.SendValue(ctx, chain.TxOpts{From: from}, receiver, big.NewInt(1))
		assert.Equal(t, backend.EstimateErr, err)
		assert.Empty(t, backend.Sent())
	})
}

func TestContract(t *testing.T) {
	ctx := context.Background()
	token := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")

	backend := test.NewFakeBackend()
	backend.CallHandler = func(msg ethereum.CallMsg) ([]byte, error) {
		return chain.ERC20ABI.Methods[chain.MethodBalanceOf].Outputs.Pack(big.NewInt(500))
	}
	transactor, from := newTransactor(t, backend, nil)
	contract := chain.NewContract(chain.ERC20ABI, token, transactor)
	assert.Equal(t, token, contract.Address())

	out, err := contract.Call(ctx, from, chain.MethodBalanceOf, from)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "500", out[0].(*big.Int).String())

	msg := backend.CallMsgs()[0]
	assert.Equal(t, from, msg.From)
	assert.Equal(t, token, *msg.To)

	hash, err := contract.Transact(ctx, chain.TxOpts{From: from}, chain.MethodTransfer, receiver, big.NewInt(3))
	require.NoError(t, err)
	tx := backend.Sent()[0]
	assert.Equal(t, tx.Hash(), hash)
	assert.Equal(t, token, *tx.To())
	assert.Zero(t, tx.Value().Sign())

	_, err = contract.Transact(ctx, chain.TxOpts{From: from}, chain.MethodTransfer, "not an address")
	require.Error(t, err)
	assert.Len(t, backend.Sent(), 1)

	backend.CallHandler = func(_ ethereum.CallMsg) ([]byte, error) { return []byte{1, 2}, nil }
	_, err = contract.Call(ctx, from, chain.MethodBalanceOf, from)
	require.Error(t, err, "short output fails to unpack")
}
