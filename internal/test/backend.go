package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github/chapool/dsa-connect/internal/chain"
)

const (
	FakeChainID     = 1337
	FakeGasEstimate = 50000
)

var _ chain.Backend = (*FakeBackend)(nil)

// FakeBackend is an in-memory chain.Backend. Exported fields may be set
// before use; Sent and CallMsgs expose what the code under test did.
type FakeBackend struct {
	ChainIDValue *big.Int
	// BaseFee nil makes the head look like a pre-London block.
	BaseFee     *big.Int
	TipCap      *big.Int
	GasPrice    *big.Int
	GasEstimate uint64
	Nonce       uint64

	SendErr     error
	CallErr     error
	EstimateErr error
	// CallHandler answers CallContract when CallErr is nil.
	CallHandler func(msg ethereum.CallMsg) ([]byte, error)

	mu       sync.Mutex
	requests int
	sent     []*types.Transaction
	callMsgs []ethereum.CallMsg
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		ChainIDValue: big.NewInt(FakeChainID),
		BaseFee:      big.NewInt(params.GWei),
		TipCap:       big.NewInt(params.GWei),
		GasPrice:     big.NewInt(2 * params.GWei),
		GasEstimate:  FakeGasEstimate,
	}
}

// Requests counts every backend method invocation.
func (b *FakeBackend) Requests() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.requests
}

func (b *FakeBackend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*types.Transaction(nil), b.sent...)
}

func (b *FakeBackend) CallMsgs() []ethereum.CallMsg {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]ethereum.CallMsg(nil), b.callMsgs...)
}

func (b *FakeBackend) touch() {
	b.mu.Lock()
	b.requests++
	b.mu.Unlock()
}

func (b *FakeBackend) ChainID(_ context.Context) (*big.Int, error) {
	b.touch()
	return new(big.Int).Set(b.ChainIDValue), nil
}

func (b *FakeBackend) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	b.touch()
	return b.Nonce, nil
}

func (b *FakeBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	b.touch()
	return new(big.Int).Set(b.GasPrice), nil
}

func (b *FakeBackend) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	b.touch()
	return new(big.Int).Set(b.TipCap), nil
}

func (b *FakeBackend) HeaderByNumber(_ context.Context, _ *big.Int) (*types.Header, error) {
	b.touch()

	head := &types.Header{Number: big.NewInt(1)}
	if b.BaseFee != nil {
		head.BaseFee = new(big.Int).Set(b.BaseFee)
	}

	return head, nil
}

func (b *FakeBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	b.touch()
	if b.EstimateErr != nil {
		return 0, b.EstimateErr
	}

	return b.GasEstimate, nil
}

func (b *FakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.touch()

	b.mu.Lock()
	b.callMsgs = append(b.callMsgs, msg)
	b.mu.Unlock()

	if b.CallErr != nil {
		return nil, b.CallErr
	}
	if b.CallHandler == nil {
		return nil, nil
	}

	return b.CallHandler(msg)
}

func (b *FakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.touch()
	if b.SendErr != nil {
		return b.SendErr
	}

	b.mu.Lock()
	b.sent = append(b.sent, tx)
	b.mu.Unlock()

	return nil
}
