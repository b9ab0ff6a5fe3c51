//nolint:ireturn
package erc20

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github/chapool/dsa-connect/internal/chain"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/registry"
	"github/chapool/dsa-connect/internal/dsa/units"
	"github/chapool/dsa-connect/internal/util"
)

// Service transfers and approves native currency and ERC20 tokens.
// Validation errors are returned before any chain call. Errors from the
// node are returned unchanged.
type Service interface {
	// Transfer returns the hash once the node accepted the transaction.
	Transfer(ctx context.Context, req *TransferRequest) (common.Hash, error)

	// Approve returns the transaction hash in hex, or NativeApproveMessage.
	Approve(ctx context.Context, req *ApprovalRequest) (string, error)

	// GetAllowance returns the raw allowance in base units, or
	// NativeAllowanceMessage.
	GetAllowance(ctx context.Context, query *AllowanceQuery) (string, error)
}

type service struct {
	dsa *dsa.DSA
}

// NewService returns the token facade bound to d.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(d *dsa.DSA) Service {
	return &service{dsa: d}
}

func (s *service) Transfer(ctx context.Context, req *TransferRequest) (common.Hash, error) {
	log := s.logger(ctx, OperationTransfer)

	// 1. validate
	if err := s.dsa.CheckChain(); err != nil {
		return common.Hash{}, err
	}

	if req == nil || strings.TrimSpace(req.Token) == "" {
		return common.Hash{}, s.rejected(log, OperationTransfer, dsa.ErrMissingToken)
	}

	to, err := s.transferDestination(req.To)
	if err != nil {
		return common.Hash{}, s.rejected(log, OperationTransfer, err)
	}

	if strings.TrimSpace(req.Amount) == "" {
		return common.Hash{}, s.rejected(log, OperationTransfer, dsa.ErrMissingAmount)
	}

	opts, err := s.txOpts(ctx, req.From, req.GasPrice, req.Gas)
	if err != nil {
		return common.Hash{}, s.rejected(log, OperationTransfer, err)
	}

	// 2. dispatch
	if s.dsa.Tokens.IsNative(req.Token) {
		value, err := units.ParseRaw(req.Amount)
		if err != nil {
			return common.Hash{}, s.rejected(log, OperationTransfer, errors.Wrap(err, "'amount'"))
		}

		hash, err := s.dsa.Transactor().SendValue(ctx, opts, to, value)
		if err != nil {
			return common.Hash{}, s.failed(log, OperationTransfer, err)
		}

		s.submitted(log, OperationTransfer, registry.NativeSymbol, hash, opts.From, to)

		return hash, nil
	}

	token, err := s.dsa.Tokens.GetAddress(req.Token)
	if err != nil {
		return common.Hash{}, s.rejected(log, OperationTransfer, err)
	}

	value, err := units.ParseAmount(req.Amount)
	if err != nil {
		return common.Hash{}, s.rejected(log, OperationTransfer, err)
	}

	contract := s.dsa.NewContract(chain.ERC20ABI, token)

	amount, err := s.scale(ctx, contract, req.Token, opts.From, value)
	if err != nil {
		return common.Hash{}, s.scaleFailed(log, OperationTransfer, err)
	}

	hash, err := contract.Transact(ctx, opts, chain.MethodTransfer, to, amount)
	if err != nil {
		return common.Hash{}, s.failed(log, OperationTransfer, err)
	}

	s.submitted(log, OperationTransfer, s.assetLabel(req.Token), hash, opts.From, to)

	return hash, nil
}

func (s *service) Approve(ctx context.Context, req *ApprovalRequest) (string, error) {
	log := s.logger(ctx, OperationApprove)

	if err := s.dsa.CheckChain(); err != nil {
		return "", err
	}

	if req == nil || strings.TrimSpace(req.Token) == "" {
		return "", s.rejected(log, OperationApprove, dsa.ErrMissingToken)
	}

	if strings.TrimSpace(req.To) == "" {
		return "", s.rejected(log, OperationApprove, dsa.ErrMissingDestination)
	}

	spender, err := dsa.ParseAddress("to", req.To)
	if err != nil {
		return "", s.rejected(log, OperationApprove, err)
	}

	if strings.TrimSpace(req.Amount) == "" {
		return "", s.rejected(log, OperationApprove, dsa.ErrMissingAmount)
	}

	if s.dsa.Tokens.IsNative(req.Token) {
		return NativeApproveMessage, nil
	}

	opts, err := s.txOpts(ctx, req.From, req.GasPrice, req.Gas)
	if err != nil {
		return "", s.rejected(log, OperationApprove, err)
	}

	token, err := s.dsa.Tokens.GetAddress(req.Token)
	if err != nil {
		return "", s.rejected(log, OperationApprove, err)
	}

	contract := s.dsa.NewContract(chain.ERC20ABI, token)

	var amount *big.Int
	if req.ConvertAmount {
		value, err := units.ParseAmount(req.Amount)
		if err != nil {
			return "", s.rejected(log, OperationApprove, err)
		}
		amount, err = s.scale(ctx, contract, req.Token, opts.From, value)
		if err != nil {
			return "", s.scaleFailed(log, OperationApprove, err)
		}
	} else {
		amount, err = units.ParseRaw(req.Amount)
		if err != nil {
			return "", s.rejected(log, OperationApprove, errors.Wrap(err, "'amount'"))
		}
	}

	hash, err := contract.Transact(ctx, opts, chain.MethodApprove, spender, amount)
	if err != nil {
		return "", s.failed(log, OperationApprove, err)
	}

	s.submitted(log, OperationApprove, s.assetLabel(req.Token), hash, opts.From, spender)

	return hash.Hex(), nil
}

func (s *service) GetAllowance(ctx context.Context, query *AllowanceQuery) (string, error) {
	log := s.logger(ctx, OperationAllowance)

	if err := s.dsa.CheckChain(); err != nil {
		return "", err
	}

	if query == nil || strings.TrimSpace(query.Token) == "" {
		return "", s.rejected(log, OperationAllowance, dsa.ErrMissingToken)
	}

	if strings.TrimSpace(query.To) == "" {
		return "", s.rejected(log, OperationAllowance, dsa.ErrMissingDestination)
	}

	spender, err := dsa.ParseAddress("to", query.To)
	if err != nil {
		return "", s.rejected(log, OperationAllowance, err)
	}

	if s.dsa.Tokens.IsNative(query.Token) {
		return NativeAllowanceMessage, nil
	}

	owner, err := s.source(ctx, query.From)
	if err != nil {
		return "", s.rejected(log, OperationAllowance, err)
	}

	token, err := s.dsa.Tokens.GetAddress(query.Token)
	if err != nil {
		return "", s.rejected(log, OperationAllowance, err)
	}

	out, err := s.dsa.NewContract(chain.ERC20ABI, token).Call(ctx, owner, chain.MethodAllowance, owner, spender)
	if err != nil {
		return "", s.failed(log, OperationAllowance, err)
	}

	allowance, ok := out[0].(*big.Int)
	if !ok {
		return "", errors.Errorf("unexpected allowance type %T", out[0])
	}

	return allowance.String(), nil
}

// transferDestination applies the instance default to an empty destination.
func (s *service) transferDestination(raw string) (common.Address, error) {
	if strings.TrimSpace(raw) != "" {
		return dsa.ParseAddress("to", raw)
	}

	instance := s.dsa.InstanceAddress()
	if instance == (common.Address{}) {
		return common.Address{}, dsa.ErrNoManagedAccount
	}

	return instance, nil
}

// source applies the unlocked account default to an empty sender.
func (s *service) source(ctx context.Context, raw string) (common.Address, error) {
	if strings.TrimSpace(raw) != "" {
		return dsa.ParseAddress("from", raw)
	}

	return s.dsa.UserAddress(ctx)
}

func (s *service) txOpts(ctx context.Context, from string, gasPrice string, gas uint64) (chain.TxOpts, error) {
	sender, err := s.source(ctx, from)
	if err != nil {
		return chain.TxOpts{}, err
	}

	opts := chain.TxOpts{From: sender, GasLimit: gas}

	if strings.TrimSpace(gasPrice) != "" {
		opts.GasPrice, err = units.ParseRaw(gasPrice)
		if err != nil {
			return chain.TxOpts{}, errors.Wrap(err, "'gasPrice'")
		}
	}

	return opts, nil
}

// decimals prefers the address book and falls back to the token contract.
func (s *service) decimals(ctx context.Context, contract *chain.Contract, id string, from common.Address) (int32, error) {
	if t, ok := s.dsa.Tokens.Lookup(id); ok {
		return t.Decimals, nil
	}

	out, err := contract.Call(ctx, from, chain.MethodDecimals)
	if err != nil {
		return 0, err
	}

	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, errors.Errorf("unexpected decimals type %T", out[0])
	}

	return int32(decimals), nil
}

// scale converts value to base units of the token. Only an amount too large
// for the token precision fails after the decimals lookup.
func (s *service) scale(ctx context.Context, contract *chain.Contract, id string, from common.Address, value decimal.Decimal) (*big.Int, error) {
	decimals, err := s.decimals(ctx, contract, id, from)
	if err != nil {
		return nil, err
	}

	return units.Scale(value, decimals)
}

func (s *service) scaleFailed(log zerolog.Logger, operation string, err error) error {
	if dsa.IsValidationError(err) {
		return s.rejected(log, operation, err)
	}

	return s.failed(log, operation, err)
}

func (s *service) assetLabel(id string) string {
	if t, ok := s.dsa.Tokens.Lookup(id); ok {
		return t.Symbol
	}

	return strings.ToLower(strings.TrimSpace(id))
}

func (s *service) logger(ctx context.Context, operation string) zerolog.Logger {
	return util.LogFromContext(ctx).With().
		Str("component", "erc20").
		Str("operation", operation).
		Logger()
}

func (s *service) rejected(log zerolog.Logger, operation string, err error) error {
	if dsa.IsValidationError(err) {
		s.dsa.Metrics.ValidationError(operation)
	}
	log.Debug().Err(err).Msg("Rejected request")

	return err
}

func (s *service) failed(log zerolog.Logger, operation string, err error) error {
	s.dsa.Metrics.ChainError(operation)
	log.Error().Err(err).Msg("Chain call failed")

	return err
}

func (s *service) submitted(log zerolog.Logger, operation string, asset string, hash common.Hash, from common.Address, to common.Address) {
	s.dsa.Metrics.Submitted(operation, asset)
	log.Info().
		Str("hash", hash.Hex()).
		Str("asset", asset).
		Str("from", from.Hex()).
		Str("to", to.Hex()).
		Msg("Transaction submitted")
}
