// Package account holds the key that signs on behalf of the SDK user.
package account

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Service is the managed user account. It satisfies chain.Signer.
type Service interface {
	// Address returns the account address.
	Address(ctx context.Context) (common.Address, error)

	// SignTx signs tx for chainID.
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

type keyAccount struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewFromPrivateKey builds an account from a hex encoded private key.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewFromPrivateKey(hexKey string) (Service, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}

	return newKeyAccount(key), nil
}

// NewFromMnemonic derives the account at path from a BIP39 mnemonic.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewFromMnemonic(mnemonic string, passphrase string, path string) (Service, error) {
	seed := MnemonicToSeed(mnemonic, passphrase)
	defer clear(seed)

	privateKey, err := DerivePrivateKey(seed, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive private key")
	}
	defer clear(privateKey)

	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	return newKeyAccount(key), nil
}

func newKeyAccount(key *ecdsa.PrivateKey) *keyAccount {
	return &keyAccount{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (a *keyAccount) Address(_ context.Context) (common.Address, error) {
	return a.address, nil
}

func (a *keyAccount) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if chainID == nil {
		return nil, errors.New("chain ID is required for signing")
	}

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), a.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signedTx, nil
}
