//go:build wireinject

package dsa

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/dsa-connect/internal/account"
	"github/chapool/dsa-connect/internal/chain"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa/compound"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

var dsaSet = wire.NewSet(
	New,
	NewRegistry,
	NewAccount,
	NewTransactor,
	NewMetrics,
	compoundSet,
)

var compoundSet = wire.NewSet(
	NewCompound,
	wire.Bind(new(PositionReader), new(*compound.Client)),
)

// InitDSA returns a DSA context talking to the configured RPC nodes.
func InitDSA(
	_ context.Context,
	_ config.SDK,
	_ prometheus.Registerer,
	_ account.PasswordFunc,
) (*DSA, func(), error) {
	wire.Build(dsaSet, NewRPCClient, wire.Bind(new(chain.Backend), new(*chain.RPCClient)))
	return new(DSA), nil, nil
}

// InitDSAWithBackend returns a DSA context using the given backend.
func InitDSAWithBackend(
	_ context.Context,
	_ config.SDK,
	_ chain.Backend,
	_ prometheus.Registerer,
	_ account.PasswordFunc,
) (*DSA, error) {
	wire.Build(dsaSet)
	return new(DSA), nil
}
