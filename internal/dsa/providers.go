package dsa

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github/chapool/dsa-connect/internal/account"
	"github/chapool/dsa-connect/internal/chain"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa/compound"
	"github/chapool/dsa-connect/internal/dsa/registry"
	"github/chapool/dsa-connect/internal/metrics"
)

// PROVIDERS - https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewRegistry returns the built-in token book, merged with the configured
// token file if any.
func NewRegistry(cfg config.SDK) (*registry.Registry, error) {
	tokens := registry.New()

	if cfg.Tokens.File == "" {
		return tokens, nil
	}

	if err := tokens.LoadFile(cfg.Tokens.File); err != nil {
		return nil, err
	}

	return tokens, nil
}

func NewRPCClient(cfg config.SDK) (*chain.RPCClient, func(), error) {
	client, err := chain.NewRPCClient(cfg.Chain.RPCURLs)
	if err != nil {
		return nil, nil, err
	}

	return client, client.Close, nil
}

// NewAccount unlocks the configured account. No account configured is not an
// error: queries still work, submissions fail with chain.ErrNoSigner.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewAccount(ctx context.Context, cfg config.SDK, prompt account.PasswordFunc) (account.Service, error) {
	acc, err := account.Unlock(ctx, cfg.Account, prompt)
	if errors.Is(err, account.ErrNoAccount) {
		log.Debug().Msg("No account configured, running read-only")
		return nil, nil
	}

	return acc, err
}

// NewTransactor builds the transactor the compound client reads through. It
// is read-only, DSA.New builds its own signing transactor.
func NewTransactor(backend chain.Backend) *chain.Transactor {
	return chain.NewTransactor(backend, nil, nil)
}

func NewCompound(cfg config.SDK, tokens *registry.Registry, transactor *chain.Transactor) (*compound.Client, error) {
	return compound.NewClient(cfg.Compound.ResolverAddress, tokens, transactor)
}

// NewMetrics registers the collectors with reg, or returns nil when metrics
// are disabled. A nil reg falls back to the default registerer.
func NewMetrics(cfg config.SDK, reg prometheus.Registerer) (*metrics.Metrics, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil //nolint:nilnil
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return metrics.New(cfg.Metrics.Namespace, reg)
}
