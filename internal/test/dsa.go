package test

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/dsa-connect/internal/account"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/dsa"
	"github/chapool/dsa-connect/internal/dsa/compound"
	"github/chapool/dsa-connect/internal/dsa/registry"
	"github/chapool/dsa-connect/internal/metrics"
)

const (
	TestInstanceAddress = "0x00000000000000000000000000000000000000d5"
	TestResolverAddress = "0x0000000000000000000000000000000000000c0c"
)

// TestSDKConfig returns the default config with a managed instance and a
// compound resolver set.
func TestSDKConfig(t *testing.T) config.SDK {
	t.Helper()

	cfg := config.DefaultSDKConfigFromEnv()
	cfg.Instance = TestInstanceAddress
	cfg.Compound.ResolverAddress = TestResolverAddress
	cfg.Account = config.Account{}
	cfg.Chain.ChainID = 0
	cfg.Tokens.File = ""

	return cfg
}

// NewTestAccount returns an account for a freshly generated key.
//
//nolint:ireturn
func NewTestAccount(t *testing.T) account.Service {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	acc, err := account.NewFromPrivateKey(hex.EncodeToString(crypto.FromECDSA(key)))
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return acc
}

// NewTestDSA wires a DSA context around backend with a generated account and
// metrics on a private registry. configure may adjust the config first.
func NewTestDSA(t *testing.T, backend *FakeBackend, configure ...func(cfg *config.SDK)) *dsa.DSA {
	t.Helper()

	cfg := TestSDKConfig(t)
	for _, fn := range configure {
		fn(&cfg)
	}

	m, err := metrics.New(cfg.Metrics.Namespace, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	tokens := registry.New()
	acc := NewTestAccount(t)

	d := dsa.New(cfg, tokens, backend, acc, nil, m)

	positions, err := compound.NewClient(cfg.Compound.ResolverAddress, tokens, d.Transactor())
	if err != nil {
		t.Fatalf("failed to create compound client: %v", err)
	}
	d.Positions = positions

	return d
}

// WithTestDSA runs closure against a DSA context backed by a new FakeBackend.
func WithTestDSA(t *testing.T, closure func(d *dsa.DSA, backend *FakeBackend)) {
	t.Helper()

	backend := NewFakeBackend()
	closure(NewTestDSA(t, backend), backend)
}
