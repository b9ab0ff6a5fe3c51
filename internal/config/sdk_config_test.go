package config_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/internal/config"
)

func TestPrintSDKEnv(t *testing.T) {
	config := config.DefaultSDKConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaultSDKConfigFromEnv(t *testing.T) {
	t.Setenv("DSA_RPC_URLS", "http://a:8545, ,http://b:8545")
	t.Setenv("DSA_INSTAPOOL_QUOTE_ASSETS", "DAI,usdc")
	t.Setenv("DSA_LOGGER_LEVEL", "debug")

	cfg := config.DefaultSDKConfigFromEnv()

	assert.Equal(t, []string{"http://a:8545", "http://b:8545"}, cfg.Chain.RPCURLs)
	assert.Equal(t, config.GenesisAddress, cfg.Instance)
	assert.Equal(t, config.DefaultInstaPoolAddress, cfg.InstaPool.Address)
	assert.Equal(t, config.DefaultCompoundResolver, cfg.Compound.ResolverAddress)
	assert.True(t, decimal.RequireFromString("0.995").Equal(cfg.InstaPool.Haircut))
	assert.Equal(t, []string{"dai", "usdc"}, cfg.InstaPool.QuoteAssets)
	assert.Equal(t, "eth", cfg.InstaPool.NativeKey)
	assert.Equal(t, "token", cfg.InstaPool.PositionKey)
	assert.Equal(t, "debug", cfg.Logger.Level.String())
	assert.Equal(t, config.DefaultDerivationPath, cfg.Account.DerivationPath)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := config.DefaultSDKConfigFromEnv()

	cfg := base
	cfg.Chain.RPCURLs = nil
	require.Error(t, cfg.Validate())

	cfg = base
	cfg.Instance = "not-an-address"
	require.Error(t, cfg.Validate())

	cfg = base
	cfg.InstaPool.Haircut = decimal.RequireFromString("1.01")
	require.Error(t, cfg.Validate())

	cfg = base
	cfg.InstaPool.Haircut = decimal.Zero
	require.Error(t, cfg.Validate())

	cfg = base
	cfg.InstaPool.QuoteAssets = nil
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnparsableEnv(t *testing.T) {
	t.Setenv("DSA_INSTAPOOL_HAIRCUT", "most")

	err := config.DefaultSDKConfigFromEnv().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSA_INSTAPOOL_HAIRCUT")
	assert.Contains(t, err.Error(), `"most"`)

	t.Setenv("DSA_INSTAPOOL_HAIRCUT", "0.9")
	t.Setenv("DSA_LOGGER_LEVEL", "chatty")

	err = config.DefaultSDKConfigFromEnv().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSA_LOGGER_LEVEL")

	t.Setenv("DSA_LOGGER_LEVEL", "warn")
	require.NoError(t, config.DefaultSDKConfigFromEnv().Validate())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, config.SplitList(""))
	assert.Equal(t, []string{"a"}, config.SplitList(" a ,"))
}
