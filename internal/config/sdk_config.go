package config

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	envPrefix = "DSA"

	// GenesisAddress is the zero address. An instance address equal to it
	// means no DSA account has been configured.
	GenesisAddress = "0x0000000000000000000000000000000000000000"

	// DefaultInstaPoolAddress is the InstaPool account whose position backs
	// the liquidity snapshot.
	DefaultInstaPoolAddress = "0x1879BEE186BFfBA9A8b1cAD8181bBFb218A5Aa61"

	// DefaultCompoundResolver is the mainnet InstaDapp compound resolver
	// read by the position reader.
	DefaultCompoundResolver = "0xcCAa4b1b3931749b8b6EF19C6b0B2c496703321b"

	// DefaultDerivationPath is the first BIP44 account on the Ethereum coin type.
	DefaultDerivationPath = "m/44'/60'/0'/0/0"
)

type Chain struct {
	// RPCURLs are tried in order, the first healthy one is used.
	RPCURLs []string
	// ChainID overrides eth_chainId when non-zero.
	ChainID int64
}

type Account struct {
	// PrivateKey is a hex secp256k1 key. Takes precedence over KeystorePath.
	PrivateKey string `json:"-"`
	// KeystorePath points to an encrypted mnemonic keystore file.
	KeystorePath string
	// KeystorePassword unlocks KeystorePath without prompting.
	KeystorePassword string `json:"-"`
	// MnemonicPassphrase is the optional BIP39 passphrase.
	MnemonicPassphrase string `json:"-"`
	DerivationPath     string
}

type Tokens struct {
	// File is an optional TOML token book merged over the built-in tokens.
	File string
}

type Compound struct {
	ResolverAddress string
}

type InstaPool struct {
	Address string
	// Haircut is the fraction of the borrow limit considered usable.
	Haircut     decimal.Decimal
	NativeKey   string
	QuoteAssets []string
	PositionKey string
}

type Logger struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
	Caller             bool
	// File additionally writes JSON logs to a size rotated file.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type Metrics struct {
	Enabled   bool
	Namespace string
}

// SDK is the complete configuration of a DSA context.
type SDK struct {
	Chain     Chain
	Account   Account
	Instance  string
	Tokens    Tokens
	Compound  Compound
	InstaPool InstaPool
	Logger    Logger
	Metrics   Metrics

	// invalid records environment values that could not be parsed.
	invalid []invalidValue
}

type invalidValue struct {
	key string
	raw string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc_urls", "http://127.0.0.1:8545")
	v.SetDefault("chain_id", 0)
	v.SetDefault("derivation_path", DefaultDerivationPath)
	v.SetDefault("instance_address", GenesisAddress)
	v.SetDefault("instapool_address", DefaultInstaPoolAddress)
	v.SetDefault("compound_resolver", DefaultCompoundResolver)
	v.SetDefault("instapool_haircut", "0.995")
	v.SetDefault("instapool_native_key", "eth")
	v.SetDefault("instapool_quote_assets", "dai,usdc")
	v.SetDefault("instapool_position_key", "token")
	v.SetDefault("logger_level", "info")
	v.SetDefault("logger_pretty_print_console", false)
	v.SetDefault("logger_caller", false)
	v.SetDefault("logger_max_size_mb", 50)
	v.SetDefault("logger_max_backups", 3)
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_namespace", "dsa")

	return v
}

// DefaultSDKConfigFromEnv returns the SDK config built from DSA_* environment
// variables. A .env file in the working directory is loaded first if present.
func DefaultSDKConfigFromEnv() SDK {
	_ = gotenv.Load()

	v := newViper()

	var invalid []invalidValue

	level, err := zerolog.ParseLevel(v.GetString("logger_level"))
	if err != nil {
		level = zerolog.InfoLevel
		invalid = append(invalid, invalidValue{key: "logger_level", raw: v.GetString("logger_level")})
	}

	haircut, err := decimal.NewFromString(v.GetString("instapool_haircut"))
	if err != nil {
		haircut = decimal.Zero
		invalid = append(invalid, invalidValue{key: "instapool_haircut", raw: v.GetString("instapool_haircut")})
	}

	return SDK{
		invalid: invalid,
		Chain: Chain{
			RPCURLs: SplitList(v.GetString("rpc_urls")),
			ChainID: v.GetInt64("chain_id"),
		},
		Account: Account{
			PrivateKey:         v.GetString("private_key"),
			KeystorePath:       v.GetString("keystore_path"),
			KeystorePassword:   v.GetString("keystore_password"),
			MnemonicPassphrase: v.GetString("mnemonic_passphrase"),
			DerivationPath:     v.GetString("derivation_path"),
		},
		Instance: v.GetString("instance_address"),
		Tokens: Tokens{
			File: v.GetString("tokens_file"),
		},
		Compound: Compound{
			ResolverAddress: v.GetString("compound_resolver"),
		},
		InstaPool: InstaPool{
			Address:     v.GetString("instapool_address"),
			Haircut:     haircut,
			NativeKey:   strings.ToLower(v.GetString("instapool_native_key")),
			QuoteAssets: SplitList(strings.ToLower(v.GetString("instapool_quote_assets"))),
			PositionKey: v.GetString("instapool_position_key"),
		},
		Logger: Logger{
			Level:              level,
			PrettyPrintConsole: v.GetBool("logger_pretty_print_console"),
			Caller:             v.GetBool("logger_caller"),
			File:               v.GetString("logger_file"),
			MaxSizeMB:          v.GetInt("logger_max_size_mb"),
			MaxBackups:         v.GetInt("logger_max_backups"),
		},
		Metrics: Metrics{
			Enabled:   v.GetBool("metrics_enabled"),
			Namespace: v.GetString("metrics_namespace"),
		},
	}
}

// Validate checks the parts of the config that can be checked offline.
func (c SDK) Validate() error {
	if len(c.invalid) > 0 {
		iv := c.invalid[0]
		return errors.Errorf("invalid %s_%s: %q", envPrefix, strings.ToUpper(iv.key), iv.raw)
	}

	if len(c.Chain.RPCURLs) == 0 {
		return errors.New("at least one RPC URL is required")
	}

	for name, addr := range map[string]string{
		"instance address":          c.Instance,
		"instapool address":         c.InstaPool.Address,
		"compound resolver address": c.Compound.ResolverAddress,
	} {
		if addr != "" && !common.IsHexAddress(addr) {
			return errors.Errorf("invalid %s: %q", name, addr)
		}
	}

	if c.InstaPool.Haircut.Sign() <= 0 || c.InstaPool.Haircut.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Errorf("instapool haircut must be in (0, 1], got %s", c.InstaPool.Haircut)
	}

	if len(c.InstaPool.QuoteAssets) == 0 {
		return errors.New("at least one instapool quote asset is required")
	}

	return nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}

	return result
}
