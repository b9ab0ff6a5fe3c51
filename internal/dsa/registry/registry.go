// Package registry is the address book mapping token symbols to contract
// addresses, decimals and their Compound market.
package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	// NativeSymbol identifies the chain's native currency.
	NativeSymbol = "eth"
	// NativeAddress is the placeholder address used for the native currency.
	NativeAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

	nativeDecimals = 18
)

// ErrUnknownToken is returned when a symbol is not in the address book.
var ErrUnknownToken = errors.New("unknown token")

// Token is one address book entry.
type Token struct {
	Symbol   string
	Name     string
	Address  common.Address
	Decimals int32
	Native   bool

	// Compound market of the token, zero if none.
	CToken           common.Address
	CTokenSymbol     string
	CollateralFactor decimal.Decimal
}

// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	bySymbol  map[string]Token
	byAddress map[common.Address]string
}

// New returns a registry holding the built-in mainnet tokens.
func New() *Registry {
	r := &Registry{
		bySymbol:  make(map[string]Token),
		byAddress: make(map[common.Address]string),
	}

	for _, t := range defaultTokens() {
		r.Register(t)
	}

	return r
}

func defaultTokens() []Token {
	factor := decimal.RequireFromString

	return []Token{
		{
			Symbol: NativeSymbol, Name: "Ether", Address: common.HexToAddress(NativeAddress), Decimals: nativeDecimals, Native: true,
			CToken: common.HexToAddress("0x4Ddc2D193948926D02f9B1fE9e1daa0718270ED5"), CTokenSymbol: "ceth", CollateralFactor: factor("0.75"),
		},
		{
			Symbol: "dai", Name: "DAI Stable", Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18,
			CToken: common.HexToAddress("0x5d3a536E4D6DbD6114cc1Ead35777bAB948E3643"), CTokenSymbol: "cdai", CollateralFactor: factor("0.75"),
		},
		{
			Symbol: "usdc", Name: "USD Coin", Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6,
			CToken: common.HexToAddress("0x39AA39c021dfbaE8faC545936693aC917d5E7563"), CTokenSymbol: "cusdc", CollateralFactor: factor("0.75"),
		},
		{
			Symbol: "usdt", Name: "Tether USD", Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Decimals: 6,
			CToken: common.HexToAddress("0xf650C3d88D12dB855b8bf7D11Be6C55A4e07dCC9"), CTokenSymbol: "cusdt", CollateralFactor: factor("0"),
		},
		{
			Symbol: "wbtc", Name: "Wrapped BTC", Address: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), Decimals: 8,
			CToken: common.HexToAddress("0xC11b1268C1A384e55C48c2391d8d480264A3A7F4"), CTokenSymbol: "cwbtc", CollateralFactor: factor("0.4"),
		},
	}
}

// Register adds or replaces a token, keyed by its lower-cased symbol.
func (r *Registry) Register(t Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.Symbol = strings.ToLower(t.Symbol)
	t.CTokenSymbol = strings.ToLower(t.CTokenSymbol)

	if old, ok := r.bySymbol[t.Symbol]; ok {
		delete(r.byAddress, old.Address)
	}

	r.bySymbol[t.Symbol] = t
	r.byAddress[t.Address] = t.Symbol
}

// Native returns the native currency entry.
func (r *Registry) Native() Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.bySymbol[NativeSymbol]
}

// IsNative reports whether id names the native currency, either by the
// literal "eth" or by the native placeholder address. Case-insensitive.
func (r *Registry) IsNative(id string) bool {
	id = strings.TrimSpace(id)
	if strings.EqualFold(id, NativeSymbol) {
		return true
	}

	return strings.EqualFold(id, r.Native().Address.Hex())
}

// Lookup finds a token by symbol or by address.
func (r *Registry) Lookup(id string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id = strings.TrimSpace(id)
	if common.IsHexAddress(id) {
		symbol, ok := r.byAddress[common.HexToAddress(id)]
		if !ok {
			return Token{}, false
		}
		return r.bySymbol[symbol], true
	}

	t, ok := r.bySymbol[strings.ToLower(id)]
	return t, ok
}

// GetAddress resolves a symbol to its contract address. Hex addresses are
// returned as is, known or not.
func (r *Registry) GetAddress(id string) (common.Address, error) {
	id = strings.TrimSpace(id)
	if common.IsHexAddress(id) {
		return common.HexToAddress(id), nil
	}

	t, ok := r.Lookup(id)
	if !ok {
		return common.Address{}, errors.Wrapf(ErrUnknownToken, "%q", id)
	}

	return t.Address, nil
}

// Markets returns the tokens that have a Compound market, sorted by symbol.
func (r *Registry) Markets() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	markets := make([]Token, 0, len(r.bySymbol))
	for _, t := range r.bySymbol {
		if t.CToken != (common.Address{}) {
			markets = append(markets, t)
		}
	}

	sort.Slice(markets, func(i, j int) bool { return markets[i].Symbol < markets[j].Symbol })

	return markets
}

type tokenBook struct {
	Tokens map[string]tokenEntry `toml:"tokens" yaml:"tokens"`
}

type tokenEntry struct {
	Name         string `toml:"name" yaml:"name"`
	Address      string `toml:"address" yaml:"address"`
	Decimals     int32  `toml:"decimals" yaml:"decimals"`
	CToken       string `toml:"ctoken" yaml:"ctoken"`
	CTokenSymbol string `toml:"ctoken_symbol" yaml:"ctoken_symbol"`
	Factor       string `toml:"factor" yaml:"factor"`
}

// LoadFile merges a token book over the current entries. Files ending in
// .yaml or .yml are read as YAML, anything else as TOML.
//
//	[tokens.dai]
//	address  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
//	decimals = 18
//	ctoken   = "0x5d3a536E4D6DbD6114cc1Ead35777bAB948E3643"
//	factor   = "0.75"
func (r *Registry) LoadFile(path string) error {
	book, err := decodeTokenBook(path)
	if err != nil {
		return err
	}

	for symbol, entry := range book.Tokens {
		t, err := entry.toToken(symbol)
		if err != nil {
			return errors.Wrapf(err, "invalid token %q in %s", symbol, path)
		}
		r.Register(t)
	}

	return nil
}

func decodeTokenBook(path string) (tokenBook, error) {
	var book tokenBook

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return book, errors.Wrapf(err, "failed to read token book %s", path)
		}
		if err := yaml.Unmarshal(data, &book); err != nil {
			return book, errors.Wrapf(err, "failed to decode token book %s", path)
		}
	default:
		if _, err := toml.DecodeFile(path, &book); err != nil {
			return book, errors.Wrapf(err, "failed to decode token book %s", path)
		}
	}

	return book, nil
}

func (e tokenEntry) toToken(symbol string) (Token, error) {
	if !common.IsHexAddress(e.Address) {
		return Token{}, errors.Errorf("invalid address %q", e.Address)
	}

	t := Token{
		Symbol:       symbol,
		Name:         e.Name,
		Address:      common.HexToAddress(e.Address),
		Decimals:     e.Decimals,
		Native:       strings.EqualFold(symbol, NativeSymbol),
		CTokenSymbol: e.CTokenSymbol,
	}

	if e.CToken != "" {
		if !common.IsHexAddress(e.CToken) {
			return Token{}, errors.Errorf("invalid ctoken address %q", e.CToken)
		}
		t.CToken = common.HexToAddress(e.CToken)
		if t.CTokenSymbol == "" {
			t.CTokenSymbol = "c" + strings.ToLower(symbol)
		}
	}

	if e.Factor != "" {
		factor, err := decimal.NewFromString(e.Factor)
		if err != nil {
			return Token{}, errors.Wrapf(err, "invalid factor %q", e.Factor)
		}
		t.CollateralFactor = factor
	}

	return t, nil
}
