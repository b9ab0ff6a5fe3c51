// Package units converts between human decimal amounts and the integer
// base units token contracts expect.
package units

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// maxUint256Digits is the number of decimal digits of 2^256-1.
const maxUint256Digits = 78

// ErrInvalidAmount is returned for amounts that are not non-negative numbers
// or do not fit into a uint256.
var ErrInvalidAmount = errors.New("'amount' is not a valid number")

// ParseAmount parses a non-negative decimal amount. Exponent notation ("1e18")
// is accepted. Amounts that cannot fit into a uint256 at any precision are
// rejected before the token decimals are known.
func ParseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrInvalidAmount, "%q", amount)
	}

	if d.IsNegative() {
		return decimal.Decimal{}, errors.Wrapf(ErrInvalidAmount, "%q is negative", amount)
	}

	if d.IsZero() {
		return decimal.Zero, nil
	}

	if d.Exponent() >= maxUint256Digits {
		return decimal.Decimal{}, errors.Wrapf(ErrInvalidAmount, "%q exceeds uint256", amount)
	}

	return d, nil
}

// Scale converts d to base units at the given precision. Digits beyond the
// token precision are truncated. The result is at most 256 bits.
func Scale(d decimal.Decimal, decimals int32) (*big.Int, error) {
	coefficient := d.Coefficient()
	if coefficient.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s is negative", d)
	}

	if coefficient.Sign() == 0 {
		return new(big.Int), nil
	}

	exp := int64(d.Exponent()) + int64(decimals)
	digits := int64(len(coefficient.String()))

	var v *big.Int
	switch {
	case exp+digits > maxUint256Digits:
		return nil, errors.Wrapf(ErrInvalidAmount, "%s at %d decimals exceeds uint256", d, decimals)
	case exp >= 0:
		v = new(big.Int).Mul(coefficient, pow10(exp))
	case -exp > digits:
		v = new(big.Int)
	default:
		v = new(big.Int).Quo(coefficient, pow10(-exp))
	}

	if v.BitLen() > math.MaxBig256.BitLen() {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s at %d decimals exceeds uint256", d, decimals)
	}

	return v, nil
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// ToBaseUnits scales a decimal amount by 10^decimals, e.g. "1.5" at 18
// decimals becomes 1500000000000000000. See ParseAmount and Scale.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	v, err := Scale(d, decimals)
	if err != nil {
		return nil, errors.Wrapf(err, "%q", amount)
	}

	return v, nil
}

// FromBaseUnits is the inverse of ToBaseUnits.
func FromBaseUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}

	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ParseRaw parses an integer amount already expressed in base units (wei).
// Decimal and 0x-prefixed hex are accepted, up to 256 bits.
func ParseRaw(amount string) (*big.Int, error) {
	v, ok := math.ParseBig256(strings.TrimSpace(amount))
	if !ok || v.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q is not a base unit integer", amount)
	}

	return v, nil
}
