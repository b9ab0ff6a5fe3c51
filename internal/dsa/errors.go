package dsa

import (
	"github.com/pkg/errors"
	"github/chapool/dsa-connect/internal/dsa/registry"
	"github/chapool/dsa-connect/internal/dsa/units"
)

// ErrChainNotConfigured is the configuration error every facade operation
// checks first.
var ErrChainNotConfigured = errors.New("chain client is not configured")

// Validation errors, returned before any chain call is made.
var (
	ErrMissingToken       = errors.New("'token' is not defined")
	ErrMissingDestination = errors.New("'to' address is not defined")
	ErrMissingAmount      = errors.New("'amount' is not defined")
	ErrNoManagedAccount   = errors.New("'to' is not defined and instance is not set")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidAmount      = units.ErrInvalidAmount
	ErrUnknownToken       = registry.ErrUnknownToken
)

var validationErrors = []error{
	ErrMissingToken,
	ErrMissingDestination,
	ErrMissingAmount,
	ErrNoManagedAccount,
	ErrInvalidAddress,
	ErrInvalidAmount,
	ErrUnknownToken,
}

// IsValidationError reports whether err was raised by request validation.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
