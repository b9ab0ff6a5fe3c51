package account

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github/chapool/dsa-connect/internal/config"
	"github/chapool/dsa-connect/internal/util"
	"golang.org/x/term"
)

// ErrNoAccount is returned when neither a private key nor a keystore is
// configured.
var ErrNoAccount = errors.New("no account configured: set a private key or a keystore path")

// PasswordFunc reads a secret, typically from the terminal.
type PasswordFunc func(prompt string) (string, error)

// Unlock builds the account described by cfg. A keystore without a
// configured password is unlocked through prompt.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func Unlock(ctx context.Context, cfg config.Account, prompt PasswordFunc) (Service, error) {
	log := util.LogFromContext(ctx).With().Str("component", "account_unlock").Logger()

	if cfg.PrivateKey != "" {
		return NewFromPrivateKey(cfg.PrivateKey)
	}

	if cfg.KeystorePath == "" {
		return nil, ErrNoAccount
	}

	ks, err := ReadKeystore(cfg.KeystorePath)
	if err != nil {
		return nil, err
	}

	password := cfg.KeystorePassword
	if password == "" {
		if prompt == nil {
			return nil, errors.New("keystore password is required")
		}
		password, err = prompt("Enter keystore password: ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to read password")
		}
	}

	mnemonic, err := DecryptMnemonic(ks, password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt keystore (invalid password?)")
	}

	path := cfg.DerivationPath
	if path == "" {
		path = ks.DerivationPath
	}
	if path == "" {
		path = config.DefaultDerivationPath
	}

	acc, err := NewFromMnemonic(mnemonic, cfg.MnemonicPassphrase, path)
	if err != nil {
		return nil, err
	}

	address, err := acc.Address(ctx)
	if err != nil {
		return nil, err
	}

	if path == ks.DerivationPath && !ks.VerifyAddress(address) {
		return nil, errors.New("passphrase verification failed: derived address does not match keystore address")
	}

	log.Info().Str("address", address.Hex()).Str("path", path).Msg("Account unlocked")

	return acc, nil
}

// PromptPassword reads a password from the terminal without echo.
//
//nolint:forbidigo // Password input requires direct terminal I/O
func PromptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Fprintln(os.Stderr)

	return string(passwordBytes), nil
}
