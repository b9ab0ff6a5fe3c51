package account

import (
	"crypto/sha512"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 2048
	pbkdf2KeyLength  = 64
	hardenedOffset   = 0x80000000
)

// MnemonicToSeed converts a BIP39 mnemonic to its 64-byte seed.
// seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
func MnemonicToSeed(mnemonic string, passphrase string) []byte {
	normalized := strings.Join(strings.Fields(mnemonic), " ")

	return pbkdf2.Key(
		[]byte(normalized),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)
}

// DerivePrivateKey derives the 32-byte private key at a BIP44 path.
// WARNING: Caller must clear the private key after use
func DerivePrivateKey(seed []byte, path string) ([]byte, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	return key.Key, nil
}

// ParsePath parses "m/44'/60'/0'/0/0" into child indices, hardened segments
// carrying the 0x80000000 offset.
func ParsePath(path string) ([]uint32, error) {
	segments := strings.Split(strings.TrimSpace(path), "/")
	if len(segments) == 0 || segments[0] != "m" {
		return nil, errors.Errorf("invalid derivation path: %q", path)
	}

	indices := make([]uint32, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		hardened := strings.HasSuffix(segment, "'")
		segment = strings.TrimSuffix(segment, "'")

		index, err := strconv.ParseUint(segment, 10, 31)
		if err != nil {
			return nil, errors.Errorf("invalid path segment %q in %q", segment, path)
		}

		if hardened {
			index += hardenedOffset
		}

		indices = append(indices, uint32(index))
	}

	return indices, nil
}
