package account

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	keystoreVersion = 3
	saltLength      = 32
	ivLength        = 16
	cipherName      = "aes-128-ctr"
	kdfName         = "scrypt"
)

// ErrInvalidPassword is returned when the keystore MAC does not match.
var ErrInvalidPassword = errors.New("invalid password: MAC mismatch")

// KeystoreJSON is a keystore v3 style document holding an encrypted
// mnemonic. Address is the account derived at DerivationPath when the file
// was created and is used to verify the mnemonic passphrase on unlock.
//
//nolint:revive // KeystoreJSON is the standard name for Ethereum keystore JSON structure
type KeystoreJSON struct {
	Version        int    `json:"version"`
	ID             string `json:"id"`
	Address        string `json:"address"`
	DerivationPath string `json:"derivationPath"`
	Crypto         struct {
		Ciphertext   string `json:"ciphertext"`
		CipherParams struct {
			IV string `json:"iv"`
		} `json:"cipherparams"`
		Cipher    string `json:"cipher"`
		KDF       string `json:"kdf"`
		KDFParams struct {
			DKLen int    `json:"dklen"`
			Salt  string `json:"salt"`
			N     int    `json:"n"`
			R     int    `json:"r"`
			P     int    `json:"p"`
		} `json:"kdfparams"`
		MAC string `json:"mac"`
	} `json:"crypto"`
}

// ScryptParams defines scrypt KDF parameters
type ScryptParams struct {
	DKLen int
	N     int
	R     int
	P     int
}

// DefaultScryptParams returns the standard keystore v3 parameters.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{DKLen: 32, N: 262144, R: 8, P: 1}
}

// LightScryptParams trades security for speed. Tests and throwaway keys only.
func LightScryptParams() ScryptParams {
	return ScryptParams{DKLen: 32, N: 4096, R: 8, P: 6}
}

// CreateKeystore encrypts mnemonic with password and writes it to path.
// It refuses to overwrite an existing file.
func CreateKeystore(path string, mnemonic string, password string, passphrase string, derivationPath string, params ScryptParams) (*KeystoreJSON, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, errors.Errorf("keystore already exists: %s", path)
	}

	acc, err := NewFromMnemonic(mnemonic, passphrase, derivationPath)
	if err != nil {
		return nil, err
	}
	address, err := acc.Address(context.Background())
	if err != nil {
		return nil, err
	}

	ks, err := EncryptMnemonic(mnemonic, password, params)
	if err != nil {
		return nil, err
	}
	ks.Address = address.Hex()
	ks.DerivationPath = derivationPath

	if err := WriteKeystore(path, ks); err != nil {
		return nil, err
	}

	return ks, nil
}

// EncryptMnemonic encrypts a mnemonic: scrypt KDF, AES-128-CTR, keccak MAC.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func EncryptMnemonic(mnemonic string, password string, params ScryptParams) (*KeystoreJSON, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	ciphertext, err := aes128CTR(derivedKey[:16], iv, []byte(mnemonic))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt mnemonic")
	}

	ks := &KeystoreJSON{
		Version: keystoreVersion,
		ID:      uuid.New().String(),
	}
	ks.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	ks.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	ks.Crypto.Cipher = cipherName
	ks.Crypto.KDF = kdfName
	ks.Crypto.KDFParams.DKLen = params.DKLen
	ks.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	ks.Crypto.KDFParams.N = params.N
	ks.Crypto.KDFParams.R = params.R
	ks.Crypto.KDFParams.P = params.P
	ks.Crypto.MAC = hex.EncodeToString(crypto.Keccak256(derivedKey[16:32], ciphertext))

	return ks, nil
}

// DecryptMnemonic reverses EncryptMnemonic.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func DecryptMnemonic(ks *KeystoreJSON, password string) (string, error) {
	if ks.Crypto.Cipher != cipherName || ks.Crypto.KDF != kdfName {
		return "", errors.Errorf("unsupported keystore cipher %q / kdf %q", ks.Crypto.Cipher, ks.Crypto.KDF)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode salt")
	}

	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode MAC")
	}

	params := ks.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive key")
	}

	mac := crypto.Keccak256(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return "", ErrInvalidPassword
	}

	plaintext, err := aes128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt mnemonic")
	}

	return string(plaintext), nil
}

// VerifyAddress reports whether acc is the account recorded in ks. Keystores
// without a recorded address always verify.
func (ks *KeystoreJSON) VerifyAddress(address common.Address) bool {
	if ks.Address == "" {
		return true
	}

	return common.HexToAddress(ks.Address) == address
}

// WriteKeystore writes ks as JSON readable by the owner only.
func WriteKeystore(path string, ks *KeystoreJSON) error {
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal keystore JSON")
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write keystore %s", path)
	}

	return nil
}

func ReadKeystore(path string) (*KeystoreJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keystore %s", path)
	}

	var ks KeystoreJSON
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal keystore JSON")
	}

	return &ks, nil
}

// aes128CTR is its own inverse.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func aes128CTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)

	return out, nil
}
