package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for passphrase-derived keys.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	SaltSize     = 16
)

// KeySource lists the places a key may come from. LoadKey uses the first one
// that is set, in field order.
type KeySource struct {
	// Data is key text supplied directly, e.g. piped on stdin.
	Data []byte

	// File is a path to a file holding the key text.
	File string

	// EnvVar names an environment variable holding the key text.
	EnvVar string

	// Passphrase, if set, is called to prompt for a passphrase. The key is
	// derived from it with argon2id and Salt.
	Passphrase func() ([]byte, error)
	Salt       []byte
}

// GenerateKey returns a new random symmetric key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateSalt returns a new random salt for passphrase-derived keys.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// EncodeKey renders a key in the text form accepted by ParseKey.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// ParseKey decodes key text: standard or URL-safe base64 (padded or not), or
// hex. The decoded key must be KeySize bytes.
func ParseKey(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrCryptoConfiguration, kerrors.ErrKeyMissing)
	}

	decoders := []func(string) ([]byte, error){
		hexDecodeKey,
		base64.StdEncoding.DecodeString,
		base64.RawStdEncoding.DecodeString,
		base64.URLEncoding.DecodeString,
		base64.RawURLEncoding.DecodeString,
	}
	for _, decode := range decoders {
		if key, err := decode(text); err == nil && len(key) == KeySize {
			return key, nil
		}
	}

	return nil, fmt.Errorf("%w: %w: key must be %d bytes encoded as base64 or hex",
		kerrors.ErrCryptoConfiguration, kerrors.ErrInvalidKeyLength, KeySize)
}

func hexDecodeKey(s string) ([]byte, error) {
	if len(s) != hex.EncodedLen(KeySize) {
		return nil, fmt.Errorf("not a hex key")
	}
	return hex.DecodeString(s)
}

// DeriveKey stretches a passphrase into a key with argon2id.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", kerrors.ErrCryptoConfiguration)
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("%w: passphrase salt must be at least %d bytes (run envseal init)",
			kerrors.ErrCryptoConfiguration, SaltSize)
	}
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, KeySize), nil
}

// LoadKey resolves the key from the first configured source. The key is only
// held in memory.
func LoadKey(src KeySource) ([]byte, error) {
	if len(src.Data) > 0 {
		return ParseKey(string(src.Data))
	}

	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("%w: reading key file %s: %v", kerrors.ErrCryptoConfiguration, src.File, err)
		}
		return ParseKey(string(data))
	}

	if src.EnvVar != "" {
		if text, ok := os.LookupEnv(src.EnvVar); ok && strings.TrimSpace(text) != "" {
			return ParseKey(text)
		}
	}

	if src.Passphrase != nil {
		passphrase, err := src.Passphrase()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrCryptoConfiguration, err)
		}
		return DeriveKey(passphrase, src.Salt)
	}

	return nil, fmt.Errorf("%w: %w", kerrors.ErrCryptoConfiguration, kerrors.ErrKeyMissing)
}
