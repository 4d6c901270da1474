package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/secretbox"
)

// KeySize is the length in bytes of every supported symmetric key.
const KeySize = 32

// Algorithm identifies the authenticated cipher used for an envelope.
type Algorithm string

const (
	// AlgorithmSecretbox is NaCl secretbox (XSalsa20-Poly1305).
	AlgorithmSecretbox Algorithm = "xsalsa20poly1305"
	// AlgorithmXChaCha20 is XChaCha20-Poly1305.
	AlgorithmXChaCha20 Algorithm = "xchacha20poly1305"
	// AlgorithmAESGCM is AES-256-GCM.
	AlgorithmAESGCM Algorithm = "aes256gcm"

	DefaultAlgorithm = AlgorithmSecretbox
)

type algorithmSpec struct {
	nonceSize int
	tagSize   int
	seal      func(key, nonce, plaintext, ad []byte) (ciphertext, tag []byte, err error)
	open      func(key, nonce, ciphertext, tag, ad []byte) ([]byte, error)
}

var algorithms = map[Algorithm]algorithmSpec{
	AlgorithmSecretbox: {
		nonceSize: 24,
		tagSize:   secretbox.Overhead,
		seal:      sealSecretbox,
		open:      openSecretbox,
	},
	AlgorithmXChaCha20: {
		nonceSize: chacha20poly1305.NonceSizeX,
		tagSize:   chacha20poly1305.Overhead,
		seal:      aeadSealer(chacha20poly1305.NewX),
		open:      aeadOpener(chacha20poly1305.NewX),
	},
	AlgorithmAESGCM: {
		nonceSize: 12,
		tagSize:   16,
		seal:      aeadSealer(newAESGCM),
		open:      aeadOpener(newAESGCM),
	},
}

// Algorithms lists the supported algorithm ids.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmSecretbox, AlgorithmXChaCha20, AlgorithmAESGCM}
}

// ParseAlgorithm validates an algorithm id. An empty id selects the default.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return DefaultAlgorithm, nil
	}
	alg := Algorithm(name)
	if _, ok := algorithms[alg]; !ok {
		return "", fmt.Errorf("%w: %w %q", kerrors.ErrCryptoConfiguration, kerrors.ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// ValidateKey checks that key is usable for encryption and decryption.
func ValidateKey(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: %w", kerrors.ErrCryptoConfiguration, kerrors.ErrKeyMissing)
	}
	if len(key) != KeySize {
		return fmt.Errorf("%w: %w: expected %d bytes, got %d bytes",
			kerrors.ErrCryptoConfiguration, kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}
	return nil
}

// CryptoService seals and opens individual values. It holds no key material;
// the key is passed to every call.
//
// The zero value uses DefaultAlgorithm and crypto/rand.
type CryptoService struct {
	// Algorithm used by Encrypt. Decrypt always follows the envelope.
	Algorithm Algorithm

	// Rand is the nonce source. Tests may set a deterministic reader.
	Rand io.Reader
}

// NewCryptoService returns a service that encrypts with alg.
func NewCryptoService(alg Algorithm) (*CryptoService, error) {
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	return &CryptoService{Algorithm: alg}, nil
}

func (s *CryptoService) algorithm() Algorithm {
	if s == nil || s.Algorithm == "" {
		return DefaultAlgorithm
	}
	return s.Algorithm
}

func (s *CryptoService) random() io.Reader {
	if s == nil || s.Rand == nil {
		return rand.Reader
	}
	return s.Rand
}

// Encrypt seals plaintext under key with a fresh random nonce, so encrypting
// the same plaintext twice yields different envelopes.
func (s *CryptoService) Encrypt(plaintext, key []byte) (*Envelope, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	alg := s.algorithm()
	spec, ok := algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", kerrors.ErrCryptoConfiguration, kerrors.ErrUnknownAlgorithm, alg)
	}

	nonce := make([]byte, spec.nonceSize)
	if _, err := io.ReadFull(s.random(), nonce); err != nil {
		return nil, fmt.Errorf("%w: generating nonce: %v", kerrors.ErrEncryption, err)
	}

	ciphertext, tag, err := spec.seal(key, nonce, plaintext, associatedData(alg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryption, err)
	}

	return &Envelope{
		Algorithm:  alg,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
	}, nil
}

// Decrypt opens an envelope. A wrong key, tampered field or unknown algorithm
// yields ErrDecryption; it never returns a wrong plaintext.
func (s *CryptoService) Decrypt(env *Envelope, key []byte) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if env == nil {
		return nil, fmt.Errorf("%w: empty envelope", kerrors.ErrDecryption)
	}

	spec, ok := algorithms[env.Algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized algorithm %q", kerrors.ErrDecryption, env.Algorithm)
	}
	if len(env.Nonce) != spec.nonceSize || len(env.Tag) != spec.tagSize {
		return nil, fmt.Errorf("%w: malformed envelope", kerrors.ErrDecryption)
	}

	plaintext, err := spec.open(key, env.Nonce, env.Ciphertext, env.Tag, associatedData(env.Algorithm))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryption, err)
	}
	return plaintext, nil
}

// EncryptString encrypts plaintext and returns the envelope text.
func (s *CryptoService) EncryptString(plaintext string, key []byte) (string, error) {
	env, err := s.Encrypt([]byte(plaintext), key)
	if err != nil {
		return "", err
	}
	return env.String(), nil
}

// DecryptString parses and decrypts envelope text.
func (s *CryptoService) DecryptString(value string, key []byte) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	env, err := ParseEnvelope(value)
	if err != nil {
		return "", err
	}
	plaintext, err := s.Decrypt(env, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// associatedData binds the envelope header to AEAD ciphertexts.
func associatedData(alg Algorithm) []byte {
	return []byte(envelopePrefix + string(alg))
}

func sealSecretbox(key, nonce, plaintext, _ []byte) ([]byte, []byte, error) {
	var k [KeySize]byte
	var n [24]byte
	copy(k[:], key)
	copy(n[:], nonce)

	// secretbox puts the Poly1305 tag in front of the ciphertext.
	sealed := secretbox.Seal(nil, plaintext, &n, &k)
	return sealed[secretbox.Overhead:], sealed[:secretbox.Overhead], nil
}

func openSecretbox(key, nonce, ciphertext, tag, _ []byte) ([]byte, error) {
	var k [KeySize]byte
	var n [24]byte
	copy(k[:], key)
	copy(n[:], nonce)

	box := make([]byte, 0, len(tag)+len(ciphertext))
	box = append(box, tag...)
	box = append(box, ciphertext...)

	plaintext, ok := secretbox.Open(nil, box, &n, &k)
	if !ok {
		return nil, fmt.Errorf("authentication failed")
	}
	return plaintext, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func aeadSealer(newAEAD func([]byte) (cipher.AEAD, error)) func(key, nonce, plaintext, ad []byte) ([]byte, []byte, error) {
	return func(key, nonce, plaintext, ad []byte) ([]byte, []byte, error) {
		aead, err := newAEAD(key)
		if err != nil {
			return nil, nil, err
		}
		sealed := aead.Seal(nil, nonce, plaintext, ad)
		split := len(sealed) - aead.Overhead()
		return sealed[:split], sealed[split:], nil
	}
}

func aeadOpener(newAEAD func([]byte) (cipher.AEAD, error)) func(key, nonce, ciphertext, tag, ad []byte) ([]byte, error) {
	return func(key, nonce, ciphertext, tag, ad []byte) ([]byte, error) {
		aead, err := newAEAD(key)
		if err != nil {
			return nil, err
		}
		sealed := make([]byte, 0, len(ciphertext)+len(tag))
		sealed = append(sealed, ciphertext...)
		sealed = append(sealed, tag...)

		plaintext, err := aead.Open(nil, nonce, sealed, ad)
		if err != nil {
			return nil, fmt.Errorf("authentication failed")
		}
		return plaintext, nil
	}
}
