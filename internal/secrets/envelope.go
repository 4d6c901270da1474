package secrets

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
)

const (
	envelopeMarker  = "envseal"
	envelopeVersion = "v1"
	envelopePrefix  = envelopeMarker + ":" + envelopeVersion + ":"
)

// envelopeRe is the recognizable shape of an envelope. The algorithm field is
// not restricted to known ids so that unsupported algorithms are still seen
// as encrypted and reported as decryption failures rather than re-encrypted.
var envelopeRe = regexp.MustCompile(`^envseal:v1:[a-z0-9]+:[A-Za-z0-9_-]+:[A-Za-z0-9_-]*:[A-Za-z0-9_-]+$`)

var b64 = base64.RawURLEncoding.Strict()

// Envelope is an encrypted value in a form that can be embedded in a
// KEY=value line.
type Envelope struct {
	Algorithm  Algorithm
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// String renders the envelope as
// envseal:v1:<alg>:<nonce>:<ciphertext>:<tag>.
func (e *Envelope) String() string {
	return envelopePrefix + strings.Join([]string{
		string(e.Algorithm),
		b64.EncodeToString(e.Nonce),
		b64.EncodeToString(e.Ciphertext),
		b64.EncodeToString(e.Tag),
	}, ":")
}

// IsEnvelope reports whether value looks like an encrypted value. It does not
// check that the envelope decrypts.
func IsEnvelope(value string) bool {
	return envelopeRe.MatchString(value)
}

// ParseEnvelope decodes the text form of an envelope. It fails with
// ErrDecryption for anything malformed, including unknown algorithms and
// fields of the wrong size.
func ParseEnvelope(value string) (*Envelope, error) {
	if !strings.HasPrefix(value, envelopeMarker+":") {
		return nil, fmt.Errorf("%w: not an envelope", kerrors.ErrDecryption)
	}

	parts := strings.Split(value, ":")
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: malformed envelope: expected 6 fields, got %d", kerrors.ErrDecryption, len(parts))
	}
	if parts[1] != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported envelope version %q", kerrors.ErrDecryption, parts[1])
	}

	alg := Algorithm(parts[2])
	spec, ok := algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized algorithm %q", kerrors.ErrDecryption, parts[2])
	}

	nonce, err := b64.DecodeString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed nonce: %v", kerrors.ErrDecryption, err)
	}
	ciphertext, err := b64.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed ciphertext: %v", kerrors.ErrDecryption, err)
	}
	tag, err := b64.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed tag: %v", kerrors.ErrDecryption, err)
	}

	if len(nonce) != spec.nonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", kerrors.ErrDecryption, spec.nonceSize, len(nonce))
	}
	if len(tag) != spec.tagSize {
		return nil, fmt.Errorf("%w: tag must be %d bytes, got %d", kerrors.ErrDecryption, spec.tagSize, len(tag))
	}

	return &Envelope{
		Algorithm:  alg,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
	}, nil
}

// HasEnvelopeMarker reports whether value starts like an envelope of any
// version. It is true for broken envelopes that IsEnvelope rejects.
func HasEnvelopeMarker(value string) bool {
	return strings.HasPrefix(value, envelopeMarker+":")
}
