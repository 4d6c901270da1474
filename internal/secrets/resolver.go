package secrets

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/envseal/internal/envfile"

	"github.com/bmatcuk/doublestar/v4"
)

// Operation is the direction of a transform.
type Operation int

const (
	OperationEncrypt Operation = iota + 1
	OperationDecrypt
)

func (o Operation) String() string {
	switch o {
	case OperationEncrypt:
		return "encrypt"
	case OperationDecrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// MarshalText renders the operation for JSON output.
func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Classification is the resolver's verdict for one line.
type Classification int

const (
	Ignore Classification = iota
	AlreadyEncrypted
	EncryptCandidate
	DecryptCandidate
	// MalformedEnvelope is a sensitive value that carries the envelope marker
	// but is not a valid envelope. It is neither sealed nor left silently.
	MalformedEnvelope
)

func (c Classification) String() string {
	switch c {
	case Ignore:
		return "ignore"
	case AlreadyEncrypted:
		return "already-encrypted"
	case EncryptCandidate:
		return "encrypt-candidate"
	case DecryptCandidate:
		return "decrypt-candidate"
	case MalformedEnvelope:
		return "malformed-envelope"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// ClassifiedLine pairs a line with its classification.
type ClassifiedLine struct {
	Line  *envfile.Line
	Class Classification
}

// Default sensitivity rules, used when a project does not configure its own.
var (
	DefaultSensitiveKeys     = []string{"PASSWORD", "SECRET", "TOKEN"}
	DefaultSensitiveSuffixes = []string{"_SECRET", "_PASSWORD", "_PASS", "_TOKEN", "_API_KEY", "_PRIVATE_KEY"}
)

// SensitivityPolicy decides which keys hold secrets. Matching is
// case-insensitive. Exclude wins over every other rule.
type SensitivityPolicy struct {
	Keys     []string // Exact key names.
	Suffixes []string // Key name suffixes such as _PASSWORD.
	Patterns []string // Doublestar patterns such as *_TOKEN*.
	Exclude  []string // Exact key names that are never sensitive.
}

// DefaultSensitivityPolicy returns the built-in naming convention.
func DefaultSensitivityPolicy() SensitivityPolicy {
	return SensitivityPolicy{
		Keys:     append([]string(nil), DefaultSensitiveKeys...),
		Suffixes: append([]string(nil), DefaultSensitiveSuffixes...),
	}
}

// Validate checks that every pattern compiles.
func (p SensitivityPolicy) Validate() error {
	for _, pattern := range p.Patterns {
		if !doublestar.ValidatePattern(strings.ToUpper(pattern)) {
			return fmt.Errorf("invalid sensitive key pattern %q", pattern)
		}
	}
	return nil
}

// IsSensitive reports whether key names a secret.
func (p SensitivityPolicy) IsSensitive(key string) bool {
	upper := strings.ToUpper(key)

	for _, k := range p.Exclude {
		if strings.ToUpper(k) == upper {
			return false
		}
	}
	for _, k := range p.Keys {
		if strings.ToUpper(k) == upper {
			return true
		}
	}
	for _, suffix := range p.Suffixes {
		if suffix != "" && strings.HasSuffix(upper, strings.ToUpper(suffix)) {
			return true
		}
	}
	for _, pattern := range p.Patterns {
		if ok, err := doublestar.Match(strings.ToUpper(pattern), upper); err == nil && ok {
			return true
		}
	}
	return false
}

// Resolver classifies the lines of a document for one operation.
type Resolver struct {
	Policy SensitivityPolicy
}

// NewResolver returns a resolver using policy.
func NewResolver(policy SensitivityPolicy) *Resolver {
	return &Resolver{Policy: policy}
}

// Classify returns one entry per line, in line order.
func (r *Resolver) Classify(doc *envfile.Document, op Operation) []ClassifiedLine {
	out := make([]ClassifiedLine, len(doc.Lines))
	for i, line := range doc.Lines {
		out[i] = ClassifiedLine{Line: line, Class: r.classify(line, op)}
	}
	return out
}

func (r *Resolver) classify(line *envfile.Line, op Operation) Classification {
	if line.Kind != envfile.KindAssignment {
		return Ignore
	}

	value := strings.TrimSpace(line.Value)
	if value == "" {
		return Ignore
	}

	// A damaged envelope is still a decrypt candidate so that it fails loudly.
	if HasEnvelopeMarker(value) {
		switch {
		case op == OperationDecrypt:
			return DecryptCandidate
		case IsEnvelope(value):
			return AlreadyEncrypted
		case op == OperationEncrypt && r.Policy.IsSensitive(line.Key):
			return MalformedEnvelope
		default:
			return Ignore
		}
	}

	switch op {
	case OperationEncrypt:
		if r.Policy.IsSensitive(line.Key) {
			return EncryptCandidate
		}
		return Ignore
	default:
		return Ignore
	}
}
