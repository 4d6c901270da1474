package secrets

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"unicode"

	"github.com/PolarWolf314/envseal/internal/envfile"
	kerrors "github.com/PolarWolf314/envseal/internal/errors"

	"golang.org/x/sync/errgroup"
)

// OutcomeOperation is what happened to one variable.
type OutcomeOperation string

const (
	OutcomeEncrypted OutcomeOperation = "encrypted"
	OutcomeDecrypted OutcomeOperation = "decrypted"
	OutcomeSkipped   OutcomeOperation = "skipped"
)

// Status is whether processing a variable succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// VariableOutcome describes how one assignment was processed. It never holds
// the plaintext or ciphertext.
type VariableOutcome struct {
	Key       string           `json:"key"`
	Line      int              `json:"line"`
	Operation OutcomeOperation `json:"operation"`
	Status    Status           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
}

// Mutated reports whether the outcome changed the file content.
func (o VariableOutcome) Mutated() bool {
	return o.Status == StatusSuccess && o.Operation != OutcomeSkipped
}

// Executor applies the crypto service to classified lines.
type Executor struct {
	Crypto *CryptoService

	// Concurrency caps the number of values processed at once. Zero or less
	// means GOMAXPROCS.
	Concurrency int
}

// NewExecutor returns an executor backed by crypto.
func NewExecutor(crypto *CryptoService) *Executor {
	return &Executor{Crypto: crypto}
}

// Apply encrypts or decrypts every candidate in place and returns one outcome
// per assignment, in line order. A failing value is reported and left as is;
// it does not stop the others. Only an unusable key is returned as an error,
// before anything is touched.
func (e *Executor) Apply(ctx context.Context, entries []ClassifiedLine, key []byte) ([]VariableOutcome, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	// Slot per entry so goroutines never share a write target.
	slots := make([]*VariableOutcome, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit())

	for i, entry := range entries {
		if entry.Line == nil || entry.Line.Kind != envfile.KindAssignment {
			continue
		}
		g.Go(func() error {
			outcome := e.applyOne(ctx, entry, key)
			slots[i] = &outcome
			return nil
		})
	}
	_ = g.Wait()

	outcomes := make([]VariableOutcome, 0, len(entries))
	for _, o := range slots {
		if o != nil {
			outcomes = append(outcomes, *o)
		}
	}
	return outcomes, nil
}

func (e *Executor) limit() int {
	if e.Concurrency > 0 {
		return e.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (e *Executor) applyOne(ctx context.Context, entry ClassifiedLine, key []byte) VariableOutcome {
	line := entry.Line
	outcome := VariableOutcome{Key: line.Key, Line: line.Num}

	switch entry.Class {
	case EncryptCandidate:
		outcome.Operation = OutcomeEncrypted
		if err := ctx.Err(); err != nil {
			return failed(outcome, err)
		}
		envelope, err := e.Crypto.EncryptString(line.Value, key)
		if err != nil {
			return failed(outcome, err)
		}
		line.SetValue(envelope)
		outcome.Status = StatusSuccess

	case DecryptCandidate:
		outcome.Operation = OutcomeDecrypted
		if err := ctx.Err(); err != nil {
			return failed(outcome, err)
		}
		lead, core, trail := splitSpace(line.Value)
		plaintext, err := e.Crypto.DecryptString(core, key)
		if err != nil {
			return failed(outcome, err)
		}
		if err := singleLine(plaintext); err != nil {
			return failed(outcome, err)
		}
		line.SetValue(lead + plaintext + trail)
		outcome.Status = StatusSuccess

	case MalformedEnvelope:
		outcome.Operation = OutcomeEncrypted
		return failed(outcome, fmt.Errorf("%w: malformed envelope", kerrors.ErrEncryption))

	case Ignore, AlreadyEncrypted:
		outcome.Operation = OutcomeSkipped
		outcome.Status = StatusSuccess

	default:
		outcome.Operation = OutcomeSkipped
		return failed(outcome, fmt.Errorf("unknown classification %s", entry.Class))
	}

	return outcome
}

func failed(o VariableOutcome, err error) VariableOutcome {
	o.Status = StatusFailed
	o.Reason = err.Error()
	return o
}

// singleLine rejects a decrypted value that would add physical lines to the
// file.
func singleLine(plaintext string) error {
	if strings.ContainsAny(plaintext, "\r\n") {
		return fmt.Errorf("%w: plaintext spans multiple lines", kerrors.ErrDecryption)
	}
	return nil
}

// splitSpace separates surrounding whitespace from the value itself.
func splitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRightFunc(core, unicode.IsSpace)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}
