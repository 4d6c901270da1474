package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/envseal/internal/envfile"
	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/secrets"
)

// VariableState is what envseal status reports for one variable.
type VariableState string

const (
	// StateEncrypted means the value is a valid envelope.
	StateEncrypted VariableState = "encrypted"
	// StatePlaintext means a sensitive value is still in the clear.
	StatePlaintext VariableState = "plaintext"
	// StateInvalid means the value looks like an envelope but cannot be one.
	StateInvalid VariableState = "invalid"
	// StateIgnored means the variable is not sensitive or is empty.
	StateIgnored VariableState = "ignored"
)

// VariableStatus is the state of one assignment. Algorithm is set only for
// encrypted values.
type VariableStatus struct {
	Key       string        `json:"key"`
	Line      int           `json:"line"`
	State     VariableState `json:"state"`
	Algorithm string        `json:"algorithm,omitempty"`
}

// FileStatus holds the variables of one file, or the reason it could not be
// read.
type FileStatus struct {
	Path      string           `json:"path"`
	Variables []VariableStatus `json:"variables"`
	Error     string           `json:"error,omitempty"`
}

// StatusSummary counts variables by state across all files.
type StatusSummary struct {
	Encrypted int `json:"encrypted"`
	Plaintext int `json:"plaintext"`
	Invalid   int `json:"invalid"`
	Ignored   int `json:"ignored"`
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	FilePatterns []string
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	ProjectName string        `json:"project"`
	Files       []FileStatus  `json:"files"`
	Summary     StatusSummary `json:"summary"`
}

// Clean reports whether no sensitive value is left in plaintext and no
// envelope is broken.
func (r *StatusResult) Clean() bool {
	if r.Summary.Plaintext > 0 || r.Summary.Invalid > 0 {
		return false
	}
	for _, f := range r.Files {
		if f.Error != "" {
			return false
		}
	}
	return true
}

// Status reports, without a key, which variables are encrypted and which
// sensitive ones are still plaintext.
//
// Returns ErrNoFilesFound if no environment file matches.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	p, err := loadProject()
	if err != nil {
		return nil, err
	}

	files, err := p.resolveFiles(opts.FilePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	projectName := p.config.Project.Name
	if projectName == "" {
		projectName = p.settings.ProjectName
	}

	resolver := secrets.NewResolver(p.config.SensitivityPolicy())
	result := &StatusResult{ProjectName: projectName}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		status := fileStatus(resolver, path)
		status.Path = p.relative(path)
		result.Files = append(result.Files, status)
		result.Summary.add(status.Variables)
	}

	return result, nil
}

func fileStatus(resolver *secrets.Resolver, path string) FileStatus {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileStatus{Error: fmt.Errorf("%w: %v", kerrors.ErrFileAccess, err).Error()}
	}
	doc, err := envfile.Parse(path, data)
	if err != nil {
		return FileStatus{Error: err.Error()}
	}

	var status FileStatus
	for _, c := range resolver.Classify(doc, secrets.OperationEncrypt) {
		if c.Line.Kind != envfile.KindAssignment {
			continue
		}
		v := VariableStatus{Key: c.Line.Key, Line: c.Line.Num, State: StateIgnored}
		value := strings.TrimSpace(c.Line.Value)

		switch {
		case secrets.IsEnvelope(value):
			if env, err := secrets.ParseEnvelope(value); err == nil {
				v.State = StateEncrypted
				v.Algorithm = string(env.Algorithm)
			} else {
				v.State = StateInvalid
			}
		case secrets.HasEnvelopeMarker(value):
			v.State = StateInvalid
		case c.Class == secrets.EncryptCandidate:
			v.State = StatePlaintext
		}
		status.Variables = append(status.Variables, v)
	}
	return status
}

func (s *StatusSummary) add(vars []VariableStatus) {
	for _, v := range vars {
		switch v.State {
		case StateEncrypted:
			s.Encrypted++
		case StatePlaintext:
			s.Plaintext++
		case StateInvalid:
			s.Invalid++
		default:
			s.Ignored++
		}
	}
}
