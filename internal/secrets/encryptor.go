package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/envseal/internal/envfile"
	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/utils"
)

// OperationLogger records one audit entry per processed variable. It must be
// safe for concurrent use, since files are processed in parallel.
type OperationLogger interface {
	Record(path string, outcome VariableOutcome)
}

type discardLogger struct{}

func (discardLogger) Record(string, VariableOutcome) {}

// FileOperationResult is the outcome of processing one file.
type FileOperationResult struct {
	Path      string            `json:"path"`
	Operation Operation         `json:"operation"`
	Outcomes  []VariableOutcome `json:"variables"`
	Rewritten bool              `json:"rewritten"`

	// Err is set when the file could not be processed at all.
	Err error `json:"-"`
}

// Mutations counts the variables whose value was changed.
func (r *FileOperationResult) Mutations() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Mutated() {
			n++
		}
	}
	return n
}

// Failures counts the variables that failed.
func (r *FileOperationResult) Failures() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Succeeded reports whether the file and all its variables succeeded.
func (r *FileOperationResult) Succeeded() bool {
	return r.Err == nil && r.Failures() == 0
}

// FileEncryptor runs the read, classify, transform and write cycle for a
// single file.
type FileEncryptor struct {
	Resolver *Resolver
	Executor *Executor
	Logger   OperationLogger

	// writeFile persists the new content. Replaced in tests.
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewFileEncryptor wires a file encryptor. A nil logger discards records.
func NewFileEncryptor(resolver *Resolver, executor *Executor, logger OperationLogger) *FileEncryptor {
	if logger == nil {
		logger = discardLogger{}
	}
	return &FileEncryptor{
		Resolver:  resolver,
		Executor:  executor,
		Logger:    logger,
		writeFile: utils.WriteFileAtomic,
	}
}

// Process encrypts or decrypts the eligible values of the file at path.
//
// The file is only written when at least one value changed, and then only
// through an atomic replace. A missing or unreadable file yields
// ErrFileAccess, invalid UTF-8 yields ErrFileFormat and a failed write yields
// ErrFileWrite; in every case the original file is left intact. Key problems
// are returned as ErrCryptoConfiguration.
func (f *FileEncryptor) Process(ctx context.Context, path string, op Operation, key []byte) (*FileOperationResult, error) {
	result := &FileOperationResult{Path: path, Operation: op}

	if err := ctx.Err(); err != nil {
		return f.fail(result, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return f.fail(result, fmt.Errorf("%w: %s: %v", kerrors.ErrFileAccess, path, err))
	}
	if info.IsDir() {
		return f.fail(result, fmt.Errorf("%w: %s is a directory", kerrors.ErrFileAccess, path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return f.fail(result, fmt.Errorf("%w: %s: %v", kerrors.ErrFileAccess, path, err))
	}

	doc, err := envfile.Parse(path, data)
	if err != nil {
		return f.fail(result, err)
	}

	classified := f.Resolver.Classify(doc, op)

	outcomes, err := f.Executor.Apply(ctx, classified, key)
	if err != nil {
		return f.fail(result, err)
	}
	result.Outcomes = outcomes

	if doc.Modified() {
		if err := f.writeFile(path, doc.Bytes(), info.Mode().Perm()); err != nil {
			result.Err = fmt.Errorf("%w: %s: %v", kerrors.ErrFileWrite, path, err)
			// Nothing reached disk, so no value was actually changed.
			for i := range result.Outcomes {
				if result.Outcomes[i].Mutated() {
					result.Outcomes[i].Status = StatusFailed
					result.Outcomes[i].Reason = result.Err.Error()
				}
			}
		} else {
			result.Rewritten = true
		}
	}

	for _, o := range result.Outcomes {
		f.Logger.Record(path, o)
	}

	return result, result.Err
}

func (f *FileEncryptor) fail(result *FileOperationResult, err error) (*FileOperationResult, error) {
	result.Err = err
	return result, err
}

// MarshalJSON adds the error text and overall status to the JSON form.
func (r *FileOperationResult) MarshalJSON() ([]byte, error) {
	type plain FileOperationResult
	var errText string
	if r.Err != nil {
		errText = r.Err.Error()
	}
	return json.Marshal(struct {
		*plain
		Succeeded bool   `json:"succeeded"`
		Error     string `json:"error,omitempty"`
	}{(*plain)(r), r.Succeeded(), errText})
}
