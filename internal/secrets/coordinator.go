package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// BatchResult aggregates the results of one coordinator call.
type BatchResult struct {
	RunID     string                 `json:"run_id"`
	Operation Operation              `json:"operation"`
	Files     []*FileOperationResult `json:"files"`
}

// MarshalJSON adds the overall status and mutation count to the JSON form.
func (b *BatchResult) MarshalJSON() ([]byte, error) {
	type plain BatchResult
	return json.Marshal(struct {
		*plain
		Succeeded bool `json:"succeeded"`
		Mutations int  `json:"mutations"`
	}{(*plain)(b), b.Succeeded(), b.Mutations()})
}

// Succeeded reports whether every file and every variable succeeded.
func (b *BatchResult) Succeeded() bool {
	for _, f := range b.Files {
		if !f.Succeeded() {
			return false
		}
	}
	return true
}

// Failed returns the files that did not fully succeed.
func (b *BatchResult) Failed() []*FileOperationResult {
	var out []*FileOperationResult
	for _, f := range b.Files {
		if !f.Succeeded() {
			out = append(out, f)
		}
	}
	return out
}

// Mutations counts the changed variables across all files.
func (b *BatchResult) Mutations() int {
	n := 0
	for _, f := range b.Files {
		n += f.Mutations()
	}
	return n
}

// Rewritten returns the paths of the files that were written.
func (b *BatchResult) Rewritten() []string {
	var out []string
	for _, f := range b.Files {
		if f.Rewritten {
			out = append(out, f.Path)
		}
	}
	return out
}

// Err combines every file and variable failure into one error, or returns nil.
func (b *BatchResult) Err() error {
	var result *multierror.Error
	for _, f := range b.Files {
		if f.Err != nil {
			result = multierror.Append(result, f.Err)
			continue
		}
		for _, o := range f.Outcomes {
			if o.Status == StatusFailed {
				result = multierror.Append(result, &VariableError{Path: f.Path, Outcome: o})
			}
		}
	}
	return result.ErrorOrNil()
}

// VariableError describes a failed variable without its value.
type VariableError struct {
	Path    string
	Outcome VariableOutcome
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Outcome.Line, e.Outcome.Key, e.Outcome.Reason)
}

// Coordinator is the entry point for bulk encryption and decryption.
type Coordinator struct {
	Encryptor *FileEncryptor

	// Concurrency caps the number of files processed at once. Zero or less
	// means GOMAXPROCS.
	Concurrency int
}

// NewCoordinator returns a coordinator that processes files with encryptor.
func NewCoordinator(encryptor *FileEncryptor) *Coordinator {
	return &Coordinator{Encryptor: encryptor}
}

// Encrypt encrypts the sensitive values of every file in paths.
func (c *Coordinator) Encrypt(ctx context.Context, paths []string, key []byte) (*BatchResult, error) {
	return c.run(ctx, OperationEncrypt, paths, key)
}

// Decrypt decrypts every envelope in every file in paths.
func (c *Coordinator) Decrypt(ctx context.Context, paths []string, key []byte) (*BatchResult, error) {
	return c.run(ctx, OperationDecrypt, paths, key)
}

// run processes every file and collects all results. It only returns an
// error for an unusable key, which no file could survive; per-file failures
// are reported in the BatchResult.
func (c *Coordinator) run(ctx context.Context, op Operation, paths []string, key []byte) (*BatchResult, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	unique := uniquePaths(paths)
	batch := &BatchResult{
		RunID:     uuid.NewString(),
		Operation: op,
		Files:     make([]*FileOperationResult, len(unique)),
	}

	if tagger, ok := c.Encryptor.Logger.(runTagger); ok {
		tagger.SetRunID(batch.RunID)
	}

	var g errgroup.Group
	g.SetLimit(c.limit())

	for i, path := range unique {
		g.Go(func() error {
			// Errors are carried in the result; the batch never stops early.
			result, _ := c.Encryptor.Process(ctx, path, op, key)
			batch.Files[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return batch, nil
}

// runTagger is implemented by loggers that label records with the batch
// they belong to.
type runTagger interface {
	SetRunID(id string)
}

func (c *Coordinator) limit() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// uniquePaths drops paths that point at the same file so that no two writers
// ever race on one path. Order of first appearance is kept.
func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))

	for _, p := range paths {
		id := filepath.Clean(p)
		if abs, err := filepath.Abs(id); err == nil {
			id = abs
		}
		if resolved, err := filepath.EvalSymlinks(id); err == nil {
			id = resolved
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}

	return out
}
