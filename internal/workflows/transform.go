package workflows

import (
	"context"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/secrets"
)

// TransformOptions configures the encrypt and decrypt workflows.
type TransformOptions struct {
	// FilePatterns lists files, directories or globs. If empty, the project
	// is searched with the configured include patterns.
	FilePatterns []string

	// DryRun lists the files that would be processed without reading a key
	// or changing anything.
	DryRun bool

	Key KeyOptions
}

// TransformResult contains the outcome of an encrypt or decrypt run.
type TransformResult struct {
	// Batch holds per-file and per-variable results. Nil for a dry run.
	Batch *secrets.BatchResult

	// Files lists the files selected for processing.
	Files []string

	// ProjectPath is the project root, or the working directory outside a
	// project.
	ProjectPath string

	DryRun bool
}

// Encrypt encrypts the sensitive plaintext values in the selected files.
//
// Per-file and per-variable failures are reported in the batch, not as an
// error. Returns ErrNoFilesFound if nothing matches, ErrInvalidConfig for a
// bad project config and ErrCryptoConfiguration if no usable key is found.
func Encrypt(ctx context.Context, opts TransformOptions) (*TransformResult, error) {
	return transform(ctx, secrets.OperationEncrypt, opts)
}

// Decrypt decrypts every envelope in the selected files. It reports errors
// the same way as Encrypt.
func Decrypt(ctx context.Context, opts TransformOptions) (*TransformResult, error) {
	return transform(ctx, secrets.OperationDecrypt, opts)
}

func transform(ctx context.Context, op secrets.Operation, opts TransformOptions) (*TransformResult, error) {
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

	result := &TransformResult{Files: files, ProjectPath: p.root, DryRun: opts.DryRun}
	if opts.DryRun {
		return result, nil
	}

	key, err := p.loadKey(opts.Key)
	if err != nil {
		return nil, err
	}

	recorder, closeLog, err := p.auditRecorder()
	if err != nil {
		return nil, err
	}
	defer closeLog()

	concurrency := p.config.Encryption.Concurrency
	executor := &secrets.Executor{Crypto: p.cryptoService(), Concurrency: concurrency}
	encryptor := secrets.NewFileEncryptor(secrets.NewResolver(p.config.SensitivityPolicy()), executor, recorder)
	coordinator := &secrets.Coordinator{Encryptor: encryptor, Concurrency: concurrency}

	if op == secrets.OperationEncrypt {
		result.Batch, err = coordinator.Encrypt(ctx, files, key)
	} else {
		result.Batch, err = coordinator.Decrypt(ctx, files, key)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}
