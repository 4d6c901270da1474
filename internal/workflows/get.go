package workflows

import (
	"context"
	"path/filepath"

	"github.com/PolarWolf314/envseal/internal/secrets"
)

// GetOptions configures the get workflow.
type GetOptions struct {
	// Name is the variable to read.
	Name string

	// File is the environment file. Defaults to .env in the project root.
	File string

	Key KeyOptions
}

// GetResult holds a decrypted variable. Value is the only place a plaintext
// secret leaves this package.
type GetResult struct {
	Name  string
	Value string
	File  string
}

// Get returns one variable with its envelope decrypted in memory. The file
// on disk is not modified and nothing is written to the audit log.
//
// Returns ErrVariableNotFound if the file does not define Name, ErrFileAccess
// if the file cannot be read and ErrDecryption if the envelope is invalid.
func Get(ctx context.Context, opts GetOptions) (*GetResult, error) {
	p, err := loadProject()
	if err != nil {
		return nil, err
	}

	file := opts.File
	if file == "" {
		file = ".env"
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(p.root, file)
	}

	key, err := p.loadKey(opts.Key)
	if err != nil {
		return nil, err
	}

	value, err := secrets.NewRuntimeResolver(p.cryptoService()).Lookup(file, opts.Name, key)
	if err != nil {
		return nil, err
	}

	return &GetResult{Name: opts.Name, Value: value, File: file}, nil
}
