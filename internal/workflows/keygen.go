package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/secrets"
	"github.com/PolarWolf314/envseal/internal/utils"
)

// KeygenOptions configures the keygen workflow.
type KeygenOptions struct {
	// OutputPath, if set, receives the key with 0600 permissions instead of
	// the key only being returned.
	OutputPath string

	// Force allows replacing an existing key file.
	Force bool
}

// KeygenResult holds the new key in its text form.
type KeygenResult struct {
	Key  string
	Path string
}

// Keygen generates a random 32 byte key.
//
// Returns ErrKeyFileExists if OutputPath exists and Force is not set.
func Keygen(ctx context.Context, opts KeygenOptions) (*KeygenResult, error) {
	key, err := secrets.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	result := &KeygenResult{Key: secrets.EncodeKey(key)}

	if opts.OutputPath == "" {
		return result, nil
	}

	if _, err := os.Stat(opts.OutputPath); err == nil && !opts.Force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrKeyFileExists, opts.OutputPath)
	}
	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0700); err != nil {
		return nil, fmt.Errorf("creating key directory: %w", err)
	}
	if err := utils.WriteFileAtomic(opts.OutputPath, []byte(result.Key+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrFileWrite, opts.OutputPath, err)
	}
	result.Path = opts.OutputPath

	return result, nil
}
