package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/envseal/internal/configs"
	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/utils"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ProjectName is the name for the project. If empty, uses the directory name.
	ProjectName string
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	ProjectName string
	ProjectUUID string
	ProjectPath string
	ConfigPath  string
}

// Init creates .envseal/config.toml in the current directory with default
// settings, a project UUID and a passphrase salt.
//
// Returns ErrProjectAlreadyInitialized if the directory already has one.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	projectPath, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	configPath := configs.ConfigPath(projectPath)
	if _, err := os.Stat(configPath); err == nil {
		return nil, kerrors.ErrProjectAlreadyInitialized
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking project config: %w", err)
	}

	name := opts.ProjectName
	if name == "" {
		name = filepath.Base(projectPath)
	}

	cfg, err := configs.New(name)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(projectPath, utils.ProjectDirName), 0755); err != nil {
		return nil, fmt.Errorf("creating %s directory: %w", utils.ProjectDirName, err)
	}
	if err := configs.Save(projectPath, cfg); err != nil {
		return nil, err
	}

	return &InitResult{
		ProjectName: name,
		ProjectUUID: cfg.Project.UUID,
		ProjectPath: projectPath,
		ConfigPath:  configPath,
	}, nil
}
