package workflows

import (
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/envseal/internal/audit"
	"github.com/PolarWolf314/envseal/internal/configs"
	"github.com/PolarWolf314/envseal/internal/secrets"
	"github.com/PolarWolf314/envseal/internal/utils"
)

// KeyOptions says where the encryption key comes from. Sources are tried in
// the order of the fields, then the environment variable named in config,
// then the passphrase prompt.
type KeyOptions struct {
	// KeyData holds key text read from stdin.
	KeyData []byte

	// KeyFile overrides the key file from config.
	KeyFile string

	// Prompt asks for a passphrase. It is only used when the project config
	// has a salt. Nil disables prompting.
	Prompt func() ([]byte, error)
}

// project is the state every workflow starts from.
type project struct {
	settings *configs.ProjectSettings
	config   *configs.Config
	root     string
}

// loadProject finds the enclosing project and loads its config. Outside a
// project the defaults apply and the working directory is the root.
func loadProject() (*project, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}
	settings := configs.ProjectEnvsealSettings

	cfg, err := configs.Load(settings.ProjectPath)
	if err != nil {
		return nil, err
	}

	root, err := settings.WorkingRoot()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	return &project{settings: settings, config: cfg, root: root}, nil
}

// loadKey resolves the key from opts and the project config.
func (p *project) loadKey(opts KeyOptions) ([]byte, error) {
	salt, err := p.config.SaltBytes()
	if err != nil {
		return nil, err
	}

	src := secrets.KeySource{
		Data:   opts.KeyData,
		File:   opts.KeyFile,
		EnvVar: p.config.Key.Env,
		Salt:   salt,
	}
	if src.File == "" {
		src.File = p.config.KeyFile(p.settings.ProjectPath)
	}
	if len(salt) > 0 {
		src.Passphrase = opts.Prompt
	}

	return secrets.LoadKey(src)
}

// resolveFiles expands patterns, or searches the project with the configured
// include globs when there are none.
func (p *project) resolveFiles(patterns []string) ([]string, error) {
	if len(patterns) > 0 {
		return secrets.ResolveFiles(patterns, p.root)
	}

	found, err := secrets.FindEnvFiles(p.root, p.config.Files.Include)
	if err != nil {
		return nil, fmt.Errorf("finding environment files: %w", err)
	}
	return found, nil
}

// cryptoService builds the cipher configured for the project.
func (p *project) cryptoService() *secrets.CryptoService {
	return &secrets.CryptoService{Algorithm: p.config.Algorithm()}
}

// auditRecorder returns a recorder appending to the project audit log. Outside
// a project entries are kept in memory only. The returned close function is
// always safe to call.
func (p *project) auditRecorder() (*audit.Recorder, func(), error) {
	if !p.settings.Initialized() {
		return audit.NewRecorder(nil), func() {}, nil
	}

	f, err := audit.OpenLog(filepath.Join(p.settings.ProjectPath, utils.ProjectDirName))
	if err != nil {
		return nil, nil, fmt.Errorf("opening audit log: %w", err)
	}
	return audit.NewRecorder(f), func() { _ = f.Close() }, nil
}

// relative shortens path for display.
func (p *project) relative(path string) string {
	return utils.RelativePath(p.root, path)
}
