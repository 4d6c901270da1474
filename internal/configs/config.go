package configs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/secrets"
	"github.com/PolarWolf314/envseal/internal/utils"

	"github.com/google/uuid"
)

const (
	// ConfigFileName is the project config inside the .envseal directory.
	ConfigFileName = "config.toml"

	// DefaultKeyEnv is the environment variable read for the key when the
	// config names none.
	DefaultKeyEnv = "ENVSEAL_KEY"
)

// Config is the project configuration stored in .envseal/config.toml.
type Config struct {
	Project    Project    `toml:"project"`
	Encryption Encryption `toml:"encryption"`
	Sensitive  Sensitive  `toml:"sensitive"`
	Key        Key        `toml:"key"`
	Files      Files      `toml:"files"`
}

type Project struct {
	UUID string `toml:"project_uuid"`
	Name string `toml:"name"`
}

type Encryption struct {
	Algorithm   string `toml:"algorithm"`
	Concurrency int    `toml:"concurrency,omitempty"`
}

// Sensitive decides which keys are encrypted. See secrets.SensitivityPolicy.
type Sensitive struct {
	Keys     []string `toml:"keys"`
	Suffixes []string `toml:"suffixes"`
	Patterns []string `toml:"patterns"`
	Exclude  []string `toml:"exclude"`
}

// Key says where the encryption key comes from. Salt is only used for
// passphrase-derived keys.
type Key struct {
	Env  string `toml:"env"`
	File string `toml:"file,omitempty"`
	Salt string `toml:"salt,omitempty"`
}

type Files struct {
	Include []string `toml:"include"`
}

// Default returns the configuration used when a project has no config file.
func Default() *Config {
	policy := secrets.DefaultSensitivityPolicy()
	return &Config{
		Encryption: Encryption{Algorithm: string(secrets.DefaultAlgorithm)},
		Sensitive: Sensitive{
			Keys:     policy.Keys,
			Suffixes: policy.Suffixes,
			Patterns: []string{},
			Exclude:  []string{},
		},
		Key:   Key{Env: DefaultKeyEnv},
		Files: Files{Include: append([]string(nil), secrets.DefaultIncludePatterns...)},
	}
}

// New returns the default configuration for a freshly initialised project,
// with a project UUID and a passphrase salt.
func New(name string) (*Config, error) {
	salt, err := secrets.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	cfg := Default()
	cfg.Project = Project{UUID: GenerateProjectUUID(), Name: name}
	cfg.Key.Salt = base64.StdEncoding.EncodeToString(salt)
	return cfg, nil
}

// GenerateProjectUUID generates a new UUID for the project.
func GenerateProjectUUID() string {
	return uuid.New().String()
}

// ConfigPath returns the config file location for the project at projectPath.
func ConfigPath(projectPath string) string {
	return filepath.Join(projectPath, utils.ProjectDirName, ConfigFileName)
}

// Load reads the project config. Values missing from the file keep their
// defaults, and a missing file yields Default.
func Load(projectPath string) (*Config, error) {
	cfg := Default()
	if projectPath == "" {
		return cfg, nil
	}

	path := ConfigPath(projectPath)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	unknown, err := LoadTOML(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown keys %v", kerrors.ErrInvalidConfig, path, unknown)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the project at projectPath.
func Save(projectPath string, cfg *Config) error {
	if err := SaveTOML(ConfigPath(projectPath), cfg); err != nil {
		return fmt.Errorf("failed to save project config: %w", err)
	}
	return nil
}

// Validate checks every value the pipeline will rely on.
func (c *Config) Validate() error {
	if _, err := secrets.ParseAlgorithm(c.Encryption.Algorithm); err != nil {
		return fmt.Errorf("%w: encryption.algorithm: %w", kerrors.ErrInvalidConfig, err)
	}
	if c.Encryption.Concurrency < 0 {
		return fmt.Errorf("%w: encryption.concurrency must not be negative", kerrors.ErrInvalidConfig)
	}
	if err := c.SensitivityPolicy().Validate(); err != nil {
		return fmt.Errorf("%w: sensitive.patterns: %v", kerrors.ErrInvalidConfig, err)
	}
	if _, err := c.SaltBytes(); err != nil {
		return err
	}
	return nil
}

// Algorithm returns the configured algorithm, or the default when unset.
func (c *Config) Algorithm() secrets.Algorithm {
	alg, err := secrets.ParseAlgorithm(c.Encryption.Algorithm)
	if err != nil {
		return secrets.DefaultAlgorithm
	}
	return alg
}

// SensitivityPolicy converts the [sensitive] section.
func (c *Config) SensitivityPolicy() secrets.SensitivityPolicy {
	return secrets.SensitivityPolicy{
		Keys:     c.Sensitive.Keys,
		Suffixes: c.Sensitive.Suffixes,
		Patterns: c.Sensitive.Patterns,
		Exclude:  c.Sensitive.Exclude,
	}
}

// SaltBytes decodes the passphrase salt. It returns nil when none is set.
func (c *Config) SaltBytes() ([]byte, error) {
	if c.Key.Salt == "" {
		return nil, nil
	}
	salt, err := base64.StdEncoding.DecodeString(c.Key.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: key.salt is not valid base64: %v", kerrors.ErrInvalidConfig, err)
	}
	return salt, nil
}

// KeyFile returns the configured key file, resolved against projectPath.
func (c *Config) KeyFile(projectPath string) string {
	if c.Key.File == "" || filepath.IsAbs(c.Key.File) || projectPath == "" {
		return c.Key.File
	}
	return filepath.Join(projectPath, c.Key.File)
}
