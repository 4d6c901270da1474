package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/secrets"
	"github.com/PolarWolf314/envseal/internal/utils"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, projectPath, content string) {
	t.Helper()
	dir := filepath.Join(projectPath, utils.ProjectDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Expected defaults (-want +got):\n%s", diff)
	}

	cfg, err = Load("")
	if err != nil || cfg == nil {
		t.Fatalf("Expected defaults outside a project, got %v, %v", cfg, err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[encryption]
algorithm = "aes256gcm"

[sensitive]
patterns = ["AWS_*_KEY"]
exclude = ["PUBLIC_TOKEN"]
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Algorithm() != secrets.AlgorithmAESGCM {
		t.Errorf("Expected aes256gcm, got %s", cfg.Algorithm())
	}
	if cfg.Key.Env != DefaultKeyEnv {
		t.Errorf("Expected default key env, got %q", cfg.Key.Env)
	}
	if diff := cmp.Diff(secrets.DefaultSensitiveSuffixes, cfg.Sensitive.Suffixes); diff != "" {
		t.Errorf("Expected default suffixes (-want +got):\n%s", diff)
	}

	policy := cfg.SensitivityPolicy()
	if !policy.IsSensitive("AWS_ACCESS_KEY") {
		t.Errorf("Expected configured pattern to apply")
	}
	if policy.IsSensitive("PUBLIC_TOKEN") {
		t.Errorf("Expected excluded key not to be sensitive")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	cases := map[string]string{
		"syntax":      "[encryption\nalgorithm = 1",
		"unknown key": "[encryption]\nalgoritm = \"aes256gcm\"\n",
		"algorithm":   "[encryption]\nalgorithm = \"rot13\"\n",
		"concurrency": "[encryption]\nconcurrency = -1\n",
		"pattern":     "[sensitive]\npatterns = [\"[unclosed\"]\n",
		"salt":        "[key]\nsalt = \"not base64!\"\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, content)

			if _, err := Load(dir); !errors.Is(err, kerrors.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New("billing")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.Project.UUID == "" || cfg.Project.Name != "billing" {
		t.Errorf("Expected project identity, got %+v", cfg.Project)
	}
	salt, err := cfg.SaltBytes()
	if err != nil || len(salt) != secrets.SaltSize {
		t.Errorf("Expected %d byte salt, got %d (%v)", secrets.SaltSize, len(salt), err)
	}

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Unexpected config after round trip (-want +got):\n%s", diff)
	}
}

func TestKeyFile(t *testing.T) {
	cfg := Default()
	if got := cfg.KeyFile("/project"); got != "" {
		t.Errorf("Expected no key file, got %q", got)
	}

	cfg.Key.File = ".envseal/dev.key"
	if got := cfg.KeyFile("/project"); got != filepath.Join("/project", ".envseal/dev.key") {
		t.Errorf("Expected key file resolved against project, got %q", got)
	}

	cfg.Key.File = "/etc/envseal.key"
	if got := cfg.KeyFile("/project"); got != "/etc/envseal.key" {
		t.Errorf("Expected absolute key file unchanged, got %q", got)
	}
}

func TestSettingsFor(t *testing.T) {
	s := SettingsFor("/work/billing")
	if !s.Initialized() {
		t.Fatalf("Expected settings to be initialised")
	}
	if s.ProjectName != "billing" {
		t.Errorf("Expected project name billing, got %q", s.ProjectName)
	}
	if s.ConfigPath != filepath.Join("/work/billing", ".envseal", "config.toml") {
		t.Errorf("Unexpected config path %q", s.ConfigPath)
	}

	if SettingsFor("").Initialized() {
		t.Errorf("Expected empty settings outside a project")
	}
}
