package configs

import (
	"os"
	"path/filepath"
	"testing"
)

type tomlFixture struct {
	Name    string   `toml:"name"`
	Workers int      `toml:"workers"`
	Globs   []string `toml:"globs"`
}

func TestSaveAndLoadTOML(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.toml")

	original := tomlFixture{Name: "billing", Workers: 3, Globs: []string{"**/.env"}}
	if err := SaveTOML(testFile, original); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	var loaded tomlFixture
	unknown, err := LoadTOML(testFile, &loaded)
	if err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("Expected no unknown keys, got %v", unknown)
	}
	if loaded.Name != original.Name || loaded.Workers != original.Workers {
		t.Errorf("Expected %+v, got %+v", original, loaded)
	}
	if len(loaded.Globs) != 1 || loaded.Globs[0] != "**/.env" {
		t.Errorf("Expected globs [**/.env], got %v", loaded.Globs)
	}
}

func TestLoadTOMLReportsUnknownKeys(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.toml")
	if err := os.WriteFile(testFile, []byte("name = \"x\"\nworkerz = 2\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var loaded tomlFixture
	unknown, err := LoadTOML(testFile, &loaded)
	if err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if len(unknown) != 1 || unknown[0] != "workerz" {
		t.Errorf("Expected [workerz], got %v", unknown)
	}
}

func TestLoadTOMLNonExistent(t *testing.T) {
	var data tomlFixture
	if _, err := LoadTOML(filepath.Join(t.TempDir(), "nonexistent.toml"), &data); err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
}

func TestSaveTOMLCreatesDirectory(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "subdir", "test.toml")

	if err := SaveTOML(testFile, tomlFixture{Name: "Test"}); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}
	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("File was not created")
	}
}
