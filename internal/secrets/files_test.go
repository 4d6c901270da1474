package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/google/go-cmp/cmp"
)

func setupEnvTree(t *testing.T) string {
	t.Helper()
	dir := tempDir(t)
	for _, rel := range []string{
		".env",
		".env.production",
		"services/api/.env",
		"services/api/app.env",
		"services/api/README.md",
		".envseal/config.env",
		".env.envseal-123.tmp",
	} {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		writeTestFile(t, path, "X=1\n")
	}
	return dir
}

func TestFindEnvFiles(t *testing.T) {
	dir := setupEnvTree(t)

	files, err := FindEnvFiles(dir, nil)
	if err != nil {
		t.Fatalf("FindEnvFiles failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, ".env.production"),
		filepath.Join(dir, "services/api/.env"),
		filepath.Join(dir, "services/api/app.env"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("Unexpected files (-want +got):\n%s", diff)
	}
}

func TestResolveFiles(t *testing.T) {
	dir := setupEnvTree(t)

	files, err := ResolveFiles([]string{"services", ".env", "services/**/*.env"}, dir)
	if err != nil {
		t.Fatalf("ResolveFiles failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "services/api/.env"),
		filepath.Join(dir, "services/api/app.env"),
		filepath.Join(dir, ".env"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("Unexpected files (-want +got):\n%s", diff)
	}

	literal := filepath.Join(dir, "services/api/README.md")
	files, err = ResolveFiles([]string{literal}, dir)
	if err != nil {
		t.Fatalf("ResolveFiles failed: %v", err)
	}
	if len(files) != 1 || files[0] != literal {
		t.Errorf("Expected literal path to be taken as given, got %v", files)
	}
}

func TestResolveFiles_Errors(t *testing.T) {
	dir := setupEnvTree(t)

	if _, err := ResolveFiles([]string{"nope.env"}, dir); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
	if _, err := ResolveFiles([]string{"**/*.yaml"}, dir); !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound, got %v", err)
	}
	files, err := ResolveFiles(nil, dir)
	if err != nil || files != nil {
		t.Errorf("Expected nil result for no patterns, got %v, %v", files, err)
	}
}
