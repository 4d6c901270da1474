package secrets

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// memLogger collects records in memory.
type memLogger struct {
	mu      sync.Mutex
	records []loggedOutcome
}

type loggedOutcome struct {
	Path    string
	Outcome VariableOutcome
}

func (m *memLogger) Record(path string, o VariableOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, loggedOutcome{path, o})
}

func (m *memLogger) forPath(path string) []VariableOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []VariableOutcome
	for _, r := range m.records {
		if r.Path == path {
			out = append(out, r.Outcome)
		}
	}
	return out
}

// writeTestFile is a helper to write test files with 0644 permissions.
// #nosec G306 -- Test files are temporary and don't contain real secrets.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { // #nosec G306
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read test file: %v", err)
	}
	return string(data)
}

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func mustEncrypt(t *testing.T, plaintext string) string {
	t.Helper()
	text, err := (&CryptoService{}).EncryptString(plaintext, testKey)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	return text
}

// corrupt returns a well-formed envelope whose tag no longer verifies.
func corrupt(t *testing.T, envelope string) string {
	t.Helper()
	env, err := ParseEnvelope(envelope)
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}
	env.Tag[0] ^= 0xFF
	return env.String()
}

// policyFor marks exactly keys as sensitive.
func policyFor(keys ...string) SensitivityPolicy {
	return SensitivityPolicy{Keys: keys}
}

func newTestEncryptor(policy SensitivityPolicy, logger OperationLogger) *FileEncryptor {
	return NewFileEncryptor(NewResolver(policy), NewExecutor(&CryptoService{}), logger)
}

// leftoverTempFiles lists temporary files the atomic writer left in dir.
func leftoverTempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.envseal-*.tmp"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	return matches
}
