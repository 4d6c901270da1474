package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PolarWolf314/envseal/internal/envfile"
	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func applyTo(t *testing.T, content string, policy SensitivityPolicy, op Operation) (*envfile.Document, []VariableOutcome) {
	t.Helper()
	doc, err := envfile.Parse("test.env", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	classified := NewResolver(policy).Classify(doc, op)
	outcomes, err := NewExecutor(&CryptoService{}).Apply(context.Background(), classified, testKey)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	return doc, outcomes
}

func TestApply_EncryptOutcomesInLineOrder(t *testing.T) {
	doc, outcomes := applyTo(t, "A=secret1\nB=plain\n#comment\nC=secret2\n", policyFor("A", "C"), OperationEncrypt)

	want := []VariableOutcome{
		{Key: "A", Line: 1, Operation: OutcomeEncrypted, Status: StatusSuccess},
		{Key: "B", Line: 2, Operation: OutcomeSkipped, Status: StatusSuccess},
		{Key: "C", Line: 4, Operation: OutcomeEncrypted, Status: StatusSuccess},
	}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Errorf("Unexpected outcomes (-want +got):\n%s", diff)
	}

	a, _ := doc.Lookup("A")
	b, _ := doc.Lookup("B")
	if !IsEnvelope(a.Value) {
		t.Errorf("Expected A to hold an envelope, got %q", a.Value)
	}
	if b.Value != "plain" || b.Modified() {
		t.Errorf("Expected B untouched, got %q", b.Value)
	}
}

func TestApply_PartialDecryptFailure(t *testing.T) {
	content := "A=" + mustEncrypt(t, "one") + "\n" +
		"B=" + corrupt(t, mustEncrypt(t, "two")) + "\n" +
		"C=" + mustEncrypt(t, "three") + "\n"

	doc, outcomes := applyTo(t, content, policyFor(), OperationDecrypt)

	want := []VariableOutcome{
		{Key: "A", Line: 1, Operation: OutcomeDecrypted, Status: StatusSuccess},
		{Key: "B", Line: 2, Operation: OutcomeDecrypted, Status: StatusFailed},
		{Key: "C", Line: 3, Operation: OutcomeDecrypted, Status: StatusSuccess},
	}
	if diff := cmp.Diff(want, outcomes, cmpopts.IgnoreFields(VariableOutcome{}, "Reason")); diff != "" {
		t.Errorf("Unexpected outcomes (-want +got):\n%s", diff)
	}
	if outcomes[1].Reason == "" {
		t.Errorf("Expected a failure reason for B")
	}

	b, _ := doc.Lookup("B")
	if b.Modified() {
		t.Errorf("Expected B to be left unmodified")
	}
}

func TestApply_OutcomesNeverContainValues(t *testing.T) {
	content := "A_SECRET=topsecretvalue\nB_SECRET=" + corrupt(t, mustEncrypt(t, "othersecret")) + "\n"

	_, enc := applyTo(t, content, DefaultSensitivityPolicy(), OperationEncrypt)
	_, dec := applyTo(t, content, DefaultSensitivityPolicy(), OperationDecrypt)

	for _, o := range append(enc, dec...) {
		text := fmt.Sprintf("%+v", o)
		for _, secret := range []string{"topsecretvalue", "othersecret", "envseal:"} {
			if strings.Contains(text, secret) {
				t.Errorf("Outcome leaks %q: %s", secret, text)
			}
		}
	}
}

func TestApply_PreservesWhitespaceAroundEnvelope(t *testing.T) {
	content := "A= " + mustEncrypt(t, "value") + "  \n"

	doc, _ := applyTo(t, content, policyFor(), OperationDecrypt)

	if got := string(doc.Bytes()); got != "A= value  \n" {
		t.Errorf("Expected surrounding whitespace kept, got %q", got)
	}
}

func TestApply_InvalidKeyTouchesNothing(t *testing.T) {
	doc, err := envfile.Parse("test.env", []byte("A=secret\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	classified := NewResolver(policyFor("A")).Classify(doc, OperationEncrypt)

	_, err = NewExecutor(&CryptoService{}).Apply(context.Background(), classified, []byte("short"))
	if !errors.Is(err, kerrors.ErrCryptoConfiguration) {
		t.Fatalf("Expected ErrCryptoConfiguration, got %v", err)
	}
	if doc.Modified() {
		t.Errorf("Expected document to be untouched")
	}
}

func TestApply_ManyEntriesWithLimitedConcurrency(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "KEY_%03d_SECRET=value-%d\n", i, i)
	}

	doc, err := envfile.Parse("test.env", []byte(b.String()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	executor := &Executor{Crypto: &CryptoService{}, Concurrency: 3}

	outcomes, err := executor.Apply(context.Background(), NewResolver(DefaultSensitivityPolicy()).Classify(doc, OperationEncrypt), testKey)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if len(outcomes) != 200 {
		t.Fatalf("Expected 200 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Line != i+1 {
			t.Fatalf("Expected outcome %d for line %d, got line %d", i, i+1, o.Line)
		}
		if o.Operation != OutcomeEncrypted || o.Status != StatusSuccess {
			t.Errorf("Line %d: expected encrypted/success, got %s/%s", o.Line, o.Operation, o.Status)
		}
	}
}

func TestApply_MarkerOnPlaintextFailsEncrypt(t *testing.T) {
	doc, outcomes := applyTo(t, "DB_PASSWORD=envseal:hunter2\nPORT=8080\n", DefaultSensitivityPolicy(), OperationEncrypt)

	want := []VariableOutcome{
		{Key: "DB_PASSWORD", Line: 1, Operation: OutcomeEncrypted, Status: StatusFailed},
		{Key: "PORT", Line: 2, Operation: OutcomeSkipped, Status: StatusSuccess},
	}
	if diff := cmp.Diff(want, outcomes, cmpopts.IgnoreFields(VariableOutcome{}, "Reason")); diff != "" {
		t.Errorf("Unexpected outcomes (-want +got):\n%s", diff)
	}
	if !strings.Contains(outcomes[0].Reason, "malformed envelope") {
		t.Errorf("Expected a malformed envelope reason, got %q", outcomes[0].Reason)
	}
	if doc.Modified() {
		t.Errorf("Expected the document to be left unmodified")
	}
}

func TestApply_MultiLinePlaintextFailsDecrypt(t *testing.T) {
	content := "CERT_SECRET=" + mustEncrypt(t, "line one\nline two") + "\n" +
		"CR_SECRET=" + mustEncrypt(t, "a\rb") + "\n" +
		"OK_SECRET=" + mustEncrypt(t, "fine") + "\n"

	doc, outcomes := applyTo(t, content, DefaultSensitivityPolicy(), OperationDecrypt)

	for _, o := range outcomes[:2] {
		if o.Status != StatusFailed || o.Operation != OutcomeDecrypted {
			t.Errorf("%s: expected decrypted/failed, got %s/%s", o.Key, o.Operation, o.Status)
		}
	}
	if outcomes[2].Status != StatusSuccess {
		t.Errorf("Expected OK_SECRET to decrypt, got %+v", outcomes[2])
	}
	if got := strings.Count(string(doc.Bytes()), "\n"); got != 3 {
		t.Errorf("Expected 3 lines after decrypt, got %d", got)
	}
	cert, _ := doc.Lookup("CERT_SECRET")
	if cert.Modified() {
		t.Errorf("Expected CERT_SECRET to keep its envelope")
	}
}

func TestApply_UnknownClassificationFails(t *testing.T) {
	doc, err := envfile.Parse("test.env", []byte("A=value\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	entries := []ClassifiedLine{{Line: doc.Lines[0], Class: Classification(99)}}

	outcomes, err := NewExecutor(&CryptoService{}).Apply(context.Background(), entries, testKey)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Status != StatusFailed {
		t.Fatalf("Expected one failed outcome, got %+v", outcomes)
	}
	if outcomes[0].Operation == "" || outcomes[0].Reason == "" {
		t.Errorf("Expected operation and reason to be set, got %+v", outcomes[0])
	}
	if doc.Modified() {
		t.Errorf("Expected the document to be left unmodified")
	}
}
