package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/envseal/internal/envfile"
	kerrors "github.com/PolarWolf314/envseal/internal/errors"

	"github.com/joho/godotenv"
)

// RuntimeResolver gives read-only access to decrypted variables, for callers
// that need a credential at run time without rewriting the file.
type RuntimeResolver struct {
	Crypto *CryptoService
}

// NewRuntimeResolver returns a resolver backed by crypto.
func NewRuntimeResolver(crypto *CryptoService) *RuntimeResolver {
	return &RuntimeResolver{Crypto: crypto}
}

// Lookup returns the value of name in the file at path, decrypted if needed
// and interpreted with dotenv quoting rules. The last definition wins.
func (r *RuntimeResolver) Lookup(path, name string, key []byte) (string, error) {
	doc, err := r.read(path)
	if err != nil {
		return "", err
	}

	line, ok := doc.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", kerrors.ErrVariableNotFound, name, path)
	}

	raw, err := r.plaintext(line, key)
	if err != nil {
		return "", err
	}

	values, err := godotenv.Unmarshal(line.Key + "=" + literalDollars(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", kerrors.ErrFileFormat, name, err)
	}
	return values[line.Key], nil
}

// Load returns every variable in the file at path with envelopes decrypted in
// memory. The file on disk is not touched.
func (r *RuntimeResolver) Load(path string, key []byte) (map[string]string, error) {
	doc, err := r.read(path)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, line := range doc.Lines {
		if line.Kind != envfile.KindAssignment {
			continue
		}
		raw, err := r.plaintext(line, key)
		if err != nil {
			return nil, err
		}
		b.WriteString(line.Key)
		b.WriteString("=")
		b.WriteString(literalDollars(raw))
		b.WriteString("\n")
	}

	values, err := godotenv.Unmarshal(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrFileFormat, path, err)
	}
	return values, nil
}

func (r *RuntimeResolver) read(path string) (*envfile.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrFileAccess, path, err)
	}
	return envfile.Parse(path, data)
}

func (r *RuntimeResolver) plaintext(line *envfile.Line, key []byte) (string, error) {
	lead, core, trail := splitSpace(line.Value)
	if !HasEnvelopeMarker(core) {
		return line.Value, nil
	}

	plaintext, err := r.Crypto.DecryptString(core, key)
	if err == nil {
		err = singleLine(plaintext)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", line.Key, err)
	}
	return lead + plaintext + trail, nil
}

// literalDollars escapes $ so godotenv does not expand $VAR references in
// unquoted or double-quoted values. Single-quoted values are already literal.
func literalDollars(raw string) string {
	if strings.HasPrefix(strings.TrimSpace(raw), "'") {
		return raw
	}
	return strings.ReplaceAll(raw, "$", `\$`)
}
