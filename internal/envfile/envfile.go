package envfile

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
)

// Kind describes how a line was recognized.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindAssignment
	// KindOpaque is any line that is not blank, a comment or KEY=value. It is
	// written back verbatim.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindAssignment:
		return "assignment"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// assignmentRe matches `KEY=value`, optionally preceded by whitespace and an
// `export` keyword, with optional spaces before the `=`.
var assignmentRe = regexp.MustCompile(`^(\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_.-]*)\s*=)(.*)$`)

// Line is one physical line of an environment file.
type Line struct {
	Num    int    // 1-based line number.
	Raw    string // Original text without the line terminator.
	Ending string // "\n", "\r\n", or "" for an unterminated final line.
	Kind   Kind

	// Set for assignments only.
	Key   string
	Value string

	prefix   string // Everything up to and including '='.
	modified bool
}

// SetValue replaces the value of an assignment line.
func (l *Line) SetValue(value string) {
	if l.Kind != KindAssignment {
		return
	}
	l.Value = value
	l.modified = true
}

// Modified reports whether SetValue was called on the line.
func (l *Line) Modified() bool {
	return l.modified
}

// String returns the line as it would be written, without its terminator.
func (l *Line) String() string {
	if !l.modified {
		return l.Raw
	}
	return l.prefix + l.Value
}

// Document is an ordered, format-preserving view of an environment file.
type Document struct {
	Path  string
	Lines []*Line

	bom bool
}

// Parse splits data into lines and classifies each of them. Only invalid
// UTF-8 is an error; anything unrecognized becomes an opaque line.
func Parse(path string, data []byte) (*Document, error) {
	doc := &Document{Path: path}

	if bytes.HasPrefix(data, utf8BOM) {
		doc.bom = true
		data = data[len(utf8BOM):]
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", kerrors.ErrFileFormat, path)
	}

	text := string(data)
	num := 0
	for len(text) > 0 {
		num++
		var raw, ending string
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			raw, ending, text = text[:i], "\n", text[i+1:]
			if strings.HasSuffix(raw, "\r") {
				raw, ending = raw[:len(raw)-1], "\r\n"
			}
		} else {
			raw, text = text, ""
		}
		doc.Lines = append(doc.Lines, parseLine(num, raw, ending))
	}

	return doc, nil
}

func parseLine(num int, raw, ending string) *Line {
	line := &Line{Num: num, Raw: raw, Ending: ending}

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		line.Kind = KindBlank
	case strings.HasPrefix(trimmed, "#"):
		line.Kind = KindComment
	default:
		m := assignmentRe.FindStringSubmatch(raw)
		if m == nil {
			line.Kind = KindOpaque
			return line
		}
		line.Kind = KindAssignment
		line.prefix = m[1]
		line.Key = m[2]
		line.Value = m[3]
	}

	return line
}

// Bytes serializes the document. Untouched lines are reproduced exactly.
func (d *Document) Bytes() []byte {
	var b bytes.Buffer
	if d.bom {
		b.Write(utf8BOM)
	}
	for _, l := range d.Lines {
		b.WriteString(l.String())
		b.WriteString(l.Ending)
	}
	return b.Bytes()
}

// Assignments returns the assignment lines in file order.
func (d *Document) Assignments() []*Line {
	var out []*Line
	for _, l := range d.Lines {
		if l.Kind == KindAssignment {
			out = append(out, l)
		}
	}
	return out
}

// Lookup returns the last assignment of key, matching dotenv semantics where
// a later definition wins.
func (d *Document) Lookup(key string) (*Line, bool) {
	for i := len(d.Lines) - 1; i >= 0; i-- {
		l := d.Lines[i]
		if l.Kind == KindAssignment && l.Key == key {
			return l, true
		}
	}
	return nil, false
}

// Modified reports whether any line has been changed.
func (d *Document) Modified() bool {
	for _, l := range d.Lines {
		if l.modified {
			return true
		}
	}
	return false
}
