package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders one kind of CLI text. With color it paints the text;
// without color it falls back to a plain decoration so the meaning survives
// in logs and pipes.
type Formatter struct {
	color *color.Color
	plain func(string) string
}

func newFormatter(attr color.Attribute, plain func(string) string) Formatter {
	if plain == nil {
		plain = func(s string) string { return s }
	}
	return Formatter{color: color.New(attr), plain: plain}
}

// Sprint formats the arguments like fmt.Sprint.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if ColorDisabled() {
		return f.plain(text)
	}
	return f.color.Sprint(text)
}

// ColorDisabled reports whether output should be plain text: NO_COLOR is set
// (https://no-color.org/) or fatih/color decided the terminal cannot show it.
func ColorDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return color.NoColor
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func wrap(open, close string) func(string) string {
	return func(s string) string { return open + s + close }
}

var (
	// Code is a command the user can run: yellow, or `backticks`.
	Code = newFormatter(color.FgYellow, wrap("`", "`"))

	// Path is a file or directory.
	Path = newFormatter(color.FgYellow, nil)

	// Flag is a command line flag such as --key-file.
	Flag = newFormatter(color.FgYellow, nil)

	Success = newFormatter(color.FgGreen, nil)
	Error   = newFormatter(color.FgRed, nil)
	Warning = newFormatter(color.FgYellow, nil)
	Info    = newFormatter(color.FgCyan, nil)

	// Highlight is a user value: a variable name, a count, a project name.
	// Cyan, or 'single quotes'.
	Highlight = newFormatter(color.FgCyan, wrap("'", "'"))

	// Muted is secondary detail: gray, or (parentheses).
	Muted = newFormatter(color.FgHiBlack, wrap("(", ")"))
)
