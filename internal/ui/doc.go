// Package ui formats envseal's terminal output.
//
// Each Formatter names a kind of text rather than a color. When color is
// available the text is painted; when NO_COLOR is set or the output is not a
// terminal, a plain decoration is used instead:
//
//	ui.Code.Sprint("envseal init")   // `envseal init`
//	ui.Highlight.Sprint("API_KEY")   // 'API_KEY'
//	ui.Muted.Sprint("unchanged")     // (unchanged)
//	ui.Path.Sprint(".env")           // .env
//
// The status helpers (Mark, State, Count) build on these for the per-file and
// per-variable lines printed by encrypt, decrypt and status.
package ui
