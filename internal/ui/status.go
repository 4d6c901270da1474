package ui

// Mark returns a check or a cross for a per-item result.
func Mark(ok bool) string {
	if ok {
		return Success.Sprint("✓")
	}
	return Error.Sprint("✗")
}

// State renders a variable state from envseal status: encrypted values are
// green, plaintext sensitive values yellow, everything else muted.
func State(state string) string {
	switch state {
	case "encrypted":
		return Success.Sprint(state)
	case "plaintext":
		return Warning.Sprint(state)
	case "invalid":
		return Error.Sprint(state)
	default:
		return Muted.Sprint(state)
	}
}

// Count renders n followed by noun, pluralised with a trailing "s".
func Count(n int, noun string) string {
	if n == 1 {
		return Highlight.Sprintf("%d", n) + " " + noun
	}
	return Highlight.Sprintf("%d", n) + " " + noun + "s"
}
