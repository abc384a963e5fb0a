package retrieval

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended whenever assembled context exceeds the
// character budget.
const TruncationMarker = "..."

// DefaultMaxContextChars bounds the assembled context for the
// generation prompt.
const DefaultMaxContextChars = 15000

// Context is the assembled grounding block for a generation prompt.
// Empty distinguishes "no grounding at all" from a zero-length text so
// callers can skip generation entirely. Lengths count characters, not
// bytes; record contents are not ASCII (price ranges carry "₹").
type Context struct {
	Text        string
	OriginalLen int
	Truncated   bool
	Empty       bool
}

// Assembler concatenates ranked records into one bounded text block.
type Assembler struct {
	MaxChars int
}

func (a Assembler) withDefaults() Assembler {
	if a.MaxChars <= 0 {
		a.MaxChars = DefaultMaxContextChars
	}
	return a
}

// Assemble joins match contents in rank order, separated by a newline,
// truncating to the budget with an explicit marker. The pre-truncation
// length is preserved for observability.
func (a Assembler) Assemble(matches []Match) Context {
	a = a.withDefaults()
	if len(matches) == 0 {
		return Context{Empty: true}
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.Record.Content
	}
	text := strings.Join(parts, "\n")

	runes := utf8.RuneCountInString(text)
	ctx := Context{Text: text, OriginalLen: runes}
	if runes > a.MaxChars {
		ctx.Text = truncateRunes(text, a.MaxChars) + TruncationMarker
		ctx.Truncated = true
	}
	return ctx
}

// truncateRunes cuts s after n characters, never inside a rune.
func truncateRunes(s string, n int) string {
	seen := 0
	for i := range s {
		if seen == n {
			return s[:i]
		}
		seen++
	}
	return s
}
