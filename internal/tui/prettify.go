// Package tui provides the Bubble Tea cipher workbench.
package tui

import "strings"

// Whitespace made visible in the output pane, so shifted control
// characters and spaces in ciphertext can be told apart.
var prettifyReplacements = map[rune]rune{
	' ':  '␣',
	'\n': '↵',
	'\t': '⇥',
	'\r': '⇤',
}

// Prettify replaces whitespace with visible glyphs for display.
func Prettify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := prettifyReplacements[r]; ok {
			if r == '\n' {
				b.WriteRune(repl)
				b.WriteRune('\n')
				continue
			}
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
