package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapToWidth hard-wraps text to the given display width, honoring
// existing newlines and the display width of wide runes.
func wrapToWidth(text string, width int) string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		var line strings.Builder
		lineWidth := 0
		for _, r := range paragraph {
			w := runewidth.RuneWidth(r)
			if lineWidth+w > width && lineWidth > 0 {
				out = append(out, line.String())
				line.Reset()
				lineWidth = 0
			}
			line.WriteRune(r)
			lineWidth += w
		}
		out = append(out, line.String())
	}
	return strings.Join(out, "\n")
}
