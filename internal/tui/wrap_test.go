package tui

import "testing"

func TestWrapToWidth(t *testing.T) {
	got := wrapToWidth("abcdef", 3)
	if got != "abc\ndef" {
		t.Fatalf("got %q", got)
	}
}

func TestWrapToWidthKeepsNewlines(t *testing.T) {
	got := wrapToWidth("ab\ncd", 10)
	if got != "ab\ncd" {
		t.Fatalf("got %q", got)
	}
}

func TestWrapToWidthWideRunes(t *testing.T) {
	// Full-width runes occupy two cells, so only two fit per line.
	got := wrapToWidth("ＡＢＣ", 4)
	if got != "ＡＢ\nＣ" {
		t.Fatalf("got %q", got)
	}
}
