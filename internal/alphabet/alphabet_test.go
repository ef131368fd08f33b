package alphabet

import "testing"

func TestIndexRoundTrip(t *testing.T) {
	for i := 0; i < Latin.Len(); i++ {
		r := Latin.Rune(i)
		got, ok := Latin.Index(r)
		if !ok {
			t.Fatalf("rune %q not found in its own alphabet", r)
		}
		if got != i {
			t.Fatalf("index of %q: got %d, want %d", r, got, i)
		}
	}
}

func TestIndexFoldsCase(t *testing.T) {
	lower, ok := Latin.Index('e')
	if !ok {
		t.Fatalf("expected 'e' in Latin alphabet")
	}
	upper, ok := Latin.Index('E')
	if !ok {
		t.Fatalf("expected 'E' in Latin alphabet")
	}
	if lower != upper {
		t.Fatalf("case-folded indices differ: %d vs %d", lower, upper)
	}
}

func TestIndexRejectsNonAlphabet(t *testing.T) {
	for _, r := range []rune{' ', '7', '!', 'ß'} {
		if _, ok := Latin.Index(r); ok {
			t.Fatalf("expected %q outside Latin alphabet", r)
		}
	}
}

func TestRuneWrapsModLen(t *testing.T) {
	if got := Latin.Rune(26); got != 'a' {
		t.Fatalf("Rune(26): got %q, want 'a'", got)
	}
	if got := Latin.Rune(-1); got != 'z' {
		t.Fatalf("Rune(-1): got %q, want 'z'", got)
	}
}

func TestFromStringRejectsDuplicates(t *testing.T) {
	if _, err := FromString("abca"); err == nil {
		t.Fatalf("expected duplicate symbol error")
	}
	if _, err := FromString("aA"); err == nil {
		t.Fatalf("expected case-folded duplicate error")
	}
	if _, err := FromString(""); err == nil {
		t.Fatalf("expected empty alphabet error")
	}
}

func TestMatchCase(t *testing.T) {
	if got := MatchCase('k', 'H'); got != 'K' {
		t.Fatalf("MatchCase('k', 'H'): got %q, want 'K'", got)
	}
	if got := MatchCase('K', 'h'); got != 'k' {
		t.Fatalf("MatchCase('K', 'h'): got %q, want 'k'", got)
	}
}

func TestGuess(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Alphabet
	}{
		{"letters only", "Hello World", Latin},
		{"letters and digits", "agent 007", LatinDigits},
		{"punctuation", "wait... what?!", Printable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Guess(tt.text)
			if got.Len() != tt.want.Len() {
				t.Fatalf("guessed alphabet of %d symbols, want %d", got.Len(), tt.want.Len())
			}
		})
	}
}
