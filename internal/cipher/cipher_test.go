package cipher

import (
	"errors"
	"testing"

	"github.com/sorenwolf/klartext/internal/alphabet"
)

func TestCaesarKnownAnswer(t *testing.T) {
	got := CaesarEncrypt("HELLO WORLD", 3, alphabet.Latin)
	if got != "KHOOR ZRUOG" {
		t.Fatalf("caesar encrypt: got %q, want %q", got, "KHOOR ZRUOG")
	}
	back := CaesarDecrypt(got, 3, alphabet.Latin)
	if back != "HELLO WORLD" {
		t.Fatalf("caesar decrypt: got %q, want %q", back, "HELLO WORLD")
	}
}

func TestCaesarRoundTrip(t *testing.T) {
	text := "Pack my box with five dozen liquor jugs, 1963!"
	for shift := 0; shift < alphabet.Latin.Len(); shift++ {
		enc := CaesarEncrypt(text, shift, alphabet.Latin)
		dec := CaesarDecrypt(enc, shift, alphabet.Latin)
		if dec != text {
			t.Fatalf("shift %d: round trip got %q", shift, dec)
		}
	}
}

func TestCaesarNegativeShift(t *testing.T) {
	if got := CaesarEncrypt("abc", -1, alphabet.Latin); got != "zab" {
		t.Fatalf("negative shift: got %q, want %q", got, "zab")
	}
	if got := CaesarEncrypt("abc", 27, alphabet.Latin); got != "bcd" {
		t.Fatalf("wrapping shift: got %q, want %q", got, "bcd")
	}
}

func TestCaesarPreservesCaseAndPassThrough(t *testing.T) {
	got := CaesarEncrypt("Hello, World! 42", 3, alphabet.Latin)
	if got != "Khoor, Zruog! 42" {
		t.Fatalf("got %q, want %q", got, "Khoor, Zruog! 42")
	}
}

func TestVigenereKnownAnswer(t *testing.T) {
	// Classic example: ATTACKATDAWN under LEMON.
	got, err := VigenereEncrypt("ATTACKATDAWN", "LEMON", alphabet.Latin)
	if err != nil {
		t.Fatalf("vigenere encrypt: %v", err)
	}
	if got != "LXFOPVEFRNHR" {
		t.Fatalf("vigenere encrypt: got %q, want %q", got, "LXFOPVEFRNHR")
	}
	back, err := VigenereDecrypt(got, "LEMON", alphabet.Latin)
	if err != nil {
		t.Fatalf("vigenere decrypt: %v", err)
	}
	if back != "ATTACKATDAWN" {
		t.Fatalf("vigenere decrypt: got %q, want %q", back, "ATTACKATDAWN")
	}
}

func TestVigenereSkipsNonAlphabet(t *testing.T) {
	// The space must not consume a key symbol: the key stream
	// continues with the third symbol at 'c'.
	got, err := VigenereEncrypt("ab cd", "abcd", alphabet.Latin)
	if err != nil {
		t.Fatalf("vigenere encrypt: %v", err)
	}
	if got != "ac eg" {
		t.Fatalf("got %q, want %q", got, "ac eg")
	}
}

func TestVigenereRoundTripMixedText(t *testing.T) {
	text := "Wrong\rRight: mixed CASE, digits 0123 & newline\n."
	keys := []string{"k", "Key", "LongerKeyWord"}
	for _, key := range keys {
		enc, err := VigenereEncrypt(text, key, alphabet.Latin)
		if err != nil {
			t.Fatalf("key %q: encrypt: %v", key, err)
		}
		dec, err := VigenereDecrypt(enc, key, alphabet.Latin)
		if err != nil {
			t.Fatalf("key %q: decrypt: %v", key, err)
		}
		if dec != text {
			t.Fatalf("key %q: round trip got %q", key, dec)
		}
	}
}

func TestVigenereInvalidKey(t *testing.T) {
	if _, err := VigenereEncrypt("abc", "", alphabet.Latin); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("empty key: got %v, want ErrInvalidKey", err)
	}
	if _, err := VigenereEncrypt("abc", "k y", alphabet.Latin); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("out-of-alphabet key: got %v, want ErrInvalidKey", err)
	}
}

func TestKeyShiftsAndBack(t *testing.T) {
	shifts, err := KeyShifts("Key", alphabet.Latin)
	if err != nil {
		t.Fatalf("key shifts: %v", err)
	}
	want := []int{10, 4, 24}
	for i, s := range shifts {
		if s != want[i] {
			t.Fatalf("shift %d: got %d, want %d", i, s, want[i])
		}
	}
	if got := ShiftsToKey(shifts, alphabet.Latin); got != "key" {
		t.Fatalf("shifts to key: got %q, want %q", got, "key")
	}
}

func TestParseCaesarKey(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"3", 3},
		{"-1", 25},
		{"29", 3},
		{"b c", 3},
	}
	for _, tt := range tests {
		got, err := ParseCaesarKey(tt.key, alphabet.Latin)
		if err != nil {
			t.Fatalf("key %q: %v", tt.key, err)
		}
		if got != tt.want {
			t.Fatalf("key %q: got %d, want %d", tt.key, got, tt.want)
		}
	}
	if _, err := ParseCaesarKey("  ", alphabet.Latin); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("blank key: got %v, want ErrInvalidKey", err)
	}
}

func TestHashKey(t *testing.T) {
	// b + c = 1 + 2 = 3; the space is skipped.
	if got := HashKey("b c", alphabet.Latin); got != 3 {
		t.Fatalf("hash key: got %d, want 3", got)
	}
	if got := HashKey("", alphabet.Latin); got != 0 {
		t.Fatalf("empty hash key: got %d, want 0", got)
	}
}
