// Package alphabet defines the symbol sets cipher operations run over.
package alphabet

import (
	"fmt"
	"unicode"
)

// Alphabet is an ordered, immutable set of symbols with a stable
// index for each. Lookup is case-insensitive; transforms are expected
// to restore the case of the source rune via MatchCase.
type Alphabet struct {
	runes   []rune
	indices map[rune]int
}

// Built-in alphabets, smallest to largest. Guess picks the first one
// that covers a text. Lookups fold case, so a single lowercase ladder
// covers mixed-case input.
var (
	Latin       = mustFromString("abcdefghijklmnopqrstuvwxyz")
	LatinDigits = mustFromString("abcdefghijklmnopqrstuvwxyz0123456789")
	Printable   = mustFromString("abcdefghijklmnopqrstuvwxyz0123456789.,;:!?'\"()[]{}<>+-*/=\\|&%$#@^~`_")

	guessLadder = []Alphabet{Latin, LatinDigits, Printable}
)

// FromString builds an alphabet from an ordered symbol string.
// Symbols that fold to the same lowercase rune are duplicates.
func FromString(symbols string) (Alphabet, error) {
	runes := []rune(symbols)
	if len(runes) == 0 {
		return Alphabet{}, fmt.Errorf("alphabet must not be empty")
	}
	indices := make(map[rune]int, len(runes))
	for i, r := range runes {
		folded := unicode.ToLower(r)
		if _, ok := indices[folded]; ok {
			return Alphabet{}, fmt.Errorf("duplicate symbol %q in alphabet", r)
		}
		indices[folded] = i
	}
	return Alphabet{runes: runes, indices: indices}, nil
}

func mustFromString(symbols string) Alphabet {
	a, err := FromString(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the number of symbols.
func (a Alphabet) Len() int {
	return len(a.runes)
}

// Index returns the index of a rune, folding case. The second return
// is false for runes outside the alphabet; callers treat those as
// pass-through, not as errors.
func (a Alphabet) Index(r rune) (int, bool) {
	i, ok := a.indices[unicode.ToLower(r)]
	return i, ok
}

// Rune returns the symbol at index i mod Len, so shifted indices may
// be passed directly.
func (a Alphabet) Rune(i int) rune {
	n := len(a.runes)
	i %= n
	if i < 0 {
		i += n
	}
	return a.runes[i]
}

// Contains reports whether the rune is in the alphabet.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a.Index(r)
	return ok
}

// MatchCase returns r with the case of src.
func MatchCase(r, src rune) rune {
	if unicode.IsUpper(src) {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}

// String returns the ordered symbols.
func (a Alphabet) String() string {
	return string(a.runes)
}

// Guess returns the smallest built-in alphabet covering every
// non-whitespace symbol of the text. Text with symbols outside all
// built-in sets falls back to the largest one.
func Guess(text string) Alphabet {
ladder:
	for _, a := range guessLadder {
		for _, r := range text {
			if unicode.IsSpace(r) {
				continue
			}
			if !a.Contains(r) {
				continue ladder
			}
		}
		return a
	}
	return Printable
}
