// Package cipher implements Caesar and Vigenère substitution over a
// configurable alphabet. Transforms are pure: non-alphabet runes pass
// through unchanged at their positions, and every transformed rune
// keeps the case of its source.
package cipher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sorenwolf/klartext/internal/alphabet"
)

// ErrInvalidKey marks keys that cannot drive a transform: empty keys,
// or Vigenère keys containing out-of-alphabet symbols.
var ErrInvalidKey = errors.New("invalid key")

// CaesarEncrypt shifts every alphabet rune forward by shift mod the
// alphabet size. Any int is accepted; it is reduced into [0, N).
func CaesarEncrypt(text string, shift int, a alphabet.Alphabet) string {
	return caesarShift(text, shift, a)
}

// CaesarDecrypt is CaesarEncrypt with the shift negated.
func CaesarDecrypt(text string, shift int, a alphabet.Alphabet) string {
	return caesarShift(text, -shift, a)
}

func caesarShift(text string, shift int, a alphabet.Alphabet) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		i, ok := a.Index(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(alphabet.MatchCase(a.Rune(i+shift), r))
	}
	return b.String()
}

// KeyShifts maps a Vigenère key to per-position shift values.
func KeyShifts(key string, a alphabet.Alphabet) ([]int, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	shifts := make([]int, 0, len(key))
	for _, r := range key {
		i, ok := a.Index(r)
		if !ok {
			return nil, fmt.Errorf("%w: symbol %q is not in the alphabet", ErrInvalidKey, r)
		}
		shifts = append(shifts, i)
	}
	return shifts, nil
}

// ShiftsToKey renders per-position shifts as a key string.
func ShiftsToKey(shifts []int, a alphabet.Alphabet) string {
	var b strings.Builder
	for _, s := range shifts {
		b.WriteRune(a.Rune(s))
	}
	return b.String()
}

// VigenereEncrypt applies a repeating key of Caesar shifts. The key
// position advances only when an alphabet rune is consumed, so
// punctuation and whitespace never eat a key symbol.
func VigenereEncrypt(text, key string, a alphabet.Alphabet) (string, error) {
	return vigenereShift(text, key, false, a)
}

// VigenereDecrypt inverts VigenereEncrypt for the same key.
func VigenereDecrypt(text, key string, a alphabet.Alphabet) (string, error) {
	return vigenereShift(text, key, true, a)
}

func vigenereShift(text, key string, reverse bool, a alphabet.Alphabet) (string, error) {
	shifts, err := KeyShifts(key, a)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, r := range text {
		i, ok := a.Index(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		shift := shifts[pos%len(shifts)]
		if reverse {
			shift = -shift
		}
		b.WriteRune(alphabet.MatchCase(a.Rune(i+shift), r))
		pos++
	}
	return b.String(), nil
}

// HashKey folds a word into a single Caesar shift: the sum of its
// symbol indices mod the alphabet size. Out-of-alphabet symbols are
// skipped, matching the pass-through rule of the transforms.
func HashKey(word string, a alphabet.Alphabet) int {
	sum := 0
	for _, r := range word {
		if i, ok := a.Index(r); ok {
			sum = (sum + i) % a.Len()
		}
	}
	return sum
}

// ParseCaesarKey interprets a user-supplied Caesar key: a plain
// integer shift (reduced into [0, N)), or a word folded with HashKey.
func ParseCaesarKey(key string, a alphabet.Alphabet) (int, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if shift, err := strconv.Atoi(key); err == nil {
		n := a.Len()
		return ((shift % n) + n) % n, nil
	}
	return HashKey(key, a), nil
}
