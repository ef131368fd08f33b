// Package score measures how well a text fits a language's letter
// distribution.
package score

import (
	"math"

	"github.com/sorenwolf/klartext/internal/alphabet"
	"github.com/sorenwolf/klartext/internal/lang"
)

// Unscoreable is returned for samples with no alphabet symbols.
// It compares worse than every real distance.
const Unscoreable = math.MaxFloat64

// expectedFloor substitutes for an expected count of zero, so symbols
// absent from the reference profile still contribute a finite penalty.
const expectedFloor = 1e-4

// Counts tallies per-symbol observations over the alphabet, folding
// case and skipping non-alphabet runes. The second return is the
// total number of alphabet runes seen.
func Counts(text string, a alphabet.Alphabet) ([]int, int) {
	counts := make([]int, a.Len())
	total := 0
	for _, r := range text {
		if i, ok := a.Index(r); ok {
			counts[i]++
			total++
		}
	}
	return counts, total
}

// CountIndices tallies observations from pre-mapped alphabet indices.
func CountIndices(indices []int, n int) ([]int, int) {
	counts := make([]int, n)
	for _, i := range indices {
		counts[i]++
	}
	return counts, len(indices)
}

// ChiSquared computes the chi-squared statistic between observed
// per-symbol counts and the counts the reference profile predicts for
// a sample of the given total size. Lower is a better fit. A total of
// zero yields Unscoreable.
func ChiSquared(observed []int, total int, ref lang.Profile, a alphabet.Alphabet) float64 {
	if total == 0 {
		return Unscoreable
	}
	sum := 0.0
	for i, obs := range observed {
		expected := ref.Freq(a.Rune(i)) * float64(total)
		if expected <= 0 {
			if obs == 0 {
				continue
			}
			expected = expectedFloor
		}
		diff := float64(obs) - expected
		sum += diff * diff / expected
	}
	return sum
}

// Text scores a text directly against a reference profile.
func Text(text string, ref lang.Profile, a alphabet.Alphabet) float64 {
	counts, total := Counts(text, a)
	return ChiSquared(counts, total, ref, a)
}

// IndexOfCoincidence computes the probability that two random symbols
// of the sample are equal. English-like text sits near 0.066, uniform
// noise over 26 symbols near 0.038.
func IndexOfCoincidence(counts []int, total int) float64 {
	if total < 2 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		sum += float64(c) * float64(c-1)
	}
	return sum / (float64(total) * float64(total-1))
}
