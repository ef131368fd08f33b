package analysis

import (
	"context"
	"fmt"

	"github.com/sorenwolf/klartext/internal/alphabet"
	"github.com/sorenwolf/klartext/internal/cipher"
	"github.com/sorenwolf/klartext/internal/lang"
	"github.com/sorenwolf/klartext/internal/score"
)

// BreakVigenere recovers a Vigenère key in two stages: estimate the
// key length from the ciphertext's periodic structure, then recover
// each key position with an independent Caesar break of its column.
func BreakVigenere(ctx context.Context, ciphertext string, profile lang.Profile, a alphabet.Alphabet, opts Options) (Result, error) {
	indices := stripToIndices(ciphertext, a)
	if len(indices) == 0 {
		return Result{}, fmt.Errorf("ciphertext has no alphabet symbols: %w", ErrInsufficientData)
	}

	maxLen := opts.MaxKeyLen
	if maxLen <= 0 {
		maxLen = len(indices) / 2
		if maxLen > maxVigenereKeyLen {
			maxLen = maxVigenereKeyLen
		}
	}
	if maxLen < 1 {
		maxLen = 1
	}
	if maxLen > len(indices) {
		maxLen = len(indices)
	}

	keyLen, _, err := EstimateKeyLength(ctx, indices, profile, a, maxLen, opts.Workers)
	if err != nil {
		return Result{}, err
	}

	shifts := make([]int, keyLen)
	distanceSum := 0.0
	for j := 0; j < keyLen; j++ {
		counts, total := score.CountIndices(column(indices, keyLen, j), a.Len())
		shift, distance, err := bestShift(ctx, counts, total, profile, a, opts.Workers)
		if err != nil {
			return Result{}, err
		}
		shifts[j] = shift
		distanceSum += distance
	}

	key := cipher.ShiftsToKey(shifts, a)
	plaintext, err := cipher.VigenereDecrypt(ciphertext, key, a)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decrypt with recovered key: %w", err)
	}

	return Result{
		Cipher:        CipherVigenere,
		Key:           key,
		Shifts:        shifts,
		Plaintext:     plaintext,
		Distance:      distanceSum / float64(keyLen),
		// Each key position is a Caesar break of its own column, so
		// every column needs the Caesar sample minimum.
		LowConfidence: len(indices) < minConfidentSample*keyLen,
	}, nil
}

// EstimateKeyLength picks the key length in [1, maxLen] whose columns
// look most like independently Caesar-shifted language text. Each
// column is scored by its best achievable chi-squared fit over all
// shifts, normalized by the column size so that a correct length
// (larger, better-fitting columns) beats its multiples. Ties break to
// the smallest length.
func EstimateKeyLength(ctx context.Context, indices []int, profile lang.Profile, a alphabet.Alphabet, maxLen, workers int) (int, float64, error) {
	if len(indices) == 0 {
		return 0, 0, fmt.Errorf("no alphabet symbols: %w", ErrInsufficientData)
	}
	if maxLen < 1 {
		maxLen = 1
	}
	if maxLen > len(indices) {
		maxLen = len(indices)
	}

	best, aggregate, err := searchMin(ctx, maxLen, workers, func(candidate int) float64 {
		return keyLengthFitness(ctx, indices, candidate+1, profile, a)
	})
	if err != nil {
		return 0, 0, err
	}
	return best + 1, aggregate, nil
}

// keyLengthFitness is the mean over columns of the best normalized
// chi-squared fit each column can achieve under a single shift.
func keyLengthFitness(ctx context.Context, indices []int, length int, profile lang.Profile, a alphabet.Alphabet) float64 {
	sum := 0.0
	for j := 0; j < length; j++ {
		if ctx.Err() != nil {
			return score.Unscoreable
		}
		counts, total := score.CountIndices(column(indices, length, j), a.Len())
		if total == 0 {
			return score.Unscoreable
		}
		best := score.Unscoreable
		for shift := 0; shift < a.Len(); shift++ {
			if d := score.ChiSquared(rotate(counts, shift), total, profile, a); d < best {
				best = d
			}
		}
		sum += best / float64(total)
	}
	return sum / float64(length)
}

// stripToIndices maps the ciphertext's alphabet runes to indices,
// dropping everything else.
func stripToIndices(text string, a alphabet.Alphabet) []int {
	indices := make([]int, 0, len(text))
	for _, r := range text {
		if i, ok := a.Index(r); ok {
			indices = append(indices, i)
		}
	}
	return indices
}

// column extracts the j-th of length interleaved subsequences.
func column(indices []int, length, j int) []int {
	out := make([]int, 0, len(indices)/length+1)
	for i := j; i < len(indices); i += length {
		out = append(out, indices[i])
	}
	return out
}
