package analysis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sorenwolf/klartext/internal/alphabet"
	"github.com/sorenwolf/klartext/internal/cipher"
	"github.com/sorenwolf/klartext/internal/lang"
	"github.com/sorenwolf/klartext/internal/score"
)

// BreakCaesar recovers the shift of a Caesar ciphertext by trying
// every candidate and keeping the one whose decryption best fits the
// reference profile. Ties break to the smallest shift.
func BreakCaesar(ctx context.Context, ciphertext string, profile lang.Profile, a alphabet.Alphabet, opts Options) (Result, error) {
	counts, total := score.Counts(ciphertext, a)
	if total == 0 {
		return Result{}, fmt.Errorf("ciphertext has no alphabet symbols: %w", ErrInsufficientData)
	}

	shift, distance, err := bestShift(ctx, counts, total, profile, a, opts.Workers)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Cipher:        CipherCaesar,
		Key:           strconv.Itoa(shift),
		Shifts:        []int{shift},
		Plaintext:     cipher.CaesarDecrypt(ciphertext, shift, a),
		Distance:      distance,
		LowConfidence: total < minConfidentSample,
	}, nil
}

// bestShift finds the decryption shift minimizing the chi-squared fit
// of the observed counts. Shared with the per-column Vigenère stage.
func bestShift(ctx context.Context, counts []int, total int, profile lang.Profile, a alphabet.Alphabet, workers int) (int, float64, error) {
	return searchMin(ctx, a.Len(), workers, func(shift int) float64 {
		return score.ChiSquared(rotate(counts, shift), total, profile, a)
	})
}
