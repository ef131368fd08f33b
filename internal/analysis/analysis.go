// Package analysis recovers keys from Caesar and Vigenère ciphertext
// by fitting candidate decryptions to reference letter frequencies.
package analysis

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrInsufficientData marks ciphertext with no alphabet symbols at
// all: there is nothing to score. Short-but-nonempty input degrades
// to a low-confidence result instead.
var ErrInsufficientData = errors.New("insufficient data")

// Ciphers named in results and history records.
const (
	CipherCaesar   = "caesar"
	CipherVigenere = "vigenere"
)

// Options tunes a break run. The zero value picks sensible defaults.
type Options struct {
	// MaxKeyLen bounds the Vigenère key-length search. Zero means
	// min(alphabetSymbols/2, 20).
	MaxKeyLen int
	// Workers caps the parallel candidate search. Zero means
	// GOMAXPROCS.
	Workers int
}

// Result is a recovered key with its decryption and fit quality.
// Distance is the chi-squared fit of the recovered plaintext, lower
// meaning more confident. LowConfidence flags samples too short for
// the statistics to be reliable.
type Result struct {
	Cipher        string
	Key           string
	Shifts        []int
	Plaintext     string
	Distance      float64
	LowConfidence bool
}

// maxVigenereKeyLen bounds the default key-length search.
const maxVigenereKeyLen = 20

// minConfidentSample is the alphabet-symbol count below which a
// Caesar break is flagged low-confidence. The Vigenère breaker applies
// it per key-stream column.
const minConfidentSample = 40

// searchMin evaluates score for every candidate in [0, n), sharded
// across workers, and returns the candidate with the minimum score.
// Ties break to the smallest candidate regardless of which worker
// found it, so results are deterministic.
func searchMin(ctx context.Context, n, workers int, scoreFn func(int) float64) (int, float64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	type shardBest struct {
		candidate int
		score     float64
		found     bool
	}

	bests := make([]shardBest, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			best := shardBest{}
			for candidate := w; candidate < n; candidate += workers {
				if ctx.Err() != nil {
					return
				}
				s := scoreFn(candidate)
				if !best.found || s < best.score || (s == best.score && candidate < best.candidate) {
					best = shardBest{candidate: candidate, score: s, found: true}
				}
			}
			bests[w] = best
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	winner := shardBest{}
	for _, b := range bests {
		if !b.found {
			continue
		}
		if !winner.found || b.score < winner.score || (b.score == winner.score && b.candidate < winner.candidate) {
			winner = b
		}
	}
	if !winner.found {
		return 0, 0, ErrInsufficientData
	}
	return winner.candidate, winner.score, nil
}

// rotate shifts observed counts so they describe the decryption with
// the given shift: ciphertext symbol c came from plaintext symbol
// (c - shift) mod n.
func rotate(counts []int, shift int) []int {
	n := len(counts)
	out := make([]int, n)
	for i, c := range counts {
		out[(i-shift%n+n)%n] = c
	}
	return out
}
