// Package lang holds reference letter-frequency profiles per language.
package lang

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/sorenwolf/klartext/internal/config"
)

//go:embed data/*.toml
var builtins embed.FS

// sumTolerance bounds how far a raw profile's total may drift from a
// round 100% (or 1.0) before it is rejected as malformed. Loaded
// profiles are normalized to sum exactly 1.
const sumTolerance = 0.02

// Profile is an immutable reference letter-frequency distribution for
// one language. Frequencies are relative and sum to 1.
type Profile struct {
	Code    string
	letters map[rune]float64
}

type fileProfile struct {
	Letters map[string]float64 `toml:"letters"`
}

// Freq returns the relative frequency of a letter, folding case.
// Symbols without a recorded frequency return 0.
func (p Profile) Freq(r rune) float64 {
	return p.letters[unicode.ToLower(r)]
}

// Len returns the number of symbols with a recorded frequency.
func (p Profile) Len() int {
	return len(p.letters)
}

// Load returns the profile for a language code, preferring built-in
// data and falling back to user profiles under the config directory.
func Load(code string) (Profile, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return Profile{}, fmt.Errorf("language code is empty")
	}
	if data, err := builtins.ReadFile("data/" + code + ".toml"); err == nil {
		return parseProfile(code, data)
	}
	userPath := filepath.Join(config.DefaultLangDir(), code+".toml")
	data, err := os.ReadFile(userPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, fmt.Errorf("unknown language %q (available: %s)", code, strings.Join(List(), ", "))
		}
		return Profile{}, fmt.Errorf("failed to read language profile: %w", err)
	}
	return parseProfile(code, data)
}

// List returns the available language codes, built-in and user, sorted.
func List() []string {
	seen := map[string]struct{}{}
	entries, err := builtins.ReadDir("data")
	if err == nil {
		for _, entry := range entries {
			seen[strings.TrimSuffix(entry.Name(), ".toml")] = struct{}{}
		}
	}
	userEntries, err := os.ReadDir(config.DefaultLangDir())
	if err == nil {
		for _, entry := range userEntries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".toml") {
				continue
			}
			seen[strings.TrimSuffix(name, ".toml")] = struct{}{}
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func parseProfile(code string, data []byte) (Profile, error) {
	var raw fileProfile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("failed to decode language profile %q: %w", code, err)
	}
	if len(raw.Letters) == 0 {
		return Profile{}, fmt.Errorf("language profile %q has no letters", code)
	}

	letters := make(map[rune]float64, len(raw.Letters))
	total := 0.0
	for key, freq := range raw.Letters {
		lowered := strings.ToLower(key)
		r, size := utf8.DecodeRuneInString(lowered)
		if r == utf8.RuneError || size != len(lowered) {
			return Profile{}, fmt.Errorf("language profile %q: key %q is not a single symbol", code, key)
		}
		if freq < 0 {
			return Profile{}, fmt.Errorf("language profile %q: negative frequency for %q", code, key)
		}
		if _, ok := letters[r]; ok {
			return Profile{}, fmt.Errorf("language profile %q: duplicate symbol %q", code, key)
		}
		letters[r] = freq
		total += freq
	}
	if total <= 0 {
		return Profile{}, fmt.Errorf("language profile %q sums to zero", code)
	}
	// Accept percent-scale or unit-scale tables; anything else is a typo.
	scale := 1.0
	if total > 1+sumTolerance {
		scale = 100.0
	}
	if diff := total/scale - 1; diff < -sumTolerance || diff > sumTolerance {
		return Profile{}, fmt.Errorf("language profile %q sums to %.4f, expected 1 or 100", code, total)
	}
	for r := range letters {
		letters[r] /= total
	}
	return Profile{Code: code, letters: letters}, nil
}
