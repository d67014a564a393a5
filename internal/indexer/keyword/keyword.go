// Package keyword decides whether raw tokens are indexable keywords and
// canonicalises them. A keyword is a lowercased, alphabetic-only token with
// any trailing punctuation stripped, and is not a noise word.
package keyword

import (
	"strings"
)

// Punctuation characters that may legally trail a keyword.
const punctuation = ".,?:;!"

// Normalizer holds the noise-word set and applies the keyword test.
type Normalizer struct {
	noise map[string]struct{}
}

// NewNormalizer creates a Normalizer over the given noise words. Noise words
// are folded to lowercase; order and duplicates are irrelevant.
func NewNormalizer(noiseWords []string) *Normalizer {
	noise := make(map[string]struct{}, len(noiseWords))
	for _, w := range noiseWords {
		noise[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{noise: noise}
}

// Normalize returns the canonical form of a raw token and true when the
// token qualifies as a keyword.
//
// The token is folded to lowercase and scanned right to left. Punctuation is
// legal only as a single trailing block: a punctuation character seen after
// any letter (walking leftwards) rejects the token, as does any character
// that is neither a letter nor punctuation. The candidate keyword is the
// prefix before the trailing block; empty candidates and noise words are
// rejected.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	runes := []rune(lower)

	letterSeen := false
	cut := len(runes)
	for j := len(runes) - 1; j >= 0; j-- {
		r := runes[j]
		switch {
		case r >= 'a' && r <= 'z':
			letterSeen = true
		case strings.ContainsRune(punctuation, r):
			if letterSeen {
				// Punctuation in the middle of the token.
				return "", false
			}
			cut = j
		default:
			return "", false
		}
	}

	kw := string(runes[:cut])
	if kw == "" {
		return "", false
	}
	if _, isNoise := n.noise[kw]; isNoise {
		return "", false
	}
	return kw, true
}

// IsNoiseWord reports whether w (case-insensitive) is in the noise set.
func (n *Normalizer) IsNoiseWord(w string) bool {
	_, ok := n.noise[strings.ToLower(w)]
	return ok
}

// NoiseWordCount returns the size of the noise-word set.
func (n *Normalizer) NoiseWordCount() int {
	return len(n.noise)
}
