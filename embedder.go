package sematree

import (
	"math/rand"
	"strings"
	"unicode"
)

// Default embedding parameters. Stored vectors and query vectors must be
// produced with the same seed and dimension count or recall silently degrades.
const (
	DefaultDimensions = 384
	DefaultSeed       = 42
)

/*
Embedder maps text to unit-norm vectors of a fixed dimension. It is a pure
value: two Embedders constructed with the same seed and dimension count
produce bit-identical vectors for the same input, across processes.

Each token is hashed to seed a pseudo-random source from which the token's
vector is drawn; a text embedding is the normalized sum of its token vectors.
*/
type Embedder struct {
	seed uint64
	dims int
}

// NewEmbedder creates an Embedder with the given seed and dimension count.
// Non-positive dims falls back to DefaultDimensions.
func NewEmbedder(seed uint64, dims int) Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return Embedder{seed: seed, dims: dims}
}

// Dimensions returns the dimension count of produced vectors.
func (e Embedder) Dimensions() int {
	return e.dims
}

// hashString is the polynomial rolling hash with multiplier 31 over the raw
// bytes of s, wrapping at 64 bits.
func hashString(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = h*31 + uint64(s[i])
	}
	return h
}

/*
Tokenize splits text on whitespace, lowercases each token and strips every
rune that is not a letter or digit. Empty tokens are dropped; order is
preserved.
*/
func (e Embedder) Tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		token := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, field)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

/*
TokenVector returns the unit vector for a single token. The generator is
seeded with seed XOR hashString(token), so the mapping is fixed for the
lifetime of an index built with this Embedder.
*/
func (e Embedder) TokenVector(token string) []float64 {
	rng := rand.New(rand.NewSource(int64(e.seed ^ hashString(token))))
	vec := make([]float64, e.dims)
	for i := range vec {
		vec[i] = rng.NormFloat64()
	}
	return normalizeVector(vec)
}

/*
Embed returns the embedding of text: the L2-normalized sum of its token
vectors. Text with no tokens (empty, or all punctuation) is embedded as if
the raw input were a single token. A token sum that cancels to zero norm is
returned as the zero vector.
*/
func (e Embedder) Embed(text string) []float64 {
	tokens := e.Tokenize(text)
	if len(tokens) == 0 {
		return e.TokenVector(text)
	}

	sum := make([]float64, e.dims)
	for _, token := range tokens {
		tv := e.TokenVector(token)
		for i, v := range tv {
			sum[i] += v
		}
	}
	return normalizeVector(sum)
}
