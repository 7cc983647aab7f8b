package sematree

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	e := NewEmbedder(DefaultSeed, 8)

	cases := []struct {
		text     string
		expected []string
	}{
		{"Hello, world!", []string{"hello", "world"}},
		{"  The   quick  Brown FOX  ", []string{"the", "quick", "brown", "fox"}},
		{"a1 b2-c3", []string{"a1", "b2c3"}},
		{"!!! ... ???", nil},
		{"", nil},
	}

	for _, c := range cases {
		tokens := e.Tokenize(c.text)
		if !reflect.DeepEqual(tokens, c.expected) {
			t.Errorf("Tokenize(%q) = %v, want %v", c.text, tokens, c.expected)
		}
	}
}

func TestHashString(t *testing.T) {
	if h := hashString(""); h != 0 {
		t.Errorf("hashString(\"\") = %d, want 0", h)
	}
	if h := hashString("a"); h != 97 {
		t.Errorf("hashString(\"a\") = %d, want 97", h)
	}
	if h := hashString("ab"); h != 97*31+98 {
		t.Errorf("hashString(\"ab\") = %d, want %d", h, 97*31+98)
	}
}

func TestEmbedDeterminism(t *testing.T) {
	e1 := NewEmbedder(42, 384)
	e2 := NewEmbedder(42, 384)

	v1 := e1.Embed("Hello, world!")
	v2 := e2.Embed("Hello, world!")

	if len(v1) != 384 || len(v2) != 384 {
		t.Fatalf("expected 384-dimensional vectors, got %d and %d", len(v1), len(v2))
	}

	for i := range v1 {
		if diff := math.Abs(v1[i] - v2[i]); diff >= 1e-12 {
			t.Fatalf("coordinate %d differs by %g between fresh embedders", i, diff)
		}
	}

	// Repeated calls on the same embedder must match bit for bit.
	v3 := e1.Embed("Hello, world!")
	if !reflect.DeepEqual(v1, v3) {
		t.Error("repeated Embed calls differ")
	}
}

func TestEmbedNorm(t *testing.T) {
	e := NewEmbedder(42, 384)

	for _, text := range []string{"hello", "the quick brown fox", "a", "Hello, world!"} {
		v := e.Embed(text)
		norm := math.Sqrt(dotProduct(v, v))
		if math.Abs(norm-1.0) > 1e-9 {
			t.Errorf("Embed(%q) norm = %.12f, want 1", text, norm)
		}
	}
}

func TestEmbedSeedMatters(t *testing.T) {
	v1 := NewEmbedder(42, 64).Embed("hello")
	v2 := NewEmbedder(43, 64).Embed("hello")
	if reflect.DeepEqual(v1, v2) {
		t.Error("different seeds produced identical embeddings")
	}
}

func TestEmbedEmptyTokensFallback(t *testing.T) {
	e := NewEmbedder(42, 64)

	// Punctuation-only text has no tokens; the raw input is embedded as a
	// single token instead.
	got := e.Embed("!!! ???")
	want := e.TokenVector("!!! ???")
	if !reflect.DeepEqual(got, want) {
		t.Error("empty-token fallback did not embed the raw input as one token")
	}
}

func TestTokenVectorUnitNorm(t *testing.T) {
	e := NewEmbedder(42, 128)
	v := e.TokenVector("token")
	norm := math.Sqrt(dotProduct(v, v))
	if math.Abs(norm-1.0) > 1e-9 {
		t.Errorf("TokenVector norm = %.12f, want 1", norm)
	}
}

func TestTokenizedEquivalence(t *testing.T) {
	// Case and punctuation must not change the embedding.
	e := NewEmbedder(42, 64)
	v1 := e.Embed("Hello, World!")
	v2 := e.Embed("hello world")
	if !reflect.DeepEqual(v1, v2) {
		t.Error("embeddings differ across case and punctuation variants")
	}
}
