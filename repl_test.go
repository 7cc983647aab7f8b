package sematree

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRunInteractive(t *testing.T) {
	embedder := NewEmbedder(DefaultSeed, 16)
	items := GenerateMock(20, embedder)
	searcher := NewSearcher(items, embedder, 2)

	in := strings.NewReader("sample document 3\n\nexit\n")
	var out bytes.Buffer

	if err := RunInteractive(context.Background(), in, &out, searcher, nil); err != nil {
		t.Fatal(err)
	}

	output := out.String()
	if !strings.Contains(output, "sample document 3") {
		t.Errorf("output does not show the matching document:\n%s", output)
	}
	if !strings.Contains(output, "found 5 results") {
		t.Errorf("output does not report the result count:\n%s", output)
	}
}

func TestRunInteractiveEOF(t *testing.T) {
	embedder := NewEmbedder(DefaultSeed, 8)
	items := GenerateMock(5, embedder)
	searcher := NewSearcher(items, embedder, 1)

	var out bytes.Buffer
	if err := RunInteractive(context.Background(), strings.NewReader(""), &out, searcher, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short", 10); got != "short" {
		t.Errorf("snippet = %q, want %q", got, "short")
	}
	long := strings.Repeat("x", 50)
	if got := snippet(long, 10); got != long[:10]+"..." {
		t.Errorf("snippet did not truncate: %q", got)
	}
}
