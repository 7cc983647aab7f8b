package sematree

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

/*
Completer talks to an OpenAI-compatible completion server, typically a local
one. It is used by the interactive loop to turn retrieved passages into an
answer; the indices themselves never touch the network.
*/
type Completer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewCompleter builds a Completer from the given settings. baseURL points at
// the server's /v1 root; apiKey may be empty for servers that ignore it.
func NewCompleter(baseURL, apiKey, model string) *Completer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Completer{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: 100,
	}
}

// Complete sends prompt to the completion endpoint and returns the generated
// text along with the request's wall-clock latency.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, time.Duration, error) {
	start := time.Now()
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	})
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", elapsed, fmt.Errorf("completion response had no choices")
	}
	return resp.Choices[0].Text, elapsed, nil
}

/*
Answer builds a retrieval-augmented prompt from the query and its nearest
stored passages and asks the completion server for an answer.
*/
func (c *Completer) Answer(ctx context.Context, query string, hits []Result) (string, time.Duration, error) {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below.\n\nContext:\n")
	for i, hit := range hits {
		fmt.Fprintf(&b, "%d. %s\n", i+1, hit.Text)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", query)
	return c.Complete(ctx, b.String())
}
