package sematree

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const replResults = 5

/*
RunInteractive reads queries from in, one per line, and prints the nearest
stored passages with distances and timing to out. When completer is non-nil,
the retrieved passages are also fed to the completion server and the answer
is printed. The loop ends on EOF or when the user types "exit" or "quit".
*/
func RunInteractive(ctx context.Context, in io.Reader, out io.Writer, searcher *Searcher, completer *Completer) error {
	fmt.Fprintf(out, "loaded %d items; type a query, or 'exit' to leave\n", searcher.Len())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			return nil
		}

		results, elapsed, err := searcher.SearchText(query, replResults)
		if err != nil {
			fmt.Fprintf(out, "search failed: %v\n", err)
			continue
		}

		fmt.Fprintf(out, "found %d results in %v\n", len(results), elapsed)
		for i, result := range results {
			fmt.Fprintf(out, "%2d. (%.4f) %s\n", i+1, result.Distance, snippet(result.Text, 120))
		}

		if completer != nil {
			answer, llmTime, err := completer.Answer(ctx, query, results)
			if err != nil {
				fmt.Fprintf(out, "llm: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "answer (%v): %s\n", llmTime, strings.TrimSpace(answer))
		}
	}
}

func snippet(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
