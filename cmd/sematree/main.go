package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sematree/sematree"
	"github.com/spf13/pflag"
)

func main() {
	load := pflag.String("load", "", "Load a line-delimited JSON corpus and embed it")
	maxLines := pflag.Int("max-lines", 0, "Maximum corpus lines to ingest (0 = all)")
	snapshot := pflag.String("snapshot", "", "Load a binary snapshot instead of a corpus")
	save := pflag.String("save", "", "Write the loaded dataset to a binary snapshot")
	mock := pflag.Int("mock", 0, "Generate a synthetic dataset of this many items")
	query := pflag.String("query", "", "Run a single query and print the results")
	k := pflag.Int("k", 5, "Number of results per query")
	compare := pflag.Bool("compare", false, "Run queries through both indices and report agreement")
	bench := pflag.String("bench", "", "Run benchmark sweeps from the given YAML suite file ('-' for defaults)")
	interactive := pflag.Bool("interactive", false, "Start the interactive query loop")
	withLLM := pflag.Bool("llm", false, "Send retrieved passages to the completion server in interactive mode")
	serve := pflag.Bool("serve", false, "Start the HTTP server")
	token := pflag.Bool("token", false, "Print a bearer token for the configured auth secret")
	pflag.Parse()

	if err := LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := sematree.GlobalConfig()

	if *token {
		if cfg.AuthSecret == "" {
			fmt.Fprintln(os.Stderr, "Error: --token requires an auth secret")
			os.Exit(1)
		}
		tok, err := sematree.GenerateToken([]byte(cfg.AuthSecret))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	embedder := sematree.NewEmbedder(uint64(cfg.Seed), cfg.Dimensions)

	items, processed, err := loadDataset(*load, *snapshot, *mock, *maxLines, embedder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	if items == nil {
		fmt.Println("Usage:")
		pflag.PrintDefaults()
		return
	}
	log.Printf("dataset ready: %d items from %d input lines", len(items), processed)

	if *save != "" {
		if err := sematree.WriteSnapshot(*save, items, processed); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		log.Printf("snapshot written to %s", *save)
	}

	if *bench != "" {
		suite := sematree.DefaultBenchSuite()
		if *bench != "-" {
			suite, err = sematree.LoadBenchSuite(*bench)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading bench suite: %v\n", err)
				os.Exit(1)
			}
		}
		if err := sematree.RunSizeSweep(items, suite, cfg.ResultsFolder); err != nil {
			fmt.Fprintf(os.Stderr, "Error in size sweep: %v\n", err)
			os.Exit(1)
		}
		if err := sematree.RunLeafSweep(items, suite, cfg.ResultsFolder); err != nil {
			fmt.Fprintf(os.Stderr, "Error in leaf sweep: %v\n", err)
			os.Exit(1)
		}
		return
	}

	searcher := sematree.NewSearcher(items, embedder, cfg.LeafSize)

	if *query != "" {
		if err := runQuery(searcher, *query, *k, *compare); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *interactive {
		var completer *sematree.Completer
		if *withLLM {
			completer = sematree.NewCompleter(cfg.LLMServer, cfg.LLMKey, cfg.LLMModel)
		}
		if err := sematree.RunInteractive(context.Background(), os.Stdin, os.Stdout, searcher, completer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *serve {
		if err := sematree.RunServer(searcher); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Usage:")
	pflag.PrintDefaults()
}

// loadDataset resolves the three dataset sources. A nil dataset with nil
// error means no source was requested.
func loadDataset(load, snapshot string, mock, maxLines int, embedder sematree.Embedder) ([]sematree.DataItem, int, error) {
	switch {
	case load != "":
		return sematree.LoadJSONL(load, maxLines, embedder)
	case snapshot != "":
		return sematree.ReadSnapshot(snapshot)
	case mock > 0:
		items := sematree.GenerateMock(mock, embedder)
		return items, mock, nil
	}
	return nil, 0, nil
}

func runQuery(searcher *sematree.Searcher, query string, k int, compare bool) error {
	if compare {
		cmp, err := searcher.CompareText(query, k)
		if err != nil {
			return err
		}
		fmt.Printf("kdtree %v, linear %v, speedup %.1fx, agree=%v\n",
			cmp.TreeTime, cmp.LinearTime, cmp.Speedup, cmp.Agree)
		for i, result := range cmp.Tree {
			fmt.Printf("%2d. (%.4f) %s\n", i+1, result.Distance, result.Text)
		}
		return nil
	}

	results, elapsed, err := searcher.SearchText(query, k)
	if err != nil {
		return err
	}
	fmt.Printf("found %d results in %v\n", len(results), elapsed)
	for i, result := range results {
		fmt.Printf("%2d. (%.4f) %s\n", i+1, result.Distance, result.Text)
	}
	return nil
}
