package sematree

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/schollz/progressbar/v3"
)

/*
DataItem is one stored record: a text payload and its embedding. Items are
immutable once loaded; every vector in a dataset shares the same dimension.
*/
type DataItem struct {
	Text   string
	Vector []float64
}

// jsonl lines can be long; give the scanner room.
const maxLineBytes = 1 << 20

/*
LoadJSONL reads a line-delimited JSON file where each line is an array whose
second element is the text payload, embeds every payload with emb and returns
the dataset together with the number of lines consumed. Malformed lines count
as consumed but produce no item. maxLines <= 0 means no bound.

Progress is reported on stderr while embedding.
*/
func LoadJSONL(path string, maxLines int, emb Embedder) ([]DataItem, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	bar := newProgressBar(maxLines, "embedding")
	defer bar.Finish()

	var items []DataItem
	processed := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if maxLines > 0 && processed >= maxLines {
			break
		}
		processed++
		bar.Add(1)

		var arr []json.RawMessage
		if json.Unmarshal(scanner.Bytes(), &arr) != nil || len(arr) < 2 {
			continue
		}
		var text string
		if json.Unmarshal(arr[1], &text) != nil {
			continue
		}

		items = append(items, DataItem{Text: text, Vector: emb.Embed(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, processed, fmt.Errorf("read %s: %w", path, err)
	}

	return items, processed, nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	if total <= 0 {
		total = -1 // spinner
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// GenerateMock produces a synthetic dataset of n items whose texts are
// numbered sample documents, embedded with emb. Useful for benchmarks and
// smoke tests when no corpus is at hand.
func GenerateMock(n int, emb Embedder) []DataItem {
	items := make([]DataItem, n)
	for i := range items {
		text := fmt.Sprintf("sample document %d", i)
		items[i] = DataItem{Text: text, Vector: emb.Embed(text)}
	}
	return items
}

// SampleQueries draws n query vectors from the dataset's own stored vectors
// using rng. The benchmark harness queries an index with points it contains.
func SampleQueries(items []DataItem, n int, rng *rand.Rand) [][]float64 {
	queries := make([][]float64, n)
	for i := range queries {
		queries[i] = items[rng.Intn(len(items))].Vector
	}
	return queries
}
