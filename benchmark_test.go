package sematree

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestComputeLatencyStats(t *testing.T) {
	samples := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	stats := computeLatencyStats(samples)

	if math.Abs(stats.Mean-5.5) > 1e-9 {
		t.Errorf("mean = %f, want 5.5", stats.Mean)
	}
	if stats.Min != 1 || stats.Max != 10 {
		t.Errorf("min/max = %f/%f, want 1/10", stats.Min, stats.Max)
	}
	if stats.Median != 6 {
		t.Errorf("median = %f, want 6", stats.Median)
	}
	if stats.P90 != 10 {
		t.Errorf("p90 = %f, want 10", stats.P90)
	}
	if math.Abs(stats.StdDev-math.Sqrt(8.25)) > 1e-9 {
		t.Errorf("stddev = %f, want %f", stats.StdDev, math.Sqrt(8.25))
	}
}

func TestComputeLatencyStatsEmpty(t *testing.T) {
	stats := computeLatencyStats(nil)
	if stats != (latencyStats{}) {
		t.Errorf("expected zero stats for no samples, got %+v", stats)
	}
}

func TestLoadBenchSuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	content := "num_queries: 7\nleaf_sizes: [2, 4]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	suite, err := LoadBenchSuite(path)
	if err != nil {
		t.Fatal(err)
	}
	if suite.NumQueries != 7 {
		t.Errorf("num_queries = %d, want 7", suite.NumQueries)
	}
	if len(suite.LeafSizes) != 2 || suite.LeafSizes[0] != 2 {
		t.Errorf("leaf_sizes = %v, want [2 4]", suite.LeafSizes)
	}
	// Unspecified fields keep defaults.
	if suite.NumRuns != 10 {
		t.Errorf("num_runs = %d, want default 10", suite.NumRuns)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestRunLeafSweep(t *testing.T) {
	embedder := NewEmbedder(DefaultSeed, 8)
	items := GenerateMock(50, embedder)
	suite := BenchSuite{NumQueries: 5, NumRuns: 1, LeafSizes: []int{1, 10}, Seed: 1}
	dir := t.TempDir()

	if err := RunLeafSweep(items, suite, dir); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, filepath.Join(dir, "leaf_size_results.csv"))
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "LeafSize" {
		t.Errorf("header starts with %q, want \"LeafSize\"", records[0][0])
	}
	if records[1][0] != "1" || records[2][0] != "10" {
		t.Errorf("leaf size column = %q, %q, want 1, 10", records[1][0], records[2][0])
	}
}

func TestRunSizeSweep(t *testing.T) {
	embedder := NewEmbedder(DefaultSeed, 8)
	items := GenerateMock(60, embedder)
	suite := BenchSuite{NumQueries: 5, NumRuns: 1, Sizes: []int{20, 1000}, Seed: 1}
	dir := t.TempDir()

	if err := RunSizeSweep(items, suite, dir); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, filepath.Join(dir, "database_size_results.csv"))
	// Sizes beyond the dataset are dropped; the full size is appended.
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[1][0] != "20" || records[2][0] != "60" {
		t.Errorf("size column = %q, %q, want 20, 60", records[1][0], records[2][0])
	}
}

func TestRunSweepsEmptyDataset(t *testing.T) {
	dir := t.TempDir()
	if err := RunSizeSweep(nil, DefaultBenchSuite(), dir); err == nil {
		t.Error("expected an error for an empty dataset")
	}
	if err := RunLeafSweep(nil, DefaultBenchSuite(), dir); err == nil {
		t.Error("expected an error for an empty dataset")
	}
}
