package sematree

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

/*
BenchSuite describes a benchmark run: how many queries to sample, how many
repeated runs to average per query, and which dataset sizes and leaf sizes to
sweep. Suites are loaded from a YAML file; missing fields keep their
defaults.
*/
type BenchSuite struct {
	NumQueries int   `yaml:"num_queries"`
	NumRuns    int   `yaml:"num_runs"`
	Sizes      []int `yaml:"sizes"`
	LeafSizes  []int `yaml:"leaf_sizes"`
	Seed       int64 `yaml:"seed"`
}

// DefaultBenchSuite mirrors the sweep parameters of the reference
// experiments.
func DefaultBenchSuite() BenchSuite {
	return BenchSuite{
		NumQueries: 100,
		NumRuns:    10,
		Sizes:      []int{100, 500, 1000, 5000, 10000},
		LeafSizes:  []int{1, 5, 10, 20, 50, 100},
		Seed:       1,
	}
}

// LoadBenchSuite reads a suite description from a YAML file, filling
// unspecified fields from the defaults.
func LoadBenchSuite(path string) (BenchSuite, error) {
	suite := DefaultBenchSuite()
	data, err := os.ReadFile(path)
	if err != nil {
		return suite, fmt.Errorf("read suite %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return suite, fmt.Errorf("parse suite %s: %w", path, err)
	}
	if suite.NumQueries <= 0 {
		suite.NumQueries = 100
	}
	if suite.NumRuns <= 0 {
		suite.NumRuns = 10
	}
	return suite, nil
}

// latencyStats summarizes per-query timings in microseconds.
type latencyStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
	P90    float64
}

// computeLatencyStats sorts samples in place and derives the summary. An
// empty sample set yields all zeros.
func computeLatencyStats(samples []float64) latencyStats {
	if len(samples) == 0 {
		return latencyStats{}
	}
	sort.Float64s(samples)

	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, s := range samples {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(samples))

	p90 := int(float64(len(samples)) * 0.9)
	if p90 >= len(samples) {
		p90 = len(samples) - 1
	}

	return latencyStats{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    samples[0],
		Max:    samples[len(samples)-1],
		Median: samples[len(samples)/2],
		P90:    samples[p90],
	}
}

// measureNearest times idx.Nearest on each query, averaging runs repetitions
// per query, and returns one sample per query in microseconds.
func measureNearest(idx Index, queries [][]float64, runs int) []float64 {
	samples := make([]float64, 0, len(queries))
	for _, query := range queries {
		total := time.Duration(0)
		for r := 0; r < runs; r++ {
			start := time.Now()
			_, _ = idx.Nearest(query)
			total += time.Since(start)
		}
		samples = append(samples, float64(total.Microseconds())/float64(runs))
	}
	return samples
}

// estimateTreeMemoryKB approximates the resident size of the tree: one
// vector plus node overhead per allocated node.
func estimateTreeMemoryKB(t *KDTree) int {
	pointSize := t.Dim() * 8
	nodeOverhead := 3 * 8
	return (pointSize + nodeOverhead) * t.NodeCount() / 1024
}

// estimateLinearMemoryKB approximates the resident size of the scan index,
// assuming an average text payload of 100 bytes.
func estimateLinearMemoryKB(li *LinearIndex) int {
	pointSize := li.Dim() * 8
	const avgTextSize = 100
	return (pointSize + avgTextSize) * li.Len() / 1024
}

/*
RunSizeSweep benchmarks nearest-neighbor latency of the KD-tree against the
linear scan over growing prefixes of the dataset, writing one CSV row per
size to database_size_results.csv in resultsDir. Queries are sampled once
from the full dataset and reused across sizes.
*/
func RunSizeSweep(items []DataItem, suite BenchSuite, resultsDir string) error {
	if len(items) == 0 {
		return ErrEmptyIndex
	}
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return err
	}

	sizes := make([]int, 0, len(suite.Sizes)+1)
	for _, s := range suite.Sizes {
		if s <= len(items) {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 0 || sizes[len(sizes)-1] != len(items) {
		sizes = append(sizes, len(items))
	}

	rng := rand.New(rand.NewSource(suite.Seed))
	queries := SampleQueries(items, suite.NumQueries, rng)

	path := filepath.Join(resultsDir, "database_size_results.csv")
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"Size",
		"KDTree_Mean_Time", "KDTree_StdDev", "KDTree_Min", "KDTree_Max",
		"KDTree_Median", "KDTree_P90", "KDTree_Memory_KB",
		"Linear_Mean_Time", "Linear_StdDev", "Linear_Min", "Linear_Max",
		"Linear_Median", "Linear_P90", "Linear_Memory_KB", "Speedup",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, size := range sizes {
		subset := items[:size]

		buildStart := time.Now()
		tree := NewKDTree(subset, 1)
		buildTime := time.Since(buildStart)
		linear := NewLinearIndex(subset)

		log.Printf("size sweep: n=%d built in %v", size, buildTime)

		treeStats := computeLatencyStats(measureNearest(tree, queries, suite.NumRuns))
		linearStats := computeLatencyStats(measureNearest(linear, queries, suite.NumRuns))

		speedup := 0.0
		if treeStats.Mean > 0 {
			speedup = linearStats.Mean / treeStats.Mean
		}

		record := []string{fmt.Sprintf("%d", size)}
		record = append(record, formatStats(treeStats)...)
		record = append(record, fmt.Sprintf("%d", estimateTreeMemoryKB(tree)))
		record = append(record, formatStats(linearStats)...)
		record = append(record,
			fmt.Sprintf("%d", estimateLinearMemoryKB(linear)),
			fmt.Sprintf("%.3f", speedup),
		)
		if err := w.Write(record); err != nil {
			return err
		}

		log.Printf("size sweep: n=%d kdtree %.1fus linear %.1fus speedup %.1fx",
			size, treeStats.Mean, linearStats.Mean, speedup)
	}

	log.Printf("size sweep results written to %s", path)
	return nil
}

/*
RunLeafSweep benchmarks nearest-neighbor latency across the suite's leaf
sizes over the full dataset, writing leaf_size_results.csv in resultsDir.
*/
func RunLeafSweep(items []DataItem, suite BenchSuite, resultsDir string) error {
	if len(items) == 0 {
		return ErrEmptyIndex
	}
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(suite.Seed))
	queries := SampleQueries(items, suite.NumQueries, rng)

	path := filepath.Join(resultsDir, "leaf_size_results.csv")
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"LeafSize", "Mean_Time", "StdDev", "Min", "Max", "Median", "P90",
		"Memory_KB", "Build_Time_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, leafSize := range suite.LeafSizes {
		buildStart := time.Now()
		tree := NewKDTree(items, leafSize)
		buildTime := time.Since(buildStart)

		stats := computeLatencyStats(measureNearest(tree, queries, suite.NumRuns))

		record := []string{fmt.Sprintf("%d", leafSize)}
		record = append(record, formatStats(stats)...)
		record = append(record,
			fmt.Sprintf("%d", estimateTreeMemoryKB(tree)),
			fmt.Sprintf("%d", buildTime.Milliseconds()),
		)
		if err := w.Write(record); err != nil {
			return err
		}

		log.Printf("leaf sweep: leaf=%d mean %.1fus build %v", leafSize, stats.Mean, buildTime)
	}

	log.Printf("leaf sweep results written to %s", path)
	return nil
}

func formatStats(s latencyStats) []string {
	return []string{
		fmt.Sprintf("%.3f", s.Mean),
		fmt.Sprintf("%.3f", s.StdDev),
		fmt.Sprintf("%.3f", s.Min),
		fmt.Sprintf("%.3f", s.Max),
		fmt.Sprintf("%.3f", s.Median),
		fmt.Sprintf("%.3f", s.P90),
	}
}
