package sematree

import "math"

func normalizeVector(vector []float64) []float64 {
	norm := 0.0
	for _, v := range vector {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	if norm == 0 {
		return make([]float64, len(vector)) // Return a zero vector if the input is all zeros
	}

	normalized := make([]float64, len(vector))
	for i, v := range vector {
		normalized[i] = v / norm
	}
	return normalized
}

func dotProduct(vec1, vec2 []float64) float64 {
	sum := 0.0
	for i := range vec1 {
		sum += vec1[i] * vec2[i]
	}
	return sum
}

// squaredDistance is the workhorse of both indices. All pruning and ranking
// compares squared values; the square root is taken once at result boundaries.
func squaredDistance(vec1, vec2 []float64) float64 {
	sum := 0.0
	for i := range vec1 {
		diff := vec1[i] - vec2[i]
		sum += diff * diff
	}
	return sum
}

func euclideanDistance(vec1, vec2 []float64) float64 {
	return math.Sqrt(squaredDistance(vec1, vec2))
}
