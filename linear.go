package sematree

import (
	"container/heap"
	"fmt"
	"math"
)

/*
LinearIndex answers nearest-neighbor queries by exhaustive scan. It is exact
by construction and serves as the correctness oracle for the KDTree; the
benchmark harness also uses it as the speedup baseline.

The dataset slice is borrowed, not copied.
*/
type LinearIndex struct {
	items []DataItem
	dims  int
}

// NewLinearIndex builds a LinearIndex over items.
func NewLinearIndex(items []DataItem) *LinearIndex {
	li := &LinearIndex{items: items}
	if len(items) > 0 {
		li.dims = len(items[0].Vector)
	}
	return li
}

// Len returns the number of indexed items.
func (li *LinearIndex) Len() int {
	return len(li.items)
}

// Dim returns the vector dimension, 0 for an empty index.
func (li *LinearIndex) Dim() int {
	return li.dims
}

func (li *LinearIndex) checkQuery(query []float64) error {
	if len(li.items) == 0 {
		return ErrEmptyIndex
	}
	if len(query) != li.dims {
		return fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(query), li.dims)
	}
	return nil
}

// Nearest scans every item and returns the closest. Ties keep the item with
// the smallest dataset index.
func (li *LinearIndex) Nearest(query []float64) (Result, error) {
	if err := li.checkQuery(query); err != nil {
		return Result{}, err
	}

	bestDist := math.Inf(1)
	bestIndex := -1
	for i := range li.items {
		// First accept is unconditional so an all-+Inf scan still returns
		// an item instead of indexing with -1.
		if dist := squaredDistance(query, li.items[i].Vector); bestIndex < 0 || dist < bestDist {
			bestDist = dist
			bestIndex = i
		}
	}

	return Result{Distance: math.Sqrt(bestDist), Text: li.items[bestIndex].Text}, nil
}

// KNearest returns the min(k, Len()) closest items sorted by ascending
// distance, using the same bounded heap and tie rules as the KDTree.
func (li *LinearIndex) KNearest(query []float64, k int) ([]Result, error) {
	if k < 0 {
		return nil, ErrInvalidK
	}
	if err := li.checkQuery(query); err != nil {
		return nil, err
	}
	if k == 0 {
		return []Result{}, nil
	}

	pq := &resultPriorityQueue{}
	heap.Init(pq)
	for i := range li.items {
		considerResult(pq, k, i, squaredDistance(query, li.items[i].Vector))
	}

	return drainResults(pq, li.items), nil
}
