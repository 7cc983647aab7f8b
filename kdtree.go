package sematree

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
)

/*
KDTree is a bulk-loaded k-dimensional binary space-partitioning tree over a
dataset of text items. It is built once and read-only afterwards; concurrent
readers are safe, concurrent writers do not exist.

Internal nodes hold a real data item as the splitting pivot. Leaves hold up
to leafSize dataset indices. The dataset slice is borrowed, not copied;
callers must keep it alive as long as the tree.
*/
type KDTree struct {
	items     []DataItem
	root      *kdNode
	leafSize  int
	dims      int
	nodeCount int
}

// kdNode is either an internal node (leaf == nil) carrying a pivot item and
// the splitting plane, or a leaf carrying a slice of dataset indices.
type kdNode struct {
	axis  int
	value float64
	pivot int
	left  *kdNode
	right *kdNode
	leaf  []int
}

/*
NewKDTree builds a KDTree from items with the given maximum leaf size.
A leafSize below 1 is treated as 1. An empty dataset yields an empty tree;
querying it returns ErrEmptyIndex.

Construction sorts a permutation of dataset indices at every level, so the
items themselves are never moved. Items sharing an axis coordinate are
ordered by original dataset index.
*/
func NewKDTree(items []DataItem, leafSize int) *KDTree {
	if leafSize < 1 {
		leafSize = 1
	}
	t := &KDTree{items: items, leafSize: leafSize}
	if len(items) == 0 {
		return t
	}
	t.dims = len(items[0].Vector)

	perm := make([]int, len(items))
	for i := range perm {
		perm[i] = i
	}
	t.root = t.build(perm, 0)
	return t
}

func (t *KDTree) build(perm []int, depth int) *kdNode {
	if len(perm) == 0 {
		return nil
	}
	t.nodeCount++

	if len(perm) <= t.leafSize {
		return &kdNode{leaf: perm}
	}

	axis := depth % t.dims
	sort.Slice(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		av, bv := t.items[a].Vector[axis], t.items[b].Vector[axis]
		if av == bv {
			return a < b
		}
		return av < bv
	})

	mid := len(perm) / 2
	node := &kdNode{
		axis:  axis,
		value: t.items[perm[mid]].Vector[axis],
		pivot: perm[mid],
	}
	node.left = t.build(perm[:mid], depth+1)
	node.right = t.build(perm[mid+1:], depth+1)
	return node
}

// Len returns the number of indexed items.
func (t *KDTree) Len() int {
	return len(t.items)
}

// Dim returns the vector dimension the tree was built with, 0 for an empty tree.
func (t *KDTree) Dim() int {
	return t.dims
}

// NodeCount returns the number of allocated tree nodes, internal and leaf.
func (t *KDTree) NodeCount() int {
	return t.nodeCount
}

// LeafSize returns the maximum number of items a leaf may hold.
func (t *KDTree) LeafSize() int {
	return t.leafSize
}

// walk visits every dataset index reachable from the tree, leaves and pivots
// alike, in depth-first order.
func (t *KDTree) walk(node *kdNode, fn func(index int)) {
	if node == nil {
		return
	}
	if node.leaf != nil {
		for _, idx := range node.leaf {
			fn(idx)
		}
		return
	}
	t.walk(node.left, fn)
	fn(node.pivot)
	t.walk(node.right, fn)
}

func (t *KDTree) checkQuery(query []float64) error {
	if t.root == nil {
		return ErrEmptyIndex
	}
	if len(query) != t.dims {
		return fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(query), t.dims)
	}
	return nil
}

/*
Nearest returns the stored item closest to query under Euclidean distance.
Ties keep the first item seen during traversal.
*/
func (t *KDTree) Nearest(query []float64) (Result, error) {
	if err := t.checkQuery(query); err != nil {
		return Result{}, err
	}

	bestDist := math.Inf(1)
	bestIndex := -1
	t.nearest(t.root, query, &bestDist, &bestIndex)

	return Result{Distance: math.Sqrt(bestDist), Text: t.items[bestIndex].Text}, nil
}

func (t *KDTree) nearest(node *kdNode, query []float64, bestDist *float64, bestIndex *int) {
	if node == nil {
		return
	}

	if node.leaf != nil {
		for _, idx := range node.leaf {
			// The unconditional first accept keeps the search total even when
			// every squared distance overflows to +Inf.
			if dist := squaredDistance(query, t.items[idx].Vector); *bestIndex < 0 || dist < *bestDist {
				*bestDist = dist
				*bestIndex = idx
			}
		}
		return
	}

	if dist := squaredDistance(query, t.items[node.pivot].Vector); *bestIndex < 0 || dist < *bestDist {
		*bestDist = dist
		*bestIndex = node.pivot
	}

	diff := query[node.axis] - node.value
	near, far := node.left, node.right
	if diff >= 0 {
		near, far = node.right, node.left
	}

	t.nearest(near, query, bestDist, bestIndex)

	// The far side can only hold a closer point if the splitting plane
	// itself is closer than the current best.
	if diff*diff < *bestDist {
		t.nearest(far, query, bestDist, bestIndex)
	}
}

/*
KNearest returns the min(k, Len()) stored items closest to query, sorted by
ascending Euclidean distance. k == 0 yields an empty result; a negative k is
ErrInvalidK.
*/
func (t *KDTree) KNearest(query []float64, k int) ([]Result, error) {
	if k < 0 {
		return nil, ErrInvalidK
	}
	if err := t.checkQuery(query); err != nil {
		return nil, err
	}
	if k == 0 {
		return []Result{}, nil
	}

	pq := &resultPriorityQueue{}
	heap.Init(pq)
	t.kNearest(t.root, query, pq, k)

	return drainResults(pq, t.items), nil
}

func (t *KDTree) kNearest(node *kdNode, query []float64, pq *resultPriorityQueue, k int) {
	if node == nil {
		return
	}

	if node.leaf != nil {
		for _, idx := range node.leaf {
			considerResult(pq, k, idx, squaredDistance(query, t.items[idx].Vector))
		}
		return
	}

	considerResult(pq, k, node.pivot, squaredDistance(query, t.items[node.pivot].Vector))

	diff := query[node.axis] - node.value
	near, far := node.left, node.right
	if diff >= 0 {
		near, far = node.right, node.left
	}

	t.kNearest(near, query, pq, k)

	if pq.Len() < k || diff*diff < (*pq)[0].distSq {
		t.kNearest(far, query, pq, k)
	}
}

// resultItem holds a candidate during a k-nearest traversal. Distances stay
// squared until the heap is drained.
type resultItem struct {
	index  int
	distSq float64
}

type resultPriorityQueue []*resultItem

func (pq resultPriorityQueue) Len() int { return len(pq) }

func (pq resultPriorityQueue) Less(i, j int) bool {
	return pq[i].distSq > pq[j].distSq // Max-heap: worst candidate on top
}

func (pq resultPriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *resultPriorityQueue) Push(x interface{}) {
	item := x.(*resultItem)
	*pq = append(*pq, item)
}

func (pq *resultPriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// considerResult offers a candidate to a heap bounded at k entries. Equal
// distances never displace a resident, so first-seen wins on ties.
func considerResult(pq *resultPriorityQueue, k int, index int, distSq float64) {
	if pq.Len() < k {
		heap.Push(pq, &resultItem{index: index, distSq: distSq})
	} else if distSq < (*pq)[0].distSq {
		heap.Pop(pq)
		heap.Push(pq, &resultItem{index: index, distSq: distSq})
	}
}

// drainResults empties the heap into a slice sorted by ascending distance,
// converting squared distances to true Euclidean distances.
func drainResults(pq *resultPriorityQueue, items []DataItem) []Result {
	results := make([]Result, pq.Len())
	for i := len(results) - 1; i >= 0; i-- {
		item := heap.Pop(pq).(*resultItem)
		results[i] = Result{Distance: math.Sqrt(item.distSq), Text: items[item.index].Text}
	}
	return results
}
