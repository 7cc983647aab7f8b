package sematree

import "time"

/*
Result is a single search hit: the Euclidean distance from the query and the
text payload of the stored item.
*/
type Result struct {
	Distance float64 `json:"distance"`
	Text     string  `json:"text"`
}

/*
Index is the query surface shared by the KDTree and the LinearIndex.
Implementations are read-only after construction; concurrent readers are
safe.
*/
type Index interface {
	Nearest(query []float64) (Result, error)
	KNearest(query []float64, k int) ([]Result, error)
	Len() int
	Dim() int
}

/*
Searcher is the query facade. It binds an Embedder to a KDTree and a
LinearIndex built over the same dataset, embeds raw text queries and
dispatches them to either index.
*/
type Searcher struct {
	embedder Embedder
	tree     *KDTree
	linear   *LinearIndex
}

// NewSearcher builds both indices over items. The items slice is borrowed by
// the indices and must outlive the Searcher.
func NewSearcher(items []DataItem, embedder Embedder, leafSize int) *Searcher {
	return &Searcher{
		embedder: embedder,
		tree:     NewKDTree(items, leafSize),
		linear:   NewLinearIndex(items),
	}
}

// Embed maps query text into the index's vector space, using the exact rules
// the stored vectors were produced with.
func (s *Searcher) Embed(text string) []float64 {
	return s.embedder.Embed(text)
}

// Tree returns the KD-tree index.
func (s *Searcher) Tree() *KDTree {
	return s.tree
}

// Linear returns the exhaustive-scan index.
func (s *Searcher) Linear() *LinearIndex {
	return s.linear
}

// Len returns the number of indexed items.
func (s *Searcher) Len() int {
	return s.tree.Len()
}

/*
SearchText embeds text and returns its k nearest stored items from the
KD-tree, along with the time spent searching (embedding excluded).
*/
func (s *Searcher) SearchText(text string, k int) ([]Result, time.Duration, error) {
	query := s.embedder.Embed(text)
	start := time.Now()
	results, err := s.tree.KNearest(query, k)
	return results, time.Since(start), err
}

/*
Comparison holds the outcome of running one query through both indices.
Agree is true when both return the same number of hits and each pair of hits
is at equal distance; the texts themselves may differ on exact ties.
*/
type Comparison struct {
	Tree       []Result
	Linear     []Result
	TreeTime   time.Duration
	LinearTime time.Duration
	Agree      bool
	Speedup    float64
}

// CompareText runs the embedded query through the KD-tree and the linear
// oracle and reports agreement and relative speed.
func (s *Searcher) CompareText(text string, k int) (Comparison, error) {
	query := s.embedder.Embed(text)

	start := time.Now()
	treeResults, err := s.tree.KNearest(query, k)
	if err != nil {
		return Comparison{}, err
	}
	treeTime := time.Since(start)

	start = time.Now()
	linearResults, err := s.linear.KNearest(query, k)
	if err != nil {
		return Comparison{}, err
	}
	linearTime := time.Since(start)

	cmp := Comparison{
		Tree:       treeResults,
		Linear:     linearResults,
		TreeTime:   treeTime,
		LinearTime: linearTime,
		Agree:      resultsAgree(treeResults, linearResults),
	}
	if treeTime > 0 {
		cmp.Speedup = float64(linearTime) / float64(treeTime)
	}
	return cmp, nil
}

// resultsAgree reports whether two ranked result lists are equivalent up to
// exact-distance ties.
func resultsAgree(a, b []Result) bool {
	if len(a) != len(b) {
		return false
	}
	const slack = 1e-9
	for i := range a {
		diff := a[i].Distance - b[i].Distance
		if diff < -slack || diff > slack {
			return false
		}
	}
	return true
}
