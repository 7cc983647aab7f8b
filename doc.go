/*
Package sematree is an in-memory nearest-neighbor engine over
fixed-dimensional vectors attached to text payloads.

The core is a bulk-loaded KD-tree: construction recursively median-splits a
permutation of dataset indices on a cycling axis until a leaf threshold is
reached, and queries descend depth-first with backtracking pruned by the
axis-aligned splitting-plane distance test. Nearest and k-nearest searches
compare squared Euclidean distances internally; k-nearest keeps candidates in
a bounded worst-out max-heap. An exhaustive LinearIndex over the same dataset
serves as the exact baseline for correctness checks and speedup measurement.

Text enters the vector space through Embedder, a deterministic bag-of-words
vectorizer: each token seeds a pseudo-random generator from which a unit
normal vector is drawn, and a text's embedding is the normalized sum of its
token vectors. Queries must be embedded under the same seed and dimension as
the stored data.

Around the engine sit a JSONL loader and a binary snapshot format for
datasets, a benchmark harness that sweeps dataset and leaf sizes into CSV
files, an interactive query loop with optional retrieval-augmented answers
from an OpenAI-compatible completion server, and a small HTTP API with an
optional bearer-token gate.

Indices are read-only after construction: concurrent readers are safe, and
there are no online inserts or deletes.
*/
package sematree
