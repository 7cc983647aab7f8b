package sematree

import "errors"

// Query failures reported to callers. The engine never retries, logs or
// terminates on any of these.
var (
	// ErrEmptyIndex is returned when querying an index built on zero items.
	ErrEmptyIndex = errors.New("index is empty")

	// ErrDimensionMismatch is returned when a query vector's dimension
	// differs from the index's. Callers can test for it with errors.Is.
	ErrDimensionMismatch = errors.New("query dimension does not match index")

	// ErrInvalidK is returned when a k-nearest query is given a negative k.
	ErrInvalidK = errors.New("k must not be negative")
)
