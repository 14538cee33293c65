package features

import (
	"sort"
)

// OneHotEncoder expands a categorical column into one indicator per category
// seen at fit time. Values never seen during fit encode as all zeros.
type OneHotEncoder struct {
	Column     string
	Categories []string
	index      map[string]int
}

// NewOneHotEncoder creates an unfitted encoder for column
func NewOneHotEncoder(column string) *OneHotEncoder {
	return &OneHotEncoder{Column: column}
}

// Fit records the sorted set of distinct values
func (e *OneHotEncoder) Fit(values []string) {
	seen := make(map[string]struct{})
	for _, v := range values {
		seen[v] = struct{}{}
	}
	e.Categories = make([]string, 0, len(seen))
	for v := range seen {
		e.Categories = append(e.Categories, v)
	}
	sort.Strings(e.Categories)

	e.index = make(map[string]int, len(e.Categories))
	for i, v := range e.Categories {
		e.index[v] = i
	}
}

// Width is the number of indicator columns
func (e *OneHotEncoder) Width() int {
	return len(e.Categories)
}

// Encode writes the indicator vector for value into dst, which must have
// Width elements. It reports whether value was a known category.
func (e *OneHotEncoder) Encode(dst []float64, value string) bool {
	for i := range dst {
		dst[i] = 0
	}
	i, ok := e.index[value]
	if ok {
		dst[i] = 1
	}
	return ok
}

// FeatureNames returns "<column>_<category>" for every indicator
func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = e.Column + "_" + c
	}
	return names
}
