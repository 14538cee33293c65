package features

import (
	"math"

	"github.com/montanaflynn/stats"

	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
)

// MedianImputer fills missing numeric cells with the median observed at fit time
type MedianImputer struct {
	Column string
	Median float64
	fitted bool
}

// NewMedianImputer creates an unfitted imputer for column
func NewMedianImputer(column string) *MedianImputer {
	return &MedianImputer{Column: column}
}

// Fit learns the median of the non-missing values
func (m *MedianImputer) Fit(values []float64) error {
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return errors.SchemaMismatch("column %s has no observed values to take a median from", m.Column)
	}
	median, err := stats.Median(observed)
	if err != nil {
		return errors.Wrapf(err, "median of %s", m.Column)
	}
	m.Median = median
	m.fitted = true
	return nil
}

// Transform returns a copy of values with NaN replaced by the learned median
func (m *MedianImputer) Transform(values []float64) ([]float64, error) {
	if !m.fitted {
		return nil, errors.InternalError("median imputer for " + m.Column + " used before fit")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			v = m.Median
		}
		out[i] = v
	}
	return out, nil
}

// ModeImputer fills missing categorical cells with the most frequent value
// observed at fit time
type ModeImputer struct {
	Column string
	Mode   string
	fitted bool
}

// NewModeImputer creates an unfitted imputer for column
func NewModeImputer(column string) *ModeImputer {
	return &ModeImputer{Column: column}
}

// Fit learns the most frequent non-missing value. Ties resolve to the
// lexicographically smallest value.
func (m *ModeImputer) Fit(values []string, missing []bool) error {
	counts := make(map[string]int)
	for i, v := range values {
		if !missing[i] {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return errors.SchemaMismatch("column %s has no observed values to take a mode from", m.Column)
	}
	m.Mode, _ = dataset.MostFrequent(counts)
	m.fitted = true
	return nil
}

// Transform returns a copy of values with missing cells replaced by the mode
func (m *ModeImputer) Transform(values []string, missing []bool) ([]string, error) {
	if !m.fitted {
		return nil, errors.InternalError("mode imputer for " + m.Column + " used before fit")
	}
	out := make([]string, len(values))
	for i, v := range values {
		if missing[i] {
			v = m.Mode
		}
		out[i] = v
	}
	return out, nil
}
