package model

import (
	"fmt"

	"gotitanic/internal/errors"
)

// BinaryFromProba thresholds probabilities; values strictly above threshold map to 1
func BinaryFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > threshold {
			out[i] = 1
		}
	}
	return out
}

// Accuracy is the fraction of positions where yPred equals yTrue
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, errors.InvalidInput(fmt.Sprintf("accuracy over %d labels and %d predictions", len(yTrue), len(yPred)))
	}
	if len(yTrue) == 0 {
		return 0, errors.InvalidInput("accuracy over zero rows")
	}
	correct := CountMatches(yTrue, yPred)
	return float64(correct) / float64(len(yTrue)), nil
}

// CountMatches counts equal positions of two equally long slices
func CountMatches(a, b []int) int {
	c := 0
	for i := range a {
		if a[i] == b[i] {
			c++
		}
	}
	return c
}
