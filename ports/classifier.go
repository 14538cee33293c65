package ports

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is a binary classifier over an encoded feature matrix.
// Labels are 0 or 1; PredictProba returns p(y=1) per row.
type Classifier interface {
	Fit(X mat.Matrix, y []float64) error
	PredictProba(X mat.Matrix) ([]float64, error)
	Predict(X mat.Matrix) ([]int, error)
}
