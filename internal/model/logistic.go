// Package model implements the binary classifier used by the survival
// pipeline.
package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"gotitanic/internal"
	"gotitanic/internal/errors"
)

// Defaults for the logistic regression solver
const (
	DefaultC         = 1.0
	DefaultMaxIter   = 1000
	DefaultTolerance = 1e-4
)

// LogisticRegression is an L2-penalized binary logistic regression fitted by
// L-BFGS from a zero start. The intercept is not penalized. Fitting is fully
// deterministic: the same inputs always give bit-identical coefficients.
type LogisticRegression struct {
	C         float64
	MaxIter   int
	Tolerance float64

	Weights    []float64
	Intercept  float64
	Iterations int
	Converged  bool

	logger *internal.Logger
}

// NewLogisticRegression returns an unfitted model with the default penalty
// and tolerance and the given iteration budget
func NewLogisticRegression(maxIter int, logger *internal.Logger) *LogisticRegression {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &LogisticRegression{
		C:         DefaultC,
		MaxIter:   maxIter,
		Tolerance: DefaultTolerance,
		logger:    logger,
	}
}

// Fit learns weights and intercept from X (rows x features) and 0/1 labels y
func (m *LogisticRegression) Fit(X mat.Matrix, y []float64) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.InvalidInput("empty training matrix")
	}
	if rows != len(y) {
		return errors.InvalidInput(fmt.Sprintf("X has %d rows but y has %d labels", rows, len(y)))
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return errors.SchemaMismatch("label at row %d is %g, expected 0 or 1", i+1, v)
		}
	}
	if m.C <= 0 {
		return errors.ConfigInvalid("inverse regularization strength C must be positive")
	}

	labels := mat.NewVecDense(rows, append([]float64(nil), y...))
	z := mat.NewVecDense(rows, nil)
	residual := mat.NewVecDense(rows, nil)
	penalty := 1 / m.C

	// objective and gradient share the linear predictor for the same theta
	linear := func(theta []float64) {
		w := mat.NewVecDense(cols, theta[:cols])
		z.MulVec(X, w)
		for i := 0; i < rows; i++ {
			z.SetVec(i, z.AtVec(i)+theta[cols])
		}
	}

	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			linear(theta)
			loss := 0.0
			for i := 0; i < rows; i++ {
				zi := z.AtVec(i)
				loss += softplus(zi) - labels.AtVec(i)*zi
			}
			w := theta[:cols]
			return loss + 0.5*penalty*floats.Dot(w, w)
		},
		Grad: func(grad, theta []float64) {
			linear(theta)
			sum := 0.0
			for i := 0; i < rows; i++ {
				r := sigmoid(z.AtVec(i)) - labels.AtVec(i)
				residual.SetVec(i, r)
				sum += r
			}
			gw := mat.NewVecDense(cols, grad[:cols])
			gw.MulVec(X.T(), residual)
			floats.AddScaled(grad[:cols], penalty, theta[:cols])
			grad[cols] = sum
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   m.MaxIter,
		GradientThreshold: m.Tolerance,
	}
	result, err := optimize.Minimize(problem, make([]float64, cols+1), settings, &optimize.LBFGS{})
	if result == nil {
		return errors.Wrap(err, "logistic regression solver failed")
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return errors.Wrap(fmt.Errorf("non-finite loss %v", result.F), "logistic regression solver diverged")
	}
	if err != nil {
		m.logger.Warn("[LogisticRegression] solver stopped early (%v), keeping best coefficients", err)
	}

	m.Weights = append([]float64(nil), result.X[:cols]...)
	m.Intercept = result.X[cols]
	m.Iterations = result.MajorIterations
	m.Converged = err == nil && result.Status != optimize.IterationLimit
	if result.Status == optimize.IterationLimit {
		m.logger.Warn("[LogisticRegression] reached max_iter=%d without converging", m.MaxIter)
	}
	m.logger.Debug("[LogisticRegression] status=%v iterations=%d loss=%.6f", result.Status, m.Iterations, result.F)
	return nil
}

// PredictProba returns p(y=1) for every row of X
func (m *LogisticRegression) PredictProba(X mat.Matrix) ([]float64, error) {
	if m.Weights == nil {
		return nil, errors.InternalError("logistic regression used before fit")
	}
	rows, cols := X.Dims()
	if cols != len(m.Weights) {
		return nil, errors.SchemaMismatch("matrix has %d features, model was fitted on %d", cols, len(m.Weights))
	}

	z := mat.NewVecDense(rows, nil)
	z.MulVec(X, mat.NewVecDense(cols, m.Weights))
	out := make([]float64, rows)
	for i := range out {
		out[i] = sigmoid(z.AtVec(i) + m.Intercept)
	}
	return out, nil
}

// Predict returns 1 where p(y=1) > 0.5, else 0
func (m *LogisticRegression) Predict(X mat.Matrix) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return BinaryFromProba(proba, 0.5), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1 + exp(z)) without overflow
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}
