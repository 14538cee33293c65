// Package training composes the preprocessing recipe with the classifier
// and runs the fit, predict and baseline-evaluation steps on passenger
// tables.
package training

import (
	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
	"gotitanic/internal/features"
	"gotitanic/internal/model"
	"gotitanic/ports"
)

// Pipeline is the fitted impute -> encode -> classify chain. It lives only
// for the duration of a run.
type Pipeline struct {
	Preprocessor *features.Preprocessor
	Classifier   ports.Classifier
	fitted       bool
}

// NewPipeline builds the fixed passenger recipe with a logistic regression
// capped at maxIter iterations
func NewPipeline(maxIter int, logger *internal.Logger) *Pipeline {
	return NewPipelineWith(
		features.NewPreprocessor(passenger.FeatureRecipe, logger),
		model.NewLogisticRegression(maxIter, logger),
	)
}

// NewPipelineWith composes an arbitrary preprocessor and classifier
func NewPipelineWith(pre *features.Preprocessor, clf ports.Classifier) *Pipeline {
	return &Pipeline{Preprocessor: pre, Classifier: clf}
}

// Fitted reports whether Fit completed
func (p *Pipeline) Fitted() bool {
	return p.fitted
}

// Fit learns preprocessing statistics and classifier weights
func (p *Pipeline) Fit(t *dataset.Table, y []float64) error {
	X, err := p.Preprocessor.FitTransform(t)
	if err != nil {
		return errors.Wrapf(err, "preprocessing %s", t.Source)
	}
	if err := p.Classifier.Fit(X, y); err != nil {
		return errors.Wrap(err, "fitting classifier")
	}
	p.fitted = true
	return nil
}

// Predict returns one 0/1 label per row of t, in row order
func (p *Pipeline) Predict(t *dataset.Table) ([]int, error) {
	if !p.fitted {
		return nil, errors.InternalError("pipeline used before fit")
	}
	X, err := p.Preprocessor.Transform(t)
	if err != nil {
		return nil, errors.Wrapf(err, "preprocessing %s", t.Source)
	}
	return p.Classifier.Predict(X)
}
