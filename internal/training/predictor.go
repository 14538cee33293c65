package training

import (
	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
	"gotitanic/internal/model"
)

// EvalResult is the agreement between predictions and a baseline file.
// It is not a ground-truth accuracy.
type EvalResult struct {
	Predictions int
	Baseline    int
	Compared    int
	Matched     int
	Accuracy    float64
}

// Predictor applies a fitted pipeline to unlabelled passenger tables
type Predictor struct {
	logger *internal.Logger
}

func NewPredictor(logger *internal.Logger) *Predictor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Predictor{logger: logger}
}

// Predict returns one prediction per row of test in input order. Noisy
// columns are dropped if they are present.
func (p *Predictor) Predict(pipeline *Pipeline, test *dataset.Table) ([]passenger.Prediction, error) {
	if pipeline == nil || !pipeline.Fitted() {
		return nil, errors.InternalError("predict called without a fitted pipeline")
	}
	ids, err := test.Int(passenger.ColPassengerID)
	if err != nil {
		return nil, err
	}
	inputs := test.DropIfPresent(passenger.NoisyColumns...)

	labels, err := pipeline.Predict(inputs)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(ids) {
		return nil, errors.InternalError("prediction count does not match row count")
	}

	out := make([]passenger.Prediction, len(ids))
	for i := range ids {
		out[i] = passenger.Prediction{PassengerID: ids[i], Survived: labels[i]}
	}
	p.logger.Info("[Predictor] %d predictions for %s", len(out), test.Source)
	return out, nil
}

// Evaluate inner-joins predictions with baseline labels on passenger id.
// Ids present on only one side are left out of the figure. With no common
// ids Compared is zero and Accuracy is meaningless.
func (p *Predictor) Evaluate(predictions []passenger.Prediction, baseline map[int]int) (*EvalResult, error) {
	var truth, guess []int
	for _, pred := range predictions {
		label, ok := baseline[pred.PassengerID]
		if !ok {
			continue
		}
		truth = append(truth, label)
		guess = append(guess, pred.Survived)
	}
	result := &EvalResult{
		Predictions: len(predictions),
		Baseline:    len(baseline),
		Compared:    len(truth),
	}
	if result.Compared == 0 {
		p.logger.Warn("[Predictor] no passenger ids in common with the baseline")
		return result, nil
	}
	acc, err := model.Accuracy(truth, guess)
	if err != nil {
		return nil, err
	}
	result.Matched = model.CountMatches(truth, guess)
	result.Accuracy = acc
	p.logger.Debug("[Predictor] baseline join kept %d of %d predictions and %d baseline rows", result.Compared, result.Predictions, result.Baseline)
	return result, nil
}
