package training

import (
	"time"

	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/dataset"
	"gotitanic/internal/model"
)

// TrainResult carries the fitted pipeline and its in-sample score
type TrainResult struct {
	Pipeline *Pipeline
	Rows     int
	Correct  int
	// Accuracy is resubstitution accuracy: optimistic, measured on the
	// rows the model was fitted on
	Accuracy float64
	Duration time.Duration
}

// Trainer fits pipelines on labelled passenger tables
type Trainer struct {
	maxIter int
	logger  *internal.Logger
}

// NewTrainer creates a trainer whose classifiers stop after maxIter iterations
func NewTrainer(maxIter int, logger *internal.Logger) *Trainer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Trainer{maxIter: maxIter, logger: logger}
}

// Train drops the noisy columns, separates the label and fits a fresh
// pipeline, then scores it on its own training rows
func (tr *Trainer) Train(train *dataset.Table) (*TrainResult, error) {
	start := time.Now()

	if err := train.Require(passenger.ColSurvived); err != nil {
		return nil, err
	}
	labels, err := Labels(train)
	if err != nil {
		return nil, err
	}
	inputs := train.DropIfPresent(passenger.NoisyColumns...).DropIfPresent(passenger.ColSurvived)

	tr.logger.Info("[Trainer] fitting on %d rows, %d input columns", inputs.Rows(), inputs.NumColumns())
	pipeline := NewPipeline(tr.maxIter, tr.logger)
	if err := pipeline.Fit(inputs, toFloat(labels)); err != nil {
		return nil, err
	}

	predicted, err := pipeline.Predict(inputs)
	if err != nil {
		return nil, err
	}
	acc, err := model.Accuracy(labels, predicted)
	if err != nil {
		return nil, err
	}

	result := &TrainResult{
		Pipeline: pipeline,
		Rows:     len(labels),
		Correct:  model.CountMatches(labels, predicted),
		Accuracy: acc,
		Duration: time.Since(start),
	}
	tr.logger.Info("[Trainer] resubstitution accuracy %.4f (%d/%d) in %v", result.Accuracy, result.Correct, result.Rows, result.Duration)
	return result, nil
}

// Labels reads the survival column, which must be integer 0/1 with no gaps
func Labels(t *dataset.Table) ([]int, error) {
	values, err := t.Int(passenger.ColSurvived)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if v != 0 && v != 1 {
			return nil, schemaLabelError(t.Source, i, v)
		}
	}
	return values, nil
}

func toFloat(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
