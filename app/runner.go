package app

import (
	"fmt"
	"io"
	"path/filepath"

	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/config"
	"gotitanic/internal/dataset"
	"gotitanic/internal/envcheck"
	"gotitanic/internal/errors"
	"gotitanic/internal/training"
	"gotitanic/ports"
)

// Summary layout
const (
	summaryPreviewRows  = 3
	summaryDescribeCols = 8
)

// Runner sequences the CLI modes. The environment check gates every mode,
// and a pipeline fitted by train is reused by a later predict in the same
// run.
type Runner struct {
	cfg       *config.Config
	reader    ports.TableReader
	checker   *envcheck.Checker
	trainer   *training.Trainer
	predictor *training.Predictor
	out       io.Writer
	logger    *internal.Logger

	env         *envcheck.Result
	pipeline    *training.Pipeline
	predictions []passenger.Prediction
	evaluation  *training.EvalResult
}

// NewRunner wires the components for one invocation. Reports go to out,
// diagnostics to logger.
func NewRunner(cfg *config.Config, reader ports.TableReader, out io.Writer, logger *internal.Logger) *Runner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Runner{
		cfg:       cfg,
		reader:    reader,
		checker:   envcheck.NewChecker(logger),
		trainer:   training.NewTrainer(cfg.Model.MaxIter, logger),
		predictor: training.NewPredictor(logger),
		out:       out,
		logger:    logger,
	}
}

// Run executes mode after the environment check
func (r *Runner) Run(mode string) error {
	if !config.IsMode(mode) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown mode %q", mode))
	}
	r.logger.Info("[Runner] mode=%s data_dir=%s", mode, r.cfg.Data.Dir)

	if err := r.Check(); err != nil {
		return err
	}

	switch mode {
	case config.ModeSummary:
		return r.Summary()
	case config.ModeTrain:
		return r.Train()
	case config.ModePredict:
		return r.Predict()
	case config.ModeAll:
		return r.All()
	}
	return nil
}

// Check stats the input files and prints the result. It fails with
// MISSING_INPUT when train or test is absent.
func (r *Runner) Check() error {
	result, err := r.checker.Check(r.cfg.Data.Dir)
	if err != nil {
		return err
	}
	result.Report(r.out)
	if err := result.Err(); err != nil {
		return err
	}
	r.env = result
	return nil
}

// Summary prints shape, a short preview and per-column statistics of the
// training table
func (r *Runner) Summary() error {
	train, err := r.load(passenger.TrainFile)
	if err != nil {
		return err
	}
	return dataset.WriteSummary(r.out, train, summaryPreviewRows, summaryDescribeCols)
}

// Train fits a fresh pipeline on the training table and keeps it for Predict
func (r *Runner) Train() error {
	train, err := r.load(passenger.TrainFile)
	if err != nil {
		return err
	}
	result, err := r.trainer.Train(train)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "[TRAIN] Resubstitution accuracy: %.4f on %d rows (optimistic, not held out)\n", result.Accuracy, result.Rows)
	r.pipeline = result.Pipeline
	return nil
}

// Predict labels the test table, training first if no pipeline is held.
// The baseline comparison runs only when the baseline file exists.
func (r *Runner) Predict() error {
	if r.pipeline == nil {
		r.logger.Info("[Runner] no fitted pipeline in this run, training first")
		if err := r.Train(); err != nil {
			return err
		}
	}

	test, err := r.load(passenger.TestFile)
	if err != nil {
		return err
	}
	preds, err := r.predictor.Predict(r.pipeline, test)
	if err != nil {
		return err
	}
	r.predictions = preds

	fmt.Fprintf(r.out, "[PREDICT] %d predictions\n", len(preds))
	for i, p := range preds {
		if i >= r.cfg.Run.PreviewRows {
			break
		}
		fmt.Fprintf(r.out, "PassengerId=%d Survived=%d\n", p.PassengerID, p.Survived)
	}

	return r.evaluate()
}

// All runs summary, train and predict in that order
func (r *Runner) All() error {
	for _, step := range []func() error{r.Summary, r.Train, r.Predict} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Predictions returns the labels produced by the last Predict
func (r *Runner) Predictions() []passenger.Prediction {
	return r.predictions
}

// Evaluation returns the last baseline comparison, nil if it was skipped
func (r *Runner) Evaluation() *training.EvalResult {
	return r.evaluation
}

func (r *Runner) evaluate() error {
	path, ok := r.baselinePath()
	if !ok {
		r.logger.Info("[Runner] %s not present, skipping approximate accuracy", passenger.BaselineFile)
		return nil
	}
	table, err := r.reader.Read(path)
	if err != nil {
		return err
	}
	baseline, err := training.LoadBaseline(table)
	if err != nil {
		return err
	}
	result, err := r.predictor.Evaluate(r.predictions, baseline)
	if err != nil {
		return err
	}
	r.evaluation = result
	if result.Compared == 0 {
		fmt.Fprintf(r.out, "[INFO] No passenger ids shared with %s; approximate accuracy skipped\n", passenger.BaselineFile)
		return nil
	}
	fmt.Fprintf(r.out, "[EVAL] Approximate accuracy vs baseline: %.4f over %d matched passengers (baseline is NOT ground truth)\n", result.Accuracy, result.Compared)
	return nil
}

func (r *Runner) load(name string) (*dataset.Table, error) {
	return r.reader.Read(r.path(name))
}

func (r *Runner) path(name string) string {
	if r.env != nil {
		if f, ok := r.env.Lookup(name); ok {
			return f.Path
		}
		return filepath.Join(r.env.Dir, name)
	}
	return filepath.Join(r.cfg.Data.Dir, name)
}

func (r *Runner) baselinePath() (string, bool) {
	if r.env == nil {
		return "", false
	}
	return r.env.BaselinePath()
}
