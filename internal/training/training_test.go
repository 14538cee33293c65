package training

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
	"gotitanic/internal/testkit"
)

var trainHeader = []string{"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Ticket", "Fare", "Cabin", "Embarked"}

func threeRowTrain(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.FromRecords("train.csv", [][]string{
		trainHeader,
		{"1", "0", "3", "Braund, Mr. Owen", "male", "22", "1", "0", "A/5 21171", "7.25", "C85", "S"},
		{"2", "1", "1", "Cumings, Mrs. John", "female", "38", "1", "0", "PC 17599", "71.2833", "C85", "S"},
		{"3", "1", "3", "Heikkinen, Miss. Laina", "female", "26", "0", "0", "STON/O2. 3101282", "7.925", "C85", "S"},
	})
	require.NoError(t, err)
	return table
}

func generated(t *testing.T) testkit.GeneratedData {
	t.Helper()
	return testkit.NewPassengerDataGenerator(testkit.DefaultPassengerConfig()).Generate()
}

func tableOf(t *testing.T, source string, records [][]string) *dataset.Table {
	t.Helper()
	table, err := dataset.FromRecords(source, records)
	require.NoError(t, err)
	return table
}

func TestTrainer_ThreeRowsIsReproducible(t *testing.T) {
	tr := NewTrainer(100, internal.Discard)

	first, err := tr.Train(threeRowTrain(t))
	require.NoError(t, err)
	second, err := tr.Train(threeRowTrain(t))
	require.NoError(t, err)

	assert.Equal(t, 3, first.Rows)
	assert.GreaterOrEqual(t, first.Accuracy, 0.0)
	assert.LessOrEqual(t, first.Accuracy, 1.0)
	assert.Equal(t, float64(first.Correct)/3, first.Accuracy)
	assert.Equal(t, first.Accuracy, second.Accuracy)

	// noisy columns never reach the encoded matrix
	names := first.Pipeline.Preprocessor.FeatureNames()
	for _, noisy := range passenger.NoisyColumns {
		assert.NotContains(t, names, noisy)
	}
	assert.NotContains(t, names, passenger.ColPassengerID)
}

func TestTrainer_AccuracyIsExactFraction(t *testing.T) {
	data := generated(t)
	table := tableOf(t, "train.csv", data.Train)

	result, err := NewTrainer(1000, internal.Discard).Train(table)
	require.NoError(t, err)

	assert.Equal(t, len(data.Train)-1, result.Rows)
	assert.Equal(t, float64(result.Correct)/float64(result.Rows), result.Accuracy)
	assert.Greater(t, result.Accuracy, 0.5, "sex and class carry signal in the synthetic data")
}

func TestTrainer_MissingLabel(t *testing.T) {
	data := generated(t)
	table := tableOf(t, "test.csv", data.Test)

	_, err := NewTrainer(100, internal.Discard).Train(table)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
	assert.Contains(t, err.Error(), passenger.ColSurvived)
}

func TestTrainer_NonBinaryLabel(t *testing.T) {
	table := tableOf(t, "train.csv", [][]string{
		trainHeader,
		{"1", "2", "3", "A", "male", "22", "1", "0", "T", "7.25", "", "S"},
		{"2", "1", "1", "B", "female", "38", "1", "0", "T", "71.28", "", "C"},
	})
	_, err := NewTrainer(100, internal.Discard).Train(table)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
}

func TestTrainer_MissingFeatureColumn(t *testing.T) {
	table := tableOf(t, "train.csv", [][]string{
		{"PassengerId", "Survived", "Pclass", "Sex", "Age", "SibSp", "Parch", "Embarked"},
		{"1", "0", "3", "male", "22", "1", "0", "S"},
		{"2", "1", "1", "female", "38", "1", "0", "C"},
	})
	_, err := NewTrainer(100, internal.Discard).Train(table)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
	assert.Contains(t, err.Error(), passenger.ColFare)
}

func TestPredictor_SingleRowWithMissingEmbarked(t *testing.T) {
	result, err := NewTrainer(100, internal.Discard).Train(threeRowTrain(t))
	require.NoError(t, err)

	test := tableOf(t, "test.csv", [][]string{
		{"PassengerId", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Ticket", "Fare", "Cabin", "Embarked"},
		{"892", "3", "Kelly, Mr. James", "male", "34.5", "0", "0", "330911", "7.8292", "", ""},
	})

	preds, err := NewPredictor(internal.Discard).Predict(result.Pipeline, test)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, 892, preds[0].PassengerID)
	assert.Contains(t, []int{0, 1}, preds[0].Survived)
}

func TestPredictor_UnseenCategoriesAndNoNoisyColumns(t *testing.T) {
	result, err := NewTrainer(100, internal.Discard).Train(threeRowTrain(t))
	require.NoError(t, err)

	// Pclass 2, Embarked Q and an unknown Sex were never seen; Name, Ticket
	// and Cabin are absent altogether
	test := tableOf(t, "test.csv", [][]string{
		{"PassengerId", "Pclass", "Sex", "Age", "SibSp", "Parch", "Fare", "Embarked"},
		{"900", "2", "unknown", "30", "0", "0", "13", "Q"},
		{"901", "1", "female", "", "1", "1", "", "C"},
	})

	preds, err := NewPredictor(internal.Discard).Predict(result.Pipeline, test)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, 900, preds[0].PassengerID)
	assert.Equal(t, 901, preds[1].PassengerID)
}

func TestPredictor_PreservesRowOrder(t *testing.T) {
	data := generated(t)
	result, err := NewTrainer(1000, internal.Discard).Train(tableOf(t, "train.csv", data.Train))
	require.NoError(t, err)

	preds, err := NewPredictor(internal.Discard).Predict(result.Pipeline, tableOf(t, "test.csv", data.Test))
	require.NoError(t, err)
	require.Len(t, preds, len(data.Test)-1)
	for i, p := range preds {
		assert.Equal(t, data.Test[i+1][0], strconv.Itoa(p.PassengerID))
	}
}

func TestPredictor_Unfitted(t *testing.T) {
	_, err := NewPredictor(internal.Discard).Predict(NewPipeline(10, internal.Discard), threeRowTrain(t))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}

func TestEvaluate_InnerJoin(t *testing.T) {
	preds := []passenger.Prediction{
		{PassengerID: 1, Survived: 1},
		{PassengerID: 2, Survived: 0},
		{PassengerID: 3, Survived: 1},
		{PassengerID: 4, Survived: 0},
	}
	baseline := map[int]int{2: 0, 3: 0, 4: 0, 99: 1, 100: 0}

	result, err := NewPredictor(internal.Discard).Evaluate(preds, baseline)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Predictions)
	assert.Equal(t, 5, result.Baseline)
	assert.Equal(t, 3, result.Compared)
	assert.Equal(t, 2, result.Matched)
	assert.InDelta(t, 2.0/3.0, result.Accuracy, 1e-12)
}

func TestEvaluate_NoOverlap(t *testing.T) {
	result, err := NewPredictor(internal.Discard).Evaluate(
		[]passenger.Prediction{{PassengerID: 1, Survived: 1}},
		map[int]int{2: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Compared)
}

func TestPredictionsIndependentOfBaseline(t *testing.T) {
	data := generated(t)
	train := tableOf(t, "train.csv", data.Train)
	test := tableOf(t, "test.csv", data.Test)

	run := func(withBaseline bool) []passenger.Prediction {
		result, err := NewTrainer(1000, internal.Discard).Train(train)
		require.NoError(t, err)
		predictor := NewPredictor(internal.Discard)
		preds, err := predictor.Predict(result.Pipeline, test)
		require.NoError(t, err)
		if withBaseline {
			baseline, err := LoadBaseline(tableOf(t, "gender_submission.csv", data.Baseline))
			require.NoError(t, err)
			_, err = predictor.Evaluate(preds, baseline)
			require.NoError(t, err)
		}
		return preds
	}

	assert.Equal(t, run(false), run(true))
}

func TestLoadBaseline(t *testing.T) {
	baseline, err := LoadBaseline(tableOf(t, "gender_submission.csv", [][]string{
		{"PassengerId", "Survived"},
		{"892", "0"},
		{"893", "1"},
	}))
	require.NoError(t, err)
	assert.Equal(t, map[int]int{892: 0, 893: 1}, baseline)

	_, err = LoadBaseline(tableOf(t, "gender_submission.csv", [][]string{
		{"PassengerId", "Survived"},
		{"892", "0"},
		{"892", "1"},
	}))
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))

	_, err = LoadBaseline(tableOf(t, "gender_submission.csv", [][]string{
		{"PassengerId"},
		{"892"},
	}))
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
}
