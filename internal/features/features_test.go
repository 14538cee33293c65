package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
)

func TestMedianImputer(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{3, 1, math.NaN(), 2}, 2},
		{"even count averages the middle pair", []float64{4, 1, 2, 3, math.NaN()}, 2.5},
		{"single value", []float64{math.NaN(), 7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := NewMedianImputer("Age")
			require.NoError(t, imp.Fit(tt.values))
			assert.Equal(t, tt.want, imp.Median)

			filled, err := imp.Transform([]float64{math.NaN(), 10})
			require.NoError(t, err)
			assert.Equal(t, []float64{tt.want, 10}, filled)
		})
	}
}

func TestMedianImputer_AllMissing(t *testing.T) {
	err := NewMedianImputer("Age").Fit([]float64{math.NaN(), math.NaN()})
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
}

func TestImputers_TransformBeforeFit(t *testing.T) {
	_, err := NewMedianImputer("Age").Transform([]float64{1})
	assert.Error(t, err)
	_, err = NewModeImputer("Sex").Transform([]string{"male"}, []bool{false})
	assert.Error(t, err)
}

func TestModeImputer(t *testing.T) {
	imp := NewModeImputer("Embarked")
	values := []string{"S", "C", "", "S", "Q", "C"}
	missing := []bool{false, false, true, false, false, false}

	require.NoError(t, imp.Fit(values, missing))
	assert.Equal(t, "C", imp.Mode, "S and C tie, C sorts first")

	filled, err := imp.Transform(values, missing)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "C", "C", "S", "Q", "C"}, filled)
	assert.Equal(t, "", values[2], "input is not modified")
}

func TestOneHotEncoder(t *testing.T) {
	enc := NewOneHotEncoder("Sex")
	enc.Fit([]string{"male", "female", "male"})

	assert.Equal(t, []string{"female", "male"}, enc.Categories)
	assert.Equal(t, []string{"Sex_female", "Sex_male"}, enc.FeatureNames())

	dst := make([]float64, enc.Width())
	assert.True(t, enc.Encode(dst, "male"))
	assert.Equal(t, []float64{0, 1}, dst)

	assert.False(t, enc.Encode(dst, "unknown"))
	assert.Equal(t, []float64{0, 0}, dst, "unseen category is all zeros")
}

func trainTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.FromRecords("train.csv", [][]string{
		{"PassengerId", "Survived", "Pclass", "Sex", "Age", "SibSp", "Parch", "Fare", "Embarked"},
		{"1", "0", "3", "male", "22", "1", "0", "7.25", "S"},
		{"2", "1", "1", "female", "38", "1", "0", "71.2833", "C"},
		{"3", "1", "3", "female", "", "0", "0", "7.925", "S"},
		{"4", "1", "1", "female", "35", "1", "0", "53.1", ""},
	})
	require.NoError(t, err)
	return table
}

func TestPreprocessor_FitTransform(t *testing.T) {
	p := NewPreprocessor(passenger.FeatureRecipe, internal.Discard)

	X, err := p.FitTransform(trainTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Age", "SibSp", "Parch", "Fare",
		"Pclass_1", "Pclass_3",
		"Sex_female", "Sex_male",
		"Embarked_C", "Embarked_S",
	}, p.FeatureNames())

	rows, cols := X.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 10, cols)

	// row 3 has no Age: median of 22, 35, 38
	assert.Equal(t, 35.0, X.At(2, 0))
	// row 4 has no Embarked: mode of S, C, S is S
	assert.Equal(t, []float64{0, 1}, mat.Row(nil, 3, X)[8:10])
	assert.Equal(t, []float64{1, 0, 1, 0, 1, 0}, mat.Row(nil, 1, X)[4:10])
}

func TestPreprocessor_TransformUnseenAndMissing(t *testing.T) {
	p := NewPreprocessor(passenger.FeatureRecipe, internal.Discard)
	require.NoError(t, p.Fit(trainTable(t)))

	test, err := dataset.FromRecords("test.csv", [][]string{
		{"PassengerId", "Pclass", "Sex", "Age", "SibSp", "Parch", "Fare", "Embarked"},
		{"892", "2", "male", "", "0", "0", "", "Q"},
		{"893", "3", "female", "47", "1", "0", "7", ""},
	})
	require.NoError(t, err)

	X, err := p.Transform(test)
	require.NoError(t, err)
	row := mat.Row(nil, 0, X)

	assert.Equal(t, 35.0, row[0], "Age filled with training median")
	assert.InDelta(t, (7.925+53.1)/2, row[3], 1e-12, "Fare filled with training median")
	assert.Equal(t, []float64{0, 0}, row[4:6], "Pclass 2 was never seen")
	assert.Equal(t, []float64{0, 0}, row[8:10], "Embarked Q was never seen")

	second := mat.Row(nil, 1, X)
	assert.Equal(t, []float64{0, 1}, second[8:10], "missing Embarked filled with training mode")
}

func TestPreprocessor_MissingColumn(t *testing.T) {
	p := NewPreprocessor(passenger.FeatureRecipe, internal.Discard)
	require.NoError(t, p.Fit(trainTable(t)))

	test, err := dataset.FromRecords("test.csv", [][]string{
		{"PassengerId", "Pclass", "Sex", "Age", "SibSp", "Parch", "Embarked"},
		{"892", "3", "male", "34.5", "0", "0", "Q"},
	})
	require.NoError(t, err)

	_, err = p.Transform(test)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Fare")
}

func TestPreprocessor_TransformBeforeFit(t *testing.T) {
	_, err := NewPreprocessor(passenger.FeatureRecipe, internal.Discard).Transform(trainTable(t))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}

func TestPreprocessor_InvalidRecipe(t *testing.T) {
	recipe := []passenger.FeatureColumn{{Name: "Age", Role: passenger.RoleNumeric}, {Name: "Age", Role: passenger.RoleNumeric}}
	err := NewPreprocessor(recipe, internal.Discard).Fit(trainTable(t))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	err = NewPreprocessor(nil, internal.Discard).Fit(trainTable(t))
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
