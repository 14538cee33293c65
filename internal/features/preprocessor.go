// Package features turns passenger tables into numeric feature matrices.
//
// The recipe is fixed and enumerated: numeric columns are median-imputed and
// passed through, categorical columns are mode-imputed and one-hot encoded.
// Statistics are learned once by Fit and reused unchanged by Transform, so a
// test table is encoded with the training table's medians, modes and
// categories.
package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
)

type numericStage struct {
	imputer *MedianImputer
}

type categoricalStage struct {
	imputer *ModeImputer
	encoder *OneHotEncoder
}

// Preprocessor is the impute-then-encode stage of the pipeline
type Preprocessor struct {
	recipe       []passenger.FeatureColumn
	numeric      []numericStage
	categorical  []categoricalStage
	featureNames []string
	fitted       bool
	logger       *internal.Logger
}

// NewPreprocessor builds an unfitted preprocessor for recipe
func NewPreprocessor(recipe []passenger.FeatureColumn, logger *internal.Logger) *Preprocessor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	p := &Preprocessor{recipe: recipe, logger: logger}
	for _, col := range recipe {
		switch col.Role {
		case passenger.RoleNumeric:
			p.numeric = append(p.numeric, numericStage{imputer: NewMedianImputer(col.Name)})
		case passenger.RoleCategorical:
			p.categorical = append(p.categorical, categoricalStage{
				imputer: NewModeImputer(col.Name),
				encoder: NewOneHotEncoder(col.Name),
			})
		}
	}
	return p
}

// Recipe returns the column recipe the preprocessor was built with
func (p *Preprocessor) Recipe() []passenger.FeatureColumn {
	return p.recipe
}

// FeatureNames lists the encoded matrix columns; valid after Fit
func (p *Preprocessor) FeatureNames() []string {
	return p.featureNames
}

// Fit learns medians, modes and category sets from t
func (p *Preprocessor) Fit(t *dataset.Table) error {
	if err := p.validateRecipe(); err != nil {
		return err
	}
	if err := t.Require(recipeNames(p.recipe)...); err != nil {
		return err
	}

	var names []string
	for _, stage := range p.numeric {
		values, err := t.Float(stage.imputer.Column)
		if err != nil {
			return err
		}
		if err := stage.imputer.Fit(values); err != nil {
			return err
		}
		p.logger.Debug("[Preprocessor] %s median=%g", stage.imputer.Column, stage.imputer.Median)
		names = append(names, stage.imputer.Column)
	}

	for _, stage := range p.categorical {
		values, missing, err := t.Text(stage.imputer.Column)
		if err != nil {
			return err
		}
		if err := stage.imputer.Fit(values, missing); err != nil {
			return err
		}
		filled, err := stage.imputer.Transform(values, missing)
		if err != nil {
			return err
		}
		stage.encoder.Fit(filled)
		p.logger.Debug("[Preprocessor] %s mode=%q categories=%v", stage.imputer.Column, stage.imputer.Mode, stage.encoder.Categories)
		names = append(names, stage.encoder.FeatureNames()...)
	}

	p.featureNames = names
	p.fitted = true
	return nil
}

// Transform encodes t into a rows x len(FeatureNames()) matrix. Categories
// unseen at fit time become all-zero indicator blocks.
func (p *Preprocessor) Transform(t *dataset.Table) (*mat.Dense, error) {
	if !p.fitted {
		return nil, errors.InternalError("preprocessor used before fit")
	}
	if err := t.Require(recipeNames(p.recipe)...); err != nil {
		return nil, err
	}
	rows := t.Rows()
	if rows == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no rows to transform", t.Source))
	}

	X := mat.NewDense(rows, len(p.featureNames), nil)
	offset := 0

	for _, stage := range p.numeric {
		raw, err := t.Float(stage.imputer.Column)
		if err != nil {
			return nil, err
		}
		filled, err := stage.imputer.Transform(raw)
		if err != nil {
			return nil, err
		}
		X.SetCol(offset, filled)
		offset++
	}

	for _, stage := range p.categorical {
		raw, missing, err := t.Text(stage.imputer.Column)
		if err != nil {
			return nil, err
		}
		filled, err := stage.imputer.Transform(raw, missing)
		if err != nil {
			return nil, err
		}
		width := stage.encoder.Width()
		block := make([]float64, width)
		unseen := 0
		for i, v := range filled {
			if !stage.encoder.Encode(block, v) {
				unseen++
			}
			for j, b := range block {
				X.Set(i, offset+j, b)
			}
		}
		if unseen > 0 {
			p.logger.Debug("[Preprocessor] %s: %d value(s) unseen at fit time encoded as zeros", stage.imputer.Column, unseen)
		}
		offset += width
	}

	return X, nil
}

// FitTransform is Fit followed by Transform on the same table
func (p *Preprocessor) FitTransform(t *dataset.Table) (*mat.Dense, error) {
	if err := p.Fit(t); err != nil {
		return nil, err
	}
	return p.Transform(t)
}

func (p *Preprocessor) validateRecipe() error {
	if len(p.recipe) == 0 {
		return errors.ConfigInvalid("feature recipe is empty")
	}
	seen := make(map[string]bool, len(p.recipe))
	for _, col := range p.recipe {
		if seen[col.Name] {
			return errors.ConfigInvalid(fmt.Sprintf("feature %s listed twice", col.Name))
		}
		seen[col.Name] = true
		if col.Role != passenger.RoleNumeric && col.Role != passenger.RoleCategorical {
			return errors.ConfigInvalid(fmt.Sprintf("feature %s has unknown role %q", col.Name, col.Role))
		}
	}
	return nil
}

func recipeNames(recipe []passenger.FeatureColumn) []string {
	names := make([]string, len(recipe))
	for i, c := range recipe {
		names[i] = c.Name
	}
	return names
}
