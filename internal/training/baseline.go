package training

import (
	"gotitanic/domain/passenger"
	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
)

// LoadBaseline maps passenger id to the baseline survival label. A repeated
// id is a schema error.
func LoadBaseline(t *dataset.Table) (map[int]int, error) {
	if err := t.Require(passenger.ColPassengerID, passenger.ColSurvived); err != nil {
		return nil, err
	}
	ids, err := t.Int(passenger.ColPassengerID)
	if err != nil {
		return nil, err
	}
	labels, err := Labels(t)
	if err != nil {
		return nil, err
	}

	out := make(map[int]int, len(ids))
	for i, id := range ids {
		if _, dup := out[id]; dup {
			return nil, errors.SchemaMismatch("%s: passenger id %d appears more than once", t.Source, id)
		}
		out[id] = labels[i]
	}
	return out, nil
}

func schemaLabelError(source string, row, value int) error {
	return errors.SchemaMismatch("%s: %s at row %d is %d, expected 0 or 1", source, passenger.ColSurvived, row+1, value)
}
