// Package dataset holds the in-memory passenger tables used by a single
// invocation. A Table wraps a gota DataFrame whose column types were inferred
// at load time and adds the typed, schema-checked accessors the feature
// pipeline needs.
package dataset

import (
	stderrors "errors"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"gotitanic/internal/errors"
)

// Table is a loaded tabular dataset with preserved column order
type Table struct {
	Source string
	frame  dataframe.DataFrame
}

// NewTable wraps an already parsed DataFrame
func NewTable(source string, frame dataframe.DataFrame) (*Table, error) {
	if frame.Err != nil {
		return nil, errors.MalformedInput(source, frame.Err)
	}
	return &Table{Source: source, frame: frame}, nil
}

// FromRecords builds a table from a header row followed by data rows,
// inferring column types and treating MissingTokens as null.
func FromRecords(source string, records [][]string) (*Table, error) {
	if len(records) < 2 {
		return nil, errors.MalformedInput(source, errNoDataRows)
	}
	frame := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingTokens),
	)
	return NewTable(source, frame)
}

// MissingTokens are the cell values treated as null
var MissingTokens = []string{"", "NA", "NaN", "<nil>"}

var errNoDataRows = stderrors.New("a header row and at least one data row are required")

// Frame exposes the underlying DataFrame
func (t *Table) Frame() dataframe.DataFrame {
	return t.frame
}

// Rows returns the number of data rows
func (t *Table) Rows() int {
	return t.frame.Nrow()
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return t.frame.Ncol()
}

// Names returns column names in file order
func (t *Table) Names() []string {
	return t.frame.Names()
}

// Types returns the inferred type of every column in file order
func (t *Table) Types() []series.Type {
	return t.frame.Types()
}

// Has reports whether the table has a column called name
func (t *Table) Has(name string) bool {
	for _, n := range t.frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Require fails with a schema error naming every absent column
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.SchemaMismatch("%s: missing required column(s) %s", t.Source, strings.Join(missing, ", "))
	}
	return nil
}

// DropIfPresent returns a table without the named columns. Names that are
// not present are ignored.
func (t *Table) DropIfPresent(names ...string) *Table {
	var present []string
	for _, name := range names {
		if t.Has(name) {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return t
	}
	return &Table{Source: t.Source, frame: t.frame.Drop(present)}
}

// Column returns the named series
func (t *Table) Column(name string) (series.Series, error) {
	if !t.Has(name) {
		return series.Series{}, errors.SchemaMismatch("%s: missing column %s", t.Source, name)
	}
	col := t.frame.Col(name)
	if col.Err != nil {
		return series.Series{}, errors.Wrapf(col.Err, "%s: reading column %s", t.Source, name)
	}
	return col, nil
}

// Float returns a numeric column with NaN for missing cells. A column that
// was inferred as text is rejected unless every cell is missing.
func (t *Table) Float(name string) ([]float64, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if !isNumericType(col.Type()) && !allMissing(col) {
		return nil, errors.SchemaMismatch("%s: column %s is %s, expected numeric", t.Source, name, col.Type())
	}
	out := make([]float64, col.Len())
	for i := range out {
		elem := col.Elem(i)
		if elem.IsNA() {
			out[i] = math.NaN()
			continue
		}
		out[i] = elem.Float()
	}
	return out, nil
}

// Text returns a column as strings together with a missing mask
func (t *Table) Text(name string) ([]string, []bool, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, nil, err
	}
	values := make([]string, col.Len())
	missing := make([]bool, col.Len())
	for i := range values {
		elem := col.Elem(i)
		if elem.IsNA() {
			missing[i] = true
			continue
		}
		values[i] = elem.String()
	}
	return values, missing, nil
}

// Int returns a column of integers. Missing or fractional cells are
// schema errors.
func (t *Table) Int(name string) ([]int, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, col.Len())
	for i := range out {
		elem := col.Elem(i)
		if elem.IsNA() {
			return nil, errors.SchemaMismatch("%s: column %s has a missing value at row %d", t.Source, name, i+1)
		}
		f := elem.Float()
		if math.IsNaN(f) || f != math.Trunc(f) {
			return nil, errors.SchemaMismatch("%s: column %s has non-integer value %q at row %d", t.Source, name, elem.String(), i+1)
		}
		out[i] = int(f)
	}
	return out, nil
}

// Head returns up to n rows rendered as strings, missing cells as "NaN"
func (t *Table) Head(n int) [][]string {
	if n > t.Rows() {
		n = t.Rows()
	}
	cols := make([]series.Series, 0, t.NumColumns())
	for _, name := range t.Names() {
		cols = append(cols, t.frame.Col(name))
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = col.Elem(i).String()
		}
		rows[i] = row
	}
	return rows
}

func isNumericType(typ series.Type) bool {
	return typ == series.Int || typ == series.Float
}

func allMissing(col series.Series) bool {
	for _, na := range col.IsNaN() {
		if !na {
			return false
		}
	}
	return true
}
