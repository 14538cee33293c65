package dataset

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
)

// NumericSummary holds describe statistics for a numeric column
type NumericSummary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// TextSummary holds describe statistics for a text column
type TextSummary struct {
	Count  int
	Unique int
	Top    string
	Freq   int
}

// ColumnSummary describes one column of a table
type ColumnSummary struct {
	Name    string
	Type    series.Type
	NonNull int
	Numeric *NumericSummary
	Text    *TextSummary
}

// Describe summarizes every column of t in file order
func Describe(t *Table) ([]ColumnSummary, error) {
	names := t.Names()
	types := t.Types()
	out := make([]ColumnSummary, 0, len(names))

	for i, name := range names {
		summary := ColumnSummary{Name: name, Type: types[i]}
		if isNumericType(types[i]) {
			values, err := t.Float(name)
			if err != nil {
				return nil, err
			}
			observed := dropNaN(values)
			summary.NonNull = len(observed)
			summary.Numeric = describeNumeric(observed)
		} else {
			values, missing, err := t.Text(name)
			if err != nil {
				return nil, err
			}
			summary.Text = describeText(values, missing)
			summary.NonNull = summary.Text.Count
		}
		out = append(out, summary)
	}
	return out, nil
}

func describeNumeric(data []float64) *NumericSummary {
	s := &NumericSummary{Count: len(data)}
	if len(data) == 0 {
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan(), nan(), nan(), nan(), nan(), nan(), nan()
		return s
	}

	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Median, _ = stats.Median(data)
	s.Q25, _ = stats.PercentileNearestRank(data, 25)
	s.Q75, _ = stats.PercentileNearestRank(data, 75)
	if len(data) > 1 {
		s.Std, _ = stats.StandardDeviationSample(data)
	} else {
		s.Std = nan()
	}
	return s
}

func describeText(values []string, missing []bool) *TextSummary {
	counts := make(map[string]int)
	s := &TextSummary{}
	for i, v := range values {
		if missing[i] {
			continue
		}
		s.Count++
		counts[v]++
	}
	s.Unique = len(counts)
	s.Top, s.Freq = MostFrequent(counts)
	return s
}

// MostFrequent returns the value with the highest count. Ties go to the
// lexicographically smallest value so the result does not depend on map order.
func MostFrequent(counts map[string]int) (string, int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	top, freq := "", 0
	for _, k := range keys {
		if counts[k] > freq {
			top, freq = k, counts[k]
		}
	}
	return top, freq
}

// WriteSummary prints the shape, column list, a short preview, per-column
// types with non-null counts, and describe statistics for the first
// describeColumns columns.
func WriteSummary(w io.Writer, t *Table, previewRows, describeColumns int) error {
	summaries, err := Describe(t)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "[SUMMARY]")
	fmt.Fprintf(w, "Rows: %d  |  Columns: %d\n", t.Rows(), t.NumColumns())
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(t.Names(), ", "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Names(), "\t"))
	for _, row := range t.Head(previewRows) {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "column\ttype\tnon-null")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Name, s.Type, s.NonNull)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if describeColumns > len(summaries) {
		describeColumns = len(summaries)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Describe (first %d columns):\n", describeColumns)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\tunique\ttop\tfreq")
	for _, s := range summaries[:describeColumns] {
		if s.Numeric != nil {
			n := s.Numeric
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\t\t\n",
				s.Name, n.Count, num(n.Mean), num(n.Std), num(n.Min), num(n.Q25), num(n.Median), num(n.Q75), num(n.Max))
			continue
		}
		x := s.Text
		fmt.Fprintf(tw, "%s\t%d\t\t\t\t\t\t\t\t%d\t%s\t%d\n", s.Name, x.Count, x.Unique, x.Top, x.Freq)
	}
	return tw.Flush()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

func nan() float64 { return math.NaN() }

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
