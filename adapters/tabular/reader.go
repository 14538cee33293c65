package tabular

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"gotitanic/internal"
	"gotitanic/internal/dataset"
	"gotitanic/internal/errors"
)

// DataReader handles reading CSV and Excel files into tables
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a reader that dispatches on file extension
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger}
}

// Read loads path into a table. ".xlsx" files are read from their first
// sheet, everything else is parsed as CSV with a header row.
func (r *DataReader) Read(path string) (*dataset.Table, error) {
	fileType := fileTypeOf(path)
	r.logger.Debug("[DataReader] Starting to read %s file: %s", fileType, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.MissingInput(fmt.Sprintf("%s file not found: %s", strings.ToUpper(fileType), path))
	}

	start := time.Now()
	var (
		table *dataset.Table
		err   error
	)
	switch fileType {
	case "xlsx":
		table, err = r.readExcel(path)
	default:
		table, err = r.readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("[DataReader] %s loaded in %.2fms (%d rows, %d columns)",
		filepath.Base(path), float64(time.Since(start).Nanoseconds())/1e6, table.Rows(), table.NumColumns())
	r.logger.Info("[DataReader] %s columns: %s", filepath.Base(path), strings.Join(table.Names(), ", "))
	return table, nil
}

func (r *DataReader) readCSV(path string) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.MalformedInput(path, err)
	}
	defer file.Close()

	frame := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(dataset.MissingTokens),
	)
	if frame.Err != nil {
		return nil, errors.MalformedInput(path, frame.Err)
	}
	if frame.Nrow() == 0 {
		return nil, errors.MalformedInput(path, fmt.Errorf("CSV file must have at least a header row and one data row"))
	}
	return dataset.NewTable(path, frame)
}

func (r *DataReader) readExcel(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.MalformedInput(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.MalformedInput(path, fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.MalformedInput(path, err)
	}
	if len(rows) < 2 {
		return nil, errors.MalformedInput(path, fmt.Errorf("Excel file must have at least a header row and one data row"))
	}

	// excelize trims trailing empty cells, so rows can be shorter than the header
	width := len(rows[0])
	records := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > width {
			return nil, errors.MalformedInput(path, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), width))
		}
		record := make([]string, width)
		for j, cell := range row {
			record[j] = strings.TrimSpace(cell)
		}
		records[i] = record
	}
	return dataset.FromRecords(path, records)
}

func fileTypeOf(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		return "xlsx"
	}
	return "csv"
}
