package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vaibhaw-/omopgen/internal/omopgen/cdm"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
)

var (
	// ErrOutputDirMissing is returned when the export directory does not exist.
	ErrOutputDirMissing = errors.New("output directory does not exist")
	// ErrMissingColumn is returned when a record lacks a column of its table.
	ErrMissingColumn = errors.New("record is missing a column")
	// ErrUnknownTable is returned for a table with no column order.
	ErrUnknownTable = errors.New("unknown table")
)

// File describes one written output file.
type File struct {
	Table string
	Name  string // base name inside the output directory
	Rows  int
}

// CheckDir returns ErrOutputDirMissing unless dir exists and is a directory.
// The directory is never created.
func CheckDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", dir, ErrOutputDirMissing)
		}
		return fmt.Errorf("stat output dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, ErrOutputDirMissing)
	}
	return nil
}

// CSVName returns the file name a table is exported to.
func CSVName(table string) string {
	return table + ".csv"
}

// WriteCSVFiles writes one <table>.csv per table into dir, overwriting
// existing files.
func WriteCSVFiles(dir string, tables []cdm.Table) ([]File, error) {
	log := logger.L()
	if err := CheckDir(dir); err != nil {
		return nil, err
	}

	files := make([]File, 0, len(tables))
	for _, t := range tables {
		name := CSVName(t.Name)
		path := filepath.Join(dir, name)
		start := time.Now()

		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		rows, err := WriteCSV(f, t)
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			return nil, err
		}
		log.Infow("table exported", "table", t.Name, "path", path, "rows", rows, "duration", time.Since(start))
		files = append(files, File{Table: t.Name, Name: name, Rows: rows})
	}
	return files, nil
}

// WriteCSV writes t as CSV with a header row in the table's fixed column
// order and returns the number of data rows written.
func WriteCSV(w io.Writer, t cdm.Table) (int, error) {
	cols, ok := cdm.Columns[t.Name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", t.Name, ErrUnknownTable)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return 0, err
	}
	row := make([]string, len(cols))
	for i, rec := range t.Records {
		fields := rec.Fields()
		for j, col := range cols {
			v, ok := fields[col]
			if !ok {
				return i, fmt.Errorf("%s row %d column %s: %w", t.Name, i, col, ErrMissingColumn)
			}
			row[j] = FormatValue(v)
		}
		if err := cw.Write(row); err != nil {
			return i, err
		}
	}
	cw.Flush()
	return len(t.Records), cw.Error()
}

// FormatValue renders a field for CSV: nil as empty, dates as YYYY-MM-DD,
// floats in their shortest exact form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case cdm.Date:
		return x.String()
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
