package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing column")

// RowError locates a bad value in an input file.
type RowError struct {
	Err  error
	File string
	Line int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// table is a parsed CSV file with a header row.
type table struct {
	columns map[string]int
	header  []string
	rows    [][]string
	file    string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path) // #nosec G304 - path is chosen by the operator
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseTable(filepath.Base(path), f)
}

func parseTable(name string, r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", name)
	}

	t := &table{file: name, header: records[0], rows: records[1:], columns: make(map[string]int)}
	for i, col := range t.header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		t.header[i] = col
		t.columns[col] = i
	}
	return t, nil
}

func (t *table) has(col string) bool {
	_, ok := t.columns[col]
	return ok
}

func (t *table) require(cols ...string) error {
	for _, col := range cols {
		if !t.has(col) {
			return fmt.Errorf("%s: %w %q", t.file, ErrMissingColumn, col)
		}
	}
	return nil
}

// line returns the 1-based file line of a data row.
func (t *table) line(row int) int {
	return row + 2
}

func (t *table) rowError(row int, err error) error {
	return &RowError{File: t.file, Line: t.line(row), Err: err}
}

func (t *table) get(row int, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][i])
}

func (t *table) int64(row int, col string) (int64, error) {
	v, err := strconv.ParseInt(t.get(row, col), 10, 64)
	if err != nil {
		return 0, t.rowError(row, fmt.Errorf("%s: %w", col, err))
	}
	return v, nil
}

func (t *table) int(row int, col string) (int, error) {
	v, err := t.int64(row, col)
	return int(v), err
}

func (t *table) float(row int, col string, fallback float64) (float64, error) {
	s := t.get(row, col)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, t.rowError(row, fmt.Errorf("%s: %w", col, err))
	}
	return v, nil
}

func (t *table) bool(row int, col string, fallback bool) (bool, error) {
	switch strings.ToLower(t.get(row, col)) {
	case "":
		return fallback, nil
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n":
		return false, nil
	}
	return false, t.rowError(row, fmt.Errorf("%s: not a boolean: %q", col, t.get(row, col)))
}

func (t *table) date(row int, col string) (*time.Time, error) {
	s := t.get(row, col)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(model.WeekLayout, s)
	if err != nil {
		return nil, t.rowError(row, fmt.Errorf("%s: %w", col, err))
	}
	return &d, nil
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path) // #nosec G304 - path is chosen by the operator
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
