// Package dataset holds named float64 columns and turns a selection of them
// into a design matrix and response vector.
package dataset

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

// Frame is an immutable table of equally long, named float64 columns.
type Frame struct {
	names []string
	index map[string]int
	cols  [][]float64
	nrows int
}

// NewFrame builds a Frame from a header and row-major data.
func NewFrame(header []string, rows [][]float64) (*Frame, error) {
	if len(header) == 0 {
		return nil, errors.NewValidationError("header", "no columns", 0)
	}
	cols := make([][]float64, len(header))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, errors.NewValidationError("rows",
				fmt.Sprintf("row %d has %d values, expected %d", i, len(row), len(header)), len(row))
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	return newFrame(header, cols)
}

// FromColumns builds a Frame from a column map. order fixes the column
// order; when nil the names are sorted.
func FromColumns(columns map[string][]float64, order []string) (*Frame, error) {
	if order == nil {
		order = make([]string, 0, len(columns))
		for name := range columns {
			order = append(order, name)
		}
		slices.Sort(order)
	}
	if len(order) != len(columns) {
		return nil, errors.NewDimensionError("dataset.FromColumns", len(columns), len(order), 1)
	}

	cols := make([][]float64, len(order))
	for j, name := range order {
		c, ok := columns[name]
		if !ok {
			return nil, errors.NewValidationError("order", "unknown column", name)
		}
		cols[j] = append([]float64(nil), c...)
	}
	return newFrame(order, cols)
}

func newFrame(names []string, cols [][]float64) (*Frame, error) {
	if len(names) == 0 {
		return nil, errors.NewValidationError("columns", "no columns", 0)
	}
	f := &Frame{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		cols:  cols,
		nrows: len(cols[0]),
	}
	for j, name := range names {
		if name == "" {
			return nil, errors.NewValidationError("columns", fmt.Sprintf("column %d has an empty name", j), name)
		}
		if _, dup := f.index[name]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", name)
		}
		if len(cols[j]) != f.nrows {
			return nil, errors.NewValidationError("columns",
				fmt.Sprintf("column %q has %d values, expected %d", name, len(cols[j]), f.nrows), len(cols[j]))
		}
		f.index[name] = j
	}
	return f, nil
}

// Names returns the column names in order.
func (f *Frame) Names() []string { return append([]string(nil), f.names...) }

// Rows returns the number of rows.
func (f *Frame) Rows() int { return f.nrows }

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	j, ok := f.index[name]
	if !ok {
		return nil, errors.NewValidationError("column", "unknown column", name)
	}
	return append([]float64(nil), f.cols[j]...), nil
}

// Select returns the design matrix of predictors, their names and the
// response vector. With no predictors every column except response is used,
// in frame order.
func (f *Frame) Select(response string, predictors ...string) (*mat.Dense, []string, *mat.VecDense, error) {
	if f.nrows == 0 {
		return nil, nil, nil, errors.NewModelError("dataset.Select", "empty data", errors.ErrEmptyData)
	}
	yCol, err := f.Column(response)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(predictors) == 0 {
		for _, name := range f.names {
			if name != response {
				predictors = append(predictors, name)
			}
		}
		if len(predictors) == 0 {
			return nil, nil, nil, errors.NewValidationError("predictors", "no predictor columns besides the response", response)
		}
	}

	x := mat.NewDense(f.nrows, len(predictors), nil)
	for j, name := range predictors {
		if name == response {
			return nil, nil, nil, errors.NewValidationError("predictors", "response cannot be a predictor", name)
		}
		k, ok := f.index[name]
		if !ok {
			return nil, nil, nil, errors.NewValidationError("predictors", "unknown column", name)
		}
		x.SetCol(j, f.cols[k])
	}

	return x, append([]string(nil), predictors...), mat.NewVecDense(f.nrows, yCol), nil
}
