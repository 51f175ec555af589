package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FeatureMatrix is the numeric training table. Columns is the column order that
// inference must reproduce; every row has exactly len(Columns) values.
type FeatureMatrix struct {
	Columns []string
	Rows    [][]float64
}

func (m *FeatureMatrix) NumRows() int { return len(m.Rows) }
func (m *FeatureMatrix) NumCols() int { return len(m.Columns) }

// Clone returns a deep copy.
func (m *FeatureMatrix) Clone() *FeatureMatrix {
	out := &FeatureMatrix{
		Columns: append([]string(nil), m.Columns...),
		Rows:    make([][]float64, len(m.Rows)),
	}
	for i, row := range m.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}
	return out
}

// Validate checks the rectangular shape.
func (m *FeatureMatrix) Validate() error {
	for i, row := range m.Rows {
		if len(row) != len(m.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(m.Columns))
		}
	}
	return nil
}

// Encode turns the dataset's symptom columns into a FeatureMatrix and returns the
// raw label of each row. A column whose non-empty cells all coerce to numbers
// (yes/no and true/false count as 1/0) stays a single column with empty cells
// read as 0. Any other column is replaced in place by one binary column per
// distinct value, named <column>_<value>, values in ascending order.
func Encode(ds *Dataset) (*FeatureMatrix, []string) {
	type encoder struct {
		name     string
		numeric  bool
		category []string
	}

	encoders := make([]encoder, 0, len(ds.Columns))
	var columns []string
	for _, col := range ds.Columns {
		enc := encoder{name: col, numeric: true}
		distinct := map[string]struct{}{}
		for _, r := range ds.Rows {
			cell := r.Values[col]
			if cell == "" {
				continue
			}
			distinct[cell] = struct{}{}
			if _, ok := coerce(cell); !ok {
				enc.numeric = false
			}
		}
		if enc.numeric {
			columns = append(columns, col)
		} else {
			for v := range distinct {
				enc.category = append(enc.category, v)
			}
			sort.Strings(enc.category)
			for _, v := range enc.category {
				columns = append(columns, col+"_"+v)
			}
		}
		encoders = append(encoders, enc)
	}

	m := &FeatureMatrix{Columns: columns, Rows: make([][]float64, len(ds.Rows))}
	for i, r := range ds.Rows {
		row := make([]float64, 0, len(columns))
		for _, enc := range encoders {
			cell := r.Values[enc.name]
			if enc.numeric {
				v, _ := coerce(cell)
				row = append(row, v)
				continue
			}
			for _, v := range enc.category {
				if cell == v {
					row = append(row, 1)
				} else {
					row = append(row, 0)
				}
			}
		}
		m.Rows[i] = row
	}

	return m, ds.Labels()
}

// coerce converts a cell to a number. Empty cells are 0. NaN and infinities
// are not numbers here, so such a column is encoded as categorical.
func coerce(cell string) (float64, bool) {
	if cell == "" {
		return 0, true
	}
	switch strings.ToLower(cell) {
	case "yes", "true":
		return 1, true
	case "no", "false":
		return 0, true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
