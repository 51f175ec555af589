// Package dataset loads the labeled symptom table and turns it into a numeric
// feature matrix, a label encoding and a noise-augmented training copy.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Skufu/symptomdx/internal/apperr"
)

// Reserved column names.
const (
	LabelColumn     = "prognosis"
	TestsColumn     = "tests"
	MedicinesColumn = "medicines"
	EmergencyColumn = "emergency"
)

// Row is one labeled observation. Values holds the symptom cells keyed by column
// name; Annotations holds the tests/medicines/emergency cells when present.
type Row struct {
	Prognosis   string
	Values      map[string]string
	Annotations map[string]string
}

// Raw returns every non-label cell of the row, symptoms and annotations alike.
func (r Row) Raw() map[string]string {
	out := make(map[string]string, len(r.Values)+len(r.Annotations))
	for k, v := range r.Values {
		out[k] = v
	}
	for k, v := range r.Annotations {
		out[k] = v
	}
	return out
}

// Dataset is the parsed table. Columns lists the symptom columns in file order.
type Dataset struct {
	Columns     []string
	Annotations []string
	Rows        []Row
}

// Labels returns the prognosis of every row in dataset order.
func (d *Dataset) Labels() []string {
	labels := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		labels[i] = r.Prognosis
	}
	return labels
}

// HasAnnotation reports whether the dataset carries the given annotation column.
func (d *Dataset) HasAnnotation(name string) bool {
	for _, a := range d.Annotations {
		if a == name {
			return true
		}
	}
	return false
}

// LoadCSV reads a dataset from a CSV file with a header row.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.NewDataError(fmt.Sprintf("dataset %s not readable", path), err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a dataset. Columns with an empty header are dropped; cells
// missing from short records read as empty.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.NewDataError("dataset is empty", nil)
		}
		return nil, apperr.NewDataError("read header", err)
	}

	labelIdx := -1
	ds := &Dataset{}
	kinds := make([]int, len(header))
	const (
		skip = iota
		symptom
		annotation
	)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		header[i] = name
		switch name {
		case "":
			kinds[i] = skip
		case LabelColumn:
			labelIdx = i
			kinds[i] = skip
		case TestsColumn, MedicinesColumn, EmergencyColumn:
			kinds[i] = annotation
			ds.Annotations = append(ds.Annotations, name)
		default:
			kinds[i] = symptom
			ds.Columns = append(ds.Columns, name)
		}
	}
	if labelIdx < 0 {
		return nil, apperr.NewDataError(fmt.Sprintf("dataset must contain a %q column", LabelColumn), nil)
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.NewDataError(fmt.Sprintf("line %d", line), err)
		}

		row := Row{
			Values:      make(map[string]string, len(ds.Columns)),
			Annotations: make(map[string]string, len(ds.Annotations)),
		}
		for i, name := range header {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			switch {
			case i == labelIdx:
				row.Prognosis = cell
			case kinds[i] == symptom:
				row.Values[name] = cell
			case kinds[i] == annotation:
				row.Annotations[name] = cell
			}
		}
		if row.Prognosis == "" {
			return nil, apperr.NewDataError(fmt.Sprintf("line %d: empty %s", line, LabelColumn), nil)
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}
