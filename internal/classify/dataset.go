// Package classify trains a classifier on labeled feature tables and labels new ones.
package classify

import (
	"WSNSpectra/internal/tabular"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dataset is a numeric feature matrix with optional labels.
type Dataset struct {
	Features []string
	X        *mat.Dense
	Labels   []string
}

// LoadDataset takes every column except labelColumn as a numeric feature.
// When requireLabels is false a missing label column is allowed and Labels is nil.
// Any empty or non-numeric feature cell is an error.
func LoadDataset(sheet *tabular.Sheet, labelColumn string, requireLabels bool) (*Dataset, error) {
	labelIdx := sheet.Column(labelColumn)
	if labelIdx < 0 && requireLabels {
		return nil, fmt.Errorf("label column '%s' not found in %v", labelColumn, sheet.Header)
	}

	var cols []int
	ds := &Dataset{}
	for i, name := range sheet.Header {
		if i == labelIdx {
			continue
		}
		cols = append(cols, i)
		ds.Features = append(ds.Features, name)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no feature columns besides '%s'", labelColumn)
	}
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	data := make([]float64, 0, len(sheet.Rows)*len(cols))
	for r := range sheet.Rows {
		for _, c := range cols {
			v, ok := tabular.ParseNumber(sheet.Cell(r, c))
			if !ok {
				return nil, fmt.Errorf("row %d, column '%s': %q is not a number", r+2, sheet.Header[c], sheet.Cell(r, c))
			}
			data = append(data, v)
		}
		if labelIdx >= 0 {
			ds.Labels = append(ds.Labels, sheet.Cell(r, labelIdx))
		}
	}
	ds.X = mat.NewDense(len(sheet.Rows), len(cols), data)
	return ds, nil
}

// Align reorders the columns of d to match features. Columns missing from d are an error.
func (d *Dataset) Align(features []string) (*Dataset, error) {
	pos := make(map[string]int, len(d.Features))
	for i, f := range d.Features {
		pos[f] = i
	}
	rows, _ := d.X.Dims()
	out := mat.NewDense(rows, len(features), nil)
	for j, f := range features {
		i, ok := pos[f]
		if !ok {
			return nil, fmt.Errorf("feature column '%s' missing", f)
		}
		out.SetCol(j, mat.Col(nil, i, d.X))
	}
	return &Dataset{Features: append([]string(nil), features...), X: out, Labels: d.Labels}, nil
}
