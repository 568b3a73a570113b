package dataset

import (
	"math"

	"gocausal/domain/core"
)

// Dataset is a row-major data matrix over labeled variables. A NaN cell is
// the explicit missing marker; every row shares the same variable keys.
type Dataset struct {
	VariableKeys []core.VariableKey `json:"variable_keys"`
	Rows         [][]float64        `json:"rows"`
}

// New creates an empty dataset with capacity for n rows.
func New(keys []core.VariableKey, n int) *Dataset {
	return &Dataset{
		VariableKeys: append([]core.VariableKey(nil), keys...),
		Rows:         make([][]float64, 0, n),
	}
}

// RowCount returns the number of records.
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnCount returns the number of variables.
func (d *Dataset) ColumnCount() int {
	return len(d.VariableKeys)
}

// Append adds a record. The record length must match the variable keys.
func (d *Dataset) Append(row []float64) {
	d.Rows = append(d.Rows, row)
}

// Column returns the j-th column, missing cells included as NaN.
func (d *Dataset) Column(j int) []float64 {
	col := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		col[i] = row[j]
	}
	return col
}

// ObservedColumn returns the non-missing values of column j together with
// their row indices.
func (d *Dataset) ObservedColumn(j int) ([]float64, []int) {
	var values []float64
	var rows []int
	for i, row := range d.Rows {
		if !math.IsNaN(row[j]) {
			values = append(values, row[j])
			rows = append(rows, i)
		}
	}
	return values, rows
}

// IsMissing reports whether cell (i, j) carries the missing marker.
func (d *Dataset) IsMissing(i, j int) bool {
	return math.IsNaN(d.Rows[i][j])
}

// MissingCells counts missing cells across the whole dataset.
func (d *Dataset) MissingCells() int {
	count := 0
	for _, row := range d.Rows {
		for _, v := range row {
			if math.IsNaN(v) {
				count++
			}
		}
	}
	return count
}

// IsComplete reports whether column j has no missing cells.
func (d *Dataset) IsComplete(j int) bool {
	for _, row := range d.Rows {
		if math.IsNaN(row[j]) {
			return false
		}
	}
	return true
}

// CompleteCases returns the subset of records with no missing cell. Rows are
// copied so injectors cannot alias the filtered view.
func (d *Dataset) CompleteCases() *Dataset {
	out := New(d.VariableKeys, len(d.Rows))
	for _, row := range d.Rows {
		complete := true
		for _, v := range row {
			if math.IsNaN(v) {
				complete = false
				break
			}
		}
		if complete {
			out.Append(append([]float64(nil), row...))
		}
	}
	return out
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := New(d.VariableKeys, len(d.Rows))
	for _, row := range d.Rows {
		out.Append(append([]float64(nil), row...))
	}
	return out
}
