package results

import (
	"context"
	"math"

	"github.com/xuri/excelize/v2"

	"gocausal/domain/experiment"
)

// ExcelWriter exports records and aggregates into one workbook with two
// sheets. Missing metrics become empty cells.
type ExcelWriter struct {
	path string
}

// NewExcelWriter creates a workbook writer.
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// Write saves both tables into the workbook at the configured path.
func (w *ExcelWriter) Write(ctx context.Context, records []experiment.ExperimentRecord, aggregates []experiment.AggregateRow) error {
	f := excelize.NewFile()

	recordsSheet := "Records"
	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return err
	}
	if err := w.writeRecordsSheet(f, recordsSheet, records); err != nil {
		return err
	}

	aggSheet := "Aggregates"
	if _, err := f.NewSheet(aggSheet); err != nil {
		return err
	}
	if err := w.writeAggregatesSheet(f, aggSheet, aggregates); err != nil {
		return err
	}

	return f.SaveAs(w.path)
}

func (w *ExcelWriter) writeRecordsSheet(f *excelize.File, sheet string, records []experiment.ExperimentRecord) error {
	header := []interface{}{
		"sweep_id", "sample_size", "algorithm", "mechanism", "perc_miss", "prob_miss",
		"repetition", "seed", "elapsed_ms", "precision", "recall", "f1", "normalized_shd",
		"failed", "failure_reason",
	}
	if err := w.writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, r := range records {
		row := []interface{}{
			r.SweepID.String(),
			r.SampleSize,
			r.Algorithm,
			string(r.Mechanism),
			r.PercMiss,
			r.ProbMiss,
			r.Repetition,
			r.Seed,
			r.ElapsedMs,
			cellValue(r.Metrics.Precision),
			cellValue(r.Metrics.Recall),
			cellValue(r.Metrics.F1),
			cellValue(r.Metrics.NormalizedSHD),
			r.Failed,
			r.FailureReason,
		}
		if err := w.writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) writeAggregatesSheet(f *excelize.File, sheet string, aggregates []experiment.AggregateRow) error {
	header := make([]interface{}, 0)
	for _, h := range AggregateHeader() {
		header = append(header, h)
	}
	if err := w.writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, row := range aggregates {
		values := []interface{}{
			row.Key.SampleSize,
			row.Key.Algorithm,
			string(row.Key.Mechanism),
			row.Key.PercMiss,
			row.Repetitions,
			row.Failures,
			cellValue(row.MeanPrecision),
			cellValue(row.SDPrecision),
			cellValue(row.MeanRecall),
			cellValue(row.SDRecall),
			cellValue(row.MeanF1),
			cellValue(row.SDF1),
			cellValue(row.MeanSHD),
			cellValue(row.SDSHD),
			cellValue(row.MeanElapsedMs),
			cellValue(row.SDElapsedMs),
		}
		if err := w.writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// cellValue maps NaN metrics to an empty cell.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}
