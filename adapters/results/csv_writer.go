package results

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gocausal/domain/experiment"
)

// CSVWriter serializes experiment results to delimited text tables: one
// header row, one row per record (or per aggregated configuration). Missing
// metrics are written as NA.
type CSVWriter struct {
	recordsPath    string
	aggregatesPath string
}

// NewCSVWriter creates a writer targeting the two output files.
func NewCSVWriter(recordsPath, aggregatesPath string) *CSVWriter {
	return &CSVWriter{recordsPath: recordsPath, aggregatesPath: aggregatesPath}
}

// WriteRecords writes the raw per-repetition results table.
func (w *CSVWriter) WriteRecords(ctx context.Context, records []experiment.ExperimentRecord) error {
	f, err := os.Create(w.recordsPath)
	if err != nil {
		return fmt.Errorf("failed to create records file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	header := []string{
		"sweep_id", "sample_size", "algorithm", "mechanism", "perc_miss", "prob_miss",
		"repetition", "seed", "elapsed_ms", "precision", "recall", "f1", "normalized_shd",
		"failed", "failure_reason",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.SweepID.String(),
			strconv.Itoa(r.SampleSize),
			r.Algorithm,
			string(r.Mechanism),
			formatFloat(r.PercMiss),
			formatFloat(r.ProbMiss),
			strconv.Itoa(r.Repetition),
			strconv.FormatInt(r.Seed, 10),
			formatFloat(r.ElapsedMs),
			formatFloat(r.Metrics.Precision),
			formatFloat(r.Metrics.Recall),
			formatFloat(r.Metrics.F1),
			formatFloat(r.Metrics.NormalizedSHD),
			strconv.FormatBool(r.Failed),
			r.FailureReason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteAggregates writes one row per aggregated configuration, means and
// standard deviations joined side by side.
func (w *CSVWriter) WriteAggregates(ctx context.Context, rows []experiment.AggregateRow) error {
	f, err := os.Create(w.aggregatesPath)
	if err != nil {
		return fmt.Errorf("failed to create aggregates file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(AggregateHeader()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(AggregateRowStrings(row)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// AggregateHeader returns the aggregates table header, shared with the
// workbook writer.
func AggregateHeader() []string {
	return []string{
		"sample_size", "algorithm", "mechanism", "perc_miss", "repetitions", "failures",
		"mean_precision", "sd_precision", "mean_recall", "sd_recall",
		"mean_f1", "sd_f1", "mean_shd", "sd_shd", "mean_elapsed_ms", "sd_elapsed_ms",
	}
}

// AggregateRowStrings renders one aggregate row in header order.
func AggregateRowStrings(row experiment.AggregateRow) []string {
	return []string{
		strconv.Itoa(row.Key.SampleSize),
		row.Key.Algorithm,
		string(row.Key.Mechanism),
		formatFloat(row.Key.PercMiss),
		strconv.Itoa(row.Repetitions),
		strconv.Itoa(row.Failures),
		formatFloat(row.MeanPrecision),
		formatFloat(row.SDPrecision),
		formatFloat(row.MeanRecall),
		formatFloat(row.SDRecall),
		formatFloat(row.MeanF1),
		formatFloat(row.SDF1),
		formatFloat(row.MeanSHD),
		formatFloat(row.SDSHD),
		formatFloat(row.MeanElapsedMs),
		formatFloat(row.SDElapsedMs),
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
