package app

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"gocausal/domain/experiment"
)

// Aggregate groups records by (sample size, algorithm, mechanism, percentage)
// and joins per-metric means and standard deviations side by side. Sentinel
// rows contribute to the failure count but are excluded from every metric.
func Aggregate(records []experiment.ExperimentRecord) []experiment.AggregateRow {
	groups := make(map[experiment.AggregateKey][]experiment.ExperimentRecord)
	for _, r := range records {
		key := experiment.AggregateKey{
			SampleSize: r.SampleSize,
			Algorithm:  r.Algorithm,
			Mechanism:  r.Mechanism,
			PercMiss:   r.PercMiss,
		}
		groups[key] = append(groups[key], r)
	}

	rows := make([]experiment.AggregateRow, 0, len(groups))
	for key, group := range groups {
		row := experiment.AggregateRow{Key: key, Repetitions: len(group)}

		var precision, recall, f1, shd, elapsed []float64
		for _, r := range group {
			if r.Failed {
				row.Failures++
				continue
			}
			precision = append(precision, r.Metrics.Precision)
			recall = append(recall, r.Metrics.Recall)
			f1 = append(f1, r.Metrics.F1)
			if !math.IsNaN(r.Metrics.NormalizedSHD) {
				shd = append(shd, r.Metrics.NormalizedSHD)
			}
			elapsed = append(elapsed, r.ElapsedMs)
		}

		row.MeanPrecision, row.SDPrecision = meanSD(precision)
		row.MeanRecall, row.SDRecall = meanSD(recall)
		row.MeanF1, row.SDF1 = meanSD(f1)
		row.MeanSHD, row.SDSHD = meanSD(shd)
		row.MeanElapsedMs, row.SDElapsedMs = meanSD(elapsed)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Key, rows[j].Key
		if a.PercMiss != b.PercMiss {
			return a.PercMiss < b.PercMiss
		}
		if a.SampleSize != b.SampleSize {
			return a.SampleSize < b.SampleSize
		}
		if a.Mechanism != b.Mechanism {
			return a.Mechanism < b.Mechanism
		}
		return a.Algorithm < b.Algorithm
	})
	return rows
}

// meanSD computes mean and sample standard deviation, NaN on empty input.
func meanSD(values []float64) (float64, float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	if len(values) == 1 {
		return mean, 0
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil {
		return mean, math.NaN()
	}
	return mean, sd
}
