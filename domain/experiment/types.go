package experiment

import (
	"math"

	"gocausal/domain/core"
)

// Mechanism identifies how missing values are introduced into a dataset.
type Mechanism string

const (
	// MechanismOracle performs no injection; the learner sees complete data.
	MechanismOracle Mechanism = "oracle"
	MechanismMCAR   Mechanism = "mcar"
	MechanismMAR    Mechanism = "mar"
	MechanismMNAR   Mechanism = "mnar"
)

// ParseMechanism validates a mechanism name.
func ParseMechanism(s string) (Mechanism, error) {
	switch Mechanism(s) {
	case MechanismOracle, MechanismMCAR, MechanismMAR, MechanismMNAR:
		return Mechanism(s), nil
	}
	return "", core.ErrUnknownMechanism
}

// MechanismSpec parameterizes an injection: the fraction of variables to
// contaminate and the per-observation missingness probability.
type MechanismSpec struct {
	Mechanism Mechanism `json:"mechanism"`
	PercMiss  float64   `json:"perc_miss"` // fraction of variables targeted, [0, 0.5]
	ProbMiss  float64   `json:"prob_miss"` // per-observation probability, [0, 0.5]
}

// EvaluationResult holds the structural recovery metrics for one estimate.
type EvaluationResult struct {
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
	NormalizedSHD float64 `json:"normalized_shd"` // NaN when the truth has no edges
	TruePositives int     `json:"true_positives"`
	FalsePositive int     `json:"false_positives"`
	FalseNegative int     `json:"false_negatives"`
}

// RunConfiguration is one cell of the experiment grid. It is the complete
// input of a single repetition: the driver maps each configuration to one
// ExperimentRecord with no shared mutable state.
type RunConfiguration struct {
	SweepID    core.SweepID  `json:"sweep_id"`
	Nodes      int           `json:"nodes"`
	ExpectedEN float64       `json:"expected_en"`
	SampleSize int           `json:"sample_size"`
	Repetition int           `json:"repetition"`
	Spec       MechanismSpec `json:"spec"`
	Algorithm  string        `json:"algorithm"`
	Seed       int64         `json:"seed"`
}

// ExperimentRecord is one row of the results table.
type ExperimentRecord struct {
	SweepID    core.SweepID `json:"sweep_id"`
	SampleSize int          `json:"sample_size"`
	Algorithm  string       `json:"algorithm"`
	Mechanism  Mechanism    `json:"mechanism"`
	PercMiss   float64      `json:"perc_miss"`
	ProbMiss   float64      `json:"prob_miss"`
	Repetition int          `json:"repetition"`
	Seed       int64        `json:"seed"`
	ElapsedMs  float64      `json:"elapsed_ms"`

	Metrics EvaluationResult `json:"metrics"`

	// Failed marks a sentinel row: the learner (or a recoverable numeric
	// step) could not produce an estimate and every metric is NaN.
	Failed        bool   `json:"failed"`
	FailureReason string `json:"failure_reason,omitempty"`

	CreatedAt core.Timestamp `json:"created_at"`
}

// NewSentinelRecord builds the all-missing row recorded when a repetition
// fails without aborting the sweep.
func NewSentinelRecord(cfg RunConfiguration, elapsedMs float64, reason string) ExperimentRecord {
	nan := math.NaN()
	return ExperimentRecord{
		SweepID:    cfg.SweepID,
		SampleSize: cfg.SampleSize,
		Algorithm:  cfg.Algorithm,
		Mechanism:  cfg.Spec.Mechanism,
		PercMiss:   cfg.Spec.PercMiss,
		ProbMiss:   cfg.Spec.ProbMiss,
		Repetition: cfg.Repetition,
		Seed:       cfg.Seed,
		ElapsedMs:  elapsedMs,
		Metrics: EvaluationResult{
			Precision:     nan,
			Recall:        nan,
			F1:            nan,
			NormalizedSHD: nan,
		},
		Failed:        true,
		FailureReason: reason,
		CreatedAt:     core.Now(),
	}
}

// AggregateKey groups records for mean/sd aggregation.
type AggregateKey struct {
	SampleSize int       `json:"sample_size"`
	Algorithm  string    `json:"algorithm"`
	Mechanism  Mechanism `json:"mechanism"`
	PercMiss   float64   `json:"perc_miss"`
}

// AggregateRow joins the per-metric mean and standard deviation for one
// grid configuration, side by side.
type AggregateRow struct {
	Key AggregateKey `json:"key"`

	Repetitions int `json:"repetitions"`
	Failures    int `json:"failures"`

	MeanPrecision float64 `json:"mean_precision"`
	SDPrecision   float64 `json:"sd_precision"`
	MeanRecall    float64 `json:"mean_recall"`
	SDRecall      float64 `json:"sd_recall"`
	MeanF1        float64 `json:"mean_f1"`
	SDF1          float64 `json:"sd_f1"`
	MeanSHD       float64 `json:"mean_shd"`
	SDSHD         float64 `json:"sd_shd"`
	MeanElapsedMs float64 `json:"mean_elapsed_ms"`
	SDElapsedMs   float64 `json:"sd_elapsed_ms"`
}
