package ports

import (
	"context"

	"gocausal/domain/dataset"
	"gocausal/domain/graph"
)

// LearnerConfig carries the parameters recognized across learner families:
// a significance level for constraint-based tests, a scoring criterion for
// score-based search, and the phase choices for hybrid search.
type LearnerConfig struct {
	Alpha    float64 `json:"alpha"`    // significance level, default 0.05
	Score    string  `json:"score"`    // scoring criterion, e.g. "bic"
	Restrict string  `json:"restrict"` // hybrid restrict phase
	Maximize string  `json:"maximize"` // hybrid maximize phase
}

// DefaultLearnerConfig returns the configuration used when the sweep does
// not override parameters.
func DefaultLearnerConfig() LearnerConfig {
	return LearnerConfig{Alpha: 0.05, Score: "bic"}
}

// StructureLearnerPort is the black-box capability boundary: given a
// (possibly incomplete) dataset, produce an estimated adjacency structure.
// Concrete algorithms - in-repo baselines or wrappers around external
// packages - plug in behind this interface.
type StructureLearnerPort interface {
	// Name returns the algorithm identifier used in results tables.
	Name() string

	// RequiresCompleteData reports whether the driver must complete-case
	// filter the dataset before dispatch.
	RequiresCompleteData() bool

	// Learn estimates an adjacency structure. A learner that cannot produce
	// an estimate returns a learner-failure error; the driver converts it
	// into a sentinel record instead of aborting the sweep.
	Learn(ctx context.Context, data *dataset.Dataset, config LearnerConfig) (*graph.WeightedAdjacency, error)
}
