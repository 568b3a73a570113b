package learners

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/graph"
	"gocausal/ports"
)

// PairwiseCorrelationLearner runs the same correlation screen as
// CorrelationLearner but computes each coefficient on the pairwise-complete
// observations of the two variables, so it accepts datasets with missing
// entries directly.
type PairwiseCorrelationLearner struct{}

// NewPairwiseCorrelationLearner creates the pairwise-deletion baseline.
func NewPairwiseCorrelationLearner() *PairwiseCorrelationLearner {
	return &PairwiseCorrelationLearner{}
}

// Name returns the algorithm identifier.
func (l *PairwiseCorrelationLearner) Name() string {
	return "pairwise-corr"
}

// RequiresCompleteData reports that this learner tolerates missing cells.
func (l *PairwiseCorrelationLearner) RequiresCompleteData() bool {
	return false
}

// Learn estimates the adjacency structure with pairwise deletion. A pair
// with fewer than three jointly observed rows contributes no edge; if every
// pair is that sparse the learner fails.
func (l *PairwiseCorrelationLearner) Learn(ctx context.Context, data *dataset.Dataset, config ports.LearnerConfig) (*graph.WeightedAdjacency, error) {
	p := data.ColumnCount()
	adj := graph.NewWeightedAdjacency(data.VariableKeys)

	usablePairs := 0
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			x, y := jointlyObserved(data, i, j)
			if len(x) < minRows {
				continue
			}
			usablePairs++
			r := stat.Correlation(x, y, nil)
			if pValue := correlationPValue(r, len(x)); pValue < config.Alpha {
				adj.Weights[i][j] = r
			}
		}
	}

	if usablePairs == 0 {
		return nil, core.NewLearnerFailureError(l.Name(), "no variable pair has enough jointly observed rows")
	}
	return adj, nil
}

// jointlyObserved returns the rows where both columns are observed.
func jointlyObserved(data *dataset.Dataset, i, j int) ([]float64, []float64) {
	var x, y []float64
	for _, row := range data.Rows {
		if math.IsNaN(row[i]) || math.IsNaN(row[j]) {
			continue
		}
		x = append(x, row[i])
		y = append(y, row[j])
	}
	return x, y
}
