package learners

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/graph"
	"gocausal/ports"
)

// minRows is the fewest records from which a correlation p-value is defined.
const minRows = 3

// CorrelationLearner is a complete-case baseline: it screens every variable
// pair with a Pearson correlation test and orients surviving edges from the
// lower to the higher label index. It requires complete data; the driver
// performs complete-case filtering before dispatch.
type CorrelationLearner struct{}

// NewCorrelationLearner creates the complete-case correlation baseline.
func NewCorrelationLearner() *CorrelationLearner {
	return &CorrelationLearner{}
}

// Name returns the algorithm identifier.
func (l *CorrelationLearner) Name() string {
	return "corr"
}

// RequiresCompleteData reports that this learner cannot handle missing cells.
func (l *CorrelationLearner) RequiresCompleteData() bool {
	return true
}

// Learn estimates the adjacency structure from complete data.
func (l *CorrelationLearner) Learn(ctx context.Context, data *dataset.Dataset, config ports.LearnerConfig) (*graph.WeightedAdjacency, error) {
	if data.RowCount() < minRows {
		return nil, core.NewLearnerFailureError(l.Name(), "too few complete-case rows")
	}
	if data.MissingCells() > 0 {
		return nil, core.NewLearnerFailureError(l.Name(), "dataset contains missing cells")
	}

	p := data.ColumnCount()
	adj := graph.NewWeightedAdjacency(data.VariableKeys)
	for i := 0; i < p; i++ {
		x := data.Column(i)
		for j := i + 1; j < p; j++ {
			y := data.Column(j)
			r := stat.Correlation(x, y, nil)
			if pValue := correlationPValue(r, len(x)); pValue < config.Alpha {
				adj.Weights[i][j] = r
			}
		}
	}
	return adj, nil
}

// correlationPValue transforms a Pearson coefficient into a two-tailed
// p-value through the Student's t-distribution with n-2 degrees of freedom.
func correlationPValue(r float64, n int) float64 {
	if n < minRows || math.IsNaN(r) {
		return 1.0
	}
	if r >= 1 || r <= -1 {
		return 0.0
	}

	df := float64(n - 2)
	tStatistic := r * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}
