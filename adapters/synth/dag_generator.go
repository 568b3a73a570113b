package synth

import (
	"math/rand"

	"gocausal/domain/core"
	"gocausal/domain/graph"
)

// DAGGenerator produces random weighted DAGs with a target expected
// neighborhood size. Edges only ever point from lower to higher node index,
// which guarantees acyclicity by construction.
type DAGGenerator struct {
	Nodes      int     // p, number of nodes
	ExpectedEN float64 // expected neighborhood size, in (0, p-1)

	minWeight float64
	maxWeight float64
}

// NewDAGGenerator creates a generator with the reference weight range [0.1, 1.0].
func NewDAGGenerator(nodes int, expectedEN float64) (*DAGGenerator, error) {
	if nodes < 2 {
		return nil, core.NewInvalidArgumentError("nodes", "must be at least 2")
	}
	if expectedEN <= 0 || expectedEN >= float64(nodes-1) {
		return nil, core.NewInvalidArgumentError("expected neighborhood size", "must be in (0, p-1)")
	}
	return &DAGGenerator{
		Nodes:      nodes,
		ExpectedEN: expectedEN,
		minWeight:  0.1,
		maxWeight:  1.0,
	}, nil
}

// Generate draws one random weighted DAG. Each of the choose(p, 2) ordered
// pairs under the fixed node order receives an edge independently with
// probability EN/(p-1); included edges get an independent U[0.1, 1.0] weight.
func (g *DAGGenerator) Generate(rng *rand.Rand) *graph.WeightedAdjacency {
	edgeProb := g.ExpectedEN / float64(g.Nodes-1)

	adj := graph.NewWeightedAdjacency(graph.DefaultLabels(g.Nodes))
	for i := 0; i < g.Nodes; i++ {
		for j := i + 1; j < g.Nodes; j++ {
			if rng.Float64() < edgeProb {
				adj.Weights[i][j] = g.minWeight + rng.Float64()*(g.maxWeight-g.minWeight)
			}
		}
	}
	return adj
}
