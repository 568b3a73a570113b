package eval

import (
	"math"

	"gocausal/domain/core"
	"gocausal/domain/experiment"
	"gocausal/domain/graph"
)

// Evaluator scores an estimated adjacency structure against ground truth.
// Both inputs are binarized first; directionality matters, so an edge
// recovered in the wrong direction is both a false positive and a false
// negative. Callers that want equivalence-class scoring convert both graphs
// to CPDAG form before evaluating.
type Evaluator struct{}

// NewEvaluator creates a graph evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate computes precision, recall, F1 and the normalized structural
// Hamming distance. The normalized SHD is NaN when the truth has no edges
// (division by the true edge count is undefined), which must be checked with
// math.IsNaN rather than compared.
func (e *Evaluator) Evaluate(truth, estimate *graph.WeightedAdjacency) (experiment.EvaluationResult, error) {
	if !truth.SameShape(estimate) {
		return experiment.EvaluationResult{}, core.NewShapeMismatchError(truth.NodeCount(), estimate.NodeCount())
	}

	t := truth.Binarize()
	est := estimate.Binarize()
	p := t.NodeCount()

	var tp, fp, fn int
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			if i == j {
				continue
			}
			switch {
			case t.HasEdge(i, j) && est.HasEdge(i, j):
				tp++
			case !t.HasEdge(i, j) && est.HasEdge(i, j):
				fp++
			case t.HasEdge(i, j) && !est.HasEdge(i, j):
				fn++
			}
		}
	}

	precision := 0.0
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	recall := 0.0
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	shd := structuralHammingDistance(t, est)
	trueEdges := undirectedEdgeCount(t)
	normalizedSHD := math.NaN()
	if trueEdges > 0 {
		normalizedSHD = float64(shd) / float64(trueEdges)
	}

	return experiment.EvaluationResult{
		Precision:     precision,
		Recall:        recall,
		F1:            f1,
		NormalizedSHD: normalizedSHD,
		TruePositives: tp,
		FalsePositive: fp,
		FalseNegative: fn,
	}, nil
}

// structuralHammingDistance counts, per unordered node pair, whether the two
// binarized graphs disagree on edge presence or orientation. A reversal is a
// single unit of error, as is a directed-versus-undirected disagreement.
func structuralHammingDistance(t, est *graph.WeightedAdjacency) int {
	p := t.NodeCount()
	shd := 0
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			truthPattern := pairPattern(t, i, j)
			estPattern := pairPattern(est, i, j)
			if truthPattern != estPattern {
				shd++
			}
		}
	}
	return shd
}

// pairPattern classifies the {i, j} relation: 0 none, 1 i->j, 2 j->i,
// 3 undirected.
func pairPattern(a *graph.WeightedAdjacency, i, j int) int {
	forward := a.HasEdge(i, j)
	backward := a.HasEdge(j, i)
	switch {
	case forward && backward:
		return 3
	case forward:
		return 1
	case backward:
		return 2
	}
	return 0
}

// undirectedEdgeCount counts unordered pairs connected in either direction.
func undirectedEdgeCount(a *graph.WeightedAdjacency) int {
	p := a.NodeCount()
	count := 0
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			if a.HasEdge(i, j) || a.HasEdge(j, i) {
				count++
			}
		}
	}
	return count
}
