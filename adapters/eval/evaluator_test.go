package eval

import (
	"math"
	"testing"

	"gocausal/domain/core"
	"gocausal/domain/graph"
)

func chain(p int) *graph.WeightedAdjacency {
	adj := graph.NewWeightedAdjacency(graph.DefaultLabels(p))
	for i := 0; i < p-1; i++ {
		adj.Weights[i][i+1] = 1
	}
	return adj
}

// TestEvaluatePerfectMatch verifies identical graphs score perfectly
func TestEvaluatePerfectMatch(t *testing.T) {
	truth := chain(5)
	res, err := NewEvaluator().Evaluate(truth, truth.Clone())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.Precision != 1 || res.Recall != 1 || res.F1 != 1 {
		t.Errorf("Expected perfect precision/recall/F1, got %+v", res)
	}
	if res.NormalizedSHD != 0 {
		t.Errorf("Expected zero SHD, got %v", res.NormalizedSHD)
	}
	if res.FalsePositive != 0 || res.FalseNegative != 0 {
		t.Errorf("Expected no errors, got %+v", res)
	}
}

// TestEvaluateEmptyEstimate verifies the all-miss case
func TestEvaluateEmptyEstimate(t *testing.T) {
	truth := chain(4)
	empty := graph.NewWeightedAdjacency(graph.DefaultLabels(4))

	res, err := NewEvaluator().Evaluate(truth, empty)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.Precision != 0 || res.Recall != 0 || res.F1 != 0 {
		t.Errorf("Expected zero metrics for an empty estimate, got %+v", res)
	}
	// Three missing edges over three true edges.
	if res.NormalizedSHD != 1 {
		t.Errorf("Expected normalized SHD 1, got %v", res.NormalizedSHD)
	}
}

// TestEvaluateZeroEdgeTruth verifies the undefined-SHD signal
func TestEvaluateZeroEdgeTruth(t *testing.T) {
	truth := graph.NewWeightedAdjacency(graph.DefaultLabels(3))
	estimate := graph.NewWeightedAdjacency(graph.DefaultLabels(3))
	estimate.Weights[0][1] = 1

	res, err := NewEvaluator().Evaluate(truth, estimate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !math.IsNaN(res.NormalizedSHD) {
		t.Errorf("Expected NaN SHD for an edgeless truth, got %v", res.NormalizedSHD)
	}
	if res.Precision != 0 {
		t.Errorf("Expected zero precision, got %v", res.Precision)
	}
}

// TestEvaluateReversalCountsOnce verifies a flipped edge is one SHD unit
func TestEvaluateReversalCountsOnce(t *testing.T) {
	truth := graph.NewWeightedAdjacency(graph.DefaultLabels(2))
	truth.Weights[0][1] = 1
	estimate := graph.NewWeightedAdjacency(graph.DefaultLabels(2))
	estimate.Weights[1][0] = 1

	res, err := NewEvaluator().Evaluate(truth, estimate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.NormalizedSHD != 1 {
		t.Errorf("Expected one reversal unit over one edge, got %v", res.NormalizedSHD)
	}
	// Directionally the reversal is both a miss and a spurious edge.
	if res.FalsePositive != 1 || res.FalseNegative != 1 {
		t.Errorf("Expected FP=1 FN=1, got %+v", res)
	}
}

// TestEvaluateDirectedVsUndirected verifies orientation disagreement is one unit
func TestEvaluateDirectedVsUndirected(t *testing.T) {
	truth := graph.NewWeightedAdjacency(graph.DefaultLabels(2))
	truth.Weights[0][1] = 1
	estimate := graph.NewWeightedAdjacency(graph.DefaultLabels(2))
	estimate.Weights[0][1] = 1
	estimate.Weights[1][0] = 1

	res, err := NewEvaluator().Evaluate(truth, estimate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.NormalizedSHD != 1 {
		t.Errorf("Expected SHD 1 for directed vs undirected, got %v", res.NormalizedSHD)
	}
}

// TestEvaluateBinarizesWeights verifies weights do not change scores
func TestEvaluateBinarizesWeights(t *testing.T) {
	truth := graph.NewWeightedAdjacency(graph.DefaultLabels(3))
	truth.Weights[0][1] = 0.42
	estimate := graph.NewWeightedAdjacency(graph.DefaultLabels(3))
	estimate.Weights[0][1] = -7.1

	res, err := NewEvaluator().Evaluate(truth, estimate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.F1 != 1 || res.NormalizedSHD != 0 {
		t.Errorf("Expected weight-insensitive match, got %+v", res)
	}
}

// TestEvaluateShapeMismatch rejects incompatible graphs
func TestEvaluateShapeMismatch(t *testing.T) {
	_, err := NewEvaluator().Evaluate(chain(3), chain(4))
	if !core.IsShapeMismatch(err) {
		t.Errorf("Expected shape mismatch error, got %v", err)
	}
}
