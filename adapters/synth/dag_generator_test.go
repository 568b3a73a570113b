package synth

import (
	"math"
	"math/rand"
	"testing"

	"gocausal/domain/core"
)

// TestGenerateAcyclic verifies every generated graph is a DAG
func TestGenerateAcyclic(t *testing.T) {
	gen, err := NewDAGGenerator(20, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	for draw := 0; draw < 50; draw++ {
		adj := gen.Generate(rng)
		if !adj.IsAcyclic() {
			t.Fatalf("Draw %d produced a cyclic graph", draw)
		}
	}
}

// TestGenerateUpperTriangular verifies edges respect the node order
func TestGenerateUpperTriangular(t *testing.T) {
	gen, err := NewDAGGenerator(10, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(2))
	adj := gen.Generate(rng)
	for i := 0; i < adj.NodeCount(); i++ {
		for j := 0; j <= i; j++ {
			if adj.Weights[i][j] != 0 {
				t.Errorf("Edge (%d,%d) violates the lower-to-higher index order", i, j)
			}
		}
	}
}

// TestGenerateExpectedEdgeCount checks the mean edge count against EN*p/2
func TestGenerateExpectedEdgeCount(t *testing.T) {
	const (
		p     = 20
		en    = 3.0
		draws = 400
	)
	gen, err := NewDAGGenerator(p, en)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	total := 0
	for i := 0; i < draws; i++ {
		total += gen.Generate(rng).EdgeCount()
	}

	mean := float64(total) / draws
	expected := en * p / 2 // 30 edges
	if math.Abs(mean-expected) > 0.1*expected {
		t.Errorf("Mean edge count %.2f too far from expected %.1f", mean, expected)
	}
}

// TestGenerateWeightRange verifies the U[0.1, 1.0] weight bounds
func TestGenerateWeightRange(t *testing.T) {
	gen, err := NewDAGGenerator(15, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(4))
	adj := gen.Generate(rng)
	for i := range adj.Weights {
		for j := range adj.Weights[i] {
			w := adj.Weights[i][j]
			if w != 0 && (w < 0.1 || w > 1.0) {
				t.Errorf("Weight %v at (%d,%d) outside [0.1, 1.0]", w, i, j)
			}
		}
	}
}

// TestNewDAGGeneratorValidation rejects degenerate parameters
func TestNewDAGGeneratorValidation(t *testing.T) {
	cases := []struct {
		name  string
		nodes int
		en    float64
	}{
		{"too few nodes", 1, 0.5},
		{"zero neighborhood", 5, 0},
		{"neighborhood at p-1", 5, 4},
		{"negative neighborhood", 5, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDAGGenerator(tc.nodes, tc.en)
			if !core.IsInvalidArgument(err) {
				t.Errorf("Expected invalid argument error, got %v", err)
			}
		})
	}
}
