package graph

import (
	"testing"
)

// TestCPDAGChain verifies a chain collapses into a fully undirected class
func TestCPDAGChain(t *testing.T) {
	adj := NewWeightedAdjacency(DefaultLabels(3))
	adj.Weights[0][1] = 0.8
	adj.Weights[1][2] = 0.4

	pat := CPDAG(adj)

	// X1-X2 and X2-X3 reversible, encoded symmetrically.
	undirected := [][2]int{{0, 1}, {1, 2}}
	for _, pair := range undirected {
		if pat.Weights[pair[0]][pair[1]] != 1 || pat.Weights[pair[1]][pair[0]] != 1 {
			t.Errorf("Expected undirected edge %v in chain CPDAG", pair)
		}
	}
	if pat.Weights[0][2] != 0 || pat.Weights[2][0] != 0 {
		t.Error("Expected no edge between chain endpoints")
	}
}

// TestCPDAGCollider verifies a v-structure stays compelled
func TestCPDAGCollider(t *testing.T) {
	adj := NewWeightedAdjacency(DefaultLabels(3))
	adj.Weights[0][2] = 1
	adj.Weights[1][2] = 1

	pat := CPDAG(adj)

	if pat.Weights[0][2] != 1 || pat.Weights[2][0] != 0 {
		t.Error("Expected X1 -> X3 to stay directed")
	}
	if pat.Weights[1][2] != 1 || pat.Weights[2][1] != 0 {
		t.Error("Expected X2 -> X3 to stay directed")
	}
}

// TestCPDAGColliderWithDescendant verifies compelled status propagates
func TestCPDAGColliderWithDescendant(t *testing.T) {
	// X1 -> X3 <- X2, X3 -> X4. The tail edge is compelled too, because
	// reversing it would create a new collider at X3.
	adj := NewWeightedAdjacency(DefaultLabels(4))
	adj.Weights[0][2] = 1
	adj.Weights[1][2] = 1
	adj.Weights[2][3] = 1

	pat := CPDAG(adj)

	if pat.Weights[2][3] != 1 || pat.Weights[3][2] != 0 {
		t.Error("Expected X3 -> X4 to be compelled below a collider")
	}
}

// TestCPDAGSameClass verifies Markov-equivalent DAGs share a CPDAG
func TestCPDAGSameClass(t *testing.T) {
	forward := NewWeightedAdjacency(DefaultLabels(3))
	forward.Weights[0][1] = 1
	forward.Weights[1][2] = 1

	backward := NewWeightedAdjacency(DefaultLabels(3))
	backward.Weights[2][1] = 1
	backward.Weights[1][0] = 1

	a := CPDAG(forward)
	b := CPDAG(backward)
	for i := range a.Weights {
		for j := range a.Weights[i] {
			if a.Weights[i][j] != b.Weights[i][j] {
				t.Fatalf("Equivalent chains should share a CPDAG, differ at (%d,%d)", i, j)
			}
		}
	}
}

// TestCPDAGCyclicInput verifies cyclic estimates pass through binarized
func TestCPDAGCyclicInput(t *testing.T) {
	adj := NewWeightedAdjacency(DefaultLabels(2))
	adj.Weights[0][1] = 0.5
	adj.Weights[1][0] = -0.5

	pat := CPDAG(adj)
	if pat.Weights[0][1] != 1 || pat.Weights[1][0] != 1 {
		t.Error("Expected cyclic input to be binarized in place")
	}
}

// TestCPDAGEmpty verifies the empty graph maps to itself
func TestCPDAGEmpty(t *testing.T) {
	adj := NewWeightedAdjacency(DefaultLabels(3))
	pat := CPDAG(adj)
	if pat.EdgeCount() != 0 {
		t.Errorf("Expected empty CPDAG, got %d edges", pat.EdgeCount())
	}
}
