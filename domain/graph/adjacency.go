package graph

import (
	"fmt"

	"gocausal/domain/core"
)

// WeightedAdjacency is a square weighted adjacency structure over labeled
// nodes. Weights[i][j] != 0 encodes a directed edge label[i] -> label[j].
type WeightedAdjacency struct {
	Labels  []core.VariableKey `json:"labels"`
	Weights [][]float64        `json:"weights"`
}

// DefaultLabels returns the standard node labels X1..Xp.
func DefaultLabels(p int) []core.VariableKey {
	labels := make([]core.VariableKey, p)
	for i := range labels {
		labels[i] = core.VariableKey(fmt.Sprintf("X%d", i+1))
	}
	return labels
}

// NewWeightedAdjacency creates a zero-weight adjacency over the given labels.
func NewWeightedAdjacency(labels []core.VariableKey) *WeightedAdjacency {
	p := len(labels)
	weights := make([][]float64, p)
	for i := range weights {
		weights[i] = make([]float64, p)
	}
	return &WeightedAdjacency{
		Labels:  append([]core.VariableKey(nil), labels...),
		Weights: weights,
	}
}

// NodeCount returns the number of nodes.
func (a *WeightedAdjacency) NodeCount() int {
	return len(a.Labels)
}

// EdgeCount returns the number of nonzero entries.
func (a *WeightedAdjacency) EdgeCount() int {
	count := 0
	for i := range a.Weights {
		for j := range a.Weights[i] {
			if a.Weights[i][j] != 0 {
				count++
			}
		}
	}
	return count
}

// HasEdge reports whether a directed edge i -> j is present.
func (a *WeightedAdjacency) HasEdge(i, j int) bool {
	return a.Weights[i][j] != 0
}

// Clone returns a deep copy.
func (a *WeightedAdjacency) Clone() *WeightedAdjacency {
	out := NewWeightedAdjacency(a.Labels)
	for i := range a.Weights {
		copy(out.Weights[i], a.Weights[i])
	}
	return out
}

// Binarize returns a copy with every nonzero weight collapsed to 1.
// Applying Binarize twice yields the same result as applying it once.
func (a *WeightedAdjacency) Binarize() *WeightedAdjacency {
	out := NewWeightedAdjacency(a.Labels)
	for i := range a.Weights {
		for j := range a.Weights[i] {
			if a.Weights[i][j] != 0 {
				out.Weights[i][j] = 1
			}
		}
	}
	return out
}

// SameShape reports whether both structures share size and labels.
func (a *WeightedAdjacency) SameShape(b *WeightedAdjacency) bool {
	if a.NodeCount() != b.NodeCount() {
		return false
	}
	for i, label := range a.Labels {
		if b.Labels[i] != label {
			return false
		}
	}
	return true
}

// Parents returns the indices of nodes with an edge into j.
func (a *WeightedAdjacency) Parents(j int) []int {
	var parents []int
	for i := range a.Weights {
		if a.Weights[i][j] != 0 {
			parents = append(parents, i)
		}
	}
	return parents
}

// IsAcyclic reports whether the nonzero entries form a DAG (Kahn's algorithm).
func (a *WeightedAdjacency) IsAcyclic() bool {
	_, err := a.TopologicalOrder()
	return err == nil
}

// TopologicalOrder returns node indices in a topological order of the graph,
// or an error if a directed cycle exists.
func (a *WeightedAdjacency) TopologicalOrder() ([]int, error) {
	p := a.NodeCount()
	inDegree := make([]int, p)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			if a.Weights[i][j] != 0 {
				inDegree[j]++
			}
		}
	}

	// Process ready nodes in ascending index order for determinism.
	var order []int
	ready := make([]bool, p)
	for len(order) < p {
		next := -1
		for j := 0; j < p; j++ {
			if !ready[j] && inDegree[j] == 0 {
				next = j
				break
			}
		}
		if next == -1 {
			return nil, fmt.Errorf("%w: graph contains a directed cycle", core.ErrInvalidArgument)
		}
		ready[next] = true
		order = append(order, next)
		for j := 0; j < p; j++ {
			if a.Weights[next][j] != 0 {
				inDegree[j]--
			}
		}
	}
	return order, nil
}
