package graph

// CPDAG converts a DAG into the completed partial DAG representing its Markov
// equivalence class. Compelled edges stay directed; reversible edges become
// undirected (encoded symmetrically, both directions set to 1). Inputs that
// contain a directed cycle are returned binarized and otherwise untouched,
// since arbitrary learner output need not be acyclic.
func CPDAG(a *WeightedAdjacency) *WeightedAdjacency {
	order, err := a.TopologicalOrder()
	if err != nil {
		return a.Binarize()
	}

	edges := orderEdges(a, order)
	compelled := labelEdges(a, edges)

	out := NewWeightedAdjacency(a.Labels)
	for _, e := range edges {
		if compelled[e] {
			out.Weights[e.from][e.to] = 1
		} else {
			out.Weights[e.from][e.to] = 1
			out.Weights[e.to][e.from] = 1
		}
	}
	return out
}

type directedEdge struct {
	from, to int
}

// orderEdges produces the total edge order used by the compelled-edge
// labeling pass: nodes by topological order, and within each sink node the
// incoming edges by descending topological rank of their source.
func orderEdges(a *WeightedAdjacency, order []int) []directedEdge {
	rank := make([]int, a.NodeCount())
	for pos, node := range order {
		rank[node] = pos
	}

	var edges []directedEdge
	for _, y := range order {
		parents := a.Parents(y)
		// Highest-ranked parent first.
		for len(parents) > 0 {
			best := 0
			for k := 1; k < len(parents); k++ {
				if rank[parents[k]] > rank[parents[best]] {
					best = k
				}
			}
			edges = append(edges, directedEdge{from: parents[best], to: y})
			parents = append(parents[:best], parents[best+1:]...)
		}
	}
	return edges
}

// labelEdges runs Chickering's labeling over the ordered edge list and
// returns the set of compelled edges; everything else is reversible.
func labelEdges(a *WeightedAdjacency, edges []directedEdge) map[directedEdge]bool {
	const (
		unlabeled = iota
		compelled
		reversible
	)

	state := make(map[directedEdge]int, len(edges))
	for _, e := range edges {
		state[e] = unlabeled
	}

	labelIncoming := func(y int, label int) {
		for _, w := range a.Parents(y) {
			e := directedEdge{from: w, to: y}
			if state[e] == unlabeled {
				state[e] = label
			}
		}
	}

	for _, e := range edges {
		if state[e] != unlabeled {
			continue
		}
		x, y := e.from, e.to

		settled := false
		for _, w := range a.Parents(x) {
			if state[directedEdge{from: w, to: x}] != compelled {
				continue
			}
			if !a.HasEdge(w, y) {
				// w -> x -> y with no w -> y shortcut: everything into y is compelled.
				state[e] = compelled
				labelIncoming(y, compelled)
				settled = true
				break
			}
			state[directedEdge{from: w, to: y}] = compelled
		}
		if settled {
			continue
		}

		// A parent z of y outside the neighborhood of x forces orientation.
		forced := false
		for _, z := range a.Parents(y) {
			if z != x && !a.HasEdge(z, x) {
				forced = true
				break
			}
		}
		if forced {
			state[e] = compelled
			labelIncoming(y, compelled)
		} else {
			state[e] = reversible
			labelIncoming(y, reversible)
		}
	}

	out := make(map[directedEdge]bool, len(edges))
	for _, e := range edges {
		if state[e] == compelled {
			out[e] = true
		}
	}
	return out
}
