package testkit

import (
	"context"
	"sync"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/experiment"
	"gocausal/domain/graph"
	"gocausal/ports"
)

// ChainDAG returns the weighted chain X1 -> X2 -> ... -> Xp with unit weights.
func ChainDAG(p int) *graph.WeightedAdjacency {
	adj := graph.NewWeightedAdjacency(graph.DefaultLabels(p))
	for i := 0; i < p-1; i++ {
		adj.Weights[i][i+1] = 1
	}
	return adj
}

// ColliderDAG returns the v-structure X1 -> X3 <- X2.
func ColliderDAG() *graph.WeightedAdjacency {
	adj := graph.NewWeightedAdjacency(graph.DefaultLabels(3))
	adj.Weights[0][2] = 0.8
	adj.Weights[1][2] = 0.6
	return adj
}

// CompleteDataset builds a dataset from literal rows.
func CompleteDataset(keys []core.VariableKey, rows [][]float64) *dataset.Dataset {
	d := dataset.New(keys, len(rows))
	for _, row := range rows {
		d.Append(append([]float64(nil), row...))
	}
	return d
}

// StubLearner implements StructureLearnerPort with a canned response. Used to
// exercise the driver without real estimation.
type StubLearner struct {
	LearnerName  string
	CompleteOnly bool
	Estimate     *graph.WeightedAdjacency
	Err          error

	mu    sync.Mutex
	calls int
}

func (s *StubLearner) Name() string {
	if s.LearnerName == "" {
		return "stub"
	}
	return s.LearnerName
}

func (s *StubLearner) RequiresCompleteData() bool {
	return s.CompleteOnly
}

func (s *StubLearner) Learn(ctx context.Context, data *dataset.Dataset, config ports.LearnerConfig) (*graph.WeightedAdjacency, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Estimate.Clone(), nil
}

// Calls reports how many times Learn ran.
func (s *StubLearner) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// InMemoryResultSink implements ResultWriterPort with in-memory storage.
type InMemoryResultSink struct {
	mu         sync.Mutex
	Records    []experiment.ExperimentRecord
	Aggregates []experiment.AggregateRow
}

func NewInMemoryResultSink() *InMemoryResultSink {
	return &InMemoryResultSink{}
}

func (s *InMemoryResultSink) WriteRecords(ctx context.Context, records []experiment.ExperimentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, records...)
	return nil
}

func (s *InMemoryResultSink) WriteAggregates(ctx context.Context, rows []experiment.AggregateRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Aggregates = append(s.Aggregates, rows...)
	return nil
}
