package learners

import (
	"fmt"
	"sort"

	"gocausal/domain/core"
	"gocausal/ports"
)

// Registry maps algorithm names to structure learners. External algorithms
// plug in through Register; the baselines are pre-registered.
type Registry struct {
	learners map[string]ports.StructureLearnerPort
}

// NewRegistry creates a registry with the in-repo baseline learners.
func NewRegistry() *Registry {
	r := &Registry{learners: make(map[string]ports.StructureLearnerPort)}
	r.Register(NewCorrelationLearner())
	r.Register(NewPairwiseCorrelationLearner())
	return r
}

// Register adds a learner under its own name, replacing any previous entry.
func (r *Registry) Register(learner ports.StructureLearnerPort) {
	r.learners[learner.Name()] = learner
}

// Get resolves an algorithm name.
func (r *Registry) Get(name string) (ports.StructureLearnerPort, error) {
	learner, ok := r.learners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownAlgorithm, name)
	}
	return learner, nil
}

// Names lists registered algorithms in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.learners))
	for name := range r.learners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
