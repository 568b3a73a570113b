package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gocausal/adapters/eval"
	"gocausal/adapters/learners"
	"gocausal/adapters/missing"
	"gocausal/adapters/synth"
	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/experiment"
	"gocausal/domain/graph"
	"gocausal/internal"
	"gocausal/ports"
)

// SimulationDriver orchestrates the experiment grid: for every missingness
// percentage, sample size and repetition it generates a DAG and dataset,
// applies each mechanism, dispatches each algorithm through the learner
// registry, and scores the estimate against the CPDAG of the truth. The
// driver is the unit of fault isolation: learner failures and recoverable
// numeric errors become sentinel records, never aborted sweeps.
type SimulationDriver struct {
	sampler   *synth.GaussianSampler
	injector  *missing.Injector
	registry  *learners.Registry
	evaluator *eval.Evaluator
	rngPort   ports.RNGPort
	logger    *internal.Logger
}

// SweepRequest defines the inputs for a deterministic simulation sweep.
type SweepRequest struct {
	SweepID       core.SweepID
	Nodes         int
	ExpectedEN    float64
	SampleSizes   []int
	MissPercents  []float64
	ProbMiss      float64
	Mechanisms    []experiment.Mechanism
	Algorithms    []string
	Repetitions   int
	BaseSeed      int64
	LearnerConfig ports.LearnerConfig

	// Parallelism bounds concurrent repetitions; values below 2 run the
	// sweep sequentially. Every repetition derives its randomness from its
	// own seed, so the schedule never changes the results.
	Parallelism int
}

// SweepResult contains the complete output of a sweep.
type SweepResult struct {
	SweepID     core.SweepID                  `json:"sweep_id"`
	Fingerprint core.Hash                     `json:"fingerprint"`
	Records     []experiment.ExperimentRecord `json:"records"`
	Aggregates  []experiment.AggregateRow     `json:"aggregates"`
	RuntimeMs   int64                         `json:"runtime_ms"`
}

// NewSimulationDriver creates a simulation driver.
func NewSimulationDriver(registry *learners.Registry, rngPort ports.RNGPort, logger *internal.Logger) *SimulationDriver {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SimulationDriver{
		sampler:   synth.NewGaussianSampler(),
		injector:  missing.NewInjector(),
		registry:  registry,
		evaluator: eval.NewEvaluator(),
		rngPort:   rngPort,
		logger:    logger,
	}
}

// RunSweep executes the full experiment grid and aggregates the results.
func (d *SimulationDriver) RunSweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	startTime := time.Now()

	if err := d.validate(req); err != nil {
		return nil, err
	}

	sweepID := req.SweepID
	if sweepID == "" {
		sweepID = core.SweepID(core.NewID())
	}

	generator, err := synth.NewDAGGenerator(req.Nodes, req.ExpectedEN)
	if err != nil {
		return nil, err
	}

	type unit struct {
		perc float64
		n    int
		rep  int
	}
	var units []unit
	for _, perc := range req.MissPercents {
		for _, n := range req.SampleSizes {
			for rep := 0; rep < req.Repetitions; rep++ {
				units = append(units, unit{perc: perc, n: n, rep: rep})
			}
		}
	}

	perUnit := make([][]experiment.ExperimentRecord, len(units))
	group, groupCtx := errgroup.WithContext(ctx)
	limit := req.Parallelism
	if limit < 1 {
		limit = 1
	}
	group.SetLimit(limit)

	for idx, u := range units {
		idx, u := idx, u
		group.Go(func() error {
			records, err := d.runRepetition(groupCtx, req, sweepID, generator, u.perc, u.n, u.rep)
			if err != nil {
				return err
			}
			perUnit[idx] = records
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var records []experiment.ExperimentRecord
	for _, rs := range perUnit {
		records = append(records, rs...)
	}

	fingerprint := core.ComputeSweepFingerprint(req.BaseSeed, map[string]interface{}{
		"nodes":       req.Nodes,
		"en":          req.ExpectedEN,
		"sizes":       req.SampleSizes,
		"percents":    req.MissPercents,
		"prob_miss":   req.ProbMiss,
		"mechanisms":  req.Mechanisms,
		"algorithms":  req.Algorithms,
		"repetitions": req.Repetitions,
	})

	result := &SweepResult{
		SweepID:     sweepID,
		Fingerprint: fingerprint,
		Records:     records,
		Aggregates:  Aggregate(records),
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}

	d.logger.Info("sweep %s finished: %d records, %d aggregates in %dms",
		sweepID, len(result.Records), len(result.Aggregates), result.RuntimeMs)
	return result, nil
}

// runRepetition handles one (percentage, sample size, repetition) cell of the
// grid and returns one record per (mechanism, algorithm).
//
// The seed depends only on the base seed and the repetition index, so every
// mechanism and algorithm inside a repetition sees the same DAG and dataset.
// Different sample sizes regenerate independently under that shared seed
// rather than nesting subsamples.
func (d *SimulationDriver) runRepetition(ctx context.Context, req SweepRequest, sweepID core.SweepID, generator *synth.DAGGenerator, perc float64, n, rep int) ([]experiment.ExperimentRecord, error) {
	seed := req.BaseSeed + int64(rep)

	dagRNG, err := d.rngPort.SeededStream(ctx, "dag", seed)
	if err != nil {
		return nil, err
	}
	truth := generator.Generate(dagRNG)
	truthCPDAG := graph.CPDAG(truth)

	configs := d.cellConfigs(req, sweepID, perc, n, rep, seed)

	sampleRNG, err := d.rngPort.SeededStream(ctx, "sample", seed)
	if err != nil {
		return nil, err
	}
	complete, err := d.sampler.Sample(truth, n, sampleRNG)
	if err != nil {
		if core.IsRecoverable(err) {
			d.logger.Warn("rep %d (n=%d, perc=%.2f): sampling failed, recording sentinels: %v", rep, n, perc, err)
			return sentinelsFor(configs, err), nil
		}
		return nil, err
	}

	var records []experiment.ExperimentRecord
	for _, mech := range req.Mechanisms {
		spec := experiment.MechanismSpec{Mechanism: mech, PercMiss: perc, ProbMiss: req.ProbMiss}
		mechConfigs := filterConfigs(configs, mech)

		injectRNG, err := d.rngPort.Stream(ctx, "", "inject", fmt.Sprintf("%s:%g", mech, perc), seed)
		if err != nil {
			return nil, err
		}
		contaminated, err := d.injector.Inject(complete, spec, injectRNG)
		if err != nil {
			if core.IsRecoverable(err) {
				d.logger.Warn("rep %d (n=%d, perc=%.2f, mech=%s): injection failed, recording sentinels: %v", rep, n, perc, mech, err)
				records = append(records, sentinelsFor(mechConfigs, err)...)
				continue
			}
			return nil, err
		}

		for _, cfg := range mechConfigs {
			record, err := d.runCell(ctx, cfg, req.LearnerConfig, truthCPDAG, contaminated)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// runCell dispatches one learner on one contaminated dataset and evaluates
// the estimate. It is pure over its inputs: one RunConfiguration in, one
// ExperimentRecord out.
func (d *SimulationDriver) runCell(ctx context.Context, cfg experiment.RunConfiguration, learnerConfig ports.LearnerConfig, truthCPDAG *graph.WeightedAdjacency, contaminated *dataset.Dataset) (experiment.ExperimentRecord, error) {
	learner, err := d.registry.Get(cfg.Algorithm)
	if err != nil {
		return experiment.ExperimentRecord{}, err
	}

	input := contaminated
	if learner.RequiresCompleteData() {
		input = contaminated.CompleteCases()
	}

	learnStart := time.Now()
	estimate, err := learner.Learn(ctx, input, learnerConfig)
	elapsedMs := float64(time.Since(learnStart).Nanoseconds()) / 1e6
	if err != nil {
		if core.IsRecoverable(err) {
			d.logger.Debug("algorithm %s failed on rep %d: %v", cfg.Algorithm, cfg.Repetition, err)
			return experiment.NewSentinelRecord(cfg, elapsedMs, err.Error()), nil
		}
		return experiment.ExperimentRecord{}, err
	}

	// Score against the equivalence class, not the raw DAG, so algorithms
	// that only recover a CPDAG are not penalized for undirected edges.
	metrics, err := d.evaluator.Evaluate(truthCPDAG, graph.CPDAG(estimate))
	if err != nil {
		return experiment.ExperimentRecord{}, err
	}

	return experiment.ExperimentRecord{
		SweepID:    cfg.SweepID,
		SampleSize: cfg.SampleSize,
		Algorithm:  cfg.Algorithm,
		Mechanism:  cfg.Spec.Mechanism,
		PercMiss:   cfg.Spec.PercMiss,
		ProbMiss:   cfg.Spec.ProbMiss,
		Repetition: cfg.Repetition,
		Seed:       cfg.Seed,
		ElapsedMs:  elapsedMs,
		Metrics:    metrics,
		CreatedAt:  core.Now(),
	}, nil
}

// cellConfigs expands one repetition into its (mechanism x algorithm) grid.
func (d *SimulationDriver) cellConfigs(req SweepRequest, sweepID core.SweepID, perc float64, n, rep int, seed int64) []experiment.RunConfiguration {
	var configs []experiment.RunConfiguration
	for _, mech := range req.Mechanisms {
		for _, algo := range req.Algorithms {
			configs = append(configs, experiment.RunConfiguration{
				SweepID:    sweepID,
				Nodes:      req.Nodes,
				ExpectedEN: req.ExpectedEN,
				SampleSize: n,
				Repetition: rep,
				Spec:       experiment.MechanismSpec{Mechanism: mech, PercMiss: perc, ProbMiss: req.ProbMiss},
				Algorithm:  algo,
				Seed:       seed,
			})
		}
	}
	return configs
}

func (d *SimulationDriver) validate(req SweepRequest) error {
	if len(req.SampleSizes) == 0 {
		return core.NewInvalidArgumentError("sample sizes", "must not be empty")
	}
	if len(req.MissPercents) == 0 {
		return core.NewInvalidArgumentError("missingness percentages", "must not be empty")
	}
	if len(req.Mechanisms) == 0 {
		return core.NewInvalidArgumentError("mechanisms", "must not be empty")
	}
	if len(req.Algorithms) == 0 {
		return core.NewInvalidArgumentError("algorithms", "must not be empty")
	}
	if req.Repetitions < 1 {
		return core.NewInvalidArgumentError("repetitions", "must be positive")
	}
	for _, algo := range req.Algorithms {
		if _, err := d.registry.Get(algo); err != nil {
			return err
		}
	}
	for _, mech := range req.Mechanisms {
		if _, err := experiment.ParseMechanism(string(mech)); err != nil {
			return err
		}
	}
	return nil
}

// sentinelsFor converts a recoverable repetition-level failure into one
// sentinel record per pending configuration.
func sentinelsFor(configs []experiment.RunConfiguration, cause error) []experiment.ExperimentRecord {
	records := make([]experiment.ExperimentRecord, 0, len(configs))
	for _, cfg := range configs {
		records = append(records, experiment.NewSentinelRecord(cfg, 0, cause.Error()))
	}
	return records
}

func filterConfigs(configs []experiment.RunConfiguration, mech experiment.Mechanism) []experiment.RunConfiguration {
	var out []experiment.RunConfiguration
	for _, cfg := range configs {
		if cfg.Spec.Mechanism == mech {
			out = append(out, cfg)
		}
	}
	return out
}
