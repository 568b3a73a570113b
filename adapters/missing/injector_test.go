package missing

import (
	"math"
	"math/rand"
	"testing"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/experiment"
	"gocausal/domain/graph"
)

// gaussianDataset fills an n x p dataset with independent standard normals.
func gaussianDataset(p, n int, rng *rand.Rand) *dataset.Dataset {
	d := dataset.New(graph.DefaultLabels(p), n)
	for i := 0; i < n; i++ {
		row := make([]float64, p)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		d.Append(row)
	}
	return d
}

// TestInjectOracleIsIdentity verifies oracle injection copies without masking
func TestInjectOracleIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := gaussianDataset(5, 50, rng)

	out, err := NewInjector().Inject(data, experiment.MechanismSpec{
		Mechanism: experiment.MechanismOracle, PercMiss: 0.3, ProbMiss: 0.2,
	}, rng)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.MissingCells() != 0 {
		t.Errorf("Oracle injection should leave data complete, got %d missing cells", out.MissingCells())
	}
	for i := range data.Rows {
		for j := range data.Rows[i] {
			if out.Rows[i][j] != data.Rows[i][j] {
				t.Fatalf("Oracle injection changed cell (%d,%d)", i, j)
			}
		}
	}
}

// TestInjectMCARExpectedCount checks the mean missing-cell count across runs
func TestInjectMCARExpectedCount(t *testing.T) {
	const (
		p    = 20
		n    = 100
		reps = 200
	)
	spec := experiment.MechanismSpec{Mechanism: experiment.MechanismMCAR, PercMiss: 0.5, ProbMiss: 0.2}
	injector := NewInjector()

	rng := rand.New(rand.NewSource(7))
	data := gaussianDataset(p, n, rng)

	total := 0
	for r := 0; r < reps; r++ {
		out, err := injector.Inject(data, spec, rng)
		if err != nil {
			t.Fatalf("Unexpected error on rep %d: %v", r, err)
		}
		total += out.MissingCells()
	}

	// 10 target variables, 100 rows, probability 0.2: 200 expected cells.
	mean := float64(total) / reps
	if math.Abs(mean-200) > 30 {
		t.Errorf("Mean missing cells %.1f outside 200 +/- 15%%", mean)
	}
}

// TestInjectMCARTargetCount verifies ceil(p * percMiss) variables are targeted
func TestInjectMCARTargetCount(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := gaussianDataset(10, 500, rng)

	out, err := NewInjector().Inject(data, experiment.MechanismSpec{
		Mechanism: experiment.MechanismMCAR, PercMiss: 0.25, ProbMiss: 0.3,
	}, rng)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	incomplete := 0
	for j := 0; j < out.ColumnCount(); j++ {
		if !out.IsComplete(j) {
			incomplete++
		}
	}
	// ceil(10 * 0.25) = 3 targets; with 500 rows at probability 0.3 every
	// target receives at least one masked cell in practice.
	if incomplete != 3 {
		t.Errorf("Expected 3 incomplete variables, got %d", incomplete)
	}
}

// TestInjectMARRealizedRate checks the target-column missing rate tracks probMiss
func TestInjectMARRealizedRate(t *testing.T) {
	const (
		p = 10
		n = 20000
	)
	rng := rand.New(rand.NewSource(9))
	data := gaussianDataset(p, n, rng)

	out, err := NewInjector().Inject(data, experiment.MechanismSpec{
		Mechanism: experiment.MechanismMAR, PercMiss: 0.5, ProbMiss: 0.2,
	}, rng)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 5 targets, each masked at mean probability 0.2.
	rate := float64(out.MissingCells()) / float64(5*n)
	if math.Abs(rate-0.2) > 0.02 {
		t.Errorf("Realized missing rate %.4f too far from 0.2", rate)
	}
}

// TestInjectMNARMasksOnlyTargets verifies untargeted variables stay complete
func TestInjectMNARMasksOnlyTargets(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	data := gaussianDataset(8, 2000, rng)

	out, err := NewInjector().Inject(data, experiment.MechanismSpec{
		Mechanism: experiment.MechanismMNAR, PercMiss: 0.5, ProbMiss: 0.3,
	}, rng)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	incomplete := 0
	for j := 0; j < out.ColumnCount(); j++ {
		if !out.IsComplete(j) {
			incomplete++
		}
	}
	if incomplete > 4 {
		t.Errorf("MNAR masked %d variables, expected at most the 4 targets", incomplete)
	}
	if out.MissingCells() == 0 {
		t.Error("MNAR should have masked some cells")
	}
}

// TestInjectDoesNotMutateInput verifies the source dataset is untouched
func TestInjectDoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	data := gaussianDataset(6, 300, rng)

	_, err := NewInjector().Inject(data, experiment.MechanismSpec{
		Mechanism: experiment.MechanismMCAR, PercMiss: 0.5, ProbMiss: 0.5,
	}, rng)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if data.MissingCells() != 0 {
		t.Error("Injection mutated the source dataset")
	}
}

// TestInjectConstantCauseIsDegenerate verifies zero-variance causes fail recoverably
func TestInjectConstantCauseIsDegenerate(t *testing.T) {
	d := dataset.New(graph.DefaultLabels(4), 20)
	for i := 0; i < 20; i++ {
		d.Append([]float64{1, 1, 1, 1})
	}

	_, err := NewInjector().Inject(d, experiment.MechanismSpec{
		Mechanism: experiment.MechanismMAR, PercMiss: 0.5, ProbMiss: 0.2,
	}, rand.New(rand.NewSource(2)))
	if err == nil {
		t.Fatal("Expected degenerate input error for a constant cause")
	}
	if !core.IsRecoverable(err) {
		t.Errorf("Degenerate input should be recoverable, got %v", err)
	}
}

// TestInjectParameterValidation rejects out-of-range fractions
func TestInjectParameterValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := gaussianDataset(4, 10, rng)

	specs := []experiment.MechanismSpec{
		{Mechanism: experiment.MechanismMCAR, PercMiss: 0.6, ProbMiss: 0.2},
		{Mechanism: experiment.MechanismMCAR, PercMiss: 0.2, ProbMiss: 0.7},
		{Mechanism: experiment.MechanismMCAR, PercMiss: -0.1, ProbMiss: 0.2},
	}
	for _, spec := range specs {
		if _, err := NewInjector().Inject(data, spec, rng); !core.IsInvalidArgument(err) {
			t.Errorf("Expected invalid argument for spec %+v, got %v", spec, err)
		}
	}
}
