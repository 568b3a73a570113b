package missing

import (
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/experiment"
)

// Injector applies one of the canonical missingness mechanisms to a complete
// dataset. All three mechanisms share a skeleton: choose ceil(p * percMiss)
// target variables without replacement, then decide per-observation
// missingness for each target. Cause values are always read from the
// pre-injection data, so self-referential MNAR masking depends on the
// unobserved quantity itself.
type Injector struct{}

// NewInjector creates a missingness injector.
func NewInjector() *Injector {
	return &Injector{}
}

// Inject returns a copy of data with missing cells under the given spec.
// The input dataset is never mutated.
func (in *Injector) Inject(data *dataset.Dataset, spec experiment.MechanismSpec, rng *rand.Rand) (*dataset.Dataset, error) {
	if spec.PercMiss < 0 || spec.PercMiss > 0.5 {
		return nil, core.NewInvalidArgumentError("perc_miss", "must be in [0, 0.5]")
	}
	if spec.ProbMiss < 0 || spec.ProbMiss > 0.5 {
		return nil, core.NewInvalidArgumentError("prob_miss", "must be in [0, 0.5]")
	}

	out := data.Clone()
	if spec.Mechanism == experiment.MechanismOracle || spec.PercMiss == 0 || spec.ProbMiss == 0 {
		return out, nil
	}

	targets := in.chooseTargets(data.ColumnCount(), spec.PercMiss, rng)

	switch spec.Mechanism {
	case experiment.MechanismMCAR:
		in.injectMCAR(out, targets, spec.ProbMiss, rng)
		return out, nil
	case experiment.MechanismMAR:
		if err := in.injectMAR(data, out, targets, spec.ProbMiss, rng); err != nil {
			return nil, err
		}
		return out, nil
	case experiment.MechanismMNAR:
		if err := in.injectMNAR(data, out, targets, spec.ProbMiss, rng); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, core.ErrUnknownMechanism
}

// chooseTargets picks ceil(p * percMiss) variable indices uniformly without
// replacement.
func (in *Injector) chooseTargets(p int, percMiss float64, rng *rand.Rand) []int {
	m := int(math.Ceil(float64(p) * percMiss))
	if m > p {
		m = p
	}
	return rng.Perm(p)[:m]
}

// injectMCAR masks each observation of a target variable independently with
// fixed probability probMiss.
func (in *Injector) injectMCAR(out *dataset.Dataset, targets []int, probMiss float64, rng *rand.Rand) {
	for _, j := range targets {
		for i := range out.Rows {
			if rng.Float64() < probMiss {
				out.Rows[i][j] = math.NaN()
			}
		}
	}
}

// injectMAR picks, for each target, a fully-observed cause variable and masks
// observations with a probability shaped by the cause value.
func (in *Injector) injectMAR(src, out *dataset.Dataset, targets []int, probMiss float64, rng *rand.Rand) error {
	observed := complement(src.ColumnCount(), targets)
	if len(observed) == 0 {
		return core.NewInvalidArgumentError("targets", "leave no fully-observed cause variable")
	}

	for _, j := range targets {
		cause := observed[rng.Intn(len(observed))]
		probs, err := in.causeProbabilities(src, cause, probMiss)
		if err != nil {
			return err
		}
		in.applyMask(out, j, probs, rng)
	}
	return nil
}

// injectMNAR splits the targets into two halves. The first ceil(50%) behaves
// exactly like MAR; the remainder draws its cause from the target set itself,
// so missingness depends on a variable that is itself missing-designated.
func (in *Injector) injectMNAR(src, out *dataset.Dataset, targets []int, probMiss float64, rng *rand.Rand) error {
	observed := complement(src.ColumnCount(), targets)
	if len(observed) == 0 {
		return core.NewInvalidArgumentError("targets", "leave no fully-observed cause variable")
	}
	marCount := int(math.Ceil(float64(len(targets)) / 2))

	for k, j := range targets {
		var cause int
		if k < marCount {
			cause = observed[rng.Intn(len(observed))]
		} else {
			cause = targets[rng.Intn(len(targets))]
		}
		probs, err := in.causeProbabilities(src, cause, probMiss)
		if err != nil {
			return err
		}
		in.applyMask(out, j, probs, rng)
	}
	return nil
}

// causeProbabilities maps each observation of the cause variable through the
// normal CDF under the cause's own empirical mean and standard deviation,
// then rescales the vector so its mean equals probMiss, clipped to [0, 1].
func (in *Injector) causeProbabilities(src *dataset.Dataset, cause int, probMiss float64) ([]float64, error) {
	col := src.Column(cause)

	mean, err := stats.Mean(col)
	if err != nil {
		return nil, core.NewInvalidArgumentError("dataset", "must be non-empty")
	}
	sd, err := stats.StandardDeviation(col)
	if err != nil || sd == 0 {
		return nil, core.NewDegenerateInputError(src.VariableKeys[cause].String())
	}

	normal := distuv.Normal{Mu: mean, Sigma: sd}
	probs := make([]float64, len(col))
	total := 0.0
	for i, v := range col {
		probs[i] = normal.CDF(v)
		total += probs[i]
	}

	// Rescale so the mean probability equals probMiss, then clip.
	scale := probMiss * float64(len(col)) / total
	for i := range probs {
		probs[i] *= scale
		if probs[i] > 1 {
			probs[i] = 1
		} else if probs[i] < 0 {
			probs[i] = 0
		}
	}
	return probs, nil
}

// applyMask samples a Bernoulli missingness indicator per observation.
func (in *Injector) applyMask(out *dataset.Dataset, j int, probs []float64, rng *rand.Rand) {
	for i := range out.Rows {
		if rng.Float64() < probs[i] {
			out.Rows[i][j] = math.NaN()
		}
	}
}

// complement returns the column indices not present in targets, in ascending
// order.
func complement(p int, targets []int) []int {
	targeted := make([]bool, p)
	for _, j := range targets {
		targeted[j] = true
	}
	var rest []int
	for j := 0; j < p; j++ {
		if !targeted[j] {
			rest = append(rest, j)
		}
	}
	return rest
}
