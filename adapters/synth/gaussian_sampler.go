package synth

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/graph"
)

// covRegularizer is added to the diagonal of (I - A^T) before inversion.
// A stability tradeoff near singular systems, not part of the true model.
const covRegularizer = 1e-6

// GaussianSampler draws i.i.d. observations from the multivariate normal
// implied by a weighted DAG's linear structural equations X = A^T X + eps,
// eps ~ N(0, I).
type GaussianSampler struct{}

// NewGaussianSampler creates a sampler.
func NewGaussianSampler() *GaussianSampler {
	return &GaussianSampler{}
}

// ImpliedCovariance computes Sigma = (I - A^T)^-1 (I - A^T)^-T with the
// diagonal regularizer applied before inversion.
func (s *GaussianSampler) ImpliedCovariance(adj *graph.WeightedAdjacency) (*mat.SymDense, error) {
	p := adj.NodeCount()

	m := mat.NewDense(p, p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			// (I - A^T)[i][j] = delta_ij - A[j][i]
			v := -adj.Weights[j][i]
			if i == j {
				v += 1 + covRegularizer
			}
			m.Set(i, j, v)
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, core.NewInstabilityError("inverting (I - A^T)", err)
	}

	var sigmaDense mat.Dense
	sigmaDense.Mul(&inv, inv.T())

	// Symmetrize against floating point drift before the Cholesky step.
	sigma := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sigma.SetSym(i, j, 0.5*(sigmaDense.At(i, j)+sigmaDense.At(j, i)))
		}
	}
	return sigma, nil
}

// Sample draws n records from the implied distribution through the given
// random source.
func (s *GaussianSampler) Sample(adj *graph.WeightedAdjacency, n int, rng *rand.Rand) (*dataset.Dataset, error) {
	if n < 1 {
		return nil, core.NewInvalidArgumentError("sample size", "must be positive")
	}

	sigma, err := s.ImpliedCovariance(adj)
	if err != nil {
		return nil, err
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return nil, core.NewInstabilityError("cholesky of implied covariance", nil)
	}

	p := adj.NodeCount()
	var lower mat.TriDense
	chol.LTo(&lower)

	out := dataset.New(adj.Labels, n)
	z := make([]float64, p)
	for i := 0; i < n; i++ {
		for k := range z {
			z[k] = rng.NormFloat64()
		}
		row := make([]float64, p)
		// x = L z, zero mean
		for r := 0; r < p; r++ {
			sum := 0.0
			for c := 0; c <= r; c++ {
				sum += lower.At(r, c) * z[c]
			}
			row[r] = sum
		}
		out.Append(row)
	}
	return out, nil
}
