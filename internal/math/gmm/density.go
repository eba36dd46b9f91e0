package gmm

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// log(2π)
const log2Pi = 1.8378770664093453

// LogDensity evaluates the log of the multivariate normal density of every row of x.
// All rows are solved against the cholesky factor of sigma in one go.
func LogDensity(x mat.Matrix, mu mat.Vector, sigma mat.Symmetric) ([]float64, error) {
	n, d := x.Dims()
	if mu.Len() != d || sigma.Symmetric() != d {
		return nil, fmt.Errorf("observations of dim %d against mean of %d and covariance of %d: %w",
			d, mu.Len(), sigma.Symmetric(), ErrDimensionMismatch)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return nil, fmt.Errorf("not positive definite: %w", ErrSingularCovariance)
	}
	if c := chol.Cond(); math.IsInf(c, 0) || math.IsNaN(c) || c > mat.ConditionTolerance {
		return nil, fmt.Errorf("condition number %v: %w", c, ErrSingularCovariance)
	}

	// one centered observation per column
	diff := mat.NewDense(d, n, nil)
	diff.Apply(func(i, j int, v float64) float64 {
		return v - mu.AtVec(i)
	}, x.T())

	var solved mat.Dense
	if err := chol.SolveTo(&solved, diff); err != nil {
		return nil, fmt.Errorf("could not solve against covariance: %v: %w", err, ErrSingularCovariance)
	}

	// (x-μ)ᵀ Σ⁻¹ (x-μ) for all columns at once
	solved.MulElem(&solved, diff)
	ones := make([]float64, d)
	for i := range ones {
		ones[i] = 1
	}
	var quad mat.VecDense
	quad.MulVec(solved.T(), mat.NewVecDense(d, ones))

	norm := float64(d)*log2Pi + chol.LogDet()
	out := make([]float64, n)
	for i := range out {
		out[i] = -0.5 * (quad.AtVec(i) + norm)
	}
	return out, nil
}

// Density evaluates the multivariate normal density of every row of x.
func Density(x mat.Matrix, mu mat.Vector, sigma mat.Symmetric) ([]float64, error) {
	ld, err := LogDensity(x, mu, sigma)
	if err != nil {
		return nil, err
	}
	for i, v := range ld {
		ld[i] = math.Exp(v)
	}
	return ld, nil
}

// LogJoint returns the n×K matrix of log p(x_i, z=j) = log N(x_i | μ_j, Σ_j) + log φ_j.
// Components are evaluated concurrently, each one owning its own column.
func LogJoint(x mat.Matrix, m Model) (*mat.Dense, error) {
	if x == nil {
		return nil, ErrEmptySet
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	n, _ := x.Dims()
	k := m.K()
	out := mat.NewDense(n, k, nil)

	var g errgroup.Group
	for j := 0; j < k; j++ {
		j := j
		g.Go(func() error {
			ld, err := LogDensity(x, m.Mu[j], m.Sigma[j])
			if err != nil {
				return fmt.Errorf("component %d: %w", j, err)
			}
			lp := math.Log(m.Phi[j])
			for i, v := range ld {
				out.Set(i, j, v+lp)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
