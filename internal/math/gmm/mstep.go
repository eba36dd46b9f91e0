package gmm

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Update re-estimates the mixture parameters from the responsibilities of the observations.
func Update(x mat.Matrix, w *mat.Dense) (Model, error) {
	return update(x, w, Labeled{}, 0)
}

// UpdateSemiSupervised re-estimates the mixture parameters from the responsibilities of the
// unlabeled observations and the labeled ones. Every labeled observation counts as alpha
// observations fully assigned to the component of its label.
// The priors are estimated from the unlabeled responsibilities only.
func UpdateSemiSupervised(x mat.Matrix, w *mat.Dense, labeled Labeled, alpha float64) (Model, error) {
	if !(alpha >= 0) {
		return Model{}, fmt.Errorf("alpha must not be negative but was %v: %w", alpha, ErrInvalidConfig)
	}
	return update(x, w, labeled, alpha)
}

func update(x mat.Matrix, w *mat.Dense, labeled Labeled, alpha float64) (Model, error) {
	if x == nil || w == nil {
		return Model{}, ErrEmptySet
	}
	n, d := x.Dims()
	wn, k := w.Dims()
	if wn != n {
		return Model{}, fmt.Errorf("%d observations against %d responsibilities: %w", n, wn, ErrDimensionMismatch)
	}
	if err := labeled.validate(d, k); err != nil {
		return Model{}, err
	}
	groups := labeled.byComponent(k)

	m := Model{
		Phi:   make([]float64, k),
		Mu:    make([]*mat.VecDense, k),
		Sigma: make([]*mat.SymDense, k),
	}
	var g errgroup.Group
	for c := 0; c < k; c++ {
		c := c
		g.Go(func() error {
			wc := w.ColView(c)
			mu, sigma, err := updateComponent(x, wc, labeled, groups[c], alpha)
			if err != nil {
				return fmt.Errorf("component %d: %w", c, err)
			}
			m.Phi[c] = mat.Sum(wc) / float64(n)
			m.Mu[c] = mu
			m.Sigma[c] = sigma
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// updateComponent computes the weighted mean and covariance of one component.
// rows are the indexes of the labeled observations belonging to it.
func updateComponent(x mat.Matrix, wc mat.Vector, labeled Labeled, rows []int, alpha float64) (*mat.VecDense, *mat.SymDense, error) {
	n, d := x.Dims()

	mass := mat.Sum(wc)
	if len(rows) > 0 {
		mass += alpha * float64(len(rows))
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, nil, fmt.Errorf("responsibility mass %v: %w", mass, ErrEmptyComponent)
	}

	// Σ_i w_i x_i + α Σ x̃
	mu := mat.NewVecDense(d, nil)
	mu.MulVec(x.T(), wc)
	for _, r := range rows {
		mu.AddScaledVec(mu, alpha, labeled.X.RowView(r))
	}
	mu.ScaleVec(1/mass, mu)

	// rows scaled by sqrt(w_i) so that the weighted scatter is a single outer product
	scaled := mat.NewDense(n, d, nil)
	scaled.Apply(func(i, j int, v float64) float64 {
		return math.Sqrt(wc.AtVec(i)) * (v - mu.AtVec(j))
	}, x)
	sigma := mat.NewSymDense(d, nil)
	sigma.SymOuterK(1, scaled.T())

	diff := mat.NewVecDense(d, nil)
	for _, r := range rows {
		diff.SubVec(labeled.X.RowView(r), mu)
		sigma.SymRankOne(sigma, alpha, diff)
	}
	sigma.ScaleSym(1/mass, sigma)

	return mu, sigma, nil
}
