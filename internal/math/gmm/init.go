package gmm

import (
	"fmt"
	"io"

	"github.com/cdipaolo/goml/cluster"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Initialize creates the starting mixture for the given observations.
// Every observation is assigned to a uniformly random group, or to its k-means cluster
// if cfg.Init is InitKMeans, each group gives the mean of a component.
// The covariance of component i is the scatter of all observations around its mean,
// normalised by the total number of observations, or by the group size if cfg.GroupCovariance is set.
// The priors and the responsibilities are uniform.
//
// A group without observations has no mean and fails with ErrEmptyComponent,
// drawing again with another seed is up to the caller.
// src is required unless cfg.Init is InitKMeans.
func Initialize(x mat.Matrix, cfg Config, src rand.Source) (Model, *mat.Dense, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, nil, err
	}
	if x == nil {
		return Model{}, nil, ErrEmptySet
	}
	if src == nil && cfg.Init != InitKMeans {
		return Model{}, nil, fmt.Errorf("random init without source: %w", ErrInvalidConfig)
	}
	n, d := x.Dims()
	k := cfg.K

	groups, err := group(x, cfg, src)
	if err != nil {
		return Model{}, nil, err
	}

	m := Model{
		Phi:   make([]float64, k),
		Mu:    make([]*mat.VecDense, k),
		Sigma: make([]*mat.SymDense, k),
	}
	for c, rows := range groups {
		if len(rows) == 0 {
			return Model{}, nil, fmt.Errorf("group %d received no observations: %w", c, ErrEmptyComponent)
		}
		mu := mat.NewVecDense(d, nil)
		row := make([]float64, d)
		for _, r := range rows {
			mu.AddVec(mu, mat.NewVecDense(d, mat.Row(row, r, x)))
		}
		mu.ScaleVec(1/float64(len(rows)), mu)

		// the scatter is taken either over the whole set or only over the group
		var (
			scatter mat.Matrix = x
			norm               = float64(n)
		)
		if cfg.GroupCovariance {
			scatter = subset(x, rows)
			norm = float64(len(rows))
		}
		sn, _ := scatter.Dims()
		centered := mat.NewDense(sn, d, nil)
		centered.Apply(func(i, j int, v float64) float64 {
			return v - mu.AtVec(j)
		}, scatter)
		sigma := mat.NewSymDense(d, nil)
		sigma.SymOuterK(1/norm, centered.T())

		m.Phi[c] = 1 / float64(k)
		m.Mu[c] = mu
		m.Sigma[c] = sigma
	}

	w := mat.NewDense(n, k, nil)
	w.Apply(func(i, j int, v float64) float64 {
		return 1 / float64(k)
	}, w)

	return m, w, nil
}

func group(x mat.Matrix, cfg Config, src rand.Source) ([][]int, error) {
	n, _ := x.Dims()
	groups := make([][]int, cfg.K)
	if cfg.Init == InitKMeans {
		guesses, err := kmeans(x, cfg.K, cfg.MaxIter)
		if err != nil {
			return nil, err
		}
		for i, g := range guesses {
			groups[g] = append(groups[g], i)
		}
		return groups, nil
	}
	rnd := rand.New(src)
	for i := 0; i < n; i++ {
		g := rnd.Intn(cfg.K)
		groups[g] = append(groups[g], i)
	}
	return groups, nil
}

// kmeans returns the cluster of every observation.
// The centroids are seeded from the global math/rand source of the clustering library.
func kmeans(x mat.Matrix, k, iterations int) ([]int, error) {
	n, _ := x.Dims()
	data := make([][]float64, n)
	for i := range data {
		data[i] = mat.Row(nil, i, x)
	}
	model := cluster.NewKMeans(k, iterations, data)
	model.Output = io.Discard
	if err := model.Learn(); err != nil {
		return nil, fmt.Errorf("could not cluster observations: %w", err)
	}
	guesses := model.Guesses()
	if len(guesses) != n {
		return nil, fmt.Errorf("could not align clusters with observations [ %d | %d ]", len(guesses), n)
	}
	for i, g := range guesses {
		if g < 0 || g >= k {
			return nil, fmt.Errorf("observation %d in cluster %d: %w", i, g, ErrInvalidLabel)
		}
	}
	return guesses, nil
}

func subset(x mat.Matrix, rows []int) *mat.Dense {
	_, d := x.Dims()
	sub := mat.NewDense(len(rows), d, nil)
	for i, r := range rows {
		for j := 0; j < d; j++ {
			sub.Set(i, j, x.At(r, j))
		}
	}
	return sub
}
