package gmm

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogLikelihood sums log(Σ_j p(x_i, z=j)) over all observations.
func LogLikelihood(logJoint *mat.Dense) float64 {
	n, _ := logJoint.Dims()
	var ll float64
	for i := 0; i < n; i++ {
		ll += floats.LogSumExp(logJoint.RawRowView(i))
	}
	return ll
}

// LabeledLogLikelihood sums log p(x̃ | z̃) over the labeled observations,
// each one evaluated only under the component of its label.
func LabeledLogLikelihood(m Model, labeled Labeled) (float64, error) {
	if labeled.Len() == 0 {
		return 0, nil
	}
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if err := labeled.validate(m.Dim(), m.K()); err != nil {
		return 0, err
	}
	var ll float64
	for c, rows := range labeled.byComponent(m.K()) {
		if len(rows) == 0 {
			continue
		}
		ld, err := LogDensity(labeled.rows(rows), m.Mu[c], m.Sigma[c])
		if err != nil {
			return 0, fmt.Errorf("component %d: %w", c, err)
		}
		ll += floats.Sum(ld)
	}
	return ll, nil
}

// Evaluate computes the objective tracked by the em driver for the given model:
// the unlabeled log-likelihood plus alpha times the labeled one.
func Evaluate(x mat.Matrix, labeled Labeled, m Model, alpha float64) (float64, error) {
	lj, err := LogJoint(x, m)
	if err != nil {
		return 0, err
	}
	ll := LogLikelihood(lj)
	if labeled.Len() > 0 && alpha != 0 {
		lll, err := LabeledLogLikelihood(m, labeled)
		if err != nil {
			return 0, err
		}
		ll += alpha * lll
	}
	return ll, nil
}
