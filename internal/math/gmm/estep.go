package gmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Responsibilities normalises the joint log-probabilities row by row into posterior responsibilities.
// A row without any density mass cannot be normalised and fails the step.
func Responsibilities(logJoint *mat.Dense) (*mat.Dense, error) {
	n, k := logJoint.Dims()
	w := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		row := logJoint.RawRowView(i)
		lse := floats.LogSumExp(row)
		if math.IsInf(lse, 0) || math.IsNaN(lse) {
			return nil, fmt.Errorf("observation %d with log mass %v: %w", i, lse, ErrDegenerateResponsibility)
		}
		dst := w.RawRowView(i)
		for j, v := range row {
			dst[j] = math.Exp(v - lse)
		}
	}
	return w, nil
}
