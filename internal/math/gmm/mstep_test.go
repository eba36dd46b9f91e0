package gmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestResponsibilities(t *testing.T) {
	x, _ := sampleMixture(t, 7, 90, threeClusters())
	m := initialize(t, x, NewConfig().WithK(3), 7)

	lj, err := LogJoint(x, m)
	require.NoError(t, err)
	w, err := Responsibilities(lj)
	require.NoError(t, err)

	n, k := w.Dims()
	assert.Equal(t, 90, n)
	assert.Equal(t, 3, k)
	for i := 0; i < n; i++ {
		row := w.RawRowView(i)
		assert.InDelta(t, 1.0, floats.Sum(row), 1e-12)
		for _, v := range row {
			assert.True(t, v >= 0 && v <= 1, "responsibility %v out of range", v)
		}
	}
}

func TestResponsibilitiesZeroMass(t *testing.T) {
	inf := math.Inf(-1)

	tests := map[string]*mat.Dense{
		"no-mass": mat.NewDense(2, 2, []float64{0, -1, inf, inf}),
		"nan":     mat.NewDense(2, 2, []float64{0, -1, math.NaN(), 0}),
	}

	for name, lj := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Responsibilities(lj)
			assert.ErrorIs(t, err, ErrDegenerateResponsibility)
		})
	}
}

func TestUpdate(t *testing.T) {
	// hard assignment reduces to the per-group sample statistics
	x := mat.NewDense(4, 1, []float64{1, 3, 10, 14})
	w := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 0,
		0, 1,
		0, 1,
	})

	m, err := Update(x, w)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 0.5}, m.Phi)
	assert.InDelta(t, 2.0, m.Mu[0].AtVec(0), 1e-12)
	assert.InDelta(t, 12.0, m.Mu[1].AtVec(0), 1e-12)
	assert.InDelta(t, 1.0, m.Sigma[0].At(0, 0), 1e-12)
	assert.InDelta(t, 4.0, m.Sigma[1].At(0, 0), 1e-12)
}

func TestUpdateWeighted(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		0, 0,
		2, 0,
		0, 4,
	})
	w := mat.NewDense(3, 1, []float64{1, 1, 2})

	m, err := Update(x, w)
	require.NoError(t, err)

	// μ = (0,0)+(2,0)+2*(0,4) / 4
	assert.InDelta(t, 0.5, m.Mu[0].AtVec(0), 1e-12)
	assert.InDelta(t, 2.0, m.Mu[0].AtVec(1), 1e-12)

	expected := mat.NewSymDense(2, nil)
	for i, wi := range []float64{1, 1, 2} {
		d := mat.NewVecDense(2, nil)
		d.SubVec(x.RowView(i), m.Mu[0])
		expected.SymRankOne(expected, wi/4, d)
	}
	assert.True(t, mat.EqualApprox(expected, m.Sigma[0], 1e-12))
	assert.Equal(t, []float64{4.0 / 3.0}, m.Phi)
}

func TestUpdateEmptyComponent(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	w := mat.NewDense(3, 2, []float64{
		1, 0,
		1, 0,
		1, 0,
	})
	_, err := Update(x, w)
	assert.ErrorIs(t, err, ErrEmptyComponent)

	// a labeled observation is enough mass for the component
	labeled := Labeled{
		X: mat.NewDense(2, 1, []float64{7, 9}),
		Z: []int{1, 1},
	}
	m, err := UpdateSemiSupervised(x, w, labeled, 1)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, m.Mu[1].AtVec(0), 1e-12)
	assert.InDelta(t, 1.0, m.Sigma[1].At(0, 0), 1e-12)
	assert.Equal(t, 0.0, m.Phi[1])
}

func TestUpdateSemiSupervised(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{
		0, 0,
		2, 2,
	})
	w := mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		0.5, 0.5,
	})
	labeled := Labeled{
		X: mat.NewDense(2, 2, []float64{
			4, 2,
			6, 0,
		}),
		Z: []int{0, 0},
	}
	alpha := 2.0

	m, err := UpdateSemiSupervised(x, w, labeled, alpha)
	require.NoError(t, err)

	// the labeled contribution is a per-dimension vector sum
	// μ_0 = (0.5*(0,0) + 0.5*(2,2) + 2*((4,2)+(6,0))) / (1 + 2*2)
	assert.InDelta(t, 21.0/5.0, m.Mu[0].AtVec(0), 1e-12)
	assert.InDelta(t, 5.0/5.0, m.Mu[0].AtVec(1), 1e-12)
	// no labeled observations for component 1
	assert.InDelta(t, 1.0, m.Mu[1].AtVec(0), 1e-12)
	assert.InDelta(t, 1.0, m.Mu[1].AtVec(1), 1e-12)
	// priors only follow the unlabeled responsibilities
	assert.Equal(t, []float64{0.5, 0.5}, m.Phi)

	expected := mat.NewSymDense(2, nil)
	d := mat.NewVecDense(2, nil)
	for i := 0; i < 2; i++ {
		d.SubVec(x.RowView(i), m.Mu[0])
		expected.SymRankOne(expected, 0.5, d)
		d.SubVec(labeled.X.RowView(i), m.Mu[0])
		expected.SymRankOne(expected, alpha, d)
	}
	expected.ScaleSym(1.0/5.0, expected)
	assert.True(t, mat.EqualApprox(expected, m.Sigma[0], 1e-12))
}

func TestUpdateSemiSupervisedWithoutSupervision(t *testing.T) {
	x, z := sampleMixture(t, 11, 60, threeClusters())
	m := initialize(t, x, NewConfig().WithK(3), 11)
	w, err := m.Predict(x)
	require.NoError(t, err)

	expected, err := Update(x, w)
	require.NoError(t, err)

	type test struct {
		labeled Labeled
	}

	tests := map[string]test{
		"no-labels": {
			labeled: Labeled{},
		},
		"labels-without-weight": {
			labeled: Labeled{X: x, Z: z},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			actual, err := UpdateSemiSupervised(x, w, tt.labeled, 0)
			require.NoError(t, err)
			assert.Equal(t, expected.Phi, actual.Phi)
			for c := 0; c < 3; c++ {
				assert.True(t, mat.EqualApprox(expected.Mu[c], actual.Mu[c], 1e-12))
				assert.True(t, mat.EqualApprox(expected.Sigma[c], actual.Sigma[c], 1e-12))
			}
		})
	}
}

func TestUpdateSemiSupervisedPartialLabels(t *testing.T) {
	x, z := sampleMixture(t, 13, 60, threeClusters())
	m := initialize(t, x, NewConfig().WithK(3), 13)
	w, err := m.Predict(x)
	require.NoError(t, err)

	// only component 0 receives labeled observations
	var rows []int
	for i, c := range z {
		if c == 0 {
			rows = append(rows, i)
		}
	}
	labeled := Labeled{
		X: Labeled{X: x}.rows(rows),
		Z: make([]int, len(rows)),
	}

	unsupervised, err := Update(x, w)
	require.NoError(t, err)
	supervised, err := UpdateSemiSupervised(x, w, labeled, 20)
	require.NoError(t, err)

	assert.False(t, mat.EqualApprox(unsupervised.Mu[0], supervised.Mu[0], 1e-6))
	for c := 1; c < 3; c++ {
		assert.True(t, mat.EqualApprox(unsupervised.Mu[c], supervised.Mu[c], 1e-12))
		assert.True(t, mat.EqualApprox(unsupervised.Sigma[c], supervised.Sigma[c], 1e-12))
	}
}

func TestUpdateInvalidInput(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})

	type test struct {
		w       *mat.Dense
		labeled Labeled
		alpha   float64
		err     error
	}

	tests := map[string]test{
		"rows": {
			w:   mat.NewDense(3, 1, []float64{1, 1, 1}),
			err: ErrDimensionMismatch,
		},
		"label": {
			w:       mat.NewDense(2, 1, []float64{1, 1}),
			labeled: Labeled{X: mat.NewDense(1, 1, []float64{1}), Z: []int{1}},
			err:     ErrInvalidLabel,
		},
		"labeled-dim": {
			w:       mat.NewDense(2, 1, []float64{1, 1}),
			labeled: Labeled{X: mat.NewDense(1, 2, []float64{1, 1}), Z: []int{0}},
			err:     ErrDimensionMismatch,
		},
		"alpha": {
			w:     mat.NewDense(2, 1, []float64{1, 1}),
			alpha: -1,
			err:   ErrInvalidConfig,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := UpdateSemiSupervised(x, tt.w, tt.labeled, tt.alpha)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
