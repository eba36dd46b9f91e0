package gmm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func model2d() Model {
	return Model{
		Phi: []float64{0.4, 0.6},
		Mu: []*mat.VecDense{
			mat.NewVecDense(2, []float64{-1, 1}),
			mat.NewVecDense(2, []float64{3, 0.5}),
		},
		Sigma: []*mat.SymDense{
			mat.NewSymDense(2, []float64{1, 0.2, 0.2, 2}),
			mat.NewSymDense(2, []float64{0.5, 0, 0, 0.5}),
		},
	}
}

func TestModelJSON(t *testing.T) {
	m := model2d()

	b, err := json.Marshal(m)
	require.NoError(t, err)

	var restored Model
	require.NoError(t, json.Unmarshal(b, &restored))

	assert.Equal(t, m.Phi, restored.Phi)
	for c := 0; c < m.K(); c++ {
		assert.True(t, mat.Equal(m.Mu[c], restored.Mu[c]))
		assert.True(t, mat.Equal(m.Sigma[c], restored.Sigma[c]))
	}

	x := mat.NewDense(2, 2, []float64{0, 0, 3, 1})
	expected, err := m.Predict(x)
	require.NoError(t, err)
	actual, err := restored.Predict(x)
	require.NoError(t, err)
	assert.True(t, mat.Equal(expected, actual))
}

func TestModelJSONInvalid(t *testing.T) {

	tests := map[string]string{
		"misaligned": `{"phi":[1],"mu":[],"sigma":[]}`,
		"no-mean":    `{"phi":[1],"mu":[[]],"sigma":[[[1]]]}`,
		"cov-rows":   `{"phi":[1],"mu":[[1,2]],"sigma":[[[1,0],[0]]]}`,
		"cov-dim":    `{"phi":[1],"mu":[[1,2]],"sigma":[[[1]]]}`,
		"priors":     `{"phi":[0.5],"mu":[[1]],"sigma":[[[1]]]}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			var m Model
			assert.Error(t, json.Unmarshal([]byte(payload), &m))
		})
	}
}

func TestModelValidate(t *testing.T) {
	valid := model2d()
	assert.NoError(t, valid.Validate())
	assert.Equal(t, 2, valid.K())
	assert.Equal(t, 2, valid.Dim())

	negative := model2d()
	negative.Phi[0] = -0.1
	assert.ErrorIs(t, negative.Validate(), ErrInvalidModel)

	unnormalised := model2d()
	unnormalised.Phi = []float64{5, 5}
	assert.ErrorIs(t, unnormalised.Validate(), ErrInvalidModel)
	_, err := Evaluate(mat.NewDense(1, 2, []float64{0, 0}), Labeled{}, unnormalised, 0)
	assert.ErrorIs(t, err, ErrInvalidModel)

	rounded := model2d()
	rounded.Phi = []float64{0.4 + 1e-9, 0.6}
	assert.NoError(t, rounded.Validate())

	misaligned := model2d()
	misaligned.Sigma = misaligned.Sigma[:1]
	assert.ErrorIs(t, misaligned.Validate(), ErrInvalidModel)

	dim := model2d()
	dim.Mu[1] = mat.NewVecDense(3, nil)
	assert.ErrorIs(t, dim.Validate(), ErrDimensionMismatch)

	assert.ErrorIs(t, Model{}.Validate(), ErrInvalidModel)
}

func TestModelClone(t *testing.T) {
	m := model2d()
	c := m.Clone()

	c.Phi[0] = 0
	c.Mu[0].SetVec(0, 100)
	c.Sigma[0].SetSym(0, 0, 100)

	assert.Equal(t, 0.4, m.Phi[0])
	assert.Equal(t, -1.0, m.Mu[0].AtVec(0))
	assert.Equal(t, 1.0, m.Sigma[0].At(0, 0))
}

func TestSummarize(t *testing.T) {
	w := mat.NewDense(5, 3, []float64{
		0.9, 0.1, 0,
		0.7, 0.2, 0.1,
		0.1, 0.8, 0.1,
		0.2, 0.6, 0.2,
		0.1, 0.4, 0.5,
	})

	assert.Equal(t, []int{0, 0, 1, 1, 2}, Assign(w))

	s := Summarize(w)
	assert.Equal(t, 5, s.Samples)
	assert.Equal(t, []int{0, 1, 2}, s.Components())
	assert.Equal(t, 2, s.Clusters[0].Size)
	assert.InDelta(t, 0.8, s.Clusters[0].Confidence, 1e-12)
	assert.InDelta(t, 0.7, s.Clusters[1].Confidence, 1e-12)
	assert.Equal(t, 1, s.Clusters[2].Size)
	assert.Equal(t, 0.0, s.Clusters[2].Spread)
	assert.Greater(t, s.Clusters[0].Spread, 0.0)
}
