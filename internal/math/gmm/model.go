package gmm

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Model is a gaussian mixture.
// Phi, Mu and Sigma are index-aligned: component i has prior Phi[i], mean Mu[i] and covariance Sigma[i].
// A model is treated as a value, the update functions always return a new one.
type Model struct {
	Phi   []float64
	Mu    []*mat.VecDense
	Sigma []*mat.SymDense
}

// K returns the number of components.
func (m Model) K() int {
	return len(m.Phi)
}

// Dim returns the dimension of the observation space.
func (m Model) Dim() int {
	if len(m.Mu) == 0 {
		return 0
	}
	return m.Mu[0].Len()
}

const phiTolerance = 1e-6

// Validate checks that the parameters are aligned and share the same dimension,
// and that the priors form a distribution.
func (m Model) Validate() error {
	k := len(m.Phi)
	if k == 0 {
		return fmt.Errorf("no components: %w", ErrInvalidModel)
	}
	if len(m.Mu) != k || len(m.Sigma) != k {
		return fmt.Errorf("misaligned parameters [ phi %d | mu %d | sigma %d ]: %w",
			k, len(m.Mu), len(m.Sigma), ErrInvalidModel)
	}
	d := m.Dim()
	for i := 0; i < k; i++ {
		if m.Phi[i] < 0 || math.IsNaN(m.Phi[i]) || math.IsInf(m.Phi[i], 0) {
			return fmt.Errorf("component %d has prior %v: %w", i, m.Phi[i], ErrInvalidModel)
		}
		if m.Mu[i] == nil || m.Mu[i].Len() != d {
			return fmt.Errorf("component %d mean: %w", i, ErrDimensionMismatch)
		}
		if m.Sigma[i] == nil || m.Sigma[i].Symmetric() != d {
			return fmt.Errorf("component %d covariance: %w", i, ErrDimensionMismatch)
		}
	}
	if sum := floats.Sum(m.Phi); math.Abs(sum-1) > phiTolerance {
		return fmt.Errorf("priors sum to %v: %w", sum, ErrInvalidModel)
	}
	return nil
}

// Clone deep copies the model.
func (m Model) Clone() Model {
	c := Model{
		Phi:   make([]float64, len(m.Phi)),
		Mu:    make([]*mat.VecDense, len(m.Mu)),
		Sigma: make([]*mat.SymDense, len(m.Sigma)),
	}
	copy(c.Phi, m.Phi)
	for i, mu := range m.Mu {
		c.Mu[i] = mat.VecDenseCopyOf(mu)
	}
	for i, sigma := range m.Sigma {
		s := mat.NewSymDense(sigma.Symmetric(), nil)
		s.CopySym(sigma)
		c.Sigma[i] = s
	}
	return c
}

// Predict returns the responsibilities of the given points under the model.
func (m Model) Predict(x mat.Matrix) (*mat.Dense, error) {
	lj, err := LogJoint(x, m)
	if err != nil {
		return nil, err
	}
	return Responsibilities(lj)
}

type jsonModel struct {
	Phi   []float64     `json:"phi"`
	Mu    [][]float64   `json:"mu"`
	Sigma [][][]float64 `json:"sigma"`
}

// MarshalJSON encodes the model parameters as plain arrays.
func (m Model) MarshalJSON() ([]byte, error) {
	jm := jsonModel{
		Phi:   m.Phi,
		Mu:    make([][]float64, len(m.Mu)),
		Sigma: make([][][]float64, len(m.Sigma)),
	}
	for i, mu := range m.Mu {
		jm.Mu[i] = mat.Col(nil, 0, mu)
	}
	for i, sigma := range m.Sigma {
		d := sigma.Symmetric()
		rows := make([][]float64, d)
		for r := 0; r < d; r++ {
			rows[r] = mat.Row(nil, r, sigma)
		}
		jm.Sigma[i] = rows
	}
	return json.Marshal(jm)
}

// UnmarshalJSON decodes the model parameters.
func (m *Model) UnmarshalJSON(b []byte) error {
	var jm jsonModel
	if err := json.Unmarshal(b, &jm); err != nil {
		return err
	}
	if len(jm.Mu) != len(jm.Phi) || len(jm.Sigma) != len(jm.Phi) {
		return fmt.Errorf("misaligned parameters [ phi %d | mu %d | sigma %d ]: %w",
			len(jm.Phi), len(jm.Mu), len(jm.Sigma), ErrInvalidModel)
	}
	model := Model{
		Phi:   jm.Phi,
		Mu:    make([]*mat.VecDense, len(jm.Mu)),
		Sigma: make([]*mat.SymDense, len(jm.Sigma)),
	}
	for i, mu := range jm.Mu {
		if len(mu) == 0 {
			return fmt.Errorf("component %d has no mean: %w", i, ErrInvalidModel)
		}
		model.Mu[i] = mat.NewVecDense(len(mu), mu)
	}
	for i, rows := range jm.Sigma {
		d := len(rows)
		if d == 0 {
			return fmt.Errorf("component %d has no covariance: %w", i, ErrInvalidModel)
		}
		sigma := mat.NewSymDense(d, nil)
		for r := 0; r < d; r++ {
			if len(rows[r]) != d {
				return fmt.Errorf("component %d covariance row %d: %w", i, r, ErrDimensionMismatch)
			}
			for c := r; c < d; c++ {
				sigma.SetSym(r, c, rows[r][c])
			}
		}
		model.Sigma[i] = sigma
	}
	*m = model
	return model.Validate()
}

// Labeled is a set of observations with known component.
type Labeled struct {
	X *mat.Dense
	Z []int
}

// Len returns the number of labeled observations.
func (l Labeled) Len() int {
	return len(l.Z)
}

func (l Labeled) validate(d, k int) error {
	if l.Len() == 0 {
		return nil
	}
	if l.X == nil {
		return fmt.Errorf("labeled set has %d labels but no observations: %w", l.Len(), ErrDimensionMismatch)
	}
	n, ld := l.X.Dims()
	if n != l.Len() {
		return fmt.Errorf("labeled set has %d observations and %d labels: %w", n, l.Len(), ErrDimensionMismatch)
	}
	if ld != d {
		return fmt.Errorf("labeled dimension %d vs %d: %w", ld, d, ErrDimensionMismatch)
	}
	for i, z := range l.Z {
		if z < 0 || z >= k {
			return fmt.Errorf("label %d of observation %d not in [0,%d): %w", z, i, k, ErrInvalidLabel)
		}
	}
	return nil
}

// byComponent groups the labeled rows by their label.
func (l Labeled) byComponent(k int) [][]int {
	groups := make([][]int, k)
	for i, z := range l.Z {
		groups[z] = append(groups[z], i)
	}
	return groups
}

// rows copies the given rows of the labeled observations into a new matrix.
func (l Labeled) rows(idx []int) *mat.Dense {
	_, d := l.X.Dims()
	sub := mat.NewDense(len(idx), d, nil)
	for i, r := range idx {
		sub.SetRow(i, l.X.RawRowView(r))
	}
	return sub
}

// Assign reduces every row of the responsibilities to the index of its most likely component.
func Assign(w mat.Matrix) []int {
	n, k := w.Dims()
	labels := make([]int, n)
	row := make([]float64, k)
	for i := 0; i < n; i++ {
		mat.Row(row, i, w)
		labels[i] = floats.MaxIdx(row)
	}
	return labels
}
