package gmm

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Status is the final state of an em run.
type Status int

const (
	// Converged means the log-likelihood changed less than eps in the last iteration.
	Converged Status = iota + 1
	// IterationLimitReached means the iteration cap was hit before converging.
	// The result is still the last computed one.
	IterationLimitReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimitReached:
		return "iteration-limit-reached"
	}
	return "unknown"
}

const (
	Unsupervised   = "unsupervised"
	SemiSupervised = "semi-supervised"
)

// Result is the outcome of an em run.
// W holds the responsibilities of the last e-step, Model the parameters of the last m-step.
type Result struct {
	Model         Model
	W             *mat.Dense
	LogLikelihood []float64
	Iterations    int
	Status        Status
}

// Final returns the last tracked log-likelihood.
func (r Result) Final() float64 {
	if len(r.LogLikelihood) == 0 {
		return math.NaN()
	}
	return r.LogLikelihood[len(r.LogLikelihood)-1]
}

// Fit runs the unsupervised em algorithm from the given starting mixture.
func Fit(x mat.Matrix, init Model, cfg Config) (*Result, error) {
	return run(x, Labeled{}, init, cfg)
}

// FitSemiSupervised runs the em algorithm on the unlabeled observations x
// anchored by the labeled ones, each weighted by cfg.Alpha.
func FitSemiSupervised(x mat.Matrix, labeled Labeled, init Model, cfg Config) (*Result, error) {
	return run(x, labeled, init, cfg)
}

// Step performs a single e-step and m-step and returns the new mixture,
// the responsibilities of the e-step and the log-likelihood under the new mixture.
func Step(x mat.Matrix, labeled Labeled, m Model, cfg Config) (Model, *mat.Dense, float64, error) {
	lj, err := LogJoint(x, m)
	if err != nil {
		return Model{}, nil, 0, err
	}
	w, err := Responsibilities(lj)
	if err != nil {
		return Model{}, nil, 0, err
	}
	next, err := UpdateSemiSupervised(x, w, labeled, cfg.Alpha)
	if err != nil {
		return Model{}, nil, 0, err
	}
	ll, err := Evaluate(x, labeled, next, cfg.Alpha)
	if err != nil {
		return Model{}, nil, 0, err
	}
	return next, w, ll, nil
}

func mode(labeled Labeled) string {
	if labeled.Len() > 0 {
		return SemiSupervised
	}
	return Unsupervised
}

func run(x mat.Matrix, labeled Labeled, init Model, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if x == nil {
		return nil, ErrEmptySet
	}
	if err := init.Validate(); err != nil {
		return nil, err
	}
	_, d := x.Dims()
	if init.K() != cfg.K || init.Dim() != d {
		return nil, fmt.Errorf("model of %d components in %d dims against k=%d and %d dims: %w",
			init.K(), init.Dim(), cfg.K, d, ErrDimensionMismatch)
	}
	if err := labeled.validate(d, cfg.K); err != nil {
		return nil, err
	}

	md := mode(labeled)
	model := init
	result := &Result{
		LogLikelihood: make([]float64, 0),
	}
	for it := 0; it < cfg.MaxIter; it++ {
		next, w, ll, err := Step(x, labeled, model, cfg)
		if err != nil {
			log.Error().
				Err(err).
				Str("mode", md).
				Int("iteration", it).
				Msg("em run aborted")
			return nil, fmt.Errorf("iteration %d: %w", it, err)
		}
		model = next
		result.W = w
		result.Iterations = it + 1
		result.LogLikelihood = append(result.LogLikelihood, ll)

		if it > 0 && math.Abs(ll-result.LogLikelihood[it-1]) < cfg.Eps {
			result.Status = Converged
			break
		}
		if cfg.LogEvery > 0 && it%cfg.LogEvery == 0 {
			log.Debug().
				Str("mode", md).
				Int("iteration", it).
				Float64("ll", ll).
				Msg("em progress")
		}
	}
	if result.Status == 0 {
		result.Status = IterationLimitReached
	}
	result.Model = model

	log.Info().
		Str("mode", md).
		Str("status", result.Status.String()).
		Int("iterations", result.Iterations).
		Float64("ll", result.Final()).
		Msg("em run finished")

	return result, nil
}
