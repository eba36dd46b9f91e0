package gmm

import "fmt"

const (
	DefaultK        = 4
	DefaultEps      = 1e-3
	DefaultMaxIter  = 1000
	DefaultAlpha    = 20.0
	DefaultLogEvery = 10
)

const (
	// InitRandom assigns every observation to a uniformly random group.
	InitRandom = "random"
	// InitKMeans takes the groups of a k-means clustering.
	InitKMeans = "kmeans"
)

// Config defines the options of an em run.
// K is the number of gaussian components.
// Eps is the log-likelihood change below which the run is considered converged.
// MaxIter caps the number of iterations.
// Alpha is the weight of every labeled observation in the semi-supervised run,
// 0 reduces it to the unsupervised one.
// GroupCovariance normalises the initial covariances by the group size instead of the total size.
// LogEvery controls how often the progress is logged, 0 disables it.
// Init selects how the starting groups are drawn, empty means InitRandom.
type Config struct {
	K               int     `json:"k" yaml:"k"`
	Eps             float64 `json:"eps" yaml:"eps"`
	MaxIter         int     `json:"max_iter" yaml:"max_iter"`
	Alpha           float64 `json:"alpha" yaml:"alpha"`
	GroupCovariance bool    `json:"group_covariance" yaml:"group_covariance"`
	LogEvery        int     `json:"log_every" yaml:"log_every"`
	Init            string  `json:"init,omitempty" yaml:"init,omitempty"`
}

// NewConfig creates a config with the default options.
func NewConfig() Config {
	return Config{
		K:        DefaultK,
		Eps:      DefaultEps,
		MaxIter:  DefaultMaxIter,
		Alpha:    DefaultAlpha,
		LogEvery: DefaultLogEvery,
	}
}

// WithK sets the number of components.
func (c Config) WithK(k int) Config {
	c.K = k
	return c
}

// WithAlpha sets the weight of the labeled observations.
func (c Config) WithAlpha(alpha float64) Config {
	c.Alpha = alpha
	return c
}

// WithMaxIter sets the iteration cap.
func (c Config) WithMaxIter(iter int) Config {
	c.MaxIter = iter
	return c
}

// WithInit sets the grouping of the initial mixture.
func (c Config) WithInit(init string) Config {
	c.Init = init
	return c
}

// Validate checks the config options.
func (c Config) Validate() error {
	switch {
	case c.K < 1:
		return fmt.Errorf("k must be at least 1 but was %d: %w", c.K, ErrInvalidConfig)
	case !(c.Eps > 0):
		return fmt.Errorf("eps must be positive but was %v: %w", c.Eps, ErrInvalidConfig)
	case c.MaxIter < 1:
		return fmt.Errorf("max_iter must be at least 1 but was %d: %w", c.MaxIter, ErrInvalidConfig)
	case !(c.Alpha >= 0):
		return fmt.Errorf("alpha must not be negative but was %v: %w", c.Alpha, ErrInvalidConfig)
	case c.LogEvery < 0:
		return fmt.Errorf("log_every must not be negative but was %d: %w", c.LogEvery, ErrInvalidConfig)
	case c.Init != "" && c.Init != InitRandom && c.Init != InitKMeans:
		return fmt.Errorf("unknown init '%s': %w", c.Init, ErrInvalidConfig)
	}
	return nil
}
