package trial

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/drakos74/gmm/infra/config"
	"github.com/drakos74/gmm/internal/math/gmm"
)

const (
	DefaultTrials   = 3
	DefaultSeed     = 229
	DefaultRestarts = 10

	configKey = "gmm"
)

// Config defines a set of em trials on the same data.
// Trials is the number of independent runs, each from its own random initialisation.
// Seed seeds the random source shared by all trials of a run.
// Restarts is how many times an initialisation with an empty group is drawn again.
// SemiSupervised makes use of the labeled observations.
type Config struct {
	GMM            gmm.Config `json:"gmm" yaml:"gmm"`
	Trials         int        `json:"trials" yaml:"trials"`
	Seed           uint64     `json:"seed" yaml:"seed"`
	Restarts       int        `json:"restarts" yaml:"restarts"`
	SemiSupervised bool       `json:"semi_supervised" yaml:"semi_supervised"`
}

// NewConfig creates the default trial config.
func NewConfig() Config {
	return Config{
		GMM:      gmm.NewConfig(),
		Trials:   DefaultTrials,
		Seed:     DefaultSeed,
		Restarts: DefaultRestarts,
	}
}

// LoadConfig reads the config from the given json or yaml file on top of the defaults.
func LoadConfig(file string) (Config, error) {
	cfg := NewConfig()
	if err := config.Load(file, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadDefaultConfig reads the 'gmm' config from the config directory,
// keeping the defaults if there is no such file.
func LoadDefaultConfig() (Config, error) {
	cfg := NewConfig()
	err := config.LoadKey(configKey, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the trial and em options.
func (c Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1 but was %d: %w", c.Trials, gmm.ErrInvalidConfig)
	}
	if c.Restarts < 0 {
		return fmt.Errorf("restarts must not be negative but was %d: %w", c.Restarts, gmm.ErrInvalidConfig)
	}
	return c.GMM.Validate()
}

// Mode returns the em variant the config runs.
func (c Config) Mode() string {
	if c.SemiSupervised {
		return gmm.SemiSupervised
	}
	return gmm.Unsupervised
}
