package trial

import (
	"errors"
	"fmt"
	"math"

	"github.com/drakos74/gmm/internal/math/gmm"
	"github.com/drakos74/gmm/internal/metrics"
	"github.com/drakos74/gmm/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Record is the persisted outcome of one trial.
type Record struct {
	Run           string      `json:"run"`
	Trial         int         `json:"trial"`
	Mode          string      `json:"mode"`
	Seed          uint64      `json:"seed"`
	Status        string      `json:"status"`
	Iterations    int         `json:"iterations"`
	LogLikelihood []float64   `json:"log_likelihood"`
	Model         gmm.Model   `json:"model"`
	Assignments   []int       `json:"assignments"`
	Summary       gmm.Summary `json:"summary"`
}

// Runner executes and persists a set of em trials.
type Runner struct {
	id    string
	cfg   Config
	store storage.Persistence
	src   rand.Source
}

// NewRunner creates a new runner storing its records in the shard of its mode.
func NewRunner(cfg Config, shard storage.Shard) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := shard(cfg.Mode())
	if err != nil {
		return nil, fmt.Errorf("could not create storage for '%s': %w", cfg.Mode(), err)
	}
	return &Runner{
		id:    uuid.New().String(),
		cfg:   cfg,
		store: store,
		src:   rand.NewSource(cfg.Seed),
	}, nil
}

// ID returns the run identifier under which the records are stored.
func (r *Runner) ID() string {
	return r.id
}

// Run executes all trials on the unlabeled observations x.
// The labeled observations are used only in semi-supervised mode.
// A failed trial does not stop the others, the run fails only if no trial succeeds.
func (r *Runner) Run(x *mat.Dense, labeled gmm.Labeled) ([]Record, error) {
	if !r.cfg.SemiSupervised {
		labeled = gmm.Labeled{}
	}
	records := make([]Record, 0, r.cfg.Trials)
	var lastErr error
	for t := 0; t < r.cfg.Trials; t++ {
		record, err := r.trial(t, x, labeled)
		if err != nil {
			metrics.Observer.Failure(r.cfg.Mode(), reason(err))
			log.Error().
				Err(err).
				Str("run", r.id).
				Int("trial", t).
				Str("mode", r.cfg.Mode()).
				Msg("trial failed")
			lastErr = err
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("all %d trials failed: %w", r.cfg.Trials, lastErr)
	}
	return records, nil
}

func (r *Runner) trial(t int, x *mat.Dense, labeled gmm.Labeled) (Record, error) {
	init, err := r.initialize(x)
	if err != nil {
		return Record{}, err
	}

	result, err := gmm.FitSemiSupervised(x, labeled, init, r.cfg.GMM)
	if err != nil {
		return Record{}, err
	}

	record := Record{
		Run:           r.id,
		Trial:         t,
		Mode:          r.cfg.Mode(),
		Seed:          r.cfg.Seed,
		Status:        result.Status.String(),
		Iterations:    result.Iterations,
		LogLikelihood: result.LogLikelihood,
		Model:         result.Model,
		Assignments:   gmm.Assign(result.W),
		Summary:       gmm.Summarize(result.W),
	}
	metrics.Observer.Fit(record.Mode, record.Status, record.Iterations, result.Final())

	k := storage.Key{
		Run:   r.id,
		Trial: t,
		Label: storage.ModelLabel,
	}
	if err := r.store.Store(k, record); err != nil {
		log.Error().
			Err(err).
			Str("key", fmt.Sprintf("%+v", k)).
			Msg("could not store trial")
		return Record{}, fmt.Errorf("could not store trial %d: %w", t, err)
	}
	return record, nil
}

// initialize draws a starting mixture, drawing again while a group ends up empty.
func (r *Runner) initialize(x *mat.Dense) (gmm.Model, error) {
	var err error
	for attempt := 0; attempt <= r.cfg.Restarts; attempt++ {
		var m gmm.Model
		m, _, err = gmm.Initialize(x, r.cfg.GMM, r.src)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, gmm.ErrEmptyComponent) {
			return gmm.Model{}, err
		}
		log.Warn().
			Err(err).
			Str("run", r.id).
			Int("attempt", attempt).
			Msg("drawing initialisation again")
	}
	return gmm.Model{}, fmt.Errorf("no initialisation after %d restarts: %w", r.cfg.Restarts, err)
}

// Load reads the record of the given trial.
func Load(store storage.Persistence, run string, trial int) (Record, error) {
	var record Record
	err := store.Load(storage.Key{
		Run:   run,
		Trial: trial,
		Label: storage.ModelLabel,
	}, &record)
	return record, err
}

// Best returns the record with the highest final log-likelihood.
func Best(records []Record) (Record, bool) {
	var (
		best  Record
		found bool
	)
	for _, r := range records {
		if len(r.LogLikelihood) == 0 {
			continue
		}
		if !found || r.Final() > best.Final() {
			best = r
			found = true
		}
	}
	return best, found
}

// Final returns the last tracked log-likelihood of the trial.
func (r Record) Final() float64 {
	if len(r.LogLikelihood) == 0 {
		return math.Inf(-1)
	}
	return r.LogLikelihood[len(r.LogLikelihood)-1]
}

func reason(err error) string {
	switch {
	case errors.Is(err, gmm.ErrSingularCovariance):
		return "singular-covariance"
	case errors.Is(err, gmm.ErrEmptyComponent):
		return "empty-component"
	case errors.Is(err, gmm.ErrDegenerateResponsibility):
		return "degenerate-responsibility"
	case errors.Is(err, storage.NotFoundErr), errors.Is(err, storage.CouldNotLoadErr):
		return "storage"
	}
	return "other"
}
