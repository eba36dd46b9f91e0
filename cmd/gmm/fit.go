package main

import (
	"fmt"

	"github.com/drakos74/gmm/internal/dataset"
	"github.com/drakos74/gmm/internal/math"
	"github.com/drakos74/gmm/internal/math/gmm"
	"github.com/drakos74/gmm/internal/storage/file/json"
	"github.com/drakos74/gmm/internal/trial"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func fitCmd() *cobra.Command {
	var (
		data     string
		file     string
		semi     bool
		trials   int
		seed     uint64
		k        int
		alpha    float64
		initMode string
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Run em trials on a dataset and store the fitted mixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(file)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("semi") {
				cfg.SemiSupervised = semi
			}
			if flags.Changed("trials") {
				cfg.Trials = trials
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("k") {
				cfg.GMM = cfg.GMM.WithK(k)
			}
			if flags.Changed("alpha") {
				cfg.GMM = cfg.GMM.WithAlpha(alpha)
			}
			if flags.Changed("init") {
				cfg.GMM = cfg.GMM.WithInit(initMode)
			}

			ds, err := dataset.Load(data)
			if err != nil {
				return err
			}
			x, labeled, err := ds.Split()
			if err != nil {
				return err
			}

			runner, err := trial.NewRunner(cfg, json.BlobShard(table))
			if err != nil {
				return err
			}
			log.Info().
				Str("run", runner.ID()).
				Str("mode", cfg.Mode()).
				Int("rows", ds.Len()).
				Int("unlabeled", x.RawMatrix().Rows).
				Int("labeled", labeled.Len()).
				Int("k", cfg.GMM.K).
				Msg("fitting")

			records, err := runner.Run(x, labeled)
			if err != nil {
				return err
			}
			for _, r := range records {
				printRecord(r)
			}
			if best, ok := trial.Best(records); ok {
				fmt.Printf("run %s best trial %d\n", runner.ID(), best.Trial)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "csv file with x* feature columns and an optional z label column")
	cmd.Flags().StringVar(&file, "config", "", "json or yaml trial config")
	cmd.Flags().BoolVar(&semi, "semi", false, "use the labeled observations")
	cmd.Flags().IntVar(&trials, "trials", trial.DefaultTrials, "number of trials")
	cmd.Flags().Uint64Var(&seed, "seed", trial.DefaultSeed, "seed of the random initialisations")
	cmd.Flags().IntVar(&k, "k", 0, "number of components")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "weight of the labeled observations")
	cmd.Flags().StringVar(&initMode, "init", gmm.InitRandom, "grouping of the initial mixture, random or kmeans")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// loadConfig reads the given config, falling back to the default one.
func loadConfig(file string) (trial.Config, error) {
	if file != "" {
		return trial.LoadConfig(file)
	}
	return trial.LoadDefaultConfig()
}

func printRecord(r trial.Record) {
	fmt.Printf("trial %d %s after %d iterations ll=%s\n", r.Trial, r.Status, r.Iterations, math.Format(r.Final()))
	for c := 0; c < r.Model.K(); c++ {
		cluster := r.Summary.Clusters[c]
		fmt.Printf("  component %d phi=%s size=%d confidence=%s mu=%s sigma=%s\n",
			c,
			math.Format(r.Model.Phi[c]),
			cluster.Size,
			math.Format(cluster.Confidence),
			math.FormatVec(r.Model.Mu[c]),
			math.FormatMatrix(r.Model.Sigma[c]))
	}
}
