package main

import (
	"fmt"

	"github.com/drakos74/gmm/internal/dataset"
	"github.com/drakos74/gmm/internal/math"
	"github.com/drakos74/gmm/internal/math/gmm"
	"github.com/drakos74/gmm/internal/storage/file/json"
	"github.com/drakos74/gmm/internal/trial"
	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	var (
		data string
		run  string
		idx  int
		semi bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assign the observations of a dataset to the components of a stored mixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := gmm.Unsupervised
			if semi {
				mode = gmm.SemiSupervised
			}
			store, err := json.BlobShard(table)(mode)
			if err != nil {
				return err
			}
			record, err := trial.Load(store, run, idx)
			if err != nil {
				return fmt.Errorf("could not load trial %d of run '%s': %w", idx, run, err)
			}

			ds, err := dataset.Load(data)
			if err != nil {
				return err
			}
			w, err := record.Model.Predict(ds.Matrix())
			if err != nil {
				return err
			}
			for i, c := range gmm.Assign(w) {
				fmt.Printf("%d %d %s\n", i, c, math.Format(w.At(i, c)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "csv file with x* feature columns")
	cmd.Flags().StringVar(&run, "run", "", "run identifier printed by fit")
	cmd.Flags().IntVar(&idx, "trial", 0, "trial index within the run")
	cmd.Flags().BoolVar(&semi, "semi", false, "load from the semi-supervised trials")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
