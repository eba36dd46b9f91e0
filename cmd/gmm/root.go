package main

import (
	"github.com/drakos74/gmm/internal/metrics"
	"github.com/drakos74/gmm/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const table = "gmm"

func rootCmd() *cobra.Command {
	var (
		debug bool
		addr  string
		dir   string
	)
	root := &cobra.Command{
		Use:   "gmm",
		Short: "Fit gaussian mixtures with expectation maximisation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			storage.DefaultDir = dir
			if addr != "" {
				go metrics.Serve(addr)
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log the em progress")
	root.PersistentFlags().StringVar(&addr, "metrics", "", "address to expose the prometheus metrics on")
	root.PersistentFlags().StringVar(&dir, "storage", storage.DefaultDir, "root directory of the stored trials")

	root.AddCommand(fitCmd())
	root.AddCommand(predictCmd())
	log.Debug().Msg("gmm starting")
	return root
}
