package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/session"
)

func newRunCmd(a *app) *cobra.Command {
	var batches int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured metrics over a generated graph and its batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if batches >= 0 {
				cfg.Batches.Count = batches
			}
			g, err := cfg.BuildGraph()
			if err != nil {
				return err
			}
			gen, err := cfg.BatchGenerator()
			if err != nil {
				return err
			}
			metrics, err := metric.NewAll(cfg.Metrics)
			if err != nil {
				return err
			}
			workload, err := cfg.Workload()
			if err != nil {
				return err
			}

			s, err := session.New(g, metrics, session.Config{
				Name:     cfg.Name,
				Dir:      cfg.Output.Dir,
				Run:      cfg.Output.Run,
				Zip:      cfg.Output.Zip,
				Workload: workload,
				Logger:   a.log,
			})
			if err != nil {
				return err
			}
			runErr := s.Run(cmd.Context(), gen, cfg.Batches.Count)
			info, err := s.Close()
			if runErr != nil {
				return runErr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d snapshots in %s, %s nodes, %s edges\n",
				s.RunDir(), len(info.Timestamps), info.Finished.Sub(info.Started).Round(time.Millisecond),
				humanize.Comma(int64(g.NodeCount())), humanize.Comma(int64(g.EdgeCount())))
			fmt.Fprintf(cmd.OutOrStdout(), "recommended strategy: %s\n", info.Recommended)
			return nil
		},
	}
	cmd.Flags().IntVar(&batches, "batches", -1, "number of batches (default: from config)")
	return cmd
}
