package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tempograph/session"
)

func newPartitionedCmd(a *app) *cobra.Command {
	var partitions int
	cmd := &cobra.Command{
		Use:   "partitioned",
		Short: "Run the configured metrics on partitions and collate the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if partitions > 0 {
				cfg.Parallel.Partitions = partitions
			}
			g, err := cfg.BuildGraph()
			if err != nil {
				return err
			}
			gen, err := cfg.BatchGenerator()
			if err != nil {
				return err
			}
			kind, err := cfg.PartitionKind()
			if err != nil {
				return err
			}
			workload, err := cfg.Workload()
			if err != nil {
				return err
			}

			pcfg := session.PartitionedConfig{
				Name:       cfg.Name,
				Dir:        cfg.Output.Dir,
				Run:        cfg.Output.Run,
				Kind:       kind,
				Partitions: cfg.Parallel.Partitions,
				Batches:    cfg.Batches.Count,
				Metrics:    cfg.Metrics,
				Zip:        cfg.Output.Zip,
				Interval:   cfg.Parallel.Interval,
				Timeout:    cfg.Parallel.Timeout,
				Workload:   workload,
				Logger:     a.log,
			}
			res, err := session.RunPartitioned(cmd.Context(), g, gen, pcfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d %s partitions under %s\n", pcfg.Partitions, kind, pcfg.WorkerDirTemplate())
			for p, info := range res.Workers {
				fmt.Fprintf(out, "  partition %d: %d snapshots, recommended %s\n", p, len(info.Timestamps), info.Recommended)
			}
			if res.Collation != nil {
				fmt.Fprintf(out, "collation: %s, metrics %v\n", pcfg.CollationDir(), res.Collation.Metrics)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&partitions, "partitions", 0, "number of partitions (default: from config)")
	return cmd
}
