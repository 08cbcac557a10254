package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/parallel"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/session"
	"github.com/katalvlaran/tempograph/update"
)

// timestampSource yields empty batches that walk a graph through a fixed
// list of timestamps.
type timestampSource struct {
	ts   []int64
	next int
}

func (s *timestampSource) Next(g *core.Graph) (*update.Batch, error) {
	if s.next >= len(s.ts) {
		return nil, io.EOF
	}
	to := s.ts[s.next]
	s.next++
	return update.NewBatch(g.Timestamp(), to), nil
}

func newCollateCmd(a *app) *cobra.Command {
	var (
		input      string
		auxDir     string
		out        string
		kindName   string
		partitions int
		run        int
		directed   bool
		metrics    []string
		interval   time.Duration
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "collate",
		Short: "Collate the output of partition workers written elsewhere",
		Long: "Collate reads the series of every partition worker below --input, with " +
			parallel.PartitionKeyword + " in place of the partition index, and writes " +
			"the collated series to --out. Timestamps are taken from partition 0.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := parallel.ParsePartitionKind(kindName)
			if err != nil {
				return err
			}
			ccfg := parallel.CollationConfig{
				InputDir:   input,
				AuxDir:     auxDir,
				Run:        run,
				Kind:       kind,
				Partitions: partitions,
				Interval:   interval,
				Timeout:    timeout,
				Logger:     a.log,
			}
			cols, err := parallel.CollationsFor(metrics, ccfg)
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				return fmt.Errorf("no collation applies to metrics %v", metrics)
			}
			ts, err := series.Timestamps(ccfg.WorkerRunDir(0))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if len(ts) == 0 {
				return fmt.Errorf("%w: no batches in %s", series.ErrBatchNotFound, ccfg.WorkerRunDir(0))
			}

			g, err := core.NewGraph(core.WithDirected(directed), core.WithTimestamp(ts[0]))
			if err != nil {
				return err
			}
			ms := make([]metric.Metric, len(cols))
			for i, c := range cols {
				ms[i] = c
			}
			s, err := session.New(g, ms, session.Config{
				Name:   "collation",
				Dir:    out,
				Run:    run,
				Zip:    a.cfg.Output.Zip,
				Logger: a.log,
			})
			if err != nil {
				return err
			}
			runErr := s.Run(cmd.Context(), &timestampSource{ts: ts[1:]}, -1)
			info, err := s.Close()
			if err = errors.Join(runErr, err); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "collated %d timestamps from %d %s partitions into %s\n",
				len(info.Timestamps), partitions, kind, s.RunDir())
			for _, c := range cols {
				fmt.Fprintf(w, "  %s\n", c.Name())
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&input, "input", "", "worker series directory containing "+parallel.PartitionKeyword)
	f.StringVar(&auxDir, "aux", "", "aux data directory")
	f.StringVar(&out, "out", "collation", "collated series directory")
	f.StringVar(&kindName, "kind", parallel.Separated.String(), "partition kind: separated or overlapping")
	f.IntVar(&partitions, "partitions", 2, "number of partitions")
	f.IntVar(&run, "run", 0, "run index")
	f.BoolVar(&directed, "directed", false, "the partitioned graph is directed")
	f.StringSliceVar(&metrics, "metrics", []string{"DegreeDistributionR", "Aggregate"}, "metrics the workers ran")
	f.DurationVar(&interval, "interval", parallel.DefaultInterval, "polling interval")
	f.DurationVar(&timeout, "timeout", parallel.DefaultTimeout, "give up after waiting this long for one timestamp")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("aux")
	return cmd
}
