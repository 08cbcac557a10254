package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/series"
)

func newSummaryCmd() *cobra.Command {
	var values []string
	cmd := &cobra.Command{
		Use:         "summary <run-dir>",
		Short:       "Summarize a run written by run, partitioned or collate",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"config": "skip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			runDir := args[0]
			info, err := series.ReadRunInfo(runDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (session %s)\n", info.Name, info.Session)
			fmt.Fprintf(out, "directed: %t  strategy: %s  recommended: %s\n", info.Directed, info.Strategy, info.Recommended)
			fmt.Fprintf(out, "metrics: %v\n", info.Metrics)
			fmt.Fprintf(out, "started %s, took %s\n",
				humanize.Time(info.Started), info.Finished.Sub(info.Started).Round(time.Millisecond))

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprint(tw, "TIMESTAMP\tNODES\tEDGES\tUPDATES\tTOTAL\t")
			for _, v := range values {
				fmt.Fprintf(tw, "%s\t", v)
			}
			fmt.Fprintln(tw)
			for _, ts := range info.Timestamps {
				b, err := series.ReadBatchAuto(runDir, ts, series.ReadValuesOnly)
				if err != nil {
					return err
				}
				nodes, _ := b.Stat("Nodes")
				edges, _ := b.Stat("Edges")
				updates, _ := b.Stat("Updates")
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t", ts,
					humanize.Comma(int64(nodes)), humanize.Comma(int64(edges)), humanize.Comma(int64(updates)),
					totalRuntime(b).Round(time.Microsecond))
				for _, v := range values {
					fmt.Fprintf(tw, "%s\t", lookup(b, v))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&values, "value", nil, "metric values to show as Metric.Value, e.g. Aggregate.Nodes")
	return cmd
}

func totalRuntime(b *series.BatchData) time.Duration {
	for _, r := range b.GeneralRuntimes {
		if r.Name == metric.RuntimeTotal {
			return r.Duration
		}
	}
	return 0
}

// lookup renders the value named "Metric.Value" in b, or "-" if absent.
func lookup(b *series.BatchData, name string) string {
	metricName, valueName, ok := strings.Cut(name, ".")
	if !ok {
		return "-"
	}
	if m := b.Metric(metricName); m != nil {
		if v, ok := m.Value(valueName); ok {
			return humanize.Ftoa(v)
		}
	}
	return "-"
}
