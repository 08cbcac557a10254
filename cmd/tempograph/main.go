// Command tempograph runs metrics over generated evolving graphs and
// inspects the series they produce.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tempograph/config"
)

// Version information, set by build flags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg     *config.Config
	log     *logrus.Logger
	closeLg io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tempograph",
		Short:         "Incremental metrics on evolving graphs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["config"] == "skip" {
				return nil
			}
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLg != nil {
				return a.closeLg.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./tempograph.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.SetVersionTemplate("tempograph {{.Version}} (commit " + GitCommit + ")\n")

	root.AddCommand(
		newRunCmd(a),
		newPartitionedCmd(a),
		newCollateCmd(a),
		newSummaryCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	log, closer, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closeLg = cfg, log, closer
	return nil
}
