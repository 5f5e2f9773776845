// Command stratawm is the CLI entry point for exercising the tiling core
// against a fixture-backed window service. Grounded on cmd/texel-server/
// main.go's role as the thin process entry point (flag parsing, signal
// handling, component wiring), adapted from flag to cobra per the rest
// of the example pack's CLI idiom.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.uber.org/zap"

	"github.com/stratawm/strata/internal/corelog"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "stratawm",
		Short: "Multi-monitor tiling window manager core",
		Long: `stratawm drives the scroll and binary-partition layout engines over a
fixture-backed window service, for local exercising and development
without a real accessibility bridge.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newDumpCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (corelog.Logger, *zap.Logger, error) {
	base, err := corelog.NewDevelopment()
	if err != nil {
		return nil, nil, err
	}
	if !verbose {
		base = base.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
	}
	return corelog.New(base, "stratawm"), base, nil
}
