// Command sccbench is the test/benchmark driver: it accepts module
// selectors as positional arguments, exits 0 iff every selected assertion
// group passes, and exits non-zero otherwise.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/scc/cmd/sccbench/internal/runner"
	"github.com/wyfcoding/scc/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// validSelectors enumerates the full CLI surface exactly.
var validSelectors = []string{
	"graph", "scc", "tarjan", "kosaraju", "memory", "utils", "io", "integration", "performance", "all",
}

func newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "sccbench [selectors...]",
		Short: "Run SCC library assertion groups and benchmarks",
		Long: "sccbench drives the graph/scc test and benchmark surface. Positional " +
			"arguments name one or more module selectors (graph, scc, tarjan, kosaraju, " +
			"memory, utils, io, integration, performance, all); with none given, it runs " +
			"\"all\". Exit status is 0 iff every selected assertion passes.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logging.SetLevel("debug")
			}
			selectors := args
			if len(selectors) == 0 {
				selectors = []string{"all"}
			}
			for _, s := range selectors {
				if !contains(validSelectors, s) {
					return fmt.Errorf("sccbench: unknown selector %q (valid: %v)", s, validSelectors)
				}
			}

			report, err := runner.Run(cmd.Context(), selectors)
			if err != nil {
				return err
			}
			report.Print(cmd.OutOrStdout())
			if !report.Passed() {
				return fmt.Errorf("sccbench: %d assertion group(s) failed", report.FailedCount())
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return root
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
