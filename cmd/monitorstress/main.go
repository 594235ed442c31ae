// Package main implements the monitorstress CLI tool.
//
// monitorstress drives the monitor package under load and checks the
// results:
//
//  1. counter: N goroutines increment a shared counter under one monitor and
//     the final value is compared with N × increments
//  2. buffer: producers and consumers exchange items through a bounded
//     buffer guarded by Wait/NotifyAll, and every item must arrive once
//
// Usage:
//
//	monitorstress counter -g 64 -n 10000
//	monitorstress buffer -p 4 -c 4 --capacity 8 --items 100000
//	monitorstress counter --metrics        # dump Prometheus metrics afterwards
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolkov/objmonitor/monitor/metrics"
)

const version = "0.1.0"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	logLevel string
	metrics  bool

	logger    *zap.Logger
	collector *metrics.Collector
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "monitorstress",
		Short: "Stress tests for reentrant object monitors",
		Long: `monitorstress runs concurrent workloads against object monitors and
verifies mutual exclusion and wait/notify delivery.

Exit status is non-zero when a workload produces a wrong result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := newLogger(g.logLevel)
			if err != nil {
				return err
			}
			g.logger = logger
			g.collector = metrics.NewCollector("monitorstress")
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			_ = g.logger.Sync()
			if !g.metrics {
				return nil
			}
			return writeMetrics(out, g.collector)
		},
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&g.metrics, "metrics", false,
		"Print monitor metrics in Prometheus text format after the run")

	cmd.AddCommand(newCounterCommand(g))
	cmd.AddCommand(newBufferCommand(g))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "monitorstress version %s\n", version)
		},
	})

	return cmd
}
