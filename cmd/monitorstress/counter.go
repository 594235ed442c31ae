package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/objmonitor/monitor"
)

var errLostUpdate = errors.New("lost update")

type counterOptions struct {
	goroutines int
	increments int
	reentrant  bool
}

// sharedCounter is a counter guarded by its own monitor.
type sharedCounter struct {
	mon *monitor.Monitor
	n   int
}

func (c *sharedCounter) inc(reentrant bool) error {
	return c.mon.Do(func() error {
		if reentrant {
			return c.mon.Do(func() error {
				c.n++
				return nil
			})
		}
		c.n++
		return nil
	})
}

func newCounterCommand(g *globals) *cobra.Command {
	opts := counterOptions{}

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Increment a shared counter from many goroutines",
		Long: `counter starts the given number of goroutines, each incrementing one
shared counter under the same monitor. The final value must equal
goroutines × increments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mon := monitor.New(
				monitor.WithName("counter"),
				monitor.WithLogger(g.logger),
			)
			if err := g.collector.Register("counter", mon); err != nil {
				return err
			}

			start := time.Now()
			got, err := runCounter(cmd.Context(), mon, opts)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			g.logger.Info("counter finished",
				zap.Int("goroutines", opts.goroutines),
				zap.Int("increments", opts.increments),
				zap.Int("value", got),
				zap.Duration("elapsed", elapsed))

			fmt.Fprintf(cmd.OutOrStdout(), "counter: %d goroutines × %d increments = %d (%v)\n",
				opts.goroutines, opts.increments, got, elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.goroutines, "goroutines", "g", 8, "Number of goroutines")
	cmd.Flags().IntVarP(&opts.increments, "increments", "n", 10000, "Increments per goroutine")
	cmd.Flags().BoolVar(&opts.reentrant, "reentrant", false, "Acquire the monitor twice per increment")

	return cmd
}

// runCounter returns the final counter value, or an error if the workload
// was cancelled or lost updates.
func runCounter(ctx context.Context, mon *monitor.Monitor, opts counterOptions) (int, error) {
	if opts.goroutines < 1 || opts.increments < 0 {
		return 0, fmt.Errorf("counter: need goroutines >= 1 and increments >= 0, got %d and %d",
			opts.goroutines, opts.increments)
	}

	c := &sharedCounter{mon: mon}
	eg, ctx := errgroup.WithContext(ctx)

	for range opts.goroutines {
		eg.Go(func() error {
			for j := 0; j < opts.increments; j++ {
				if j%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := c.inc(opts.reentrant); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	mon.Acquire()
	got := c.n
	if err := mon.Release(); err != nil {
		return got, err
	}

	if want := opts.goroutines * opts.increments; got != want {
		return got, fmt.Errorf("%w: counter is %d, want %d", errLostUpdate, got, want)
	}
	return got, nil
}
