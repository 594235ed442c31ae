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

var errBadDelivery = errors.New("bad delivery")

type bufferOptions struct {
	producers int
	consumers int
	capacity  int
	items     int
}

// boundedBuffer is a fixed-capacity FIFO. Producers wait while it is full,
// consumers while it is empty. Every state change is announced with
// NotifyAll because producers and consumers share one wait-set.
type boundedBuffer struct {
	mon   *monitor.Monitor
	items []int
	size  int
	done  bool
}

func (b *boundedBuffer) put(ctx context.Context, v int) error {
	return b.mon.DoContext(ctx, func(ctx context.Context) error {
		for len(b.items) == b.size {
			if err := b.mon.WaitContext(ctx, 0); err != nil {
				return err
			}
		}
		b.items = append(b.items, v)
		return b.mon.NotifyAll()
	})
}

// take returns false once the buffer is closed and drained.
func (b *boundedBuffer) take(ctx context.Context) (v int, ok bool, err error) {
	err = b.mon.DoContext(ctx, func(ctx context.Context) error {
		for len(b.items) == 0 {
			if b.done {
				return nil
			}
			if err := b.mon.WaitContext(ctx, 0); err != nil {
				return err
			}
		}
		v, ok = b.items[0], true
		b.items = b.items[1:]
		return b.mon.NotifyAll()
	})
	return v, ok, err
}

func (b *boundedBuffer) close() error {
	return b.mon.Do(func() error {
		b.done = true
		return b.mon.NotifyAll()
	})
}

func newBufferCommand(g *globals) *cobra.Command {
	opts := bufferOptions{}

	cmd := &cobra.Command{
		Use:   "buffer",
		Short: "Pass items through a bounded buffer built on Wait/NotifyAll",
		Long: `buffer runs producers and consumers against a bounded buffer guarded by
one monitor. Every produced item must be consumed exactly once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mon := monitor.New(
				monitor.WithName("buffer"),
				monitor.WithLogger(g.logger),
			)
			if err := g.collector.Register("buffer", mon); err != nil {
				return err
			}

			start := time.Now()
			if err := runBuffer(cmd.Context(), mon, opts); err != nil {
				return err
			}
			elapsed := time.Since(start)
			st := mon.Stats()

			g.logger.Info("buffer finished",
				zap.Int("items", opts.items),
				zap.Uint64("waits", st.Waits),
				zap.Uint64("notified", st.Notified),
				zap.Duration("elapsed", elapsed))

			fmt.Fprintf(cmd.OutOrStdout(), "buffer: %d items through capacity %d, %d waits (%v)\n",
				opts.items, opts.capacity, st.Waits, elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.producers, "producers", "p", 2, "Number of producer goroutines")
	cmd.Flags().IntVarP(&opts.consumers, "consumers", "c", 2, "Number of consumer goroutines")
	cmd.Flags().IntVar(&opts.capacity, "capacity", 4, "Buffer capacity")
	cmd.Flags().IntVar(&opts.items, "items", 10000, "Total items to produce")

	return cmd
}

// runBuffer moves opts.items distinct values from producers to consumers
// and checks that each arrived exactly once.
func runBuffer(ctx context.Context, mon *monitor.Monitor, opts bufferOptions) error {
	if opts.producers < 1 || opts.consumers < 1 || opts.capacity < 1 || opts.items < 0 {
		return errors.New("buffer: producers, consumers and capacity must be >= 1")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := &boundedBuffer{mon: mon, size: opts.capacity}
	seen := make([]int, opts.items)
	counts := make([][]int, opts.consumers)

	consumers, cctx := errgroup.WithContext(ctx)
	for c := range opts.consumers {
		consumers.Go(func() error {
			for {
				v, ok, err := buf.take(cctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				counts[c] = append(counts[c], v)
			}
		})
	}

	// Producers stop when a consumer fails.
	producers, pctx := errgroup.WithContext(cctx)
	for p := range opts.producers {
		producers.Go(func() error {
			for v := p; v < opts.items; v += opts.producers {
				if err := buf.put(pctx, v); err != nil {
					return err
				}
			}
			return nil
		})
	}

	perr := producers.Wait()
	if err := buf.close(); err != nil {
		return err
	}
	cerr := consumers.Wait()
	if err := errors.Join(perr, cerr); err != nil {
		return err
	}

	for _, got := range counts {
		for _, v := range got {
			seen[v]++
		}
	}
	for v, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: item %d consumed %d times", errBadDelivery, v, n)
		}
	}
	return nil
}
