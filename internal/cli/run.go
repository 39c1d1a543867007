package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-mpsc/internal/metrics"
	"github.com/randomizedcoder/go-mpsc/internal/mpsc"
	"github.com/randomizedcoder/go-mpsc/internal/workload"
)

func newRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one producer/consumer workload and verify delivery",
		Example: `  mpsc run --variant counted --producers 1000000 --messages 1
  MPSC_VARIANT=weak mpsc run --progress 500ms`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.workloadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return a.run(ctx, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("variant", workload.DefaultConfig().Variant, "channel variant: weak, counted or chan")
	_ = a.v.BindPFlag("variant", cmd.Flags().Lookup("variant"))

	return cmd
}

func (a *app) run(ctx context.Context, cfg workload.Config, out io.Writer) error {
	reg := prometheus.NewRegistry()

	var opts []mpsc.Option
	if cfg.Variant != workload.VariantChan {
		c, err := metrics.New(reg, mpsc.Variant(cfg.Variant))
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		opts = append(opts,
			mpsc.WithObserver(c),
			mpsc.WithLogger(a.log),
			mpsc.WithName("run"),
		)
	}

	report, err := workload.Run(ctx, cfg, a.log, opts...)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		a.log.WithFields(report.Fields()).Warn("run interrupted")
	}

	fmt.Fprintf(out, "Variant:     %s\n", report.Variant)
	fmt.Fprintf(out, "Producers:   %d\n", report.Producers)
	fmt.Fprintf(out, "Sent:        %d\n", report.Sent)
	fmt.Fprintf(out, "Received:    %d\n", report.Received)
	fmt.Fprintf(out, "Elapsed:     %v (%.2f ns/op, %.2f M msgs/sec)\n",
		report.Elapsed, float64(report.PerOp().Nanoseconds()), report.Throughput())

	snap, err := metrics.Snapshot(reg)
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	if len(snap) == 0 {
		return nil
	}

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "\nMetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-36s %.0f\n", name, snap[name])
	}
	return nil
}
