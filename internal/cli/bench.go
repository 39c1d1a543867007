package cli

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-mpsc/internal/mpsc"
	"github.com/randomizedcoder/go-mpsc/internal/workload"
)

// benchVariants are compared in this order; the first is the baseline.
var benchVariants = []string{workload.VariantChan, string(mpsc.VariantWeak), string(mpsc.VariantCounted)}

func newBenchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Compare every channel variant on the same workload",
		Example: `  mpsc bench --producers 8 --messages 1000000
  mpsc bench --producers 1000000 --messages 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.workloadConfig()
			if err != nil {
				return err
			}
			return a.bench(cmd, cfg, cmd.OutOrStdout())
		},
	}
}

func (a *app) bench(cmd *cobra.Command, cfg workload.Config, out io.Writer) error {
	fmt.Fprintf(out, "Benchmarking MPSC channels (%d producers x %d messages)\n", cfg.Producers, cfg.Messages)
	fmt.Fprintf(out, "Architecture: %s/%s, GOMAXPROCS=%d\n", runtime.GOOS, runtime.GOARCH, runtime.GOMAXPROCS(0))
	fmt.Fprintln(out, "─────────────────────────────────────────────────")

	results := make([]workload.Report, 0, len(benchVariants))
	for _, v := range benchVariants {
		cfg.Variant = v
		report, err := workload.Run(cmd.Context(), cfg, a.log)
		if err != nil {
			return fmt.Errorf("%s: %w", v, err)
		}
		results = append(results, report)
	}

	fmt.Fprintf(out, "\nResults:\n")
	baseline := perOp(results[0])

	for _, r := range results {
		speedup := 0.0
		if p := perOp(r); p > 0 {
			speedup = baseline / p
		}
		fmt.Fprintf(out, "  %-10s %12v  %8.2f ns/op  %6.2fx  %8.2f M/s\n",
			r.Variant, r.Elapsed.Round(time.Microsecond), perOp(r), speedup, r.Throughput())
	}

	fmt.Fprintf(out, "\nNote: speedup is relative to the buffered Go channel (chan-size=%d).\n", cfg.ChanSize)
	return nil
}

func perOp(r workload.Report) float64 {
	if r.Received == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Received)
}
