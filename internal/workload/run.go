// Package workload drives an MPSC channel with many producers and one
// consumer, and checks that every value sent is received exactly once.
//
// Producers are sender clones scheduled on a bounded goroutine pool. The
// consumer runs on its own goroutine until end of stream. Cancelling the
// context stops producers between sends; the run still ends cleanly
// because every clone is closed.
package workload

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/go-mpsc/internal/mpsc"
)

// ErrMismatch is returned when the consumer did not see exactly the
// values the producers sent.
var ErrMismatch = errors.New("workload: received values do not match sent values")

// Report summarises a run.
type Report struct {
	Variant   string
	Producers int
	Sent      int64
	Received  int64
	Sum       int64
	Elapsed   time.Duration
}

// PerOp returns the mean wall time per received value.
func (r Report) PerOp() time.Duration {
	if r.Received == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Received)
}

// Throughput returns received values per second, in millions.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Received) / r.Elapsed.Seconds() / 1e6
}

// Fields returns the report as structured log fields.
func (r Report) Fields() logrus.Fields {
	return logrus.Fields{
		"variant":   r.Variant,
		"producers": r.Producers,
		"sent":      r.Sent,
		"received":  r.Received,
		"elapsed":   r.Elapsed.String(),
		"ns_per_op": r.PerOp().Nanoseconds(),
		"m_per_sec": fmt.Sprintf("%.2f", r.Throughput()),
	}
}

// tally accumulates what producers sent.
type tally struct {
	count atomic.Int64
	sum   atomic.Int64
}

// Run executes one workload. Values sent by producer p are
// p*cfg.Messages+1 through (p+1)*cfg.Messages, so the received sum
// detects substituted values as well as lost or duplicated ones.
func Run(ctx context.Context, cfg Config, log logrus.FieldLogger, opts ...mpsc.Option) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	log = log.WithField("variant", cfg.Variant)

	if cfg.Variant == VariantChan {
		return runChan(ctx, cfg, log)
	}

	v, err := mpsc.ParseVariant(cfg.Variant)
	if err != nil {
		return Report{}, err
	}
	tx, rx, err := mpsc.New[int64](v, opts...)
	if err != nil {
		return Report{}, fmt.Errorf("create channel: %w", err)
	}

	var (
		sent     tally
		received Report
		stop     = NewStopper()
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer rx.Close()
		received = consume(rx.Recv, NewProgress(cfg.Progress), log)
		return nil
	})

	g.Go(func() error {
		defer tx.Close()
		return produce(cfg, stop, &sent, func() (func(int64) error, func()) {
			clone := tx.Clone()
			return clone.Send, clone.Close
		})
	})

	go func() {
		<-gctx.Done()
		stop.Stop()
	}()

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return finish(cfg, start, &sent, received, log)
}

// runChan runs the same workload over a buffered Go channel.
func runChan(ctx context.Context, cfg Config, log logrus.FieldLogger) (Report, error) {
	ch := make(chan int64, cfg.ChanSize)

	var (
		sent     tally
		received Report
		stop     = NewStopper()
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		received = consume(func() (int64, bool) {
			v, ok := <-ch
			return v, ok
		}, NewProgress(cfg.Progress), log)
		return nil
	})

	g.Go(func() error {
		defer close(ch)
		return produce(cfg, stop, &sent, func() (func(int64) error, func()) {
			return func(v int64) error {
				ch <- v
				return nil
			}, func() {}
		})
	})

	go func() {
		<-gctx.Done()
		stop.Stop()
	}()

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return finish(cfg, start, &sent, received, log)
}

// produce runs cfg.Producers producers on a bounded pool. open returns
// the send and close functions of a fresh producer handle.
func produce(cfg Config, stop *Stopper, sent *tally, open func() (func(int64) error, func())) error {
	p := pool.New().WithErrors().WithMaxGoroutines(cfg.workers())

	for i := 0; i < cfg.Producers; i++ {
		if stop.Done() {
			break
		}
		send, closeFn := open()
		base := int64(i) * int64(cfg.Messages)

		p.Go(func() error {
			defer closeFn()
			for j := int64(1); j <= int64(cfg.Messages); j++ {
				if stop.Done() {
					return nil
				}
				if err := send(base + j); err != nil {
					return fmt.Errorf("producer %d: %w", base/int64(cfg.Messages), err)
				}
				sent.count.Add(1)
				sent.sum.Add(base + j)
			}
			return nil
		})
	}

	return p.Wait()
}

// consume drains recv until end of stream.
func consume(recv func() (int64, bool), progress *Progress, log logrus.FieldLogger) Report {
	var r Report
	for {
		v, ok := recv()
		if !ok {
			return r
		}
		r.Received++
		r.Sum += v

		if progress.Tick() {
			log.WithField("received", r.Received).Info("progress")
		}
	}
}

func finish(cfg Config, start time.Time, sent *tally, received Report, log logrus.FieldLogger) (Report, error) {
	report := Report{
		Variant:   cfg.Variant,
		Producers: cfg.Producers,
		Sent:      sent.count.Load(),
		Received:  received.Received,
		Sum:       received.Sum,
		Elapsed:   time.Since(start),
	}

	if report.Sent != report.Received || sent.sum.Load() != report.Sum {
		log.WithFields(report.Fields()).Error("values lost or duplicated")
		return report, fmt.Errorf("%w: sent %d (sum %d), received %d (sum %d)",
			ErrMismatch, report.Sent, sent.sum.Load(), report.Received, report.Sum)
	}

	log.WithFields(report.Fields()).Debug("run complete")
	return report, nil
}
