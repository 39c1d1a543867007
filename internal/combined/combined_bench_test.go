package combined_test

import (
	"testing"
	"time"

	"github.com/randomizedcoder/go-mpsc/internal/mpsc"
	"github.com/randomizedcoder/go-mpsc/internal/workload"
)

// Sink variables
var sinkInt int
var sinkBool bool

const benchInterval = time.Hour

// ============================================================================
// Full loop benchmarks (stop check + progress check + send/recv)
// ============================================================================

// benchmarkFullLoop simulates the workload consumer's hot loop on a
// single goroutine: check the stop flag, check progress, move one value.
func benchmarkFullLoop(b *testing.B, v mpsc.Variant) {
	stop := workload.NewStopper()
	progress := workload.NewProgress(benchInterval)
	tx, rx, err := mpsc.New[int](v)
	if err != nil {
		b.Fatal(err)
	}
	defer rx.Close()
	defer tx.Close()

	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok, stopped, ticked bool
	for i := 0; i < b.N; i++ {
		stopped = stop.Done()
		ticked = progress.Tick()
		_ = tx.Send(i)
		val, ok = rx.Recv()
	}
	sinkInt = val
	sinkBool = ok || stopped || ticked
}

func BenchmarkCombined_FullLoop_Weak(b *testing.B) {
	benchmarkFullLoop(b, mpsc.VariantWeak)
}

func BenchmarkCombined_FullLoop_Counted(b *testing.B) {
	benchmarkFullLoop(b, mpsc.VariantCounted)
}

// BenchmarkCombined_FullLoop_Channel is the same loop over a buffered
// Go channel.
func BenchmarkCombined_FullLoop_Channel(b *testing.B) {
	stop := workload.NewStopper()
	progress := workload.NewProgress(benchInterval)
	ch := make(chan int, 1024)

	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var stopped, ticked bool
	for i := 0; i < b.N; i++ {
		stopped = stop.Done()
		ticked = progress.Tick()
		ch <- i
		val = <-ch
	}
	sinkInt = val
	sinkBool = stopped || ticked
}

// ============================================================================
// Pipeline benchmarks (producer/consumer on separate goroutines)
// ============================================================================

// benchmarkPipeline benchmarks a 2-goroutine pipeline where the consumer
// blocks in Recv instead of spinning.
func benchmarkPipeline(b *testing.B, v mpsc.Variant) {
	tx, rx, err := mpsc.New[int](v)
	if err != nil {
		b.Fatal(err)
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer rx.Close()
		for {
			if _, ok := rx.Recv(); !ok {
				return
			}
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = tx.Send(i)
	}
	tx.Close()
	<-done

	b.StopTimer()
}

func BenchmarkPipeline_Weak(b *testing.B) {
	benchmarkPipeline(b, mpsc.VariantWeak)
}

func BenchmarkPipeline_Counted(b *testing.B) {
	benchmarkPipeline(b, mpsc.VariantCounted)
}

// BenchmarkPipeline_Channel benchmarks a 2-goroutine pipeline using a
// buffered channel.
func BenchmarkPipeline_Channel(b *testing.B) {
	ch := make(chan int, 1024)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for range ch {
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		ch <- i
	}
	close(ch)
	<-done

	b.StopTimer()
}
