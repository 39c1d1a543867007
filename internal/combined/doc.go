// Package combined provides cross-implementation benchmarks that run the
// MPSC channel variants side by side with other multi-producer queues.
//
// These benchmarks put the lock-and-condition design in context: a
// buffered Go channel is the standard library baseline, and the sharded
// lock-free ring from go-lock-free-ring is a non-blocking MPSC reference.
package combined
