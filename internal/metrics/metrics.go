// Package metrics exposes MPSC channel activity as Prometheus metrics.
//
// A Collector implements mpsc.Observer and is attached to a channel with
// mpsc.WithObserver. Several channels may share one Collector; every
// metric carries a constant "variant" label.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/go-mpsc/internal/mpsc"
)

const namespace = "mpsc"

// Collector records channel activity.
type Collector struct {
	producers    prometheus.Gauge
	sent         prometheus.Counter
	received     prometheus.Counter
	refills      prometheus.Counter
	batchSize    prometheus.Histogram
	drained      prometheus.Counter
	disconnected prometheus.Counter
}

var _ mpsc.Observer = (*Collector)(nil)

// New creates a Collector for the given variant and registers it with reg.
func New(reg prometheus.Registerer, variant mpsc.Variant) (*Collector, error) {
	labels := prometheus.Labels{"variant": string(variant)}

	c := &Collector{
		producers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "live_producers",
			Help:        "Number of open sender handles.",
			ConstLabels: labels,
		}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "sent_total",
			Help:        "Values queued by senders.",
			ConstLabels: labels,
		}),
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "received_total",
			Help:        "Values returned by Recv.",
			ConstLabels: labels,
		}),
		refills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "refills_total",
			Help:        "Times the receiver swapped the shared queue into its local buffer.",
			ConstLabels: labels,
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "refill_batch_size",
			Help:        "Values moved per refill.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
		}),
		drained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "end_of_stream_total",
			Help:        "Recv calls that reported end of stream.",
			ConstLabels: labels,
		}),
		disconnected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "disconnected_sends_total",
			Help:        "Sends rejected because the receiver was closed.",
			ConstLabels: labels,
		}),
	}

	for _, m := range []prometheus.Collector{
		c.producers, c.sent, c.received, c.refills, c.batchSize, c.drained, c.disconnected,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) ProducerOpened() { c.producers.Inc() }
func (c *Collector) ProducerClosed() { c.producers.Dec() }
func (c *Collector) Sent()           { c.sent.Inc() }
func (c *Collector) Received()       { c.received.Inc() }
func (c *Collector) Drained()        { c.drained.Inc() }
func (c *Collector) Disconnected()   { c.disconnected.Inc() }

func (c *Collector) Refilled(n int) {
	c.refills.Inc()
	c.batchSize.Observe(float64(n))
}
