package mpsc

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option is a functional option for configuring a channel.
type Option func(*options)

type options struct {
	logger   logrus.FieldLogger
	observer Observer
	name     string
}

// discardLogger is used when no logger is configured.
var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}()

func newOptions(variant Variant, opts []Option) options {
	o := options{
		logger:   discardLogger,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	fields := logrus.Fields{"variant": string(variant)}
	if o.name != "" {
		fields["channel"] = o.name
	}
	o.logger = o.logger.WithFields(fields)
	return o
}

// WithLogger configures logging of channel lifecycle transitions.
// Transitions are logged at Debug; sends after consumer loss at Warn.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver configures an Observer notified of channel activity.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithName labels log entries with a channel name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
