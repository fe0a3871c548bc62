package hmm

import (
	"go.uber.org/zap"

	"github.com/ieee0824/pitchtrack-go/metrics"
)

// Option configures a decoder.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Decoder
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used to report degenerate frames.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics attaches decoder counters.
func WithMetrics(m *metrics.Decoder) Option {
	return func(o *options) {
		o.metrics = m
	}
}
