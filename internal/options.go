package internal

import "go.uber.org/zap"

// Option configures codecs, resolvers and services built by this package.
type Option func(*options)

type options struct {
	log *zap.SugaredLogger
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
