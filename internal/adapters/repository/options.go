package repository

import "github.com/okian/handicap/pkg/logger"

// Option configures a store.
type Option func(*storeOptions)

type storeOptions struct {
	log logger.Logger
}

func applyOptions(opts []Option) storeOptions {
	o := storeOptions{log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for recoverable store problems.
func WithLogger(l logger.Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.log = l
		}
	}
}
