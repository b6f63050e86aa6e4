package mesh

import "context"

// Option configures a mesh build.
type Option func(*config)

type config struct {
	ctx      context.Context
	progress func(float64)
}

func applyOptions(opts []Option) config {
	cfg := config{ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithContext attaches a context for cooperative cancellation. The build
// checks the context between lenticules; on cancellation the partial mesh
// is discarded and the context's error returned.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithProgress registers a coarse progress callback, invoked once per
// lenticule with a monotonically non-decreasing fraction in [0, 1].
func WithProgress(fn func(fraction float64)) Option {
	return func(c *config) {
		c.progress = fn
	}
}
