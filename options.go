package lenticular

import "context"

// ResampleQuality selects the scaler used for the once-per-source
// aspect-fit resample before interlacing.
type ResampleQuality uint8

const (
	// ResampleCatmullRom uses Catmull-Rom interpolation. Highest quality;
	// the default for print output.
	ResampleCatmullRom ResampleQuality = iota

	// ResampleBilinear uses approximate bilinear interpolation. Faster,
	// suitable for drafts.
	ResampleBilinear

	// ResampleNearest selects the closest pixel. Fastest; blocky when
	// scaling.
	ResampleNearest
)

// String returns a string representation of the resample quality.
func (q ResampleQuality) String() string {
	switch q {
	case ResampleCatmullRom:
		return "CatmullRom"
	case ResampleBilinear:
		return "Bilinear"
	case ResampleNearest:
		return "Nearest"
	default:
		return "Unknown"
	}
}

// Option configures a pipeline computation.
// Use functional options to customize long-running calls.
//
// Example:
//
//	raster, err := lenticular.Interlace(sources, lens, out,
//	    lenticular.WithProgress(func(f float64) { bar.Set(f) }),
//	    lenticular.WithContext(ctx))
type Option func(*config)

// config holds optional settings shared by the pipeline stages.
type config struct {
	ctx      context.Context
	progress func(float64)
	workers  int
	quality  ResampleQuality
	fill     RGBA
}

// defaultConfig returns the default computation settings.
func defaultConfig() config {
	return config{
		ctx:     context.Background(),
		workers: 0, // worker pool picks GOMAXPROCS
		quality: ResampleCatmullRom,
		fill:    Black,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithContext attaches a context for cooperative cancellation. The
// computation checks the context between logical units of work (column
// batches, lenticules, regions); on cancellation partial results are
// discarded and the context's error is returned.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithProgress registers a progress callback. The callback is invoked with
// a monotonically non-decreasing fraction in [0, 1]. It may be called from
// worker goroutines, but never concurrently with itself.
func WithProgress(fn func(fraction float64)) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithWorkers sets the number of worker goroutines for parallel stages.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithResampleQuality selects the source resampling scaler.
func WithResampleQuality(q ResampleQuality) Option {
	return func(c *config) {
		c.quality = q
	}
}

// WithFillColor sets the letterbox fill color used when a source's aspect
// ratio doesn't match the output canvas. Defaults to opaque black.
func WithFillColor(c RGBA) Option {
	return func(cfg *config) {
		cfg.fill = c
	}
}
