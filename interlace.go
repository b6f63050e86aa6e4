package lenticular

import (
	"log/slog"
	"math"
	"sort"
	"sync/atomic"

	"github.com/gogpu/lenticular/internal/parallel"
	"github.com/gogpu/lenticular/mesh"
)

// columnBatch is the number of output columns each worker task handles.
// Batches write disjoint column ranges, so no locking is needed on the
// shared output buffer.
const columnBatch = 256

// Interlace combines the source rasters into one out.Width×out.Height
// raster, assigning each output column to a source by its position within
// the lenticule it falls under.
//
// Each source is first aspect-fit resampled into the output canvas, once,
// before interlacing. Then for every output column x:
//
//	pixelsPerLenticule = dpi / lpi
//	sourceIndex = floor((x mod pixelsPerLenticule) / pixelsPerLenticule × N)
//
// clamped to [0, N-1]. Column assignment is a pure function of x, dpi, lpi
// and the source count, so identical inputs yield byte-identical output.
//
// Sources are ordered by their Ordinal. Columns are processed in parallel
// over disjoint ranges; use WithContext for cancellation and WithProgress
// for completion fractions.
func Interlace(sources []SourceImage, lens LensParameters, out OutputSpec, opts ...Option) (*Pixmap, error) {
	cfg := applyOptions(opts)

	if len(sources) == 0 {
		return nil, ErrEmptySourceSet
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	if lens.LPI <= 0 {
		return nil, &mesh.DegenerateGeometryError{Pitch: lens.Pitch, Radius: lens.Radius, Height: lens.Height}
	}

	first := sources[0].Pixmap()
	for i, s := range sources {
		pm := s.Pixmap()
		if pm.Width() != first.Width() || pm.Height() != first.Height() {
			return nil, &DimensionMismatchError{
				Index: i,
				Width: pm.Width(), Height: pm.Height(),
				WantWidth: first.Width(), WantHeight: first.Height(),
			}
		}
	}

	ordered := make([]SourceImage, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Ordinal() < ordered[j].Ordinal()
	})

	pool := parallel.NewWorkerPool(cfg.workers)
	defer pool.Close()

	// Resample every source once, up front. Per-source tasks touch
	// disjoint slots of the fitted slice.
	fitted := make([]*Pixmap, len(ordered))
	resampleTasks := make([]func(), len(ordered))
	for i := range ordered {
		i := i
		resampleTasks[i] = func() {
			if cfg.ctx.Err() != nil {
				return
			}
			fitted[i] = resampleAspectFit(ordered[i].Pixmap(), out.Width, out.Height, cfg.quality, cfg.fill)
		}
	}
	pool.ExecuteAll(resampleTasks)
	if err := cfg.ctx.Err(); err != nil {
		return nil, err
	}

	result := NewPixmap(out.Width, out.Height)
	ppl := float64(out.DPI) / lens.LPI
	reporter := newProgressReporter(cfg.progress)

	var done atomic.Int64
	var tasks []func()
	for start := 0; start < out.Width; start += columnBatch {
		start := start
		end := start + columnBatch
		if end > out.Width {
			end = out.Width
		}
		tasks = append(tasks, func() {
			if cfg.ctx.Err() != nil {
				return
			}
			interlaceColumns(result, fitted, ppl, start, end)
			completed := done.Add(int64(end - start))
			reporter.report(float64(completed) / float64(out.Width))
		})
	}
	pool.ExecuteAll(tasks)

	if err := cfg.ctx.Err(); err != nil {
		// Cooperative cancellation: discard the partial raster.
		return nil, err
	}

	Logger().Debug("interlace complete",
		slog.Int("sources", len(ordered)),
		slog.Int("width", out.Width),
		slog.Int("height", out.Height),
		slog.Float64("pixelsPerLenticule", ppl))
	return result, nil
}

// interlaceColumns copies columns [start, end) from the fitted sources into
// dst. All pixmaps have identical dimensions.
func interlaceColumns(dst *Pixmap, fitted []*Pixmap, ppl float64, start, end int) {
	w := dst.Width()
	h := dst.Height()
	out := dst.Data()
	for x := start; x < end; x++ {
		src := fitted[sourceForColumn(x, ppl, len(fitted))].Data()
		for y := 0; y < h; y++ {
			i := (y*w + x) * 4
			copy(out[i:i+4], src[i:i+4])
		}
	}
}

// sourceForColumn maps an output column to a source index by its fractional
// position within the lenticule. The clamp absorbs floating-point rounding
// at the lenticule's last fractional pixel.
func sourceForColumn(x int, ppl float64, numSources int) int {
	pos := math.Mod(float64(x), ppl)
	idx := int(pos / ppl * float64(numSources))
	if idx < 0 {
		return 0
	}
	if idx >= numSources {
		return numSources - 1
	}
	return idx
}
