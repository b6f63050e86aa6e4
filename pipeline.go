package lenticular

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/lenticular/internal/parallel"
	"github.com/gogpu/lenticular/mesh"
)

// PipelineRequest carries everything needed to produce a complete set of
// print artifacts.
type PipelineRequest struct {
	Sources []SourceImage
	Lens    LensParameters
	Output  OutputSpec
	Tile    TileConfiguration

	BedWidth  float64 // inches, printer build plate
	BedHeight float64 // inches
	Strategy  Strategy

	// SegmentsAround is the lenticule cross-section resolution.
	// Zero selects mesh.DefaultSegmentsAround.
	SegmentsAround int

	// FrameWidthMM and FrameHeightMM size the alignment frame.
	// Zero selects the mesh package defaults.
	FrameWidthMM  float64
	FrameHeightMM float64
}

// RegionArtifacts holds the meshes for one printer-bed region.
type RegionArtifacts struct {
	Region  PrinterBedRegion
	WidthMM float64 // physical footprint of the region
	DepthMM float64
	Lens    *mesh.Mesh
	Frame   *mesh.Mesh
}

// Artifacts is the result of a full pipeline run. A stage's output is
// present if and only if Run returned nil; there are no partially
// populated results.
type Artifacts struct {
	Interlaced *Pixmap
	Layout     *TileLayout
	Tiles      []Tile
	Regions    []RegionArtifacts
}

// Run executes the full pipeline: interlace the sources, plan the tile
// layout, extract the tiles, then build the lens and alignment-frame
// meshes for every printer-bed region. Region meshes build in parallel;
// each region is independent.
//
// Progress spans the whole run: interlacing maps to [0, 0.6], mesh
// generation to [0.6, 1].
func Run(req PipelineRequest, opts ...Option) (*Artifacts, error) {
	cfg := applyOptions(opts)
	reporter := newProgressReporter(cfg.progress)

	stageOpts := []Option{
		WithContext(cfg.ctx),
		WithWorkers(cfg.workers),
		WithResampleQuality(cfg.quality),
		WithFillColor(cfg.fill),
		WithProgress(func(f float64) { reporter.report(f * 0.6) }),
	}

	interlaced, err := Interlace(req.Sources, req.Lens, req.Output, stageOpts...)
	if err != nil {
		return nil, err
	}

	layout, err := PlanTileLayout(PlanRequest{
		WidthPx:   req.Output.Width,
		HeightPx:  req.Output.Height,
		DPI:       req.Output.DPI,
		LPI:       req.Lens.LPI,
		Tile:      req.Tile,
		BedWidth:  req.BedWidth,
		BedHeight: req.BedHeight,
		Strategy:  req.Strategy,
	})
	if err != nil {
		return nil, err
	}

	tiles, err := ExtractTiles(interlaced, layout, req.Tile)
	if err != nil {
		return nil, err
	}

	regions, err := buildRegionMeshes(req, layout, cfg, reporter)
	if err != nil {
		return nil, err
	}

	Logger().Info("pipeline complete",
		slog.Int("tiles", len(tiles)),
		slog.Int("regions", len(regions)))
	return &Artifacts{
		Interlaced: interlaced,
		Layout:     layout,
		Tiles:      tiles,
		Regions:    regions,
	}, nil
}

// buildRegionMeshes fans the per-region lens and frame builds out across
// the worker pool. Every region writes a disjoint slot; the first error
// wins and discards the rest.
func buildRegionMeshes(req PipelineRequest, layout *TileLayout, cfg config, reporter *progressReporter) ([]RegionArtifacts, error) {
	frameW := req.FrameWidthMM
	if frameW <= 0 {
		frameW = mesh.DefaultFrameWidthMM
	}
	frameH := req.FrameHeightMM
	if frameH <= 0 {
		frameH = mesh.DefaultFrameHeightMM
	}

	spec := mesh.LensSpec{
		PitchMM:        req.Lens.Pitch,
		RadiusMM:       req.Lens.Radius,
		HeightMM:       req.Lens.Height,
		SegmentsAround: req.SegmentsAround,
	}
	dpi := float64(layout.DPI)

	pool := parallel.NewWorkerPool(cfg.workers)
	defer pool.Close()

	results := make([]RegionArtifacts, len(layout.Regions))
	var done atomic.Int64
	var mu sync.Mutex
	var firstErr error

	tasks := make([]func(), len(layout.Regions))
	for i, region := range layout.Regions {
		i, region := i, region
		tasks[i] = func() {
			if cfg.ctx.Err() != nil {
				return
			}
			rect := layout.RegionRect(region)
			widthMM := float64(rect.Dx()) / dpi * MMPerInch
			depthMM := float64(rect.Dy()) / dpi * MMPerInch

			lensMesh, err := mesh.BuildLensMesh(widthMM, depthMM, spec, mesh.WithContext(cfg.ctx))
			if err == nil {
				var frame *mesh.Mesh
				frame, err = mesh.BuildAlignmentFrame(widthMM, depthMM, frameW, frameH)
				if err == nil {
					results[i] = RegionArtifacts{
						Region:  region,
						WidthMM: widthMM,
						DepthMM: depthMM,
						Lens:    lensMesh,
						Frame:   frame,
					}
				}
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			completed := done.Add(1)
			reporter.report(0.6 + 0.4*float64(completed)/float64(len(layout.Regions)))
		}
	}
	pool.ExecuteAll(tasks)

	if err := cfg.ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
