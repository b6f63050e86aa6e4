package lenticular

import (
	"image"
	"log/slog"
	"math"
	"slices"

	"github.com/gogpu/lenticular/mesh"
)

// MinTileInches is the smallest tile dimension the planner will leave on
// either side of a cut. Boundaries that would produce a smaller tile are
// discarded and the remainder folds into the neighboring tile.
const MinTileInches = 0.5

// maxLayoutIterations bounds the boundary walk. The walk's progress
// variable strictly advances every iteration, so hitting the budget means
// the configuration cannot produce aligned cuts at all.
const maxLayoutIterations = 4096

// sizeEpsilonInches absorbs float error when comparing physical sizes.
const sizeEpsilonInches = 1e-6

// Strategy selects the cut direction and which edge absorbs the remainder
// tile.
type Strategy uint8

const (
	// StrategyAuto scores portrait and landscape for fewest required cuts;
	// ties favor portrait.
	StrategyAuto Strategy = iota

	// StrategyPortraitRemainderLeft cuts with portrait paper, remainder
	// column on the left edge.
	StrategyPortraitRemainderLeft

	// StrategyPortraitRemainderRight cuts with portrait paper, remainder
	// column on the right edge.
	StrategyPortraitRemainderRight

	// StrategyLandscapeRemainderTop cuts with landscape paper, remainder
	// row on the top edge.
	StrategyLandscapeRemainderTop

	// StrategyLandscapeRemainderBottom cuts with landscape paper,
	// remainder row on the bottom edge.
	StrategyLandscapeRemainderBottom
)

// String returns a string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyPortraitRemainderLeft:
		return "portrait-remainder-left"
	case StrategyPortraitRemainderRight:
		return "portrait-remainder-right"
	case StrategyLandscapeRemainderTop:
		return "landscape-remainder-top"
	case StrategyLandscapeRemainderBottom:
		return "landscape-remainder-bottom"
	default:
		return "unknown"
	}
}

func (s Strategy) landscape() bool {
	return s == StrategyLandscapeRemainderTop || s == StrategyLandscapeRemainderBottom
}

// PrinterBedRegion is a contiguous block of the tile grid whose combined
// physical size fits one printer bed. Index ranges are half-open into the
// layout's tile grid.
type PrinterBedRegion struct {
	ColStart, ColEnd int
	RowStart, RowEnd int
}

// TileLayout is the planner's result: interior cut positions plus the
// grouping of the resulting tile grid into printer-bed regions.
//
// Boundary positions are interior cuts only, strictly increasing; 0 and the
// raster dimension are implicit endpoints. Every vertical boundary is an
// integer multiple of the pixels-per-lenticule value, so no cut bisects a
// lenticule. The region list is irregular in general: column groups may
// differ in row composition, so iterate Regions rather than assuming a
// uniform grid.
type TileLayout struct {
	WidthPx  int
	HeightPx int
	DPI      int

	VerticalBoundaries   []int // interior x cuts, strictly increasing
	HorizontalBoundaries []int // interior y cuts, strictly increasing
	Strategy             Strategy
	Regions              []PrinterBedRegion
}

// Columns returns the number of tile columns.
func (l *TileLayout) Columns() int {
	return len(l.VerticalBoundaries) + 1
}

// Rows returns the number of tile rows.
func (l *TileLayout) Rows() int {
	return len(l.HorizontalBoundaries) + 1
}

// ColumnEdges returns the vertical boundaries padded with the implicit
// endpoints 0 and WidthPx.
func (l *TileLayout) ColumnEdges() []int {
	return padEdges(l.VerticalBoundaries, l.WidthPx)
}

// RowEdges returns the horizontal boundaries padded with the implicit
// endpoints 0 and HeightPx.
func (l *TileLayout) RowEdges() []int {
	return padEdges(l.HorizontalBoundaries, l.HeightPx)
}

func padEdges(interior []int, limit int) []int {
	edges := make([]int, 0, len(interior)+2)
	edges = append(edges, 0)
	edges = append(edges, interior...)
	edges = append(edges, limit)
	return edges
}

// CellRect returns the pixel rectangle of the tile at (row, col).
func (l *TileLayout) CellRect(row, col int) image.Rectangle {
	cols := l.ColumnEdges()
	rows := l.RowEdges()
	return image.Rect(cols[col], rows[row], cols[col+1], rows[row+1])
}

// RegionRect returns the pixel rectangle covered by a printer-bed region.
func (l *TileLayout) RegionRect(r PrinterBedRegion) image.Rectangle {
	cols := l.ColumnEdges()
	rows := l.RowEdges()
	return image.Rect(cols[r.ColStart], rows[r.RowStart], cols[r.ColEnd], rows[r.RowEnd])
}

// PlanRequest carries the inputs of PlanTileLayout.
type PlanRequest struct {
	WidthPx   int
	HeightPx  int
	DPI       int
	LPI       float64
	Tile      TileConfiguration
	BedWidth  float64 // inches, printer build plate
	BedHeight float64 // inches
	Strategy  Strategy
}

// PlanTileLayout computes lenticule-aligned cut boundaries for the
// interlaced raster and groups the resulting tiles into printer-bed
// regions.
//
// Column boundaries are snapped to the nearest multiple of
// pixelsPerLenticule = dpi/lpi so that no tile boundary bisects a
// lenticule. Row boundaries follow the same walk without snapping, since
// lenticules run vertically along columns.
func PlanTileLayout(req PlanRequest) (*TileLayout, error) {
	if req.WidthPx <= 0 || req.HeightPx <= 0 || req.DPI <= 0 {
		return nil, &InvalidOutputSizeError{Width: req.WidthPx, Height: req.HeightPx, DPI: req.DPI}
	}
	if req.LPI <= 0 {
		pitch := 0.0
		if req.LPI != 0 {
			pitch = PitchForLPI(req.LPI)
		}
		return nil, &mesh.DegenerateGeometryError{Pitch: pitch}
	}
	if req.Tile.TileWidth <= 0 || req.Tile.TileHeight <= 0 || req.BedWidth <= 0 || req.BedHeight <= 0 {
		return nil, &DegenerateLayoutError{
			Reason:      "non-positive paper or bed size",
			PaperWidth:  req.Tile.TileWidth,
			PaperHeight: req.Tile.TileHeight,
			BedWidth:    req.BedWidth,
			BedHeight:   req.BedHeight,
		}
	}

	dpi := float64(req.DPI)
	widthIn := float64(req.WidthPx) / dpi
	heightIn := float64(req.HeightPx) / dpi
	if widthIn < MinTileInches || heightIn < MinTileInches {
		return nil, &DegenerateLayoutError{
			Reason:      "image smaller than minimum tile",
			PaperWidth:  req.Tile.TileWidth,
			PaperHeight: req.Tile.TileHeight,
			BedWidth:    req.BedWidth,
			BedHeight:   req.BedHeight,
		}
	}

	strategy := req.Strategy
	if strategy == StrategyAuto {
		strategy = selectStrategy(widthIn, heightIn, req.Tile)
	}

	paperW, paperH := req.Tile.TileWidth, req.Tile.TileHeight
	if strategy.landscape() {
		paperW, paperH = paperH, paperW
	}

	ppl := dpi / req.LPI
	minPx := MinTileInches * dpi

	vertical, err := walkBoundaries(walkParams{
		axis:    "columns",
		totalPx: float64(req.WidthPx),
		stepPx:  paperW * dpi,
		snapPx:  ppl,
		minPx:   minPx,
		fromFar: strategy == StrategyPortraitRemainderLeft,
	})
	if err != nil {
		return nil, err
	}

	horizontal, err := walkBoundaries(walkParams{
		axis:    "rows",
		totalPx: float64(req.HeightPx),
		stepPx:  paperH * dpi,
		snapPx:  0, // rows need not align to lenticules
		minPx:   minPx,
		fromFar: strategy == StrategyLandscapeRemainderTop,
	})
	if err != nil {
		return nil, err
	}

	layout := &TileLayout{
		WidthPx:              req.WidthPx,
		HeightPx:             req.HeightPx,
		DPI:                  req.DPI,
		VerticalBoundaries:   vertical,
		HorizontalBoundaries: horizontal,
		Strategy:             strategy,
	}

	regions, err := groupBedRegions(layout, req.BedWidth, req.BedHeight, req.Tile)
	if err != nil {
		return nil, err
	}
	layout.Regions = regions

	Logger().Debug("tile layout planned",
		slog.String("strategy", strategy.String()),
		slog.Int("columns", layout.Columns()),
		slog.Int("rows", layout.Rows()),
		slog.Int("regions", len(regions)))
	return layout, nil
}

// selectStrategy scores both orientations for fewest required cuts.
// Ties favor portrait.
func selectStrategy(widthIn, heightIn float64, tile TileConfiguration) Strategy {
	portrait := cutScore(widthIn, heightIn, tile.TileWidth, tile.TileHeight)
	landscape := cutScore(widthIn, heightIn, tile.TileHeight, tile.TileWidth)
	if landscape < portrait {
		return StrategyLandscapeRemainderBottom
	}
	return StrategyPortraitRemainderRight
}

// cutScore counts the physical cuts a paper orientation requires: one cut
// per row for every column boundary, plus one cut per column for every row
// boundary.
func cutScore(widthIn, heightIn, paperW, paperH float64) int {
	cols := int(math.Ceil(widthIn/paperW - sizeEpsilonInches))
	rows := int(math.Ceil(heightIn/paperH - sizeEpsilonInches))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return (cols-1)*rows + (rows-1)*cols
}

// walkParams describes one boundary walk along a single axis.
type walkParams struct {
	axis    string
	totalPx float64
	stepPx  float64
	snapPx  float64 // 0 disables lenticule snapping
	minPx   float64
	fromFar bool // walk from the far edge so the remainder lands near the origin
}

// walkBoundaries walks the axis in paper-size increments, snapping each
// candidate to the lenticule grid, and returns the interior cut positions
// in ascending order. A fromFar walk starts at the far edge and moves toward
// the origin so the remainder tile lands near the origin; candidates are
// snapped after positioning, so cuts land on the lenticule grid in both
// directions.
//
// Termination: candidate strictly advances every iteration and the loop is
// bounded by maxLayoutIterations; exceeding the budget returns a
// LayoutIterationLimitError instead of silently breaking.
func walkBoundaries(p walkParams) ([]int, error) {
	var cuts []int
	iters := 0
	overBudget := func() error {
		if iters >= maxLayoutIterations {
			return &LayoutIterationLimitError{
				Axis: p.axis, Iterations: iters, StepPx: p.stepPx, SnapPx: p.snapPx,
			}
		}
		iters++
		return nil
	}

	if p.fromFar {
		last := p.totalPx
		candidate := p.totalPx - p.stepPx
		for {
			if err := overBudget(); err != nil {
				return nil, err
			}
			snapped := snapToLenticule(candidate, p.snapPx)
			if snapped >= last {
				// Snapping collapsed the step back onto the previous cut;
				// advance the candidate and retry.
				candidate -= p.stepPx
				continue
			}
			if snapped < p.minPx || last-snapped < p.minPx {
				// Remainder below minimum tile size folds into the
				// neighboring tile.
				break
			}
			cuts = append(cuts, int(math.Round(snapped)))
			last = snapped
			candidate = snapped - p.stepPx
		}
		slices.Reverse(cuts)
	} else {
		last := 0.0
		candidate := p.stepPx
		for {
			if err := overBudget(); err != nil {
				return nil, err
			}
			snapped := snapToLenticule(candidate, p.snapPx)
			if snapped <= last {
				candidate += p.stepPx
				continue
			}
			if snapped > p.totalPx-p.minPx || snapped-last < p.minPx {
				break
			}
			cuts = append(cuts, int(math.Round(snapped)))
			last = snapped
			candidate = snapped + p.stepPx
		}
	}

	// Snapping must not have skipped cuts the paper size requires. If it
	// did (lens pitch wider than the paper), no aligned boundary exists.
	required := int(math.Ceil((p.totalPx - p.minPx) / p.stepPx))
	if required < 1 {
		required = 1
	}
	if len(cuts)+1 < required {
		return nil, &LayoutIterationLimitError{
			Axis: p.axis, Iterations: iters, StepPx: p.stepPx, SnapPx: p.snapPx,
		}
	}
	return cuts, nil
}

// snapToLenticule rounds px to the nearest multiple of the lenticule
// interval. A zero interval disables snapping.
func snapToLenticule(px, snapPx float64) float64 {
	if snapPx <= 0 {
		return math.Round(px)
	}
	return math.Round(px/snapPx) * snapPx
}

// groupBedRegions greedily merges adjacent tile columns while the merged
// physical width fits the bed, then merges adjacent rows within each column
// group. A column group whose full height fits the bed becomes a single
// region spanning all rows.
func groupBedRegions(layout *TileLayout, bedW, bedH float64, tile TileConfiguration) ([]PrinterBedRegion, error) {
	dpi := float64(layout.DPI)
	colEdges := layout.ColumnEdges()
	rowEdges := layout.RowEdges()

	degenerate := func(reason string) error {
		return &DegenerateLayoutError{
			Reason:      reason,
			PaperWidth:  tile.TileWidth,
			PaperHeight: tile.TileHeight,
			BedWidth:    bedW,
			BedHeight:   bedH,
		}
	}

	spanIn := func(edges []int, from, to int) float64 {
		return float64(edges[to]-edges[from]) / dpi
	}

	var regions []PrinterBedRegion
	for colStart := 0; colStart < layout.Columns(); {
		colEnd := colStart + 1
		if spanIn(colEdges, colStart, colEnd) > bedW+sizeEpsilonInches {
			return nil, degenerate("tile wider than printer bed")
		}
		for colEnd < layout.Columns() && spanIn(colEdges, colStart, colEnd+1) <= bedW+sizeEpsilonInches {
			colEnd++
		}

		if spanIn(rowEdges, 0, layout.Rows()) <= bedH+sizeEpsilonInches {
			regions = append(regions, PrinterBedRegion{
				ColStart: colStart, ColEnd: colEnd,
				RowStart: 0, RowEnd: layout.Rows(),
			})
		} else {
			for rowStart := 0; rowStart < layout.Rows(); {
				rowEnd := rowStart + 1
				if spanIn(rowEdges, rowStart, rowEnd) > bedH+sizeEpsilonInches {
					return nil, degenerate("tile taller than printer bed")
				}
				for rowEnd < layout.Rows() && spanIn(rowEdges, rowStart, rowEnd+1) <= bedH+sizeEpsilonInches {
					rowEnd++
				}
				regions = append(regions, PrinterBedRegion{
					ColStart: colStart, ColEnd: colEnd,
					RowStart: rowStart, RowEnd: rowEnd,
				})
				rowStart = rowEnd
			}
		}
		colStart = colEnd
	}
	return regions, nil
}
