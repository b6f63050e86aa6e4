package lenticular

import "math"

// MMPerInch is the fixed conversion constant between millimeters and inches.
const MMPerInch = 25.4

// PitchForLPI returns the lenticule pitch in millimeters for a lens with
// the given lines-per-inch density.
func PitchForLPI(lpi float64) float64 {
	return MMPerInch / lpi
}

// LPIForPitch returns the lines-per-inch density for a lenticule pitch in
// millimeters.
func LPIForPitch(pitch float64) float64 {
	return MMPerInch / pitch
}

// LensParameters describes the physical lenticular lens sheet.
//
// LPI and Pitch are two views of the same quantity, linked by
// pitch = 25.4 / lpi. Either may be the user-edited source of truth; the
// Set methods keep both consistent after any edit. Radius and ViewingAngle
// default to values derived from pitch and height but may be overridden
// independently; once overridden they are no longer recomputed.
//
// Typical sheets run from 10 to 100 LPI.
type LensParameters struct {
	LPI          float64 // lenticules per inch
	Pitch        float64 // mm, center-to-center lenticule spacing
	Radius       float64 // mm, lenticule arc radius
	Height       float64 // mm, lens slab thickness
	ViewingAngle float64 // degrees, informational

	radiusOverridden bool
	angleOverridden  bool
}

// DefaultLensHeightMM is the slab thickness used when none is specified.
const DefaultLensHeightMM = 3.0

// NewLensParameters creates lens parameters for the given LPI with derived
// defaults for pitch, radius and viewing angle.
func NewLensParameters(lpi float64) LensParameters {
	lens := LensParameters{
		LPI:    lpi,
		Height: DefaultLensHeightMM,
	}
	lens.Pitch = PitchForLPI(lpi)
	lens.recomputeDerived()
	return lens
}

// SetLPI updates the LPI and keeps the pitch consistent.
func (l *LensParameters) SetLPI(lpi float64) {
	l.LPI = lpi
	l.Pitch = PitchForLPI(lpi)
	l.recomputeDerived()
}

// SetPitch updates the pitch in millimeters and keeps the LPI consistent.
func (l *LensParameters) SetPitch(pitch float64) {
	l.Pitch = pitch
	l.LPI = LPIForPitch(pitch)
	l.recomputeDerived()
}

// SetHeight updates the slab thickness in millimeters.
func (l *LensParameters) SetHeight(height float64) {
	l.Height = height
	l.recomputeDerived()
}

// SetRadius overrides the lenticule radius. The radius is no longer derived
// from pitch after this call.
func (l *LensParameters) SetRadius(radius float64) {
	l.Radius = radius
	l.radiusOverridden = true
}

// SetViewingAngle overrides the viewing angle. The angle is no longer
// derived from pitch and height after this call.
func (l *LensParameters) SetViewingAngle(degrees float64) {
	l.ViewingAngle = degrees
	l.angleOverridden = true
}

// recomputeDerived refreshes radius and viewing angle unless the user has
// taken them over.
func (l *LensParameters) recomputeDerived() {
	if !l.radiusOverridden {
		l.Radius = l.Pitch / 2
	}
	if !l.angleOverridden && l.Height > 0 {
		l.ViewingAngle = 2 * math.Atan(l.Pitch/(2*l.Height)) * 180 / math.Pi
	}
}

// OutputSpec describes the interlaced raster to produce.
type OutputSpec struct {
	Width  int // pixels
	Height int // pixels
	DPI    int // dots per inch, > 0
}

// PhysicalWidth returns the print width in inches.
func (o OutputSpec) PhysicalWidth() float64 {
	return float64(o.Width) / float64(o.DPI)
}

// PhysicalHeight returns the print height in inches.
func (o OutputSpec) PhysicalHeight() float64 {
	return float64(o.Height) / float64(o.DPI)
}

// WithDPI returns a spec at a new DPI holding the physical size fixed.
// Width and height are recomputed together, never independently.
func (o OutputSpec) WithDPI(dpi int) OutputSpec {
	return OutputSpec{
		Width:  int(math.Round(o.PhysicalWidth() * float64(dpi))),
		Height: int(math.Round(o.PhysicalHeight() * float64(dpi))),
		DPI:    dpi,
	}
}

// validate reports a typed error when the spec cannot describe a raster.
func (o OutputSpec) validate() error {
	if o.Width <= 0 || o.Height <= 0 || o.DPI <= 0 {
		return &InvalidOutputSizeError{Width: o.Width, Height: o.Height, DPI: o.DPI}
	}
	return nil
}

// TileMode selects how extracted tiles are finished.
type TileMode uint8

const (
	// TileEdgeToEdge crops tiles exactly at the planned boundaries.
	TileEdgeToEdge TileMode = iota

	// TileWithBleed extends each tile's margins with duplicated edge
	// pixels so trimming tolerance doesn't expose unprinted paper.
	TileWithBleed

	// TileWithRegistration embeds each tile in a margin canvas with corner
	// crosshairs and a row/column label for manual assembly.
	TileWithRegistration
)

// String returns a string representation of the tile mode.
func (m TileMode) String() string {
	switch m {
	case TileEdgeToEdge:
		return "EdgeToEdge"
	case TileWithBleed:
		return "WithBleed"
	case TileWithRegistration:
		return "WithRegistration"
	default:
		return "Unknown"
	}
}

// TileConfiguration describes the paper each tile is printed on and how
// tiles are finished for assembly.
type TileConfiguration struct {
	TileWidth             float64 // inches
	TileHeight            float64 // inches
	Mode                  TileMode
	BleedAmount           float64 // inches, used by TileWithBleed
	ShowRegistrationMarks bool
}

// SourceImage is an immutable source raster with its ordinal position in
// the interlacing sequence. The pixel buffer is never mutated after
// creation.
type SourceImage struct {
	ordinal int
	pix     *Pixmap
}

// NewSourceImage wraps a pixmap as a source at the given ordinal position.
// The pixmap must not be modified afterwards.
func NewSourceImage(ordinal int, pm *Pixmap) SourceImage {
	return SourceImage{ordinal: ordinal, pix: pm}
}

// Ordinal returns the source's position in the interlacing sequence.
func (s SourceImage) Ordinal() int {
	return s.ordinal
}

// Pixmap returns the source's pixel buffer. Callers must treat it as
// read-only.
func (s SourceImage) Pixmap() *Pixmap {
	return s.pix
}
