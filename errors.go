package lenticular

import (
	"errors"
	"fmt"
	"image"
)

// ErrEmptySourceSet is returned when interlacing is requested with zero
// source images.
var ErrEmptySourceSet = errors.New("lenticular: empty source set")

// DimensionMismatchError is returned when a source raster's pixel size
// differs from the first source in the set.
type DimensionMismatchError struct {
	Index      int // position of the offending source
	Width      int
	Height     int
	WantWidth  int
	WantHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("lenticular: source %d is %dx%d, want %dx%d to match the first source",
		e.Index, e.Width, e.Height, e.WantWidth, e.WantHeight)
}

// InvalidOutputSizeError is returned when the output raster dimensions or
// DPI are not positive.
type InvalidOutputSizeError struct {
	Width  int
	Height int
	DPI    int
}

func (e *InvalidOutputSizeError) Error() string {
	return fmt.Sprintf("lenticular: invalid output size %dx%d at %d dpi (all must be > 0)",
		e.Width, e.Height, e.DPI)
}

// DegenerateLayoutError is returned when the paper or bed size is not
// positive, or when the image cannot hold even a single minimum-size tile.
type DegenerateLayoutError struct {
	Reason      string
	PaperWidth  float64 // inches
	PaperHeight float64 // inches
	BedWidth    float64 // inches
	BedHeight   float64 // inches
}

func (e *DegenerateLayoutError) Error() string {
	return fmt.Sprintf("lenticular: degenerate layout (%s): paper %gx%g in, bed %gx%g in",
		e.Reason, e.PaperWidth, e.PaperHeight, e.BedWidth, e.BedHeight)
}

// LayoutIterationLimitError is returned when the boundary search cannot
// place lenticule-aligned cuts within its iteration budget. This signals a
// configuration bug, such as a lens pitch larger than the paper size.
type LayoutIterationLimitError struct {
	Axis       string  // "columns" or "rows"
	Iterations int     // iterations consumed before giving up
	StepPx     float64 // walk increment in pixels
	SnapPx     float64 // lenticule snap interval in pixels, 0 if unsnapped
}

func (e *LayoutIterationLimitError) Error() string {
	return fmt.Sprintf("lenticular: %s boundary search made no progress after %d iterations (step %.2f px, snap %.2f px); check that the lens pitch is smaller than the paper size",
		e.Axis, e.Iterations, e.StepPx, e.SnapPx)
}

// CropOutOfBoundsError is returned when a tile rectangle computed from a
// layout exceeds the raster dimensions. The planner guarantees its
// boundaries partition the raster, so this is an internal-consistency bug,
// never a user error.
type CropOutOfBoundsError struct {
	Rect   image.Rectangle
	Width  int
	Height int
}

func (e *CropOutOfBoundsError) Error() string {
	return fmt.Sprintf("lenticular: internal error: tile crop %v exceeds raster %dx%d",
		e.Rect, e.Width, e.Height)
}
