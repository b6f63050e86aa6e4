package lenticular

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RegistrationMarginInches is the margin added around a tile in
// TileWithRegistration mode. The crosshairs and label live in this margin.
const RegistrationMarginInches = 0.25

// Tile is one cropped (and possibly annotated) cell of the tile grid.
type Tile struct {
	Row    int
	Col    int
	Pixmap *Pixmap
}

// ExtractTiles crops one raster per tile-grid cell of the layout, in
// row-major order.
//
// TileEdgeToEdge performs the bare crop. TileWithBleed extends the margins
// by BleedAmount inches of duplicated edge pixels. TileWithRegistration
// embeds the crop in a white margin canvas; when ShowRegistrationMarks is
// set, four corner crosshairs and a row/column label are burned into the
// margin.
//
// The raster must be the one the layout was planned for; a crop rectangle
// exceeding its dimensions reports CropOutOfBoundsError, which indicates a
// planner bug rather than bad user input.
func ExtractTiles(src *Pixmap, layout *TileLayout, cfg TileConfiguration) ([]Tile, error) {
	if src.Width() != layout.WidthPx || src.Height() != layout.HeightPx {
		return nil, &CropOutOfBoundsError{
			Rect:  image.Rect(0, 0, layout.WidthPx, layout.HeightPx),
			Width: src.Width(), Height: src.Height(),
		}
	}

	tiles := make([]Tile, 0, layout.Rows()*layout.Columns())
	for row := 0; row < layout.Rows(); row++ {
		for col := 0; col < layout.Columns(); col++ {
			rect := layout.CellRect(row, col)
			crop, ok := src.Crop(rect)
			if !ok || rect.Empty() {
				return nil, &CropOutOfBoundsError{Rect: rect, Width: src.Width(), Height: src.Height()}
			}

			var pm *Pixmap
			switch cfg.Mode {
			case TileWithBleed:
				bleedPx := int(math.Round(cfg.BleedAmount * float64(layout.DPI)))
				pm = extendEdges(crop, bleedPx)
			case TileWithRegistration:
				marginPx := int(math.Round(RegistrationMarginInches * float64(layout.DPI)))
				pm = embedWithMargin(crop, marginPx)
				if cfg.ShowRegistrationMarks {
					drawRegistrationMarks(pm, marginPx)
					drawLabel(pm, fmt.Sprintf("R%d C%d", row+1, col+1), marginPx)
				}
			default:
				pm = crop
			}

			tiles = append(tiles, Tile{Row: row, Col: col, Pixmap: pm})
		}
	}
	return tiles, nil
}

// extendEdges returns the tile surrounded by b pixels of replicated edge
// content on every side, so trimming tolerance doesn't expose bare paper.
func extendEdges(tile *Pixmap, b int) *Pixmap {
	if b <= 0 {
		return tile
	}
	w, h := tile.Width(), tile.Height()
	out := NewPixmap(w+2*b, h+2*b)
	src := tile.Data()
	dst := out.Data()

	for y := 0; y < out.Height(); y++ {
		sy := clampInt(y-b, 0, h-1)
		for x := 0; x < out.Width(); x++ {
			sx := clampInt(x-b, 0, w-1)
			si := (sy*w + sx) * 4
			di := (y*out.Width() + x) * 4
			copy(dst[di:di+4], src[si:si+4])
		}
	}
	return out
}

// embedWithMargin centers the tile on a white canvas with a symmetric
// margin of m pixels.
func embedWithMargin(tile *Pixmap, m int) *Pixmap {
	if m <= 0 {
		return tile
	}
	w, h := tile.Width(), tile.Height()
	out := NewPixmap(w+2*m, h+2*m)
	out.Clear(White)

	src := tile.Data()
	dst := out.Data()
	for y := 0; y < h; y++ {
		si := y * w * 4
		di := ((y+m)*out.Width() + m) * 4
		copy(dst[di:di+w*4], src[si:si+w*4])
	}
	return out
}

// drawRegistrationMarks draws a crosshair in each corner margin.
func drawRegistrationMarks(pm *Pixmap, m int) {
	arm := m / 4
	if arm < 2 {
		arm = 2
	}
	w, h := pm.Width(), pm.Height()
	corners := [4][2]int{
		{m / 2, m / 2},
		{w - m/2, m / 2},
		{m / 2, h - m/2},
		{w - m/2, h - m/2},
	}
	for _, c := range corners {
		drawCrosshair(pm, c[0], c[1], arm)
	}
}

// drawCrosshair draws a one-pixel-wide cross centered at (cx, cy).
func drawCrosshair(pm *Pixmap, cx, cy, arm int) {
	for x := cx - arm; x <= cx+arm; x++ {
		pm.SetPixel(x, cy, Black)
	}
	for y := cy - arm; y <= cy+arm; y++ {
		pm.SetPixel(cx, y, Black)
	}
}

// drawLabel burns the tile's row/column label into the top margin, to the
// right of the top-left crosshair.
func drawLabel(pm *Pixmap, text string, m int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  pm,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(m+face.Advance, m/2+face.Height/2),
	}
	d.DrawString(text)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
