package lenticular

import (
	"errors"
	"testing"
)

// checkerRaster builds a raster whose pixel values encode their position,
// so reassembled tiles can be verified byte for byte.
func checkerRaster(w, h int) *Pixmap {
	pm := NewPixmap(w, h)
	d := pm.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			d[i+0] = uint8(x)
			d[i+1] = uint8(y)
			d[i+2] = uint8(x ^ y)
			d[i+3] = 255
		}
	}
	return pm
}

// planSmallLayout plans a 600×400 raster at 100 dpi into 3"-wide,
// 2"-tall tiles: a 2×2 grid with no remainder.
func planSmallLayout(t *testing.T, cfg TileConfiguration) (*Pixmap, *TileLayout) {
	t.Helper()
	raster := checkerRaster(600, 400)
	layout, err := PlanTileLayout(PlanRequest{
		WidthPx:  600,
		HeightPx: 400,
		DPI:      100,
		LPI:      20, // pixelsPerLenticule = 5
		Tile:     cfg,
		BedWidth: 4, BedHeight: 4,
		Strategy: StrategyPortraitRemainderRight,
	})
	if err != nil {
		t.Fatalf("PlanTileLayout() error = %v", err)
	}
	return raster, layout
}

func TestExtractTiles_EdgeToEdge(t *testing.T) {
	cfg := TileConfiguration{TileWidth: 3, TileHeight: 2, Mode: TileEdgeToEdge}
	raster, layout := planSmallLayout(t, cfg)

	tiles, err := ExtractTiles(raster, layout, cfg)
	if err != nil {
		t.Fatalf("ExtractTiles() error = %v", err)
	}
	if len(tiles) != layout.Rows()*layout.Columns() {
		t.Fatalf("got %d tiles, want %d", len(tiles), layout.Rows()*layout.Columns())
	}

	// Tiles must reassemble into the original raster exactly: zero
	// overlap, zero gap, identical bytes.
	reassembled := NewPixmap(raster.Width(), raster.Height())
	for _, tile := range tiles {
		rect := layout.CellRect(tile.Row, tile.Col)
		if tile.Pixmap.Width() != rect.Dx() || tile.Pixmap.Height() != rect.Dy() {
			t.Fatalf("tile (%d,%d) is %dx%d, want %dx%d", tile.Row, tile.Col,
				tile.Pixmap.Width(), tile.Pixmap.Height(), rect.Dx(), rect.Dy())
		}
		src := tile.Pixmap.Data()
		dst := reassembled.Data()
		for y := 0; y < rect.Dy(); y++ {
			si := y * rect.Dx() * 4
			di := ((rect.Min.Y+y)*raster.Width() + rect.Min.X) * 4
			copy(dst[di:di+rect.Dx()*4], src[si:si+rect.Dx()*4])
		}
	}
	for i, v := range reassembled.Data() {
		if v != raster.Data()[i] {
			t.Fatalf("reassembled raster differs at byte %d", i)
		}
	}
}

func TestExtractTiles_WithBleed(t *testing.T) {
	cfg := TileConfiguration{TileWidth: 3, TileHeight: 2, Mode: TileWithBleed, BleedAmount: 0.1}
	raster, layout := planSmallLayout(t, cfg)

	tiles, err := ExtractTiles(raster, layout, cfg)
	if err != nil {
		t.Fatalf("ExtractTiles() error = %v", err)
	}

	// 0.1" at 100 dpi = 10 px of bleed on every side.
	const b = 10
	tile := tiles[0]
	rect := layout.CellRect(0, 0)
	if tile.Pixmap.Width() != rect.Dx()+2*b || tile.Pixmap.Height() != rect.Dy()+2*b {
		t.Fatalf("bleed tile is %dx%d, want %dx%d",
			tile.Pixmap.Width(), tile.Pixmap.Height(), rect.Dx()+2*b, rect.Dy()+2*b)
	}

	// The bleed band replicates the tile's edge pixels.
	corner := tile.Pixmap.GetPixel(0, 0)
	edge := tile.Pixmap.GetPixel(b, b) // original top-left pixel
	if corner != edge {
		t.Errorf("bleed corner %+v does not replicate edge pixel %+v", corner, edge)
	}
	center := tile.Pixmap.GetPixel(b+5, b+7)
	if want := raster.GetPixel(5, 7); center != want {
		t.Errorf("tile interior %+v, want source pixel %+v", center, want)
	}
}

func TestExtractTiles_WithRegistration(t *testing.T) {
	cfg := TileConfiguration{
		TileWidth: 3, TileHeight: 2,
		Mode:                  TileWithRegistration,
		ShowRegistrationMarks: true,
	}
	raster, layout := planSmallLayout(t, cfg)

	tiles, err := ExtractTiles(raster, layout, cfg)
	if err != nil {
		t.Fatalf("ExtractTiles() error = %v", err)
	}

	// 0.25" margin at 100 dpi = 25 px on every side.
	const m = 25
	tile := tiles[0]
	rect := layout.CellRect(0, 0)
	if tile.Pixmap.Width() != rect.Dx()+2*m || tile.Pixmap.Height() != rect.Dy()+2*m {
		t.Fatalf("registration tile is %dx%d, want %dx%d",
			tile.Pixmap.Width(), tile.Pixmap.Height(), rect.Dx()+2*m, rect.Dy()+2*m)
	}

	// Crosshair centers sit in the corner margins.
	if got := tile.Pixmap.GetPixel(m/2, m/2); got != Black {
		t.Errorf("top-left crosshair center = %+v, want black", got)
	}
	w, h := tile.Pixmap.Width(), tile.Pixmap.Height()
	if got := tile.Pixmap.GetPixel(w-m/2, h-m/2); got != Black {
		t.Errorf("bottom-right crosshair center = %+v, want black", got)
	}

	// A label was burned into the top margin: some pixel in the band
	// right of the top-left crosshair is non-white.
	found := false
	for y := 0; y < m && !found; y++ {
		for x := m; x < m+100 && !found; x++ {
			if tile.Pixmap.GetPixel(x, y) == Black {
				found = true
			}
		}
	}
	if !found {
		t.Error("no label pixels found in the top margin")
	}
}

func TestExtractTiles_NoMarksWithoutFlag(t *testing.T) {
	cfg := TileConfiguration{
		TileWidth: 3, TileHeight: 2,
		Mode: TileWithRegistration,
		// ShowRegistrationMarks deliberately false: margins only.
	}
	raster, layout := planSmallLayout(t, cfg)

	tiles, err := ExtractTiles(raster, layout, cfg)
	if err != nil {
		t.Fatalf("ExtractTiles() error = %v", err)
	}
	const m = 25
	if got := tiles[0].Pixmap.GetPixel(m/2, m/2); got != White {
		t.Errorf("margin pixel = %+v, want plain white margin", got)
	}
}

func TestExtractTiles_CropOutOfBounds(t *testing.T) {
	cfg := TileConfiguration{TileWidth: 3, TileHeight: 2, Mode: TileEdgeToEdge}
	raster, layout := planSmallLayout(t, cfg)

	// Corrupt the layout to simulate a planner bug.
	layout.VerticalBoundaries = []int{700}

	_, err := ExtractTiles(raster, layout, cfg)
	var oob *CropOutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("ExtractTiles() error = %v, want CropOutOfBoundsError", err)
	}
}

func TestExtractTiles_RasterLayoutMismatch(t *testing.T) {
	cfg := TileConfiguration{TileWidth: 3, TileHeight: 2, Mode: TileEdgeToEdge}
	_, layout := planSmallLayout(t, cfg)

	wrong := NewPixmap(10, 10)
	_, err := ExtractTiles(wrong, layout, cfg)
	var oob *CropOutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("ExtractTiles() error = %v, want CropOutOfBoundsError", err)
	}
}
