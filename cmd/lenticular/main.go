// Command lenticular runs the full print pipeline on a set of source
// images and writes the resulting artifacts: the interlaced raster, the
// print tiles, and per-region lens and alignment-frame meshes as binary
// STL. All file encoding lives here; the library only produces in-memory
// rasters and meshes.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/lenticular"
	"github.com/gogpu/lenticular/mesh"
)

func main() {
	var (
		lpi         = flag.Float64("lpi", 40, "lens density in lenticules per inch")
		dpi         = flag.Int("dpi", 300, "output resolution in dots per inch")
		width       = flag.Int("width", 3300, "output width in pixels")
		height      = flag.Int("height", 2550, "output height in pixels")
		paperWidth  = flag.Float64("paper-width", 8.5, "tile paper width in inches")
		paperHeight = flag.Float64("paper-height", 11, "tile paper height in inches")
		bedWidth    = flag.Float64("bed-width", 10, "printer bed width in inches")
		bedHeight   = flag.Float64("bed-height", 10, "printer bed height in inches")
		mode        = flag.String("mode", "edge", "tile mode: edge, bleed or marks")
		bleed       = flag.Float64("bleed", 0.125, "bleed amount in inches (bleed mode)")
		format      = flag.String("format", "png", "raster format: png, tiff or webp")
		outDir      = flag.String("out", "out", "output directory")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: lenticular [flags] source.png [source2.png ...]")
	}
	if *verbose {
		lenticular.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	sources := make([]lenticular.SourceImage, flag.NArg())
	for i, path := range flag.Args() {
		pm, err := loadImage(path)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		sources[i] = lenticular.NewSourceImage(i, pm)
	}

	req := lenticular.PipelineRequest{
		Sources:   sources,
		Lens:      lenticular.NewLensParameters(*lpi),
		Output:    lenticular.OutputSpec{Width: *width, Height: *height, DPI: *dpi},
		Tile:      tileConfig(*mode, *paperWidth, *paperHeight, *bleed),
		BedWidth:  *bedWidth,
		BedHeight: *bedHeight,
	}

	artifacts, err := lenticular.Run(req, lenticular.WithProgress(func(f float64) {
		fmt.Fprintf(os.Stderr, "\rprogress: %3.0f%%", f*100)
	}))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}
	if err := writeArtifacts(*outDir, *format, artifacts); err != nil {
		log.Fatalf("Failed to write artifacts: %v", err)
	}

	log.Printf("Wrote %d tiles and %d regions to %s (strategy %s)",
		len(artifacts.Tiles), len(artifacts.Regions), *outDir, artifacts.Layout.Strategy)
}

func tileConfig(mode string, w, h, bleed float64) lenticular.TileConfiguration {
	cfg := lenticular.TileConfiguration{TileWidth: w, TileHeight: h}
	switch mode {
	case "bleed":
		cfg.Mode = lenticular.TileWithBleed
		cfg.BleedAmount = bleed
	case "marks":
		cfg.Mode = lenticular.TileWithRegistration
		cfg.ShowRegistrationMarks = true
	default:
		cfg.Mode = lenticular.TileEdgeToEdge
	}
	return cfg
}

func loadImage(path string) (*lenticular.Pixmap, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return lenticular.FromImage(img), nil
}

func writeArtifacts(dir, format string, a *lenticular.Artifacts) error {
	if err := writeRaster(filepath.Join(dir, "interlaced."+format), format, a.Interlaced); err != nil {
		return err
	}
	for _, tile := range a.Tiles {
		name := fmt.Sprintf("tile_r%d_c%d.%s", tile.Row+1, tile.Col+1, format)
		if err := writeRaster(filepath.Join(dir, name), format, tile.Pixmap); err != nil {
			return err
		}
	}
	for i, region := range a.Regions {
		if err := writeSTL(filepath.Join(dir, fmt.Sprintf("lens_region_%d.stl", i+1)), region.Lens); err != nil {
			return err
		}
		if err := writeSTL(filepath.Join(dir, fmt.Sprintf("frame_region_%d.stl", i+1)), region.Frame); err != nil {
			return err
		}
	}
	return nil
}

func writeRaster(path, format string, pm *lenticular.Pixmap) error {
	f, err := os.Create(path) //nolint:gosec // path derives from the -out flag
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	img := pm.ToImage()
	switch format {
	case "tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	case "webp":
		return nativewebp.Encode(f, img, nil)
	default:
		return png.Encode(f, img)
	}
}

// writeSTL serializes a mesh as binary STL: an 80-byte header, a triangle
// count, then per triangle a face normal, three vertices and a zero
// attribute word, all little-endian float32/uint16.
func writeSTL(path string, m *mesh.Mesh) error {
	f, err := os.Create(path) //nolint:gosec // path derives from the -out flag
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return encodeSTL(f, m)
}

func encodeSTL(w io.Writer, m *mesh.Mesh) error {
	var header [80]byte
	copy(header[:], "lenticular mesh")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return err
	}

	for t := 0; t < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		// The per-vertex normals of a face are identical for flat faces
		// and near-identical along a lenticule quad; the first vertex's
		// normal serves as the facet normal.
		facet := [12]float32{
			m.Normals[i0*3], m.Normals[i0*3+1], m.Normals[i0*3+2],
			m.Vertices[i0*3], m.Vertices[i0*3+1], m.Vertices[i0*3+2],
			m.Vertices[i1*3], m.Vertices[i1*3+1], m.Vertices[i1*3+2],
			m.Vertices[i2*3], m.Vertices[i2*3+1], m.Vertices[i2*3+2],
		}
		if err := binary.Write(w, binary.LittleEndian, facet); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return nil
}
