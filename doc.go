// Package lenticular computes the physical artifacts needed to produce a
// lenticular print: an interlaced raster combining N source images, a set of
// print-size tiles aligned to the lens pitch, and 3D-printable lens meshes
// matching each printer-bed region.
//
// # Overview
//
// A lenticular print is an image printed behind an array of cylindrical
// lenses (lenticules). The package covers the deterministic core of that
// workflow as pure functions over immutable value types:
//
//   - Interlace: combine N equal-sized source rasters column by column,
//     driven by the lens pitch.
//   - PlanTileLayout: compute lenticule-aligned cut boundaries and group the
//     resulting tiles into printer-bed regions.
//   - ExtractTiles: crop (and optionally annotate) tiles from the interlaced
//     raster per the plan.
//   - mesh.BuildLensMesh / mesh.BuildAlignmentFrame: build the per-region
//     cylindrical lens array and its registration frame.
//
// Run ties the five stages together into a single Artifacts value.
//
// # Coordinate System
//
// Three units share one coordinate system, bridged explicitly:
//
//   - pixels for rasters (origin top-left, X right, Y down)
//   - inches for physical print and paper sizes (pixels = inches × DPI)
//   - millimeters for meshes (25.4 mm per inch)
//
// DPI is the only bridge between pixels and inches and is passed explicitly
// at every boundary, never assumed.
//
// # Determinism
//
// Every computation is a pure function of its inputs: interlacing a source
// set twice yields byte-identical rasters, and every failure is
// deterministic, so callers should surface the error rather than retry.
//
// # I/O Boundaries
//
// The package produces in-memory rasters and meshes. Encoding them (PNG,
// TIFF, STL, ...) is the caller's responsibility; cmd/lenticular shows a
// complete export path.
package lenticular

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
