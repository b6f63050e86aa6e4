package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSegmentsAround is the angular resolution of a lenticule's
// half-cylinder cross-section when none is specified.
const DefaultSegmentsAround = 16

// LensSpec describes the lens sheet geometry for one printer-bed region,
// all in millimeters.
type LensSpec struct {
	PitchMM  float64 // center-to-center lenticule spacing
	RadiusMM float64 // lenticule arc radius
	HeightMM float64 // slab thickness; must exceed RadiusMM

	// SegmentsAround is the number of angular steps across the
	// half-cylinder. Zero selects DefaultSegmentsAround. Higher values
	// trade vertex count for fidelity.
	SegmentsAround int
}

func (s LensSpec) segments() int {
	if s.SegmentsAround <= 0 {
		return DefaultSegmentsAround
	}
	return s.SegmentsAround
}

// LensMeshCounts returns the exact vertex and triangle counts
// BuildLensMesh produces for the given lenticule count and angular
// resolution: each lenticule is a quad strip of two (segments+1)-vertex
// rows, plus four corner vertices and two triangles for the base slab.
func LensMeshCounts(numLenticules, segmentsAround int) (vertices, triangles int) {
	vertices = numLenticules*2*(segmentsAround+1) + 4
	triangles = numLenticules*2*segmentsAround + 2
	return vertices, triangles
}

// lenticuleCountEpsilon absorbs float error in the width/pitch ratio, so a
// region that is an exact multiple of the pitch keeps its last lenticule.
const lenticuleCountEpsilon = 1e-9

// NumLenticules returns how many whole lenticules fit across a region of
// the given width.
func NumLenticules(widthMM, pitchMM float64) int {
	return int(math.Floor(widthMM/pitchMM + lenticuleCountEpsilon))
}

// BuildLensMesh builds the lens model for one printer-bed region: a flat
// base slab at y=0 spanning the full widthMM×depthMM footprint, with a row
// of half-cylindrical lenticules on top running along the depth (Z) axis.
//
// Lenticule i is centered at x = i·pitch + pitch/2. The cross-section
// sweeps angle ∈ [-π/2, π/2] with the crown at y = HeightMM, so lenticules
// sit flush on the slab and the mesh forms a single watertight solid.
//
// The mesh is the most CPU- and memory-intensive artifact for large prints
// (tens of thousands of lenticules); use WithProgress and WithContext for
// long-running builds. Vertex and triangle counts match LensMeshCounts
// exactly.
func BuildLensMesh(widthMM, depthMM float64, spec LensSpec, opts ...Option) (*Mesh, error) {
	cfg := applyOptions(opts)

	if spec.PitchMM <= 0 || spec.RadiusMM <= 0 || spec.HeightMM <= spec.RadiusMM {
		return nil, &DegenerateGeometryError{Pitch: spec.PitchMM, Radius: spec.RadiusMM, Height: spec.HeightMM}
	}
	if widthMM <= 0 || depthMM <= 0 {
		return nil, &RegionSizeError{WidthMM: widthMM, DepthMM: depthMM}
	}

	segments := spec.segments()
	n := NumLenticules(widthMM, spec.PitchMM)
	vertexCount, triangleCount := LensMeshCounts(n, segments)
	b := NewBuilder(vertexCount, triangleCount)

	for i := 0; i < n; i++ {
		if err := cfg.ctx.Err(); err != nil {
			return nil, err
		}
		centerX := float64(i)*spec.PitchMM + spec.PitchMM/2
		appendLenticule(b, centerX, depthMM, spec.RadiusMM, spec.HeightMM, segments)
		if cfg.progress != nil {
			cfg.progress(float64(i+1) / float64(n+1))
		}
	}

	appendBase(b, widthMM, depthMM)
	if cfg.progress != nil {
		cfg.progress(1)
	}
	return b.Mesh(), nil
}

// appendLenticule emits one half-cylinder quad strip: a front and a back
// row of segments+1 vertices each, connected into two triangles per quad,
// wound outward.
func appendLenticule(b *Builder, centerX, depthMM, radius, height float64, segments int) VertexRange {
	mark := b.Mark()

	for _, z := range [2]float64{0, depthMM} {
		for j := 0; j <= segments; j++ {
			angle := -math.Pi/2 + math.Pi*float64(j)/float64(segments)
			sin, cos := math.Sincos(angle)
			p := r3.Vec{
				X: centerX + radius*sin,
				Y: radius*cos - radius + height,
				Z: z,
			}
			b.Vertex(p, r3.Unit(r3.Vec{X: sin, Y: cos}))
		}
	}

	front := mark
	back := mark + uint32(segments) + 1
	for j := uint32(0); j < uint32(segments); j++ {
		b.Quad(front+j, back+j, back+j+1, front+j+1)
	}
	return b.Since(mark)
}

// appendBase emits the downward-facing rectangle closing the solid at y=0.
func appendBase(b *Builder, widthMM, depthMM float64) VertexRange {
	mark := b.Mark()
	down := r3.Vec{Y: -1}
	i0 := b.Vertex(r3.Vec{}, down)
	i1 := b.Vertex(r3.Vec{X: widthMM}, down)
	i2 := b.Vertex(r3.Vec{X: widthMM, Z: depthMM}, down)
	i3 := b.Vertex(r3.Vec{Z: depthMM}, down)
	b.Quad(i0, i1, i2, i3)
	return b.Since(mark)
}
