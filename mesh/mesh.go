// Package mesh builds the 3D-printable geometry of a lenticular print: the
// cylindrical lens array for each printer-bed region and the alignment
// frame it registers against.
//
// Meshes use flat arrays: three float32 per vertex position, three per
// normal (parallel to the vertices), and uint32 index triples per triangle.
// Positions are in millimeters. Serializing to STL or OBJ is the caller's
// responsibility.
package mesh

import "fmt"

// Mesh is a triangle mesh suitable for 3D printing.
// All arrays are flat: Vertices has 3 floats per vertex (x, y, z), Normals
// has 3 floats per vertex, Indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 // [nx0,ny0,nz0, ...]
	Indices  []uint32  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Validate checks the mesh's structural invariants: parallel vertex and
// normal arrays, whole triangles, and every index inside the vertex array.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh: vertex array length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh: normal array length %d does not match vertex array length %d",
			len(m.Normals), len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index array length %d is not a multiple of 3", len(m.Indices))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh: index %d at position %d exceeds vertex count %d", idx, i, n)
		}
	}
	return nil
}

// DegenerateGeometryError reports lens parameters that cannot form a valid
// solid: the pitch must be positive and the slab height must exceed the
// lenticule radius, or the scalloped surface self-intersects.
type DegenerateGeometryError struct {
	Pitch  float64 // mm
	Radius float64 // mm
	Height float64 // mm
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("mesh: degenerate lens geometry: pitch %g mm, radius %g mm, height %g mm (need pitch > 0, radius > 0, height > radius)",
		e.Pitch, e.Radius, e.Height)
}

// RegionSizeError reports a non-positive physical region footprint.
type RegionSizeError struct {
	WidthMM float64
	DepthMM float64
}

func (e *RegionSizeError) Error() string {
	return fmt.Sprintf("mesh: invalid region size %gx%g mm (both must be > 0)", e.WidthMM, e.DepthMM)
}

// FrameSizeError reports alignment-frame dimensions that cannot form a
// printable frame.
type FrameSizeError struct {
	WidthMM       float64
	DepthMM       float64
	FrameWidthMM  float64
	FrameHeightMM float64
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("mesh: invalid alignment frame: opening %gx%g mm, frame width %g mm, height %g mm (all must be > 0)",
		e.WidthMM, e.DepthMM, e.FrameWidthMM, e.FrameHeightMM)
}
