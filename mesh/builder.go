package mesh

import "gonum.org/v1/gonum/spatial/r3"

// VertexRange identifies a contiguous run of vertices appended by one
// logical piece of geometry (a lenticule strip, a frame box). Ranges stay
// stable as the builder grows, which keeps index arithmetic checkable in
// isolation.
type VertexRange struct {
	Start uint32
	Count uint32
}

// Builder accumulates mesh geometry in flat arenas. It replaces manual
// offset bookkeeping: Vertex returns the index it appended, and
// Mark/Since bracket a strip into a stable VertexRange.
type Builder struct {
	vertices []float32
	normals  []float32
	indices  []uint32
}

// NewBuilder creates a builder with capacity for the given vertex and
// triangle counts. Exceeding the capacity grows the arenas; callers that
// know the closed-form counts avoid reallocation entirely.
func NewBuilder(vertexCount, triangleCount int) *Builder {
	return &Builder{
		vertices: make([]float32, 0, vertexCount*3),
		normals:  make([]float32, 0, vertexCount*3),
		indices:  make([]uint32, 0, triangleCount*3),
	}
}

// Vertex appends a position with its unit normal and returns its index.
func (b *Builder) Vertex(p, n r3.Vec) uint32 {
	idx := uint32(len(b.vertices) / 3)
	b.vertices = append(b.vertices, float32(p.X), float32(p.Y), float32(p.Z))
	b.normals = append(b.normals, float32(n.X), float32(n.Y), float32(n.Z))
	return idx
}

// Triangle appends one triangle.
func (b *Builder) Triangle(i0, i1, i2 uint32) {
	b.indices = append(b.indices, i0, i1, i2)
}

// Quad appends a quad as two triangles, (a,b,c) and (a,c,d), preserving
// the quad's winding.
func (b *Builder) Quad(a, bb, c, d uint32) {
	b.Triangle(a, bb, c)
	b.Triangle(a, c, d)
}

// Mark returns the current vertex count, to be paired with Since.
func (b *Builder) Mark() uint32 {
	return uint32(len(b.vertices) / 3)
}

// Since returns the range of vertices appended after the given mark.
func (b *Builder) Since(mark uint32) VertexRange {
	return VertexRange{Start: mark, Count: uint32(len(b.vertices)/3) - mark}
}

// VertexCount returns the number of vertices appended so far.
func (b *Builder) VertexCount() int {
	return len(b.vertices) / 3
}

// TriangleCount returns the number of triangles appended so far.
func (b *Builder) TriangleCount() int {
	return len(b.indices) / 3
}

// Box appends a closed axis-aligned box with per-face normals (24 vertices,
// 12 triangles), wound outward, and returns its vertex range.
func (b *Builder) Box(min, max r3.Vec) VertexRange {
	mark := b.Mark()

	// Each face lists its corners counter-clockwise seen from outside.
	faces := [6]struct {
		corners [4]r3.Vec
		normal  r3.Vec
	}{
		{ // +Y
			[4]r3.Vec{{X: min.X, Y: max.Y, Z: min.Z}, {X: min.X, Y: max.Y, Z: max.Z}, {X: max.X, Y: max.Y, Z: max.Z}, {X: max.X, Y: max.Y, Z: min.Z}},
			r3.Vec{Y: 1},
		},
		{ // -Y
			[4]r3.Vec{{X: min.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: max.Z}, {X: min.X, Y: min.Y, Z: max.Z}},
			r3.Vec{Y: -1},
		},
		{ // +X
			[4]r3.Vec{{X: max.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: max.Z}, {X: max.X, Y: min.Y, Z: max.Z}},
			r3.Vec{X: 1},
		},
		{ // -X
			[4]r3.Vec{{X: min.X, Y: min.Y, Z: min.Z}, {X: min.X, Y: min.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: min.Z}},
			r3.Vec{X: -1},
		},
		{ // +Z
			[4]r3.Vec{{X: min.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z}},
			r3.Vec{Z: 1},
		},
		{ // -Z
			[4]r3.Vec{{X: min.X, Y: min.Y, Z: min.Z}, {X: min.X, Y: max.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: min.Z}},
			r3.Vec{Z: -1},
		},
	}

	for _, f := range faces {
		i0 := b.Vertex(f.corners[0], f.normal)
		i1 := b.Vertex(f.corners[1], f.normal)
		i2 := b.Vertex(f.corners[2], f.normal)
		i3 := b.Vertex(f.corners[3], f.normal)
		b.Quad(i0, i1, i2, i3)
	}
	return b.Since(mark)
}

// Mesh finalizes the builder. The builder must not be used afterwards.
func (b *Builder) Mesh() *Mesh {
	return &Mesh{
		Vertices: b.vertices,
		Normals:  b.normals,
		Indices:  b.indices,
	}
}
