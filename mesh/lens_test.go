package mesh

import (
	"context"
	"errors"
	"testing"
)

func TestNumLenticules(t *testing.T) {
	tests := []struct {
		widthMM, pitchMM float64
		want             int
	}{
		{100, 0.635, 157}, // 40 LPI: floor(157.48)
		{100, 1.27, 78},   // 20 LPI
		{38.1, 1.27, 30},
		{1.27, 1.27, 1},
		{1.26, 1.27, 0},
	}
	for _, tt := range tests {
		if got := NumLenticules(tt.widthMM, tt.pitchMM); got != tt.want {
			t.Errorf("NumLenticules(%g, %g) = %d, want %d", tt.widthMM, tt.pitchMM, got, tt.want)
		}
	}
}

func TestNumLenticules_ExactMultipleOfPitch(t *testing.T) {
	// 1.5 in at 20 LPI: the float ratio lands a hair under 30 and must
	// still count the 30th lenticule.
	width := 1.5 * 25.4
	pitch := 25.4 / 20
	if got := NumLenticules(width, pitch); got != 30 {
		t.Errorf("NumLenticules(%g, %g) = %d, want 30", width, pitch, got)
	}
}

func TestLensMeshCounts(t *testing.T) {
	tests := []struct {
		n, s         int
		wantV, wantT int
	}{
		{1, 16, 38, 34},
		{30, 16, 1024, 962},
		{157, 16, 5342, 5026},
		{10, 8, 184, 162},
	}
	for _, tt := range tests {
		v, tri := LensMeshCounts(tt.n, tt.s)
		if v != tt.wantV || tri != tt.wantT {
			t.Errorf("LensMeshCounts(%d, %d) = (%d, %d), want (%d, %d)",
				tt.n, tt.s, v, tri, tt.wantV, tt.wantT)
		}
	}
}

func TestBuildLensMesh(t *testing.T) {
	spec := LensSpec{PitchMM: 1.27, RadiusMM: 0.635, HeightMM: 3}
	m, err := BuildLensMesh(38.1, 50.8, spec)
	if err != nil {
		t.Fatalf("BuildLensMesh() error = %v", err)
	}

	wantV, wantT := LensMeshCounts(30, DefaultSegmentsAround)
	if m.VertexCount() != wantV {
		t.Errorf("VertexCount() = %d, want %d", m.VertexCount(), wantV)
	}
	if m.TriangleCount() != wantT {
		t.Errorf("TriangleCount() = %d, want %d", m.TriangleCount(), wantT)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	// Every vertex stays inside the slab volume: crowns top out at the
	// lens height, nothing dips below the base plane.
	for i := 0; i < len(m.Vertices); i += 3 {
		y := float64(m.Vertices[i+1])
		if y < -1e-6 || y > spec.HeightMM+1e-6 {
			t.Fatalf("vertex %d has y = %g, outside [0, %g]", i/3, y, spec.HeightMM)
		}
	}
}

func TestBuildLensMesh_SegmentsOverride(t *testing.T) {
	spec := LensSpec{PitchMM: 1.27, RadiusMM: 0.635, HeightMM: 3, SegmentsAround: 8}
	m, err := BuildLensMesh(12.8, 10, spec)
	if err != nil {
		t.Fatalf("BuildLensMesh() error = %v", err)
	}
	wantV, wantT := LensMeshCounts(10, 8)
	if m.VertexCount() != wantV || m.TriangleCount() != wantT {
		t.Errorf("counts = (%d, %d), want (%d, %d)",
			m.VertexCount(), m.TriangleCount(), wantV, wantT)
	}
}

func TestBuildLensMesh_DegenerateGeometry(t *testing.T) {
	tests := []struct {
		name string
		spec LensSpec
	}{
		{"zero pitch", LensSpec{PitchMM: 0, RadiusMM: 0.5, HeightMM: 3}},
		{"negative pitch", LensSpec{PitchMM: -1, RadiusMM: 0.5, HeightMM: 3}},
		{"zero radius", LensSpec{PitchMM: 1, RadiusMM: 0, HeightMM: 3}},
		{"height equals radius", LensSpec{PitchMM: 1, RadiusMM: 3, HeightMM: 3}},
		{"height below radius", LensSpec{PitchMM: 1, RadiusMM: 3, HeightMM: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLensMesh(10, 10, tt.spec)
			var degenerate *DegenerateGeometryError
			if !errors.As(err, &degenerate) {
				t.Fatalf("BuildLensMesh() error = %v, want DegenerateGeometryError", err)
			}
			if degenerate.Pitch != tt.spec.PitchMM || degenerate.Height != tt.spec.HeightMM {
				t.Errorf("error details = %+v, want offending parameters echoed", degenerate)
			}
		})
	}
}

func TestBuildLensMesh_RegionSize(t *testing.T) {
	spec := LensSpec{PitchMM: 1.27, RadiusMM: 0.635, HeightMM: 3}
	for _, dims := range [][2]float64{{0, 10}, {10, 0}, {-5, 10}} {
		_, err := BuildLensMesh(dims[0], dims[1], spec)
		var size *RegionSizeError
		if !errors.As(err, &size) {
			t.Errorf("BuildLensMesh(%g, %g) error = %v, want RegionSizeError", dims[0], dims[1], err)
		}
	}
}

func TestBuildLensMesh_Progress(t *testing.T) {
	spec := LensSpec{PitchMM: 1.27, RadiusMM: 0.635, HeightMM: 3}
	var fractions []float64
	_, err := BuildLensMesh(38.1, 10, spec,
		WithProgress(func(f float64) { fractions = append(fractions, f) }))
	if err != nil {
		t.Fatalf("BuildLensMesh() error = %v", err)
	}
	if len(fractions) == 0 {
		t.Fatal("progress callback never invoked")
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Fatalf("progress regressed: %g after %g", fractions[i], fractions[i-1])
		}
	}
	if last := fractions[len(fractions)-1]; last != 1 {
		t.Errorf("final progress = %g, want 1", last)
	}
}

func TestBuildLensMesh_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spec := LensSpec{PitchMM: 1.27, RadiusMM: 0.635, HeightMM: 3}
	_, err := BuildLensMesh(38.1, 10, spec, WithContext(ctx))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("BuildLensMesh() with canceled context = %v, want context.Canceled", err)
	}
}

func BenchmarkBuildLensMesh(b *testing.B) {
	spec := LensSpec{PitchMM: 0.635, RadiusMM: 0.3175, HeightMM: 3}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildLensMesh(215.9, 279.4, spec); err != nil {
			b.Fatal(err)
		}
	}
}
