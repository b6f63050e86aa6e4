package lenticular

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// solidSource creates a source image filled with a single color.
func solidSource(t *testing.T, ordinal, w, h int, c RGBA) SourceImage {
	t.Helper()
	pm := NewPixmap(w, h)
	pm.Clear(c)
	return NewSourceImage(ordinal, pm)
}

func TestSourceForColumn(t *testing.T) {
	// dpi=300, lpi=20 → pixelsPerLenticule = 15 with 2 sources.
	const ppl = 15.0
	tests := []struct {
		x    int
		want int
	}{
		{0, 0},
		{7, 0},
		{8, 1},
		{14, 1}, // last pixel of the lenticule maps to the last source
		{15, 0}, // next lenticule wraps back to source 0
		{22, 0},
		{23, 1},
		{29, 1},
		{30, 0},
	}
	for _, tt := range tests {
		if got := sourceForColumn(tt.x, ppl, 2); got != tt.want {
			t.Errorf("sourceForColumn(%d, %g, 2) = %d, want %d", tt.x, ppl, got, tt.want)
		}
	}
}

func TestSourceForColumn_ClampsRounding(t *testing.T) {
	// A fractional lenticule width exercises the floating-point clamp at
	// the lenticule's last pixel.
	const ppl = 7.5
	for x := 0; x < 1000; x++ {
		got := sourceForColumn(x, ppl, 3)
		if got < 0 || got > 2 {
			t.Fatalf("sourceForColumn(%d, %g, 3) = %d, out of [0, 2]", x, ppl, got)
		}
	}
}

func TestInterlace_ColumnAssignment(t *testing.T) {
	red := solidSource(t, 0, 30, 4, RGB(1, 0, 0))
	blue := solidSource(t, 1, 30, 4, RGB(0, 0, 1))
	out := OutputSpec{Width: 30, Height: 4, DPI: 300}

	result, err := Interlace([]SourceImage{red, blue}, NewLensParameters(20), out,
		WithResampleQuality(ResampleNearest))
	if err != nil {
		t.Fatalf("Interlace() error = %v", err)
	}

	// pixelsPerLenticule = 300/20 = 15: columns 0-7 from source 0,
	// columns 8-14 from source 1, column 15 wraps to source 0.
	for _, tt := range []struct {
		x    int
		want RGBA
	}{
		{0, RGB(1, 0, 0)},
		{7, RGB(1, 0, 0)},
		{8, RGB(0, 0, 1)},
		{14, RGB(0, 0, 1)},
		{15, RGB(1, 0, 0)},
	} {
		if got := result.GetPixel(tt.x, 2); got != tt.want {
			t.Errorf("column %d = %+v, want %+v", tt.x, got, tt.want)
		}
	}
}

func TestInterlace_OrdinalOrdering(t *testing.T) {
	// Sources supplied out of order must interlace by ordinal.
	red := solidSource(t, 1, 30, 4, RGB(1, 0, 0))
	blue := solidSource(t, 0, 30, 4, RGB(0, 0, 1))
	out := OutputSpec{Width: 30, Height: 4, DPI: 300}

	result, err := Interlace([]SourceImage{red, blue}, NewLensParameters(20), out,
		WithResampleQuality(ResampleNearest))
	if err != nil {
		t.Fatalf("Interlace() error = %v", err)
	}
	if got := result.GetPixel(0, 0); got != RGB(0, 0, 1) {
		t.Errorf("column 0 = %+v, want the ordinal-0 (blue) source", got)
	}
}

func TestInterlace_EmptySourceSet(t *testing.T) {
	_, err := Interlace(nil, NewLensParameters(40), OutputSpec{Width: 10, Height: 10, DPI: 300})
	if !errors.Is(err, ErrEmptySourceSet) {
		t.Errorf("Interlace(nil sources) error = %v, want ErrEmptySourceSet", err)
	}
}

func TestInterlace_DimensionMismatch(t *testing.T) {
	a := solidSource(t, 0, 30, 4, Black)
	b := solidSource(t, 1, 31, 4, Black)

	_, err := Interlace([]SourceImage{a, b}, NewLensParameters(40), OutputSpec{Width: 30, Height: 4, DPI: 300})
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Interlace() error = %v, want DimensionMismatchError", err)
	}
	if mismatch.Index != 1 || mismatch.Width != 31 || mismatch.WantWidth != 30 {
		t.Errorf("mismatch details = %+v", mismatch)
	}
}

func TestInterlace_InvalidOutputSize(t *testing.T) {
	src := solidSource(t, 0, 10, 10, Black)
	for _, out := range []OutputSpec{
		{Width: 0, Height: 10, DPI: 300},
		{Width: 10, Height: -1, DPI: 300},
		{Width: 10, Height: 10, DPI: 0},
	} {
		_, err := Interlace([]SourceImage{src}, NewLensParameters(40), out)
		var invalid *InvalidOutputSizeError
		if !errors.As(err, &invalid) {
			t.Errorf("Interlace(%+v) error = %v, want InvalidOutputSizeError", out, err)
		}
	}
}

func TestInterlace_Idempotent(t *testing.T) {
	a := solidSource(t, 0, 64, 48, RGB(1, 0, 0))
	b := solidSource(t, 1, 64, 48, RGB(0, 1, 0))
	c := solidSource(t, 2, 64, 48, RGB(0, 0, 1))
	sources := []SourceImage{a, b, c}
	out := OutputSpec{Width: 100, Height: 80, DPI: 300}
	lens := NewLensParameters(30)

	first, err := Interlace(sources, lens, out)
	if err != nil {
		t.Fatalf("first Interlace() error = %v", err)
	}
	second, err := Interlace(sources, lens, out)
	if err != nil {
		t.Fatalf("second Interlace() error = %v", err)
	}
	if !bytes.Equal(first.Data(), second.Data()) {
		t.Error("identical inputs produced different rasters")
	}
}

func TestInterlace_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := solidSource(t, 0, 50, 50, Black)
	_, err := Interlace([]SourceImage{src}, NewLensParameters(40),
		OutputSpec{Width: 50, Height: 50, DPI: 300}, WithContext(ctx))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Interlace() with canceled context = %v, want context.Canceled", err)
	}
}

func TestInterlace_ProgressMonotone(t *testing.T) {
	src := solidSource(t, 0, 600, 20, Black)
	var fractions []float64
	_, err := Interlace([]SourceImage{src}, NewLensParameters(40),
		OutputSpec{Width: 600, Height: 20, DPI: 300},
		WithWorkers(4),
		WithProgress(func(f float64) { fractions = append(fractions, f) }))
	if err != nil {
		t.Fatalf("Interlace() error = %v", err)
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

func BenchmarkInterlace(b *testing.B) {
	pm1 := NewPixmap(1920, 1080)
	pm2 := NewPixmap(1920, 1080)
	sources := []SourceImage{NewSourceImage(0, pm1), NewSourceImage(1, pm2)}
	out := OutputSpec{Width: 1920, Height: 1080, DPI: 300}
	lens := NewLensParameters(20)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Interlace(sources, lens, out, WithResampleQuality(ResampleNearest)); err != nil {
			b.Fatal(err)
		}
	}
}
