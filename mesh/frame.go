package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Default alignment frame dimensions. The frame is a sacrificial border
// printed before the lens: wide enough to register the paper against,
// shallow enough to print quickly in a contrasting color.
const (
	DefaultFrameWidthMM  = 5.0
	DefaultFrameHeightMM = 1.0
)

// BuildAlignmentFrame builds a rectangular picture-frame mesh whose inner
// opening equals the widthMM×depthMM region footprint and whose outer
// boundary extends by frameWidthMM on all sides. The frame is printed
// first as a physical registration guide; the lens model printed afterward
// sits inside it.
//
// The frame is four independent closed boxes (left, right, front, back)
// rather than a single outline, which avoids a non-manifold solid at the
// corners. It does not depend on the lens parameters, only on the region
// footprint.
func BuildAlignmentFrame(widthMM, depthMM, frameWidthMM, frameHeightMM float64) (*Mesh, error) {
	if widthMM <= 0 || depthMM <= 0 || frameWidthMM <= 0 || frameHeightMM <= 0 {
		return nil, &FrameSizeError{
			WidthMM: widthMM, DepthMM: depthMM,
			FrameWidthMM: frameWidthMM, FrameHeightMM: frameHeightMM,
		}
	}

	f := frameWidthMM
	h := frameHeightMM
	b := NewBuilder(4*24, 4*12)

	// Left and right strips run the full depth including the corners;
	// front and back strips fill between them. The strips touch but never
	// overlap, and their union's inner opening is exactly the footprint.
	b.Box(r3.Vec{X: -f, Z: -f}, r3.Vec{Y: h, Z: depthMM + f})
	b.Box(r3.Vec{X: widthMM, Z: -f}, r3.Vec{X: widthMM + f, Y: h, Z: depthMM + f})
	b.Box(r3.Vec{Z: -f}, r3.Vec{X: widthMM, Y: h})
	b.Box(r3.Vec{Z: depthMM}, r3.Vec{X: widthMM, Y: h, Z: depthMM + f})

	return b.Mesh(), nil
}
