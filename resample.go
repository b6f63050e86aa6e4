package lenticular

import (
	"image"

	"golang.org/x/image/draw"
)

// scalerFor maps a ResampleQuality to the x/image scaler implementing it.
func scalerFor(q ResampleQuality) draw.Scaler {
	switch q {
	case ResampleBilinear:
		return draw.ApproxBiLinear
	case ResampleNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// aspectFitRect returns the destination rectangle for fitting a srcW×srcH
// image inside a dstW×dstH canvas without stretching. A relatively wider
// source fits the canvas width and is centered vertically; otherwise it
// fits the height and is centered horizontally.
func aspectFitRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(dstW) / float64(dstH)

	var w, h int
	if srcAspect > dstAspect {
		w = dstW
		h = int(float64(dstW)/srcAspect + 0.5)
	} else {
		h = dstH
		w = int(float64(dstH)*srcAspect + 0.5)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// resampleAspectFit scales src into a freshly allocated w×h canvas,
// letterboxing with fill where the aspect ratios differ. This runs once per
// source before interlacing, never per pixel.
func resampleAspectFit(src *Pixmap, w, h int, q ResampleQuality, fill RGBA) *Pixmap {
	out := NewPixmap(w, h)
	out.Clear(fill)

	fit := aspectFitRect(src.Width(), src.Height(), w, h)
	scalerFor(q).Scale(out.RGBA(), fit, src.RGBA(), src.Bounds(), draw.Src, nil)
	return out
}
