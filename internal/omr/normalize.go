package omr

import (
	"image"
	"image/color"
	"math"
)

// Normalize converts the page to grayscale and stretches its contrast so
// pencil marks separate cleanly from paper. The returned image is a copy
// owned by the caller; the input is never modified. Normalization is
// best-effort: a degenerate input is returned unchanged rather than failing,
// since an unnormalized page still decodes, just with less margin.
func Normalize(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return img
	}

	lum := make([]float64, bounds.Dx()*bounds.Dy())
	minL, maxL := 255.0, 0.0
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := math.Round(luminance(img.At(x, y)))
			lum[i] = g
			i++
			if g < minL {
				minL = g
			}
			if g > maxL {
				maxL = g
			}
		}
	}

	// A near-flat page (washed-out scan) gets a harder contrast push.
	contrast := 1.2
	if maxL-minL < 10 {
		contrast = 1.6
	}
	spread := math.Max(1, maxL-minL)

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	i = 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := math.Round((lum[i] - minL) / spread * 255)
			v = math.Round(128 + (v-128)*contrast)
			v = math.Max(0, math.Min(255, v))
			i++
			_, _, _, a := img.At(x, y).RGBA()
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
				R: uint8(v), G: uint8(v), B: uint8(v), A: uint8(a >> 8),
			})
		}
	}
	return out
}
