package omr

import (
	"image"
	"image/color"
	"math"
)

// SampleDarkness returns the average darkness of the circular region of
// radius r centered at (cx, cy), in [0,1]. Fully black is 1.0, fully white
// is 0.0. The circle is clipped to the image bounds; a fully clipped region
// returns 0. Every decision in the decoder is made against this signal, so
// the darkness orientation must not change.
func SampleDarkness(img image.Image, cx, cy, r float64) float64 {
	bounds := img.Bounds()

	x0 := int(math.Floor(cx - r))
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	y0 := int(math.Floor(cy - r))
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	x1 := x0 + int(math.Ceil(r*2))
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	y1 := y0 + int(math.Ceil(r*2))
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}
	if x1 <= x0 || y1 <= y0 {
		return 0
	}

	r2 := r * r
	var sum float64
	var count int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				sum += luminance(img.At(x, y))
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}

	darkness := 1 - (sum/float64(count))/255
	return math.Max(0, math.Min(1, darkness))
}

// luminance converts a color to its 8-bit luma using the Rec. 601 weights.
func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}
