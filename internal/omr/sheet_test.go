package omr

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Test sheet rendering helpers. Pages are drawn the way a printed sheet
// scans: black marks on white paper, with bubbles placed by the same
// geometry the decoder samples.

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func uniformPage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	r2 := r * r
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				if image.Pt(x, y).In(img.Bounds()) {
					img.Set(x, y, c)
				}
			}
		}
	}
}

// idBubbleCenter returns the page coordinates of the digit bubble at
// (col, row) of the student-ID block, matching DecodeStudentID's geometry.
func idBubbleCenter(img image.Image, cfg Config, col, row int) (float64, float64, float64) {
	cfg = cfg.withDefaults()
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	f := cfg.IDBlockRegion
	x0 := math.Floor(float64(w) * f.X)
	y0 := math.Floor(float64(h) * f.Y)
	bw := math.Floor(float64(w) * f.W)
	bh := math.Floor(float64(h) * f.H)

	cellW := bw / idColumns
	cellH := bh / idRows
	radius := math.Max(6, math.Round(math.Min(cellW, cellH)*cfg.SampleRadiusFraction))

	cx := x0 + math.Floor(float64(col)*cellW+cellW*0.5)
	cy := y0 + math.Floor(float64(row)*cellH+cellH*0.5)
	return cx, cy, radius
}

// stampStudentID fills one digit bubble per column; -1 leaves the column
// blank. Marks are drawn larger than the sampling radius so the sampled
// circle is solidly black.
func stampStudentID(img *image.RGBA, cfg Config, digits []int) {
	for col, digit := range digits {
		if digit < 0 {
			continue
		}
		cx, cy, r := idBubbleCenter(img, cfg, col, digit)
		fillCircle(img, cx, cy, r+4, color.Black)
	}
}

// stampAnswer fills the bubble for one (question, choice) pair using the
// grid geometry the decoder will resolve.
func stampAnswer(img *image.RGBA, cfg Config, totalQuestions, columns, question, choice int) {
	grid := ResolveGrid(img.Bounds().Dx(), img.Bounds().Dy(), totalQuestions, columns, cfg)
	b := grid[question][choice]
	fillCircle(img, b.X, b.Y, b.R+4, color.Black)
}
