package omr

import (
	"image"
	"math"
	"strconv"
	"strings"
)

const (
	idColumns = 11
	idRows    = 10

	// idUncertain marks a digit column whose best bubble did not clear the
	// relaxed threshold. Interior markers are kept so the caller can offer
	// manual correction at the right positions.
	idUncertain = "?"
)

// DecodeStudentID reads the student-number block: an 11-column grid where
// each column is a vertical stack of digit bubbles 0-9. Each column reports
// the digit of its darkest bubble, or an uncertain marker when even the
// darkest bubble is too light. ID bubbles are printed smaller than answer
// bubbles, so the fill threshold is relaxed to 80%. Leading and trailing
// uncertain markers are stripped; an empty result returns "".
//
// This is deliberately best-effort and never fails: a partially read ID is
// still useful for manual matching.
func DecodeStudentID(img image.Image, cfg Config) string {
	cfg = cfg.withDefaults()
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	f := cfg.IDBlockRegion
	x0 := math.Floor(float64(w) * f.X)
	y0 := math.Floor(float64(h) * f.Y)
	bw := math.Floor(float64(w) * f.W)
	bh := math.Floor(float64(h) * f.H)
	if bw <= 0 || bh <= 0 {
		return ""
	}

	cellW := bw / idColumns
	cellH := bh / idRows
	radius := math.Max(6, math.Round(math.Min(cellW, cellH)*cfg.SampleRadiusFraction))
	threshold := cfg.FillThreshold * 0.8

	digits := make([]string, 0, idColumns)
	for col := 0; col < idColumns; col++ {
		bestRow := 0
		bestScore := -1.0
		for row := 0; row < idRows; row++ {
			cx := float64(bounds.Min.X) + x0 + math.Floor(float64(col)*cellW+cellW*0.5)
			cy := float64(bounds.Min.Y) + y0 + math.Floor(float64(row)*cellH+cellH*0.5)
			score := SampleDarkness(img, cx, cy, radius)
			if score > bestScore {
				bestScore = score
				bestRow = row
			}
		}
		if bestScore >= threshold {
			digits = append(digits, strconv.Itoa(bestRow))
		} else {
			digits = append(digits, idUncertain)
		}
	}

	return strings.Trim(strings.Join(digits, ""), idUncertain)
}
