package omr

import "math"

// BubbleCoordinate is the pixel position and sampling radius of one answer
// bubble. Coordinates are recomputed on every decode and never persisted.
type BubbleCoordinate struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	R      float64 `json:"r"`
	Choice string  `json:"choice"`
}

// TemplateChoice is one bubble position supplied by an external calibration
// or alignment service. A zero radius falls back to a fixed pixel radius.
type TemplateChoice struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// TemplateQuestion holds the externally measured bubble positions for one
// question, in choice order.
type TemplateQuestion struct {
	Choices []TemplateChoice `json:"choices"`
}

// templateRadiusPx is the sampling radius used for template bubbles that do
// not carry their own.
const templateRadiusPx = 10

// ResolveGrid computes bubble coordinates for every question from the page
// dimensions alone, assuming the printed sheet layout: the answers region is
// split into a columns x rows cell grid, questions fill down each column
// before moving right (column-major), and each cell holds the choice bubbles
// in a horizontal row. The returned slice is indexed by question.
func ResolveGrid(pageWidth, pageHeight, totalQuestions, columns int, cfg Config) [][]BubbleCoordinate {
	cfg = cfg.withDefaults()
	if columns < 1 {
		columns = 1
	}
	rows := (totalQuestions + columns - 1) / columns

	region := cfg.AnswersBlockRegion
	marginX := math.Floor(float64(pageWidth) * region.X)
	marginY := math.Floor(float64(pageHeight) * region.Y)
	usableW := math.Floor(float64(pageWidth) * region.W)
	usableH := math.Floor(float64(pageHeight) * region.H)

	cellW := usableW / float64(columns)
	cellH := usableH / float64(rows)
	radius := math.Max(5, math.Round(math.Min(cellW, cellH)*cfg.SampleRadiusFraction))

	numChoices := len(cfg.Choices)
	spacing := math.Min(cellW*0.8, cellH*0.8) / (float64(numChoices) + 0.5)

	grid := make([][]BubbleCoordinate, totalQuestions)
	for q := 0; q < totalQuestions; q++ {
		col := q / rows
		row := q % rows
		baseX := marginX + float64(col)*cellW + cellW*0.5
		baseY := marginY + float64(row)*cellH + cellH*0.5
		startX := baseX - float64(numChoices-1)*spacing/2

		bubbles := make([]BubbleCoordinate, numChoices)
		for c := 0; c < numChoices; c++ {
			bubbles[c] = BubbleCoordinate{
				X:      startX + float64(c)*spacing,
				Y:      baseY,
				R:      radius,
				Choice: cfg.Choices[c],
			}
		}
		grid[q] = bubbles
	}
	return grid
}
