package omr

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
)

var (
	// ErrInvalidInput marks validation failures that abort a page decode.
	ErrInvalidInput = errors.New("invalid input")
	// ErrGeometryMismatch marks a template that cannot cover every question.
	// Silent truncation would misalign answers against the stored key, so
	// this always fails the page.
	ErrGeometryMismatch = errors.New("geometry mismatch")
)

const (
	minQuestions = 1
	maxQuestions = 1000

	defaultColumns = 4
)

// QuestionResult is the per-question decode detail: the final answer plus
// the raw darkness score of every choice, for audit and manual review.
type QuestionResult struct {
	Index        int           `json:"index"`
	FinalAnswer  string        `json:"final_answer"`
	ChoiceScores []ChoiceScore `json:"choice_scores"`
}

// DecodeResult is the outcome of decoding one page. Answers always has one
// entry per question, index-aligned with the stored answer key; unanswered
// questions hold the empty string. StudentNumber is empty when the ID block
// could not be read.
type DecodeResult struct {
	StudentNumber string           `json:"student_number"`
	Answers       []string         `json:"answers"`
	Detail        []QuestionResult `json:"detail"`
}

// Decoder runs the full page pipeline: normalize, resolve geometry, sample
// every bubble, decide every answer, and read the student number. A Decoder
// holds no per-page state, so one instance may decode any number of pages.
type Decoder struct {
	cfg Config
	pre Preprocessor
}

// NewDecoder returns a Decoder with zero-valued config fields replaced by
// defaults. pre is an optional external pixel-preprocessing capability run
// before normalization; pass nil to skip it.
func NewDecoder(cfg Config, pre Preprocessor) *Decoder {
	return &Decoder{cfg: cfg.withDefaults(), pre: pre}
}

// Config returns the effective configuration the decoder operates with.
func (d *Decoder) Config() Config {
	return d.cfg
}

// Process decodes one rasterized page. template, when non-nil, supplies
// externally measured bubble coordinates and bypasses grid inference; it
// must cover at least totalQuestions questions. columns selects the printed
// column count for the grid fallback; values below 1 use the standard
// four-column sheet.
//
// Input validation failures abort the page. Image-quality problems never
// do: preprocessing and ID reading degrade to skipped/empty instead.
func (d *Decoder) Process(img image.Image, totalQuestions int, template []TemplateQuestion, columns int) (*DecodeResult, error) {
	if totalQuestions < minQuestions || totalQuestions > maxQuestions {
		return nil, fmt.Errorf("%w: total questions must be between %d and %d, got %d",
			ErrInvalidInput, minQuestions, maxQuestions, totalQuestions)
	}
	if columns < 1 {
		columns = defaultColumns
	}

	bounds := img.Bounds()
	pageW := bounds.Dx()
	pageH := bounds.Dy()
	region := d.cfg.AnswersBlockRegion
	if math.Floor(float64(pageW)*region.W) <= 0 || math.Floor(float64(pageH)*region.H) <= 0 {
		return nil, fmt.Errorf("%w: answers region %+v is degenerate for a %dx%d page",
			ErrInvalidInput, region, pageW, pageH)
	}

	if template != nil && len(template) < totalQuestions {
		return nil, fmt.Errorf("%w: template covers %d questions, need %d",
			ErrGeometryMismatch, len(template), totalQuestions)
	}

	if d.pre != nil {
		enhanced, err := d.pre.Enhance(img)
		if err != nil {
			if d.cfg.Debug {
				log.Printf("omr: preprocessing skipped: %v", err)
			}
		} else if enhanced != nil {
			img = enhanced
		}
	}
	page := Normalize(img)

	result := &DecodeResult{
		StudentNumber: DecodeStudentID(page, d.cfg),
		Answers:       make([]string, totalQuestions),
		Detail:        make([]QuestionResult, totalQuestions),
	}

	var grid [][]BubbleCoordinate
	if template != nil {
		grid = d.templateGrid(template, totalQuestions)
	} else {
		grid = ResolveGrid(pageW, pageH, totalQuestions, columns, d.cfg)
	}

	for q := 0; q < totalQuestions; q++ {
		bubbles := grid[q]
		scores := make([]ChoiceScore, len(bubbles))
		for c, b := range bubbles {
			scores[c] = ChoiceScore{
				Choice: b.Choice,
				Score:  SampleDarkness(page, b.X, b.Y, b.R),
			}
		}
		final := Decide(scores, d.cfg)
		result.Answers[q] = final
		result.Detail[q] = QuestionResult{Index: q, FinalAnswer: final, ChoiceScores: scores}
		if d.cfg.Debug && q < 10 {
			log.Printf("omr: q%d scores=%v final=%q", q+1, scores, final)
		}
	}

	return result, nil
}

// templateGrid maps externally supplied coordinates into bubble coordinates,
// attaching choice symbols by position. Extra template entries beyond
// totalQuestions are ignored.
func (d *Decoder) templateGrid(template []TemplateQuestion, totalQuestions int) [][]BubbleCoordinate {
	grid := make([][]BubbleCoordinate, totalQuestions)
	for q := 0; q < totalQuestions; q++ {
		tpl := template[q]
		bubbles := make([]BubbleCoordinate, len(tpl.Choices))
		for c, ch := range tpl.Choices {
			radius := ch.R
			if radius <= 0 {
				radius = templateRadiusPx
			}
			choice := fmt.Sprintf("?%d", c)
			if c < len(d.cfg.Choices) {
				choice = d.cfg.Choices[c]
			}
			bubbles[c] = BubbleCoordinate{X: ch.X, Y: ch.Y, R: radius, Choice: choice}
		}
		grid[q] = bubbles
	}
	return grid
}
