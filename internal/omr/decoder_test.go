package omr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"
)

func TestProcessRejectsQuestionCountOutOfRange(t *testing.T) {
	dec := NewDecoder(DefaultConfig(), nil)
	page := whitePage(1000, 1400)

	for _, total := range []int{0, -5, 1001} {
		_, err := dec.Process(page, total, nil, 4)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("totalQuestions=%d: expected ErrInvalidInput, got %v", total, err)
		}
	}
}

func TestProcessRejectsDegenerateAnswersRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnswersBlockRegion = Region{X: 0.06, Y: 0.32, W: 0, H: 0.62}
	dec := NewDecoder(cfg, nil)

	_, err := dec.Process(whitePage(1000, 1400), 10, nil, 4)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero-area region, got %v", err)
	}
}

func TestProcessRejectsShortTemplate(t *testing.T) {
	dec := NewDecoder(DefaultConfig(), nil)
	template := []TemplateQuestion{
		{Choices: []TemplateChoice{{X: 10, Y: 10, R: 5}}},
		{Choices: []TemplateChoice{{X: 10, Y: 30, R: 5}}},
	}

	_, err := dec.Process(whitePage(1000, 1400), 5, template, 4)
	if !errors.Is(err, ErrGeometryMismatch) {
		t.Errorf("expected ErrGeometryMismatch for short template, got %v", err)
	}
}

func TestProcessAnswersAlwaysIndexAligned(t *testing.T) {
	dec := NewDecoder(DefaultConfig(), nil)
	page := whitePage(1000, 1400)

	for _, total := range []int{1, 7, 100} {
		t.Run(fmt.Sprintf("questions=%d", total), func(t *testing.T) {
			result, err := dec.Process(page, total, nil, 4)
			if err != nil {
				t.Fatalf("Process failed: %v", err)
			}
			if len(result.Answers) != total {
				t.Fatalf("expected %d answers, got %d", total, len(result.Answers))
			}
			if len(result.Detail) != total {
				t.Fatalf("expected %d detail entries, got %d", total, len(result.Detail))
			}
			for i, ans := range result.Answers {
				if ans != "" {
					t.Errorf("blank page answer %d should be empty, got %q", i, ans)
				}
				if result.Detail[i].Index != i {
					t.Errorf("detail %d carries index %d", i, result.Detail[i].Index)
				}
			}
		})
	}
}

func TestProcessBlankPageRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	dec := NewDecoder(cfg, nil)

	// A rendered all-blank sheet with a stamped identifier must come back
	// with exactly that identifier and no detected answers.
	page := whitePage(1000, 1400)
	stampStudentID(page, cfg, []int{2, 0, 2, 5, 0, 0, 0, 1, 2, 3, 4})

	result, err := dec.Process(page, 50, nil, 4)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.StudentNumber != "20250001234" {
		t.Errorf("expected student number 20250001234, got %q", result.StudentNumber)
	}
	for i, ans := range result.Answers {
		if ans != "" {
			t.Errorf("question %d should be unanswered, got %q", i+1, ans)
		}
	}
}

func TestProcessGridSingleMark(t *testing.T) {
	cfg := DefaultConfig()
	dec := NewDecoder(cfg, nil)

	page := whitePage(1000, 1400)
	stampAnswer(page, cfg, 12, 4, 5, 1) // question 6, choice B

	result, err := dec.Process(page, 12, nil, 4)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Answers[5] != "B" {
		t.Errorf("expected question 6 = B, got %q", result.Answers[5])
	}
	for i, ans := range result.Answers {
		if i != 5 && ans != "" {
			t.Errorf("question %d should be blank, got %q", i+1, ans)
		}
	}

	detail := result.Detail[5]
	if detail.FinalAnswer != "B" {
		t.Errorf("detail final answer mismatch: %q", detail.FinalAnswer)
	}
	if len(detail.ChoiceScores) != len(cfg.Choices) {
		t.Errorf("expected %d choice scores, got %d", len(cfg.Choices), len(detail.ChoiceScores))
	}
	if detail.ChoiceScores[1].Score < cfg.FillThreshold {
		t.Errorf("marked bubble should clear the fill threshold, got %v", detail.ChoiceScores[1].Score)
	}
}

func TestProcessGridDoubleMark(t *testing.T) {
	cfg := DefaultConfig()
	dec := NewDecoder(cfg, nil)

	page := whitePage(1000, 1400)
	stampAnswer(page, cfg, 12, 4, 2, 0) // question 3, choice A
	stampAnswer(page, cfg, 12, 4, 2, 2) // question 3, choice C

	result, err := dec.Process(page, 12, nil, 4)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Answers[2] != "A,C" {
		t.Errorf("expected double mark A,C, got %q", result.Answers[2])
	}
}

func TestProcessTemplatePath(t *testing.T) {
	cfg := DefaultConfig()
	dec := NewDecoder(cfg, nil)

	// Bubble positions nowhere near the grid layout: the template must be
	// honored verbatim.
	template := make([]TemplateQuestion, 3)
	for q := range template {
		choices := make([]TemplateChoice, 4)
		for c := range choices {
			choices[c] = TemplateChoice{
				X: 700 + float64(c)*60,
				Y: 1000 + float64(q)*80,
				R: 12,
			}
		}
		template[q] = TemplateQuestion{Choices: choices}
	}

	page := whitePage(1000, 1400)
	fillCircle(page, template[0].Choices[3].X, template[0].Choices[3].Y, 16, color.Black) // q1 = D
	fillCircle(page, template[2].Choices[0].X, template[2].Choices[0].Y, 16, color.Black) // q3 = A

	result, err := dec.Process(page, 3, template, 4)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := []string{"D", "", "A"}
	for i, expected := range want {
		if result.Answers[i] != expected {
			t.Errorf("question %d: expected %q, got %q", i+1, expected, result.Answers[i])
		}
	}
}

func TestProcessTemplateDefaultRadius(t *testing.T) {
	cfg := DefaultConfig()
	dec := NewDecoder(cfg, nil)

	// Template entries without a radius sample at the fixed pixel default.
	template := []TemplateQuestion{
		{Choices: []TemplateChoice{
			{X: 500, Y: 1000},
			{X: 560, Y: 1000},
		}},
	}

	page := whitePage(1000, 1400)
	fillCircle(page, 560, 1000, 14, color.Black)

	result, err := dec.Process(page, 1, template, 4)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Answers[0] != "B" {
		t.Errorf("expected B, got %q", result.Answers[0])
	}
}

type countingPreprocessor struct {
	calls int
}

func (p *countingPreprocessor) Enhance(img image.Image) (image.Image, error) {
	p.calls++
	return img, nil
}

func TestProcessWithPreprocessor(t *testing.T) {
	pre := &countingPreprocessor{}
	dec := NewDecoder(DefaultConfig(), pre)
	page := whitePage(1000, 1400)

	if _, err := dec.Process(page, 5, nil, 4); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if pre.calls != 1 {
		t.Errorf("expected one preprocessor call, got %d", pre.calls)
	}
}

func TestProcessPreprocessorFailureDegrades(t *testing.T) {
	cfg := DefaultConfig()
	failing := NewLazyPreprocessor(func() (Preprocessor, error) {
		return nil, errors.New("runtime unavailable")
	})
	dec := NewDecoder(cfg, failing)

	page := whitePage(1000, 1400)
	stampStudentID(page, cfg, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1})

	// A broken preprocessing capability degrades quality, never the decode.
	result, err := dec.Process(page, 5, nil, 4)
	if err != nil {
		t.Fatalf("Process should not fail on preprocessor errors: %v", err)
	}
	if result.StudentNumber != "12345678901" {
		t.Errorf("expected student number 12345678901, got %q", result.StudentNumber)
	}
}
