// Package scanning runs one uploaded sheet batch end to end: rasterize each
// PDF page, decode its marks, grade against the approved answer key, and
// persist a result row per page.
package scanning

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/jalan-exam/scanserver/internal/database"
	"github.com/jalan-exam/scanserver/internal/models"
	"github.com/jalan-exam/scanserver/internal/omr"
	"github.com/jalan-exam/scanserver/internal/scoring"
	"github.com/jalan-exam/scanserver/internal/storage"
)

// PageRenderer turns one page of a stored PDF into a raster the decoder can
// read. Implemented by pdfrender.Renderer.
type PageRenderer interface {
	CountPages(ctx context.Context, pdfPath string) (int, error)
	RenderPage(ctx context.Context, pdfPath string, page int) (image.Image, error)
}

// PageOutcome reports what happened to a single page of a batch.
type PageOutcome struct {
	Page          int      `json:"page"`
	StudentNumber string   `json:"student_number,omitempty"`
	Username      string   `json:"username,omitempty"`
	Score         int      `json:"score"`
	Answers       []string `json:"answers,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// BatchSummary is the result of scanning one uploaded PDF.
type BatchSummary struct {
	AnswerKeyID string        `json:"answer_key_id"`
	TotalPages  int           `json:"total_pages"`
	Processed   int           `json:"processed"`
	Failed      int           `json:"failed"`
	Results     []PageOutcome `json:"results"`
}

type Service struct {
	renderer    PageRenderer
	decoder     *omr.Decoder
	keyRepo     *database.AnswerKeyRepository
	resultRepo  *database.ScanResultRepository
	studentRepo *database.StudentRepository
	storage     storage.Storage
}

func NewService(
	renderer PageRenderer,
	decoder *omr.Decoder,
	keyRepo *database.AnswerKeyRepository,
	resultRepo *database.ScanResultRepository,
	studentRepo *database.StudentRepository,
	storageService storage.Storage,
) *Service {
	return &Service{
		renderer:    renderer,
		decoder:     decoder,
		keyRepo:     keyRepo,
		resultRepo:  resultRepo,
		studentRepo: studentRepo,
		storage:     storageService,
	}
}

// ScanBatch decodes and grades every page of a stored PDF against the given
// answer key. Pages are processed strictly in order, one at a time; a page
// that fails to render or decode is reported in the summary and skipped,
// without affecting the remaining pages. Pages whose student number could
// not be read receive unique UNKNOWN labels, continuing the numbering from
// earlier batches for the same exam.
func (s *Service) ScanBatch(ctx context.Context, answerKeyID, storedFile string, columns int, template []omr.TemplateQuestion) (*BatchSummary, error) {
	key, err := s.keyRepo.GetByID(ctx, answerKeyID)
	if err != nil {
		return nil, fmt.Errorf("getting answer key: %w", err)
	}
	if !key.Scannable() {
		return nil, fmt.Errorf("answer key %s is %s; only approved keys can be scanned", key.ExamCode, key.Status)
	}

	pdfPath, err := s.storage.FilePath(storedFile)
	if err != nil {
		return nil, fmt.Errorf("resolving upload: %w", err)
	}

	totalPages, err := s.renderer.CountPages(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	existing, err := s.resultRepo.ListUnknownNumbers(ctx, answerKeyID)
	if err != nil {
		return nil, fmt.Errorf("listing unknown labels: %w", err)
	}
	nextUnknown := nextUnknownSuffix(existing)

	summary := &BatchSummary{
		AnswerKeyID: answerKeyID,
		TotalPages:  totalPages,
		Results:     make([]PageOutcome, 0, totalPages),
	}

	for page := 1; page <= totalPages; page++ {
		img, err := s.renderer.RenderPage(ctx, pdfPath, page)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, PageOutcome{Page: page, Error: fmt.Sprintf("render: %v", err)})
			log.Printf("Scan page %d of %s failed to render: %v", page, key.ExamCode, err)
			continue
		}

		decoded, err := s.decoder.Process(img, key.TotalQuestions, template, columns)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, PageOutcome{Page: page, Error: fmt.Sprintf("decode: %v", err)})
			log.Printf("Scan page %d of %s failed to decode: %v", page, key.ExamCode, err)
			continue
		}

		score := scoring.Score(decoded.Answers, key.Answers)

		studentNumber := decoded.StudentNumber
		username := ""
		if studentNumber == "" {
			studentNumber = unknownLabel(nextUnknown)
			nextUnknown++
		} else if student, err := s.studentRepo.GetByNumber(ctx, studentNumber); err == nil {
			username = student.Username
		} else if !errors.Is(err, database.ErrNotFound) {
			log.Printf("Roster lookup for %s failed: %v", studentNumber, err)
		}

		result := models.NewScanResult(answerKeyID, studentNumber, username, decoded.Answers, score, key.TotalQuestions, page)
		if err := s.resultRepo.Insert(ctx, result); err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, PageOutcome{Page: page, Error: fmt.Sprintf("persist: %v", err)})
			log.Printf("Scan page %d of %s failed to persist: %v", page, key.ExamCode, err)
			continue
		}

		summary.Processed++
		summary.Results = append(summary.Results, PageOutcome{
			Page:          page,
			StudentNumber: studentNumber,
			Username:      username,
			Score:         score,
			Answers:       decoded.Answers,
		})
	}

	return summary, nil
}

// ReassignStudent corrects the student number on a stored result, resolving
// the roster username for the new number when available.
func (s *Service) ReassignStudent(ctx context.Context, resultID, studentNumber string) error {
	username := ""
	if student, err := s.studentRepo.GetByNumber(ctx, studentNumber); err == nil {
		username = student.Username
	} else if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("roster lookup: %w", err)
	}
	return s.resultRepo.UpdateStudent(ctx, resultID, studentNumber, username)
}
