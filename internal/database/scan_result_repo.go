package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jalan-exam/scanserver/internal/models"
)

type ScanResultRepository struct {
	db *DB
}

func NewScanResultRepository(db *DB) *ScanResultRepository {
	return &ScanResultRepository{db: db}
}

func (r *ScanResultRepository) Insert(ctx context.Context, result *models.ScanResult) error {
	if result.Answers == nil {
		result.Answers = []string{}
	}
	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO scan_results (id, answer_key_id, student_number, username, answers, score, total_questions, page, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if r.db.dbType == "postgres" {
		query = `
		INSERT INTO scan_results (id, answer_key_id, student_number, username, answers, score, total_questions, page, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	}

	_, err = r.db.conn.ExecContext(ctx, query,
		result.ID,
		result.AnswerKeyID,
		result.StudentNumber,
		result.Username,
		string(answersJSON),
		result.Score,
		result.TotalQuestions,
		result.Page,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan result: %w", err)
	}
	return nil
}

// ListByAnswerKey returns all graded pages for one exam, newest first.
func (r *ScanResultRepository) ListByAnswerKey(ctx context.Context, answerKeyID string) ([]*models.ScanResult, error) {
	query := `
		SELECT id, answer_key_id, student_number, username, answers, score, total_questions, page, created_at
		FROM scan_results WHERE answer_key_id = ? ORDER BY created_at DESC`
	if r.db.dbType == "postgres" {
		query = `
		SELECT id, answer_key_id, student_number, username, answers, score, total_questions, page, created_at
		FROM scan_results WHERE answer_key_id = $1 ORDER BY created_at DESC`
	}

	rows, err := r.db.conn.QueryContext(ctx, query, answerKeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan results: %w", err)
	}
	defer rows.Close()

	var results []*models.ScanResult
	for rows.Next() {
		result := &models.ScanResult{}
		var answersJSON string
		if err := rows.Scan(
			&result.ID,
			&result.AnswerKeyID,
			&result.StudentNumber,
			&result.Username,
			&answersJSON,
			&result.Score,
			&result.TotalQuestions,
			&result.Page,
			&result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		if err := json.Unmarshal([]byte(answersJSON), &result.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// ListUnknownNumbers returns the UNKNOWN-labeled student numbers already
// assigned for an exam, so new pages get fresh labels.
func (r *ScanResultRepository) ListUnknownNumbers(ctx context.Context, answerKeyID string) ([]string, error) {
	query := `
		SELECT student_number FROM scan_results
		WHERE answer_key_id = ? AND student_number LIKE 'UNKNOWN%'`
	if r.db.dbType == "postgres" {
		query = `
		SELECT student_number FROM scan_results
		WHERE answer_key_id = $1 AND student_number LIKE 'UNKNOWN%'`
	}

	rows, err := r.db.conn.QueryContext(ctx, query, answerKeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unknown student numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan student number: %w", err)
		}
		numbers = append(numbers, number)
	}
	return numbers, rows.Err()
}

// UpdateStudent reassigns a result to a corrected student number, used when
// an operator fixes an unreadable or misread ID.
func (r *ScanResultRepository) UpdateStudent(ctx context.Context, id, studentNumber, username string) error {
	query := "UPDATE scan_results SET student_number = ?, username = ? WHERE id = ?"
	if r.db.dbType == "postgres" {
		query = "UPDATE scan_results SET student_number = $1, username = $2 WHERE id = $3"
	}

	result, err := r.db.conn.ExecContext(ctx, query, studentNumber, username, id)
	if err != nil {
		return fmt.Errorf("failed to update scan result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("scan result %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountByAnswerKey reports how many pages have been scanned for an exam.
func (r *ScanResultRepository) CountByAnswerKey(ctx context.Context, answerKeyID string) (int, error) {
	query := "SELECT COUNT(*) FROM scan_results WHERE answer_key_id = ?"
	if r.db.dbType == "postgres" {
		query = "SELECT COUNT(*) FROM scan_results WHERE answer_key_id = $1"
	}

	var count int
	if err := r.db.conn.QueryRowContext(ctx, query, answerKeyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scan results: %w", err)
	}
	return count, nil
}
