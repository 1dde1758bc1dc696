package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jalan-exam/scanserver/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type AnswerKeyRepository struct {
	db *DB
}

func NewAnswerKeyRepository(db *DB) *AnswerKeyRepository {
	return &AnswerKeyRepository{db: db}
}

func (r *AnswerKeyRepository) Insert(ctx context.Context, key *models.AnswerKey) error {
	answersJSON, err := json.Marshal(key.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO answer_keys (id, exam_code, teacher_name, answers, total_questions, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if r.db.dbType == "postgres" {
		query = `
		INSERT INTO answer_keys (id, exam_code, teacher_name, answers, total_questions, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	}

	_, err = r.db.conn.ExecContext(ctx, query,
		key.ID,
		key.ExamCode,
		key.TeacherName,
		string(answersJSON),
		key.TotalQuestions,
		key.Status,
		key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert answer key: %w", err)
	}
	return nil
}

func (r *AnswerKeyRepository) GetByID(ctx context.Context, id string) (*models.AnswerKey, error) {
	query := `
		SELECT id, exam_code, teacher_name, answers, total_questions, status, created_at
		FROM answer_keys WHERE id = ?`
	if r.db.dbType == "postgres" {
		query = `
		SELECT id, exam_code, teacher_name, answers, total_questions, status, created_at
		FROM answer_keys WHERE id = $1`
	}

	key, err := scanAnswerKey(r.db.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("answer key %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get answer key: %w", err)
	}
	return key, nil
}

// List returns answer keys newest first, optionally filtered by status.
func (r *AnswerKeyRepository) List(ctx context.Context, status string) ([]*models.AnswerKey, error) {
	query := `
		SELECT id, exam_code, teacher_name, answers, total_questions, status, created_at
		FROM answer_keys`
	var args []interface{}
	if status != "" {
		if r.db.dbType == "postgres" {
			query += " WHERE status = $1"
		} else {
			query += " WHERE status = ?"
		}
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list answer keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.AnswerKey
	for rows.Next() {
		key, err := scanAnswerKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// UpdateStatus moves a key through its pending/approved/archived lifecycle.
func (r *AnswerKeyRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := "UPDATE answer_keys SET status = ? WHERE id = ?"
	if r.db.dbType == "postgres" {
		query = "UPDATE answer_keys SET status = $1 WHERE id = $2"
	}

	result, err := r.db.conn.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update answer key status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("answer key %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnswerKey(row rowScanner) (*models.AnswerKey, error) {
	key := &models.AnswerKey{}
	var answersJSON string
	if err := row.Scan(
		&key.ID,
		&key.ExamCode,
		&key.TeacherName,
		&answersJSON,
		&key.TotalQuestions,
		&key.Status,
		&key.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &key.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	return key, nil
}
